package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"web3builder/internal/testutil"
)

func TestAnalyticsService(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewAnalyticsService(db)
	ctx := context.Background()

	day1 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	day2 := day1.Add(24 * time.Hour)

	require.NoError(t, svc.RecordView(ctx, "w1", day1, true))
	require.NoError(t, svc.RecordView(ctx, "w1", day1.Add(3*time.Hour), false))
	require.NoError(t, svc.RecordView(ctx, "w1", day1.Add(5*time.Hour), true))
	require.NoError(t, svc.RecordView(ctx, "w1", day2, true))
	require.NoError(t, svc.RecordView(ctx, "w2", day1, true))

	t.Run("views are bucketed per day", func(t *testing.T) {
		rows, err := svc.Daily(ctx, "w1", day1.AddDate(0, 0, -7))
		require.NoError(t, err)
		require.Len(t, rows, 2)

		assert.Equal(t, 3, rows[0].Views)
		assert.Equal(t, 2, rows[0].UniqueVisitors)
		assert.Equal(t, 1, rows[1].Views)
		assert.Equal(t, 1, rows[1].UniqueVisitors)
	})

	t.Run("since filters older days", func(t *testing.T) {
		rows, err := svc.Daily(ctx, "w1", day2)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, 1, rows[0].Views)
	})
}

func TestDay(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	got := Day(time.Date(2026, 3, 2, 1, 30, 0, 0, loc))
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), got)
}
