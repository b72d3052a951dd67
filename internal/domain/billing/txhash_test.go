package billing

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTxHash(t *testing.T) {
	valid := "0x" + strings.Repeat("AB", 32)

	t.Run("evm hash is lower-cased", func(t *testing.T) {
		got, err := NormalizeTxHash("ethereum", valid)
		require.NoError(t, err)
		assert.Equal(t, "0x"+strings.Repeat("ab", 32), got)
	})

	t.Run("evm hash must be 32 bytes", func(t *testing.T) {
		for _, in := range []string{"", "0x", "0x1234", strings.Repeat("ab", 32), "0x" + strings.Repeat("zz", 32)} {
			_, err := NormalizeTxHash("polygon", in)
			assert.ErrorIs(t, err, ErrInvalidTxHash, in)
		}
	})

	t.Run("non evm chains only need a token", func(t *testing.T) {
		got, err := NormalizeTxHash("solana", " 5VERv8NMvzbJMEkV8xnrLkEaWRtSz9CosKDYjCJjBRnbJLgp8uirBgmQpjKhoR4tjF3ZpRzrFmBV6UjKdiSZkQUW ")
		require.NoError(t, err)
		assert.Equal(t, "5VERv8NMvzbJMEkV8xnrLkEaWRtSz9CosKDYjCJjBRnbJLgp8uirBgmQpjKhoR4tjF3ZpRzrFmBV6UjKdiSZkQUW", got)

		_, err = NormalizeTxHash("solana", "has space")
		assert.ErrorIs(t, err, ErrInvalidTxHash)
	})
}

func TestUserSubscriptionActiveAt(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.True(t, UserSubscription{Status: SubscriptionActive}.ActiveAt(now))
	assert.True(t, UserSubscription{Status: SubscriptionActive, EndDate: &future}.ActiveAt(now))
	assert.False(t, UserSubscription{Status: SubscriptionActive, EndDate: &past}.ActiveAt(now))
	assert.False(t, UserSubscription{Status: SubscriptionCanceled}.ActiveAt(now))
}
