package users

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOTP(t *testing.T) {
	secret, err := NewOTPSecret("a@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, secret)

	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	code, err := OTPCode(secret, now)
	require.NoError(t, err)
	assert.Len(t, code, 6)

	assert.True(t, ValidOTP(code, secret, now))
	assert.True(t, ValidOTP(code, secret, now.Add(9*time.Minute)))
	assert.False(t, ValidOTP(code, secret, now.Add(25*time.Minute)))
	assert.False(t, ValidOTP("", secret, now))

	other, err := NewOTPSecret("b@example.com")
	require.NoError(t, err)
	assert.False(t, ValidOTP(code, other, now))
}
