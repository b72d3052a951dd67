package users

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeWalletAddress(t *testing.T) {
	t.Run("checksums evm addresses", func(t *testing.T) {
		got, err := NormalizeWalletAddress("Ethereum", " 0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed ")
		require.NoError(t, err)
		assert.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", got)
	})

	t.Run("rejects malformed evm addresses", func(t *testing.T) {
		for _, in := range []string{"", "0x123", "not-an-address", "0x0000000000000000000000000000000000000000"} {
			_, err := NormalizeWalletAddress("polygon", in)
			assert.ErrorIs(t, err, ErrInvalidWallet, in)
		}
	})

	t.Run("passes other chains through", func(t *testing.T) {
		got, err := NormalizeWalletAddress("solana", "  4Nd1mBQtrMJVYVfKf2PJy9NZUZdTAsp7D4xWLs4gDB4T ")
		require.NoError(t, err)
		assert.Equal(t, "4Nd1mBQtrMJVYVfKf2PJy9NZUZdTAsp7D4xWLs4gDB4T", got)
	})
}

func TestReferralCodeFor(t *testing.T) {
	assert.Equal(t, "3f2504e0", ReferralCodeFor("3f2504e0-4f89-11d3-9a0c-0305e82c3301"))
	assert.Equal(t, "ab", ReferralCodeFor("AB"))
	assert.Equal(t, "ab", NormalizeReferralCode("  Ab "))
}
