package users

import (
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

var ErrInvalidWallet = errors.New("invalid wallet address")

// Chains whose addresses are 20-byte hex accounts.
var evmChains = map[string]bool{
	"ethereum": true,
	"polygon":  true,
	"base":     true,
	"arbitrum": true,
	"optimism": true,
	"bsc":      true,
}

func IsEVMChain(chain string) bool {
	return evmChains[strings.ToLower(strings.TrimSpace(chain))]
}

// NormalizeWalletAddress returns the EIP-55 checksummed form of an EVM
// address. Addresses on other chains are trimmed and returned as-is.
func NormalizeWalletAddress(chain, address string) (string, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return "", ErrInvalidWallet
	}
	if !IsEVMChain(chain) {
		return address, nil
	}
	if !common.IsHexAddress(address) {
		return "", ErrInvalidWallet
	}
	addr := common.HexToAddress(address)
	if addr == (common.Address{}) {
		return "", ErrInvalidWallet
	}
	return addr.Hex(), nil
}
