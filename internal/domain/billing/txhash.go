package billing

import (
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"web3builder/internal/domain/users"
)

var ErrInvalidTxHash = errors.New("invalid transaction hash")

// NormalizeTxHash validates a transaction hash for the given chain. EVM hashes
// must be 0x-prefixed 32-byte hex and come back lower-cased. Other chains only
// need a non-empty value without whitespace.
func NormalizeTxHash(chain, hash string) (string, error) {
	hash = strings.TrimSpace(hash)
	if hash == "" || strings.ContainsAny(hash, " \t\n") {
		return "", ErrInvalidTxHash
	}
	if !users.IsEVMChain(chain) {
		return hash, nil
	}

	b, err := hexutil.Decode(strings.ToLower(hash))
	if err != nil || len(b) != 32 {
		return "", ErrInvalidTxHash
	}
	return hexutil.Encode(b), nil
}
