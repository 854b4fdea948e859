package helpers

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
)

func NormalizeHex0x(s string) string {
	if s == "" {
		return ""
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return "0x" + s[2:]
	}
	return "0x" + s
}

// ParseAddress accepts a hex address with or without the 0x prefix.
func ParseAddress(raw string) (common.Address, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return common.Address{}, errors.New("address is empty")
	}
	s = NormalizeHex0x(s)
	if !common.IsHexAddress(s) {
		return common.Address{}, errors.Newf("invalid address %q", raw)
	}
	return common.HexToAddress(s), nil
}

func ZeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
