// Package networks knows the chains the endorsement contract lives on and
// probes arbitrary RPC endpoints for their identity.
package networks

import (
	"math/big"
	"strings"

	"github.com/nwr-dao/endorse-client/internal/endorse-client/constants"
)

type Known struct {
	Name     string `json:"name"`
	Explorer string `json:"explorer"`
	Currency string `json:"currency"`
	// Contract is set for chains the endorsement contract is deployed on.
	Contract bool `json:"contract"`
}

var known = map[uint64]Known{
	constants.PolygonChainID: {"polygon", "https://polygonscan.com", "POL", true},
	constants.BSCChainID:     {"bsc", "https://bscscan.com", "BNB", true},

	1:        {"mainnet", "https://etherscan.io", "ETH", false},
	11155111: {"sepolia", "https://sepolia.etherscan.io", "ETH", false},
	42161:    {"arbitrum", "https://arbiscan.io", "ETH", false},
	10:       {"optimism", "https://optimistic.etherscan.io", "ETH", false},
	8453:     {"base", "https://basescan.org", "ETH", false},
	97:       {"bsc-testnet", "https://testnet.bscscan.com", "tBNB", false},
	80002:    {"polygon-amoy", "https://amoy.polygonscan.com", "POL", false},
}

func Lookup(chainID *big.Int) (Known, bool) {
	if chainID == nil || !chainID.IsUint64() {
		return Known{}, false
	}
	k, ok := known[chainID.Uint64()]
	return k, ok
}

func LookupName(name string) (uint64, Known, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for id, k := range known {
		if k.Name == name {
			return id, k, true
		}
	}
	return 0, Known{}, false
}

// TxURL links a transaction on the chain's explorer, or returns "" for unknown chains.
func TxURL(chainID *big.Int, txHash string) string {
	k, ok := Lookup(chainID)
	if !ok || txHash == "" {
		return ""
	}
	return k.Explorer + "/tx/" + txHash
}

func AddressURL(chainID *big.Int, addr string) string {
	k, ok := Lookup(chainID)
	if !ok || addr == "" {
		return ""
	}
	return k.Explorer + "/address/" + addr
}
