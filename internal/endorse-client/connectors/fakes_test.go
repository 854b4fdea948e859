package connectors

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/nwr-dao/endorse-client/internal/endorse-client/chains"
)

var contractAddr = common.HexToAddress("0xAa8155FE44F791EAFd06933cA76119D9d62E9DE0")

type fakeChain struct {
	chains.Backend
	chainID int64
}

func (f *fakeChain) ChainID(context.Context) (*big.Int, error) { return big.NewInt(f.chainID), nil }

func unsignedTx(chainID int64) *types.Transaction {
	return types.NewTx(&types.DynamicFeeTx{
		ChainID:   big.NewInt(chainID),
		Nonce:     7,
		GasTipCap: big.NewInt(2_000_000_000),
		GasFeeCap: big.NewInt(40_000_000_000),
		Gas:       60_000,
		To:        &contractAddr,
		Value:     big.NewInt(0),
		Data:      []byte{0x67, 0x66, 0xf1, 0x51},
	})
}
