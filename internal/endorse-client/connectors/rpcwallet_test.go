package connectors

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWallet serves the eth_* account namespace of a browser wallet.
type fakeWallet struct {
	key          *ecdsa.PrivateKey
	signKey      *ecdsa.PrivateKey
	chainID      *big.Int
	denyRequest  bool
	noAccounts   bool
	objectResult bool
}

func (f *fakeWallet) RequestAccounts() ([]common.Address, error) {
	if f.denyRequest {
		return nil, errors.New("method not supported")
	}
	return f.Accounts(), nil
}

func (f *fakeWallet) Accounts() []common.Address {
	if f.noAccounts {
		return []common.Address{}
	}
	return []common.Address{crypto.PubkeyToAddress(f.key.PublicKey)}
}

func (f *fakeWallet) ChainId() *hexutil.Big {
	return (*hexutil.Big)(f.chainID)
}

func (f *fakeWallet) SignTransaction(args signTxArgs) (interface{}, error) {
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   args.ChainID.ToInt(),
		Nonce:     uint64(args.Nonce),
		GasTipCap: args.MaxPriorityFeePerGas.ToInt(),
		GasFeeCap: args.MaxFeePerGas.ToInt(),
		Gas:       uint64(args.Gas),
		To:        args.To,
		Value:     args.Value.ToInt(),
		Data:      args.Input,
	})
	key := f.key
	if f.signKey != nil {
		key = f.signKey
	}
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(f.chainID), key)
	if err != nil {
		return nil, err
	}
	raw, err := signed.MarshalBinary()
	if err != nil {
		return nil, err
	}
	if f.objectResult {
		return map[string]interface{}{"raw": hexutil.Bytes(raw), "tx": signed}, nil
	}
	return hexutil.Bytes(raw), nil
}

func newWalletConnector(t *testing.T, w *fakeWallet) *RPCWallet {
	t.Helper()
	server := rpc.NewServer()
	require.NoError(t, server.RegisterName("eth", w))
	t.Cleanup(server.Stop)

	return NewRPCWallet(Descriptor{ID: "safepal", Flags: FlagPriority}, "inproc://wallet", StaticBackend(&fakeChain{chainID: 56})).
		WithDialer(func(context.Context, string) (*rpc.Client, error) {
			return rpc.DialInProc(server), nil
		})
}

func TestRPCWalletSignsRemotely(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	addr := crypto.PubkeyToAddress(key.PublicKey)

	for _, tc := range []struct {
		name   string
		wallet *fakeWallet
	}{
		{name: "request accounts", wallet: &fakeWallet{key: key, chainID: big.NewInt(56)}},
		{name: "passive accounts", wallet: &fakeWallet{key: key, chainID: big.NewInt(56), denyRequest: true}},
		{name: "object result", wallet: &fakeWallet{key: key, chainID: big.NewInt(56), objectResult: true}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c := newWalletConnector(t, tc.wallet)
			assert.True(t, c.Descriptor().Flags.Has(FlagPriority|FlagInPageSigner))

			p, err := c.Connect(context.Background())
			require.NoError(t, err)
			defer p.Close()

			s, err := p.Signer(context.Background())
			require.NoError(t, err)
			assert.Equal(t, addr, s.Address())

			id, err := p.ChainID(context.Background())
			require.NoError(t, err)
			assert.Equal(t, int64(56), id.Int64())

			opts, err := s.TransactOpts(context.Background(), id)
			require.NoError(t, err)

			unsigned := unsignedTx(56)
			signed, err := opts.Signer(addr, unsigned)
			require.NoError(t, err)
			sender, err := types.Sender(types.LatestSignerForChainID(id), signed)
			require.NoError(t, err)
			assert.Equal(t, addr, sender)
			assert.Equal(t, unsigned.Nonce(), signed.Nonce())
			assert.Equal(t, unsigned.Data(), signed.Data())
			assert.Equal(t, unsigned.To(), signed.To())

			_, err = opts.Signer(common.HexToAddress("0x01"), unsigned)
			assert.Error(t, err)
		})
	}
}

func TestRPCWalletRejectsForeignSignature(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	other, err := crypto.GenerateKey()
	require.NoError(t, err)

	c := newWalletConnector(t, &fakeWallet{key: key, signKey: other, chainID: big.NewInt(56)})
	p, err := c.Connect(context.Background())
	require.NoError(t, err)
	defer p.Close()

	s, err := p.Signer(context.Background())
	require.NoError(t, err)
	opts, err := s.TransactOpts(context.Background(), big.NewInt(56))
	require.NoError(t, err)

	_, err = opts.Signer(s.Address(), unsignedTx(56))
	assert.ErrorContains(t, err, "wallet signed as")
}

func TestRPCWalletWithoutAccounts(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	c := newWalletConnector(t, &fakeWallet{key: key, chainID: big.NewInt(137), noAccounts: true})
	p, err := c.Connect(context.Background())
	require.NoError(t, err)
	defer p.Close()

	_, err = p.Signer(context.Background())
	assert.True(t, errors.Is(err, ErrNoAccounts))
}

func TestRPCWalletEmptyURL(t *testing.T) {
	_, err := NewRPCWallet(Descriptor{ID: "x"}, "", StaticBackend(nil)).Connect(context.Background())
	assert.Error(t, err)
}

func TestDecodeSignResult(t *testing.T) {
	raw, err := decodeSignResult([]byte(`"0x02f8"`))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x02, 0xf8}, raw)

	raw, err = decodeSignResult([]byte(`{"raw":"0x01","tx":{}}`))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01}, raw)

	_, err = decodeSignResult([]byte(`{"tx":{}}`))
	assert.Error(t, err)

	_, err = decodeSignResult([]byte(`42`))
	assert.Error(t, err)
}
