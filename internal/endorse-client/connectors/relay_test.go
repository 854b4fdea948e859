package connectors

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRemote struct {
	key    *ecdsa.PrivateKey
	closed bool
}

func (f *fakeRemote) Accounts() []accounts.Account {
	if f.key == nil {
		return nil
	}
	return []accounts.Account{{Address: crypto.PubkeyToAddress(f.key.PublicKey)}}
}

func (f *fakeRemote) SignTx(_ accounts.Account, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	return types.SignTx(tx, types.LatestSignerForChainID(chainID), f.key)
}

func (f *fakeRemote) Close() error {
	f.closed = true
	return nil
}

func TestNewRelayRejectsNonRelayKind(t *testing.T) {
	_, err := NewRelay(Descriptor{ID: "x"}, KindInjected, "http://127.0.0.1:8550", StaticBackend(nil))
	assert.Error(t, err)
}

func TestRelaySession(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	remote := &fakeRemote{key: key}

	r, err := NewRelay(Descriptor{ID: "coinbase"}, KindCoinbaseRelay, "http://127.0.0.1:8550", StaticBackend(&fakeChain{chainID: 137}))
	require.NoError(t, err)
	var dialed string
	r.WithDialer(func(endpoint string) (RemoteSigner, error) {
		dialed = endpoint
		return remote, nil
	})
	assert.Equal(t, KindCoinbaseRelay, r.Descriptor().Kind)

	p, err := r.Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8550", dialed)

	s, err := p.Signer(context.Background())
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), s.Address())

	id, err := p.ChainID(context.Background())
	require.NoError(t, err)
	opts, err := s.TransactOpts(context.Background(), id)
	require.NoError(t, err)

	signed, err := opts.Signer(s.Address(), unsignedTx(137))
	require.NoError(t, err)
	sender, err := types.Sender(types.LatestSignerForChainID(id), signed)
	require.NoError(t, err)
	assert.Equal(t, s.Address(), sender)

	require.NoError(t, p.Close())
	assert.True(t, remote.closed)
}

func TestRelayFailures(t *testing.T) {
	r, err := NewRelay(Descriptor{ID: "wc"}, KindWalletConnectRelay, "", StaticBackend(nil))
	require.NoError(t, err)
	_, err = r.Connect(context.Background())
	assert.Error(t, err)

	r, err = NewRelay(Descriptor{ID: "wc"}, KindWalletConnectRelay, "ipc:///tmp/clef.ipc", StaticBackend(nil))
	require.NoError(t, err)
	r.WithDialer(func(string) (RemoteSigner, error) { return nil, errors.New("bridge offline") })
	_, err = r.Connect(context.Background())
	assert.ErrorContains(t, err, "bridge offline")

	remote := &fakeRemote{}
	r.WithDialer(func(string) (RemoteSigner, error) { return remote, nil })
	p, err := r.Connect(context.Background())
	require.NoError(t, err)
	_, err = p.Signer(context.Background())
	assert.True(t, errors.Is(err, ErrNoAccounts))
}
