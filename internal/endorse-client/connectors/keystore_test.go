package connectors

import (
	"context"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nwr-dao/endorse-client/internal/endorse-client/chains"
)

func TestKeystoreHexKey(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	want := crypto.PubkeyToAddress(key.PublicKey)

	k := NewKeystore(Descriptor{ID: "local"}, KeystoreConfig{
		PrivateKeyHex: hexutil.Encode(crypto.FromECDSA(key)),
	}, StaticBackend(&fakeChain{chainID: 137}))
	assert.Equal(t, KindInjected, k.Descriptor().Kind)
	assert.True(t, k.Descriptor().Flags.Has(FlagInPageSigner))

	p, err := k.Connect(context.Background())
	require.NoError(t, err)

	s, err := p.Signer(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, s.Address())

	id, err := p.ChainID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(137), id.Int64())

	opts, err := s.TransactOpts(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, want, opts.From)

	signed, err := opts.Signer(want, unsignedTx(137))
	require.NoError(t, err)
	sender, err := types.Sender(types.LatestSignerForChainID(big.NewInt(137)), signed)
	require.NoError(t, err)
	assert.Equal(t, want, sender)

	require.NoError(t, p.Close())
	_, err = s.TransactOpts(context.Background(), id)
	assert.Error(t, err)
}

func TestKeystoreFile(t *testing.T) {
	pk, err := crypto.GenerateKey()
	require.NoError(t, err)
	addr := crypto.PubkeyToAddress(pk.PublicKey)

	blob, err := keystore.EncryptKey(&keystore.Key{
		Id:         uuid.New(),
		Address:    addr,
		PrivateKey: pk,
	}, "correct horse", keystore.LightScryptN, keystore.LightScryptP)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "key.json")
	require.NoError(t, os.WriteFile(path, blob, 0o600))

	t.Run("configured passphrase", func(t *testing.T) {
		k := NewKeystore(Descriptor{ID: "file"}, KeystoreConfig{KeyFile: path, Passphrase: "correct horse"},
			StaticBackend(&fakeChain{chainID: 56}))
		p, err := k.Connect(context.Background())
		require.NoError(t, err)
		s, err := p.Signer(context.Background())
		require.NoError(t, err)
		assert.Equal(t, addr, s.Address())
	})

	t.Run("prompted passphrase", func(t *testing.T) {
		k := NewKeystore(Descriptor{ID: "file"}, KeystoreConfig{KeyFile: path}, StaticBackend(&fakeChain{}))
		k.prompt = func(string) ([]byte, error) { return []byte("correct horse"), nil }
		_, err := k.Connect(context.Background())
		require.NoError(t, err)
	})

	t.Run("wrong passphrase", func(t *testing.T) {
		k := NewKeystore(Descriptor{ID: "file"}, KeystoreConfig{KeyFile: path, Passphrase: "nope"}, StaticBackend(&fakeChain{}))
		_, err := k.Connect(context.Background())
		assert.Error(t, err)
	})

	t.Run("prompt aborted", func(t *testing.T) {
		k := NewKeystore(Descriptor{ID: "file"}, KeystoreConfig{KeyFile: path}, StaticBackend(&fakeChain{}))
		k.prompt = func(string) ([]byte, error) { return nil, errors.New("no tty") }
		_, err := k.Connect(context.Background())
		assert.ErrorContains(t, err, "no tty")
	})
}

func TestKeystoreNoKey(t *testing.T) {
	k := NewKeystore(Descriptor{ID: "empty"}, KeystoreConfig{}, StaticBackend(&fakeChain{}))
	_, err := k.Connect(context.Background())
	assert.ErrorContains(t, err, "no key configured")
}

func TestKeystoreBackendError(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	k := NewKeystore(Descriptor{ID: "local"}, KeystoreConfig{PrivateKeyHex: hexutil.Encode(crypto.FromECDSA(key))},
		BackendFunc(func(context.Context) (chains.Backend, error) { return nil, errors.New("rpc down") }))
	_, err = k.Connect(context.Background())
	assert.ErrorContains(t, err, "rpc down")
}
