package connectors

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRegistry(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	env := map[string]string{"ENDORSE_KEY": hexutil.Encode(crypto.FromECDSA(key))}

	r, err := BuildRegistry([]Config{
		{ID: "local", DisplayName: "Local key", Type: "keystore", PrivateKeyEnv: "ENDORSE_KEY"},
		{ID: "safepal", Type: "rpc", URL: "http://127.0.0.1:8545", Priority: true, Global: "safepal"},
		{ID: "walletconnect", DisplayName: "WalletConnect", Type: "walletconnect", URL: "http://127.0.0.1:8550"},
		{ID: "coinbase", DisplayName: "Coinbase Wallet", Type: "coinbase", URL: "http://127.0.0.1:8551"},
		{ID: "tonkeeper", DisplayName: "Tonkeeper", Type: "deeplink", TONAddress: tonAddr},
	}, StaticBackend(&fakeChain{chainID: 137}), func(k string) string { return env[k] })
	require.NoError(t, err)

	ds := r.Descriptors()
	require.Len(t, ds, 5)
	assert.Equal(t, []Kind{KindInjected, KindInjected, KindWalletConnectRelay, KindCoinbaseRelay, KindExternalDeepLink},
		[]Kind{ds[0].Kind, ds[1].Kind, ds[2].Kind, ds[3].Kind, ds[4].Kind})
	assert.Equal(t, "safepal", ds[1].DisplayName)
	assert.True(t, ds[1].Flags.Has(FlagPriority))
	assert.False(t, ds[0].Flags.Has(FlagPriority))

	c, ok := r.Get(" LOCAL ")
	require.True(t, ok)
	p, err := c.Connect(context.Background())
	require.NoError(t, err)
	s, err := p.Signer(context.Background())
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), s.Address())

	_, ok = r.Get("metamask")
	assert.False(t, ok)
}

func TestBuildRegistryErrors(t *testing.T) {
	_, err := BuildRegistry([]Config{{ID: "x", Type: "bluetooth"}}, StaticBackend(nil), nil)
	assert.Error(t, err)

	_, err = BuildRegistry([]Config{{ID: "a", Type: "rpc"}, {ID: "A", Type: "rpc"}}, StaticBackend(nil), nil)
	assert.ErrorContains(t, err, "duplicate")

	_, err = BuildRegistry([]Config{{Type: "rpc"}}, StaticBackend(nil), nil)
	assert.Error(t, err)

	_, err = BuildRegistry([]Config{{ID: "ton", Type: "deeplink", TONAddress: "bogus"}}, StaticBackend(nil), nil)
	assert.Error(t, err)
}
