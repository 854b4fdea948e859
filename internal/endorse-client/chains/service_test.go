package chains

import (
	"context"
	"math/big"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakeBackend struct {
	Backend
	chainID int64
	block   atomic.Int64
	closed  atomic.Bool
}

func (f *fakeBackend) HeaderByNumber(_ context.Context, number *big.Int) (*types.Header, error) {
	if number != nil {
		return &types.Header{Number: number}, nil
	}
	return &types.Header{Number: big.NewInt(f.block.Add(1))}, nil
}

func (f *fakeBackend) ChainID(context.Context) (*big.Int, error) {
	return big.NewInt(f.chainID), nil
}

func (f *fakeBackend) Close() { f.closed.Store(true) }

func testChains() *AllChainsConfig {
	cfg := &AllChainsConfig{
		ActiveNetwork: "Polygon",
		Networks: map[string]NetworkConfig{
			"Polygon": {
				ChainID:    137,
				ChainIDHex: "0x89",
				RPCs: []RPC{
					{Name: "Public", URL: "https://polygon-rpc.com"},
					{Name: "Infura", URL: "https://polygon-mainnet.infura.io/v3/key"},
				},
			},
			"BSC": {
				ChainID:    56,
				ChainIDHex: "0x38",
				RPCs:       []RPC{{Name: "Public", URL: "https://bsc-dataseed.binance.org"}},
			},
			"broken": {ChainID: 99},
		},
	}
	cfg.Normalize()
	return cfg
}

func TestNormalize(t *testing.T) {
	cfg := testChains()
	assert.Equal(t, "polygon", cfg.ActiveNetwork)
	require.Contains(t, cfg.Networks, "bsc")
	assert.Equal(t, "bsc", cfg.Networks["bsc"].Name)
}

func TestResolve(t *testing.T) {
	s, err := NewService(ChainConfig{
		Chains:               testChains(),
		DefaultActiveNetwork: "polygon",
		PreferredRPCName:     "infura",
	})
	require.NoError(t, err)
	defer s.Close()

	got, err := s.ResolveNetworkByName("POLYGON")
	require.NoError(t, err)
	assert.Equal(t, "Infura", got.RPCName)
	assert.Equal(t, uint64(137), got.ChainID)

	got, err = s.ResolveNetworkByChainID(56)
	require.NoError(t, err)
	assert.Equal(t, "bsc", got.NetworkName)
	assert.Equal(t, "Public", got.RPCName)

	_, err = s.ResolveNetworkByChainID(1)
	assert.Error(t, err)

	_, err = s.ResolveNetworkByName("broken")
	assert.Error(t, err)
}

func TestNewServiceRejectsUnknownDefault(t *testing.T) {
	_, err := NewService(ChainConfig{Chains: testChains(), DefaultActiveNetwork: "mainnet"})
	assert.Error(t, err)

	_, err = NewService(ChainConfig{DefaultActiveNetwork: "polygon"})
	assert.Error(t, err)
}

func TestActiveBackendDialsLazilyOnce(t *testing.T) {
	var dials atomic.Int32
	s, err := NewService(ChainConfig{Chains: testChains(), DefaultActiveNetwork: "polygon"},
		WithDialer(func(_ context.Context, chain ResolvedChain) (Backend, error) {
			dials.Add(1)
			return &fakeBackend{chainID: int64(chain.ChainID)}, nil
		}))
	require.NoError(t, err)
	assert.Equal(t, int32(0), dials.Load())

	b1, err := s.ActiveBackend(context.Background())
	require.NoError(t, err)
	b2, err := s.ActiveBackend(context.Background())
	require.NoError(t, err)
	assert.Same(t, b1, b2)
	assert.Equal(t, int32(1), dials.Load())

	require.NoError(t, s.SwitchChain(context.Background(), "bsc"))
	assert.Equal(t, "bsc", s.ActiveNetwork())
	b3, err := s.ActiveBackend(context.Background())
	require.NoError(t, err)
	id, err := b3.ChainID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(56), id.Int64())

	require.NoError(t, s.Close())
	assert.True(t, b1.(*fakeBackend).closed.Load())
}

func TestDialErrorIsReturned(t *testing.T) {
	s, err := NewService(ChainConfig{Chains: testChains(), DefaultActiveNetwork: "polygon"},
		WithDialer(func(context.Context, ResolvedChain) (Backend, error) {
			return nil, errors.New("connection refused")
		}))
	require.NoError(t, err)
	defer s.Close()

	_, err = s.ActiveBackend(context.Background())
	assert.ErrorContains(t, err, "connection refused")
}

func TestCachedBackendRefreshes(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	fake := &fakeBackend{chainID: 137}
	s, err := NewService(ChainConfig{
		Chains:               testChains(),
		DefaultActiveNetwork: "polygon",
		DurationBetweenGetLatestHeaderRequestsMilliseconds: 10,
	}, WithDialer(func(context.Context, ResolvedChain) (Backend, error) { return fake, nil }))
	require.NoError(t, err)

	b, err := s.ActiveBackend(context.Background())
	require.NoError(t, err)
	cached, ok := b.(*CachedBackend)
	require.True(t, ok)

	first, err := cached.HeaderByNumber(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Number.Int64())

	assert.Eventually(t, func() bool {
		h, _ := cached.HeaderByNumber(context.Background(), nil)
		return h.Number.Int64() > 1
	}, 2*time.Second, 5*time.Millisecond)

	assert.Greater(t, cached.Refreshes(), uint64(1))
	assert.Less(t, cached.LatestHeaderAge(), time.Second)

	explicit, err := cached.HeaderByNumber(context.Background(), big.NewInt(42))
	require.NoError(t, err)
	assert.Equal(t, int64(42), explicit.Number.Int64())

	require.NoError(t, s.Close())
	assert.True(t, fake.closed.Load())
}
