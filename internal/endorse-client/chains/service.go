package chains

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/quantumauth-io/quantum-go-utils/log"
)

type ChainConfig struct {
	Chains                                             *AllChainsConfig
	DefaultActiveNetwork                               string
	PreferredRPCName                                   string
	DurationBetweenGetLatestHeaderRequestsMilliseconds int
}

// DialFunc opens a backend for a resolved chain.
type DialFunc func(ctx context.Context, chain ResolvedChain) (Backend, error)

type activeChain struct {
	networkName string
	backend     Backend
}

// Service hands out one cached backend per network. Nothing is dialed until a
// backend is first requested.
type Service struct {
	cfg  ChainConfig
	dial DialFunc

	active atomic.Pointer[activeChain]

	mu                sync.Mutex
	backendsByNetwork map[string]Backend

	// scopes the header cache goroutines
	ctx    context.Context
	cancel context.CancelFunc
}

type Option func(*Service)

func WithDialer(d DialFunc) Option {
	return func(s *Service) { s.dial = d }
}

func NewService(cfg ChainConfig, opts ...Option) (*Service, error) {
	if cfg.Chains == nil {
		return nil, errors.New("chains config is nil")
	}
	if strings.TrimSpace(cfg.DefaultActiveNetwork) == "" {
		return nil, errors.New("active network is empty")
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Service{
		cfg:               cfg,
		dial:              DialEthClient,
		backendsByNetwork: make(map[string]Backend),
		ctx:               ctx,
		cancel:            cancel,
	}
	for _, o := range opts {
		o(s)
	}

	if _, err := s.ResolveNetworkByName(cfg.DefaultActiveNetwork); err != nil {
		cancel()
		return nil, err
	}
	return s, nil
}

// DialEthClient is the default DialFunc.
func DialEthClient(ctx context.Context, chain ResolvedChain) (Backend, error) {
	if strings.TrimSpace(chain.URL) == "" {
		return nil, errors.Newf("invalid chain rpc config for %q (missing url)", chain.NetworkName)
	}
	client, err := ethclient.DialContext(ctx, chain.URL)
	if err != nil {
		return nil, errors.Wrapf(err, "dial %q", chain.NetworkName)
	}
	return client, nil
}

// ActiveBackend returns the backend of the active network, switching to the
// default network on first use.
func (s *Service) ActiveBackend(ctx context.Context) (Backend, error) {
	if current := s.active.Load(); current != nil {
		return current.backend, nil
	}
	if err := s.SwitchChain(ctx, s.cfg.DefaultActiveNetwork); err != nil {
		return nil, err
	}
	current := s.active.Load()
	if current == nil {
		return nil, errors.New("no active chain")
	}
	return current.backend, nil
}

func (s *Service) ActiveNetwork() string {
	if current := s.active.Load(); current != nil {
		return current.networkName
	}
	return strings.ToLower(strings.TrimSpace(s.cfg.DefaultActiveNetwork))
}

func (s *Service) SwitchChain(ctx context.Context, networkName string) error {
	networkName = strings.ToLower(strings.TrimSpace(networkName))
	if networkName == "" {
		return errors.New("network name is empty")
	}

	// no-op if already active
	if current := s.active.Load(); current != nil && current.networkName == networkName {
		return nil
	}

	backend, err := s.BackendForNetwork(ctx, networkName)
	if err != nil {
		return err
	}

	s.active.Store(&activeChain{networkName: networkName, backend: backend})
	log.Info("active chain switched", "network", networkName)
	return nil
}

// BackendForNetwork returns (and caches) a backend WITHOUT changing the active chain.
func (s *Service) BackendForNetwork(ctx context.Context, networkName string) (Backend, error) {
	cacheKey := strings.ToLower(strings.TrimSpace(networkName))
	if cacheKey == "" {
		return nil, errors.New("network name is empty")
	}

	s.mu.Lock()
	if existing := s.backendsByNetwork[cacheKey]; existing != nil {
		s.mu.Unlock()
		return existing, nil
	}
	s.mu.Unlock()

	resolved, err := s.ResolveNetworkByName(cacheKey)
	if err != nil {
		return nil, err
	}

	// Dial outside the lock
	dialed, err := s.dial(ctx, resolved)
	if err != nil {
		return nil, err
	}
	if ms := s.cfg.DurationBetweenGetLatestHeaderRequestsMilliseconds; ms > 0 {
		cached, err := NewCachedBackend(s.ctx, dialed, ms)
		if err != nil {
			safeClose(dialed)
			return nil, err
		}
		dialed = cached
	}

	s.mu.Lock()
	if existing := s.backendsByNetwork[cacheKey]; existing != nil {
		s.mu.Unlock()
		// We raced; close what we just dialed and return existing
		safeClose(dialed)
		return existing, nil
	}
	s.backendsByNetwork[cacheKey] = dialed
	s.mu.Unlock()

	return dialed, nil
}

// Close stops header refreshes and closes all cached backends.
func (s *Service) Close() error {
	s.cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, backend := range s.backendsByNetwork {
		safeClose(backend)
		delete(s.backendsByNetwork, key)
	}

	s.active.Store(nil)
	return nil
}

func safeClose(b Backend) {
	if closer, ok := b.(interface{ Close() }); ok {
		closer.Close()
	}
}

func (s *Service) ResolveNetworkByChainID(chainID uint64) (ResolvedChain, error) {
	if chainID == 0 {
		return ResolvedChain{}, errors.New("chainID is 0")
	}
	for networkName, network := range s.cfg.Chains.Networks {
		if network.ChainID != chainID {
			continue
		}
		return s.resolveFromNetworkConfig(networkName, network)
	}
	return ResolvedChain{}, errors.Newf("unknown chainID %d", chainID)
}

func (s *Service) ResolveNetworkByName(networkName string) (ResolvedChain, error) {
	networkName = strings.ToLower(strings.TrimSpace(networkName))
	if networkName == "" {
		return ResolvedChain{}, errors.New("network name is empty")
	}

	for key, network := range s.cfg.Chains.Networks {
		if strings.EqualFold(key, networkName) {
			return s.resolveFromNetworkConfig(networkName, network)
		}
	}
	return ResolvedChain{}, errors.Newf("unknown network %q", networkName)
}

func (s *Service) resolveFromNetworkConfig(networkName string, network NetworkConfig) (ResolvedChain, error) {
	// pick RPC by preferred name; otherwise first
	var selectedRPC *RPC

	if preferred := strings.TrimSpace(s.cfg.PreferredRPCName); preferred != "" {
		for i := range network.RPCs {
			if strings.EqualFold(strings.TrimSpace(network.RPCs[i].Name), preferred) {
				selectedRPC = &network.RPCs[i]
				break
			}
		}
	}
	if selectedRPC == nil {
		if len(network.RPCs) == 0 {
			return ResolvedChain{}, errors.Newf("network %q has no RPCs configured", networkName)
		}
		selectedRPC = &network.RPCs[0]
	}

	if strings.TrimSpace(selectedRPC.URL) == "" {
		return ResolvedChain{}, errors.Newf("network %q rpc %q url is empty", networkName, selectedRPC.Name)
	}

	return ResolvedChain{
		NetworkName: networkName,
		ChainID:     network.ChainID,
		ChainIDHex:  network.ChainIDHex,
		Currency:    network.Currency,
		Explorer:    network.Explorer,
		RPCName:     selectedRPC.Name,
		URL:         selectedRPC.URL,
		WSS:         selectedRPC.WSS,
	}, nil
}
