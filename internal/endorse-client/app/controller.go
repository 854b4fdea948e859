// Package app owns the client state: the connected session, its contract
// binding, and the last action result. Views read it through Snapshot.
package app

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/quantumauth-io/quantum-go-utils/log"

	"github.com/nwr-dao/endorse-client/internal/endorse-client/actions"
	"github.com/nwr-dao/endorse-client/internal/endorse-client/chains"
	"github.com/nwr-dao/endorse-client/internal/endorse-client/connectors"
	"github.com/nwr-dao/endorse-client/internal/endorse-client/constants"
	"github.com/nwr-dao/endorse-client/internal/endorse-client/endorser"
	"github.com/nwr-dao/endorse-client/internal/endorse-client/environment"
	"github.com/nwr-dao/endorse-client/internal/endorse-client/session"
)

// ErrSessionEnded is returned when the session an action ran under was
// replaced or disconnected before the action finished. Its result is dropped.
var ErrSessionEnded = errors.New("session ended before the action finished")

// Binder binds the contract for a freshly established session.
type Binder func(address common.Address, backend chains.Backend, signer connectors.Signer, chainID *big.Int) (actions.Contract, error)

// BindEndorser is the default Binder.
func BindEndorser(address common.Address, backend chains.Backend, signer connectors.Signer, chainID *big.Int) (actions.Contract, error) {
	b, err := endorser.New(address, backend, signer, chainID)
	if err != nil {
		return nil, err
	}
	return b, nil
}

type SessionCache interface {
	Save(s session.Session) error
	Load() (session.CacheEntry, bool, error)
	Clear() error
}

type Option func(*Controller)

func WithBinder(b Binder) Option {
	return func(c *Controller) { c.bind = b }
}

func WithSessionCache(sc SessionCache) Option {
	return func(c *Controller) { c.cache = sc }
}

// WithActionTimeout bounds each endorsement or stats call, confirmation wait included.
func WithActionTimeout(d time.Duration) Option {
	return func(c *Controller) { c.actionTimeout = d }
}

type Controller struct {
	registry      *connectors.Registry
	contractAddr  common.Address
	invoker       *actions.Invoker
	bind          Binder
	cache         SessionCache
	actionTimeout time.Duration

	mu         sync.Mutex
	generation uint64
	env        environment.Environment
	session    *session.Session
	provider   connectors.Provider
	contract   actions.Contract
	sessionCtx context.Context
	cancel     context.CancelFunc
	result     *actions.Result
	stats      *actions.Stats
	handoffURL string
}

func New(registry *connectors.Registry, contractAddr common.Address, opts ...Option) *Controller {
	c := &Controller{
		registry:     registry,
		contractAddr: contractAddr,
		invoker:      actions.NewInvoker(),
		bind:         BindEndorser,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Controller) Connectors() []connectors.Descriptor {
	return c.registry.Descriptors()
}

func (c *Controller) ContractAddress() common.Address { return c.contractAddr }

// Connect selects a connector for env and establishes a session with it,
// replacing any existing session. An empty choice falls back to the cached
// connector of the previous run.
func (c *Controller) Connect(ctx context.Context, env environment.Environment, choice string) error {
	c.mu.Lock()
	c.env = env
	c.mu.Unlock()

	if choice == "" {
		choice = c.cachedChoice()
	}

	sel, err := connectors.Select(env, c.registry.Descriptors(), choice)
	switch {
	case errors.Is(err, connectors.ErrEnvironmentBlocked):
		return c.block(env)
	case errors.Is(err, connectors.ErrNoProviderFound):
		c.setResult(actions.Failure, constants.MsgNoProvider)
		return err
	case err != nil:
		return err
	}

	conn, ok := c.registry.Get(sel.Descriptor.ID)
	if !ok {
		c.setResult(actions.Failure, constants.MsgNoProvider)
		return errors.Wrapf(connectors.ErrNoProviderFound, "connector %q", sel.Descriptor.ID)
	}

	if err := c.invoker.Guard().Begin(actions.Connecting); err != nil {
		return err
	}
	defer c.invoker.Guard().End()

	if sel.Handoff {
		return c.handoff(conn)
	}

	provider, err := conn.Connect(ctx)
	if err != nil {
		log.Error("wallet connection failed", "connector", sel.Descriptor.ID, "error", err)
		c.setResult(actions.Failure, constants.MsgConnectFailed)
		return errors.Wrap(err, "connect")
	}

	s, signer, err := session.Establish(ctx, sel.Descriptor, provider)
	if err != nil {
		_ = provider.Close()
		c.setResult(actions.Failure, constants.MsgConnectFailed)
		return err
	}

	contract, err := c.bind(c.contractAddr, provider.Backend(), signer, s.ChainID)
	if err != nil {
		_ = provider.Close()
		log.Error("contract binding failed", "contract", c.contractAddr.Hex(), "error", err)
		c.setResult(actions.Failure, constants.MsgConnectFailed)
		return errors.Wrap(err, "bind contract")
	}

	c.replace(&s, provider, contract, "")

	if c.cache != nil {
		if err := c.cache.Save(s); err != nil {
			log.Warn("session cache not written", "error", err)
		}
	}
	return nil
}

func (c *Controller) handoff(conn connectors.Connector) error {
	h, ok := conn.(connectors.Handoff)
	if !ok {
		c.setResult(actions.Failure, constants.MsgNoProvider)
		return errors.Wrapf(connectors.ErrNoProviderFound, "connector %q has no handoff", conn.Descriptor().ID)
	}
	url := h.HandoffURL()
	desc := conn.Descriptor()
	c.replace(&session.Session{Kind: desc.Kind, ConnectorID: desc.ID}, nil, nil, url)
	c.setResult(actions.Success, constants.MsgHandoff)
	log.Info("handed off to external wallet", "connector", desc.ID, "url", url)
	return nil
}

// replace installs a new session and tears down the previous one outside the lock.
func (c *Controller) replace(s *session.Session, p connectors.Provider, contract actions.Contract, handoffURL string) {
	sctx, cancel := context.WithCancel(context.Background())

	c.mu.Lock()
	oldProvider, oldCancel := c.provider, c.cancel
	c.generation++
	c.session = s
	c.provider = p
	c.contract = contract
	c.sessionCtx, c.cancel = sctx, cancel
	c.stats = nil
	c.result = nil
	c.handoffURL = handoffURL
	c.mu.Unlock()

	teardown(oldProvider, oldCancel)
}

// Disconnect ends the session. A pending confirmation wait is cancelled and
// its result discarded.
func (c *Controller) Disconnect() {
	c.end(true)
}

// Close ends the session but keeps the session cache for the next start.
func (c *Controller) Close() {
	c.end(false)
}

func (c *Controller) end(forget bool) {
	c.mu.Lock()
	oldProvider, oldCancel := c.provider, c.cancel
	c.generation++
	c.session = nil
	c.provider = nil
	c.contract = nil
	c.sessionCtx, c.cancel = nil, nil
	c.stats = nil
	c.result = nil
	c.handoffURL = ""
	c.mu.Unlock()

	teardown(oldProvider, oldCancel)

	if forget && c.cache != nil {
		if err := c.cache.Clear(); err != nil {
			log.Warn("session cache not cleared", "error", err)
		}
	}
}

func teardown(p connectors.Provider, cancel context.CancelFunc) {
	if cancel != nil {
		cancel()
	}
	if p != nil {
		if err := p.Close(); err != nil {
			log.Warn("provider close failed", "error", err)
		}
	}
}

// block ends the session for an environment that cannot reach a wallet. The
// cache is kept so an unembedded browser can reconnect with the same wallet.
func (c *Controller) block(env environment.Environment) error {
	c.end(false)

	c.mu.Lock()
	c.env = env
	c.result = &actions.Result{Outcome: actions.Failure, Message: constants.MsgEnvironmentBlocked}
	c.mu.Unlock()

	log.Warn("wallet access blocked by embedding browser", "detected", env.Detected)
	return connectors.ErrEnvironmentBlocked
}

// admit records env for the caller's action, or blocks when it is embedded.
func (c *Controller) admit(env environment.Environment) error {
	if env.Embedded {
		return c.block(env)
	}
	c.mu.Lock()
	c.env = env
	c.mu.Unlock()
	return nil
}

func (c *Controller) EndorseUser(ctx context.Context, env environment.Environment, req actions.Request) (actions.Result, error) {
	return c.runEndorse(ctx, env, req, c.invoker.EndorseUser)
}

func (c *Controller) EndorseDao(ctx context.Context, env environment.Environment, req actions.Request) (actions.Result, error) {
	return c.runEndorse(ctx, env, req, c.invoker.EndorseDao)
}

type endorseFunc func(context.Context, actions.Contract, actions.Request) (actions.Result, error)

func (c *Controller) runEndorse(ctx context.Context, env environment.Environment, req actions.Request, run endorseFunc) (actions.Result, error) {
	if err := c.admit(env); err != nil {
		return actions.Result{}, err
	}
	contract, gen, actx, cancel := c.current(ctx)
	defer cancel()
	if contract == nil {
		return actions.Result{}, actions.ErrNoSession
	}

	res, err := run(actx, contract, req)
	if err != nil {
		return actions.Result{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		log.Warn("dropping result of an ended session", "message", res.Message)
		return res, ErrSessionEnded
	}
	c.result = &res
	return res, nil
}

// FetchStats reads stats for target. A failed read clears previously shown stats.
func (c *Controller) FetchStats(ctx context.Context, env environment.Environment, target string) (*actions.Stats, actions.Result, error) {
	if err := c.admit(env); err != nil {
		return nil, actions.Result{}, err
	}
	contract, gen, actx, cancel := c.current(ctx)
	defer cancel()
	if contract == nil {
		return nil, actions.Result{}, actions.ErrNoSession
	}

	stats, failed, err := c.invoker.FetchStats(actx, contract, target)
	if err != nil {
		return nil, actions.Result{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return nil, actions.Result{}, ErrSessionEnded
	}
	if failed != nil {
		c.stats = nil
		c.result = failed
		return nil, *failed, nil
	}
	c.stats = stats
	out := *stats
	return &out, actions.Result{Outcome: actions.Success}, nil
}

// current returns the bound contract and a context that ends with either the
// caller's context or the session.
func (c *Controller) current(ctx context.Context) (actions.Contract, uint64, context.Context, context.CancelFunc) {
	c.mu.Lock()
	contract, gen, sctx := c.contract, c.generation, c.sessionCtx
	embedded := c.env.Embedded
	c.mu.Unlock()

	if contract == nil || sctx == nil || embedded {
		return nil, gen, ctx, func() {}
	}
	var (
		actx   context.Context
		cancel context.CancelFunc
	)
	if c.actionTimeout > 0 {
		actx, cancel = context.WithTimeout(sctx, c.actionTimeout)
	} else {
		actx, cancel = context.WithCancel(sctx)
	}
	stop := context.AfterFunc(ctx, cancel)
	return contract, gen, actx, func() {
		stop()
		cancel()
	}
}

func (c *Controller) setResult(o actions.Outcome, msg string) {
	c.mu.Lock()
	c.result = &actions.Result{Outcome: o, Message: msg}
	c.mu.Unlock()
}

func (c *Controller) cachedChoice() string {
	if c.cache == nil {
		return ""
	}
	entry, ok, err := c.cache.Load()
	if err != nil {
		log.Warn("session cache unreadable", "error", err)
		return ""
	}
	if !ok {
		return ""
	}
	if _, known := c.registry.Get(entry.ConnectorID); !known {
		return ""
	}
	return entry.ConnectorID
}
