// Package connectors selects and opens wallet providers.
package connectors

import (
	"context"
	"math/big"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"github.com/nwr-dao/endorse-client/internal/endorse-client/chains"
)

var (
	ErrEnvironmentBlocked = errors.New("embedded browser cannot reach a wallet")
	ErrNoProviderFound    = errors.New("no wallet provider found")
	ErrChoiceRequired     = errors.New("wallet choice required")
	ErrHandoffOnly        = errors.New("connector only hands off to an external wallet")
	ErrNoAccounts         = errors.New("wallet exposed no accounts")
)

// Signer authorizes transactions for a single account.
type Signer interface {
	Address() common.Address
	TransactOpts(ctx context.Context, chainID *big.Int) (*bind.TransactOpts, error)
}

// Provider is an opened wallet connection.
type Provider interface {
	Backend() chains.Backend
	Signer(ctx context.Context) (Signer, error)
	ChainID(ctx context.Context) (*big.Int, error)
	Close() error
}

type Connector interface {
	Descriptor() Descriptor
	Connect(ctx context.Context) (Provider, error)
}

// Handoff is implemented by connectors that leave the page instead of signing in it.
type Handoff interface {
	HandoffURL() string
}

// BackendSource supplies the chain backend for connectors that do not carry their own.
type BackendSource interface {
	ActiveBackend(ctx context.Context) (chains.Backend, error)
}

// BackendFunc adapts a function to BackendSource.
type BackendFunc func(ctx context.Context) (chains.Backend, error)

func (f BackendFunc) ActiveBackend(ctx context.Context) (chains.Backend, error) { return f(ctx) }

// StaticBackend always returns b.
func StaticBackend(b chains.Backend) BackendSource {
	return BackendFunc(func(context.Context) (chains.Backend, error) { return b, nil })
}
