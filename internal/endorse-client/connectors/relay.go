package connectors

import (
	"context"
	"math/big"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/external"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/nwr-dao/endorse-client/internal/endorse-client/chains"
)

// RemoteSigner is the part of an external signer a relay session uses.
type RemoteSigner interface {
	Accounts() []accounts.Account
	SignTx(account accounts.Account, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
	Close() error
}

type RelayDialFunc func(endpoint string) (RemoteSigner, error)

// Relay reaches a signer that lives outside this process (a WalletConnect or
// Coinbase bridge speaking the external signer protocol). Chain reads and
// transaction submission go through the chain service.
type Relay struct {
	desc     Descriptor
	endpoint string
	backend  BackendSource
	dial     RelayDialFunc
}

func NewRelay(desc Descriptor, kind Kind, endpoint string, backend BackendSource) (*Relay, error) {
	if kind != KindWalletConnectRelay && kind != KindCoinbaseRelay {
		return nil, errors.Newf("relay connector %s: kind %s is not a relay", desc.ID, kind)
	}
	desc.Kind = kind
	return &Relay{desc: desc, endpoint: endpoint, backend: backend, dial: dialExternal}, nil
}

func dialExternal(endpoint string) (RemoteSigner, error) {
	signer, err := external.NewExternalSigner(endpoint)
	if err != nil {
		return nil, err
	}
	return signer, nil
}

func (r *Relay) WithDialer(d RelayDialFunc) *Relay {
	r.dial = d
	return r
}

func (r *Relay) Descriptor() Descriptor { return r.desc }

func (r *Relay) Connect(ctx context.Context) (Provider, error) {
	if strings.TrimSpace(r.endpoint) == "" {
		return nil, errors.Newf("connector %s: relay endpoint is empty", r.desc.ID)
	}
	remote, err := r.dial(r.endpoint)
	if err != nil {
		return nil, errors.Wrapf(err, "open relay %s", r.desc.ID)
	}
	backend, err := r.backend.ActiveBackend(ctx)
	if err != nil {
		_ = remote.Close()
		return nil, errors.Wrap(err, "chain backend")
	}
	return &relayProvider{remote: remote, backend: backend}, nil
}

type relayProvider struct {
	remote  RemoteSigner
	backend chains.Backend
}

func (p *relayProvider) Backend() chains.Backend { return p.backend }

func (p *relayProvider) Signer(context.Context) (Signer, error) {
	accs := p.remote.Accounts()
	if len(accs) == 0 {
		return nil, ErrNoAccounts
	}
	return &relaySigner{remote: p.remote, account: accs[0]}, nil
}

func (p *relayProvider) ChainID(ctx context.Context) (*big.Int, error) {
	return p.backend.ChainID(ctx)
}

func (p *relayProvider) Close() error { return p.remote.Close() }

type relaySigner struct {
	remote  RemoteSigner
	account accounts.Account
}

func (s *relaySigner) Address() common.Address { return s.account.Address }

func (s *relaySigner) TransactOpts(ctx context.Context, chainID *big.Int) (*bind.TransactOpts, error) {
	if chainID == nil {
		return nil, errors.New("chain id is nil")
	}
	return &bind.TransactOpts{
		From:    s.account.Address,
		Context: ctx,
		Signer: func(from common.Address, tx *types.Transaction) (*types.Transaction, error) {
			if from != s.account.Address {
				return nil, errors.Newf("not authorized to sign for %s", from.Hex())
			}
			signed, err := s.remote.SignTx(s.account, tx, chainID)
			if err != nil {
				return nil, errors.Wrap(err, "relay sign")
			}
			return signed, nil
		},
	}, nil
}
