// Package endorser binds a connected signer to the endorsement contract.
package endorser

import (
	"context"
	"math/big"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/nwr-dao/endorse-client/internal/endorse-client/chains"
	"github.com/nwr-dao/endorse-client/internal/endorse-client/connectors"
	"github.com/nwr-dao/endorse-client/internal/endorse-client/contracts/bindings/go/endorsement"
)

var ErrReverted = errors.New("transaction reverted")

// UserStats is getUserStats, positionally.
type UserStats struct {
	UserLevel         uint8
	DaoLevel          uint8
	EndorsementsGiven *big.Int
	PeopleHelped      *big.Int
}

type Binding struct {
	address  common.Address
	contract *endorsement.Endorsement
	backend  chains.Backend
	signer   connectors.Signer
	chainID  *big.Int
}

// New binds the contract at address for one session. A nil signer yields a
// read-only binding.
func New(address common.Address, backend chains.Backend, signer connectors.Signer, chainID *big.Int) (*Binding, error) {
	if backend == nil {
		return nil, errors.New("backend is nil")
	}
	contract, err := endorsement.NewEndorsement(address, backend)
	if err != nil {
		return nil, errors.Wrap(err, "bind endorsement contract")
	}
	return &Binding{address: address, contract: contract, backend: backend, signer: signer, chainID: chainID}, nil
}

func (b *Binding) Address() common.Address { return b.address }

func (b *Binding) EndorseUserLevel(ctx context.Context, user common.Address, level uint8) (*types.Transaction, error) {
	opts, err := b.transactOpts(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := b.contract.EndorseUserLevel(opts, user, level)
	if err != nil {
		return nil, errors.Wrap(err, "endorseUserLevel")
	}
	return tx, nil
}

func (b *Binding) EndorseDaoLevel(ctx context.Context, user common.Address, level uint8) (*types.Transaction, error) {
	opts, err := b.transactOpts(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := b.contract.EndorseDaoLevel(opts, user, level)
	if err != nil {
		return nil, errors.Wrap(err, "endorseDaoLevel")
	}
	return tx, nil
}

func (b *Binding) UserStats(ctx context.Context, user common.Address) (UserStats, error) {
	out, err := b.contract.GetUserStats(&bind.CallOpts{Context: ctx}, user)
	if err != nil {
		return UserStats{}, errors.Wrap(err, "getUserStats")
	}
	return UserStats{
		UserLevel:         out.UserLevel,
		DaoLevel:          out.DaoLevel,
		EndorsementsGiven: out.EndorsementsGiven,
		PeopleHelped:      out.PeopleHelped,
	}, nil
}

// WaitConfirmed blocks until tx is mined once, or ctx ends.
func (b *Binding) WaitConfirmed(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, b.backend, tx)
	if err != nil {
		return nil, errors.Wrapf(err, "wait for %s", tx.Hash().Hex())
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, errors.Wrapf(ErrReverted, "tx %s", tx.Hash().Hex())
	}
	return receipt, nil
}

func (b *Binding) transactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	if b.signer == nil {
		return nil, errors.New("binding is read-only")
	}
	if b.chainID == nil {
		return nil, errors.New("chain id is unknown")
	}
	return b.signer.TransactOpts(ctx, b.chainID)
}
