package actions

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"
	"github.com/quantumauth-io/quantum-go-utils/log"

	"github.com/nwr-dao/endorse-client/internal/endorse-client/constants"
	"github.com/nwr-dao/endorse-client/internal/endorse-client/helpers"
	"github.com/nwr-dao/endorse-client/internal/endorse-client/levels"
)

// Invoker runs contract actions under a shared busy guard. Errors returned
// directly mean nothing was attempted; attempted actions report through Result.
type Invoker struct {
	guard *Guard
}

func NewInvoker() *Invoker {
	return &Invoker{guard: &Guard{}}
}

func (i *Invoker) Guard() *Guard { return i.guard }

type endorseKind struct {
	name   string
	ok     string
	failed string
	method func(Contract) func(context.Context, common.Address, uint8) (*types.Transaction, error)
}

var (
	userEndorsement = endorseKind{
		name:   "endorseUserLevel",
		ok:     constants.MsgUserEndorsed,
		failed: constants.MsgUserEndorseFailed,
		method: func(c Contract) func(context.Context, common.Address, uint8) (*types.Transaction, error) {
			return c.EndorseUserLevel
		},
	}
	daoEndorsement = endorseKind{
		name:   "endorseDaoLevel",
		ok:     constants.MsgDaoEndorsed,
		failed: constants.MsgDaoEndorseFailed,
		method: func(c Contract) func(context.Context, common.Address, uint8) (*types.Transaction, error) {
			return c.EndorseDaoLevel
		},
	}
)

func (i *Invoker) EndorseUser(ctx context.Context, c Contract, req Request) (Result, error) {
	return i.endorse(ctx, c, req, userEndorsement)
}

func (i *Invoker) EndorseDao(ctx context.Context, c Contract, req Request) (Result, error) {
	return i.endorse(ctx, c, req, daoEndorsement)
}

func (i *Invoker) endorse(ctx context.Context, c Contract, req Request, kind endorseKind) (Result, error) {
	if c == nil {
		return Result{}, ErrNoSession
	}
	target := strings.TrimSpace(req.Target)
	if target == "" || strings.TrimSpace(req.Level) == "" {
		return Result{}, ErrInvalidRequest
	}
	level, err := levels.Parse(req.Level)
	if err != nil {
		return Result{}, errors.Mark(err, ErrInvalidRequest)
	}

	if err := i.guard.Begin(Submitting); err != nil {
		return Result{}, err
	}
	defer i.guard.End()

	actionID := uuid.NewString()
	fail := func(stage string, err error) (Result, error) {
		log.Error("endorsement failed", "action", actionID, "method", kind.name, "stage", stage, "error", err)
		return Result{Outcome: Failure, Message: kind.failed}, nil
	}

	user, err := helpers.ParseAddress(target)
	if err != nil {
		return fail("address", err)
	}

	log.Info("submitting endorsement", "action", actionID, "method", kind.name, "user", user.Hex(), "level", level)
	tx, err := kind.method(c)(ctx, user, level)
	if err != nil {
		return fail("submit", err)
	}

	i.guard.Advance(AwaitingConfirmation)
	receipt, err := c.WaitConfirmed(ctx, tx)
	if err != nil {
		return fail("confirm", err)
	}

	log.Info("endorsement confirmed", "action", actionID, "tx", tx.Hash().Hex(), "status", receipt.Status)
	return Result{Outcome: Success, Message: kind.ok}, nil
}

// FetchStats reads getUserStats. On success res is nil; on failure stats is nil.
func (i *Invoker) FetchStats(ctx context.Context, c Contract, target string) (*Stats, *Result, error) {
	if c == nil {
		return nil, nil, ErrNoSession
	}
	target = strings.TrimSpace(target)
	if target == "" {
		return nil, nil, ErrInvalidRequest
	}
	if err := i.guard.Begin(Reading); err != nil {
		return nil, nil, err
	}
	defer i.guard.End()

	actionID := uuid.NewString()
	failed := &Result{Outcome: Failure, Message: constants.MsgStatsFailed}

	user, err := helpers.ParseAddress(target)
	if err != nil {
		log.Error("stats lookup failed", "action", actionID, "stage", "address", "error", err)
		return nil, failed, nil
	}
	raw, err := c.UserStats(ctx, user)
	if err != nil {
		log.Error("stats lookup failed", "action", actionID, "user", user.Hex(), "error", err)
		return nil, failed, nil
	}

	return &Stats{
		UserLevel:         raw.UserLevel,
		UserLevelName:     levels.UserName(raw.UserLevel),
		DaoLevel:          raw.DaoLevel,
		DaoLevelName:      levels.DaoName(raw.DaoLevel),
		EndorsementsGiven: decimal(raw.EndorsementsGiven),
		PeopleHelped:      decimal(raw.PeopleHelped),
	}, nil, nil
}
