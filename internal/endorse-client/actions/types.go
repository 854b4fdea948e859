package actions

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/nwr-dao/endorse-client/internal/endorse-client/endorser"
)

var (
	ErrNoSession      = errors.New("no connected session")
	ErrInvalidRequest = errors.New("target and level are required")
)

type Outcome int

const (
	Success Outcome = iota + 1
	Failure
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Failure:
		return "failure"
	default:
		return ""
	}
}

func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// Result is the last user-visible outcome.
type Result struct {
	Outcome Outcome `json:"outcome"`
	Message string  `json:"message"`
}

// Request carries the raw form values.
type Request struct {
	Target string `json:"address"`
	Level  string `json:"level"`
}

type Stats struct {
	UserLevel         uint8  `json:"userLevel"`
	UserLevelName     string `json:"userLevelName"`
	DaoLevel          uint8  `json:"daoLevel"`
	DaoLevelName      string `json:"daoLevelName"`
	EndorsementsGiven string `json:"endorsementsGiven"`
	PeopleHelped      string `json:"peopleHelped"`
}

// Contract is the bound endorsement contract of the current session.
type Contract interface {
	EndorseUserLevel(ctx context.Context, user common.Address, level uint8) (*types.Transaction, error)
	EndorseDaoLevel(ctx context.Context, user common.Address, level uint8) (*types.Transaction, error)
	UserStats(ctx context.Context, user common.Address) (endorser.UserStats, error)
	WaitConfirmed(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
}
