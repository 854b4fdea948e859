package session

import (
	"context"
	"math/big"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/quantumauth-io/quantum-go-utils/log"

	"github.com/nwr-dao/endorse-client/internal/endorse-client/connectors"
	"github.com/nwr-dao/endorse-client/internal/endorse-client/constants"
)

// SupportedChains are the networks the contract is deployed on.
var SupportedChains = map[uint64]string{
	constants.PolygonChainID: "polygon",
	constants.BSCChainID:     "bsc",
}

// Session is one connected wallet. Absent values are nil or empty.
type Session struct {
	Address     *common.Address `json:"address,omitempty"`
	ChainID     *big.Int        `json:"chainId,omitempty"`
	BalanceWei  string          `json:"balanceWei,omitempty"`
	Kind        connectors.Kind `json:"kind"`
	ConnectorID string          `json:"connectorId,omitempty"`
}

// Clone returns a copy that shares no pointers with s.
func (s Session) Clone() Session {
	out := s
	if s.Address != nil {
		a := *s.Address
		out.Address = &a
	}
	if s.ChainID != nil {
		out.ChainID = new(big.Int).Set(s.ChainID)
	}
	return out
}

func (s Session) Connected() bool { return s.Address != nil }

// Supported reports whether the session's chain is one the contract lives on.
func (s Session) Supported() bool {
	if s.ChainID == nil || !s.ChainID.IsUint64() {
		return false
	}
	_, ok := SupportedChains[s.ChainID.Uint64()]
	return ok
}

// Establish resolves signer, address, balance and chain id, in that order.
// An unsupported chain is logged and does not fail the connection.
func Establish(ctx context.Context, desc connectors.Descriptor, p connectors.Provider) (Session, connectors.Signer, error) {
	if p == nil {
		return Session{}, nil, errors.New("provider is nil")
	}

	signer, err := p.Signer(ctx)
	if err != nil {
		log.Error("wallet signer request failed", "connector", desc.ID, "error", err)
		return Session{}, nil, errors.Wrap(err, "request signer")
	}
	addr := signer.Address()

	backend := p.Backend()
	if backend == nil {
		return Session{}, nil, errors.Newf("connector %s has no chain backend", desc.ID)
	}
	balance, err := backend.BalanceAt(ctx, addr, nil)
	if err != nil {
		log.Error("balance lookup failed", "connector", desc.ID, "address", addr.Hex(), "error", err)
		return Session{}, nil, errors.Wrap(err, "balance")
	}

	chainID, err := p.ChainID(ctx)
	if err != nil {
		log.Error("chain id lookup failed", "connector", desc.ID, "error", err)
		return Session{}, nil, errors.Wrap(err, "chain id")
	}

	s := Session{
		Address:     &addr,
		ChainID:     chainID,
		BalanceWei:  balance.String(),
		Kind:        desc.Kind,
		ConnectorID: desc.ID,
	}
	if !s.Supported() {
		log.Warn("connected on an unsupported chain", "chainId", chainID.String(), "address", addr.Hex())
	}
	log.Info("wallet connected", "connector", desc.ID, "kind", desc.Kind.String(), "address", addr.Hex(), "chainId", chainID.String())
	return s, signer, nil
}
