package app

import (
	"github.com/nwr-dao/endorse-client/internal/endorse-client/actions"
	"github.com/nwr-dao/endorse-client/internal/endorse-client/environment"
	"github.com/nwr-dao/endorse-client/internal/endorse-client/networks"
	"github.com/nwr-dao/endorse-client/internal/endorse-client/session"
	"github.com/nwr-dao/endorse-client/internal/endorse-client/utils"
)

// Snapshot is a copy of the controller state for rendering.
type Snapshot struct {
	Environment environment.Environment `json:"environment"`
	Session     *session.Session        `json:"session,omitempty"`
	Connected   bool                    `json:"connected"`
	Supported   bool                    `json:"supportedChain"`
	Network     string                  `json:"network,omitempty"`
	Balance     string                  `json:"balance,omitempty"`
	Currency    string                  `json:"currency,omitempty"`
	AccountURL  string                  `json:"accountUrl,omitempty"`
	State       actions.State           `json:"state"`
	Result      *actions.Result         `json:"result,omitempty"`
	Stats       *actions.Stats          `json:"stats,omitempty"`
	HandoffURL  string                  `json:"handoffUrl,omitempty"`
	Contract    string                  `json:"contract"`
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		Environment: c.env,
		State:       c.invoker.Guard().State(),
		HandoffURL:  c.handoffURL,
		Contract:    c.contractAddr.Hex(),
	}
	if len(c.env.Detected) > 0 {
		snap.Environment.Detected = append([]string(nil), c.env.Detected...)
	}
	if c.session != nil {
		s := c.session.Clone()
		snap.Session = &s
		snap.Connected = s.Connected()
		snap.Supported = s.Supported()
		if s.ChainID != nil && s.ChainID.IsUint64() {
			snap.Network = session.SupportedChains[s.ChainID.Uint64()]
		}
		if k, ok := networks.Lookup(s.ChainID); ok {
			snap.Currency = k.Currency
			if s.Address != nil {
				snap.AccountURL = networks.AddressURL(s.ChainID, s.Address.Hex())
			}
		}
		if s.BalanceWei != "" {
			snap.Balance = utils.FormatWei(s.BalanceWei, 4)
		}
	}
	if c.result != nil {
		r := *c.result
		snap.Result = &r
	}
	if c.stats != nil {
		st := *c.stats
		snap.Stats = &st
	}
	return snap
}
