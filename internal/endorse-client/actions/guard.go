package actions

import (
	"sync"

	"github.com/cockroachdb/errors"
)

var ErrBusy = errors.New("another operation is pending")

type State int

const (
	Idle State = iota
	Connecting
	Submitting
	AwaitingConfirmation
	Reading
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Connecting:
		return "connecting"
	case Submitting:
		return "submitting"
	case AwaitingConfirmation:
		return "awaiting_confirmation"
	case Reading:
		return "reading"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Guard admits one operation at a time.
type Guard struct {
	mu    sync.Mutex
	state State
}

// Begin moves Idle to s, or fails with ErrBusy.
func (g *Guard) Begin(s State) error {
	if s == Idle {
		return errors.New("cannot begin idle")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != Idle {
		return errors.Wrapf(ErrBusy, "currently %s", g.state)
	}
	g.state = s
	return nil
}

// Advance moves a running operation to its next phase.
func (g *Guard) Advance(s State) {
	g.mu.Lock()
	g.state = s
	g.mu.Unlock()
}

func (g *Guard) End() {
	g.Advance(Idle)
}

func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}
