package app

import (
	"fmt"
	"sync"

	"github.com/bft-labs/ser2syslog/internal/domain"
	"github.com/bft-labs/ser2syslog/internal/ports"
)

// State represents the run loop state.
type State int

const (
	StateIdle State = iota
	StateOpening
	StateReading
	StateReopening
	StateClosed
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateOpening:
		return "Opening"
	case StateReading:
		return "Reading"
	case StateReopening:
		return "Reopening"
	case StateClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// transitions lists the states reachable from each state.
var transitions = map[State][]State{
	StateIdle:      {StateOpening},
	StateOpening:   {StateOpening, StateReading, StateClosed},
	StateReading:   {StateReopening, StateClosed},
	StateReopening: {StateOpening},
}

// StateObserver is called when the run loop changes state.
type StateObserver interface {
	OnStateChange(previous, current State, reason string)
}

// Lifecycle manages the state machine of the run loop.
type Lifecycle struct {
	mu       sync.RWMutex
	state    State
	logger   ports.Logger
	observer StateObserver
}

// NewLifecycle creates a lifecycle in StateIdle. observer may be nil.
func NewLifecycle(logger ports.Logger, observer StateObserver) *Lifecycle {
	return &Lifecycle{
		state:    StateIdle,
		logger:   logger,
		observer: observer,
	}
}

// State returns the current state.
func (l *Lifecycle) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// TransitionTo moves to newState. It returns an error wrapping
// domain.ErrInvalidTransition if newState is not reachable.
func (l *Lifecycle) TransitionTo(newState State, reason string) error {
	l.mu.Lock()
	oldState := l.state
	if !canTransition(oldState, newState) {
		l.mu.Unlock()
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, oldState, newState)
	}
	l.state = newState
	l.mu.Unlock()

	// Notify outside of lock
	if l.observer != nil {
		l.observer.OnStateChange(oldState, newState, reason)
	}

	l.logger.Debug("state transition",
		ports.String("from", oldState.String()),
		ports.String("to", newState.String()),
		ports.String("reason", reason),
	)
	return nil
}

func canTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
