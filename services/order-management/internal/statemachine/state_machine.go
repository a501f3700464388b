package statemachine

import (
	"fmt"

	orderv1 "github.com/muhammadchandra19/exchange/services/order-management/domain/order/v1"
)

// TransitionError is returned when a transition is not part of the configuration.
type TransitionError struct {
	From orderv1.State
	To   orderv1.State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("Invalid state transition from %s to %s", e.From, e.To)
}

// TransitionResult describes the outcome of validating a sequence of states.
type TransitionResult struct {
	Valid bool
	// Path holds the states walked before the first invalid edge, or all of them.
	Path       []orderv1.State
	FailedFrom orderv1.State
	FailedTo   orderv1.State
}

// Machine answers transition questions for one Config. It is safe for concurrent use.
type Machine struct {
	config *Config
}

// New returns a Machine for cfg.
func New(cfg *Config) *Machine {
	return &Machine{config: cfg}
}

// Name returns the profile name.
func (m *Machine) Name() string {
	return m.config.name
}

// InitialState returns the state new orders start in.
func (m *Machine) InitialState() orderv1.State {
	return m.config.initial
}

// IsValidTransition reports whether from may move to to.
func (m *Machine) IsValidTransition(from, to orderv1.State) bool {
	targets, ok := m.config.transitions[from]
	if !ok {
		return false
	}
	_, ok = targets[to]
	return ok
}

// ValidTransitions lists the states reachable from from in one step, ordered as in orderv1.States.
func (m *Machine) ValidTransitions(from orderv1.State) []orderv1.State {
	targets := m.config.transitions[from]
	out := make([]orderv1.State, 0, len(targets))
	for _, s := range orderv1.States {
		if _, ok := targets[s]; ok {
			out = append(out, s)
		}
	}
	return out
}

// IsTerminal reports whether state is configured as terminal.
func (m *Machine) IsTerminal(state orderv1.State) bool {
	_, ok := m.config.terminal[state]
	return ok
}

// IsInitial reports whether state is the initial state.
func (m *Machine) IsInitial(state orderv1.State) bool {
	return state == m.config.initial
}

// Transition returns to when the edge exists, otherwise a *TransitionError.
func (m *Machine) Transition(from, to orderv1.State) (orderv1.State, error) {
	if !m.IsValidTransition(from, to) {
		return from, &TransitionError{From: from, To: to}
	}
	return to, nil
}

// ValidateSequence walks initial followed by states and stops at the first invalid edge.
func (m *Machine) ValidateSequence(initial orderv1.State, states ...orderv1.State) TransitionResult {
	path := []orderv1.State{initial}
	current := initial
	for _, next := range states {
		if !m.IsValidTransition(current, next) {
			return TransitionResult{Path: path, FailedFrom: current, FailedTo: next}
		}
		path = append(path, next)
		current = next
	}
	return TransitionResult{Valid: true, Path: path}
}
