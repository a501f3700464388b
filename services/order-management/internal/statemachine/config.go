package statemachine

import (
	"fmt"

	"github.com/muhammadchandra19/exchange/pkg/errors"
	orderv1 "github.com/muhammadchandra19/exchange/services/order-management/domain/order/v1"
)

// Config is a validated transition table. It is immutable once built.
type Config struct {
	name        string
	initial     orderv1.State
	transitions map[orderv1.State]map[orderv1.State]struct{}
	terminal    map[orderv1.State]struct{}
}

// ConfigBuilder accumulates a transition table and validates it on Build.
type ConfigBuilder struct {
	name        string
	initial     orderv1.State
	transitions map[orderv1.State][]orderv1.State
	order       []orderv1.State
	terminal    []orderv1.State
}

// NewConfigBuilder returns an empty builder.
func NewConfigBuilder(name string) *ConfigBuilder {
	return &ConfigBuilder{
		name:        name,
		transitions: make(map[orderv1.State][]orderv1.State),
	}
}

// Initial sets the state new orders start in.
func (b *ConfigBuilder) Initial(state orderv1.State) *ConfigBuilder {
	b.initial = state
	return b
}

// Transition allows from to move to each of to.
func (b *ConfigBuilder) Transition(from orderv1.State, to ...orderv1.State) *ConfigBuilder {
	if _, ok := b.transitions[from]; !ok {
		b.order = append(b.order, from)
	}
	b.transitions[from] = append(b.transitions[from], to...)
	return b
}

// Terminal marks states that admit no outgoing transition.
func (b *ConfigBuilder) Terminal(states ...orderv1.State) *ConfigBuilder {
	b.terminal = append(b.terminal, states...)
	return b
}

func invalidConfig(field, format string, args ...any) error {
	return errors.NewErrorDetails(fmt.Sprintf(format, args...), string(errors.StateMachineConfigError), field)
}

// Build validates the table. It fails when there is no valid initial state,
// when an edge names an unknown state, or when a terminal state has outgoing edges.
func (b *ConfigBuilder) Build() (*Config, error) {
	if !b.initial.Valid() {
		return nil, invalidConfig("initial", "state machine %q has no valid initial state", b.name)
	}

	cfg := &Config{
		name:        b.name,
		initial:     b.initial,
		transitions: make(map[orderv1.State]map[orderv1.State]struct{}, len(b.transitions)),
		terminal:    make(map[orderv1.State]struct{}, len(b.terminal)),
	}

	for _, s := range b.terminal {
		if !s.Valid() {
			return nil, invalidConfig("terminal", "unknown terminal state %q", s)
		}
		cfg.terminal[s] = struct{}{}
	}

	for _, from := range b.order {
		if !from.Valid() {
			return nil, invalidConfig("transitions", "unknown source state %q", from)
		}
		targets := b.transitions[from]
		if len(targets) == 0 {
			continue
		}
		if _, ok := cfg.terminal[from]; ok {
			return nil, invalidConfig("terminal", "terminal state %s has outgoing transitions", from)
		}
		set := make(map[orderv1.State]struct{}, len(targets))
		for _, to := range targets {
			if !to.Valid() {
				return nil, invalidConfig("transitions", "unknown target state %q from %s", to, from)
			}
			set[to] = struct{}{}
		}
		cfg.transitions[from] = set
	}

	return cfg, nil
}
