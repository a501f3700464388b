package statemachine

import (
	"fmt"
	"os"
	"strings"

	orderv1 "github.com/muhammadchandra19/exchange/services/order-management/domain/order/v1"
	"gopkg.in/yaml.v3"
)

const (
	// ProfileStandard requires an explicit acknowledgement before an order goes LIVE.
	ProfileStandard = "standard"
	// ProfileSimplified lets a new order go LIVE directly.
	ProfileSimplified = "simplified"
	// ProfileExtended adds expiry of LIVE orders.
	ProfileExtended = "extended"
)

func mustBuild(b *ConfigBuilder) *Machine {
	cfg, err := b.Build()
	if err != nil {
		panic(err)
	}
	return New(cfg)
}

// Standard returns NEW→UNACK→LIVE with FILLED, CXL and REJ closing to CLOSED.
func Standard() *Machine {
	return mustBuild(NewConfigBuilder(ProfileStandard).
		Initial(orderv1.StateNew).
		Transition(orderv1.StateNew, orderv1.StateUnack).
		Transition(orderv1.StateUnack, orderv1.StateLive, orderv1.StateRejected).
		Transition(orderv1.StateLive, orderv1.StateFilled, orderv1.StateCanceled, orderv1.StateRejected).
		Transition(orderv1.StateFilled, orderv1.StateClosed).
		Transition(orderv1.StateCanceled, orderv1.StateClosed).
		Transition(orderv1.StateRejected, orderv1.StateClosed).
		Terminal(orderv1.StateClosed, orderv1.StateExpired))
}

// Simplified is Standard without the UNACK step.
func Simplified() *Machine {
	return mustBuild(NewConfigBuilder(ProfileSimplified).
		Initial(orderv1.StateNew).
		Transition(orderv1.StateNew, orderv1.StateLive, orderv1.StateRejected).
		Transition(orderv1.StateLive, orderv1.StateFilled, orderv1.StateCanceled, orderv1.StateRejected).
		Transition(orderv1.StateFilled, orderv1.StateClosed).
		Transition(orderv1.StateCanceled, orderv1.StateClosed).
		Transition(orderv1.StateRejected, orderv1.StateClosed).
		Terminal(orderv1.StateClosed, orderv1.StateExpired))
}

// Extended is Standard plus LIVE→EXP→CLOSED. Only CLOSED is terminal.
func Extended() *Machine {
	return mustBuild(NewConfigBuilder(ProfileExtended).
		Initial(orderv1.StateNew).
		Transition(orderv1.StateNew, orderv1.StateUnack).
		Transition(orderv1.StateUnack, orderv1.StateLive, orderv1.StateRejected).
		Transition(orderv1.StateLive, orderv1.StateFilled, orderv1.StateCanceled, orderv1.StateRejected, orderv1.StateExpired).
		Transition(orderv1.StateFilled, orderv1.StateClosed).
		Transition(orderv1.StateCanceled, orderv1.StateClosed).
		Transition(orderv1.StateRejected, orderv1.StateClosed).
		Transition(orderv1.StateExpired, orderv1.StateClosed).
		Terminal(orderv1.StateClosed))
}

// ProfileByName returns one of the built-in profiles.
func ProfileByName(name string) (*Machine, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ProfileStandard:
		return Standard(), nil
	case ProfileSimplified:
		return Simplified(), nil
	case ProfileExtended:
		return Extended(), nil
	}
	return nil, invalidConfig("profile", "unknown state machine profile %q", name)
}

// profileFile is the YAML layout of a custom profile:
//
//	name: desk
//	initial: NEW
//	terminal: [CLOSED]
//	transitions:
//	  NEW: [LIVE, REJ]
type profileFile struct {
	Name        string              `yaml:"name"`
	Initial     string              `yaml:"initial"`
	Terminal    []string            `yaml:"terminal"`
	Transitions map[string][]string `yaml:"transitions"`
}

// LoadProfileFile reads a custom profile from a YAML file.
func LoadProfileFile(path string) (*Machine, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read state machine profile: %w", err)
	}
	return ParseProfile(raw)
}

// ParseProfile builds a Machine from YAML, applying the same validation as the built-in profiles.
func ParseProfile(raw []byte) (*Machine, error) {
	var pf profileFile
	if err := yaml.Unmarshal(raw, &pf); err != nil {
		return nil, invalidConfig("profile", "malformed state machine profile: %v", err)
	}

	if pf.Name == "" {
		pf.Name = "custom"
	}
	b := NewConfigBuilder(pf.Name)

	initial, err := orderv1.ParseState(pf.Initial)
	if err != nil {
		return nil, invalidConfig("initial", "%v", err)
	}
	b.Initial(initial)

	for _, name := range pf.Terminal {
		s, err := orderv1.ParseState(name)
		if err != nil {
			return nil, invalidConfig("terminal", "%v", err)
		}
		b.Terminal(s)
	}

	// map iteration order does not matter: Build only depends on the edge sets
	for fromName, toNames := range pf.Transitions {
		from, err := orderv1.ParseState(fromName)
		if err != nil {
			return nil, invalidConfig("transitions", "%v", err)
		}
		targets := make([]orderv1.State, 0, len(toNames))
		for _, toName := range toNames {
			to, err := orderv1.ParseState(toName)
			if err != nil {
				return nil, invalidConfig("transitions", "%v", err)
			}
			targets = append(targets, to)
		}
		b.Transition(from, targets...)
	}

	cfg, err := b.Build()
	if err != nil {
		return nil, err
	}
	return New(cfg), nil
}
