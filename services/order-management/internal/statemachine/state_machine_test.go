package statemachine

import (
	"testing"

	"github.com/muhammadchandra19/exchange/pkg/errors"
	orderv1 "github.com/muhammadchandra19/exchange/services/order-management/domain/order/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allProfiles() []*Machine {
	return []*Machine{Standard(), Simplified(), Extended()}
}

func TestTerminalStatesHaveNoOutgoingEdges(t *testing.T) {
	for _, m := range allProfiles() {
		t.Run(m.Name(), func(t *testing.T) {
			for _, from := range orderv1.States {
				if !m.IsTerminal(from) {
					continue
				}
				for _, to := range orderv1.States {
					assert.Falsef(t, m.IsValidTransition(from, to), "%s -> %s", from, to)
				}
				assert.Empty(t, m.ValidTransitions(from))
			}
			for _, to := range orderv1.States {
				assert.False(t, m.IsValidTransition(orderv1.StateClosed, to))
			}
			assert.True(t, m.IsTerminal(orderv1.StateClosed))
		})
	}
}

func TestProfiles(t *testing.T) {
	testCases := []struct {
		name    string
		machine *Machine
		from    orderv1.State
		to      orderv1.State
		valid   bool
	}{
		{name: "standard new to unack", machine: Standard(), from: orderv1.StateNew, to: orderv1.StateUnack, valid: true},
		{name: "standard new to live", machine: Standard(), from: orderv1.StateNew, to: orderv1.StateLive, valid: false},
		{name: "standard unack to live", machine: Standard(), from: orderv1.StateUnack, to: orderv1.StateLive, valid: true},
		{name: "standard unack to rejected", machine: Standard(), from: orderv1.StateUnack, to: orderv1.StateRejected, valid: true},
		{name: "standard live to filled", machine: Standard(), from: orderv1.StateLive, to: orderv1.StateFilled, valid: true},
		{name: "standard live to expired", machine: Standard(), from: orderv1.StateLive, to: orderv1.StateExpired, valid: false},
		{name: "standard filled to closed", machine: Standard(), from: orderv1.StateFilled, to: orderv1.StateClosed, valid: true},
		{name: "standard filled to live", machine: Standard(), from: orderv1.StateFilled, to: orderv1.StateLive, valid: false},
		{name: "simplified new to live", machine: Simplified(), from: orderv1.StateNew, to: orderv1.StateLive, valid: true},
		{name: "simplified new to unack", machine: Simplified(), from: orderv1.StateNew, to: orderv1.StateUnack, valid: false},
		{name: "simplified new to rejected", machine: Simplified(), from: orderv1.StateNew, to: orderv1.StateRejected, valid: true},
		{name: "extended live to expired", machine: Extended(), from: orderv1.StateLive, to: orderv1.StateExpired, valid: true},
		{name: "extended expired to closed", machine: Extended(), from: orderv1.StateExpired, to: orderv1.StateClosed, valid: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.valid, tc.machine.IsValidTransition(tc.from, tc.to))
		})
	}
}

func TestExpiredTerminality(t *testing.T) {
	assert.True(t, Standard().IsTerminal(orderv1.StateExpired))
	assert.True(t, Simplified().IsTerminal(orderv1.StateExpired))
	assert.False(t, Extended().IsTerminal(orderv1.StateExpired))
}

func TestValidTransitionsOrder(t *testing.T) {
	assert.Equal(t,
		[]orderv1.State{orderv1.StateFilled, orderv1.StateCanceled, orderv1.StateRejected},
		Standard().ValidTransitions(orderv1.StateLive),
	)

	// edges declared in reverse still come back in state order
	cfg, err := NewConfigBuilder("reversed").
		Initial(orderv1.StateNew).
		Transition(orderv1.StateNew, orderv1.StateRejected, orderv1.StateLive).
		Terminal(orderv1.StateRejected, orderv1.StateLive).
		Build()
	require.NoError(t, err)
	assert.Equal(t,
		[]orderv1.State{orderv1.StateLive, orderv1.StateRejected},
		New(cfg).ValidTransitions(orderv1.StateNew),
	)
}

func TestTransition(t *testing.T) {
	m := Standard()

	next, err := m.Transition(orderv1.StateUnack, orderv1.StateLive)
	require.NoError(t, err)
	assert.Equal(t, orderv1.StateLive, next)

	next, err = m.Transition(orderv1.StateNew, orderv1.StateLive)
	require.Error(t, err)
	assert.Equal(t, orderv1.StateNew, next)

	var transitionErr *TransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, orderv1.StateNew, transitionErr.From)
	assert.Equal(t, "Invalid state transition from NEW to LIVE", err.Error())
}

func TestValidateSequence(t *testing.T) {
	m := Standard()

	res := m.ValidateSequence(orderv1.StateNew, orderv1.StateUnack, orderv1.StateLive, orderv1.StateFilled, orderv1.StateClosed)
	assert.True(t, res.Valid)
	assert.Len(t, res.Path, 5)

	res = m.ValidateSequence(orderv1.StateNew, orderv1.StateUnack, orderv1.StateFilled)
	assert.False(t, res.Valid)
	assert.Equal(t, []orderv1.State{orderv1.StateNew, orderv1.StateUnack}, res.Path)
	assert.Equal(t, orderv1.StateUnack, res.FailedFrom)
	assert.Equal(t, orderv1.StateFilled, res.FailedTo)

	assert.True(t, m.ValidateSequence(orderv1.StateNew).Valid)
}

func TestConfigBuilderRejectsInvalidTables(t *testing.T) {
	testCases := []struct {
		name    string
		builder *ConfigBuilder
	}{
		{
			name:    "missing initial",
			builder: NewConfigBuilder("x").Transition(orderv1.StateNew, orderv1.StateLive),
		},
		{
			name: "terminal with outgoing edge",
			builder: NewConfigBuilder("x").
				Initial(orderv1.StateNew).
				Transition(orderv1.StateClosed, orderv1.StateNew).
				Terminal(orderv1.StateClosed),
		},
		{
			name: "unknown target",
			builder: NewConfigBuilder("x").
				Initial(orderv1.StateNew).
				Transition(orderv1.StateNew, orderv1.State("PARTIAL")),
		},
		{
			name: "unknown source",
			builder: NewConfigBuilder("x").
				Initial(orderv1.StateNew).
				Transition(orderv1.State("HELD"), orderv1.StateLive),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := tc.builder.Build()
			assert.Nil(t, cfg)
			assert.True(t, errors.ErrorCodeEquals(err, string(errors.StateMachineConfigError)))
		})
	}
}

func TestIsInitial(t *testing.T) {
	for _, m := range allProfiles() {
		assert.True(t, m.IsInitial(orderv1.StateNew))
		assert.Equal(t, orderv1.StateNew, m.InitialState())
		assert.False(t, m.IsInitial(orderv1.StateLive))
	}
}
