package v1

import (
	"fmt"
	"strings"
)

// State is the lifecycle state of an order.
type State string

const (
	// StateNew is the state of an order that has been received but not yet acknowledged.
	StateNew State = "NEW"
	// StateUnack is the state of a persisted order waiting for acceptance.
	StateUnack State = "UNACK"
	// StateLive is the state of an accepted order that can receive executions.
	StateLive State = "LIVE"
	// StateFilled is the state of an order whose quantity is fully executed.
	StateFilled State = "FILLED"
	// StateCanceled is the state of a cancelled order.
	StateCanceled State = "CXL"
	// StateRejected is the state of a rejected order.
	StateRejected State = "REJ"
	// StateExpired is the state of an order that reached its expiry.
	StateExpired State = "EXP"
	// StateClosed is the final archival state.
	StateClosed State = "CLOSED"
)

// States lists every order state in declaration order.
var States = []State{
	StateNew,
	StateUnack,
	StateLive,
	StateFilled,
	StateCanceled,
	StateRejected,
	StateExpired,
	StateClosed,
}

// ParseState maps a state name to its State, ignoring case.
func ParseState(s string) (State, error) {
	candidate := State(strings.ToUpper(strings.TrimSpace(s)))
	if candidate.Valid() {
		return candidate, nil
	}
	return "", fmt.Errorf("unknown order state %q", s)
}

// Valid reports whether s is one of the declared states.
func (s State) Valid() bool {
	for _, state := range States {
		if s == state {
			return true
		}
	}
	return false
}

func (s State) String() string {
	return string(s)
}

// CancelState tracks a cancel or replace request independently of the order state.
type CancelState string

const (
	// CancelStateNone means no request is outstanding.
	CancelStateNone CancelState = ""
	// CancelStateCanceled means the cancel was confirmed.
	CancelStateCanceled CancelState = "CXL"
	// CancelStatePendingCancel means a cancel was requested and not yet confirmed.
	CancelStatePendingCancel CancelState = "PCXL"
	// CancelStatePendingModify means a replace was requested and not yet confirmed.
	CancelStatePendingModify CancelState = "PMOD"
	// CancelStateRejected means the cancel or replace request was rejected.
	CancelStateRejected CancelState = "REJ"
)
