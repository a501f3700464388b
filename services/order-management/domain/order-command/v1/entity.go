package v1

import (
	"encoding/json"
	"fmt"
	"time"

	orderv1 "github.com/muhammadchandra19/exchange/services/order-management/domain/order/v1"
)

// CommandType discriminates the payload of a CommandEnvelope.
type CommandType string

const (
	// CommandCreateOrder carries an orderv1.CreateOrderCmd.
	CommandCreateOrder CommandType = "OrderCreateCmd"
	// CommandAcceptOrder carries an orderv1.AcceptOrderCmd.
	CommandAcceptOrder CommandType = "OrderAcceptCmd"
	// CommandExecution carries an orderv1.ExecutionCmd.
	CommandExecution CommandType = "ExecutionCreateCmd"
)

// CommandEnvelope is a command read from the intake topic.
type CommandEnvelope struct {
	CommandID string          `json:"commandId,omitempty"`
	Type      CommandType     `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// ErrUnsupportedCommand is returned for an unknown envelope type.
type ErrUnsupportedCommand struct {
	Type CommandType
}

func (e *ErrUnsupportedCommand) Error() string {
	return fmt.Sprintf("unsupported command type %q", e.Type)
}

// FromBytes decodes an envelope.
func FromBytes(data []byte) (*CommandEnvelope, error) {
	var env CommandEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	if len(env.Payload) == 0 || string(env.Payload) == "null" {
		return nil, fmt.Errorf("command %q has no payload", env.Type)
	}
	return &env, nil
}

// NewEnvelope wraps a command into an envelope of the matching type.
func NewEnvelope(commandID string, cmd any) (*CommandEnvelope, error) {
	var t CommandType
	switch cmd.(type) {
	case *orderv1.CreateOrderCmd, orderv1.CreateOrderCmd:
		t = CommandCreateOrder
	case *orderv1.AcceptOrderCmd, orderv1.AcceptOrderCmd:
		t = CommandAcceptOrder
	case *orderv1.ExecutionCmd, orderv1.ExecutionCmd:
		t = CommandExecution
	default:
		return nil, fmt.Errorf("unsupported command %T", cmd)
	}

	payload, err := json.Marshal(cmd)
	if err != nil {
		return nil, err
	}
	return &CommandEnvelope{
		CommandID: commandID,
		Type:      t,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}, nil
}

// ToBytes encodes the envelope as JSON.
func (e *CommandEnvelope) ToBytes() ([]byte, error) {
	return json.Marshal(e)
}

// Decode unmarshals the payload into the command named by Type.
// It returns *orderv1.CreateOrderCmd, *orderv1.AcceptOrderCmd or *orderv1.ExecutionCmd.
func (e *CommandEnvelope) Decode() (any, error) {
	var cmd any
	switch e.Type {
	case CommandCreateOrder:
		cmd = &orderv1.CreateOrderCmd{}
	case CommandAcceptOrder:
		cmd = &orderv1.AcceptOrderCmd{}
	case CommandExecution:
		cmd = &orderv1.ExecutionCmd{}
	default:
		return nil, &ErrUnsupportedCommand{Type: e.Type}
	}

	if err := json.Unmarshal(e.Payload, cmd); err != nil {
		return nil, err
	}
	return cmd, nil
}
