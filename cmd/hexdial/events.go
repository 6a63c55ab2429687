package main

import (
	"encoding/json"
	"fmt"
	"time"
)

// ============================================================================
// Events
// ============================================================================
// Events are the inputs of the daemon loop. Input devices, IPC clients and the
// state WebSocket all talk to the picker through the same channel, so the picker
// session stays owned by a single goroutine.
// ============================================================================

// Event is a marker interface for everything the daemon loop consumes.
type Event interface {
	eventMarker()
}

// RotaryTurn is a raw encoder movement in detents (positive = clockwise).
// Fast-spin scaling is applied by the daemon, not by the sender.
type RotaryTurn struct {
	Steps int `json:"steps"`
}

func (RotaryTurn) eventMarker() {}

// Tick is emitted by the daemon loop at a fixed cadence.
// Dt is wall-clock delta in seconds between ticks.
type Tick struct {
	Now time.Time
	Dt  float64
}

func (Tick) eventMarker() {}

// GetState asks for a state snapshot in the IPC response. It carries no data.
type GetState struct{}

func (GetState) eventMarker() {}

// RequestStateSnapshot asks the daemon loop to publish a snapshot on Reply.
// Reply should be buffered (size 1); the loop never blocks on it.
type RequestStateSnapshot struct {
	Reply chan<- StateSnapshot
}

func (RequestStateSnapshot) eventMarker() {}

// ============================================================================
// JSON Encoding/Decoding Support
// ============================================================================

// EventEnvelope wraps an event with a type discriminator for JSON marshaling
type EventEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// UnmarshalEvent deserializes a JSON event envelope into a concrete Event.
// Only client-facing events are accepted.
func UnmarshalEvent(data []byte) (Event, error) {
	var env EventEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unmarshal envelope: %w", err)
	}

	switch env.Type {
	case "rotary_turn":
		var a RotaryTurn
		if len(env.Data) == 0 {
			return nil, fmt.Errorf("unmarshal RotaryTurn: missing data")
		}
		if err := json.Unmarshal(env.Data, &a); err != nil {
			return nil, fmt.Errorf("unmarshal RotaryTurn: %w", err)
		}
		return a, nil

	case "get_state":
		return GetState{}, nil

	default:
		return nil, fmt.Errorf("unknown event type: %q", env.Type)
	}
}

// MarshalEvent serializes an Event into a JSON envelope with type discriminator
func MarshalEvent(e Event) ([]byte, error) {
	var env EventEnvelope

	switch e := e.(type) {
	case RotaryTurn:
		env.Type = "rotary_turn"
		data, err := json.Marshal(e)
		if err != nil {
			return nil, fmt.Errorf("marshal RotaryTurn: %w", err)
		}
		env.Data = data

	case GetState:
		env.Type = "get_state"

	default:
		return nil, fmt.Errorf("unsupported event type: %T", e)
	}

	return json.Marshal(env)
}
