package main

import (
	"strings"
	"testing"
)

func TestUnmarshalEvent_RotaryTurn(t *testing.T) {
	ev, err := UnmarshalEvent([]byte(`{"type":"rotary_turn","data":{"steps":-4}}`))
	if err != nil {
		t.Fatalf("UnmarshalEvent: %v", err)
	}
	turn, ok := ev.(RotaryTurn)
	if !ok {
		t.Fatalf("expected RotaryTurn, got %T", ev)
	}
	if turn.Steps != -4 {
		t.Errorf("steps = %d, want -4", turn.Steps)
	}
}

func TestUnmarshalEvent_GetState(t *testing.T) {
	ev, err := UnmarshalEvent([]byte(`{"type":"get_state"}`))
	if err != nil {
		t.Fatalf("UnmarshalEvent: %v", err)
	}
	if _, ok := ev.(GetState); !ok {
		t.Fatalf("expected GetState, got %T", ev)
	}
}

func TestUnmarshalEvent_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"not json", `rotary_turn 3`, "unmarshal envelope"},
		{"unknown type", `{"type":"button_press"}`, "unknown event type"},
		{"missing data", `{"type":"rotary_turn"}`, "missing data"},
		{"bad data", `{"type":"rotary_turn","data":{"steps":"many"}}`, "unmarshal RotaryTurn"},
	}
	for _, tt := range tests {
		_, err := UnmarshalEvent([]byte(tt.input))
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: expected error containing %q, got %v", tt.name, tt.want, err)
		}
	}
}

func TestMarshalEvent(t *testing.T) {
	b, err := MarshalEvent(RotaryTurn{Steps: 7})
	if err != nil {
		t.Fatalf("MarshalEvent: %v", err)
	}
	if string(b) != `{"type":"rotary_turn","data":{"steps":7}}` {
		t.Errorf("unexpected encoding %s", b)
	}

	b, err = MarshalEvent(GetState{})
	if err != nil {
		t.Fatalf("MarshalEvent: %v", err)
	}
	if string(b) != `{"type":"get_state"}` {
		t.Errorf("unexpected encoding %s", b)
	}

	if _, err := MarshalEvent(Tick{}); err == nil {
		t.Errorf("expected internal events to be rejected")
	}
}
