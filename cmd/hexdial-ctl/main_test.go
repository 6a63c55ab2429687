package main

import "testing"

func TestMarshalEvent(t *testing.T) {
	b, err := marshalEvent(RotaryTurn{Steps: -2})
	if err != nil {
		t.Fatalf("marshalEvent: %v", err)
	}
	if string(b) != `{"type":"rotary_turn","data":{"steps":-2}}` {
		t.Errorf("unexpected encoding %s", b)
	}

	b, err = marshalEvent(GetState{})
	if err != nil {
		t.Fatalf("marshalEvent: %v", err)
	}
	if string(b) != `{"type":"get_state"}` {
		t.Errorf("unexpected encoding %s", b)
	}

	if _, err := marshalEvent(struct{}{}); err == nil {
		t.Errorf("expected error for unknown event")
	}
}
