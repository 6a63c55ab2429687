package main

import (
	"fmt"
	"strings"
)

// inputEvent represents a Linux input event structure
// struct input_event { struct timeval time; __u16 type; __u16 code; __s32 value; };
type inputEvent struct {
	Sec   int64
	Usec  int64
	Type  uint16
	Code  uint16
	Value int32
}

// axisCode maps the config name of a relative axis to its evdev code.
func axisCode(name string) (uint16, error) {
	switch strings.ToLower(name) {
	case "dial", "":
		return REL_DIAL, nil
	case "wheel":
		return REL_WHEEL, nil
	case "misc":
		return REL_MISC, nil
	default:
		return 0, fmt.Errorf("unknown axis %q (must be dial, wheel or misc)", name)
	}
}

// inputTranslator turns raw evdev events into rotary turns.
type inputTranslator struct {
	axis   uint16
	invert bool
}

// translate returns the detent count carried by ev, or false if ev is not a
// movement on the configured axis.
func (t inputTranslator) translate(ev inputEvent) (RotaryTurn, bool) {
	if ev.Type != EV_REL || ev.Code != t.axis || ev.Value == 0 {
		return RotaryTurn{}, false
	}
	steps := int(ev.Value)
	if t.invert {
		steps = -steps
	}
	return RotaryTurn{Steps: steps}, true
}
