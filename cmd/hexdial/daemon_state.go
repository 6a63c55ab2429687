package main

import (
	"math"
	"strconv"
	"time"

	"hexdial/pkg/picker"
	"hexdial/pkg/wheel"
)

// StateSnapshot is a coherent, externally consumable view of the picker.
//
// It is built by the daemon goroutine (single owner of the session) and handed to
// IPC and WebSocket clients by value.
type StateSnapshot struct {
	Angle  float64 `json:"angle"`
	Moving bool    `json:"moving"`

	// Selected is the settled tile; SelectedKnown is false while the wheel moves.
	Selected      int       `json:"selected"`
	SelectedKnown bool      `json:"selected_known"`
	SettledAt     time.Time `json:"settled_at"`

	Tiles []TileSnapshot `json:"tiles"`
}

// TileSnapshot is the per-tile part of a snapshot.
type TileSnapshot struct {
	Index        int     `json:"index"`
	Label        string  `json:"label"`
	Color        string  `json:"color"` // #rrggbb
	Scale        float64 `json:"scale"`
	Glyph        string  `json:"glyph"`
	GlyphMissing bool    `json:"glyph_missing,omitempty"`
}

// StateBroadcast is a state change pushed to WebSocket clients.
type StateBroadcast interface {
	broadcastMarker()
}

// BroadcastWheelMoved reports the wheel angle. Bursty; the broadcaster coalesces it.
type BroadcastWheelMoved struct {
	Angle  float64
	Moving bool
	At     time.Time
}

func (BroadcastWheelMoved) broadcastMarker() {}

// BroadcastTileSelected reports a settle.
type BroadcastTileSelected struct {
	Index int
	Angle float64
	At    time.Time
}

func (BroadcastTileSelected) broadcastMarker() {}

// DaemonState is the daemon-owned bookkeeping around the picker session: what
// was last published, so broadcasts only go out on change.
type DaemonState struct {
	// LastSelection is the most recent settle, if any.
	LastSelection picker.Selection
	HasSelection  bool

	// LastAngle/LastMoving are the values of the last wheel_moved broadcast.
	LastAngle      float64
	LastMoving     bool
	AnglePublished bool
}

// angleEpsilon is the smallest wheel movement worth a broadcast (radians).
const angleEpsilon = 1e-4

// RecordSelection stores a settle.
func (s *DaemonState) RecordSelection(sel picker.Selection) {
	s.LastSelection = sel
	s.HasSelection = true
}

// WheelChanged reports whether angle/moving differ from the last published values,
// and records them if so.
func (s *DaemonState) WheelChanged(angle float64, moving bool) bool {
	if s.AnglePublished && moving == s.LastMoving && absAngleDiff(angle, s.LastAngle) < angleEpsilon {
		return false
	}
	s.LastAngle = angle
	s.LastMoving = moving
	s.AnglePublished = true
	return true
}

// Snapshot builds a snapshot from a render frame.
func (s *DaemonState) Snapshot(f picker.Frame) StateSnapshot {
	snap := StateSnapshot{
		Angle:  f.Angle,
		Moving: f.State == picker.StateMoving,
		Tiles:  make([]TileSnapshot, len(f.Tiles)),
	}
	if !snap.Moving && s.HasSelection {
		snap.Selected = s.LastSelection.Index
		snap.SelectedKnown = true
		snap.SettledAt = s.LastSelection.At
	}
	for i, t := range f.Tiles {
		snap.Tiles[i] = TileSnapshot{
			Index:        t.Index,
			Label:        t.Label,
			Color:        t.Color.Clamped().Hex(),
			Scale:        t.Scale,
			Glyph:        t.Glyph.Name,
			GlyphMissing: t.Glyph.Missing,
		}
	}
	return snap
}

// absAngleDiff is the distance between two angles in [0, 2π), the short way round.
func absAngleDiff(a, b float64) float64 {
	d := a - b
	if d < 0 {
		d = -d
	}
	if d > math.Pi {
		d = wheel.TwoPi - d
	}
	return d
}

// tileLabel is the user-facing number of tile index ("1" for tile 0).
func tileLabel(index int) string {
	return strconv.Itoa(index + 1)
}
