package main

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"hexdial/pkg/picker"
)

const testFrame = time.Second / 60

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type daemonFixture struct {
	d          *daemon
	clock      *fakeClock
	broadcasts chan StateBroadcast
	trace      *bytes.Buffer
}

func newDaemonFixture(t *testing.T, rotary RotaryConfig) *daemonFixture {
	t.Helper()
	f := &daemonFixture{
		clock:      &fakeClock{now: time.Unix(1000, 0).UTC()},
		broadcasts: make(chan StateBroadcast, 1024),
		trace:      &bytes.Buffer{},
	}
	d, err := newDaemon(daemonOptions{
		Picker:     picker.DefaultConfig(),
		Rotary:     rotary,
		Broadcasts: f.broadcasts,
		Trace:      newSettleTrace(f.trace),
		Clock:      f.clock.Now,
	}, quietLogger())
	if err != nil {
		t.Fatalf("newDaemon: %v", err)
	}
	f.d = d
	return f
}

func (f *daemonFixture) tick(n int) {
	for i := 0; i < n; i++ {
		f.clock.Advance(testFrame)
		f.d.handle(Tick{Now: f.clock.now, Dt: testFrame.Seconds()})
	}
}

// drain returns every broadcast queued so far.
func (f *daemonFixture) drain() []StateBroadcast {
	var out []StateBroadcast
	for {
		select {
		case b := <-f.broadcasts:
			out = append(out, b)
		default:
			return out
		}
	}
}

func selections(bs []StateBroadcast) []BroadcastTileSelected {
	var out []BroadcastTileSelected
	for _, b := range bs {
		if s, ok := b.(BroadcastTileSelected); ok {
			out = append(out, s)
		}
	}
	return out
}

func (f *daemonFixture) snapshot(t *testing.T) StateSnapshot {
	t.Helper()
	reply := make(chan StateSnapshot, 1)
	f.d.handle(RequestStateSnapshot{Reply: reply})
	select {
	case snap := <-reply:
		return snap
	default:
		t.Fatalf("no snapshot reply")
		return StateSnapshot{}
	}
}

func TestDaemon_StartupSettlePublished(t *testing.T) {
	f := newDaemonFixture(t, RotaryConfig{})

	f.tick(1)
	sels := selections(f.drain())
	if len(sels) != 1 || sels[0].Index != 0 {
		t.Fatalf("expected startup selection of tile 0, got %+v", sels)
	}

	snap := f.snapshot(t)
	if snap.Moving || !snap.SelectedKnown || snap.Selected != 0 {
		t.Errorf("unexpected snapshot %+v", snap)
	}
	if len(snap.Tiles) != picker.RingSize {
		t.Fatalf("expected %d tiles, got %d", picker.RingSize, len(snap.Tiles))
	}
	if snap.Tiles[3].Label != "4" {
		t.Errorf("tile 3 label = %q", snap.Tiles[3].Label)
	}
}

func TestDaemon_TurnThenSettle(t *testing.T) {
	f := newDaemonFixture(t, RotaryConfig{})
	f.tick(1)
	f.drain()

	f.d.handle(RotaryTurn{Steps: 50}) // 1 rad push, coasts about 5 rad
	f.tick(3)

	snap := f.snapshot(t)
	if !snap.Moving || snap.SelectedKnown {
		t.Errorf("expected moving snapshot without selection, got %+v", snap)
	}

	moved := false
	for _, b := range f.drain() {
		if m, ok := b.(BroadcastWheelMoved); ok && m.Moving {
			moved = true
		}
	}
	if !moved {
		t.Errorf("expected wheel_moved broadcasts while moving")
	}

	f.tick(60)
	sels := selections(f.drain())
	if len(sels) != 1 {
		t.Fatalf("expected one selection, got %+v", sels)
	}
	if want := picker.TileIndex(sels[0].Angle, picker.RingSize); sels[0].Index != want {
		t.Errorf("selection %d does not match its angle (%d)", sels[0].Index, want)
	}

	snap = f.snapshot(t)
	if snap.Moving || snap.Selected != sels[0].Index {
		t.Errorf("unexpected snapshot %+v", snap)
	}
	for _, tile := range snap.Tiles {
		want := "#00ffff"
		if tile.Index == sels[0].Index {
			want = "#ffff00"
		}
		if tile.Color != want {
			t.Errorf("tile %d color %s, want %s", tile.Index, tile.Color, want)
		}
	}
}

func TestDaemon_TraceRecordsSettles(t *testing.T) {
	f := newDaemonFixture(t, RotaryConfig{})
	f.tick(1)
	f.d.handle(RotaryTurn{Steps: -10})
	f.tick(60)

	lines := strings.Split(strings.TrimSpace(f.trace.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %q", f.trace.String())
	}
	if lines[0] != "time,tile,label,angle" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[1], ",0,1,") {
		t.Errorf("expected startup row for tile 0, got %q", lines[1])
	}
}

func TestDaemon_NoBroadcastWhenIdle(t *testing.T) {
	f := newDaemonFixture(t, RotaryConfig{})
	f.tick(30)
	f.drain()

	f.tick(30)
	if bs := f.drain(); len(bs) != 0 {
		t.Errorf("expected no broadcasts from an idle wheel, got %+v", bs)
	}
}

func TestDaemon_FastSpinScalesInput(t *testing.T) {
	cfg := RotaryConfig{VelocityWindow: 200 * time.Millisecond, VelocityThreshold: 1, VelocityMultiplier: 3}
	fast := newDaemonFixture(t, cfg)
	slow := newDaemonFixture(t, RotaryConfig{})

	for _, f := range []*daemonFixture{fast, slow} {
		f.tick(1)
		f.d.handle(RotaryTurn{Steps: 1})
	}

	fa, sa := fast.d.session.Frame().Angle, slow.d.session.Frame().Angle
	if fa <= sa {
		t.Errorf("expected fast spin to push further: fast=%v slow=%v", fa, sa)
	}
}

func TestDaemon_FullBroadcastQueueDoesNotBlock(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	full := make(chan StateBroadcast) // unbuffered, nobody reading
	d, err := newDaemon(daemonOptions{
		Picker:     picker.DefaultConfig(),
		Broadcasts: full,
		Clock:      clock.Now,
	}, quietLogger())
	if err != nil {
		t.Fatalf("newDaemon: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		clock.Advance(testFrame)
		d.handle(Tick{Now: clock.now})
		d.handle(RotaryTurn{Steps: 3})
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("daemon blocked on a full broadcast queue")
	}
}

func TestNewDaemon_RejectsBadPickerConfig(t *testing.T) {
	cfg := picker.DefaultConfig()
	cfg.EdgeLength = 0
	if _, err := newDaemon(daemonOptions{Picker: cfg}, quietLogger()); err == nil {
		t.Fatalf("expected error")
	}
}
