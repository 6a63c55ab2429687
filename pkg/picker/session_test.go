package picker

import (
	"math"
	"testing"
	"time"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type recordingRenderer struct {
	frames []Frame
}

func (r *recordingRenderer) Render(f Frame) { r.frames = append(r.frames, f) }

type countingLoader struct {
	calls []int
}

func (l *countingLoader) Load(index int) Glyph {
	l.calls = append(l.calls, index)
	return Glyph{Name: GlyphName(index), Data: []byte{byte(index)}}
}

func newTestSession(t *testing.T, opts SessionOptions) (*Session, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: t0}
	opts.Clock = clock.Now
	s, err := NewSession(DefaultConfig(), quietLogger(), opts)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s, clock
}

func TestNewSession_RejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Friction = 2
	if _, err := NewSession(cfg, nil, SessionOptions{}); err == nil {
		t.Fatalf("expected config error")
	}

	cfg = DefaultConfig()
	cfg.SpringPower = 0
	if _, err := NewSession(cfg, nil, SessionOptions{}); err == nil {
		t.Fatalf("expected spring power error")
	}
}

func TestSession_StatusCodes(t *testing.T) {
	s, _ := newTestSession(t, SessionOptions{})

	if st := s.Tick(); st != StatusNotInitialized {
		t.Errorf("Tick before Init = %v", st)
	}
	if st := s.Input(1); st != StatusNotInitialized {
		t.Errorf("Input before Init = %v", st)
	}

	if st := s.Init(); st != StatusOK {
		t.Fatalf("Init = %v", st)
	}
	if st := s.Init(); st != StatusOK {
		t.Errorf("second Init = %v", st)
	}
	if st := s.Tick(); st != StatusOK {
		t.Errorf("Tick = %v", st)
	}
	if st := s.Input(-3); st != StatusOK {
		t.Errorf("Input = %v", st)
	}

	if st := s.Shutdown(); st != StatusOK {
		t.Fatalf("Shutdown = %v", st)
	}
	if st := s.Shutdown(); st != StatusOK {
		t.Errorf("second Shutdown = %v", st)
	}
	if st := s.Tick(); st != StatusShutdown {
		t.Errorf("Tick after Shutdown = %v", st)
	}
	if st := s.Input(1); st != StatusShutdown {
		t.Errorf("Input after Shutdown = %v", st)
	}
	if st := s.Init(); st != StatusShutdown {
		t.Errorf("Init after Shutdown = %v", st)
	}
}

func TestStatus_String(t *testing.T) {
	if StatusNotInitialized.String() != "not_initialized" {
		t.Errorf("unexpected %q", StatusNotInitialized.String())
	}
	if Status(42).String() != "status(42)" {
		t.Errorf("unexpected %q", Status(42).String())
	}
}

func TestSession_InitLoadsEveryGlyph(t *testing.T) {
	loader := &countingLoader{}
	s, _ := newTestSession(t, SessionOptions{Loader: loader})

	if s.Init() != StatusOK {
		t.Fatalf("Init failed")
	}
	s.Init()

	if len(loader.calls) != RingSize {
		t.Fatalf("expected %d loads, got %v", RingSize, loader.calls)
	}
	for i, idx := range loader.calls {
		if idx != i {
			t.Errorf("load %d was for tile %d", i, idx)
		}
	}
	f := s.Frame()
	if f.Tiles[4].Glyph.Name != "5.svg" || f.Tiles[4].Glyph.Missing {
		t.Errorf("unexpected glyph on tile 4: %+v", f.Tiles[4].Glyph)
	}
}

func TestSession_DefaultLoaderUsesPlaceholders(t *testing.T) {
	s, _ := newTestSession(t, SessionOptions{})
	s.Init()
	for i, tile := range s.Frame().Tiles {
		if !tile.Glyph.Missing {
			t.Errorf("tile %d: expected placeholder", i)
		}
	}
}

func TestSession_SettleNotificationsAndFrames(t *testing.T) {
	var settles []Selection
	r := &recordingRenderer{}
	s, clock := newTestSession(t, SessionOptions{
		Renderer: r,
		OnSettle: func(sel Selection) { settles = append(settles, sel) },
	})
	s.Init()

	clock.Advance(frame)
	s.Tick()
	if len(settles) != 1 || settles[0].Index != 0 {
		t.Fatalf("expected startup settle on tile 0, got %+v", settles)
	}
	if idx, ok := s.Selected(); !ok || idx != 0 {
		t.Errorf("Selected = %d, %v", idx, ok)
	}

	clock.Advance(frame)
	s.Input(100) // 2 rad
	for i := 0; i < 60; i++ {
		clock.Advance(frame)
		s.Tick()
	}

	if len(settles) != 2 {
		t.Fatalf("expected a second settle, got %+v", settles)
	}
	if got, want := settles[1].Index, TileIndex(settles[1].Angle, RingSize); got != want {
		t.Errorf("settle index %d does not match angle (%d)", got, want)
	}
	if len(r.frames) != 61 {
		t.Errorf("expected a frame per tick, got %d", len(r.frames))
	}

	last := r.frames[len(r.frames)-1]
	if last.State != StateSettled {
		t.Errorf("expected settled frame, got %v", last.State)
	}
	sel := last.Tiles[settles[1].Index]
	if sel.Color != DefaultHighlightColor || sel.Scale != 1 {
		t.Errorf("selected tile not highlighted: %+v", sel)
	}
}

func TestSession_FrameGeometry(t *testing.T) {
	s, clock := newTestSession(t, SessionOptions{})
	if f := s.Frame(); f.Radius != 0 {
		t.Errorf("expected zero frame before Init")
	}
	s.Init()
	clock.Advance(frame)
	s.Tick()

	f := s.Frame()
	if math.Abs(f.Radius-DefaultEdgeLength) > 1e-9 {
		t.Errorf("radius = %v, want %v", f.Radius, DefaultEdgeLength)
	}
	for i, tile := range f.Tiles {
		if tile.Index != i {
			t.Errorf("tile %d has index %d", i, tile.Index)
		}
		if want := GlyphName(i)[:1]; tile.Label != want {
			t.Errorf("tile %d label %q, want %q", i, tile.Label, want)
		}
	}
	// At angle 0 tile 0 is at the focus point.
	if math.Abs(f.Tiles[0].X) > 1e-9 || math.Abs(f.Tiles[0].Y) > 1e-9 {
		t.Errorf("tile 0 at (%v, %v), want focus", f.Tiles[0].X, f.Tiles[0].Y)
	}
}
