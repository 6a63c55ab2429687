package picker

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

// Status is the result code of the host entry points.
type Status int

const (
	StatusOK Status = iota
	// StatusNotInitialized: Tick or Input before Init.
	StatusNotInitialized
	// StatusShutdown: Tick or Input after Shutdown.
	StatusShutdown
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNotInitialized:
		return "not_initialized"
	case StatusShutdown:
		return "shutdown"
	default:
		return "status(" + strconv.Itoa(int(s)) + ")"
	}
}

// Renderer draws a frame. It must not keep the Frame's glyph data beyond the
// session's lifetime and must not call back into the session.
type Renderer interface {
	Render(f Frame)
}

// TileFrame is the render view of one tile.
type TileFrame struct {
	Index int
	Label string
	Color colorful.Color
	Scale float64
	Glyph Glyph

	// PolarAngle is the tile's angle around the hub; 0 is the focus position.
	PolarAngle float64
	// X, Y is the tile centre relative to the focus point, in pixels.
	X, Y float64
}

// Frame is everything a renderer needs for one refresh.
type Frame struct {
	Angle  float64
	Radius float64
	State  State
	Tiles  [RingSize]TileFrame
}

// SessionOptions wires the collaborators of a session. Zero values are fine.
type SessionOptions struct {
	// Loader supplies tile glyphs at Init. Nil loads placeholders.
	Loader AssetLoader
	// Renderer receives a Frame after every Tick. Optional.
	Renderer Renderer
	// OnSettle is called on the frame the wheel settles. Optional.
	OnSettle func(Selection)
	// Clock returns the current time. Defaults to time.Now.
	Clock func() time.Time
}

// Session is one picker instance: the four host entry points around a
// Controller.
//
// Single owner; the host must not call entry points concurrently.
type Session struct {
	cfg    Config
	logger *slog.Logger
	opts   SessionOptions

	ctrl *Controller

	initialized bool
	closed      bool
}

// NewSession validates cfg and returns an uninitialized session.
func NewSession(cfg Config, logger *slog.Logger, opts SessionOptions) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("picker config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Loader == nil {
		opts.Loader = nopLoader{}
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Session{cfg: cfg, logger: logger, opts: opts}, nil
}

// Init loads tile glyphs and starts the clock. Calling it again is a no-op.
func (s *Session) Init() Status {
	if s.closed {
		return StatusShutdown
	}
	if s.initialized {
		return StatusOK
	}

	s.ctrl = NewController(s.cfg, s.opts.Clock(), s.logger)
	missing := 0
	for i := 0; i < RingSize; i++ {
		g := s.opts.Loader.Load(i)
		if g.Missing {
			missing++
		}
		s.ctrl.Tile(i).Glyph = g
	}
	s.initialized = true

	s.logger.Info("picker initialized",
		"tiles", RingSize,
		"missing_glyphs", missing,
		"friction", s.cfg.Friction,
		"debounce", s.cfg.Debounce)
	return StatusOK
}

// Shutdown ends the session. Further Tick/Input calls return StatusShutdown.
func (s *Session) Shutdown() Status {
	if s.closed {
		return StatusOK
	}
	s.closed = true
	s.logger.Info("picker shut down")
	return StatusOK
}

// Tick advances one frame and hands it to the renderer.
func (s *Session) Tick() Status {
	if st := s.ready(); st != StatusOK {
		return st
	}

	sel, settled := s.ctrl.Advance(s.opts.Clock())
	if settled && s.opts.OnSettle != nil {
		s.opts.OnSettle(sel)
	}
	if s.opts.Renderer != nil {
		s.opts.Renderer.Render(s.Frame())
	}
	return StatusOK
}

// Input reports one encoder movement of delta detents.
func (s *Session) Input(delta int) Status {
	if st := s.ready(); st != StatusOK {
		return st
	}
	s.ctrl.Turn(delta, s.opts.Clock())
	return StatusOK
}

func (s *Session) ready() Status {
	if s.closed {
		return StatusShutdown
	}
	if !s.initialized {
		return StatusNotInitialized
	}
	return StatusOK
}

// Frame returns the current render view. Before Init it is the zero Frame.
func (s *Session) Frame() Frame {
	if s.ctrl == nil {
		return Frame{}
	}
	angle := s.ctrl.Angle()
	radius := WheelRadius(s.cfg.EdgeLength)

	f := Frame{
		Angle:  angle,
		Radius: radius,
		State:  s.ctrl.State(),
	}
	for i := range f.Tiles {
		t := s.ctrl.Tile(i)
		x, y := TileOffset(i, angle, radius)
		f.Tiles[i] = TileFrame{
			Index:      i,
			Label:      strconv.Itoa(i + 1),
			Color:      t.Color.Value(),
			Scale:      t.Scale.Value(),
			Glyph:      t.Glyph,
			PolarAngle: TilePolarAngle(i, angle),
			X:          x,
			Y:          y,
		}
	}
	return f
}

// Selected returns the settled tile, if any.
func (s *Session) Selected() (int, bool) {
	if s.ctrl == nil {
		return 0, false
	}
	return s.ctrl.Selected()
}

// Controller exposes the underlying state machine.
func (s *Session) Controller() *Controller {
	return s.ctrl
}
