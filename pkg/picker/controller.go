package picker

import (
	"log/slog"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"hexdial/pkg/tween"
	"hexdial/pkg/wheel"
)

// State of the selection state machine.
type State int

const (
	// StateSettled: the wheel rests on a tile, which is highlighted.
	StateSettled State = iota
	// StateMoving: encoder input arrived within the debounce window.
	StateMoving
)

func (s State) String() string {
	switch s {
	case StateSettled:
		return "settled"
	case StateMoving:
		return "moving"
	default:
		return "unknown"
	}
}

// Tile is one slot of the ring: two animated properties and its artwork.
type Tile struct {
	Color *tween.Output[colorful.Color]
	Scale *tween.Output[float64]
	Glyph Glyph
}

// Selection describes a settle.
type Selection struct {
	Index int
	Angle float64
	At    time.Time
}

// Controller turns encoder deltas and frame times into wheel motion and tile
// tweens.
//
// It owns the particle, the timeline and the tiles. Single owner: the host calls
// Turn and Advance from one goroutine.
type Controller struct {
	cfg    Config
	logger *slog.Logger

	wheel    *wheel.Particle
	timeline *tween.Timeline
	tiles    [RingSize]Tile

	state     State
	detent    int // tile the wheel springs toward while settled
	lastFrame time.Time
	lastInput time.Time
}

// NewController builds a controller at angle 0 with every tile idle.
//
// It starts out Moving with no recorded input, so the first Advance settles onto
// tile 0 and highlights it.
func NewController(cfg Config, start time.Time, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Controller{
		cfg:       cfg,
		logger:    logger,
		wheel:     wheel.New(cfg.Friction),
		timeline:  tween.New(),
		state:     StateMoving,
		lastFrame: start,
	}
	for i := range c.tiles {
		c.tiles[i] = Tile{
			Color: tween.Color(cfg.IdleColor),
			Scale: tween.Scalar(1),
		}
	}
	return c
}

// Turn reports delta encoder detents at now. Positive turns one way, negative
// the other; zero is ignored.
func (c *Controller) Turn(delta int, now time.Time) {
	if delta == 0 {
		return
	}

	c.wheel.Push(float64(delta) * c.cfg.AngleStep)
	c.lastInput = now

	if c.state == StateMoving {
		return
	}
	c.state = StateMoving

	dim := c.cfg.DimDuration.Seconds()
	for i := range c.tiles {
		t := &c.tiles[i]
		tween.Apply(c.timeline, t.Color).RampTo(c.cfg.IdleColor, dim)
		tween.Apply(c.timeline, t.Scale).RampTo(c.cfg.DimScale, dim)
	}
}

// Advance runs one frame at now: tweens by the elapsed time, the wheel by one
// physics step, then the debounce check. It returns the selection and true on the
// frame the wheel settles.
func (c *Controller) Advance(now time.Time) (Selection, bool) {
	dt := now.Sub(c.lastFrame)
	if dt < 0 {
		dt = 0
	}
	if c.cfg.MaxDt > 0 && dt > c.cfg.MaxDt {
		dt = c.cfg.MaxDt
	}
	c.lastFrame = now

	c.timeline.Step(dt.Seconds())
	c.wheel.Step()

	// A clock that went backwards would otherwise hold the wheel in Moving.
	if now.Before(c.lastInput) {
		c.lastInput = now
	}
	if now.Sub(c.lastInput) <= c.cfg.Debounce {
		return Selection{}, false
	}

	var (
		sel     Selection
		settled bool
	)
	if c.state == StateMoving {
		idx := TileIndex(c.wheel.Angle, RingSize)
		c.state = StateSettled
		c.detent = idx

		hl := c.cfg.HighlightDuration.Seconds()
		t := &c.tiles[idx]
		tween.Apply(c.timeline, t.Color).RampTo(c.cfg.HighlightColor, hl)
		tween.Apply(c.timeline, t.Scale).RampTo(1, hl)

		sel = Selection{Index: idx, Angle: c.wheel.Angle, At: now}
		settled = true
		c.logger.Debug("wheel settled", "tile", idx, "angle", c.wheel.Angle)
	}

	// Keep pulling toward the tile centre every settled frame. The target is
	// fixed at settle time so residual coasting can't drift to a neighbour.
	c.wheel.Spring(TileCenterAngle(c.detent), c.cfg.SpringPower)

	return sel, settled
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Angle returns the wheel angle in radians.
func (c *Controller) Angle() float64 {
	return c.wheel.Angle
}

// Selected returns the tile under the wheel and true while settled.
func (c *Controller) Selected() (int, bool) {
	if c.state != StateSettled {
		return 0, false
	}
	return c.detent, true
}

// Tile returns tile i. i must be in [0, RingSize).
func (c *Controller) Tile(i int) *Tile {
	return &c.tiles[i]
}

// Animating reports whether any tile property is mid-tween.
func (c *Controller) Animating() bool {
	return c.timeline.Len() > 0
}
