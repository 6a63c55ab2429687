package picker

import (
	"errors"
	"fmt"
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

// RingSize is the number of tiles on the wheel.
const RingSize = 6

// Defaults, matching the tuning of the hardware picker.
const (
	DefaultFriction          = 0.2
	DefaultAngleStep         = 0.02 // radians per encoder detent
	DefaultDebounce          = 300 * time.Millisecond
	DefaultDimDuration       = 200 * time.Millisecond
	DefaultDimScale          = 0.7
	DefaultHighlightDuration = 100 * time.Millisecond
	DefaultSpringPower       = 0.2
	DefaultMaxDt             = 500 * time.Millisecond

	// DefaultScreenSize is the side of the square display in pixels.
	DefaultScreenSize = 96.0
	// DefaultEdgeLength is the hexagon edge the tiles are laid out on.
	DefaultEdgeLength = DefaultScreenSize * 1.1
)

var (
	DefaultIdleColor      = colorful.Color{R: 0, G: 1, B: 1}
	DefaultHighlightColor = colorful.Color{R: 1, G: 1, B: 0}
)

// Config tunes the wheel physics and the tile animations.
type Config struct {
	// Friction of the wheel, 0 (free spinning) to 1 (no inertia).
	Friction float64
	// AngleStep is how far one encoder detent turns the wheel (radians).
	AngleStep float64

	// Debounce is how long the encoder must be quiet before the wheel settles.
	Debounce time.Duration

	// DimDuration/DimScale describe the "all tiles shrink and go idle" cue played
	// when the wheel starts moving.
	DimDuration time.Duration
	DimScale    float64

	// HighlightDuration is the ramp length of the settled tile's highlight.
	HighlightDuration time.Duration

	// SpringPower is the fraction of the remaining distance to the tile centre
	// covered per frame once settled.
	SpringPower float64

	IdleColor      colorful.Color
	HighlightColor colorful.Color

	// EdgeLength of the regular hexagon the tile centres sit on (pixels).
	EdgeLength float64

	// MaxDt caps the elapsed time integrated in one frame (stalls, suspend).
	MaxDt time.Duration
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		Friction:          DefaultFriction,
		AngleStep:         DefaultAngleStep,
		Debounce:          DefaultDebounce,
		DimDuration:       DefaultDimDuration,
		DimScale:          DefaultDimScale,
		HighlightDuration: DefaultHighlightDuration,
		SpringPower:       DefaultSpringPower,
		IdleColor:         DefaultIdleColor,
		HighlightColor:    DefaultHighlightColor,
		EdgeLength:        DefaultEdgeLength,
		MaxDt:             DefaultMaxDt,
	}
}

// Validate checks the ranges the physics relies on.
func (c Config) Validate() error {
	if c.Friction < 0 || c.Friction > 1 {
		return fmt.Errorf("friction must be in [0, 1], got %v", c.Friction)
	}
	if c.AngleStep == 0 {
		return errors.New("angle step must not be zero")
	}
	if c.Debounce < 0 {
		return errors.New("debounce must be >= 0")
	}
	if c.DimDuration < 0 || c.HighlightDuration < 0 {
		return errors.New("tween durations must be >= 0")
	}
	if c.DimScale < 0 {
		return errors.New("dim scale must be >= 0")
	}
	if c.SpringPower <= 0 || c.SpringPower > 1 {
		return fmt.Errorf("spring power must be in (0, 1], got %v", c.SpringPower)
	}
	if c.EdgeLength <= 0 {
		return errors.New("edge length must be > 0")
	}
	if c.MaxDt < 0 {
		return errors.New("max dt must be >= 0")
	}
	return nil
}
