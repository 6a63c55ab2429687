package main

import (
	"sync"
	"time"
)

// RotaryConfig is the fast-spin acceleration policy.
//
// When VelocityThreshold or more same-direction detents arrive within
// VelocityWindow, each further detent counts VelocityMultiplier times.
type RotaryConfig struct {
	VelocityWindow     time.Duration
	VelocityThreshold  int
	VelocityMultiplier float64
}

func (c RotaryConfig) enabled() bool {
	return c.VelocityThreshold > 0 && c.VelocityMultiplier > 1
}

// rotaryState tracks recent encoder activity for velocity detection.
//
// Thread-safe, although the daemon only calls it from its own loop.
type rotaryState struct {
	recentSteps []rotaryStep
	mu          sync.Mutex
}

// rotaryStep records a single encoder detent
type rotaryStep struct {
	timestamp time.Time
	direction int // +1 or -1
}

func newRotaryState() *rotaryState {
	return &rotaryState{
		recentSteps: make([]rotaryStep, 0, 16),
	}
}

// addStep records a detent at now and returns how many detents in the same
// direction fall inside the window, this one included.
func (r *rotaryState) addStep(direction int, now time.Time, window time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := now.Add(-window)

	// Drop steps outside the window, reusing the backing array.
	filtered := r.recentSteps[:0]
	for _, s := range r.recentSteps {
		if s.timestamp.After(cutoff) {
			filtered = append(filtered, s)
		}
	}

	filtered = append(filtered, rotaryStep{
		timestamp: now,
		direction: direction,
	})
	r.recentSteps = filtered

	sameDir := 0
	for _, s := range filtered {
		if s.direction == direction {
			sameDir++
		}
	}
	return sameDir
}

// scale applies the fast-spin policy to a turn of steps detents at now and
// returns the detent count to feed the picker.
func (r *rotaryState) scale(steps int, now time.Time, cfg RotaryConfig) int {
	if steps == 0 {
		return 0
	}
	dir := 1
	n := steps
	if steps < 0 {
		dir, n = -1, -steps
	}

	total := 0.0
	for i := 0; i < n; i++ {
		count := r.addStep(dir, now, cfg.VelocityWindow)
		if cfg.enabled() && count >= cfg.VelocityThreshold {
			total += cfg.VelocityMultiplier
		} else {
			total++
		}
	}
	return dir * int(total+0.5)
}
