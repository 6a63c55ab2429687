// Package wheel implements the damped angular motion model that drives the
// picker wheel.
//
// The model is a one-dimensional Verlet particle on a circle: velocity is never
// stored, it is derived from the difference between the current and the previous
// angle. Mutating Angle directly between steps therefore injects momentum, which is
// how rotary input drives the wheel.
package wheel

import "math"

// TwoPi is one full turn in radians.
const TwoPi = 2 * math.Pi

// Particle is a single rotational degree of freedom with friction.
//
// Friction is in [0, 1]: 0 keeps the velocity forever, 1 stops the wheel on the
// next step.
//
// Not safe for concurrent use; the owner is the frame loop.
type Particle struct {
	Angle     float64
	AnglePrev float64
	Friction  float64
}

// New returns a particle at rest at angle 0.
func New(friction float64) *Particle {
	return &Particle{Friction: clamp01(friction)}
}

// Velocity returns the angular displacement the next Step will apply.
func (p *Particle) Velocity() float64 {
	return (p.Angle - p.AnglePrev) * (1 - p.Friction)
}

// Step advances the particle by one tick. It is not scaled by wall time.
//
// After Step the angle is in [0, 2π). When wrapping moves the angle, AnglePrev is
// moved by the same amount so the velocity survives the seam.
func (p *Particle) Step() {
	vel := p.Velocity()

	p.AnglePrev = p.Angle
	p.Angle += vel

	p.wrap()
}

// Spring moves the angle a power fraction of the way toward target, taking the
// shorter way around the circle. power is clamped to (0, 1]; 1 snaps.
//
// Only target and target+2π are considered, so target should itself be in
// [0, 2π).
func (p *Particle) Spring(target, power float64) {
	if power <= 0 {
		return
	}
	if power > 1 {
		power = 1
	}

	p.wrap()

	if math.Abs(p.Angle-(target+TwoPi)) < math.Abs(target-p.Angle) {
		target += TwoPi
	}
	p.Angle += (target - p.Angle) * power

	p.wrap()
}

// Push adds delta radians to the angle without touching AnglePrev.
func (p *Particle) Push(delta float64) {
	p.Angle += delta
}

// Stop kills any velocity, keeping the current angle.
func (p *Particle) Stop() {
	p.AnglePrev = p.Angle
}

func (p *Particle) wrap() {
	wrapped := Normalize(p.Angle)
	if wrapped != p.Angle {
		p.AnglePrev += wrapped - p.Angle
		p.Angle = wrapped
	}
}

// Normalize maps any finite angle into [0, 2π).
func Normalize(a float64) float64 {
	a = math.Mod(a, TwoPi)
	if a < 0 {
		a += TwoPi
	}
	// Mod of a tiny negative value plus 2π can round up to exactly 2π.
	if a >= TwoPi {
		a = 0
	}
	return a
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
