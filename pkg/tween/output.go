package tween

import (
	"github.com/lucasb-eyer/go-colorful"
)

// LerpFunc interpolates between from and to; t is in [0, 1].
type LerpFunc[T any] func(from, to T, t float64) T

// Output is an animatable value. Its address is its identity on a Timeline.
type Output[T any] struct {
	value T
	lerp  LerpFunc[T]
}

// NewOutput returns an output holding v, interpolated with lerp.
func NewOutput[T any](v T, lerp LerpFunc[T]) *Output[T] {
	return &Output[T]{value: v, lerp: lerp}
}

// Value returns the current, possibly mid-tween, value.
func (o *Output[T]) Value() T {
	return o.value
}

// Set overwrites the value. A tween running on o keeps running and will write
// over it on the next Step; use Timeline.Cancel first to stop it.
func (o *Output[T]) Set(v T) {
	o.value = v
}

// LerpFloat is the linear ramp for scalars.
func LerpFloat(from, to, t float64) float64 {
	return from + (to-from)*t
}

// LerpColor is a component-wise linear ramp in RGB space.
func LerpColor(from, to colorful.Color, t float64) colorful.Color {
	return from.BlendRgb(to, t)
}

// Scalar returns a float output.
func Scalar(v float64) *Output[float64] {
	return NewOutput(v, LerpFloat)
}

// Color returns an RGB color output.
func Color(c colorful.Color) *Output[colorful.Color] {
	return NewOutput(c, LerpColor)
}
