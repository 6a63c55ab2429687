// Package tween schedules time-bounded interpolations ("tweens") of animatable
// outputs such as tile colors and scales.
//
// A Timeline holds at most one sequence per output. Applying a new sequence to an
// output that is already animating drops the old one on the spot; the new ramp
// starts from whatever value the output holds at that moment, so there is no
// visual jump.
//
//	tl := tween.New()
//	scale := tween.Scalar(1)
//	tween.Apply(tl, scale).RampTo(0.7, 0.2)
//	tl.Step(dt)
package tween

import "math"

// task is one running sequence, type-erased so outputs of different value types
// can share a Timeline.
type task interface {
	// step advances by dt seconds and reports whether the task is finished.
	step(dt float64) bool
}

// Timeline advances every active sequence by the same elapsed time.
//
// Not safe for concurrent use.
type Timeline struct {
	tasks map[any]task
}

// New returns an empty timeline.
func New() *Timeline {
	return &Timeline{tasks: make(map[any]task)}
}

// Step advances all sequences by dt seconds. Negative or NaN dt is treated as 0.
// Finished sequences leave their output at the exact final target and are removed.
func (tl *Timeline) Step(dt float64) {
	if dt < 0 || math.IsNaN(dt) {
		dt = 0
	}
	for key, t := range tl.tasks {
		if t.step(dt) {
			delete(tl.tasks, key)
		}
	}
}

// Len returns the number of running sequences.
func (tl *Timeline) Len() int {
	return len(tl.tasks)
}

// Animating reports whether output (an *Output[T]) has a running sequence.
func (tl *Timeline) Animating(output any) bool {
	_, ok := tl.tasks[output]
	return ok
}

// Cancel stops any sequence on output, leaving its current value in place.
func (tl *Timeline) Cancel(output any) {
	delete(tl.tasks, output)
}

// Clear stops everything.
func (tl *Timeline) Clear() {
	clear(tl.tasks)
}

// Apply replaces whatever is running on out with a new, empty sequence and returns
// it for chaining segments onto. An Apply with no segments simply cancels.
func Apply[T any](tl *Timeline, out *Output[T]) *Sequence[T] {
	s := &Sequence[T]{out: out}
	tl.tasks[out] = s
	return s
}

type segment[T any] struct {
	target   T
	duration float64
	hold     bool
}

// Sequence is an ordered list of segments bound to one output.
type Sequence[T any] struct {
	out      *Output[T]
	segments []segment[T]

	idx     int
	elapsed float64
	from    T
	started bool
}

// RampTo appends a linear ramp from the value at the segment's start to target,
// lasting duration seconds. A non-positive duration jumps on the next Step.
func (s *Sequence[T]) RampTo(target T, duration float64) *Sequence[T] {
	s.segments = append(s.segments, segment[T]{target: target, duration: duration})
	return s
}

// Hold appends a pause that leaves the value untouched for duration seconds.
func (s *Sequence[T]) Hold(duration float64) *Sequence[T] {
	s.segments = append(s.segments, segment[T]{duration: duration, hold: true})
	return s
}

// Duration is the total length of the sequence in seconds.
func (s *Sequence[T]) Duration() float64 {
	var d float64
	for _, seg := range s.segments {
		if seg.duration > 0 {
			d += seg.duration
		}
	}
	return d
}

func (s *Sequence[T]) step(dt float64) bool {
	for s.idx < len(s.segments) {
		seg := s.segments[s.idx]
		if !s.started {
			s.from = s.out.value
			s.elapsed = 0
			s.started = true
		}

		s.elapsed += dt
		if s.elapsed < seg.duration {
			if !seg.hold {
				s.out.value = s.out.lerp(s.from, seg.target, s.elapsed/seg.duration)
			}
			return false
		}

		if !seg.hold {
			s.out.value = seg.target
		}

		// Carry the overshoot into the next segment.
		dt = s.elapsed - math.Max(seg.duration, 0)
		s.idx++
		s.started = false
	}
	return true
}
