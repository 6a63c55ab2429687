package tween

import (
	"math"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestRampTo_Linear(t *testing.T) {
	tl := New()
	out := Scalar(1)

	Apply(tl, out).RampTo(0, 1)

	tl.Step(0.25)
	if !approx(out.Value(), 0.75) {
		t.Errorf("expected 0.75 after 0.25s, got %v", out.Value())
	}
	tl.Step(0.5)
	if !approx(out.Value(), 0.25) {
		t.Errorf("expected 0.25 after 0.75s, got %v", out.Value())
	}
	if !tl.Animating(out) {
		t.Errorf("expected output to still be animating")
	}

	tl.Step(0.5)
	if out.Value() != 0 {
		t.Errorf("expected exact target 0 on completion, got %v", out.Value())
	}
	if tl.Len() != 0 {
		t.Errorf("expected finished tween to be removed, %d still active", tl.Len())
	}
}

func TestRampTo_ExactTargetAtDuration(t *testing.T) {
	tl := New()
	out := Scalar(0)
	Apply(tl, out).RampTo(0.7, 0.2)

	for i := 0; i < 2; i++ {
		tl.Step(0.1)
	}
	if out.Value() != 0.7 {
		t.Errorf("expected exactly 0.7, got %v", out.Value())
	}
}

// TestApply_ReplacesRunningTween checks that the second apply discards the first and
// starts from the partially interpolated value.
func TestApply_ReplacesRunningTween(t *testing.T) {
	tl := New()
	out := Scalar(0)

	Apply(tl, out).RampTo(10, 1)
	tl.Step(0.5)
	if !approx(out.Value(), 5) {
		t.Fatalf("expected 5 mid-ramp, got %v", out.Value())
	}

	Apply(tl, out).RampTo(-5, 1)
	if tl.Len() != 1 {
		t.Fatalf("expected a single active tween after replace, got %d", tl.Len())
	}
	if !approx(out.Value(), 5) {
		t.Errorf("apply must not move the value, got %v", out.Value())
	}

	tl.Step(0.5)
	if !approx(out.Value(), 0) {
		t.Errorf("expected halfway between 5 and -5, got %v", out.Value())
	}

	tl.Step(10)
	if out.Value() != -5 {
		t.Errorf("expected second target -5, got %v", out.Value())
	}
}

func TestStep_NegativeDtIsNoop(t *testing.T) {
	tl := New()
	out := Scalar(0)
	Apply(tl, out).RampTo(1, 1)

	tl.Step(0.5)
	tl.Step(-10)
	tl.Step(math.NaN())
	if !approx(out.Value(), 0.5) {
		t.Errorf("expected 0.5, got %v", out.Value())
	}
}

func TestStep_ZeroDurationJumps(t *testing.T) {
	tl := New()
	out := Scalar(3)
	Apply(tl, out).RampTo(9, 0)

	tl.Step(0)
	if out.Value() != 9 {
		t.Errorf("expected jump to 9, got %v", out.Value())
	}
	if tl.Len() != 0 {
		t.Errorf("expected tween removed")
	}
}

func TestStep_UntouchedOutputsKeepValue(t *testing.T) {
	tl := New()
	a := Scalar(1)
	b := Scalar(2)
	Apply(tl, a).RampTo(0, 1)

	tl.Step(0.3)
	if b.Value() != 2 {
		t.Errorf("expected untouched output to keep 2, got %v", b.Value())
	}
}

func TestSequence_ChainsSegments(t *testing.T) {
	tl := New()
	out := Scalar(0)

	seq := Apply(tl, out).RampTo(1, 1).Hold(1).RampTo(3, 1)
	if d := seq.Duration(); d != 3 {
		t.Fatalf("expected duration 3, got %v", d)
	}

	tl.Step(0.5)
	if !approx(out.Value(), 0.5) {
		t.Errorf("t=0.5: expected 0.5, got %v", out.Value())
	}

	// Overshoot of the first segment carries into the hold.
	tl.Step(1.0)
	if out.Value() != 1 {
		t.Errorf("t=1.5: expected hold at 1, got %v", out.Value())
	}

	tl.Step(1.0)
	if !approx(out.Value(), 2) {
		t.Errorf("t=2.5: expected 2, got %v", out.Value())
	}

	tl.Step(1.0)
	if out.Value() != 3 {
		t.Errorf("t=3.5: expected final 3, got %v", out.Value())
	}
	if tl.Animating(out) {
		t.Errorf("expected sequence to be finished")
	}
}

func TestApply_EmptySequenceCancels(t *testing.T) {
	tl := New()
	out := Scalar(0)
	Apply(tl, out).RampTo(1, 1)
	tl.Step(0.5)

	Apply(tl, out)
	tl.Step(1)
	if !approx(out.Value(), 0.5) {
		t.Errorf("expected value frozen at 0.5, got %v", out.Value())
	}
	if tl.Len() != 0 {
		t.Errorf("expected no active tweens")
	}
}

func TestCancel(t *testing.T) {
	tl := New()
	out := Scalar(0)
	Apply(tl, out).RampTo(1, 1)
	tl.Step(0.25)

	tl.Cancel(out)
	tl.Step(1)
	if !approx(out.Value(), 0.25) {
		t.Errorf("expected 0.25 after cancel, got %v", out.Value())
	}
}

func TestColor_ComponentWise(t *testing.T) {
	tl := New()
	idle := colorful.Color{R: 0, G: 1, B: 1}
	highlight := colorful.Color{R: 1, G: 1, B: 0}

	out := Color(idle)
	Apply(tl, out).RampTo(highlight, 0.1)

	tl.Step(0.05)
	got := out.Value()
	if !approx(got.R, 0.5) || !approx(got.G, 1) || !approx(got.B, 0.5) {
		t.Errorf("expected (0.5, 1, 0.5) halfway, got %+v", got)
	}

	tl.Step(0.05)
	if out.Value() != highlight {
		t.Errorf("expected exact highlight color, got %+v", out.Value())
	}
}

func TestTimeline_MixedTypes(t *testing.T) {
	tl := New()
	c := Color(colorful.Color{})
	s := Scalar(0)

	Apply(tl, c).RampTo(colorful.Color{R: 1, G: 1, B: 1}, 1)
	Apply(tl, s).RampTo(1, 2)
	if tl.Len() != 2 {
		t.Fatalf("expected 2 active tweens, got %d", tl.Len())
	}

	tl.Step(1)
	if tl.Len() != 1 {
		t.Errorf("expected color tween finished, %d active", tl.Len())
	}
	if !tl.Animating(s) || tl.Animating(c) {
		t.Errorf("unexpected animating set: scale=%v color=%v", tl.Animating(s), tl.Animating(c))
	}
}
