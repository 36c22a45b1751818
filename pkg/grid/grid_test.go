package grid

import (
	"math"
	"testing"

	"github.com/igloo/penguin/pkg/geom"
)

func TestSnap(t *testing.T) {
	tests := []struct {
		name string
		p    geom.Point
		size float64
		want geom.Point
	}{
		{"already aligned", geom.Pt(40, 60), 20, geom.Pt(40, 60)},
		{"round down", geom.Pt(49, 61), 20, geom.Pt(40, 60)},
		{"round up", geom.Pt(51, 71), 20, geom.Pt(60, 80)},
		{"half rounds up", geom.Pt(10, 30), 20, geom.Pt(20, 40)},
		{"negative", geom.Pt(-49, -51), 20, geom.Pt(-40, -60)},
		{"negative half", geom.Pt(-10, -30), 20, geom.Pt(0, -20)},
		{"fractional size", geom.Pt(0.74, 1.26), 0.5, geom.Pt(0.5, 1.5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Snap(tt.p, tt.size); !got.Eq(tt.want, 1e-9) {
				t.Errorf("Snap(%v, %v) = %v, want %v", tt.p, tt.size, got, tt.want)
			}
		})
	}
}

func TestSnapIdempotent(t *testing.T) {
	sizes := []float64{1, 7.5, 20, 33.3, 100}
	points := []geom.Point{geom.Pt(0, 0), geom.Pt(13.7, -91.2), geom.Pt(1e5+0.3, -1e5-0.7), geom.Pt(-16.65, 16.65)}
	for _, g := range sizes {
		for _, p := range points {
			once := Snap(p, g)
			twice := Snap(once, g)
			if !once.Eq(twice, 1e-9) {
				t.Errorf("Snap not idempotent for %v, g=%v: %v vs %v", p, g, once, twice)
			}
		}
	}
}

func TestSettingsApply(t *testing.T) {
	p := geom.Pt(13, 27)
	if got := (Settings{Size: 20}).Apply(p); got != p {
		t.Errorf("Apply without snap = %v, want %v", got, p)
	}
	if got := (Settings{Snap: true, Size: 20}).Apply(p); got != geom.Pt(20, 20) {
		t.Errorf("Apply with snap = %v, want (20, 20)", got)
	}
	if got := (Settings{Snap: true}).Apply(p); got != p {
		t.Errorf("Apply with zero size = %v, want %v", got, p)
	}
}

func TestSettingsValidate(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
	for _, size := range []float64{0, -5, math.NaN(), math.Inf(1)} {
		if err := (Settings{Size: size}).Validate(); err == nil {
			t.Errorf("Validate(size=%v) = nil, want error", size)
		}
	}
}

func TestLines(t *testing.T) {
	xs, ys := Lines(geom.RectFromPoints(geom.Pt(-5, 0), geom.Pt(45, 20)), 20, 100)
	if len(xs) != 3 || xs[0] != 0 || xs[2] != 40 {
		t.Errorf("xs = %v, want [0 20 40]", xs)
	}
	if len(ys) != 2 || ys[0] != 0 || ys[1] != 20 {
		t.Errorf("ys = %v, want [0 20]", ys)
	}

	if xs, ys := Lines(geom.RectFromPoints(geom.Pt(0, 0), geom.Pt(1e6, 10)), 1, 100); xs != nil || ys != nil {
		t.Error("Lines should give up past the limit")
	}
}
