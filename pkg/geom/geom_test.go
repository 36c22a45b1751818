package geom

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestTransformRoundTrip(t *testing.T) {
	transforms := []Transform{
		Identity(),
		{Pan: Pt(40, -12), Zoom: 2},
		{Origin: Pt(8, 30), Pan: Pt(-300.5, 77), Zoom: 0.1},
		{Origin: Pt(100, 100), Pan: Pt(3, 4), Zoom: 3},
	}
	points := []Point{Pt(0, 0), Pt(100, 100), Pt(-55.25, 1e4), Pt(0.001, -7)}

	for _, tr := range transforms {
		for _, p := range points {
			got := tr.WorldToScreen(tr.ScreenToWorld(p))
			if !got.Eq(p, 1e-6) {
				t.Errorf("%+v: WorldToScreen(ScreenToWorld(%v)) = %v", tr, p, got)
			}
		}
	}
}

func TestZoomAtKeepsCursorStationary(t *testing.T) {
	tests := []struct {
		name    string
		tr      Transform
		cursor  Point
		newZoom float64
	}{
		{"zoom in at origin", Identity(), Pt(0, 0), 1.1},
		{"zoom in", Identity(), Pt(100, 100), 1.1},
		{"zoom out panned", Transform{Pan: Pt(-40, 25), Zoom: 2}, Pt(320, 200), 1.8},
		{"with container origin", Transform{Origin: Pt(50, 60), Pan: Pt(10, 10), Zoom: 1}, Pt(400, 300), 0.5},
		{"clamped high", Transform{Zoom: 2.9}, Pt(12, 34), 10},
		{"clamped low", Transform{Zoom: 0.11}, Pt(12, 34), 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.tr.ScreenToWorld(tt.cursor)
			after := tt.tr.ZoomAt(tt.cursor, tt.newZoom)
			if got := after.ScreenToWorld(tt.cursor); !got.Eq(before, 1e-6) {
				t.Errorf("world under cursor moved: %v -> %v", before, got)
			}
			if after.Zoom < MinZoom || after.Zoom > MaxZoom {
				t.Errorf("Zoom = %v, out of [%v, %v]", after.Zoom, MinZoom, MaxZoom)
			}
		})
	}
}

func TestZoomAtWheelScenario(t *testing.T) {
	tr := Identity()
	cursor := Pt(100, 100)
	before := tr.ScreenToWorld(cursor)

	tr = tr.ZoomAt(cursor, 1.1)

	if math.Abs(tr.Zoom-1.1) > eps {
		t.Fatalf("Zoom = %v, want 1.1", tr.Zoom)
	}
	// pan' = cursor - (cursor - pan) * 1.1
	if !tr.Pan.Eq(Pt(-10, -10), 1e-9) {
		t.Errorf("Pan = %v, want (-10, -10)", tr.Pan)
	}
	if got := tr.ScreenToWorld(cursor); !got.Eq(before, 1e-9) {
		t.Errorf("ScreenToWorld(cursor) = %v, want %v", got, before)
	}
}

func TestScreenRectToWorld(t *testing.T) {
	tr := Transform{Origin: Pt(10, 10), Pan: Pt(20, 0), Zoom: 2}
	got := tr.ScreenRectToWorld(RectFromPoints(Pt(130, 110), Pt(30, 10)))
	want := Rect{Min: Pt(0, 0), Max: Pt(50, 50)}
	if !got.Min.Eq(want.Min, eps) || !got.Max.Eq(want.Max, eps) {
		t.Errorf("ScreenRectToWorld = %v, want %v", got, want)
	}
}

func TestViewBox(t *testing.T) {
	tr := Transform{Pan: Pt(-100, 50), Zoom: 2}
	got := tr.ViewBox(Size{W: 800, H: 600})
	if !got.Min.Eq(Pt(50, -25), eps) {
		t.Errorf("ViewBox min = %v, want (50, -25)", got.Min)
	}
	if got.Width() != 400 || got.Height() != 300 {
		t.Errorf("ViewBox size = %vx%v, want 400x300", got.Width(), got.Height())
	}
}

func TestRectIntersects(t *testing.T) {
	base := RectFromPoints(Pt(0, 0), Pt(10, 10))
	tests := []struct {
		name  string
		other Rect
		want  bool
	}{
		{"inside", RectFromPoints(Pt(2, 2), Pt(3, 3)), true},
		{"overlapping", RectFromPoints(Pt(5, 5), Pt(20, 20)), true},
		{"touching edge", RectFromPoints(Pt(10, 0), Pt(20, 10)), true},
		{"disjoint", RectFromPoints(Pt(11, 11), Pt(20, 20)), false},
		{"left of", RectFromPoints(Pt(-5, 0), Pt(-1, 10)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Intersects(tt.other); got != tt.want {
				t.Errorf("Intersects = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectFromPointsNormalizes(t *testing.T) {
	r := RectFromPoints(Pt(10, -2), Pt(-4, 8))
	if r.Min != Pt(-4, -2) || r.Max != Pt(10, 8) {
		t.Errorf("RectFromPoints = %+v", r)
	}
	if !r.Contains(Pt(0, 0)) || r.Contains(Pt(11, 0)) {
		t.Error("Contains gave wrong answer")
	}
}
