package wire

import (
	"testing"

	"github.com/igloo/penguin/pkg/geom"
)

func TestRoute(t *testing.T) {
	tests := []struct {
		name     string
		from, to geom.Point
		want     Curve
	}{
		{
			name: "short horizontal",
			from: geom.Pt(0, 0), to: geom.Pt(100, 40),
			want: Curve{geom.Pt(0, 0), geom.Pt(50, 0), geom.Pt(50, 40), geom.Pt(100, 40)},
		},
		{
			name: "capped offset",
			from: geom.Pt(0, 0), to: geom.Pt(500, -20),
			want: Curve{geom.Pt(0, 0), geom.Pt(100, 0), geom.Pt(400, -20), geom.Pt(500, -20)},
		},
		{
			name: "backwards",
			from: geom.Pt(100, 0), to: geom.Pt(20, 50),
			want: Curve{geom.Pt(100, 0), geom.Pt(140, 0), geom.Pt(-20, 50), geom.Pt(20, 50)},
		},
		{
			name: "vertical only",
			from: geom.Pt(10, 0), to: geom.Pt(10, 90),
			want: Curve{geom.Pt(10, 0), geom.Pt(10, 0), geom.Pt(10, 90), geom.Pt(10, 90)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Route(tt.from, tt.to); got != tt.want {
				t.Errorf("Route = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRouteTangentsAreHorizontal(t *testing.T) {
	c := Route(geom.Pt(-30, 12), geom.Pt(75, -240))
	if c.P1.Y != c.P0.Y || c.P2.Y != c.P3.Y {
		t.Errorf("control points not level with endpoints: %+v", c)
	}
}

func TestRouteTemp(t *testing.T) {
	anchor, pointer := geom.Pt(10, 10), geom.Pt(40, 40)

	out := RouteTemp(anchor, pointer, true)
	if out.P0 != anchor || out.P3 != pointer {
		t.Errorf("output anchor: curve runs %v -> %v, want %v -> %v", out.P0, out.P3, anchor, pointer)
	}

	in := RouteTemp(anchor, pointer, false)
	if in.P0 != pointer || in.P3 != anchor {
		t.Errorf("input anchor: curve runs %v -> %v, want %v -> %v", in.P0, in.P3, pointer, anchor)
	}
}

func TestPath(t *testing.T) {
	tests := []struct {
		c    Curve
		want string
	}{
		{Route(geom.Pt(0, 0), geom.Pt(100, 40)), "M 0 0 C 50 0, 50 40, 100 40"},
		{Route(geom.Pt(1.5, -2), geom.Pt(6.5, 3)), "M 1.5 -2 C 4 -2, 4 3, 6.5 3"},
	}
	for _, tt := range tests {
		if got := tt.c.Path(); got != tt.want {
			t.Errorf("Path() = %q, want %q", got, tt.want)
		}
	}
}

func TestParsePath(t *testing.T) {
	c := Route(geom.Pt(12.25, -7), geom.Pt(300, 81.5))
	got, err := ParsePath(c.Path())
	if err != nil {
		t.Fatalf("ParsePath: %v", err)
	}
	if got != c {
		t.Errorf("ParsePath = %+v, want %+v", got, c)
	}

	for _, bad := range []string{"", "M 0 0 L 1 1", "M 0 0 C 1 1, 2 2, x 3", "M 0 0 C 1 1, 2 2"} {
		if _, err := ParsePath(bad); err == nil {
			t.Errorf("ParsePath(%q) = nil error", bad)
		}
	}
}

func TestAtEndpoints(t *testing.T) {
	c := Route(geom.Pt(3, 4), geom.Pt(90, -60))
	if got := c.At(0); got != c.P0 {
		t.Errorf("At(0) = %v, want %v", got, c.P0)
	}
	if got := c.At(1); !got.Eq(c.P3, 1e-9) {
		t.Errorf("At(1) = %v, want %v", got, c.P3)
	}
	if !c.Bounds().Contains(c.At(0.37)) {
		t.Error("Bounds does not contain the curve")
	}
}
