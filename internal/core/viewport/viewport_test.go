package viewport_test

import (
	"errors"
	"math"
	"testing"

	"github.com/samirrijal/milelog/internal/core/domain"
	"github.com/samirrijal/milelog/internal/core/viewport"
)

var routeGeometry = viewport.Geometry{Width: 600, Height: 400, PaddingPx: 48, TileSizePx: 512}

func TestProject_Deterministic(t *testing.T) {
	c := domain.Coordinate{Lat: 43.263, Lon: -2.935}
	if viewport.Project(c) != viewport.Project(c) {
		t.Fatal("projecting the same coordinate twice gave different points")
	}
}

func TestProject_Range(t *testing.T) {
	for lat := -90.0; lat <= 90; lat += 7.5 {
		for lon := -180.0; lon <= 180; lon += 15 {
			p := viewport.Project(domain.Coordinate{Lat: lat, Lon: lon})
			if p.X < 0 || p.X > 1 || p.Y < 0 || p.Y > 1 {
				t.Fatalf("Project(%g, %g) = %+v, outside unit square", lat, lon, p)
			}
		}
	}
}

func TestProject_Poles(t *testing.T) {
	if p := viewport.Project(domain.Coordinate{Lat: 90}); p.Y != 0 {
		t.Errorf("north pole y = %g, want 0", p.Y)
	}
	if p := viewport.Project(domain.Coordinate{Lat: -90}); p.Y != 1 {
		t.Errorf("south pole y = %g, want 1", p.Y)
	}
	if p := viewport.Project(domain.Coordinate{}); p.X != 0.5 || math.Abs(p.Y-0.5) > 1e-12 {
		t.Errorf("null island = %+v, want {0.5 0.5}", p)
	}
}

func TestFit_IdenticalPoints(t *testing.T) {
	f := viewport.DefaultFitter()
	points := []domain.Coordinate{
		{Lat: 52.0, Lon: 4.0},
		{Lat: 0, Lon: 0},
		{Lat: -33.86, Lon: 151.21},
		{Lat: 89.9, Lon: -179.9},
	}
	for _, p := range points {
		vp := f.Fit(p, p, routeGeometry)
		if vp.Zoom != 12 {
			t.Errorf("Fit(%v, %v) zoom = %d, want 12", p, p, vp.Zoom)
		}
		if vp.Center != p {
			t.Errorf("Fit(%v, %v) center = %v, want the point itself", p, p, vp.Center)
		}
	}
}

func TestFit_CustomDefaultZoom(t *testing.T) {
	f := viewport.Fitter{MinZoom: 2, MaxZoom: 16, DefaultZoom: 14}
	p := domain.Coordinate{Lat: 52, Lon: 4}
	if vp := f.Fit(p, p, routeGeometry); vp.Zoom != 14 {
		t.Errorf("zoom = %d, want configured default 14", vp.Zoom)
	}
}

func TestFit_AmsterdamMadrid(t *testing.T) {
	a := domain.Coordinate{Lat: 52.0, Lon: 4.0}
	b := domain.Coordinate{Lat: 40.0, Lon: -3.0}

	vp := viewport.DefaultFitter().Fit(a, b, routeGeometry)

	// Latitude governs: log2(304 / (512 * 0.0483)) ~= 3.62.
	if vp.Zoom != 3 {
		t.Errorf("zoom = %d, want 3", vp.Zoom)
	}
	want := domain.Coordinate{Lat: 46.0, Lon: 0.5}
	if vp.Center != want {
		t.Errorf("center = %v, want %v", vp.Center, want)
	}
}

func TestFit_ClampsToMinZoom(t *testing.T) {
	f := viewport.DefaultFitter()
	tests := []struct {
		name string
		a, b domain.Coordinate
	}{
		{"amsterdam-sydney", domain.Coordinate{Lat: 52.37, Lon: 4.9}, domain.Coordinate{Lat: -33.86, Lon: 151.21}},
		{"antipodal", domain.Coordinate{Lat: 45, Lon: -90}, domain.Coordinate{Lat: -45, Lon: 90}},
		{"pole to pole", domain.Coordinate{Lat: 90, Lon: -180}, domain.Coordinate{Lat: -90, Lon: 180}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if vp := f.Fit(tt.a, tt.b, routeGeometry); vp.Zoom != f.MinZoom {
				t.Errorf("zoom = %d, want %d", vp.Zoom, f.MinZoom)
			}
		})
	}
}

func TestFit_ClampsToMaxZoom(t *testing.T) {
	f := viewport.DefaultFitter()
	a := domain.Coordinate{Lat: 52.0, Lon: 4.0}
	b := domain.Coordinate{Lat: 52.00001, Lon: 4.00001}
	if vp := f.Fit(a, b, routeGeometry); vp.Zoom != f.MaxZoom {
		t.Errorf("zoom = %d, want %d", vp.Zoom, f.MaxZoom)
	}
}

func TestFit_SingleFlatAxis(t *testing.T) {
	f := viewport.DefaultFitter()
	// Same latitude: dy == 0 and only the x axis constrains the zoom.
	a := domain.Coordinate{Lat: 43.26, Lon: -2.95}
	b := domain.Coordinate{Lat: 43.26, Lon: -2.90}
	vp := f.Fit(a, b, routeGeometry)
	if vp.Zoom < f.MinZoom || vp.Zoom > f.MaxZoom {
		t.Fatalf("zoom %d outside bounds", vp.Zoom)
	}
	// 0.05° of longitude across 504px of 512px tiles: log2(504*360/(512*0.05)) ~= 12.8.
	if vp.Zoom != 12 {
		t.Errorf("zoom = %d, want 12", vp.Zoom)
	}
}

func TestFit_ZoomMonotonic(t *testing.T) {
	f := viewport.DefaultFitter()
	origin := domain.Coordinate{Lat: 43.26, Lon: -2.93}

	prev := math.MaxInt
	for step := 1; step <= 400; step++ {
		d := float64(step) * 0.05
		b := domain.Coordinate{Lat: origin.Lat - d/4, Lon: origin.Lon + d}
		zoom := f.Fit(origin, b, routeGeometry).Zoom
		if zoom > prev {
			t.Fatalf("zoom increased from %d to %d at offset %g°", prev, zoom, d)
		}
		prev = zoom
	}
}

func TestFit_ZoomAlwaysInBounds(t *testing.T) {
	f := viewport.DefaultFitter()
	for lat := -90.0; lat <= 90; lat += 15 {
		for lon := -180.0; lon <= 180; lon += 30 {
			a := domain.Coordinate{Lat: lat, Lon: lon}
			for _, b := range []domain.Coordinate{a, {Lat: -lat, Lon: -lon}, {Lat: lat + 0.0001, Lon: lon}} {
				if vp := f.Fit(a, b, routeGeometry); vp.Zoom < f.MinZoom || vp.Zoom > f.MaxZoom {
					t.Fatalf("Fit(%v, %v) zoom = %d outside [%d, %d]", a, b, vp.Zoom, f.MinZoom, f.MaxZoom)
				}
			}
		}
	}
}

func TestFit_Midpoint(t *testing.T) {
	f := viewport.DefaultFitter()
	pairs := [][2]domain.Coordinate{
		{{Lat: 52.37, Lon: 4.9}, {Lat: 52.09, Lon: 5.12}},
		{{Lat: -10, Lon: 170}, {Lat: 10, Lon: -170}},
		{{Lat: 43.26, Lon: -2.93}, {Lat: 43.32, Lon: -1.98}},
	}
	for _, p := range pairs {
		vp := f.Fit(p[0], p[1], routeGeometry)
		want := domain.Coordinate{Lat: (p[0].Lat + p[1].Lat) / 2, Lon: (p[0].Lon + p[1].Lon) / 2}
		if vp.Center != want {
			t.Errorf("center = %v, want %v", vp.Center, want)
		}
	}
}

func TestFit_PanicsOnBadGeometry(t *testing.T) {
	bad := []viewport.Geometry{
		{Width: 96, Height: 400, PaddingPx: 48, TileSizePx: 512},
		{Width: 600, Height: 90, PaddingPx: 48, TileSizePx: 512},
		{Width: 600, Height: 400, PaddingPx: 48, TileSizePx: 0},
	}
	for _, g := range bad {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Fit with %+v did not panic", g)
				}
			}()
			viewport.DefaultFitter().Fit(domain.Coordinate{}, domain.Coordinate{Lat: 1, Lon: 1}, g)
		}()
	}
}

func TestFitter_Validate(t *testing.T) {
	if err := viewport.DefaultFitter().Validate(); err != nil {
		t.Fatalf("default fitter invalid: %v", err)
	}
	if err := (viewport.Fitter{MinZoom: 10, MaxZoom: 5, DefaultZoom: 7}).Validate(); err == nil {
		t.Error("expected error for inverted zoom range")
	}
	if err := (viewport.Fitter{MinZoom: 2, MaxZoom: 16, DefaultZoom: 20}).Validate(); err == nil {
		t.Error("expected error for default zoom outside range")
	}
}

func TestBuild_PathOrder(t *testing.T) {
	from := domain.Coordinate{Lat: 43.263, Lon: -2.935}
	to := domain.Coordinate{Lat: 43.318, Lon: -1.981}

	b := viewport.NewBuilder(viewport.DefaultFitter())
	spec, err := b.Build(from, to, viewport.Options{Width: 600, Height: 400, PaddingPx: 48, TileSizePx: 512})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(spec.Path) != 2 || spec.Path[0] != from || spec.Path[1] != to {
		t.Errorf("path = %v, want [%v %v]", spec.Path, from, to)
	}
	if len(spec.Markers) != 2 {
		t.Fatalf("expected 2 markers, got %d", len(spec.Markers))
	}
	if spec.Markers[0].Location != from || spec.Markers[0].Style != domain.MarkerStart {
		t.Errorf("first marker = %+v, want start at %v", spec.Markers[0], from)
	}
	if spec.Markers[1].Location != to || spec.Markers[1].Style != domain.MarkerEnd {
		t.Errorf("second marker = %+v, want end at %v", spec.Markers[1], to)
	}
	if spec.Width != 600 || spec.Height != 400 {
		t.Errorf("size = %dx%d, want 600x400", spec.Width, spec.Height)
	}
	if spec.Theme != domain.ThemeLight {
		t.Errorf("theme = %q, want light", spec.Theme)
	}
	if want := viewport.DefaultFitter().Fit(from, to, routeGeometry); spec.Viewport != want {
		t.Errorf("viewport = %+v, want %+v", spec.Viewport, want)
	}
}

func TestBuild_Themes(t *testing.T) {
	b := viewport.NewBuilder(viewport.DefaultFitter())
	opts := viewport.Options{Width: 600, Height: 400, PaddingPx: 48, TileSizePx: 512}
	p := domain.Coordinate{Lat: 52, Lon: 4}

	tests := []struct {
		in      string
		want    domain.Theme
		wantErr bool
	}{
		{"", domain.ThemeLight, false},
		{"light", domain.ThemeLight, false},
		{"dark", domain.ThemeDark, false},
		{"DARK", domain.ThemeDark, false},
		{"sepia", "", true},
	}
	for _, tt := range tests {
		opts.Theme = tt.in
		spec, err := b.Build(p, p, opts)
		if tt.wantErr {
			if !errors.Is(err, domain.ErrInvalidTheme) {
				t.Errorf("theme %q: err = %v, want ErrInvalidTheme", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("theme %q: unexpected error: %v", tt.in, err)
			continue
		}
		if spec.Theme != tt.want {
			t.Errorf("theme %q: got %q, want %q", tt.in, spec.Theme, tt.want)
		}
	}
}
