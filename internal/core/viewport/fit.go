package viewport

import (
	"fmt"
	"math"

	"github.com/samirrijal/milelog/internal/core/domain"
	"github.com/samirrijal/milelog/internal/pkg/geospatial"
)

// minDelta keeps a single flat axis from producing an infinite zoom.
const minDelta = 1e-9

// Geometry describes the pixel box the two points must fit into.
type Geometry struct {
	Width      int
	Height     int
	PaddingPx  int
	TileSizePx int
}

// Validate checks the fitting preconditions.
func (g Geometry) Validate() error {
	if g.Width <= 2*g.PaddingPx {
		return fmt.Errorf("width %d must exceed twice the padding (%d)", g.Width, g.PaddingPx)
	}
	if g.Height <= 2*g.PaddingPx {
		return fmt.Errorf("height %d must exceed twice the padding (%d)", g.Height, g.PaddingPx)
	}
	if g.TileSizePx <= 0 {
		return fmt.Errorf("tile size must be positive, got %d", g.TileSizePx)
	}
	if g.PaddingPx < 0 {
		return fmt.Errorf("padding must not be negative, got %d", g.PaddingPx)
	}
	return nil
}

// Fitter picks the zoom level that frames two points.
type Fitter struct {
	MinZoom     int
	MaxZoom     int
	DefaultZoom int // used when both points coincide
}

// DefaultFitter returns the zoom bounds most static map providers accept.
func DefaultFitter() Fitter {
	return Fitter{MinZoom: 2, MaxZoom: 16, DefaultZoom: 12}
}

// Validate checks that the zoom bounds are ordered and contain DefaultZoom.
func (f Fitter) Validate() error {
	if f.MinZoom < 0 || f.MinZoom > f.MaxZoom {
		return fmt.Errorf("zoom range [%d, %d] is invalid", f.MinZoom, f.MaxZoom)
	}
	if f.DefaultZoom < f.MinZoom || f.DefaultZoom > f.MaxZoom {
		return fmt.Errorf("default zoom %d outside [%d, %d]", f.DefaultZoom, f.MinZoom, f.MaxZoom)
	}
	return nil
}

// Fit returns the center and the highest integer zoom at which both a and b
// stay inside the padded image. It panics if g violates its preconditions;
// callers validate geometry once at startup.
func (f Fitter) Fit(a, b domain.Coordinate, g Geometry) domain.Viewport {
	if err := g.Validate(); err != nil {
		panic("viewport: " + err.Error())
	}

	center := domain.Coordinate{
		Lat: (a.Lat + b.Lat) / 2,
		Lon: (a.Lon + b.Lon) / 2,
	}

	pa, pb := Project(a), Project(b)
	dx := math.Abs(pa.X - pb.X)
	dy := math.Abs(pa.Y - pb.Y)

	if dx == 0 && dy == 0 {
		return domain.Viewport{Center: center, Zoom: f.DefaultZoom}
	}

	tile := float64(g.TileSizePx)
	zx := geospatial.Log2Zoom(float64(g.Width-2*g.PaddingPx), tile, math.Max(dx, minDelta))
	zy := geospatial.Log2Zoom(float64(g.Height-2*g.PaddingPx), tile, math.Max(dy, minDelta))

	// Flooring keeps both points inside the box on the tighter axis.
	zoom := int(math.Floor(math.Min(zx, zy)))
	return domain.Viewport{Center: center, Zoom: f.clamp(zoom)}
}

func (f Fitter) clamp(zoom int) int {
	if zoom < f.MinZoom {
		return f.MinZoom
	}
	if zoom > f.MaxZoom {
		return f.MaxZoom
	}
	return zoom
}
