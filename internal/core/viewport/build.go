package viewport

import (
	"fmt"

	"github.com/samirrijal/milelog/internal/core/domain"
)

// Options are the per-request inputs of Build.
type Options struct {
	Width      int
	Height     int
	Theme      string
	PaddingPx  int
	TileSizePx int
}

func (o Options) geometry() Geometry {
	return Geometry{
		Width:      o.Width,
		Height:     o.Height,
		PaddingPx:  o.PaddingPx,
		TileSizePx: o.TileSizePx,
	}
}

// Builder assembles MapRequestSpecs.
type Builder struct {
	Fitter Fitter
}

// NewBuilder creates a Builder around f.
func NewBuilder(f Fitter) *Builder {
	return &Builder{Fitter: f}
}

// Build describes a map with a start pin at from, an end pin at to and a
// path drawn from -> to. Unknown themes are rejected with domain.ErrInvalidTheme.
func (b *Builder) Build(from, to domain.Coordinate, opts Options) (domain.MapRequestSpec, error) {
	theme, err := domain.ParseTheme(opts.Theme)
	if err != nil {
		return domain.MapRequestSpec{}, fmt.Errorf("build map spec: %w", err)
	}

	return domain.MapRequestSpec{
		Width:  opts.Width,
		Height: opts.Height,
		Theme:  theme,
		Markers: []domain.Marker{
			{Location: from, Style: domain.MarkerStart},
			{Location: to, Style: domain.MarkerEnd},
		},
		Path:     []domain.Coordinate{from, to},
		Viewport: b.Fitter.Fit(from, to, opts.geometry()),
	}, nil
}
