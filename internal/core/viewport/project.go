// Package viewport frames two geographic points in a fixed-size static map.
//
// The pipeline is Project -> Fitter.Fit -> Builder.Build. Every step is pure
// and safe for concurrent use.
package viewport

import (
	"github.com/samirrijal/milelog/internal/core/domain"
	"github.com/samirrijal/milelog/internal/pkg/geospatial"
)

// Project converts c to normalized spherical Web Mercator tile space.
// Latitude is not required to be pre-clamped; polar values saturate.
func Project(c domain.Coordinate) domain.ProjectedPoint {
	return domain.ProjectedPoint{
		X: geospatial.MercatorX(c.Lon),
		Y: geospatial.MercatorY(c.Lat),
	}
}
