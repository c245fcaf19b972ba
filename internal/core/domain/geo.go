package domain

import "fmt"

// Coordinate represents a geographic coordinate (WGS 84).
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Validate reports whether the coordinate lies within the WGS 84 ranges.
func (c Coordinate) Validate() error {
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("%w: latitude %g must be between -90 and 90", ErrInvalidCoordinate, c.Lat)
	}
	if c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("%w: longitude %g must be between -180 and 180", ErrInvalidCoordinate, c.Lon)
	}
	return nil
}

// ProjectedPoint is a normalized Web Mercator position. (0,0) is the
// north-west corner of the world map, (1,1) the south-east corner.
type ProjectedPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Viewport is the center and integer zoom level of a static map image.
type Viewport struct {
	Center Coordinate `json:"center"`
	Zoom   int        `json:"zoom"`
}
