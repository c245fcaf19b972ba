package geospatial

import "math"

// MercatorX maps a longitude in degrees to normalized Web Mercator x in [0, 1].
func MercatorX(lon float64) float64 {
	return (lon + 180) / 360
}

// MercatorY maps a latitude in degrees to normalized Web Mercator y in [0, 1].
// Latitudes beyond roughly ±85.0511° saturate to 0 (north) or 1 (south).
func MercatorY(lat float64) float64 {
	sin := math.Sin(toRad(lat))
	// At ±90° the log diverges to ±Inf and the clamp saturates it.
	y := 0.5 - 0.25*math.Log((1+sin)/(1-sin))/math.Pi
	return clamp(y, 0, 1)
}

// Log2Zoom returns the fractional zoom at which a normalized span of delta
// covers availablePx pixels with tiles of tileSizePx pixels.
func Log2Zoom(availablePx, tileSizePx, delta float64) float64 {
	return math.Log2(availablePx / (tileSizePx * delta))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
