package domain

import (
	"fmt"
	"strings"
)

// Theme selects the visual style of the rendered map.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme maps user input to a Theme. Matching is case-insensitive and an
// empty value selects ThemeLight. Any other value is rejected.
func ParseTheme(s string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(ThemeLight):
		return ThemeLight, nil
	case string(ThemeDark):
		return ThemeDark, nil
	default:
		return "", fmt.Errorf("%w: %q (want light or dark)", ErrInvalidTheme, s)
	}
}

// MarkerStyle tags a marker so renderers can tell start and end apart.
type MarkerStyle string

const (
	MarkerStart MarkerStyle = "start"
	MarkerEnd   MarkerStyle = "end"
)

// Marker is a styled pin on the map.
type Marker struct {
	Location Coordinate  `json:"location"`
	Style    MarkerStyle `json:"style"`
}

// MapRequestSpec is a provider-agnostic description of a static route map.
type MapRequestSpec struct {
	Width    int          `json:"width"`
	Height   int          `json:"height"`
	Theme    Theme        `json:"theme"`
	Markers  []Marker     `json:"markers"`
	Path     []Coordinate `json:"path"`
	Viewport Viewport     `json:"viewport"`
}

// MapImage is a rendered static map as returned by the provider.
type MapImage struct {
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}
