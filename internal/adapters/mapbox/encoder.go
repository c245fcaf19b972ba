package mapbox

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/samirrijal/milelog/internal/core/domain"
	"github.com/samirrijal/milelog/internal/pkg/config"
)

// markerLabels gives start and end pins distinct letters.
var markerLabels = map[domain.MarkerStyle]string{
	domain.MarkerStart: "a",
	domain.MarkerEnd:   "b",
}

// StaticURLEncoder implements ports.MapURLEncoder for the Mapbox Static Images API.
type StaticURLEncoder struct {
	baseURL     string
	username    string
	styles      map[domain.Theme]string
	markerColor string
	pathColor   string
	token       string
}

// NewStaticURLEncoder creates an encoder from the mapbox configuration.
func NewStaticURLEncoder(cfg config.MapboxConfig) *StaticURLEncoder {
	return &StaticURLEncoder{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		username: cfg.Username,
		styles: map[domain.Theme]string{
			domain.ThemeLight: cfg.LightStyle,
			domain.ThemeDark:  cfg.DarkStyle,
		},
		markerColor: strings.TrimPrefix(cfg.MarkerColor, "#"),
		pathColor:   cfg.PathColor,
		token:       cfg.AccessToken,
	}
}

// Configured reports whether an access token is available.
func (e *StaticURLEncoder) Configured() bool {
	return e.token != ""
}

// Encode renders spec as
//
//	{base}/styles/v1/{user}/{style}/static/{overlays}/{lon},{lat},{zoom}/{w}x{h}?access_token=...
func (e *StaticURLEncoder) Encode(spec domain.MapRequestSpec) (string, error) {
	if e.token == "" {
		return "", domain.ErrMissingCredential
	}
	style, ok := e.styles[spec.Theme]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidTheme, spec.Theme)
	}

	overlays := make([]string, 0, len(spec.Markers)+1)
	for _, m := range spec.Markers {
		overlays = append(overlays, e.pin(m))
	}
	if len(spec.Path) >= 2 {
		path, err := e.pathOverlay(spec.Path)
		if err != nil {
			return "", err
		}
		overlays = append(overlays, path)
	}

	vp := spec.Viewport
	q := url.Values{"access_token": {e.token}}

	return fmt.Sprintf("%s/styles/v1/%s/%s/static/%s/%s,%s,%d/%dx%d?%s",
		e.baseURL, e.username, style,
		strings.Join(overlays, ","),
		formatFloat(vp.Center.Lon), formatFloat(vp.Center.Lat), vp.Zoom,
		spec.Width, spec.Height,
		q.Encode(),
	), nil
}

func (e *StaticURLEncoder) pin(m domain.Marker) string {
	var b strings.Builder
	b.WriteString("pin-s")
	if label := markerLabels[m.Style]; label != "" {
		b.WriteString("-" + label)
	}
	if e.markerColor != "" {
		b.WriteString("+" + e.markerColor)
	}
	fmt.Fprintf(&b, "(%s,%s)", formatFloat(m.Location.Lon), formatFloat(m.Location.Lat))
	return b.String()
}

// pathOverlay embeds the path as a url-encoded GeoJSON LineString.
func (e *StaticURLEncoder) pathOverlay(path []domain.Coordinate) (string, error) {
	line := make(orb.LineString, 0, len(path))
	for _, c := range path {
		line = append(line, orb.Point{c.Lon, c.Lat})
	}

	f := geojson.NewFeature(line)
	if e.pathColor != "" {
		f.Properties["stroke"] = e.pathColor
	}
	fc := geojson.NewFeatureCollection()
	fc.Append(f)

	raw, err := fc.MarshalJSON()
	if err != nil {
		return "", fmt.Errorf("marshal path overlay: %w", err)
	}
	return "geojson(" + url.QueryEscape(string(raw)) + ")", nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
