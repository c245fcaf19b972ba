package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/samirrijal/milelog/internal/core/domain"
	"github.com/samirrijal/milelog/internal/pkg/config"
)

// minQueryLen is the shortest query sent to the provider.
const minQueryLen = 3

// Geocoder implements ports.Geocoder with the Mapbox Geocoding v5 API.
type Geocoder struct {
	client  *Client
	baseURL string
	token   string
}

// NewGeocoder creates a Geocoder sharing client's retry and breaker state.
func NewGeocoder(client *Client, cfg config.MapboxConfig) *Geocoder {
	return &Geocoder{
		client:  client,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.AccessToken,
	}
}

type geocodeResponse struct {
	Features []geocodeFeature `json:"features"`
}

type geocodeFeature struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	PlaceName string    `json:"place_name"`
	Address   string    `json:"address"`
	Center    []float64 `json:"center"`
	Geometry  struct {
		Coordinates []float64 `json:"coordinates"`
	} `json:"geometry"`
	Properties struct {
		Name           string `json:"name"`
		PlaceFormatted string `json:"place_formatted"`
	} `json:"properties"`
	Context []struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"context"`
}

// Suggest returns up to five address suggestions for query. Queries shorter
// than three characters return no suggestions without calling the provider.
// An empty session gets a fresh session token for this request only.
func (g *Geocoder) Suggest(ctx context.Context, query, session string) ([]domain.PlaceSuggestion, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}
	if len([]rune(query)) < minQueryLen {
		return []domain.PlaceSuggestion{}, nil
	}
	if g.token == "" {
		return nil, domain.ErrMissingCredential
	}

	session = strings.TrimSpace(session)
	if session == "" {
		session = uuid.NewString()
	}

	resp, err := g.client.get(ctx, "geocode", g.suggestURL(query, session))
	if err != nil {
		return nil, err
	}

	var payload geocodeResponse
	if err := json.Unmarshal(resp.body, &payload); err != nil {
		return nil, fmt.Errorf("%w: decode geocoding response: %v", domain.ErrProviderUnavailable, err)
	}

	out := make([]domain.PlaceSuggestion, 0, len(payload.Features))
	for _, f := range payload.Features {
		s, err := f.toSuggestion()
		if err != nil {
			slog.DebugContext(ctx, "skipping geocoding feature", "id", f.ID, "error", err)
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (g *Geocoder) suggestURL(query, session string) string {
	q := url.Values{}
	q.Set("limit", "5")
	q.Set("types", "address")
	q.Set("language", "en")
	q.Set("autocomplete", "true")
	q.Set("access_token", g.token)
	q.Set("session_token", session)
	return fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json?%s",
		g.baseURL, url.PathEscape(query), q.Encode())
}

func (f geocodeFeature) toSuggestion() (domain.PlaceSuggestion, error) {
	loc, err := f.location()
	if err != nil {
		return domain.PlaceSuggestion{}, err
	}
	return domain.PlaceSuggestion{
		ID:         f.ID,
		Location:   loc,
		Components: f.components(),
	}, nil
}

// location prefers the geometry point and falls back to the feature center.
// Both are [lon, lat].
func (f geocodeFeature) location() (domain.Coordinate, error) {
	var pair []float64
	switch {
	case len(f.Geometry.Coordinates) == 2:
		pair = f.Geometry.Coordinates
	case len(f.Center) == 2:
		pair = f.Center
	default:
		return domain.Coordinate{}, fmt.Errorf("%w: missing coordinates", domain.ErrInvalidCoordinate)
	}
	c := domain.Coordinate{Lat: pair[1], Lon: pair[0]}
	return c, c.Validate()
}

func (f geocodeFeature) components() domain.AddressComponents {
	ac := domain.AddressComponents{
		Name:         firstNonEmpty(f.Properties.Name, f.Text, f.PlaceName),
		Address:      f.PlaceName,
		ShortAddress: firstNonEmpty(f.Properties.PlaceFormatted, f.PlaceName),
		AddressLine1: strings.TrimSpace(f.Address),
	}
	for _, ctx := range f.Context {
		text := strings.TrimSpace(ctx.Text)
		if text == "" {
			continue
		}
		switch {
		case strings.HasPrefix(ctx.ID, "place"):
			ac.City = text
		case strings.HasPrefix(ctx.ID, "region"):
			ac.Region = text
		case strings.HasPrefix(ctx.ID, "postcode"):
			ac.Postcode = text
		case strings.HasPrefix(ctx.ID, "country"):
			ac.Country = text
		}
	}
	return ac
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
