package usecases

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/samirrijal/milelog/internal/core/domain"
	"github.com/samirrijal/milelog/internal/core/ports"
	"github.com/samirrijal/milelog/internal/core/viewport"
	"github.com/samirrijal/milelog/internal/pkg/geospatial"
	"github.com/samirrijal/milelog/internal/pkg/metrics"
)

// imageTTLSeconds is how long rendered maps stay cached. Output depends only
// on the request spec, so a day is safe.
const imageTTLSeconds = 24 * 60 * 60

// RouteMap is a built route map request and its provider URL.
type RouteMap struct {
	URL  string                `json:"url"`
	Spec domain.MapRequestSpec `json:"spec"`
}

// RouteMapService builds static route maps between two coordinates.
type RouteMapService struct {
	builder  *viewport.Builder
	geometry viewport.Geometry
	encoder  ports.MapURLEncoder
	images   ports.MapImageFetcher
	cache    ports.CacheService
}

// NewRouteMapService creates a new RouteMapService. images and cache may be nil.
func NewRouteMapService(builder *viewport.Builder, geometry viewport.Geometry, encoder ports.MapURLEncoder, images ports.MapImageFetcher, cache ports.CacheService) *RouteMapService {
	return &RouteMapService{
		builder:  builder,
		geometry: geometry,
		encoder:  encoder,
		images:   images,
		cache:    cache,
	}
}

// Spec validates the endpoints and describes the map framing both.
func (s *RouteMapService) Spec(from, to domain.Coordinate, theme string) (domain.MapRequestSpec, error) {
	if err := from.Validate(); err != nil {
		return domain.MapRequestSpec{}, fmt.Errorf("start: %w", err)
	}
	if err := to.Validate(); err != nil {
		return domain.MapRequestSpec{}, fmt.Errorf("end: %w", err)
	}

	spec, err := s.builder.Build(from, to, viewport.Options{
		Width:      s.geometry.Width,
		Height:     s.geometry.Height,
		Theme:      theme,
		PaddingPx:  s.geometry.PaddingPx,
		TileSizePx: s.geometry.TileSizePx,
	})
	if err != nil {
		return domain.MapRequestSpec{}, err
	}

	return spec, nil
}

// URL builds the provider request URL for the route map.
func (s *RouteMapService) URL(ctx context.Context, from, to domain.Coordinate, theme string) (*RouteMap, error) {
	spec, err := s.Spec(from, to, theme)
	if err != nil {
		return nil, err
	}
	u, err := s.encoder.Encode(spec)
	if err != nil {
		return nil, fmt.Errorf("encode route map: %w", err)
	}

	metrics.RouteMapsBuilt.WithLabelValues(string(spec.Theme)).Inc()
	metrics.RouteMapZoom.Observe(float64(spec.Viewport.Zoom))
	metrics.RouteSpanKm.Observe(geospatial.GreatCircleKm(from.Lat, from.Lon, to.Lat, to.Lon))

	return &RouteMap{URL: u, Spec: spec}, nil
}

// Image fetches the rendered route map, serving repeats from cache.
func (s *RouteMapService) Image(ctx context.Context, from, to domain.Coordinate, theme string) (*domain.MapImage, error) {
	if s.images == nil {
		return nil, fmt.Errorf("%w: image fetching disabled", domain.ErrProviderUnavailable)
	}

	rm, err := s.URL(ctx, from, to, theme)
	if err != nil {
		return nil, err
	}

	// Keyed by spec, not URL, so the access token never reaches the cache.
	cacheKey, err := specKey(rm.Spec)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var img domain.MapImage
			if err := json.Unmarshal(data, &img); err == nil {
				metrics.CacheHits.WithLabelValues("route_image").Inc()
				return &img, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("route_image").Inc()
	}

	img, err := s.images.FetchImage(ctx, rm.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch route map: %w", err)
	}

	if s.cache != nil {
		if data, err := json.Marshal(img); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, imageTTLSeconds)
		}
	}

	return img, nil
}

func specKey(spec domain.MapRequestSpec) (string, error) {
	data, err := json.Marshal(spec)
	if err != nil {
		return "", fmt.Errorf("marshal spec: %w", err)
	}
	sum := sha256.Sum256(data)
	return "routemap:image:" + hex.EncodeToString(sum[:]), nil
}
