package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samirrijal/milelog/internal/core/domain"
	"github.com/samirrijal/milelog/internal/core/ports"
	"github.com/samirrijal/milelog/internal/pkg/metrics"
)

// PlaceService handles address autocomplete.
type PlaceService struct {
	geocoder ports.Geocoder
	cache    ports.CacheService
}

// NewPlaceService creates a new PlaceService.
func NewPlaceService(geocoder ports.Geocoder, cache ports.CacheService) *PlaceService {
	return &PlaceService{geocoder: geocoder, cache: cache}
}

// Suggest returns address suggestions for a free-text query. Cached results
// are shared across sessions.
func (s *PlaceService) Suggest(ctx context.Context, query, session string) ([]domain.PlaceSuggestion, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search query must not be empty")
	}

	cacheKey := "places:suggest:" + strings.ToLower(query)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var out []domain.PlaceSuggestion
			if err := json.Unmarshal(data, &out); err == nil {
				metrics.CacheHits.WithLabelValues("place_suggest").Inc()
				return out, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("place_suggest").Inc()
	}

	out, err := s.geocoder.Suggest(ctx, query, session)
	if err != nil {
		return nil, err
	}

	// Cache for 5 minutes
	if s.cache != nil && len(out) > 0 {
		if data, err := json.Marshal(out); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 300)
		}
	}

	return out, nil
}
