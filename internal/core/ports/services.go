package ports

import (
	"context"

	"github.com/samirrijal/milelog/internal/core/domain"
)

// MapURLEncoder turns a map request spec into a provider request URL.
type MapURLEncoder interface {
	Encode(spec domain.MapRequestSpec) (string, error)
}

// MapImageFetcher downloads a rendered static map.
type MapImageFetcher interface {
	FetchImage(ctx context.Context, url string) (*domain.MapImage, error)
}

// Geocoder resolves free-text addresses to places. session groups the
// keystrokes of one search for provider billing; empty starts a new one.
type Geocoder interface {
	Suggest(ctx context.Context, query, session string) ([]domain.PlaceSuggestion, error)
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
