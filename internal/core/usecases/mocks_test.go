package usecases_test

import (
	"context"
	"errors"
	"sync"

	"github.com/samirrijal/milelog/internal/core/domain"
)

type mockEncoder struct {
	encodeFn func(spec domain.MapRequestSpec) (string, error)
}

func (m *mockEncoder) Encode(spec domain.MapRequestSpec) (string, error) {
	if m.encodeFn != nil {
		return m.encodeFn(spec)
	}
	return "https://maps.test/static", nil
}

type mockFetcher struct {
	calls   int
	fetchFn func(ctx context.Context, url string) (*domain.MapImage, error)
}

func (m *mockFetcher) FetchImage(ctx context.Context, url string) (*domain.MapImage, error) {
	m.calls++
	if m.fetchFn != nil {
		return m.fetchFn(ctx, url)
	}
	return &domain.MapImage{ContentType: "image/png", Data: []byte("png")}, nil
}

type mockGeocoder struct {
	calls     int
	suggestFn func(ctx context.Context, query, session string) ([]domain.PlaceSuggestion, error)
}

func (m *mockGeocoder) Suggest(ctx context.Context, query, session string) ([]domain.PlaceSuggestion, error) {
	m.calls++
	if m.suggestFn != nil {
		return m.suggestFn(ctx, query, session)
	}
	return nil, nil
}

var errNotFound = errors.New("not found")

// memCache is an in-memory ports.CacheService.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]int
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}, ttls: map[string]int{}}
}

func (m *memCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, errNotFound
	}
	return v, nil
}

func (m *memCache) Set(_ context.Context, key string, value []byte, ttlSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.ttls[key] = ttlSeconds
	return nil
}

func (m *memCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
