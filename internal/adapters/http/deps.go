package http

import (
	"github.com/samirrijal/milelog/internal/adapters/valkey"
	"github.com/samirrijal/milelog/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	RouteMaps *usecases.RouteMapService
	Places    *usecases.PlaceService
	Cache     *valkey.Cache

	// TokenConfigured reports whether a map provider access token is set.
	TokenConfigured bool
}
