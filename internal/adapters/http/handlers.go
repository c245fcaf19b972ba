package http

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/samirrijal/milelog/internal/core/domain"
)

// RouteMapResponse is the body of a successful route map request.
type RouteMapResponse struct {
	URL string `json:"url"`
}

// queryCoordinate parses a required latitude/longitude query pair.
func queryCoordinate(c *fiber.Ctx, latKey, lngKey string) (domain.Coordinate, error) {
	lat, err := queryFloat(c, latKey)
	if err != nil {
		return domain.Coordinate{}, err
	}
	lng, err := queryFloat(c, lngKey)
	if err != nil {
		return domain.Coordinate{}, err
	}
	return domain.Coordinate{Lat: lat, Lon: lng}, nil
}

func queryFloat(c *fiber.Ctx, key string) (float64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s must be a number", key)
	}
	return v, nil
}

// routeEndpoints reads startLat/startLng/endLat/endLng.
func routeEndpoints(c *fiber.Ctx) (from, to domain.Coordinate, err error) {
	if from, err = queryCoordinate(c, "startLat", "startLng"); err != nil {
		return
	}
	to, err = queryCoordinate(c, "endLat", "endLng")
	return
}

// RouteMapHandler returns the static map URL framing a route's start and end.
// GET /v1/maps/route?startLat=52&startLng=4&endLat=40&endLng=-3&theme=dark
func RouteMapHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, to, err := routeEndpoints(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		rm, err := deps.RouteMaps.URL(c.UserContext(), from, to, c.Query("theme"))
		if err != nil {
			return serviceError(c, err)
		}

		// The URL embeds the access token.
		c.Set("Cache-Control", "no-store")
		return c.JSON(RouteMapResponse{URL: rm.URL})
	}
}

// RouteMapImageHandler proxies the rendered static map image.
func RouteMapImageHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, to, err := routeEndpoints(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		img, err := deps.RouteMaps.Image(c.UserContext(), from, to, c.Query("theme"))
		if err != nil {
			return serviceError(c, err)
		}

		contentType := img.ContentType
		if contentType == "" {
			contentType = "image/png"
		}
		c.Set(fiber.HeaderContentType, contentType)
		c.Set("Cache-Control", "public, max-age=86400")
		return c.Send(img.Data)
	}
}

// SuggestPlacesHandler returns address suggestions for a partial query.
func SuggestPlacesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := strings.TrimSpace(c.Query("q"))
		if query == "" {
			return errBadRequest(c, "q query parameter is required")
		}
		if len(query) > 200 {
			return errBadRequest(c, "query too long (max 200 characters)")
		}

		// Clients echo the session back on every keystroke of one search.
		session := strings.TrimSpace(c.Query("session"))
		if session == "" {
			session = uuid.NewString()
		} else if _, err := uuid.Parse(session); err != nil {
			return errBadRequest(c, "session must be a UUID")
		}

		suggestions, err := deps.Places.Suggest(c.UserContext(), query, session)
		if err != nil {
			return serviceError(c, err)
		}
		if suggestions == nil {
			suggestions = []domain.PlaceSuggestion{}
		}

		c.Set("Cache-Control", "private, max-age=300")
		return c.JSON(fiber.Map{
			"suggestions": suggestions,
			"count":       len(suggestions),
			"session":     session,
		})
	}
}
