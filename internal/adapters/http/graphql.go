package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/milelog/internal/core/domain"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	coordinateType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Coordinate",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	routeMapType := graphql.NewObject(graphql.ObjectConfig{
		Name: "RouteMap",
		Fields: graphql.Fields{
			"url":    &graphql.Field{Type: graphql.String},
			"zoom":   &graphql.Field{Type: graphql.Int},
			"theme":  &graphql.Field{Type: graphql.String},
			"center": &graphql.Field{Type: coordinateType},
		},
	})

	placeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "PlaceSuggestion",
		Fields: graphql.Fields{
			"id":         &graphql.Field{Type: graphql.String},
			"name":       &graphql.Field{Type: graphql.String},
			"place_name": &graphql.Field{Type: graphql.String},
			"city":       &graphql.Field{Type: graphql.String},
			"region":     &graphql.Field{Type: graphql.String},
			"postcode":   &graphql.Field{Type: graphql.String},
			"country":    &graphql.Field{Type: graphql.String},
			"location":   &graphql.Field{Type: coordinateType},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"routeMap": &graphql.Field{
				Type:        routeMapType,
				Description: "Static map framing a route's start and end",
				Args: graphql.FieldConfigArgument{
					"startLat": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"startLng": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"endLat":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"endLng":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"theme":    &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					from := domain.Coordinate{Lat: p.Args["startLat"].(float64), Lon: p.Args["startLng"].(float64)}
					to := domain.Coordinate{Lat: p.Args["endLat"].(float64), Lon: p.Args["endLng"].(float64)}
					theme, _ := p.Args["theme"].(string)

					rm, err := deps.RouteMaps.URL(p.Context, from, to, theme)
					if err != nil {
						return nil, err
					}
					return map[string]interface{}{
						"url":   rm.URL,
						"zoom":  rm.Spec.Viewport.Zoom,
						"theme": string(rm.Spec.Theme),
						"center": map[string]interface{}{
							"lat": rm.Spec.Viewport.Center.Lat,
							"lon": rm.Spec.Viewport.Center.Lon,
						},
					}, nil
				},
			},
			"suggestPlaces": &graphql.Field{
				Type:        graphql.NewList(placeType),
				Description: "Address suggestions for a partial query",
				Args: graphql.FieldConfigArgument{
					"query":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"session": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					q := p.Args["query"].(string)
					session, _ := p.Args["session"].(string)
					suggestions, err := deps.Places.Suggest(p.Context, q, session)
					if err != nil {
						return nil, err
					}
					out := make([]map[string]interface{}, 0, len(suggestions))
					for _, s := range suggestions {
						out = append(out, map[string]interface{}{
							"id":         s.ID,
							"name":       s.Components.Name,
							"place_name": s.Components.Address,
							"city":       s.Components.City,
							"region":     s.Components.Region,
							"postcode":   s.Components.Postcode,
							"country":    s.Components.Country,
							"location": map[string]interface{}{
								"lat": s.Location.Lat,
								"lon": s.Location.Lon,
							},
						})
					}
					return out, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
