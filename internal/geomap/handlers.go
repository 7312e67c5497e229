package geomap

import (
	"github.com/shimrin23/GreenPulse/internal/query"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Get("/trees", func(c *fiber.Ctx) error {
		zoom, err := query.PositiveInt("zoom", c.Query("zoom"), 10)
		if err != nil {
			return err
		}
		limit, err := query.PositiveInt("limit", c.Query("limit"), 1000)
		if err != nil {
			return err
		}

		params := query.Params{
			Bounds:   c.Query("bounds"),
			TreeType: c.Query("tree_type"),
			DateFrom: c.Query("date_from"),
			DateTo:   c.Query("date_to"),
		}
		if v := c.Query("verified"); v != "" {
			params.Verified = query.Bool(v == "true")
		}

		result, err := svc.MapTrees(c.Context(), params, zoom, limit)
		if err != nil {
			return err
		}
		return c.JSON(result)
	})

	r.Get("/heatmap", func(c *fiber.Ctx) error {
		params := query.Params{Bounds: c.Query("bounds")}
		result, err := svc.HeatmapData(c.Context(), params, c.Query("intensity", "medium"))
		if err != nil {
			return err
		}
		return c.JSON(result)
	})
}
