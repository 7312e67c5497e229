package leaderboard

import (
	"github.com/shimrin23/GreenPulse/internal/auth"
	"github.com/shimrin23/GreenPulse/internal/query"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, optionalAuth fiber.Handler) {
	r.Get("/", optionalAuth, func(c *fiber.Ctx) error {
		page, err := query.PositiveInt("page", c.Query("page"), 1)
		if err != nil {
			return err
		}
		limit, err := query.PositiveInt("limit", c.Query("limit"), 50)
		if err != nil {
			return err
		}

		params := query.Params{
			Timeframe: c.Query("timeframe"),
			Location:  c.Query("location"),
		}

		result, err := svc.Leaderboard(c.Context(), params, page, limit, auth.UserID(c))
		if err != nil {
			return err
		}
		return c.JSON(result)
	})
}
