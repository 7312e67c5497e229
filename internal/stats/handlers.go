package stats

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Get("/", func(c *fiber.Ctx) error {
		result, err := svc.Platform(c.Context())
		if err != nil {
			return err
		}
		return c.JSON(result)
	})

	r.Get("/regions", func(c *fiber.Ctx) error {
		result, err := svc.RegionStats(c.Context(), c.Query("level", "country"))
		if err != nil {
			return err
		}
		return c.JSON(result)
	})
}
