package planting

import (
	"github.com/shimrin23/GreenPulse/internal/auth"
	"github.com/shimrin23/GreenPulse/internal/query"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware, optionalAuth fiber.Handler) {
	r.Get("/", optionalAuth, func(c *fiber.Ctx) error {
		page, err := query.PositiveInt("page", c.Query("page"), 1)
		if err != nil {
			return err
		}
		limit, err := query.PositiveInt("limit", c.Query("limit"), 10)
		if err != nil {
			return err
		}

		params := query.Params{
			TreeType:  c.Query("tree_type"),
			City:      c.Query("city"),
			State:     c.Query("state"),
			Country:   c.Query("country"),
			Search:    c.Query("search"),
			PlantedBy: c.Query("planted_by"),
			DateFrom:  c.Query("date_from"),
			DateTo:    c.Query("date_to"),
		}
		if v := c.Query("verified"); v != "" {
			params.Verified = query.Bool(v == "true")
		}

		plantings, pagination, err := svc.List(c.Context(), params, page, limit, auth.UserID(c))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"plantings": plantings, "pagination": pagination})
	})

	r.Get("/:id", optionalAuth, func(c *fiber.Ctx) error {
		p, err := svc.Get(c.Context(), c.Params("id"), auth.UserID(c))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"planting": p})
	})

	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var req Planting
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		req.UserID = auth.UserID(c)
		created, err := svc.Create(c.Context(), req)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"planting": created})
	})

	r.Put("/:id", authMiddleware, func(c *fiber.Ctx) error {
		var req Planting
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		updated, err := svc.Update(c.Context(), c.Params("id"), auth.UserID(c), req)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"planting": updated})
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.Delete(c.Context(), c.Params("id"), auth.UserID(c)); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Post("/:id/like", authMiddleware, func(c *fiber.Ctx) error {
		liked, count, err := svc.ToggleLike(c.Context(), c.Params("id"), auth.UserID(c))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"is_liked": liked, "like_count": count})
	})

	r.Post("/:id/comment", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			Text string `json:"text"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		comment, err := svc.AddComment(c.Context(), c.Params("id"), auth.UserID(c), body.Text)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"comment": comment})
	})

	r.Get("/:id/comments", func(c *fiber.Ctx) error {
		comments, err := svc.Comments(c.Context(), c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"comments": comments})
	})

	r.Post("/:id/verify", authMiddleware, func(c *fiber.Ctx) error {
		verified, err := svc.Verify(c.Context(), c.Params("id"), auth.UserID(c))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"planting": verified})
	})
}
