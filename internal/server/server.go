package server

import (
	"github.com/shimrin23/GreenPulse/internal/auth"
	"github.com/shimrin23/GreenPulse/internal/config"
	"github.com/shimrin23/GreenPulse/internal/feed"
	"github.com/shimrin23/GreenPulse/internal/geomap"
	"github.com/shimrin23/GreenPulse/internal/leaderboard"
	"github.com/shimrin23/GreenPulse/internal/planting"
	"github.com/shimrin23/GreenPulse/internal/shared/apperr"
	"github.com/shimrin23/GreenPulse/internal/stats"
	"github.com/shimrin23/GreenPulse/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App   *fiber.App
	Cfg   config.Config
	DB    *pgxpool.Pool
	Redis *redis.Client
	Feed  *feed.Hub
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New(fiber.Config{
		ErrorHandler: apperr.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:   app,
		Cfg:   cfg,
		DB:    db,
		Redis: redisClient,
		Feed:  feed.NewHub(redisClient),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)
	optionalAuth := auth.OptionalJWT(s.Cfg.JWTSecret)

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.DB))
	planting.RegisterRoutes(s.App.Group("/plantings"), planting.NewService(s.DB, s.Feed), jwtMiddleware, optionalAuth)
	leaderboard.RegisterRoutes(s.App.Group("/leaderboard"), leaderboard.NewService(s.DB), optionalAuth)
	geomap.RegisterRoutes(s.App.Group("/map"), geomap.NewService(s.DB))
	stats.RegisterRoutes(s.App.Group("/stats"), stats.NewService(s.DB, s.Redis))
	storage.RegisterRoutes(s.App.Group("/storage"), storage.NewService(s.DB, s.Cfg.ImageBaseURL), jwtMiddleware)
	feed.RegisterRoutes(s.App.Group("/feed"), s.Feed)
}
