package server

import (
	"github.com/lmagsino/stride/internal/apierr"
	"github.com/lmagsino/stride/internal/auth"
	"github.com/lmagsino/stride/internal/config"
	"github.com/lmagsino/stride/internal/profile"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	appName    = "stride"
	appVersion = "1.0.0"
)

type Server struct {
	App   *fiber.App
	Cfg   config.Config
	DB    *pgxpool.Pool
	Redis *redis.Client
	Log   *zap.Logger
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:      appName,
		ErrorHandler: apierr.Handler,
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.FrontendURL,
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		AllowMethods:  "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		ExposeHeaders: "Authorization",
	}))

	s := &Server{
		App:   app,
		Cfg:   cfg,
		DB:    db,
		Redis: redisClient,
		Log:   log,
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	health := func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "app": appName, "version": appVersion})
	}
	s.App.Get("/health", health)
	s.App.Get("/api/v1/health", health)

	denylist := auth.NewDenylist(s.Redis, s.DB)
	s.Log.Info("token denylist ready", zap.Bool("redis", s.Redis != nil))

	authService := auth.NewService(s.Cfg.JWTSecret, s.Cfg.JWTTTL, s.DB, denylist)
	jwtMiddleware := auth.JWTMiddleware(authService)

	auth.RegisterRoutes(s.App.Group("/api/v1/auth"), authService, jwtMiddleware)
	profile.RegisterRoutes(s.App.Group("/api/v1/profile"), profile.NewService(s.DB), jwtMiddleware)
}
