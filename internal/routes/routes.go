package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/timiwhyte01/fan-mvp/internal/advance"
	"github.com/timiwhyte01/fan-mvp/internal/auth"
	"github.com/timiwhyte01/fan-mvp/internal/config"
	"github.com/timiwhyte01/fan-mvp/internal/identity"
	"github.com/timiwhyte01/fan-mvp/internal/middleware"
	"github.com/timiwhyte01/fan-mvp/internal/notification"
	"github.com/timiwhyte01/fan-mvp/internal/otp"
	"github.com/timiwhyte01/fan-mvp/internal/payment"
	"github.com/timiwhyte01/fan-mvp/internal/station"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes. Without a DB the
// server runs on in-memory repositories, which is only allowed in dev.
func Setup(app *fiber.App, d Deps) error {
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	RegisterHealthRoutes(app, d)

	var (
		identityRepo identity.Repository
		otpRepo      otp.Repository
		advanceRepo  advance.Repository
		paymentRepo  payment.Repository
		stationRepo  station.Repository
	)
	if d.DB != nil {
		identityRepo = identity.NewPostgresRepository(d.DB)
		otpRepo = otp.NewPostgresRepository(d.DB)
		advanceRepo = advance.NewPostgresRepository(d.DB)
		paymentRepo = payment.NewPostgresRepository(d.DB)
		stationRepo = station.NewPostgresRepository(d.DB)
	} else {
		identityRepo = identity.NewMemoryRepository()
		otpRepo = otp.NewMemoryRepository()
		advanceRepo = advance.NewMemoryRepository()
		paymentRepo = payment.NewMemoryRepository()
		stationRepo = station.NewMemoryRepository()
	}

	notifier := notification.NewLoggerNotifier(d.Logger)
	identitySvc := identity.NewService(identityRepo)
	tokenSvc := auth.NewService(d.Cfg)
	otpSvc := otp.NewService(otpRepo, notifier, d.Cfg.OTPTTL)
	advanceSvc := advance.NewService(advanceRepo, identityRepo, d.Cfg.AdvanceTTL)
	paymentSvc := payment.NewService(paymentRepo, advanceSvc)
	stationSvc := station.NewService(stationRepo)

	authHandler := auth.NewHandler(identitySvc, tokenSvc, otpSvc)
	advanceHandler := advance.NewHandler(advanceSvc)
	paymentHandler := payment.NewHandler(paymentSvc)
	stationHandler := station.NewHandler(stationSvc)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	rateLimiter := middleware.LoginRateLimit(d.Cache, 5)
	RegisterAuthRoutes(api, authHandler, rateLimiter)
	RegisterPublicStationRoutes(api, stationHandler)

	jwtmw := middleware.JWTAuth(tokenSvc, identityRepo)
	protected := api.Group("", jwtmw)
	RegisterProfileRoutes(protected, authHandler)
	RegisterAdvanceRoutes(protected, advanceHandler)
	RegisterPaymentRoutes(protected, paymentHandler)
	RegisterProtectedStationRoutes(protected, stationHandler)

	return nil
}
