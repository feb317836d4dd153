package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/session"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	issuer *session.Issuer,
	gatherer prometheus.Gatherer,
	accountHandler *handlers.AccountHandler,
	healthHandler *handlers.HealthHandler,
) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api := app.Group("/api")

	// General API rate limiter per IP
	api.Use(perIPLimiter(cfg.RateLimit))

	api.Get("/health", healthHandler.Check)

	users := api.Group("/v1/users", middleware.RequestTimeout(cfg.RequestTimeout))

	// Credential endpoints get a stricter limit, counted per route
	users.Post("/register", perIPLimiter(cfg.AuthRateLimit), accountHandler.Register)
	users.Get("/verify/:token?", accountHandler.Verify)
	users.Post("/login", perIPLimiter(cfg.AuthRateLimit), accountHandler.Login)
	users.Post("/logout", accountHandler.Logout)
	users.Post("/forgot-password", perIPLimiter(cfg.AuthRateLimit), accountHandler.ForgotPassword)
	users.Post("/reset-password/:resetToken?", perIPLimiter(cfg.AuthRateLimit), accountHandler.ResetPassword)

	users.Get("/me", middleware.SessionRequired(issuer), accountHandler.Me)
}

func perIPLimiter(max int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               max,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
}
