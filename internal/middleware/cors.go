package middleware

import (
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/config"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORS allows credentialed requests from the configured origins so the
// session cookie travels with cross-origin calls. Wildcard origins cannot
// carry credentials.
func CORS(cfg *config.Config) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Authorization, Accept",
		AllowMethods:     "GET, POST, DELETE, OPTIONS",
		AllowCredentials: cfg.CORSOrigins != "*",
	})
}
