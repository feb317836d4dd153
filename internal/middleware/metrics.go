package middleware

import (
	"strconv"
	"time"

	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/metrics"
	"github.com/gofiber/fiber/v2"
)

// Metrics records request counts and latency labelled by route pattern, so
// tokens embedded in paths never become label values.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		route := c.Route().Path
		metrics.HTTPRequestsTotal.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDurationSeconds.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}
