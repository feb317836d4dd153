package middleware

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/session"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenLocal  = "session_token"
	userIDLocal = "user_id"
)

// SessionRequired verifies the session cookie and stores the user id for
// downstream handlers. Decoded claims are never logged.
func SessionRequired(issuer *session.Issuer) fiber.Handler {
	return jwtware.New(jwtware.Config{
		KeyFunc:     issuer.Keyfunc,
		Claims:      session.NewClaims(),
		TokenLookup: "cookie:" + session.CookieName,
		ContextKey:  tokenLocal,
		SuccessHandler: func(c *fiber.Ctx) error {
			token, _ := c.Locals(tokenLocal).(*jwt.Token)
			id, err := session.UserID(token)
			if err != nil {
				return sessionError(c, err)
			}
			c.Locals(userIDLocal, id)
			return c.Next()
		},
		ErrorHandler: sessionError,
	})
}

// UserID returns the authenticated user id set by SessionRequired.
func UserID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(userIDLocal).(uuid.UUID)
	return id, ok
}

func sessionError(c *fiber.Ctx, err error) error {
	if errors.Is(err, jwtware.ErrJWTMissingOrMalformed) {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.NewError("unauthenticated", "Authentication failed. No token provided."))
	}

	switch classified := session.Classify(err); {
	case errors.Is(classified, session.ErrTokenExpired):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.NewError("token_expired", "Token expired"))
	case errors.Is(classified, session.ErrTokenInvalid):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.NewError("invalid_token", "Invalid token"))
	}

	slog.Error("session verification failed", "path", c.Route().Path, "error", err.Error())
	return c.Status(fiber.StatusInternalServerError).JSON(dto.NewError("internal_error", "Internal server error"))
}
