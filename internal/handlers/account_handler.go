package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/session"
	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// AccountService is the subset of *services.AccountService the handlers call.
type AccountService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) error
	Verify(ctx context.Context, token string) error
	Login(ctx context.Context, req *dto.LoginRequest) (*services.LoginResult, error)
	Profile(ctx context.Context, userID uuid.UUID) (*dto.ProfileUser, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
}

type AccountHandler struct {
	accounts     AccountService
	secureCookie bool
}

func NewAccountHandler(accounts AccountService, secureCookie bool) *AccountHandler {
	return &AccountHandler{accounts: accounts, secureCookie: secureCookie}
}

func (h *AccountHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	if err := h.accounts.Register(c.UserContext(), &req); err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.MessageResponse{
		Success: true, Message: "User registered successfully.",
	})
}

func (h *AccountHandler) Verify(c *fiber.Ctx) error {
	if err := h.accounts.Verify(c.UserContext(), c.Params("token")); err != nil {
		return writeError(c, err)
	}

	return c.JSON(dto.MessageResponse{
		Success: true, Message: "Verification successful. You can now log in.",
	})
}

func (h *AccountHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	res, err := h.accounts.Login(c.UserContext(), &req)
	if err != nil {
		return writeError(c, err)
	}

	c.Cookie(h.sessionCookie(res.Token, res.ExpiresAt))
	return c.JSON(dto.LoginResponse{
		Success: true,
		Message: "User logged in successfully",
		Token:   res.Token,
		User:    res.User,
	})
}

func (h *AccountHandler) Me(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.NewError("unauthenticated", "Authentication failed. No token provided."))
	}

	user, err := h.accounts.Profile(c.UserContext(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(dto.ProfileResponse{
		Success: true,
		Message: "User profile retrieved successfully",
		User:    *user,
	})
}

func (h *AccountHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(h.sessionCookie("", time.Unix(0, 0)))
	return c.JSON(dto.MessageResponse{Success: true, Message: "Logged out successfully"})
}

func (h *AccountHandler) ForgotPassword(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	if err := h.accounts.ForgotPassword(c.UserContext(), req.Email); err != nil {
		return writeError(c, err)
	}

	return c.JSON(dto.MessageResponse{Success: true, Message: "Password reset email sent successfully"})
}

func (h *AccountHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	if err := h.accounts.ResetPassword(c.UserContext(), c.Params("resetToken"), req.Password); err != nil {
		return writeError(c, err)
	}

	return c.JSON(dto.MessageResponse{Success: true, Message: "Password reset successfully"})
}

// sessionCookie builds the session cookie; an empty value with a past expiry
// clears it.
func (h *AccountHandler) sessionCookie(value string, expires time.Time) *fiber.Cookie {
	maxAge := int(time.Until(expires).Seconds())
	if value == "" || maxAge <= 0 {
		maxAge = -1
	}
	return &fiber.Cookie{
		Name:     session.CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		MaxAge:   maxAge,
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}

var statusByKind = map[services.Kind]int{
	services.KindValidation:       fiber.StatusBadRequest,
	services.KindConflict:         fiber.StatusConflict,
	services.KindNotFound:         fiber.StatusNotFound,
	services.KindAuth:             fiber.StatusUnauthorized,
	services.KindInvalidOrExpired: fiber.StatusBadRequest,
	services.KindInternal:         fiber.StatusInternalServerError,
}

func writeError(c *fiber.Ctx, err error) error {
	kind := services.KindOf(err)
	if kind == services.KindInternal {
		slog.Error("request failed",
			"method", c.Method(),
			"path", c.Route().Path,
			"request_id", requestID(c),
			"error", err.Error(),
		)
		if hub := sentryfiber.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		} else {
			sentry.CaptureException(err)
		}
	}
	return c.Status(statusByKind[kind]).JSON(dto.NewError(kind.Code(), services.PublicMessage(err)))
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.NewError(services.KindValidation.Code(), "Invalid request body"))
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}
