package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/mailer"
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/store"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// bcrypt only reads the first 72 bytes of a password.
const maxPasswordBytes = 72

const (
	VerifyPath        = "/api/v1/users/verify/"
	ResetPasswordPath = "/api/v1/users/reset-password/"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*models.User, error)
	ConsumeVerificationToken(ctx context.Context, token string) (bool, error)
	SetPasswordReset(ctx context.Context, userID uuid.UUID, token string, expires time.Time) error
	ConsumePasswordReset(ctx context.Context, token, passwordHash string, now time.Time) (bool, error)
}

type Mailer interface {
	Send(ctx context.Context, msg mailer.Message) error
}

type SessionIssuer interface {
	Issue(userID uuid.UUID) (string, time.Time, error)
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      dto.SessionUser
}

type AccountService struct {
	users    UserRepository
	mail     Mailer
	sessions SessionIssuer
	cfg      *config.Config
	now      func() time.Time
}

func NewAccountService(users UserRepository, mail Mailer, sessions SessionIssuer, cfg *config.Config) *AccountService {
	return &AccountService{
		users:    users,
		mail:     mail,
		sessions: sessions,
		cfg:      cfg,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *AccountService) Register(ctx context.Context, req *dto.RegisterRequest) (err error) {
	defer observe("register", &err)

	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	phone := strings.TrimSpace(req.Phone)
	if name == "" || email == "" || req.Password == "" || phone == "" {
		return ErrMissingFields
	}

	if len(req.Password) > maxPasswordBytes {
		return ErrPasswordTooLong
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, store.ErrRecordNotFound) {
		return internalError("lookup user", err)
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return err
	}

	token, err := newOpaqueToken()
	if err != nil {
		return internalError("verification token", err)
	}

	user := models.User{
		Name:              name,
		Email:             email,
		Phone:             phone,
		Password:          hash,
		VerificationToken: &token,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return ErrEmailTaken
		}
		return internalError("create user", err)
	}

	// Delivery is best effort: the account exists either way.
	if err := s.sendVerification(ctx, &user, token); err != nil {
		slog.Error("verification email failed", "action", "register", "user_id", user.ID.String(), "error", err)
	}

	slog.Info("user registered", "action", "register", "user_id", user.ID.String())
	return nil
}

func (s *AccountService) Verify(ctx context.Context, token string) (err error) {
	defer observe("verify", &err)

	if token == "" {
		return ErrMissingToken
	}

	ok, err := s.users.ConsumeVerificationToken(ctx, token)
	if err != nil {
		return internalError("consume verification token", err)
	}
	if !ok {
		return ErrVerificationUnknown
	}
	return nil
}

func (s *AccountService) Login(ctx context.Context, req *dto.LoginRequest) (_ *LoginResult, err error) {
	defer observe("login", &err)

	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return nil, ErrMissingCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, internalError("lookup user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidPassword
		}
		return nil, internalError("compare password", err)
	}

	if !user.IsVerified {
		return nil, ErrNotVerified
	}

	token, expiresAt, err := s.sessions.Issue(user.ID)
	if err != nil {
		return nil, internalError("issue session", err)
	}

	slog.Info("user logged in", "action", "login", "user_id", user.ID.String())
	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		User: dto.SessionUser{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
		},
	}, nil
}

func (s *AccountService) Profile(ctx context.Context, userID uuid.UUID) (*dto.ProfileUser, error) {
	user, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, internalError("load profile", err)
	}
	return &dto.ProfileUser{
		ID:         user.ID,
		Name:       user.Name,
		Phone:      user.Phone,
		Email:      user.Email,
		Role:       user.Role,
		IsVerified: user.IsVerified,
		CreatedAt:  user.CreatedAt,
		UpdatedAt:  user.UpdatedAt,
	}, nil
}

func (s *AccountService) ForgotPassword(ctx context.Context, email string) (err error) {
	defer observe("forgot_password", &err)

	email = strings.TrimSpace(email)
	if email == "" {
		return ErrEmailRequired
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return internalError("lookup user", err)
	}

	token, err := newOpaqueToken()
	if err != nil {
		return internalError("reset token", err)
	}

	if err := s.users.SetPasswordReset(ctx, user.ID, token, s.now().Add(s.cfg.ResetTokenTTL)); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return internalError("store reset token", err)
	}

	// Unlike registration, the caller has nothing to show for a reset that
	// never arrives, so delivery failure fails the request.
	if err := s.sendPasswordReset(ctx, user, token); err != nil {
		return internalError("send reset email", err)
	}

	slog.Info("password reset requested", "action", "forgot_password", "user_id", user.ID.String())
	return nil
}

func (s *AccountService) ResetPassword(ctx context.Context, token, password string) (err error) {
	defer observe("reset_password", &err)

	if token == "" || password == "" {
		return ErrMissingResetInput
	}

	if len(password) > maxPasswordBytes {
		return ErrPasswordTooLong
	}

	hash, err := s.hashPassword(password)
	if err != nil {
		return err
	}

	ok, err := s.users.ConsumePasswordReset(ctx, token, hash, s.now())
	if err != nil {
		return internalError("consume reset token", err)
	}
	if !ok {
		return ErrInvalidResetToken
	}
	return nil
}

func (s *AccountService) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrPasswordTooLong
	}
	if err != nil {
		return "", internalError("hash password", err)
	}
	return string(hash), nil
}

func (s *AccountService) sendVerification(ctx context.Context, user *models.User, token string) (err error) {
	defer observeEmail("verification", &err)

	msg, err := mailer.VerificationEmail(user.Email, user.Name, s.cfg.BaseURL+VerifyPath+token)
	if err != nil {
		return err
	}
	return s.mail.Send(ctx, msg)
}

func (s *AccountService) sendPasswordReset(ctx context.Context, user *models.User, token string) (err error) {
	defer observeEmail("password_reset", &err)

	minutes := int(s.cfg.ResetTokenTTL / time.Minute)
	msg, err := mailer.PasswordResetEmail(user.Email, user.Name, s.cfg.BaseURL+ResetPasswordPath+token, minutes)
	if err != nil {
		return err
	}
	return s.mail.Send(ctx, msg)
}

func observe(event string, err *error) {
	result := "success"
	if *err != nil {
		result = KindOf(*err).Code()
	}
	metrics.AccountEventsTotal.WithLabelValues(event, result).Inc()
}

func observeEmail(kind string, err *error) {
	result := "success"
	if *err != nil {
		result = "failure"
	}
	metrics.EmailsSentTotal.WithLabelValues(kind, result).Inc()
}
