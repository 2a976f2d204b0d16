package handlers

import (
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/welldanyogia/webrana-posts-backend/internal/api/response"
	"github.com/welldanyogia/webrana-posts-backend/internal/auth"
	apperrors "github.com/welldanyogia/webrana-posts-backend/internal/errors"
	"github.com/welldanyogia/webrana-posts-backend/internal/logger"
	"github.com/welldanyogia/webrana-posts-backend/internal/metrics"
	"github.com/welldanyogia/webrana-posts-backend/internal/repository"
	"github.com/welldanyogia/webrana-posts-backend/internal/validator"
)

const reasonInvalidCredentials = "invalid_credentials"

// TokenIssuer signs API tokens for a user
type TokenIssuer interface {
	Issue(userID uint) (*auth.IssuedToken, error)
}

// AuthHandler exchanges email/password credentials for a bearer token
type AuthHandler struct {
	users     repository.UserRepository
	tokens    TokenIssuer
	hasher    auth.PasswordHasher
	validator *validator.Validator
	security  *logger.SecurityLogger

	// dummyHash is compared against when the email is unknown so both
	// failure paths cost one bcrypt comparison.
	dummyOnce sync.Once
	dummyHash string
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(users repository.UserRepository, tokens TokenIssuer, hasher auth.PasswordHasher, v *validator.Validator, sec *logger.SecurityLogger) *AuthHandler {
	if v == nil {
		v = validator.New()
	}
	if hasher == nil {
		hasher = auth.NewBcryptHasher()
	}
	return &AuthHandler{
		users:     users,
		tokens:    tokens,
		hasher:    hasher,
		validator: v,
		security:  sec,
	}
}

// TokenRequest represents the request body for POST /api/auth/token
type TokenRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse is returned on a successful credential exchange
type TokenResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Token handles POST /api/auth/token
func (h *AuthHandler) Token(c echo.Context) error {
	var req TokenRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	req.Email = strings.ToLower(validator.SanitizeString(req.Email))

	if err := h.validator.Validate(&req); err != nil {
		if vErr := apperrors.GetValidationError(err); vErr != nil {
			return response.ValidationFailed(c, vErr)
		}
		return response.BadRequest(c, "invalid request body")
	}

	ctx := c.Request().Context()
	user, err := h.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return response.InternalError(c, "failed to authenticate")
		}
		_ = h.hasher.Compare(h.placeholderHash(), req.Password)
		return h.rejectCredentials(c, "unknown email")
	}

	if err := h.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return h.rejectCredentials(c, "password mismatch")
	}

	issued, err := h.tokens.Issue(user.ID)
	if err != nil {
		if h.security != nil {
			h.security.GetLogger().Error("failed to issue token", slog.Any("error", err))
		}
		return response.InternalError(c, "failed to issue token")
	}

	return response.OK(c, TokenResponse{
		Token:     issued.Token,
		TokenType: "Bearer",
		ExpiresAt: issued.ExpiresAt,
	})
}

func (h *AuthHandler) rejectCredentials(c echo.Context, reason string) error {
	metrics.RecordAuthFailure(reasonInvalidCredentials)
	if h.security != nil {
		h.security.LoginFailure(c.RealIP(), reason)
	}
	return response.Unauthorized(c, apperrors.ErrInvalidCredentials.Error())
}

func (h *AuthHandler) placeholderHash() string {
	h.dummyOnce.Do(func() {
		hash, err := h.hasher.Hash("placeholder-password")
		if err == nil {
			h.dummyHash = hash
		}
	})
	return h.dummyHash
}
