// Package middleware provides HTTP middleware for the posts API.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/welldanyogia/webrana-posts-backend/internal/auth"
	"github.com/welldanyogia/webrana-posts-backend/internal/logger"
	"github.com/welldanyogia/webrana-posts-backend/internal/metrics"
	"github.com/welldanyogia/webrana-posts-backend/internal/models"
)

// UserContextKey is the echo context key holding the authenticated user
const UserContextKey = "auth.user"

// TokenQueryParam is accepted when the Authorization header cannot be set,
// e.g. by browser WebSocket clients.
const TokenQueryParam = "api_token"

// Auth failure reasons recorded in metrics and the security log
const (
	ReasonMissingToken = "missing_token"
	ReasonInvalidToken = "invalid_token"
	ReasonExpiredToken = "expired_token"
	ReasonUnknownUser  = "unknown_user"
)

// TokenParser verifies a bearer token and returns its claims
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// UserFinder loads the user a token was issued to
type UserFinder interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
}

// BearerAuth rejects requests without a valid bearer token with 401.
// On success the token's user is stored under UserContextKey.
func BearerAuth(tokens TokenParser, users UserFinder, sec *logger.SecurityLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c.Request())
			if token == "" {
				return reject(c, sec, ReasonMissingToken)
			}

			claims, err := tokens.Parse(token)
			if err != nil {
				if errors.Is(err, auth.ErrExpiredToken) {
					return reject(c, sec, ReasonExpiredToken)
				}
				return reject(c, sec, ReasonInvalidToken)
			}

			userID, err := claims.UserID()
			if err != nil {
				return reject(c, sec, ReasonInvalidToken)
			}

			user, err := users.GetByID(c.Request().Context(), userID)
			if err != nil {
				return reject(c, sec, ReasonUnknownUser)
			}

			c.Set(UserContextKey, user)
			return next(c)
		}
	}
}

// UserFromContext returns the authenticated user, or nil outside BearerAuth
func UserFromContext(c echo.Context) *models.User {
	user, _ := c.Get(UserContextKey).(*models.User)
	return user
}

func extractToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get(echo.HeaderAuthorization))
	if header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			return ""
		}
		return strings.TrimSpace(token)
	}
	return strings.TrimSpace(r.URL.Query().Get(TokenQueryParam))
}

func reject(c echo.Context, sec *logger.SecurityLogger, reason string) error {
	metrics.RecordAuthFailure(reason)
	if sec != nil {
		sec.AuthFailure(c.RealIP(), c.Request().URL.Path, reason)
	}
	return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
}
