package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/taskly/taskly-api/internal/core/ports"
)

// Context keys set by Auth.
const (
	ContextUserID = "user_id"
	ContextEmail  = "email"
)

// Auth verifies the bearer token and injects the caller's identity into the
// context. A missing token, including a bare "Bearer" scheme, is 401; a
// malformed or invalid one is 403.
func Auth(tokens ports.TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := strings.TrimSpace(c.Request().Header.Get("Authorization"))
			scheme, token, _ := strings.Cut(authHeader, " ")
			token = strings.TrimSpace(token)

			if authHeader == "" || (strings.EqualFold(scheme, "bearer") && token == "") {
				return echo.NewHTTPError(http.StatusUnauthorized, "access token required")
			}
			if !strings.EqualFold(scheme, "bearer") {
				return echo.NewHTTPError(http.StatusForbidden, "invalid authorization header")
			}

			claims, err := tokens.Verify(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusForbidden, "invalid or expired token")
			}

			c.Set(ContextUserID, claims.UserID)
			c.Set(ContextEmail, claims.Email)

			return next(c)
		}
	}
}
