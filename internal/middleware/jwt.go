package middleware

import (
	"net/http"

	"stocksense/internal/caching"
	"stocksense/internal/common"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

// SessionConfig builds the echo-jwt config that validates session tokens
// on protected routes.
func SessionConfig(jwtSecret string) echojwt.Config {
	return echojwt.Config{
		SigningKey:    []byte(jwtSecret),
		SigningMethod: "HS256",
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
		},
	}
}

// SessionContext runs after echo-jwt validation. It rejects revoked
// sessions and stores the caller's identity on the request context.
func SessionContext(cache caching.CacheService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing token")
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid claims")
			}

			sub, ok := claims["sub"].(string)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing subject in token")
			}
			userID, err := uuid.Parse(sub)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid subject format")
			}

			role, _ := claims["role"].(string)

			if jti, ok := claims["jti"].(string); ok && jti != "" {
				revoked, err := cache.IsSessionRevoked(c.Request().Context(), jti)
				if err != nil {
					c.Logger().Errorf("session revocation check failed: %v", err)
				} else if revoked {
					return echo.NewHTTPError(http.StatusUnauthorized, "Token revoked")
				}
			}

			ctx := common.WithUser(c.Request().Context(), userID, role)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
