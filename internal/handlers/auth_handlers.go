package handlers

import (
	"errors"
	"net/http"
	"time"

	"stocksense/internal/common"
	"stocksense/internal/repositories"
	"stocksense/internal/services"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// AuthHandlers handles Google sign-in and session management
type AuthHandlers struct {
	authService services.AuthServiceInterface
}

func NewAuthHandlers(authService services.AuthServiceInterface) *AuthHandlers {
	return &AuthHandlers{authService: authService}
}

// LoginWithGoogle handles POST /auth/google. The client sends the
// Google-issued ID token and gets back a session token.
func (h *AuthHandlers) LoginWithGoogle(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		IDToken string `json:"id_token"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.IDToken == "" {
		return common.SendValidationError(c, "id_token", "is required")
	}

	session, user, err := h.authService.LoginWithGoogle(ctx, req.IDToken)
	if err != nil {
		if errors.Is(err, services.ErrInvalidIDToken) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Google ID token")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Login failed")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"token": session,
		"user":  user,
	})
}

// Me handles GET /me
func (h *AuthHandlers) Me(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	user, err := h.authService.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendNotFoundError(c, "user")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, user)
}

// Logout handles POST /auth/logout. The session's jti is revoked until
// the token would have expired anyway.
func (h *AuthHandlers) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	jti, _ := claims["jti"].(string)
	if jti == "" {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"message": "Logged out",
		})
	}

	expiresAt := time.Now()
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		expiresAt = exp.Time
	}

	if err := h.authService.Logout(ctx, jti, expiresAt); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Logout failed")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Logged out",
	})
}
