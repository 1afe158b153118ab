package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/outreach-drafter/internal/auth"
	"github.com/octobees/outreach-drafter/internal/dto"
	"github.com/octobees/outreach-drafter/internal/middleware"
	"github.com/octobees/outreach-drafter/internal/service"
)

// AuthHandler exposes authentication endpoints.
type AuthHandler struct {
	authService *service.AuthService
	jwt         *auth.JWTManager
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(authService *service.AuthService, jwtManager *auth.JWTManager) *AuthHandler {
	return &AuthHandler{authService: authService, jwt: jwtManager}
}

// Login handles POST /auth/login requests. The token is returned in the body
// and also set as the session cookie.
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	email := strings.TrimSpace(req.Identity())
	if email == "" || req.Password == "" {
		return Error(c, http.StatusBadRequest, "email and password are required")
	}

	token, err := h.authService.Login(c.Request().Context(), email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return Error(c, http.StatusUnauthorized, "invalid credentials")
		}
		return Error(c, http.StatusInternalServerError, "unable to authenticate")
	}

	maxAge := int(h.jwt.TTL().Seconds())
	c.SetCookie(&http.Cookie{
		Name:     middleware.CookieAccessToken,
		Value:    auth.BearerValue(token),
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return Success(c, http.StatusOK, "login successful", dto.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		Redirect:    "/search",
	})
}

// Logout handles GET /auth/logout by clearing the session cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.CookieAccessToken,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	return c.Redirect(http.StatusFound, "/login")
}
