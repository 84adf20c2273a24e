package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gigboard/marketplace/internal/api/middleware"
	"github.com/gigboard/marketplace/internal/core/domain"
	"github.com/gigboard/marketplace/internal/core/ports"
	"github.com/gigboard/marketplace/internal/metrics"
)

type AuthHandler struct {
	authService ports.AuthService
	sessions    ports.SessionService
	cookie      middleware.SessionCookie
}

func NewAuthHandler(authService ports.AuthService, sessions ports.SessionService, cookie middleware.SessionCookie) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions, cookie: cookie}
}

// Register creates a new user account and signs it in.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), domain.Registration{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	metrics.UsersRegisteredTotal.WithLabelValues(user.Role).Inc()

	return h.startSession(c, http.StatusCreated, user)
}

// Login authenticates a user and starts a session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return h.startSession(c, http.StatusOK, user)
}

// Logout ends the current session, if any.
//
// @Summary      Logout
// @Tags         auth
// @Success      204
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if token := h.cookie.Token(c); token != "" {
		if err := h.sessions.End(c.Request().Context(), token); err != nil {
			return err
		}
	}
	h.cookie.Clear(c)
	return c.NoContent(http.StatusNoContent)
}

// Me returns the signed-in user.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     SessionAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  errorResponse
// @Router       /me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) startSession(c echo.Context, status int, user *domain.User) error {
	token, err := h.sessions.Start(c.Request().Context(), user)
	if err != nil {
		return err
	}
	h.cookie.Set(c, token)
	return c.JSON(status, sessionResponse{Token: token, User: user})
}
