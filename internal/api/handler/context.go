package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gigboard/marketplace/internal/api/middleware"
	"github.com/gigboard/marketplace/internal/core/domain"
)

// actor returns the signed-in user, failing fast for anonymous requests
// before any service call.
func actor(c echo.Context) (*domain.User, error) {
	user := middleware.CurrentUser(c)
	if user == nil {
		if middleware.SessionExpired(c) {
			return nil, domain.ErrSessionExpired
		}
		return nil, domain.ErrUnauthenticated
	}
	return user, nil
}

// bindAndValidate decodes the request body into req and runs the
// registered validator over it.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}
