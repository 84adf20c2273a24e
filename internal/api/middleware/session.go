package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gigboard/marketplace/internal/core/domain"
	"github.com/gigboard/marketplace/internal/core/ports"
)

const (
	userKey           = "user"
	sessionExpiredKey = "session_expired"
)

// HeaderSessionExpired is set on responses to requests that carried a stale
// session token.
const HeaderSessionExpired = "X-Session-Expired"

// SessionCookie describes the cookie that carries the session token.
type SessionCookie struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

// Set writes token to the response as an HttpOnly cookie.
func (sc SessionCookie) Set(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     sc.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sc.TTL.Seconds()),
		HttpOnly: true,
		Secure:   sc.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear expires the session cookie on the client.
func (sc SessionCookie) Clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     sc.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   sc.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Token returns the session token from the Authorization header, falling
// back to the session cookie.
func (sc SessionCookie) Token(c echo.Context) string {
	if header := c.Request().Header.Get(echo.HeaderAuthorization); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if cookie, err := c.Cookie(sc.Name); err == nil {
		return cookie.Value
	}
	return ""
}

// Session resolves the request's session token to the acting user and
// stores it in the context. Requests without a token pass through as
// anonymous. A stale session is cleared and the request continues anonymous
// with the expiry recorded, so routes that need a user answer
// domain.ErrSessionExpired.
func Session(sessions ports.SessionService, cookie SessionCookie, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := cookie.Token(c)
			if token == "" {
				return next(c)
			}

			user, err := sessions.Resolve(c.Request().Context(), token)
			switch {
			case err == nil:
				c.Set(userKey, user)
			case errors.Is(err, domain.ErrSessionExpired):
				log.Debug().Str("path", c.Path()).Msg("stale session cleared")
				cookie.Clear(c)
				c.Set(sessionExpiredKey, true)
				c.Response().Header().Set(HeaderSessionExpired, "true")
			default:
				return err
			}
			return next(c)
		}
	}
}

// CurrentUser returns the user resolved by Session, or nil for anonymous
// requests.
func CurrentUser(c echo.Context) *domain.User {
	user, _ := c.Get(userKey).(*domain.User)
	return user
}

// SetCurrentUser stores user as the acting user of the request.
func SetCurrentUser(c echo.Context, user *domain.User) {
	c.Set(userKey, user)
}

// SessionExpired reports whether the request carried a session that had
// expired or no longer names a user.
func SessionExpired(c echo.Context) bool {
	expired, _ := c.Get(sessionExpiredKey).(bool)
	return expired
}

func anonymousErr(c echo.Context) error {
	if SessionExpired(c) {
		return domain.ErrSessionExpired
	}
	return domain.ErrUnauthenticated
}

// RequireUser rejects anonymous requests.
func RequireUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if CurrentUser(c) == nil {
				return anonymousErr(c)
			}
			return next(c)
		}
	}
}
