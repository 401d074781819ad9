package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/cake_shop/internal/domain"
	"github.com/Skotchmaster/cake_shop/internal/service"
	"github.com/Skotchmaster/cake_shop/internal/session"
	jwthelp "github.com/Skotchmaster/cake_shop/pkg/jwt"
	"github.com/Skotchmaster/cake_shop/pkg/logging"
	loggingmw "github.com/Skotchmaster/cake_shop/pkg/middleware/logging"
	"github.com/Skotchmaster/cake_shop/pkg/tokens"
)

const (
	tokenKey      = "user"
	resolutionKey = "session"
)

// Authenticate parses an access token from the Authorization header or the
// access cookie. Requests without a valid token continue anonymously.
func Authenticate(secret []byte) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  tokenKey,
		KeyFunc:     tokens.KeyFunc(secret),
		TokenLookup: "header:Authorization:Bearer ,cookie:" + jwthelp.AccessCookie,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(tokens.AccessClaims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return nil
		},
		ContinueOnIgnoredError: true,
	})
}

// AutoRefresh renews the cookie session in process when the access cookie is
// gone or expired but a refresh cookie is present. Bearer clients and the
// /auth routes manage their tokens themselves.
func AutoRefresh(secret []byte, auth *service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.Header.Get(echo.HeaderAuthorization) != "" || strings.Contains(c.Path(), "/auth/") {
				return next(c)
			}
			if ck, err := c.Cookie(jwthelp.AccessCookie); err == nil && ck.Value != "" {
				_, err := tokens.AccessClaimsFromToken(ck.Value, secret)
				if !errors.Is(err, jwt.ErrTokenExpired) {
					return next(c)
				}
			}
			refresh, err := c.Cookie(jwthelp.RefreshCookie)
			if err != nil || refresh.Value == "" {
				return next(c)
			}

			l := logging.FromContext(req.Context()).With("middleware", "auto_refresh")
			res, err := auth.Refresh(req.Context(), refresh.Value)
			if err != nil {
				l.Warn("auto_refresh_failed", "reason", "refresh rejected", "error", err)
				clearAuthCookies(c)
				return next(c)
			}

			setAuthCookies(c, res)
			replaceCookie(req, jwthelp.AccessCookie, res.AccessToken)
			l.Info("auto_refresh_success", "user_id", res.UserID.String())
			return next(c)
		}
	}
}

// replaceCookie rewrites the Cookie header so later middleware sees value.
func replaceCookie(req *http.Request, name, value string) {
	cookies := req.Cookies()
	req.Header.Del("Cookie")
	for _, ck := range cookies {
		if ck.Name != name {
			req.AddCookie(ck)
		}
	}
	req.AddCookie(&http.Cookie{Name: name, Value: value})
}

// ResolveSession runs the resolver once per request and stores the result.
func ResolveSession(r *session.Resolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			res := r.Resolve(ctx, deviceID(c), sessionFromToken(c))
			c.Set(resolutionKey, res)
			return next(c)
		}
	}
}

// RequireView rejects requests whose resolved session cannot reach v.
func RequireView(v domain.View) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			res := resolution(c)
			if res.CanReach(v) {
				return next(c)
			}
			l := logging.FromContext(c.Request().Context())
			if res.State == domain.StateUndecided {
				l.Warn("view_denied", "status", 401, "view", string(v), "reason", "session undecided")
				return echo.NewHTTPError(http.StatusUnauthorized, "sign in or continue as guest")
			}
			l.Warn("view_denied", "status", 403, "view", string(v), "role", string(res.Role))
			return echo.NewHTTPError(http.StatusForbidden, "not allowed")
		}
	}
}

func sessionFromToken(c echo.Context) *session.Session {
	tok, ok := c.Get(tokenKey).(*jwt.Token)
	if !ok || tok == nil || !tok.Valid {
		return nil
	}
	claims, ok := tok.Claims.(*tokens.AccessClaims)
	if !ok {
		return nil
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil
	}
	return &session.Session{UserID: id, Email: claims.Email}
}

func resolution(c echo.Context) session.Resolution {
	if res, ok := c.Get(resolutionKey).(session.Resolution); ok {
		return res
	}
	return session.Resolution{State: domain.StateUndecided, Views: domain.Views(domain.StateUndecided, "")}
}

func deviceID(c echo.Context) string {
	return c.Request().Header.Get(loggingmw.HeaderDeviceID)
}
