package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/cake_shop/internal/service"
	"github.com/Skotchmaster/cake_shop/internal/transport"
	jwthelp "github.com/Skotchmaster/cake_shop/pkg/jwt"
	"github.com/Skotchmaster/cake_shop/pkg/logging"
	"github.com/Skotchmaster/cake_shop/pkg/validate"
)

type AuthHTTP struct {
	Svc      *service.AuthService
	Profiles *service.ProfileService
}

// SignUp creates the account and stores the optional names in its profile.
func (h *AuthHTTP) SignUp(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.sign_up")

	var req transport.SignUpRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("sign_up_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	req.Normalize()
	if err := c.Validate(&req); err != nil {
		l.Warn("sign_up_error", "status", 400, "reason", "invalid form", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, validate.Message(err))
	}

	user, err := h.Svc.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrConflict):
			return echo.NewHTTPError(http.StatusConflict, "email already registered")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "sign up failed")
	}

	if h.Profiles != nil {
		if _, err := h.Profiles.UpsertProfile(ctx, user.ID, req.FirstName, req.LastName); err != nil {
			l.Warn("sign_up_profile_failed", "reason", "account created without names", "user_id", user.ID.String(), "error", err)
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{"id": user.ID, "email": user.Email})
}

func (h *AuthHTTP) SignIn(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.sign_in")

	var req transport.CredentialsRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("sign_in_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	req.Normalize()
	if err := c.Validate(&req); err != nil {
		l.Warn("sign_in_error", "status", 400, "reason", "invalid form", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, validate.Message(err))
	}

	res, err := h.Svc.SignIn(ctx, req.Email, req.Password, deviceID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrInvalidCredentials):
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "sign in failed")
	}

	setAuthCookies(c, res)
	return c.JSON(http.StatusOK, tokenResponse(res))
}

// Refresh reads the refresh token from its cookie, falling back to the body.
func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.refresh")

	raw := refreshToken(c)
	if raw == "" {
		l.Warn("refresh_failed", "status", 401, "reason", "refresh token missing")
		return echo.NewHTTPError(http.StatusUnauthorized, "refresh token missing")
	}

	res, err := h.Svc.Refresh(ctx, raw)
	if err != nil {
		clearAuthCookies(c)
		if errors.Is(err, service.ErrInvalidRefreshToken) {
			l.Warn("refresh_failed", "status", 401, "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
		}
		l.Error("refresh_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "refresh failed")
	}

	setAuthCookies(c, res)
	return c.JSON(http.StatusOK, tokenResponse(res))
}

func (h *AuthHTTP) SignOut(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.sign_out")

	err := h.Svc.SignOut(ctx, refreshToken(c), resolution(c).UserID, deviceID(c))
	clearAuthCookies(c)
	if err != nil {
		l.Error("sign_out_failed", "status", 500, "reason", "cannot revoke refresh token", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "sign out failed")
	}

	l.Info("sign_out_success")
	return c.JSON(http.StatusOK, echo.Map{"message": "signed out"})
}

func refreshToken(c echo.Context) string {
	if ck, err := c.Cookie(jwthelp.RefreshCookie); err == nil && ck.Value != "" {
		return ck.Value
	}
	var req transport.RefreshRequest
	if err := c.Bind(&req); err != nil {
		return ""
	}
	return req.RefreshToken
}

func setAuthCookies(c echo.Context, res *service.LoginResult) {
	c.SetCookie(jwthelp.CreateCookie(jwthelp.AccessCookie, res.AccessToken, "/", res.AccessExp))
	c.SetCookie(jwthelp.CreateCookie(jwthelp.RefreshCookie, res.RefreshToken, "/", res.RefreshExp))
}

func clearAuthCookies(c echo.Context) {
	c.SetCookie(jwthelp.DeleteCookie(jwthelp.AccessCookie, "/"))
	c.SetCookie(jwthelp.DeleteCookie(jwthelp.RefreshCookie, "/"))
}

func tokenResponse(res *service.LoginResult) transport.TokenResponse {
	return transport.TokenResponse{
		UserID:       res.UserID,
		Email:        res.Email,
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		AccessExp:    res.AccessExp.Unix(),
		RefreshExp:   res.RefreshExp.Unix(),
	}
}
