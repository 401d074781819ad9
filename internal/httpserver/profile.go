package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/cake_shop/internal/service"
	"github.com/Skotchmaster/cake_shop/internal/transport"
	"github.com/Skotchmaster/cake_shop/pkg/logging"
	"github.com/Skotchmaster/cake_shop/pkg/validate"
)

type ProfileHTTP struct {
	Svc *service.ProfileService
}

func (h *ProfileHTTP) Get(c echo.Context) error {
	res := resolution(c)
	if res.UserID == nil {
		return c.JSON(http.StatusOK, echo.Map{"role": res.Role, "state": res.State})
	}
	p := h.Svc.GetProfile(c.Request().Context(), *res.UserID)
	return c.JSON(http.StatusOK, echo.Map{
		"id":         p.ID,
		"email":      res.Email,
		"role":       p.Role,
		"first_name": p.FirstName,
		"last_name":  p.LastName,
		"state":      res.State,
	})
}

func (h *ProfileHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "profile.update")

	res := resolution(c)
	if res.UserID == nil {
		l.Warn("update_profile_failed", "status", 401, "reason", "not signed in")
		return echo.NewHTTPError(http.StatusUnauthorized, "sign in to edit your profile")
	}

	var req transport.ProfileRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_profile_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("update_profile_failed", "status", 400, "reason", "invalid form", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, validate.Message(err))
	}

	p, err := h.Svc.UpsertProfile(ctx, *res.UserID, req.FirstName, req.LastName)
	if err != nil {
		l.Error("update_profile_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot save profile")
	}
	return c.JSON(http.StatusOK, p)
}
