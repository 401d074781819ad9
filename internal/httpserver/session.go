package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/cake_shop/internal/session"
	"github.com/Skotchmaster/cake_shop/pkg/logging"
)

type SessionHTTP struct {
	Resolver *session.Resolver
}

func (h *SessionHTTP) Get(c echo.Context) error {
	return c.JSON(http.StatusOK, resolution(c))
}

// ChooseGuest persists guest mode for the calling device and returns the new resolution.
func (h *SessionHTTP) ChooseGuest(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "session.choose_guest")

	device := deviceID(c)
	if err := h.Resolver.ChooseGuest(ctx, device); err != nil {
		if errors.Is(err, session.ErrNoDevice) {
			l.Warn("choose_guest_failed", "status", 400, "reason", "no device id")
			return errDeviceRequired
		}
		l.Error("choose_guest_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot save guest mode")
	}

	res := h.Resolver.Resolve(ctx, device, sessionFromToken(c))
	return c.JSON(http.StatusOK, res)
}
