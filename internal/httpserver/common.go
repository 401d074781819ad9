package httpserver

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	loggingmw "github.com/Skotchmaster/cake_shop/pkg/middleware/logging"
)

// Common is the middleware chain every server instance runs before routing.
func Common(l *slog.Logger) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{
		echomw.Recover(),
		echomw.RequestID(),
		loggingmw.RequestLogger(l),
		echomw.Secure(),
		echomw.CORSWithConfig(echomw.CORSConfig{
			AllowHeaders: []string{
				echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept,
				echo.HeaderAuthorization, loggingmw.HeaderDeviceID, "X-CSRF-Token",
			},
			AllowCredentials: true,
		}),
	}
}
