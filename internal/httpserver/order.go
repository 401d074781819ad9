package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/cake_shop/internal/cart"
	"github.com/Skotchmaster/cake_shop/internal/service"
	"github.com/Skotchmaster/cake_shop/internal/transport"
	"github.com/Skotchmaster/cake_shop/pkg/logging"
	"github.com/Skotchmaster/cake_shop/pkg/validate"
)

type OrderHTTP struct {
	Svc   *service.OrderService
	Carts *cart.Registry
}

// Checkout turns the caller's cart into an order. On success only the ordered
// lines leave the cart, so items added while the order was being written stay.
func (h *OrderHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.checkout")

	owner, ok := cartOwner(c)
	if !ok {
		return errDeviceRequired
	}

	var req transport.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("checkout_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	req.Normalize()
	if err := c.Validate(&req); err != nil {
		msg := validate.Message(err)
		l.Warn("checkout_failed", "status", 400, "reason", msg)
		return echo.NewHTTPError(http.StatusBadRequest, msg)
	}

	store := h.Carts.For(owner)
	items := store.Items()
	if len(items) == 0 {
		l.Warn("checkout_failed", "status", 400, "reason", "cart is empty")
		return echo.NewHTTPError(http.StatusBadRequest, "your cart is empty")
	}

	res := resolution(c)
	id, err := h.Svc.CreateOrder(ctx, req.ToInput(res.UserID, items))
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("checkout_failed", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		l.Error("checkout_failed", "status", 500, "reason", "cannot create order", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to place order, please try again")
	}

	store.RemoveLines(items)
	l.Info("checkout_success", "order_id", id.String(), "items", len(items))
	return c.JSON(http.StatusCreated, transport.CheckoutResponse{
		OrderID:  id,
		TotalRSD: cart.Total(items),
	})
}
