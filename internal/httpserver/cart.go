package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/cake_shop/internal/cart"
	"github.com/Skotchmaster/cake_shop/internal/service"
	"github.com/Skotchmaster/cake_shop/internal/transport"
	"github.com/Skotchmaster/cake_shop/pkg/logging"
)

type CartHTTP struct {
	Carts   *cart.Registry
	Catalog *service.CatalogService
}

var errDeviceRequired = echo.NewHTTPError(http.StatusBadRequest, "X-Device-ID header required")

// cartOwner picks the signed-in user's cart, else the device cart.
func cartOwner(c echo.Context) (string, bool) {
	if res := resolution(c); res.UserID != nil {
		return cart.UserOwner(*res.UserID), true
	}
	if dev := deviceID(c); dev != "" {
		return cart.DeviceOwner(dev), true
	}
	return "", false
}

func (h *CartHTTP) store(c echo.Context) (*cart.Store, error) {
	owner, ok := cartOwner(c)
	if !ok {
		return nil, errDeviceRequired
	}
	return h.Carts.For(owner), nil
}

func (h *CartHTTP) Get(c echo.Context) error {
	s, err := h.store(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.NewCartResponse(s))
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_item")

	s, err := h.store(c)
	if err != nil {
		return err
	}

	var req transport.AddToCartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_item_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	cake, err := h.Catalog.GetCake(ctx, req.CakeID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("add_item_failed", "status", 404, "reason", "cake not available", "cake_id", req.CakeID.String())
			return echo.NewHTTPError(http.StatusNotFound, "cake not available")
		}
		l.Error("add_item_failed", "status", 500, "reason", "cannot load cake", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load cake")
	}

	if !cake.Purchasable() {
		l.Warn("add_item_failed", "status", 409, "reason", "cake has no price", "cake_id", cake.ID.String())
		return echo.NewHTTPError(http.StatusConflict, "cake cannot be ordered right now")
	}

	item := cart.Item{CakeID: cake.ID, CakeName: cake.Name}
	if cake.IsBento {
		item.Key = cart.BentoKey(cake.ID)
		item.UnitPriceRSD = cake.BasePriceRSD
	} else {
		if req.VariantID == nil {
			l.Warn("add_item_failed", "status", 400, "reason", "size not chosen")
			return echo.NewHTTPError(http.StatusBadRequest, "choose a size")
		}
		v, ok := cake.Variant(*req.VariantID)
		if !ok {
			l.Warn("add_item_failed", "status", 404, "reason", "size not available", "variant_id", req.VariantID.String())
			return echo.NewHTTPError(http.StatusNotFound, "size not available")
		}
		vid, label := v.ID, v.SizeName
		item.Key = cart.VariantKey(cake.ID, v.ID)
		item.VariantID = &vid
		item.SizeLabel = &label
		item.UnitPriceRSD = v.PriceRSD
	}

	added := s.AddItem(item)
	l.Info("add_item_success", "key", added.Key, "qty", added.Qty)
	return c.JSON(http.StatusOK, transport.NewCartResponse(s))
}

func (h *CartHTTP) SetQty(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.set_qty")

	s, err := h.store(c)
	if err != nil {
		return err
	}
	var req transport.SetQtyRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("set_qty_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if !s.SetQty(c.Param("key"), req.Qty) {
		l.Warn("set_qty_failed", "status", 404, "reason", "no such line")
		return echo.NewHTTPError(http.StatusNotFound, "item not in cart")
	}
	return c.JSON(http.StatusOK, transport.NewCartResponse(s))
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	s, err := h.store(c)
	if err != nil {
		return err
	}
	s.RemoveItem(c.Param("key"))
	return c.JSON(http.StatusOK, transport.NewCartResponse(s))
}

func (h *CartHTTP) Clear(c echo.Context) error {
	s, err := h.store(c)
	if err != nil {
		return err
	}
	s.Clear()
	return c.NoContent(http.StatusNoContent)
}
