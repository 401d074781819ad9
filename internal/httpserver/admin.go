package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/cake_shop/internal/service"
	"github.com/Skotchmaster/cake_shop/internal/transport"
	"github.com/Skotchmaster/cake_shop/pkg/logging"
	"github.com/Skotchmaster/cake_shop/pkg/validate"
)

type AdminHTTP struct {
	Catalog *service.CatalogAdminService
	Orders  *service.OrderService
}

func (h *AdminHTTP) ListCakes(c echo.Context) error {
	ctx := c.Request().Context()
	cakes, err := h.Catalog.ListAllCakes(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("admin_list_cakes_failed", "handler", "admin.list_cakes", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load cakes")
	}
	return c.JSON(http.StatusOK, echo.Map{"data": cakes})
}

func (h *AdminHTTP) CreateCake(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.create_cake")

	var req transport.CakeRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_cake_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	req.Normalize()
	if err := c.Validate(&req); err != nil {
		l.Warn("create_cake_failed", "status", 400, "reason", "invalid form", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, validate.Message(err))
	}
	if err := req.Validate(); err != nil {
		l.Warn("create_cake_failed", "status", 400, "reason", err.Error())
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	id, err := h.Catalog.CreateCake(ctx, req.ToInput())
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("create_cake_failed", "status", 400, "reason", "invalid cake", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		l.Error("create_cake_failed", "status", 500, "reason", "cannot save cake", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	l.Info("create_cake_success", "cake_id", id.String())
	return c.JSON(http.StatusCreated, transport.CreatedResponse{ID: id})
}

func (h *AdminHTTP) PatchCake(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.patch_cake")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("patch_cake_failed", "status", 400, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	var req transport.PatchCakeRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("patch_cake_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := h.checkMerged(c, l, "patch_cake_failed", id, req); err != nil {
		return err
	}

	if err := h.Catalog.UpdateCake(ctx, id, req.ToPatch()); err != nil {
		return catalogWriteError(l, "patch_cake_failed", err)
	}

	l.Info("patch_cake_success", "cake_id", id.String())
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHTTP) DeleteCake(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.delete_cake")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("delete_cake_failed", "status", 400, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}
	if err := h.Catalog.DeleteCake(ctx, id); err != nil {
		return catalogWriteError(l, "delete_cake_failed", err)
	}

	l.Info("delete_cake_success", "cake_id", id.String())
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHTTP) ListVariants(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}
	vs, err := h.Catalog.ListCakeVariants(ctx, id)
	if err != nil {
		logging.FromContext(ctx).Error("list_variants_failed", "handler", "admin.list_variants", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load variants")
	}
	return c.JSON(http.StatusOK, echo.Map{"data": vs})
}

func (h *AdminHTTP) SetVariants(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.set_variants")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("set_variants_failed", "status", 400, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}
	var req transport.SetVariantsRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("set_variants_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Catalog.SetCakeVariants(ctx, id, req.ToInputs()); err != nil {
		return catalogWriteError(l, "set_variants_failed", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHTTP) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()
	cats, err := h.Catalog.ListCategories(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("list_categories_failed", "handler", "admin.list_categories", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load categories")
	}
	return c.JSON(http.StatusOK, echo.Map{"data": cats})
}

func (h *AdminHTTP) ListSizes(c echo.Context) error {
	ctx := c.Request().Context()
	sizes, err := h.Catalog.ListCakeSizes(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("list_sizes_failed", "handler", "admin.list_sizes", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load sizes")
	}
	return c.JSON(http.StatusOK, echo.Map{"data": sizes})
}

func (h *AdminHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	orders, err := h.Orders.FetchAllOrders(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("list_orders_failed", "handler", "admin.list_orders", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load orders")
	}
	return c.JSON(http.StatusOK, echo.Map{"data": orders})
}

func (h *AdminHTTP) UpdateOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.update_order_status")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("update_status_failed", "status", 400, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}
	var req transport.StatusRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_status_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("update_status_failed", "status", 400, "reason", "status missing")
		return echo.NewHTTPError(http.StatusBadRequest, validate.Message(err))
	}

	order, err := h.Orders.UpdateStatus(ctx, id, req.Status)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, order)
	case errors.Is(err, service.ErrValidation):
		l.Warn("update_status_failed", "status", 400, "reason", "unknown status", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		l.Warn("update_status_failed", "status", 404, "reason", "order not found")
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	case errors.Is(err, service.ErrInvalidTransition), errors.Is(err, service.ErrConflict):
		l.Warn("update_status_failed", "status", 409, "error", err)
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		l.Error("update_status_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update order")
	}
}

// checkMerged runs the create rules against the cake as it would look after
// the change, so a patch cannot leave a bento without a price or a classic
// without sizes.
func (h *AdminHTTP) checkMerged(c echo.Context, l *slog.Logger, event string, id uuid.UUID, patch transport.PatchCakeRequest) error {
	cur, err := h.Catalog.EditableCake(c.Request().Context(), id)
	if err != nil {
		return catalogWriteError(l, event, err)
	}
	merged := patch.Merge(*cur)
	if err := c.Validate(&merged); err != nil {
		l.Warn(event, "status", 400, "reason", "invalid form", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, validate.Message(err))
	}
	if err := merged.Validate(); err != nil {
		l.Warn(event, "status", 400, "reason", err.Error())
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func catalogWriteError(l *slog.Logger, event string, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		l.Warn(event, "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		l.Warn(event, "status", 404, "reason", "cake not found")
		return echo.NewHTTPError(http.StatusNotFound, "cake not found")
	default:
		l.Error(event, "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
