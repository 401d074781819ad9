package httpserver

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/cake_shop/internal/service"
	"github.com/Skotchmaster/cake_shop/internal/util"
	"github.com/Skotchmaster/cake_shop/pkg/logging"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) ListCakes(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.list_cakes")

	category := c.QueryParam("category")
	cakes, err := h.Svc.FetchCakes(ctx, category)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("list_cakes_failed", "status", 400, "reason", "unknown category", "category", category)
			return echo.NewHTTPError(http.StatusBadRequest, "category must be classic or bento")
		}
		l.Error("list_cakes_failed", "status", 500, "reason", "cannot load cakes", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load cakes")
	}

	return c.JSON(http.StatusOK, echo.Map{"data": cakes})
}

func (h *CatalogHTTP) GetCake(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_cake")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("get_cake_failed", "status", 400, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	cake, err := h.Svc.GetCake(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("get_cake_failed", "status", 404, "reason", "cake not found")
			return echo.NewHTTPError(http.StatusNotFound, "cake not found")
		}
		l.Error("get_cake_failed", "status", 500, "reason", "cannot get cake", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get cake")
	}

	return c.JSON(http.StatusOK, cake)
}

func (h *CatalogHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.search")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, cakes, err := h.Svc.SearchCakes(ctx, c.QueryParam("q"), offset, limit)
	if err != nil {
		l.Error("search_failed", "status", 500, "reason", "search error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "search failed")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data": cakes,
		"meta": echo.Map{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}
