package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/cake_shop/internal/domain"
	"github.com/Skotchmaster/cake_shop/internal/middleware/csrf"
	"github.com/Skotchmaster/cake_shop/internal/session"
	"github.com/Skotchmaster/cake_shop/pkg/logging"
)

type Deps struct {
	Auth    *AuthHTTP
	Session *SessionHTTP
	Profile *ProfileHTTP
	Catalog *CatalogHTTP
	Admin   *AdminHTTP
	Cart    *CartHTTP
	Orders  *OrderHTTP

	Resolver    *session.Resolver
	JWTSecret   []byte
	CSRFEnabled bool
	Ready       func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				logging.FromContext(c.Request().Context()).Warn("not_ready", "error", err)
				return c.NoContent(http.StatusServiceUnavailable)
			}
		}
		return c.NoContent(http.StatusOK)
	})

	v1 := e.Group("/api/v1")
	if d.CSRFEnabled {
		v1.Use(csrf.Middleware(csrf.DefaultConfig()))
	}
	v1.Use(
		AutoRefresh(d.JWTSecret, d.Auth.Svc),
		Authenticate(d.JWTSecret),
		ResolveSession(d.Resolver),
	)

	auth := v1.Group("/auth")
	auth.POST("/signup", d.Auth.SignUp)
	auth.POST("/signin", d.Auth.SignIn)
	auth.POST("/refresh", d.Auth.Refresh)
	auth.POST("/signout", d.Auth.SignOut)

	v1.GET("/session", d.Session.Get)
	v1.POST("/session/guest", d.Session.ChooseGuest)

	v1.GET("/profile", d.Profile.Get, RequireView(domain.ViewProfile))
	v1.PUT("/profile", d.Profile.Update, RequireView(domain.ViewProfile))

	cakes := v1.Group("/cakes")
	cakes.GET("", d.Catalog.ListCakes, RequireView(domain.ViewCatalog))
	cakes.GET("/search", d.Catalog.Search, RequireView(domain.ViewExplore))
	cakes.GET("/:id", d.Catalog.GetCake, RequireView(domain.ViewCakeDetail))

	cart := v1.Group("/cart", RequireView(domain.ViewCart))
	cart.GET("", d.Cart.Get)
	cart.POST("/items", d.Cart.AddItem)
	cart.PUT("/items/:key", d.Cart.SetQty)
	cart.DELETE("/items/:key", d.Cart.RemoveItem)
	cart.DELETE("", d.Cart.Clear)

	v1.POST("/checkout", d.Orders.Checkout, RequireView(domain.ViewCheckout))

	menu := v1.Group("/admin", RequireView(domain.ViewAdminMenu))
	menu.GET("/cakes", d.Admin.ListCakes)
	menu.POST("/cakes", d.Admin.CreateCake)
	menu.PATCH("/cakes/:id", d.Admin.PatchCake)
	menu.DELETE("/cakes/:id", d.Admin.DeleteCake)
	menu.GET("/cakes/:id/variants", d.Admin.ListVariants)
	menu.PUT("/cakes/:id/variants", d.Admin.SetVariants)
	menu.GET("/categories", d.Admin.ListCategories)
	menu.GET("/sizes", d.Admin.ListSizes)

	orders := v1.Group("/admin/orders", RequireView(domain.ViewAdminOrder))
	orders.GET("", d.Admin.ListOrders)
	orders.PATCH("/:id/status", d.Admin.UpdateOrderStatus)
}
