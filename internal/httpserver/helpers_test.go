package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/cake_shop/internal/cart"
	"github.com/Skotchmaster/cake_shop/internal/models"
	"github.com/Skotchmaster/cake_shop/internal/repo"
	"github.com/Skotchmaster/cake_shop/internal/service"
	"github.com/Skotchmaster/cake_shop/internal/session"
	pkgdb "github.com/Skotchmaster/cake_shop/pkg/db"
	"github.com/Skotchmaster/cake_shop/pkg/logging"
	loggingmw "github.com/Skotchmaster/cake_shop/pkg/middleware/logging"
	"github.com/Skotchmaster/cake_shop/pkg/validate"
)

var testSecret = []byte("test-access-secret")

type testEnv struct {
	E      *echo.Echo
	Repo   *repo.GormRepo
	Carts  *cart.Registry
	Auth   *service.AuthService
	Admin  *service.CatalogAdminService
	Orders *service.OrderService

	Bento   uuid.UUID
	Classic uuid.UUID
	Small   uuid.UUID // variant of Classic
	Large   uuid.UUID // variant of Classic
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, err := pkgdb.Open(ctx, "sqlite::memory:")
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	r := &repo.GormRepo{DB: db}

	resolver := &session.Resolver{Flags: session.NewMemoryFlagStore(), Profiles: r}
	carts := cart.NewRegistry()
	catalog := &service.CatalogService{Repo: r}
	admin := &service.CatalogAdminService{Repo: r}
	orders := &service.OrderService{Store: r}
	auth := &service.AuthService{
		Repo:          r,
		JWTSecret:     testSecret,
		RefreshSecret: []byte("test-refresh-secret"),
		Listeners:     []service.SessionListener{resolver},
	}
	profiles := &service.ProfileService{Repo: r}

	e := echo.New()
	e.Validator = validate.NewCustomValidator()
	e.Use(Common(logging.NewWithWriter(io.Discard, "error"))...)
	Register(e, &Deps{
		Auth:      &AuthHTTP{Svc: auth, Profiles: profiles},
		Session:   &SessionHTTP{Resolver: resolver},
		Profile:   &ProfileHTTP{Svc: profiles},
		Catalog:   &CatalogHTTP{Svc: catalog},
		Admin:     &AdminHTTP{Catalog: admin, Orders: orders},
		Cart:      &CartHTTP{Carts: carts, Catalog: catalog},
		Orders:    &OrderHTTP{Svc: orders, Carts: carts},
		Resolver:  resolver,
		JWTSecret: testSecret,
		Ready:     r.Ping,
	})

	env := &testEnv{E: e, Repo: r, Carts: carts, Auth: auth, Admin: admin, Orders: orders}
	env.seed(t)
	return env
}

func (env *testEnv) seed(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	classic, err := env.Repo.EnsureCategory(ctx, "Classic", "classic")
	require.NoError(t, err)
	bento, err := env.Repo.EnsureCategory(ctx, "Bento", "bento")
	require.NoError(t, err)
	small, err := env.Repo.EnsureCakeSize(ctx, "Small", "S", 1)
	require.NoError(t, err)
	large, err := env.Repo.EnsureCakeSize(ctx, "Large", "L", 3)
	require.NoError(t, err)

	price := decimal.NewFromInt(1500)
	env.Bento, err = env.Admin.CreateCake(ctx, service.CakeInput{
		Name: "Mini Bento", IsBento: true, IsAvailable: true, BasePriceRSD: &price, CategoryID: &bento.ID,
	})
	require.NoError(t, err)

	env.Classic, err = env.Admin.CreateCake(ctx, service.CakeInput{
		Name: "Chocolate", IsAvailable: true, CategoryID: &classic.ID,
		Variants: []service.VariantInput{
			{SizeID: large.ID, PriceRSD: decimal.NewFromInt(3000)},
			{SizeID: small.ID, PriceRSD: decimal.NewFromInt(900)},
		},
	})
	require.NoError(t, err)

	vs, err := env.Admin.ListCakeVariants(ctx, env.Classic)
	require.NoError(t, err)
	require.Len(t, vs, 2)
	env.Small, env.Large = vs[0].ID, vs[1].ID
}

type reqOpt func(*http.Request)

func withDevice(id string) reqOpt {
	return func(r *http.Request) { r.Header.Set(loggingmw.HeaderDeviceID, id) }
}

func withBearer(token string) reqOpt {
	return func(r *http.Request) { r.Header.Set(echo.HeaderAuthorization, "Bearer "+token) }
}

func (env *testEnv) do(t *testing.T, method, path string, body any, opts ...reqOpt) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, o := range opts {
		o(req)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// signIn registers email and returns an access token. role "" keeps the default.
func (env *testEnv) signIn(t *testing.T, email, role string, opts ...reqOpt) string {
	t.Helper()
	ctx := context.Background()
	u, err := env.Auth.SignUp(ctx, email, "secret1")
	require.NoError(t, err)
	if role != "" {
		require.NoError(t, env.Repo.SetProfileRole(ctx, u.ID, role))
	}
	rec := env.do(t, http.MethodPost, "/api/v1/auth/signin", map[string]string{"email": email, "password": "secret1"}, opts...)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[map[string]any](t, rec)["access_token"].(string)
}

func strPtr(s string) *string { return &s }
