package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/Skotchmaster/cake_shop/internal/cart"
	"github.com/Skotchmaster/cake_shop/internal/events"
	"github.com/Skotchmaster/cake_shop/internal/httpserver"
	"github.com/Skotchmaster/cake_shop/internal/repo"
	"github.com/Skotchmaster/cake_shop/internal/search"
	"github.com/Skotchmaster/cake_shop/internal/service"
	"github.com/Skotchmaster/cake_shop/internal/session"
	"github.com/Skotchmaster/cake_shop/pkg/validate"
)

func newServeCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(*envFile)
			if err != nil {
				return err
			}
			defer a.close()
			return a.serve()
		},
	}
}

func (a *app) serve() error {
	cfg, l := a.cfg, a.logger
	r := &repo.GormRepo{DB: a.db}

	flags, closeFlags, err := a.flagStore()
	if err != nil {
		return err
	}
	defer closeFlags()

	var pub events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		pub = events.NewKafkaPublisher(cfg.KafkaBrokers)
	} else {
		l.Warn("kafka_disabled", "reason", "KAFKA_BROKERS is empty")
	}
	defer func() {
		if err := pub.Close(); err != nil {
			l.Error("kafka_close_failed", "error", err)
		}
	}()

	catalog := &service.CatalogService{Repo: r}
	admin := &service.CatalogAdminService{Repo: r, Events: pub}
	if idx := a.searchIndex(); idx != nil {
		catalog.Index = idx
		admin.Index = idx
	}

	resolver := &session.Resolver{Flags: flags, Profiles: r}
	carts := cart.NewRegistry()
	orders := &service.OrderService{Store: r, Events: pub}
	auth := &service.AuthService{
		Repo:          r,
		JWTSecret:     cfg.JWTAccessSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
		Events:        pub,
		Listeners:     []service.SessionListener{resolver},
	}
	profiles := &service.ProfileService{Repo: r}

	e := echo.New()
	e.HideBanner = true
	e.Validator = validate.NewCustomValidator()
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(httpserver.Common(l)...)

	httpserver.Register(e, &httpserver.Deps{
		Auth:        &httpserver.AuthHTTP{Svc: auth, Profiles: profiles},
		Session:     &httpserver.SessionHTTP{Resolver: resolver},
		Profile:     &httpserver.ProfileHTTP{Svc: profiles},
		Catalog:     &httpserver.CatalogHTTP{Svc: catalog},
		Admin:       &httpserver.AdminHTTP{Catalog: admin, Orders: orders},
		Cart:        &httpserver.CartHTTP{Carts: carts, Catalog: catalog},
		Orders:      &httpserver.OrderHTTP{Svc: orders, Carts: carts},
		Resolver:    resolver,
		JWTSecret:   cfg.JWTAccessSecret,
		CSRFEnabled: cfg.CSRFEnabled,
		Ready:       r.Ping,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		l.Info("http_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-stop:
	}

	l.Info("shutting_down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		l.Error("server_shutdown_failed", "error", err)
	}
	l.Info("shutdown_complete")
	return nil
}

// flagStore uses redis when REDIS_URL is set so guest mode survives restarts.
func (a *app) flagStore() (session.FlagStore, func(), error) {
	if a.cfg.RedisURL == "" {
		a.logger.Warn("redis_disabled", "reason", "REDIS_URL is empty, guest flags are in memory")
		return session.NewMemoryFlagStore(), func() {}, nil
	}

	opt, err := redis.ParseURL(a.cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}

	return session.NewRedisFlagStore(rdb), func() {
		if err := rdb.Close(); err != nil {
			a.logger.Error("redis_close_failed", "error", err)
		}
	}, nil
}

// searchIndex returns nil when no cluster is configured or reachable; search
// then falls back to the database.
func (a *app) searchIndex() *search.CakeIndex {
	if a.cfg.ESURL == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	idx, err := search.NewClient(ctx, search.Config{
		URL:      a.cfg.ESURL,
		User:     a.cfg.ESUser,
		Password: a.cfg.ESPassword,
		Index:    a.cfg.ESIndex,
	})
	if err != nil {
		a.logger.Warn("search_disabled", "reason", "elasticsearch unavailable", "error", err)
		return nil
	}
	return idx
}
