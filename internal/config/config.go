package config

import (
	"errors"
	"log/slog"

	"github.com/joho/godotenv"

	"github.com/Skotchmaster/cake_shop/pkg/config"
)

type ServiceConfig struct {
	config.Config

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	RedisURL string

	CSRFEnabled bool
}

// Load reads envFile when it exists and falls back to the process environment.
func Load(envFile string) (ServiceConfig, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			slog.Info("env_file_not_loaded", "file", envFile, "reason", err.Error())
		}
	}

	cfg := ServiceConfig{
		Config: config.Load(),

		ESURL:      config.EnvDefault("ES_URL", ""),
		ESUser:     config.EnvDefault("ES_USER", ""),
		ESPassword: config.EnvDefault("ES_PASSWORD", ""),
		ESIndex:    config.EnvDefault("ES_INDEX", "cakes"),

		RedisURL: config.EnvDefault("REDIS_URL", ""),

		CSRFEnabled: config.EnvBoolDefault("CSRF_ENABLED", true),
	}

	if err := errors.Join(
		config.RequireNonEmpty(cfg.DatabaseURL, "DATABASE_URL"),
		config.RequireNonEmptyBytes(cfg.JWTAccessSecret, "JWT_SECRET"),
		config.RequireNonEmptyBytes(cfg.JWTRefreshSecret, "JWT_REFRESH_SECRET"),
	); err != nil {
		return ServiceConfig{}, err
	}
	return cfg, nil
}
