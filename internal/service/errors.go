package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"github.com/Skotchmaster/cake_shop/internal/domain"
)

var (
	ErrValidation          = errors.New("validation")            // 400
	ErrNotFound            = errors.New("not found")             // 404
	ErrConflict            = errors.New("conflict")              // 409
	ErrInvalidTransition   = errors.New("invalid transition")    // 409
	ErrInvalidCredentials  = errors.New("invalid credentials")   // 401
	ErrInvalidRefreshToken = errors.New("invalid refresh token") // 401
)

var tracer = otel.Tracer("github.com/Skotchmaster/cake_shop/internal/service")

type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, event map[string]any) error
}

// CakeIndex is the optional search backend. A nil index means search goes to the DB.
type CakeIndex interface {
	IndexCake(ctx context.Context, cake domain.Cake) error
	DeleteCake(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, query string, from, size int) (int64, []uuid.UUID, error)
}
