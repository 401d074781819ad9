package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/cake_shop/internal/domain"
	"github.com/Skotchmaster/cake_shop/internal/models"
	"github.com/Skotchmaster/cake_shop/internal/repo"
	pkgdb "github.com/Skotchmaster/cake_shop/pkg/db"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()
	db, err := pkgdb.Open(context.Background(), "sqlite::memory:")
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return &repo.GormRepo{DB: db}
}

type recordedEvent struct {
	Topic string
	Key   string
	Event map[string]any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *recordingPublisher) Publish(_ context.Context, topic, key string, ev map[string]any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{Topic: topic, Key: key, Event: ev})
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Event["type"].(string))
	}
	return out
}

type fakeIndex struct {
	mu      sync.Mutex
	indexed map[uuid.UUID]domain.Cake
	deleted []uuid.UUID
	hits    []uuid.UUID
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{indexed: map[uuid.UUID]domain.Cake{}}
}

func (f *fakeIndex) IndexCake(_ context.Context, c domain.Cake) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.indexed[c.ID] = c
	return nil
}

func (f *fakeIndex) DeleteCake(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.indexed, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeIndex) Search(_ context.Context, _ string, _, _ int) (int64, []uuid.UUID, error) {
	return int64(len(f.hits)), f.hits, nil
}

type catalogFixture struct {
	classic, bento *models.Category
	sizes          []*models.CakeSize
}

// seedCatalog creates both categories and three sizes with sort orders 3, 1, 2.
func seedCatalog(t *testing.T, r *repo.GormRepo) catalogFixture {
	t.Helper()
	ctx := context.Background()

	classic, err := r.EnsureCategory(ctx, "Classic", "classic")
	require.NoError(t, err)
	bento, err := r.EnsureCategory(ctx, "Bento", "bento")
	require.NoError(t, err)

	var sizes []*models.CakeSize
	for _, s := range []struct {
		name, code string
		order      int
	}{{"Large", "L", 3}, {"Small", "S", 1}, {"Medium", "M", 2}} {
		size, err := r.EnsureCakeSize(ctx, s.name, s.code, s.order)
		require.NoError(t, err)
		sizes = append(sizes, size)
	}
	return catalogFixture{classic: classic, bento: bento, sizes: sizes}
}

func price(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func pricePtr(n int64) *decimal.Decimal {
	d := decimal.NewFromInt(n)
	return &d
}

func nullPrice(n int64) *decimal.NullDecimal {
	d := decimal.NewNullDecimal(decimal.NewFromInt(n))
	return &d
}

func strPtr(s string) *string { return &s }
