package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/Skotchmaster/cake_shop/internal/domain"
	"github.com/Skotchmaster/cake_shop/internal/models"
	"github.com/Skotchmaster/cake_shop/internal/repo"
	"github.com/Skotchmaster/cake_shop/pkg/logging"
)

type CatalogService struct {
	Repo  *repo.GormRepo
	Index CakeIndex
}

// FetchCakes lists available cakes of one category with available variants only.
func (s *CatalogService) FetchCakes(ctx context.Context, category string) ([]domain.Cake, error) {
	ctx, span := tracer.Start(ctx, "CatalogService.FetchCakes")
	defer span.End()
	span.SetAttributes(attribute.String("cake.category", category))

	l := logging.FromContext(ctx).With("svc", "catalog.fetch_cakes", "category", category)

	slug, ok := domain.ParseCategory(category)
	if !ok {
		return nil, fmt.Errorf("unknown category %q: %w", category, ErrValidation)
	}

	cat, err := s.Repo.GetCategoryBySlug(ctx, string(slug))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("fetch_cakes_empty", "reason", "category row missing")
			return []domain.Cake{}, nil
		}
		l.Error("fetch_cakes_failed", "reason", "cannot resolve category", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "category lookup")
		return nil, fmt.Errorf("resolve category: %w", err)
	}

	rows, err := s.Repo.ListAvailableCakes(ctx, cat.ID)
	if err != nil {
		l.Error("fetch_cakes_failed", "reason", "cannot load cakes", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "list cakes")
		return nil, fmt.Errorf("list cakes: %w", err)
	}

	out := make([]domain.Cake, 0, len(rows))
	for _, row := range rows {
		if row.CategoryID == nil || *row.CategoryID != cat.ID || !row.IsAvailable {
			continue
		}
		out = append(out, domain.MapCake(row, domain.MapOptions{OnlyAvailableVariants: true}))
	}
	span.SetAttributes(attribute.Int("cake.count", len(out)))
	return out, nil
}

func (s *CatalogService) GetCake(ctx context.Context, id uuid.UUID) (*domain.Cake, error) {
	row, err := s.Repo.GetAvailableCake(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cake %s: %w", id, ErrNotFound)
		}
		logging.FromContext(ctx).Error("get_cake_failed", "svc", "catalog.get_cake", "error", err)
		return nil, err
	}
	cake := domain.MapCake(*row, domain.MapOptions{OnlyAvailableVariants: true})
	return &cake, nil
}

// SearchCakes uses the search index when configured, otherwise a LIKE query.
func (s *CatalogService) SearchCakes(ctx context.Context, q string, offset, limit int) (int64, []domain.Cake, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return 0, []domain.Cake{}, nil
	}

	var (
		total int64
		rows  []models.Cake
		err   error
	)
	if s.Index != nil {
		var ids []uuid.UUID
		total, ids, err = s.Index.Search(ctx, q, offset, limit)
		if err != nil {
			return 0, nil, fmt.Errorf("search index: %w", err)
		}
		rows, err = s.Repo.ListCakesByIDs(ctx, ids)
		rows = orderByIDs(rows, ids)
		// The index can lag behind availability; hits that are no longer
		// sellable leave the page and the count.
		total = reconcileTotal(total, offset, len(ids), len(rows))
	} else {
		total, rows, err = s.Repo.SearchCakes(ctx, q, offset, limit)
	}
	if err != nil {
		return 0, nil, fmt.Errorf("search cakes: %w", err)
	}

	out := make([]domain.Cake, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.MapCake(row, domain.MapOptions{OnlyAvailableVariants: true}))
	}
	return total, out, nil
}

func reconcileTotal(total int64, offset, hits, kept int) int64 {
	total -= int64(hits - kept)
	if floor := int64(offset + kept); total < floor {
		return floor
	}
	return total
}

func orderByIDs(rows []models.Cake, ids []uuid.UUID) []models.Cake {
	byID := make(map[uuid.UUID]models.Cake, len(rows))
	for _, r := range rows {
		byID[r.ID] = r
	}
	out := make([]models.Cake, 0, len(rows))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			out = append(out, r)
		}
	}
	return out
}
