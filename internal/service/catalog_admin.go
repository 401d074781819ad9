package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/cake_shop/internal/domain"
	"github.com/Skotchmaster/cake_shop/internal/events"
	"github.com/Skotchmaster/cake_shop/internal/models"
	"github.com/Skotchmaster/cake_shop/internal/repo"
	"github.com/Skotchmaster/cake_shop/pkg/logging"
)

type VariantInput struct {
	SizeID   uuid.UUID
	PriceRSD decimal.Decimal
}

type CakeInput struct {
	Name         string
	Ingredients  *string
	BasePriceRSD *decimal.Decimal
	IsBento      bool
	IsAvailable  bool
	CategoryID   *uuid.UUID
	// Variants nil means "not supplied"; an empty slice clears them.
	Variants []VariantInput
}

// CakePatch changes only non-nil fields. Ingredients "", CategoryID uuid.Nil
// and an invalid BasePriceRSD clear the column.
type CakePatch struct {
	Name         *string
	Ingredients  *string
	BasePriceRSD *decimal.NullDecimal
	IsBento      *bool
	IsAvailable  *bool
	CategoryID   *uuid.UUID
	Variants     *[]VariantInput
}

func (p CakePatch) empty() bool {
	return p.Name == nil && p.Ingredients == nil && p.BasePriceRSD == nil &&
		p.IsBento == nil && p.IsAvailable == nil && p.CategoryID == nil && p.Variants == nil
}

type CatalogAdminService struct {
	Repo   *repo.GormRepo
	Events EventPublisher
	Index  CakeIndex
}

func (s *CatalogAdminService) CreateCake(ctx context.Context, in CakeInput) (uuid.UUID, error) {
	l := logging.FromContext(ctx).With("svc", "catalog_admin.create_cake")

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return uuid.Nil, fmt.Errorf("name required: %w", ErrValidation)
	}
	if in.BasePriceRSD != nil && in.BasePriceRSD.IsNegative() {
		return uuid.Nil, fmt.Errorf("base price must be >= 0: %w", ErrValidation)
	}
	if err := validateVariants(in.Variants); err != nil {
		return uuid.Nil, err
	}

	cake := &models.Cake{
		Name:        name,
		Ingredients: blankToNil(in.Ingredients),
		IsBento:     in.IsBento,
		IsAvailable: in.IsAvailable,
		CategoryID:  nilUUID(in.CategoryID),
	}
	if in.BasePriceRSD != nil {
		cake.BasePriceRSD = decimal.NewNullDecimal(*in.BasePriceRSD)
	}

	if err := s.Repo.CreateCake(ctx, cake); err != nil {
		l.Error("create_cake_failed", "reason", "cannot insert cake", "error", err)
		return uuid.Nil, fmt.Errorf("create cake: %w", err)
	}

	if in.Variants != nil {
		if err := s.replaceVariants(ctx, cake.ID, in.Variants); err != nil {
			l.Error("create_cake_failed", "reason", "cannot set variants", "cake_id", cake.ID.String(), "error", err)
			return uuid.Nil, err
		}
	}

	s.publish(ctx, "cake_created", cake.ID, map[string]any{"name": cake.Name, "is_bento": cake.IsBento})
	s.reindex(ctx, cake.ID)
	l.Info("create_cake_success", "cake_id", cake.ID.String())
	return cake.ID, nil
}

// UpdateCake with an empty patch is a no-op and does not touch the store.
func (s *CatalogAdminService) UpdateCake(ctx context.Context, id uuid.UUID, p CakePatch) error {
	l := logging.FromContext(ctx).With("svc", "catalog_admin.update_cake", "cake_id", id.String())

	if p.empty() {
		return nil
	}

	fields := map[string]any{}
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return fmt.Errorf("name cannot be blank: %w", ErrValidation)
		}
		fields["name"] = name
	}
	if p.Ingredients != nil {
		fields["ingredients"] = blankToNil(p.Ingredients)
	}
	if p.BasePriceRSD != nil {
		if p.BasePriceRSD.Valid && p.BasePriceRSD.Decimal.IsNegative() {
			return fmt.Errorf("base price must be >= 0: %w", ErrValidation)
		}
		fields["base_price_rsd"] = *p.BasePriceRSD
	}
	if p.IsBento != nil {
		fields["is_bento"] = *p.IsBento
	}
	if p.IsAvailable != nil {
		fields["is_available"] = *p.IsAvailable
	}
	if p.CategoryID != nil {
		fields["category_id"] = nilUUID(p.CategoryID)
	}
	if p.Variants != nil {
		if err := validateVariants(*p.Variants); err != nil {
			return err
		}
	}

	if len(fields) > 0 {
		if err := s.Repo.UpdateCake(ctx, id, fields); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("cake %s: %w", id, ErrNotFound)
			}
			l.Error("update_cake_failed", "reason", "cannot update cake", "error", err)
			return fmt.Errorf("update cake: %w", err)
		}
	}

	if p.Variants != nil {
		if err := s.SetCakeVariants(ctx, id, *p.Variants); err != nil {
			return err
		}
		return nil
	}

	s.publish(ctx, "cake_updated", id, map[string]any{"fields": len(fields)})
	s.reindex(ctx, id)
	return nil
}

func (s *CatalogAdminService) DeleteCake(ctx context.Context, id uuid.UUID) error {
	l := logging.FromContext(ctx).With("svc", "catalog_admin.delete_cake", "cake_id", id.String())

	if err := s.Repo.DeleteCake(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("cake %s: %w", id, ErrNotFound)
		}
		l.Error("delete_cake_failed", "reason", "cannot delete cake", "error", err)
		return fmt.Errorf("delete cake: %w", err)
	}

	s.publish(ctx, "cake_deleted", id, nil)
	if s.Index != nil {
		if err := s.Index.DeleteCake(ctx, id); err != nil {
			l.Warn("search_index_delete_failed", "error", err)
		}
	}
	return nil
}

// SetCakeVariants replaces the whole variant set. Concurrent admins: last write wins.
func (s *CatalogAdminService) SetCakeVariants(ctx context.Context, cakeID uuid.UUID, vs []VariantInput) error {
	if err := validateVariants(vs); err != nil {
		return err
	}
	ok, err := s.Repo.CakeExists(ctx, cakeID)
	if err != nil {
		return fmt.Errorf("set cake variants: %w", err)
	}
	if !ok {
		return fmt.Errorf("cake %s: %w", cakeID, ErrNotFound)
	}
	if err := s.replaceVariants(ctx, cakeID, vs); err != nil {
		logging.FromContext(ctx).Error("set_variants_failed", "svc", "catalog_admin.set_variants", "cake_id", cakeID.String(), "error", err)
		return err
	}

	s.publish(ctx, "cake_updated", cakeID, map[string]any{"variants": len(vs)})
	s.reindex(ctx, cakeID)
	return nil
}

func (s *CatalogAdminService) replaceVariants(ctx context.Context, cakeID uuid.UUID, vs []VariantInput) error {
	rows := make([]models.CakeVariant, 0, len(vs))
	for _, v := range vs {
		rows = append(rows, models.CakeVariant{
			CakeID:      cakeID,
			CakeSizeID:  v.SizeID,
			PriceRSD:    v.PriceRSD,
			IsAvailable: true,
		})
	}
	if err := s.Repo.ReplaceCakeVariants(ctx, cakeID, rows); err != nil {
		return fmt.Errorf("set cake variants: %w", err)
	}
	return nil
}

// EditableCake loads the stored row, unavailable or not, with its variants.
func (s *CatalogAdminService) EditableCake(ctx context.Context, id uuid.UUID) (*models.Cake, error) {
	row, err := s.Repo.GetCake(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cake %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get cake: %w", err)
	}
	return row, nil
}

func (s *CatalogAdminService) ListAllCakes(ctx context.Context) ([]domain.Cake, error) {
	rows, err := s.Repo.ListAllCakes(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("list_all_cakes_failed", "svc", "catalog_admin.list", "error", err)
		return nil, fmt.Errorf("list cakes: %w", err)
	}
	out := make([]domain.Cake, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.MapCake(row, domain.MapOptions{}))
	}
	return out, nil
}

func (s *CatalogAdminService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.Repo.ListCategories(ctx)
}

func (s *CatalogAdminService) ListCakeSizes(ctx context.Context) ([]models.CakeSize, error) {
	return s.Repo.ListCakeSizes(ctx)
}

func (s *CatalogAdminService) ListCakeVariants(ctx context.Context, cakeID uuid.UUID) ([]domain.Variant, error) {
	rows, err := s.Repo.ListCakeVariants(ctx, cakeID)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	out := make([]domain.Variant, 0, len(rows))
	for _, v := range rows {
		out = append(out, domain.MapVariant(v))
	}
	domain.SortVariants(out)
	return out, nil
}

func (s *CatalogAdminService) publish(ctx context.Context, kind string, id uuid.UUID, extra map[string]any) {
	if s.Events == nil {
		return
	}
	ev := map[string]any{"type": kind, "cakeID": id.String()}
	for k, v := range extra {
		ev[k] = v
	}
	if err := s.Events.Publish(ctx, events.TopicCatalog, id.String(), ev); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_failed", "event", kind, "error", err)
	}
}

// reindex mirrors the cake into search. Unavailable cakes are removed.
func (s *CatalogAdminService) reindex(ctx context.Context, id uuid.UUID) {
	if s.Index == nil {
		return
	}
	l := logging.FromContext(ctx).With("cake_id", id.String())

	row, err := s.Repo.GetCake(ctx, id)
	if err != nil {
		l.Warn("search_reindex_failed", "reason", "cannot load cake", "error", err)
		return
	}
	if !row.IsAvailable {
		if err := s.Index.DeleteCake(ctx, id); err != nil {
			l.Warn("search_index_delete_failed", "error", err)
		}
		return
	}
	if err := s.Index.IndexCake(ctx, domain.MapCake(*row, domain.MapOptions{OnlyAvailableVariants: true})); err != nil {
		l.Warn("search_reindex_failed", "reason", "index error", "error", err)
	}
}

func validateVariants(vs []VariantInput) error {
	for _, v := range vs {
		if v.SizeID == uuid.Nil {
			return fmt.Errorf("variant size_id required: %w", ErrValidation)
		}
		if v.PriceRSD.IsNegative() {
			return fmt.Errorf("variant price must be >= 0: %w", ErrValidation)
		}
	}
	return nil
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

func nilUUID(id *uuid.UUID) *uuid.UUID {
	if id == nil || *id == uuid.Nil {
		return nil
	}
	v := *id
	return &v
}
