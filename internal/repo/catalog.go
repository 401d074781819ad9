package repo

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/cake_shop/internal/models"
)

func (r *GormRepo) withCakeRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Category").Preload("Variants.Size")
}

func (r *GormRepo) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var cat models.Category
	if err := r.conn(ctx).Where("slug = ?", slug).First(&cat).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

func (r *GormRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	if err := r.conn(ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) ListCakeSizes(ctx context.Context) ([]models.CakeSize, error) {
	var out []models.CakeSize
	if err := r.conn(ctx).Order("sort_order ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListAvailableCakes returns available cakes of one category, newest first.
func (r *GormRepo) ListAvailableCakes(ctx context.Context, categoryID uuid.UUID) ([]models.Cake, error) {
	var out []models.Cake
	err := r.withCakeRelations(r.conn(ctx)).
		Where("is_available = ? AND category_id = ?", true, categoryID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) GetAvailableCake(ctx context.Context, id uuid.UUID) (*models.Cake, error) {
	var cake models.Cake
	err := r.withCakeRelations(r.conn(ctx)).
		Where("id = ? AND is_available = ?", id, true).
		First(&cake).Error
	if err != nil {
		return nil, err
	}
	return &cake, nil
}

func (r *GormRepo) GetCake(ctx context.Context, id uuid.UUID) (*models.Cake, error) {
	var cake models.Cake
	if err := r.withCakeRelations(r.conn(ctx)).Where("id = ?", id).First(&cake).Error; err != nil {
		return nil, err
	}
	return &cake, nil
}

// ListAllCakes includes unavailable cakes. Admin listing.
func (r *GormRepo) ListAllCakes(ctx context.Context) ([]models.Cake, error) {
	var out []models.Cake
	if err := r.withCakeRelations(r.conn(ctx)).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) ListCakesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Cake, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []models.Cake
	err := r.withCakeRelations(r.conn(ctx)).
		Where("id IN ? AND is_available = ?", ids, true).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SearchCakes is the fallback used when no search cluster is configured.
func (r *GormRepo) SearchCakes(ctx context.Context, q string, offset, limit int) (int64, []models.Cake, error) {
	like := "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
	where := r.conn(ctx).Model(&models.Cake{}).
		Where("is_available = ?", true).
		Where("LOWER(name) LIKE ? OR LOWER(COALESCE(ingredients, '')) LIKE ?", like, like)

	var total int64
	if err := where.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	out := make([]models.Cake, 0, limit)
	err := r.withCakeRelations(where.Session(&gorm.Session{})).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return 0, nil, err
	}
	return total, out, nil
}

func (r *GormRepo) CreateCake(ctx context.Context, cake *models.Cake) error {
	return r.conn(ctx).Omit(clause.Associations).Create(cake).Error
}

// UpdateCake applies column updates. Nil values write NULL.
func (r *GormRepo) UpdateCake(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	res := r.conn(ctx).Model(&models.Cake{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) CakeExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.conn(ctx).Model(&models.Cake{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteCake removes the variants explicitly; sqlite does not enforce the cascade.
func (r *GormRepo) DeleteCake(ctx context.Context, id uuid.UUID) error {
	return r.Transaction(ctx, func(ctx context.Context) error {
		tx := r.conn(ctx)
		if err := tx.Where("cake_id = ?", id).Delete(&models.CakeVariant{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Cake{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *GormRepo) ListCakeVariants(ctx context.Context, cakeID uuid.UUID) ([]models.CakeVariant, error) {
	var out []models.CakeVariant
	if err := r.conn(ctx).Preload("Size").Where("cake_id = ?", cakeID).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ReplaceCakeVariants deletes every variant of the cake and inserts vs.
// Concurrent callers are last-write-wins.
func (r *GormRepo) ReplaceCakeVariants(ctx context.Context, cakeID uuid.UUID, vs []models.CakeVariant) error {
	return r.Transaction(ctx, func(ctx context.Context) error {
		tx := r.conn(ctx)
		if err := tx.Where("cake_id = ?", cakeID).Delete(&models.CakeVariant{}).Error; err != nil {
			return err
		}
		if len(vs) == 0 {
			return nil
		}
		for i := range vs {
			vs[i].CakeID = cakeID
		}
		return tx.Omit(clause.Associations).Create(&vs).Error
	})
}

func (r *GormRepo) EnsureCategory(ctx context.Context, name, slug string) (*models.Category, error) {
	cat := models.Category{Name: name, Slug: slug}
	if err := r.conn(ctx).Where("slug = ?", slug).FirstOrCreate(&cat).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

func (r *GormRepo) EnsureCakeSize(ctx context.Context, name, code string, sortOrder int) (*models.CakeSize, error) {
	size := models.CakeSize{Name: name, Code: code, SortOrder: &sortOrder}
	if err := r.conn(ctx).Where("code = ?", code).FirstOrCreate(&size).Error; err != nil {
		return nil, err
	}
	return &size, nil
}
