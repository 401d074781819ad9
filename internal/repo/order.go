package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/cake_shop/internal/models"
)

// InsertOrder writes the header only; items go through InsertOrderItems.
func (r *GormRepo) InsertOrder(ctx context.Context, order *models.Order) error {
	return r.conn(ctx).Omit(clause.Associations).Create(order).Error
}

func (r *GormRepo) InsertOrderItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.conn(ctx).Create(&items).Error
}

func (r *GormRepo) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	return r.conn(ctx).Where("id = ?", id).Delete(&models.Order{}).Error
}

func (r *GormRepo) ListOrdersWithItems(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	err := r.conn(ctx).
		Preload("Items").
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var o models.Order
	if err := r.conn(ctx).Preload("Items").Where("id = ?", id).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// UpdateOrderStatus only moves the row if it is still in from.
func (r *GormRepo) UpdateOrderStatus(ctx context.Context, id uuid.UUID, from, to string) (bool, error) {
	res := r.conn(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
