package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/Skotchmaster/cake_shop/internal/cart"
	"github.com/Skotchmaster/cake_shop/internal/domain"
	"github.com/Skotchmaster/cake_shop/internal/events"
	"github.com/Skotchmaster/cake_shop/internal/models"
	"github.com/Skotchmaster/cake_shop/pkg/logging"
)

type OrderStore interface {
	InsertOrder(ctx context.Context, order *models.Order) error
	InsertOrderItems(ctx context.Context, items []models.OrderItem) error
	DeleteOrder(ctx context.Context, id uuid.UUID) error
	ListOrdersWithItems(ctx context.Context) ([]models.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, from, to string) (bool, error)
}

// TxRunner is implemented by stores that can run header and items atomically.
type TxRunner interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type CreateOrderInput struct {
	UserID             *uuid.UUID
	CustomerName       string
	CustomerEmail      string
	CustomerPhone      string
	DeliveryAddress    string
	DeliveryCity       string
	DeliveryPostalCode string
	DeliveryNotes      *string
	PaymentMethod      domain.PaymentMethod
	// Status is ignored; new orders always start as pending.
	Status string
	Items  []cart.Item
}

type OrderService struct {
	Store  OrderStore
	Events EventPublisher
}

// ToOrderItems freezes cart lines into order item snapshots.
func ToOrderItems(orderID uuid.UUID, items []cart.Item) []models.OrderItem {
	out := make([]models.OrderItem, 0, len(items))
	for _, it := range items {
		out = append(out, models.OrderItem{
			OrderID:      orderID,
			CakeID:       it.CakeID,
			CakeName:     it.CakeName,
			VariantID:    copyUUID(it.VariantID),
			SizeLabel:    copyString(it.SizeLabel),
			UnitPriceRSD: it.UnitPriceRSD,
			Quantity:     it.Qty,
		})
	}
	return out
}

// CreateOrder writes the header then the items. With a transactional store both
// go in one tx; otherwise a failed items insert triggers a best-effort delete of
// the header and the items error is returned.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (uuid.UUID, error) {
	ctx, span := tracer.Start(ctx, "OrderService.CreateOrder", trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	l := logging.FromContext(ctx).With("svc", "order.create")

	if len(in.Items) == 0 {
		return uuid.Nil, fmt.Errorf("items required: %w", ErrValidation)
	}
	pm := in.PaymentMethod
	if _, ok := domain.ParsePaymentMethod(string(pm)); !ok {
		pm = domain.PaymentCash
	}

	order := &models.Order{
		ID:                 uuid.New(),
		UserID:             copyUUID(in.UserID),
		CustomerName:       in.CustomerName,
		CustomerEmail:      in.CustomerEmail,
		CustomerPhone:      in.CustomerPhone,
		DeliveryAddress:    in.DeliveryAddress,
		DeliveryCity:       in.DeliveryCity,
		DeliveryPostalCode: in.DeliveryPostalCode,
		DeliveryNotes:      copyString(in.DeliveryNotes),
		PaymentMethod:      string(pm),
		TotalRSD:           cart.Total(in.Items),
		Status:             string(domain.StatusPending),
	}
	items := ToOrderItems(order.ID, in.Items)
	span.SetAttributes(attribute.Int("order.items", len(items)))

	var err error
	if tx, ok := s.Store.(TxRunner); ok {
		err = tx.Transaction(ctx, func(ctx context.Context) error {
			if err := s.Store.InsertOrder(ctx, order); err != nil {
				return fmt.Errorf("insert order: %w", err)
			}
			if err := s.Store.InsertOrderItems(ctx, items); err != nil {
				return fmt.Errorf("insert order items: %w", err)
			}
			return nil
		})
	} else {
		err = s.createWithCompensation(ctx, order, items)
	}
	if err != nil {
		l.Error("create_order_failed", "order_id", order.ID.String(), "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "create order")
		return uuid.Nil, err
	}

	s.publish(ctx, "order_created", order.ID, map[string]any{
		"items":     len(items),
		"total_rsd": order.TotalRSD.String(),
		"payment":   order.PaymentMethod,
	})
	l.Info("create_order_success", "order_id", order.ID.String(), "items", len(items))
	return order.ID, nil
}

func (s *OrderService) createWithCompensation(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	if err := s.Store.InsertOrder(ctx, order); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	if err := s.Store.InsertOrderItems(ctx, items); err != nil {
		if delErr := s.Store.DeleteOrder(ctx, order.ID); delErr != nil {
			logging.FromContext(ctx).Warn("order_compensation_failed",
				"order_id", order.ID.String(), "reason", "orphaned header", "error", delErr)
		}
		return fmt.Errorf("insert order items: %w", err)
	}
	return nil
}

// FetchAllOrders returns every order, newest first, with items.
func (s *OrderService) FetchAllOrders(ctx context.Context) ([]domain.Order, error) {
	ctx, span := tracer.Start(ctx, "OrderService.FetchAllOrders")
	defer span.End()

	rows, err := s.Store.ListOrdersWithItems(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("fetch_orders_failed", "svc", "order.fetch_all", "error", err)
		span.RecordError(err)
		return nil, fmt.Errorf("list orders: %w", err)
	}
	out := make([]domain.Order, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.MapOrder(row))
	}
	return out, nil
}

// UpdateStatus moves an order one step along the status machine.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, to string) (*domain.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.update_status", "order_id", id.String())

	next, ok := domain.ParseStatus(to)
	if !ok {
		return nil, fmt.Errorf("unknown status %q: %w", to, ErrValidation)
	}

	row, err := s.Store.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	current := domain.MapOrder(*row)
	if current.Status.Terminal() {
		return nil, fmt.Errorf("order is already %s: %w", current.Status, ErrInvalidTransition)
	}
	if !domain.CanTransition(current.Status, next) {
		return nil, fmt.Errorf("%s -> %s: %w", current.Status, next, ErrInvalidTransition)
	}

	moved, err := s.Store.UpdateOrderStatus(ctx, id, row.Status, string(next))
	if err != nil {
		l.Error("update_status_failed", "error", err)
		return nil, fmt.Errorf("update status: %w", err)
	}
	if !moved {
		return nil, fmt.Errorf("order %s changed concurrently: %w", id, ErrConflict)
	}

	current.Status = next
	s.publish(ctx, "order_status_changed", id, map[string]any{"from": row.Status, "to": string(next)})
	l.Info("update_status_success", "from", row.Status, "to", string(next))
	return &current, nil
}

func (s *OrderService) publish(ctx context.Context, kind string, id uuid.UUID, extra map[string]any) {
	if s.Events == nil {
		return
	}
	ev := map[string]any{"type": kind, "orderID": id.String()}
	for k, v := range extra {
		ev[k] = v
	}
	if err := s.Events.Publish(ctx, events.TopicOrders, id.String(), ev); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_failed", "event", kind, "error", err)
	}
}

func copyUUID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
