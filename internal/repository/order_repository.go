package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "wearhouse/internal/errors"
	"wearhouse/internal/model"
)

// OrderRepository defines order persistence operations.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	Update(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	ListAll(ctx context.Context) ([]model.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error)
}

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository.
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create persists an order and its line items in one transaction, and
// decrements stock for each item. The decrement is conditional
// (count_in_stock >= qty) so concurrent orders against the same product
// serialize on the row instead of racing a read-then-write.
func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range order.Items {
			res := tx.Model(&model.Product{}).
				Where("id = ? AND count_in_stock >= ?", item.ProductID, item.Qty).
				Update("count_in_stock", gorm.Expr("count_in_stock - ?", item.Qty))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return apperrors.ErrInsufficientStock
			}
		}
		return tx.Create(order).Error
	})
}

// Update persists flag transitions (paid/delivered) on an existing order.
func (r *orderRepository) Update(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Save(order).Error
}

// FindByID finds an order with its line items and owning user.
func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	if err := r.db.WithContext(ctx).Preload("Items").Preload("User").
		Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// ListAll returns every order with the owning user joined for display,
// newest first with ties broken by id.
func (r *orderRepository) ListAll(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	if err := r.db.WithContext(ctx).Preload("Items").Preload("User").
		Order("created_at DESC, id ASC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ListByUser returns one user's orders, newest first with ties broken by id.
func (r *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	var orders []model.Order
	if err := r.db.WithContext(ctx).Preload("Items").Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC, id ASC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
