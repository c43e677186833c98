package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "wearhouse/internal/errors"
	"wearhouse/internal/model"
	"wearhouse/internal/query"
	"wearhouse/internal/repository"
)

// LineItemInput is one cart entry in an order-creation request.
type LineItemInput struct {
	ProductID uuid.UUID
	Qty       int
}

// PaymentDetails carries the external payment collaborator's confirmation.
type PaymentDetails struct {
	PaymentID  string
	Status     string
	UpdateTime string
	PayerEmail string
}

// OrderFilter narrows order listings by owning user name (case-insensitive
// substring) and creation day range ("YYYY-MM-DD", inclusive).
type OrderFilter struct {
	Name     string
	DateFrom string
	DateTo   string
}

// OrderService handles the order ledger. Orders are priced once at creation;
// afterwards only the paid/delivered flags transition, and only forward.
type OrderService interface {
	CreateOrder(ctx context.Context, userID uuid.UUID, items []LineItemInput, addr model.ShippingAddress, shippingPrice decimal.Decimal) (*model.Order, error)
	GetOrder(ctx context.Context, id, callerID uuid.UUID, callerIsAdmin bool) (*model.Order, error)
	ListOrders(ctx context.Context, filter OrderFilter) ([]model.Order, error)
	MyOrders(ctx context.Context, userID uuid.UUID, filter OrderFilter) ([]model.Order, error)
	MarkPaid(ctx context.Context, id uuid.UUID, details PaymentDetails) (*model.Order, error)
	MarkDelivered(ctx context.Context, id uuid.UUID) (*model.Order, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	taxRate     decimal.Decimal // percent, e.g. 10 for 10%
	timeout     time.Duration
}

// NewOrderService creates a new order service. taxRate is a percentage of
// the items price.
func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, taxRate decimal.Decimal, timeout time.Duration) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		taxRate:     taxRate,
		timeout:     timeout,
	}
}

// CreateOrder snapshots current product names and prices into line items,
// computes the price breakdown and persists the order. The total invariant
// totalPrice == itemsPrice + taxPrice + shippingPrice holds by construction
// and is never recomputed later.
func (s *orderService) CreateOrder(ctx context.Context, userID uuid.UUID, items []LineItemInput, addr model.ShippingAddress, shippingPrice decimal.Decimal) (*model.Order, error) {
	if len(items) == 0 {
		return nil, apperrors.Validation("order must have at least one line item")
	}
	if shippingPrice.IsNegative() {
		return nil, apperrors.Validation("shipping price must be non-negative")
	}

	ctx, cancel := boundedCtx(ctx, s.timeout)
	defer cancel()

	orderItems := make([]model.OrderItem, 0, len(items))
	itemsPrice := decimal.Zero
	for _, in := range items {
		if in.Qty < 1 {
			return nil, apperrors.Validation("line item quantity must be at least 1")
		}
		product, err := s.productRepo.FindByID(ctx, in.ProductID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, apperrors.ErrProductNotFound
			}
			return nil, storeErr(err)
		}
		orderItems = append(orderItems, model.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Qty:       in.Qty,
			UnitPrice: product.Price,
		})
		itemsPrice = itemsPrice.Add(product.Price.Mul(decimal.NewFromInt(int64(in.Qty))))
	}

	// Round half-up to the smallest currency unit. decimal.Round rounds
	// half away from zero, which for non-negative amounts is half-up.
	taxPrice := itemsPrice.Mul(s.taxRate).Div(decimal.NewFromInt(100)).Round(2)
	totalPrice := itemsPrice.Add(taxPrice).Add(shippingPrice)

	order := &model.Order{
		ID:              uuid.New(),
		UserID:          userID,
		Items:           orderItems,
		ShippingAddress: addr,
		ItemsPrice:      itemsPrice,
		TaxPrice:        taxPrice,
		ShippingPrice:   shippingPrice,
		TotalPrice:      totalPrice,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		if err == apperrors.ErrInsufficientStock {
			return nil, err
		}
		return nil, storeErr(fmt.Errorf("create order: %w", err))
	}
	return order, nil
}

// GetOrder returns the order if the caller owns it or is an administrator.
func (s *orderService) GetOrder(ctx context.Context, id, callerID uuid.UUID, callerIsAdmin bool) (*model.Order, error) {
	ctx, cancel := boundedCtx(ctx, s.timeout)
	defer cancel()

	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, storeErr(err)
	}
	if !callerIsAdmin && order.UserID != callerID {
		return nil, apperrors.ErrForbidden
	}
	return order, nil
}

// filterOrders applies the shared query engine's name and date predicates.
func filterOrders(orders []model.Order, filter OrderFilter) []model.Order {
	return query.Filter(orders,
		query.NameContains(filter.Name, func(o model.Order) string { return o.User.Name }),
		query.CreatedBetween(filter.DateFrom, filter.DateTo, func(o model.Order) time.Time { return o.CreatedAt }),
	)
}

// ListOrders returns all orders with owning user names joined, filtered.
// Admin-only; the API surface enforces the capability before dispatch.
func (s *orderService) ListOrders(ctx context.Context, filter OrderFilter) ([]model.Order, error) {
	ctx, cancel := boundedCtx(ctx, s.timeout)
	defer cancel()

	orders, err := s.orderRepo.ListAll(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	return filterOrders(orders, filter), nil
}

// MyOrders returns the caller's own orders, filtered like ListOrders.
func (s *orderService) MyOrders(ctx context.Context, userID uuid.UUID, filter OrderFilter) ([]model.Order, error) {
	ctx, cancel := boundedCtx(ctx, s.timeout)
	defer cancel()

	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}
	return filterOrders(orders, filter), nil
}

// MarkPaid transitions an order to paid and records the payment result.
// Re-marking a paid order is a conflict: the transition is one-way.
func (s *orderService) MarkPaid(ctx context.Context, id uuid.UUID, details PaymentDetails) (*model.Order, error) {
	ctx, cancel := boundedCtx(ctx, s.timeout)
	defer cancel()

	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, storeErr(err)
	}
	if order.IsPaid {
		return nil, apperrors.ErrAlreadyPaid
	}

	now := time.Now()
	order.IsPaid = true
	order.PaidAt = &now
	order.PaymentResult = model.PaymentResult{
		PaymentID:  details.PaymentID,
		Status:     details.Status,
		UpdateTime: details.UpdateTime,
		PayerEmail: details.PayerEmail,
	}

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, storeErr(fmt.Errorf("mark paid: %w", err))
	}
	return order, nil
}

// MarkDelivered transitions an order to delivered. One-way, like MarkPaid.
func (s *orderService) MarkDelivered(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	ctx, cancel := boundedCtx(ctx, s.timeout)
	defer cancel()

	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, storeErr(err)
	}
	if order.IsDelivered {
		return nil, apperrors.ErrAlreadyDelivered
	}

	now := time.Now()
	order.IsDelivered = true
	order.DeliveredAt = &now

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, storeErr(fmt.Errorf("mark delivered: %w", err))
	}
	return order, nil
}
