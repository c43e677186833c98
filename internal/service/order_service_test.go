package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "wearhouse/internal/errors"
	"wearhouse/internal/model"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func newOrderService(orderRepo *MockOrderRepository, productRepo *MockProductRepository, taxRate string) OrderService {
	return NewOrderService(orderRepo, productRepo, dec(taxRate), time.Second)
}

func TestCreateOrderPriceBreakdown(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)

	shirt := &model.Product{ID: uuid.New(), Name: "Oxford Shirt", Price: dec("10.00"), CountInStock: 10}
	belt := &model.Product{ID: uuid.New(), Name: "Leather Belt", Price: dec("5.00"), CountInStock: 10}
	productRepo.On("FindByID", mock.Anything, shirt.ID).Return(shirt, nil)
	productRepo.On("FindByID", mock.Anything, belt.ID).Return(belt, nil)
	orderRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Order")).Return(nil)

	svc := newOrderService(orderRepo, productRepo, "10")
	userID := uuid.New()

	order, err := svc.CreateOrder(context.Background(), userID,
		[]LineItemInput{
			{ProductID: shirt.ID, Qty: 2},
			{ProductID: belt.ID, Qty: 1},
		},
		model.ShippingAddress{Address: "1 Main St", City: "Springfield"},
		dec("3.00"))

	assert.NoError(t, err)
	assert.True(t, dec("25.00").Equal(order.ItemsPrice), "items price = %s", order.ItemsPrice)
	assert.True(t, dec("2.50").Equal(order.TaxPrice), "tax price = %s", order.TaxPrice)
	assert.True(t, dec("30.50").Equal(order.TotalPrice), "total price = %s", order.TotalPrice)
	assert.True(t, order.TotalPrice.Equal(order.ItemsPrice.Add(order.TaxPrice).Add(order.ShippingPrice)))

	// line items snapshot current name and unit price
	assert.Len(t, order.Items, 2)
	assert.Equal(t, "Oxford Shirt", order.Items[0].Name)
	assert.True(t, dec("10.00").Equal(order.Items[0].UnitPrice))
	assert.Equal(t, 2, order.Items[0].Qty)

	orderRepo.AssertExpectations(t)
	productRepo.AssertExpectations(t)
}

func TestCreateOrderTaxRoundsHalfUp(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)

	// 10% of 1.25 is 0.125, which rounds up to 0.13
	p := &model.Product{ID: uuid.New(), Name: "Sticker", Price: dec("1.25"), CountInStock: 10}
	productRepo.On("FindByID", mock.Anything, p.ID).Return(p, nil)
	orderRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Order")).Return(nil)

	svc := newOrderService(orderRepo, productRepo, "10")

	order, err := svc.CreateOrder(context.Background(), uuid.New(),
		[]LineItemInput{{ProductID: p.ID, Qty: 1}},
		model.ShippingAddress{}, decimal.Zero)

	assert.NoError(t, err)
	assert.True(t, dec("0.13").Equal(order.TaxPrice), "tax price = %s", order.TaxPrice)
	assert.True(t, dec("1.38").Equal(order.TotalPrice))
}

func TestCreateOrderValidation(t *testing.T) {
	productID := uuid.New()

	tests := []struct {
		name      string
		items     []LineItemInput
		shipping  decimal.Decimal
		setupMock func(*MockProductRepository)
		wantErr   error
	}{
		{
			name:     "empty cart",
			items:    nil,
			shipping: decimal.Zero,
			wantErr:  apperrors.ErrValidation,
		},
		{
			name:     "zero quantity",
			items:    []LineItemInput{{ProductID: productID, Qty: 0}},
			shipping: decimal.Zero,
			wantErr:  apperrors.ErrValidation,
		},
		{
			name:     "negative shipping",
			items:    []LineItemInput{{ProductID: productID, Qty: 1}},
			shipping: dec("-1"),
			wantErr:  apperrors.ErrValidation,
		},
		{
			name:     "product vanished",
			items:    []LineItemInput{{ProductID: productID, Qty: 1}},
			shipping: decimal.Zero,
			setupMock: func(m *MockProductRepository) {
				m.On("FindByID", mock.Anything, productID).Return(nil, gorm.ErrRecordNotFound)
			},
			wantErr: apperrors.ErrProductNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orderRepo := new(MockOrderRepository)
			productRepo := new(MockProductRepository)
			if tt.setupMock != nil {
				tt.setupMock(productRepo)
			}

			svc := newOrderService(orderRepo, productRepo, "10")
			_, err := svc.CreateOrder(context.Background(), uuid.New(), tt.items, model.ShippingAddress{}, tt.shipping)

			assert.ErrorIs(t, err, tt.wantErr)
			orderRepo.AssertNotCalled(t, "Create")
		})
	}
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)

	p := &model.Product{ID: uuid.New(), Name: "Oxford Shirt", Price: dec("10.00"), CountInStock: 1}
	productRepo.On("FindByID", mock.Anything, p.ID).Return(p, nil)
	orderRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Order")).Return(apperrors.ErrInsufficientStock)

	svc := newOrderService(orderRepo, productRepo, "10")
	_, err := svc.CreateOrder(context.Background(), uuid.New(),
		[]LineItemInput{{ProductID: p.ID, Qty: 5}}, model.ShippingAddress{}, decimal.Zero)

	assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)
}

func TestGetOrderAuthorization(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()
	orderID := uuid.New()
	stored := &model.Order{ID: orderID, UserID: owner}

	tests := []struct {
		name     string
		callerID uuid.UUID
		isAdmin  bool
		wantErr  error
	}{
		{"owner reads own order", owner, false, nil},
		{"admin reads any order", stranger, true, nil},
		{"stranger is forbidden", stranger, false, apperrors.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orderRepo := new(MockOrderRepository)
			productRepo := new(MockProductRepository)
			orderRepo.On("FindByID", mock.Anything, orderID).Return(stored, nil)

			svc := newOrderService(orderRepo, productRepo, "10")
			got, err := svc.GetOrder(context.Background(), orderID, tt.callerID, tt.isAdmin)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, orderID, got.ID)
			}
		})
	}
}

func TestGetOrderNotFound(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	orderID := uuid.New()
	orderRepo.On("FindByID", mock.Anything, orderID).Return(nil, gorm.ErrRecordNotFound)

	svc := newOrderService(orderRepo, productRepo, "10")
	_, err := svc.GetOrder(context.Background(), orderID, uuid.New(), true)

	assert.ErrorIs(t, err, apperrors.ErrOrderNotFound)
}

func TestMarkPaid(t *testing.T) {
	orderID := uuid.New()
	details := PaymentDetails{PaymentID: "PAY-1", Status: "COMPLETED", PayerEmail: "alice@wearhouse.test"}

	t.Run("first transition succeeds", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		productRepo := new(MockProductRepository)
		orderRepo.On("FindByID", mock.Anything, orderID).Return(&model.Order{ID: orderID}, nil)
		orderRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Order")).Return(nil)

		svc := newOrderService(orderRepo, productRepo, "10")
		order, err := svc.MarkPaid(context.Background(), orderID, details)

		assert.NoError(t, err)
		assert.True(t, order.IsPaid)
		assert.NotNil(t, order.PaidAt)
		assert.Equal(t, "PAY-1", order.PaymentResult.PaymentID)
		orderRepo.AssertExpectations(t)
	})

	t.Run("second transition conflicts", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		productRepo := new(MockProductRepository)
		paidAt := time.Now()
		orderRepo.On("FindByID", mock.Anything, orderID).Return(&model.Order{ID: orderID, IsPaid: true, PaidAt: &paidAt}, nil)

		svc := newOrderService(orderRepo, productRepo, "10")
		_, err := svc.MarkPaid(context.Background(), orderID, details)

		assert.ErrorIs(t, err, apperrors.ErrAlreadyPaid)
		orderRepo.AssertNotCalled(t, "Update")
	})
}

func TestMarkDeliveredConflict(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	orderID := uuid.New()
	deliveredAt := time.Now()
	orderRepo.On("FindByID", mock.Anything, orderID).Return(&model.Order{ID: orderID, IsDelivered: true, DeliveredAt: &deliveredAt}, nil)

	svc := newOrderService(orderRepo, productRepo, "10")
	_, err := svc.MarkDelivered(context.Background(), orderID)

	assert.ErrorIs(t, err, apperrors.ErrAlreadyDelivered)
	orderRepo.AssertNotCalled(t, "Update")
}

func TestListOrdersFilters(t *testing.T) {
	mkOrder := func(name, day string) model.Order {
		created, _ := time.Parse("2006-01-02", day)
		return model.Order{
			ID:        uuid.New(),
			CreatedAt: created,
			User:      model.User{Name: name},
		}
	}
	orders := []model.Order{
		mkOrder("Alice", "2024-03-01"),
		mkOrder("Bob", "2024-03-01"),
		mkOrder("alice cooper", "2024-03-02"),
	}

	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	orderRepo.On("ListAll", mock.Anything).Return(orders, nil)

	svc := newOrderService(orderRepo, productRepo, "10")

	byName, err := svc.ListOrders(context.Background(), OrderFilter{Name: "alice"})
	assert.NoError(t, err)
	assert.Len(t, byName, 2)

	byDate, err := svc.ListOrders(context.Background(), OrderFilter{DateFrom: "2024-03-02", DateTo: "2024-03-02"})
	assert.NoError(t, err)
	assert.Len(t, byDate, 1)
	assert.Equal(t, "alice cooper", byDate[0].User.Name)

	both, err := svc.ListOrders(context.Background(), OrderFilter{Name: "alice", DateFrom: "2024-03-01", DateTo: "2024-03-01"})
	assert.NoError(t, err)
	assert.Len(t, both, 1)
	assert.Equal(t, "Alice", both[0].User.Name)
}

func TestMyOrdersScopedToUser(t *testing.T) {
	userID := uuid.New()
	orders := []model.Order{{ID: uuid.New(), UserID: userID, User: model.User{Name: "Alice"}}}

	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	orderRepo.On("ListByUser", mock.Anything, userID).Return(orders, nil)

	svc := newOrderService(orderRepo, productRepo, "10")
	got, err := svc.MyOrders(context.Background(), userID, OrderFilter{})

	assert.NoError(t, err)
	assert.Len(t, got, 1)
	orderRepo.AssertExpectations(t)
}
