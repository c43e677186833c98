package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"wearhouse/internal/errors"
	"wearhouse/internal/model"
	"wearhouse/internal/service"
)

// OrderHandler handles order ledger endpoints.
type OrderHandler struct {
	orderService service.OrderService
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// OrderItemRequest is one cart line in an order creation request.
type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Qty       int    `json:"qty" validate:"required,min=1"`
}

// CreateOrderRequest represents an order creation request.
type CreateOrderRequest struct {
	Items           []OrderItemRequest    `json:"items" validate:"required,min=1,dive"`
	ShippingAddress model.ShippingAddress `json:"shipping_address"`
	ShippingPrice   string                `json:"shipping_price" validate:"required"`
}

// PayOrderRequest carries the external payment collaborator's confirmation.
type PayOrderRequest struct {
	PaymentID  string `json:"payment_id" validate:"required"`
	Status     string `json:"status" validate:"required"`
	UpdateTime string `json:"update_time"`
	PayerEmail string `json:"payer_email"`
}

func orderFilter(c echo.Context) service.OrderFilter {
	f := service.OrderFilter{
		Name:     c.QueryParam("search"),
		DateFrom: c.QueryParam("date_from"),
		DateTo:   c.QueryParam("date_to"),
	}
	// single-day shorthand
	if d := c.QueryParam("date"); d != "" {
		f.DateFrom, f.DateTo = d, d
	}
	return f
}

// Create godoc
// @Summary Create an order from the caller's cart
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateOrderRequest true "Order data"
// @Success 201 {object} model.Order
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	userID, _, err := CurrentUserID(c)
	if err != nil {
		return err
	}

	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	shippingPrice, perr := decimal.NewFromString(req.ShippingPrice)
	if perr != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid shipping_price",
			Code:  "VALIDATION_ERROR",
		})
	}

	items := make([]service.LineItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		productID, perr := uuid.Parse(it.ProductID)
		if perr != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "invalid product_id",
				Code:  "INVALID_UUID",
			})
		}
		items = append(items, service.LineItemInput{ProductID: productID, Qty: it.Qty})
	}

	order, serr := h.orderService.CreateOrder(c.Request().Context(), userID, items, req.ShippingAddress, shippingPrice)
	if serr != nil {
		httpErr := errors.MapErrorToHTTP(serr)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, order)
}

// Get godoc
// @Summary Get one order (owner or admin)
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} model.Order
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /orders/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	callerID, claims, err := CurrentUserID(c)
	if err != nil {
		return err
	}

	id, perr := uuid.Parse(c.Param("id"))
	if perr != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid order id",
			Code:  "INVALID_UUID",
		})
	}

	order, serr := h.orderService.GetOrder(c.Request().Context(), id, callerID, claims.IsAdmin)
	if serr != nil {
		httpErr := errors.MapErrorToHTTP(serr)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, order)
}

// MyOrders godoc
// @Summary List the caller's own orders
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param search query string false "User name filter"
// @Param date query string false "Creation day (YYYY-MM-DD)"
// @Success 200 {array} model.Order
// @Failure 401 {object} errors.ErrorResponse
// @Router /orders/myorders [get]
func (h *OrderHandler) MyOrders(c echo.Context) error {
	userID, _, err := CurrentUserID(c)
	if err != nil {
		return err
	}

	orders, serr := h.orderService.MyOrders(c.Request().Context(), userID, orderFilter(c))
	if serr != nil {
		httpErr := errors.MapErrorToHTTP(serr)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, orders)
}

// List godoc
// @Summary List all orders (admin)
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param search query string false "User name filter"
// @Param date query string false "Creation day (YYYY-MM-DD)"
// @Success 200 {array} model.Order
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	orders, err := h.orderService.ListOrders(c.Request().Context(), orderFilter(c))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, orders)
}

// Pay godoc
// @Summary Mark an order as paid
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param request body PayOrderRequest true "Payment result"
// @Success 200 {object} model.Order
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /orders/{id}/pay [put]
func (h *OrderHandler) Pay(c echo.Context) error {
	id, perr := uuid.Parse(c.Param("id"))
	if perr != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid order id",
			Code:  "INVALID_UUID",
		})
	}

	var req PayOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	order, serr := h.orderService.MarkPaid(c.Request().Context(), id, service.PaymentDetails{
		PaymentID:  req.PaymentID,
		Status:     req.Status,
		UpdateTime: req.UpdateTime,
		PayerEmail: req.PayerEmail,
	})
	if serr != nil {
		httpErr := errors.MapErrorToHTTP(serr)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, order)
}

// Deliver godoc
// @Summary Mark an order as delivered (admin)
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} model.Order
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /orders/{id}/deliver [put]
func (h *OrderHandler) Deliver(c echo.Context) error {
	id, perr := uuid.Parse(c.Param("id"))
	if perr != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid order id",
			Code:  "INVALID_UUID",
		})
	}

	order, serr := h.orderService.MarkDelivered(c.Request().Context(), id)
	if serr != nil {
		httpErr := errors.MapErrorToHTTP(serr)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, order)
}
