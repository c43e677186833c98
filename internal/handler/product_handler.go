package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"wearhouse/internal/errors"
	"wearhouse/internal/model"
	"wearhouse/internal/service"
)

// ProductHandler handles catalog product endpoints.
type ProductHandler struct {
	catalogService service.CatalogService
}

// NewProductHandler creates a new product handler.
func NewProductHandler(catalogService service.CatalogService) *ProductHandler {
	return &ProductHandler{catalogService: catalogService}
}

// ProductRequest represents a product create/update request.
type ProductRequest struct {
	Name         string  `json:"name" validate:"required"`
	Description  string  `json:"description"`
	Price        string  `json:"price" validate:"required"`
	CountInStock int     `json:"count_in_stock" validate:"min=0"`
	CategoryID   *string `json:"category_id"`
}

// ProductListResponse is one page of products.
type ProductListResponse struct {
	Products []model.Product `json:"products"`
	Page     int             `json:"page"`
	Pages    int             `json:"pages"`
}

func (r *ProductRequest) toInput() (service.ProductInput, error) {
	price, err := decimal.NewFromString(r.Price)
	if err != nil {
		return service.ProductInput{}, errors.Validation("invalid price")
	}
	in := service.ProductInput{
		Name:         r.Name,
		Description:  r.Description,
		Price:        price,
		CountInStock: r.CountInStock,
	}
	if r.CategoryID != nil && *r.CategoryID != "" {
		catID, err := uuid.Parse(*r.CategoryID)
		if err != nil {
			return service.ProductInput{}, errors.Validation("invalid category_id")
		}
		in.CategoryID = &catID
	}
	return in, nil
}

// List godoc
// @Summary List products with search and pagination
// @Tags products
// @Produce json
// @Param search query string false "Name filter (case-insensitive substring)"
// @Param page query int false "1-indexed page number"
// @Success 200 {object} ProductListResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /products [get]
func (h *ProductHandler) List(c echo.Context) error {
	search := c.QueryParam("search")
	page := 1
	if p := c.QueryParam("page"); p != "" {
		parsed, err := strconv.Atoi(p)
		if err != nil || parsed < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "page must be a positive integer",
				Code:  "VALIDATION_ERROR",
			})
		}
		page = parsed
	}

	result, err := h.catalogService.ListProducts(c.Request().Context(), search, page)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, ProductListResponse{
		Products: result.Items,
		Page:     result.Page,
		Pages:    result.Pages,
	})
}

// Get godoc
// @Summary Get one product
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} model.Product
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid product id",
			Code:  "INVALID_UUID",
		})
	}

	product, serr := h.catalogService.GetProduct(c.Request().Context(), id)
	if serr != nil {
		httpErr := errors.MapErrorToHTTP(serr)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, product)
}

// Create godoc
// @Summary Create a product (admin)
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ProductRequest true "Product data"
// @Success 201 {object} model.Product
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	in, err := req.toInput()
	if err == nil {
		var product *model.Product
		product, err = h.catalogService.CreateProduct(c.Request().Context(), in)
		if err == nil {
			return c.JSON(http.StatusCreated, product)
		}
	}
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// Update godoc
// @Summary Update a product (admin)
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param request body ProductRequest true "Product data"
// @Success 200 {object} model.Product
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid product id",
			Code:  "INVALID_UUID",
		})
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	in, serr := req.toInput()
	if serr == nil {
		var product *model.Product
		product, serr = h.catalogService.UpdateProduct(c.Request().Context(), id, in)
		if serr == nil {
			return c.JSON(http.StatusOK, product)
		}
	}
	httpErr := errors.MapErrorToHTTP(serr)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// Delete godoc
// @Summary Delete a product (admin)
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid product id",
			Code:  "INVALID_UUID",
		})
	}

	if serr := h.catalogService.DeleteProduct(c.Request().Context(), id); serr != nil {
		httpErr := errors.MapErrorToHTTP(serr)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "product removed"})
}
