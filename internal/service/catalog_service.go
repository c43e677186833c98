package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"wearhouse/internal/cache"
	apperrors "wearhouse/internal/errors"
	"wearhouse/internal/model"
	"wearhouse/internal/query"
	"wearhouse/internal/repository"
)

const productCacheTTL = 5 * time.Minute

// ProductInput carries the mutable fields of a product for create/update.
type ProductInput struct {
	Name         string
	Description  string
	Price        decimal.Decimal
	CountInStock int
	CategoryID   *uuid.UUID
}

// CatalogService handles product and category operations. Admin gating for
// mutations happens at the API surface; the service trusts its caller.
type CatalogService interface {
	ListProducts(ctx context.Context, search string, page int) (query.Page[model.Product], error)
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
	CreateProduct(ctx context.Context, in ProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, in ProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	ListCategories(ctx context.Context) ([]model.Category, error)
	CreateCategory(ctx context.Context, name string) (*model.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, name string) (*model.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	cache        *cache.Client
	pageSize     int
	timeout      time.Duration
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository, cache *cache.Client, pageSize int, timeout time.Duration) CatalogService {
	if pageSize < 1 {
		pageSize = 10
	}
	return &catalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		cache:        cache,
		pageSize:     pageSize,
		timeout:      timeout,
	}
}

func (s *catalogService) productCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("product:%s", id.String())
}

// ListProducts returns one page of products matching the search term,
// newest first. Page numbers are 1-indexed; a page past the end is empty.
func (s *catalogService) ListProducts(ctx context.Context, search string, page int) (query.Page[model.Product], error) {
	ctx, cancel := boundedCtx(ctx, s.timeout)
	defer cancel()

	products, err := s.productRepo.Search(ctx, search)
	if err != nil {
		return query.Page[model.Product]{}, storeErr(err)
	}
	return query.Paginate(products, page, s.pageSize), nil
}

// GetProduct retrieves a product by ID with caching.
func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	ctx, cancel := boundedCtx(ctx, s.timeout)
	defer cancel()

	if data, _ := s.cache.Get(ctx, s.productCacheKey(id)); data != nil {
		var cached model.Product
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, storeErr(err)
	}

	if payload, err := json.Marshal(product); err == nil {
		_ = s.cache.Set(ctx, s.productCacheKey(id), payload, productCacheTTL)
	}
	return product, nil
}

func (s *catalogService) validateProduct(ctx context.Context, in ProductInput) error {
	if in.Name == "" {
		return apperrors.Validation("product name is required")
	}
	if in.Price.IsNegative() {
		return apperrors.Validation("price must be non-negative")
	}
	if in.CountInStock < 0 {
		return apperrors.Validation("count in stock must be non-negative")
	}
	if in.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *in.CategoryID); err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.ErrCategoryNotFound
			}
			return storeErr(err)
		}
	}
	return nil
}

// CreateProduct validates and persists a new product.
func (s *catalogService) CreateProduct(ctx context.Context, in ProductInput) (*model.Product, error) {
	ctx, cancel := boundedCtx(ctx, s.timeout)
	defer cancel()

	if err := s.validateProduct(ctx, in); err != nil {
		return nil, err
	}

	product := &model.Product{
		ID:           uuid.New(),
		Name:         in.Name,
		Description:  in.Description,
		Price:        in.Price,
		CountInStock: in.CountInStock,
		CategoryID:   in.CategoryID,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, storeErr(fmt.Errorf("create product: %w", err))
	}
	return product, nil
}

// UpdateProduct validates and applies new field values to a product.
// Existing order line items keep their snapshots regardless.
func (s *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, in ProductInput) (*model.Product, error) {
	ctx, cancel := boundedCtx(ctx, s.timeout)
	defer cancel()

	if err := s.validateProduct(ctx, in); err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, storeErr(err)
	}

	product.Name = in.Name
	product.Description = in.Description
	product.Price = in.Price
	product.CountInStock = in.CountInStock
	product.CategoryID = in.CategoryID
	product.Category = nil

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, storeErr(fmt.Errorf("update product: %w", err))
	}

	_ = s.cache.Delete(ctx, s.productCacheKey(id))
	return product, nil
}

// DeleteProduct removes a product. Repeated deletes on a missing id are an
// error, not a no-op, to surface client bugs.
func (s *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := boundedCtx(ctx, s.timeout)
	defer cancel()

	if err := s.productRepo.Delete(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrProductNotFound
		}
		return storeErr(err)
	}
	_ = s.cache.Delete(ctx, s.productCacheKey(id))
	return nil
}

// ListCategories returns all categories.
func (s *catalogService) ListCategories(ctx context.Context) ([]model.Category, error) {
	ctx, cancel := boundedCtx(ctx, s.timeout)
	defer cancel()

	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	return categories, nil
}

// CreateCategory validates and persists a new category.
func (s *catalogService) CreateCategory(ctx context.Context, name string) (*model.Category, error) {
	if name == "" {
		return nil, apperrors.Validation("category name is required")
	}

	ctx, cancel := boundedCtx(ctx, s.timeout)
	defer cancel()

	category := &model.Category{ID: uuid.New(), Name: name}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, storeErr(fmt.Errorf("create category: %w", err))
	}
	return category, nil
}

// UpdateCategory renames a category.
func (s *catalogService) UpdateCategory(ctx context.Context, id uuid.UUID, name string) (*model.Category, error) {
	if name == "" {
		return nil, apperrors.Validation("category name is required")
	}

	ctx, cancel := boundedCtx(ctx, s.timeout)
	defer cancel()

	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, storeErr(err)
	}

	category.Name = name
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, storeErr(fmt.Errorf("update category: %w", err))
	}
	return category, nil
}

// DeleteCategory removes a category. Products referencing it become
// uncategorized via the nullable foreign key.
func (s *catalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := boundedCtx(ctx, s.timeout)
	defer cancel()

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrCategoryNotFound
		}
		return storeErr(err)
	}
	return nil
}
