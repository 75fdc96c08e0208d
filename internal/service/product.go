package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/menstyle/storefront/internal/domain"
	"github.com/menstyle/storefront/internal/repository"
	"github.com/menstyle/storefront/internal/storage"
	apperrors "github.com/menstyle/storefront/pkg/errors"
	"github.com/menstyle/storefront/pkg/slug"
	"github.com/menstyle/storefront/pkg/validator"
)

// CreateProductInput holds the fields for adding a catalog product.
type CreateProductInput struct {
	Name        string   `json:"name" validate:"required,min=1,max=500"`
	Description string   `json:"description" validate:"max=5000"`
	Price       int64    `json:"price" validate:"required,gt=0"`
	Sizes       []string `json:"sizes" validate:"required,min=1,dive,required"`
	Stock       int      `json:"stock" validate:"gte=0"`
	ImageURL    string   `json:"image_url"`
	Category    string   `json:"category" validate:"required"`
}

// UpdateProductInput holds the replaceable fields of a catalog product.
type UpdateProductInput struct {
	Name        string   `json:"name" validate:"required,min=1,max=500"`
	Description string   `json:"description" validate:"max=5000"`
	Price       int64    `json:"price" validate:"required,gt=0"`
	Sizes       []string `json:"sizes" validate:"required,min=1,dive,required"`
	Stock       int      `json:"stock" validate:"gte=0"`
	ImageURL    string   `json:"image_url"`
	Category    string   `json:"category" validate:"required"`
}

// StockEventPublisher is the subset of the event producer the product service
// uses.
type StockEventPublisher interface {
	PublishStockUpdated(ctx context.Context, productID string, oldStock, newStock int, orderID string) error
}

// ProductService implements catalog and inventory business logic.
type ProductService struct {
	repo     repository.ProductRepository
	store    storage.Storage
	producer StockEventPublisher
	logger   *slog.Logger
}

// NewProductService creates a new product service.
func NewProductService(repo repository.ProductRepository, store storage.Storage, producer StockEventPublisher, logger *slog.Logger) *ProductService {
	return &ProductService{
		repo:     repo,
		store:    store,
		producer: producer,
		logger:   logger,
	}
}

// List returns catalog products matching the filter with the total count.
func (s *ProductService) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	return products, total, nil
}

// GetByID retrieves a single product.
func (s *ProductService) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return product, nil
}

// Featured returns the most recently added in-stock products for the home page.
func (s *ProductService) Featured(ctx context.Context, limit int) ([]domain.Product, error) {
	products, err := s.repo.Featured(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("featured products: %w", err)
	}
	return products, nil
}

// Categories returns the distinct category names in the catalog.
func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// Create adds a product to the catalog. The slug is derived from the name.
func (s *ProductService) Create(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:          uuid.New().String(),
		Name:        input.Name,
		Slug:        slug.Generate(input.Name),
		Description: input.Description,
		Price:       input.Price,
		Sizes:       input.Sizes,
		Stock:       input.Stock,
		ImageURL:    input.ImageURL,
		Category:    input.Category,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID),
		slog.String("slug", product.Slug),
	)

	return product, nil
}

// Update replaces the mutable fields of a product. The slug follows the name.
func (s *ProductService) Update(ctx context.Context, id string, input UpdateProductInput) (*domain.Product, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Slug = slug.Generate(input.Name)
	product.Description = input.Description
	product.Price = input.Price
	product.Sizes = input.Sizes
	product.Stock = input.Stock
	product.ImageURL = input.ImageURL
	product.Category = input.Category
	product.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.logger.InfoContext(ctx, "product updated",
		slog.String("product_id", product.ID),
	)

	return product, nil
}

// Delete removes a product from the catalog.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("product id is required")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "product deleted",
		slog.String("product_id", id),
	)

	return nil
}

// UpdateStock writes an absolute stock figure and publishes the change.
func (s *ProductService) UpdateStock(ctx context.Context, id string, stock int) (*domain.Product, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if stock < 0 {
		return nil, apperrors.InvalidInput("stock must not be negative")
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	oldStock := product.Stock

	if err := s.repo.UpdateStock(ctx, id, stock); err != nil {
		return nil, fmt.Errorf("update stock: %w", err)
	}
	product.Stock = stock

	if err := s.producer.PublishStockUpdated(ctx, id, oldStock, stock, ""); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish stock.updated event",
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "stock updated",
		slog.String("product_id", id),
		slog.Int("old_stock", oldStock),
		slog.Int("new_stock", stock),
	)

	return product, nil
}

// UpdatePrice writes a new price in cents.
func (s *ProductService) UpdatePrice(ctx context.Context, id string, price int64) (*domain.Product, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if price <= 0 {
		return nil, apperrors.InvalidInput("price must be positive")
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdatePrice(ctx, id, price); err != nil {
		return nil, fmt.Errorf("update price: %w", err)
	}
	product.Price = price
	product.UpdatedAt = time.Now().UTC()

	s.logger.InfoContext(ctx, "price updated",
		slog.String("product_id", id),
		slog.Int64("price", price),
	)

	return product, nil
}

// UploadImage stores a product image in the hosted bucket and returns its
// public URL. The key is timestamp-derived, keeping the original filename's
// extension. The product record is not touched; the caller sends the URL back
// through Create or Update.
func (s *ProductService) UploadImage(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	if filename == "" {
		return "", apperrors.InvalidInput("filename is required")
	}

	key := fmt.Sprintf("%d%s", time.Now().UnixMilli(), path.Ext(filename))

	result, err := s.store.Upload(ctx, &storage.UploadInput{
		Key:         key,
		ContentType: contentType,
		Data:        body,
	})
	if err != nil {
		return "", fmt.Errorf("upload product image: %w", err)
	}

	s.logger.InfoContext(ctx, "product image uploaded",
		slog.String("key", result.Key),
	)

	return result.URL, nil
}
