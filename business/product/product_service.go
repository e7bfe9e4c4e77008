package product

import (
	"context"
	"fmt"
	"myShopHub/domain"
	"myShopHub/pkg/logger"
	"strings"
)

// ProductRepository contract interface
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id uint) (domain.Product, error)
	FindAll(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uint) error
}

// FileRemover deletes uploaded images that are no longer referenced.
type FileRemover interface {
	Remove(publicPath string) error
}

type productService struct {
	productRepo ProductRepository
	files       FileRemover
}

func NewProductService(productRepo ProductRepository, files FileRemover) *productService {
	return &productService{
		productRepo: productRepo,
		files:       files,
	}
}

// ProductInput carries create and partial update fields. Nil pointers keep
// the current value on update.
type ProductInput struct {
	Name        *string
	Description *string
	Price       *float64
	InStock     *bool
	Category    *string
	Image       string
}

// ParseCategory maps the listing filter: empty and "all" mean no filter.
func ParseCategory(raw string) (domain.Category, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "all") {
		return "", nil
	}

	category := domain.Category(raw)
	if !category.Valid() {
		return "", domain.ErrInvalidCategory
	}

	return category, nil
}

func (s *productService) GetAllProducts(ctx context.Context, category string) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get all product")
		return nil, fmt.Errorf("context error: %w", err)
	}

	filter, err := ParseCategory(category)
	if err != nil {
		return nil, err
	}

	products, err := s.productRepo.FindAll(ctx, domain.ProductFilter{Category: filter})
	if err != nil {
		logger.Error("Failed to find all product", err)
		return nil, err
	}

	return products, nil
}

func (s *productService) GetProductByID(ctx context.Context, id uint) (domain.Product, error) {
	if id == 0 {
		return domain.Product{}, domain.ErrProductNotFound
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("failed to find product by id", err)
		return domain.Product{}, err
	}

	return product, nil
}

func (s *productService) Categories() []domain.Category {
	out := make([]domain.Category, len(domain.Categories))
	copy(out, domain.Categories)
	return out
}

func (s *productService) CreateProduct(ctx context.Context, input ProductInput) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when create product")
		return domain.Product{}, fmt.Errorf("context error: %w", err)
	}

	product := domain.Product{
		InStock:  true,
		Category: domain.DefaultCategory,
		Image:    input.Image,
	}
	if err := apply(&product, input); err != nil {
		return domain.Product{}, err
	}

	if product.Name == "" {
		return domain.Product{}, fmt.Errorf("product name is required: %w", domain.ErrValidation)
	}

	if input.Price == nil {
		return domain.Product{}, fmt.Errorf("product price is required: %w", domain.ErrValidation)
	}

	if product.Image == "" {
		return domain.Product{}, fmt.Errorf("product image is required: %w", domain.ErrValidation)
	}

	if err := s.productRepo.Create(ctx, &product); err != nil {
		logger.Error("failed to create new product", err)
		return domain.Product{}, err
	}

	logger.Info("product created successfully", "product_id", product.ID)

	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id uint, input ProductInput) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when updating product")
		return domain.Product{}, fmt.Errorf("context error: %w", err)
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("product not found", err)
		return domain.Product{}, err
	}

	oldImage := product.Image
	if err := apply(&product, input); err != nil {
		return domain.Product{}, err
	}
	if input.Image != "" {
		product.Image = input.Image
	}

	if err := s.productRepo.Update(ctx, &product); err != nil {
		logger.Error("failed to update product", err)
		return domain.Product{}, err
	}

	if input.Image != "" && oldImage != input.Image && s.files != nil {
		if err := s.files.Remove(oldImage); err != nil {
			logger.Warn("failed to remove old product image", err)
		}
	}

	logger.Info("product updated success", "product_id", product.ID)

	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id uint) error {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when deleting product")
		return fmt.Errorf("context error: %w", err)
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("product not found", err)
		return err
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		logger.Error("failed to delete product", err)
		return err
	}

	if s.files != nil {
		if err := s.files.Remove(product.Image); err != nil {
			logger.Warn("failed to remove product image", err)
		}
	}

	logger.Info("product deleted success", "product_id", id)

	return nil
}

func apply(product *domain.Product, input ProductInput) error {
	if input.Name != nil {
		if name := strings.TrimSpace(*input.Name); name != "" {
			product.Name = name
		}
	}

	if input.Description != nil {
		product.Description = strings.TrimSpace(*input.Description)
	}

	if input.Price != nil {
		if *input.Price < 0 {
			return fmt.Errorf("price cannot be negative: %w", domain.ErrValidation)
		}
		product.Price = *input.Price
	}

	if input.InStock != nil {
		product.InStock = *input.InStock
	}

	if input.Category != nil && *input.Category != "" {
		category := domain.Category(*input.Category)
		if !category.Valid() {
			return domain.ErrInvalidCategory
		}
		product.Category = category
	}

	return nil
}
