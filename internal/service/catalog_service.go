package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mercadito/backend/internal/entity"
	"github.com/mercadito/backend/internal/repository"
)

// CatalogService exposes the product catalog, customer side and admin side.
type CatalogService struct {
	productRepo repository.ProductRepository
}

func NewCatalogService(productRepo repository.ProductRepository) *CatalogService {
	return &CatalogService{productRepo: productRepo}
}

// ActiveProducts returns the customer-facing catalog (soft-deleted products
// excluded).
func (s *CatalogService) ActiveProducts(ctx context.Context) ([]entity.Product, error) {
	return s.productRepo.FindActive(ctx)
}

// AllProducts returns every product including inactive ones, for the admin
// dashboard.
func (s *CatalogService) AllProducts(ctx context.Context) ([]entity.Product, error) {
	return s.productRepo.FindAll(ctx)
}

func (s *CatalogService) Product(ctx context.Context, id string) (*entity.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

func (s *CatalogService) Categories(ctx context.Context) ([]entity.Category, error) {
	return s.productRepo.Categories(ctx)
}

// ProductInput is the admin create/edit payload.
type ProductInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Stock       int    `json:"stock"`
	ImageURL    string `json:"image_url"`
	CategoryID  string `json:"category_id"`
	IsActive    bool   `json:"is_active"`
}

func (in *ProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return &InputError{Field: "name", Message: "name is required"}
	}
	if in.Price < 0 {
		return &InputError{Field: "price", Message: "price cannot be negative"}
	}
	if in.Stock < 0 {
		return &InputError{Field: "stock", Message: "stock cannot be negative"}
	}
	return nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*entity.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p := &entity.Product{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		ImageURL:    in.ImageURL,
		CategoryID:  in.CategoryID,
		IsActive:    true,
		CreatedAt:   time.Now(),
	}
	if err := s.productRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id string, in ProductInput) (*entity.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Name = in.Name
	p.Description = in.Description
	p.Price = in.Price
	p.Stock = in.Stock
	p.ImageURL = in.ImageURL
	p.CategoryID = in.CategoryID
	p.IsActive = in.IsActive
	if err := s.productRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteProduct soft-deletes: the row stays so order items keep a valid
// reference, it just disappears from the customer catalog.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	return s.productRepo.Deactivate(ctx, id)
}

// InputError is a client-side validation failure.
type InputError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *InputError) Error() string {
	return e.Field + ": " + e.Message
}
