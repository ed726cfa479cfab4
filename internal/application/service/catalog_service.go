package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"restopos/internal/domain/entity"
	"restopos/internal/domain/enum"
	"restopos/internal/domain/repository"
	"restopos/pkg/apperror"
	"restopos/pkg/pagination"
)

// CatalogService handles product, meal-type and day-menu operations
type CatalogService struct {
	productRepo  repository.ProductRepository
	mealTypeRepo repository.MealTypeRepository
	menuRepo     repository.MenuRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	productRepo repository.ProductRepository,
	mealTypeRepo repository.MealTypeRepository,
	menuRepo repository.MenuRepository,
) *CatalogService {
	return &CatalogService{
		productRepo:  productRepo,
		mealTypeRepo: mealTypeRepo,
		menuRepo:     menuRepo,
	}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	Name        string
	Price       float64
	Category    string
	Description string
	Image       *string
}

func validateProductFields(name string, price float64) []apperror.FieldError {
	var fieldErrors []apperror.FieldError
	if strings.TrimSpace(name) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "Name must not be empty"})
	}
	if price < 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "price", Message: "Price must not be negative"})
	}
	return fieldErrors
}

// CreateProduct creates a new catalog product
func (s *CatalogService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	if fieldErrors := validateProductFields(input.Name, input.Price); fieldErrors != nil {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	name := strings.TrimSpace(input.Name)
	existing, err := s.productRepo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Product name already exists")
	}

	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = "General"
	}

	product := &entity.Product{
		Name:        name,
		Category:    category,
		Description: input.Description,
		Image:       input.Image,
	}
	product.SetPriceFromDecimal(input.Price)

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, apperror.NewStoreError("product create", err)
	}
	return product, nil
}

// GetProduct retrieves a product by ID
func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// UpdateProductInput represents the update product input; nil fields keep
// their current values.
type UpdateProductInput struct {
	Name        *string
	Price       *float64
	Category    *string
	Description *string
	Image       *string
}

// UpdateProduct applies a partial update to a product
func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	name := product.Name
	price := product.GetPriceDecimal()
	if input.Name != nil {
		name = *input.Name
	}
	if input.Price != nil {
		price = *input.Price
	}
	if fieldErrors := validateProductFields(name, price); fieldErrors != nil {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		if trimmed != product.Name {
			existing, err := s.productRepo.GetByName(ctx, trimmed)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != product.ID {
				return nil, apperror.NewConflictError("Product name already exists")
			}
			product.Name = trimmed
		}
	}
	if input.Price != nil {
		product.SetPriceFromDecimal(*input.Price)
	}
	if input.Category != nil && strings.TrimSpace(*input.Category) != "" {
		product.Category = strings.TrimSpace(*input.Category)
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Image != nil {
		product.Image = input.Image
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, apperror.NewStoreError("product update", err)
	}
	return product, nil
}

// DeleteProduct removes a product together with its menu assignments and
// promotion links. Deleting a missing product is a not-found error and
// leaves the catalog untouched.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	err := s.productRepo.DeleteCascade(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NewNotFoundError("Product")
	}
	if err != nil {
		return apperror.NewStoreError("product delete", err)
	}
	return nil
}

// ListProducts lists catalog products with filtering
func (s *CatalogService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// ListCategories returns the distinct category labels in use
func (s *CatalogService) ListCategories(ctx context.Context) ([]string, error) {
	return s.productRepo.Categories(ctx)
}

// ListMealTypes returns the configured meal slots in menu order
func (s *CatalogService) ListMealTypes(ctx context.Context) ([]entity.MealType, error) {
	return s.mealTypeRepo.List(ctx)
}

// AssignToDay places a product on the menu for one (weekday, meal type)
// slot. The same product may appear in several slots; the same slot twice is
// a conflict.
func (s *CatalogService) AssignToDay(ctx context.Context, productID, mealTypeID uuid.UUID, weekday enum.Weekday) (*entity.MenuAssignment, error) {
	if !weekday.Valid() {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "weekday", Message: "Weekday must be between 1 (Monday) and 7 (Sunday)"},
		})
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	mealType, err := s.mealTypeRepo.GetByID(ctx, mealTypeID)
	if err != nil {
		return nil, err
	}
	if mealType == nil {
		return nil, apperror.NewNotFoundError("Meal type")
	}

	existing, err := s.menuRepo.ListAssignments(ctx, weekday)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if existing[i].ProductID == productID && existing[i].MealTypeID == mealTypeID {
			return nil, apperror.NewConflictError("Product is already assigned to this slot")
		}
	}

	assignment := &entity.MenuAssignment{
		ProductID:  productID,
		MealTypeID: mealTypeID,
		Weekday:    weekday,
		Active:     true,
	}
	if err := s.menuRepo.Assign(ctx, assignment); err != nil {
		return nil, apperror.NewStoreError("menu assign", err)
	}
	return assignment, nil
}

// UnassignFromDay removes a menu assignment
func (s *CatalogService) UnassignFromDay(ctx context.Context, assignmentID uuid.UUID) error {
	err := s.menuRepo.Unassign(ctx, assignmentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NewNotFoundError("Menu assignment")
	}
	return err
}

// SetAssignmentActive toggles an assignment without removing it, so a dish
// can be paused for a day and restored later.
func (s *CatalogService) SetAssignmentActive(ctx context.Context, assignmentID uuid.UUID, active bool) error {
	err := s.menuRepo.SetActive(ctx, assignmentID, active)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NewNotFoundError("Menu assignment")
	}
	return err
}

// GetDayMenu returns the active products for a weekday, optionally limited
// to one meal type.
func (s *CatalogService) GetDayMenu(ctx context.Context, weekday enum.Weekday, mealTypeID *uuid.UUID) ([]entity.Product, error) {
	if !weekday.Valid() {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "weekday", Message: "Weekday must be between 1 (Monday) and 7 (Sunday)"},
		})
	}
	return s.menuRepo.ListDay(ctx, weekday, mealTypeID)
}

// ListAssignments returns all assignments for a weekday including inactive
// ones, for the menu management screen.
func (s *CatalogService) ListAssignments(ctx context.Context, weekday enum.Weekday) ([]entity.MenuAssignment, error) {
	if !weekday.Valid() {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "weekday", Message: "Weekday must be between 1 (Monday) and 7 (Sunday)"},
		})
	}
	return s.menuRepo.ListAssignments(ctx, weekday)
}
