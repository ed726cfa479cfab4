package repository

import (
	"context"

	"github.com/google/uuid"

	"restopos/internal/domain/entity"
	"restopos/internal/domain/enum"
	"restopos/pkg/pagination"
)

// ProductRepository defines the interface for catalog data operations
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	GetByName(ctx context.Context, name string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	// DeleteCascade removes the product together with its menu assignments
	// and promotion links in one transaction. The dependents go first; the
	// database schema carries no cascading constraints.
	DeleteCascade(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *ProductFilterParams) ([]entity.Product, int64, error)
	Categories(ctx context.Context) ([]string, error)
}

// ProductFilterParams contains filtering parameters for catalog queries
type ProductFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Category   string
}

// MealTypeRepository defines the interface for meal type data operations
type MealTypeRepository interface {
	Create(ctx context.Context, mealType *entity.MealType) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.MealType, error)
	GetByName(ctx context.Context, name string) (*entity.MealType, error)
	List(ctx context.Context) ([]entity.MealType, error)
}

// MenuRepository defines the interface for day-menu assignment operations
type MenuRepository interface {
	Assign(ctx context.Context, assignment *entity.MenuAssignment) error
	Unassign(ctx context.Context, id uuid.UUID) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	// ListDay returns the products assigned and active for the given
	// weekday, optionally restricted to one meal type.
	ListDay(ctx context.Context, weekday enum.Weekday, mealTypeID *uuid.UUID) ([]entity.Product, error)
	ListAssignments(ctx context.Context, weekday enum.Weekday) ([]entity.MenuAssignment, error)
}
