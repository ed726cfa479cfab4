package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"restopos/internal/domain/entity"
	"restopos/internal/domain/enum"
	domainRepo "restopos/internal/domain/repository"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) domainRepo.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

func (r *productRepository) GetByName(ctx context.Context, name string) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).First(&product, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// DeleteCascade removes a product with its menu assignments and promotion
// links in one transaction, dependents first. Returns gorm.ErrRecordNotFound
// when the product does not exist so callers can map it to a 404.
func (r *productRepository) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product entity.Product
		if err := tx.First(&product, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&entity.MenuAssignment{}, "product_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&entity.PromotionProduct{}, "product_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&product).Error
	})
}

func (r *productRepository) List(ctx context.Context, params *domainRepo.ProductFilterParams) ([]entity.Product, int64, error) {
	var products []entity.Product
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Product{})

	if params.Search != "" {
		// LOWER/LIKE instead of ILIKE so the query also runs on SQLite
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+params.Search+"%")
	}

	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("name ASC").
		Find(&products).Error

	return products, total, err
}

func (r *productRepository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).Model(&entity.Product{}).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error
	return categories, err
}

type mealTypeRepository struct {
	db *gorm.DB
}

// NewMealTypeRepository creates a new meal type repository
func NewMealTypeRepository(db *gorm.DB) domainRepo.MealTypeRepository {
	return &mealTypeRepository{db: db}
}

func (r *mealTypeRepository) Create(ctx context.Context, mealType *entity.MealType) error {
	return r.db.WithContext(ctx).Create(mealType).Error
}

func (r *mealTypeRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.MealType, error) {
	var mealType entity.MealType
	err := r.db.WithContext(ctx).First(&mealType, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &mealType, err
}

func (r *mealTypeRepository) GetByName(ctx context.Context, name string) (*entity.MealType, error) {
	var mealType entity.MealType
	err := r.db.WithContext(ctx).First(&mealType, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &mealType, err
}

func (r *mealTypeRepository) List(ctx context.Context) ([]entity.MealType, error) {
	var mealTypes []entity.MealType
	err := r.db.WithContext(ctx).
		Order("sort_order ASC, name ASC").
		Find(&mealTypes).Error
	return mealTypes, err
}

type menuRepository struct {
	db *gorm.DB
}

// NewMenuRepository creates a new day-menu assignment repository
func NewMenuRepository(db *gorm.DB) domainRepo.MenuRepository {
	return &menuRepository{db: db}
}

func (r *menuRepository) Assign(ctx context.Context, assignment *entity.MenuAssignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *menuRepository) Unassign(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&entity.MenuAssignment{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *menuRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	result := r.db.WithContext(ctx).Model(&entity.MenuAssignment{}).
		Where("id = ?", id).
		Update("active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *menuRepository) ListDay(ctx context.Context, weekday enum.Weekday, mealTypeID *uuid.UUID) ([]entity.Product, error) {
	var products []entity.Product

	query := r.db.WithContext(ctx).Model(&entity.Product{}).
		Joins("JOIN menu_assignments ON menu_assignments.product_id = products.id").
		Where("menu_assignments.weekday = ? AND menu_assignments.active = ?", weekday, true)

	if mealTypeID != nil {
		query = query.Where("menu_assignments.meal_type_id = ?", *mealTypeID)
	}

	err := query.Order("products.name ASC").Find(&products).Error
	return products, err
}

func (r *menuRepository) ListAssignments(ctx context.Context, weekday enum.Weekday) ([]entity.MenuAssignment, error) {
	var assignments []entity.MenuAssignment
	err := r.db.WithContext(ctx).
		Preload("MealType").
		Preload("Product").
		Where("weekday = ?", weekday).
		Order("created_at ASC").
		Find(&assignments).Error
	return assignments, err
}
