package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"restopos/internal/domain/entity"
	domainRepo "restopos/internal/domain/repository"
)

type promotionRepository struct {
	db *gorm.DB
}

// NewPromotionRepository creates a new promotion repository
func NewPromotionRepository(db *gorm.DB) domainRepo.PromotionRepository {
	return &promotionRepository{db: db}
}

func (r *promotionRepository) Create(ctx context.Context, promotion *entity.Promotion) error {
	return r.db.WithContext(ctx).Create(promotion).Error
}

func (r *promotionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Promotion, error) {
	var promotion entity.Promotion
	err := r.db.WithContext(ctx).
		Preload("Products").
		First(&promotion, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &promotion, err
}

func (r *promotionRepository) Update(ctx context.Context, promotion *entity.Promotion) error {
	return r.db.WithContext(ctx).Save(promotion).Error
}

// dayBounds returns [midnight, next midnight) for the given day so window
// comparisons bind real timestamps. Both endpoints stay inclusive at day
// precision: a promotion starting any time on `day` satisfies start_date < to,
// one ending at midnight of `day` still satisfies end_date >= from.
func dayBounds(day time.Time) (from, to time.Time) {
	from = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return from, from.AddDate(0, 0, 1)
}

func (r *promotionRepository) ListActive(ctx context.Context, day time.Time) ([]entity.Promotion, error) {
	var promotions []entity.Promotion
	from, to := dayBounds(day)
	err := r.db.WithContext(ctx).
		Where("active = ? AND start_date < ? AND end_date >= ?", true, to, from).
		Order("created_at ASC").
		Find(&promotions).Error
	return promotions, err
}

func (r *promotionRepository) LinkProduct(ctx context.Context, link *entity.PromotionProduct) error {
	return r.db.WithContext(ctx).Create(link).Error
}

func (r *promotionRepository) UnlinkProduct(ctx context.Context, promotionID, productID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&entity.PromotionProduct{}, "promotion_id = ? AND product_id = ?", promotionID, productID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MatchesForProduct returns the applicable links ordered so the first row is
// the winner: highest discount first, ties broken by older promotion, then id.
func (r *promotionRepository) MatchesForProduct(ctx context.Context, productID uuid.UUID, day time.Time) ([]entity.PromotionProduct, error) {
	var links []entity.PromotionProduct
	from, to := dayBounds(day)
	err := r.db.WithContext(ctx).Model(&entity.PromotionProduct{}).
		Joins("JOIN promotions ON promotions.id = promotion_products.promotion_id").
		Where("promotion_products.product_id = ?", productID).
		Where("promotions.active = ? AND promotions.deleted_at IS NULL", true).
		Where("promotions.start_date < ? AND promotions.end_date >= ?", to, from).
		Order("promotions.discount_percent DESC, promotions.created_at ASC, promotions.id ASC").
		Preload("Promotion").
		Find(&links).Error
	return links, err
}

func (r *promotionRepository) ListDiscounted(ctx context.Context, day time.Time) ([]entity.PromotionProduct, error) {
	var links []entity.PromotionProduct
	from, to := dayBounds(day)
	err := r.db.WithContext(ctx).Model(&entity.PromotionProduct{}).
		Joins("JOIN promotions ON promotions.id = promotion_products.promotion_id").
		Where("promotions.active = ? AND promotions.deleted_at IS NULL", true).
		Where("promotions.start_date < ? AND promotions.end_date >= ?", to, from).
		Order("promotions.discount_percent DESC, promotions.created_at ASC, promotions.id ASC").
		Preload("Promotion").
		Preload("Product").
		Find(&links).Error
	return links, err
}
