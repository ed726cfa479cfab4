package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"restopos/internal/domain/entity"
	"restopos/internal/domain/repository"
	"restopos/pkg/apperror"
)

// PricingService resolves effective product prices against the active
// promotions and manages the promotion catalog.
type PricingService struct {
	promotionRepo repository.PromotionRepository
	productRepo   repository.ProductRepository
}

// NewPricingService creates a new pricing service
func NewPricingService(
	promotionRepo repository.PromotionRepository,
	productRepo repository.ProductRepository,
) *PricingService {
	return &PricingService{
		promotionRepo: promotionRepo,
		productRepo:   productRepo,
	}
}

// ResolvedPrice is the outcome of applying the winning promotion (if any) to
// a product on a given day.
type ResolvedPrice struct {
	ProductID       uuid.UUID `json:"product_id"`
	ProductName     string    `json:"product_name"`
	OriginalPrice   int64     `json:"-"`
	EffectivePrice  int64     `json:"-"`
	DiscountPercent int       `json:"discount_percent"`
	PromotionName   string    `json:"promotion_name,omitempty"`
}

// MarshalJSON converts a resolved price to JSON with decimal amounts
func (r ResolvedPrice) MarshalJSON() ([]byte, error) {
	type Alias ResolvedPrice
	return json.Marshal(&struct {
		Alias
		OriginalPrice  float64 `json:"original_price"`
		EffectivePrice float64 `json:"effective_price"`
	}{
		Alias:          Alias(r),
		OriginalPrice:  float64(r.OriginalPrice) / 100,
		EffectivePrice: float64(r.EffectivePrice) / 100,
	})
}

// discountedPrice applies a whole-number percentage, rounding to the nearest
// minor unit.
func discountedPrice(original int64, percent int) int64 {
	return int64(math.Round(float64(original) * float64(100-percent) / 100))
}

// ResolvePrice returns the effective price of a product on the given day.
// Outside every promotion window the original price comes back with a zero
// discount; when several promotions cover the product the highest discount
// wins, with ties broken by the older promotion.
func (s *PricingService) ResolvePrice(ctx context.Context, productID uuid.UUID, day time.Time) (*ResolvedPrice, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	resolved := &ResolvedPrice{
		ProductID:      product.ID,
		ProductName:    product.Name,
		OriginalPrice:  product.Price,
		EffectivePrice: product.Price,
	}

	links, err := s.promotionRepo.MatchesForProduct(ctx, productID, day)
	if err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return resolved, nil
	}

	winner := links[0]
	resolved.DiscountPercent = winner.Promotion.DiscountPercent
	resolved.PromotionName = winner.Promotion.Name
	if winner.SpecialPrice > 0 {
		resolved.EffectivePrice = winner.SpecialPrice
	} else {
		resolved.EffectivePrice = discountedPrice(product.Price, winner.Promotion.DiscountPercent)
	}
	return resolved, nil
}

// CreatePromotionInput represents the create promotion input
type CreatePromotionInput struct {
	Name            string
	Description     string
	DiscountPercent int
	StartDate       time.Time
	EndDate         time.Time
}

func validatePromotionFields(input *CreatePromotionInput) []apperror.FieldError {
	var fieldErrors []apperror.FieldError
	if input.Name == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "Name must not be empty"})
	}
	if input.DiscountPercent < 0 || input.DiscountPercent > 100 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "discount_percent", Message: "Discount must be between 0 and 100"})
	}
	if input.EndDate.Before(input.StartDate) {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "end_date", Message: "End date must not precede start date"})
	}
	return fieldErrors
}

// CreatePromotion creates a new time-bounded promotion
func (s *PricingService) CreatePromotion(ctx context.Context, input *CreatePromotionInput) (*entity.Promotion, error) {
	if fieldErrors := validatePromotionFields(input); fieldErrors != nil {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	promotion := &entity.Promotion{
		Name:            input.Name,
		Description:     input.Description,
		DiscountPercent: input.DiscountPercent,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		Active:          true,
	}
	if err := s.promotionRepo.Create(ctx, promotion); err != nil {
		return nil, apperror.NewStoreError("promotion create", err)
	}
	return promotion, nil
}

// GetPromotion retrieves a promotion by ID
func (s *PricingService) GetPromotion(ctx context.Context, id uuid.UUID) (*entity.Promotion, error) {
	promotion, err := s.promotionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if promotion == nil {
		return nil, apperror.NewNotFoundError("Promotion")
	}
	return promotion, nil
}

// UpdatePromotionInput represents the update promotion input; nil fields
// keep their current values.
type UpdatePromotionInput struct {
	Name            *string
	Description     *string
	DiscountPercent *int
	StartDate       *time.Time
	EndDate         *time.Time
	Active          *bool
}

// UpdatePromotion applies a partial update to a promotion
func (s *PricingService) UpdatePromotion(ctx context.Context, id uuid.UUID, input *UpdatePromotionInput) (*entity.Promotion, error) {
	promotion, err := s.GetPromotion(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		promotion.Name = *input.Name
	}
	if input.Description != nil {
		promotion.Description = *input.Description
	}
	if input.DiscountPercent != nil {
		promotion.DiscountPercent = *input.DiscountPercent
	}
	if input.StartDate != nil {
		promotion.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		promotion.EndDate = *input.EndDate
	}
	if input.Active != nil {
		promotion.Active = *input.Active
	}

	check := &CreatePromotionInput{
		Name:            promotion.Name,
		DiscountPercent: promotion.DiscountPercent,
		StartDate:       promotion.StartDate,
		EndDate:         promotion.EndDate,
	}
	if fieldErrors := validatePromotionFields(check); fieldErrors != nil {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	if err := s.promotionRepo.Update(ctx, promotion); err != nil {
		return nil, apperror.NewStoreError("promotion update", err)
	}
	return promotion, nil
}

// LinkProduct attaches a product to a promotion. A special price greater
// than zero replaces the product price outright; zero means the promotion's
// percentage applies to the product's own price.
func (s *PricingService) LinkProduct(ctx context.Context, promotionID, productID uuid.UUID, specialPrice float64) (*entity.PromotionProduct, error) {
	if specialPrice < 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "special_price", Message: "Special price must not be negative"},
		})
	}

	promotion, err := s.GetPromotion(ctx, promotionID)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	for i := range promotion.Products {
		if promotion.Products[i].ProductID == productID {
			return nil, apperror.NewConflictError("Product is already linked to this promotion")
		}
	}

	link := &entity.PromotionProduct{
		PromotionID:  promotionID,
		ProductID:    productID,
		SpecialPrice: int64(math.Round(specialPrice * 100)),
	}
	if err := s.promotionRepo.LinkProduct(ctx, link); err != nil {
		return nil, apperror.NewStoreError("promotion link", err)
	}
	return link, nil
}

// UnlinkProduct detaches a product from a promotion
func (s *PricingService) UnlinkProduct(ctx context.Context, promotionID, productID uuid.UUID) error {
	err := s.promotionRepo.UnlinkProduct(ctx, promotionID, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NewNotFoundError("Promotion link")
	}
	return err
}

// ListActivePromotions returns the promotions covering the given day
func (s *PricingService) ListActivePromotions(ctx context.Context, day time.Time) ([]entity.Promotion, error) {
	return s.promotionRepo.ListActive(ctx, day)
}

// ListDiscounted returns the resolved prices of every product covered by a
// promotion on the given day, one entry per product with the winning
// promotion applied.
func (s *PricingService) ListDiscounted(ctx context.Context, day time.Time) ([]ResolvedPrice, error) {
	links, err := s.promotionRepo.ListDiscounted(ctx, day)
	if err != nil {
		return nil, err
	}

	// links arrive winner-first; keep only the first entry per product
	seen := make(map[uuid.UUID]bool, len(links))
	resolved := make([]ResolvedPrice, 0, len(links))
	for i := range links {
		link := links[i]
		if seen[link.ProductID] {
			continue
		}
		seen[link.ProductID] = true

		effective := link.SpecialPrice
		if effective <= 0 {
			effective = discountedPrice(link.Product.Price, link.Promotion.DiscountPercent)
		}
		resolved = append(resolved, ResolvedPrice{
			ProductID:       link.ProductID,
			ProductName:     link.Product.Name,
			OriginalPrice:   link.Product.Price,
			EffectivePrice:  effective,
			DiscountPercent: link.Promotion.DiscountPercent,
			PromotionName:   link.Promotion.Name,
		})
	}
	return resolved, nil
}
