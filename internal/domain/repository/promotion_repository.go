package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"restopos/internal/domain/entity"
)

// PromotionRepository defines the interface for promotion data operations
type PromotionRepository interface {
	Create(ctx context.Context, promotion *entity.Promotion) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Promotion, error)
	Update(ctx context.Context, promotion *entity.Promotion) error
	// ListActive returns promotions whose validity window contains the day
	// and whose active flag is set.
	ListActive(ctx context.Context, day time.Time) ([]entity.Promotion, error)
	LinkProduct(ctx context.Context, link *entity.PromotionProduct) error
	UnlinkProduct(ctx context.Context, promotionID, productID uuid.UUID) error
	// MatchesForProduct returns the promotion links applicable to one
	// product on the given day, ordered by discount percentage descending
	// with ties broken by promotion creation time then id. The first entry,
	// when present, is the winning promotion.
	MatchesForProduct(ctx context.Context, productID uuid.UUID, day time.Time) ([]entity.PromotionProduct, error)
	// ListDiscounted returns every product currently covered by a
	// promotion together with its link row.
	ListDiscounted(ctx context.Context, day time.Time) ([]entity.PromotionProduct, error)
}
