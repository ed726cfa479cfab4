package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Promotion is a time-bounded price override. It applies only while
// StartDate <= day <= EndDate and Active is true; it expires naturally when
// the window closes.
type Promotion struct {
	ID              uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name            string         `gorm:"size:255;not null" json:"name"`
	Description     string         `gorm:"type:text" json:"description"`
	DiscountPercent int            `gorm:"not null;default:0" json:"discount_percent"`
	StartDate       time.Time      `gorm:"type:date;not null" json:"start_date"`
	EndDate         time.Time      `gorm:"type:date;not null" json:"end_date"`
	Active          bool           `gorm:"not null;default:true" json:"active"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Products []PromotionProduct `gorm:"foreignKey:PromotionID" json:"products,omitempty"`
}

// BeforeCreate generates a UUID before creating a new promotion
func (p *Promotion) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Promotion model
func (Promotion) TableName() string {
	return "promotions"
}

// Covers reports whether the promotion applies on the given day.
func (p *Promotion) Covers(day time.Time) bool {
	d := day.Truncate(24 * time.Hour)
	return p.Active && !d.Before(p.StartDate.Truncate(24*time.Hour)) && !d.After(p.EndDate.Truncate(24*time.Hour))
}

// PromotionProduct links a promotion to a product. SpecialPrice, when set
// (> 0), replaces the product's price outright; otherwise the effective price
// is derived from the promotion's discount percentage.
type PromotionProduct struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	PromotionID  uuid.UUID `gorm:"type:uuid;not null;index" json:"promotion_id"`
	ProductID    uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	SpecialPrice int64     `gorm:"not null;default:0" json:"-"` // Stored in minor currency units
	CreatedAt    time.Time `json:"created_at"`

	// Relationships
	Promotion Promotion `gorm:"foreignKey:PromotionID" json:"-"`
	Product   Product   `gorm:"foreignKey:ProductID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new promotion link
func (pp *PromotionProduct) BeforeCreate(tx *gorm.DB) error {
	if pp.ID == uuid.Nil {
		pp.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PromotionProduct model
func (PromotionProduct) TableName() string {
	return "promotion_products"
}

// MarshalJSON converts a promotion link to JSON with a decimal special price
func (pp PromotionProduct) MarshalJSON() ([]byte, error) {
	type Alias PromotionProduct
	return json.Marshal(&struct {
		Alias
		SpecialPrice float64 `json:"special_price"`
	}{
		Alias:        Alias(pp),
		SpecialPrice: float64(pp.SpecialPrice) / 100,
	})
}
