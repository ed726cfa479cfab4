package entity

import (
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"restopos/internal/domain/enum"
)

// Product represents a purchasable menu item
type Product struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name        string         `gorm:"size:255;not null;index" json:"name"`
	Price       int64          `gorm:"not null;default:0" json:"-"` // Stored in minor currency units
	Category    string         `gorm:"size:100;not null;default:'General';index" json:"category"`
	Description string         `gorm:"type:text" json:"description"`
	Image       *string        `gorm:"size:255" json:"image,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Assignments []MenuAssignment `gorm:"foreignKey:ProductID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// GetPriceDecimal returns the unit price as a decimal (for display)
func (p *Product) GetPriceDecimal() float64 {
	return float64(p.Price) / 100
}

// SetPriceFromDecimal sets the unit price from a decimal value
func (p *Product) SetPriceFromDecimal(price float64) {
	p.Price = int64(math.Round(price * 100))
}

// MarshalJSON converts Product to JSON with a decimal price
func (p Product) MarshalJSON() ([]byte, error) {
	type Alias Product
	return json.Marshal(&struct {
		Alias
		Price float64 `json:"price"`
	}{
		Alias: Alias(p),
		Price: p.GetPriceDecimal(),
	})
}

// MealType represents a meal slot label such as breakfast, lunch or dinner
type MealType struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name      string    `gorm:"size:100;unique;not null" json:"name"`
	SortOrder int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new meal type
func (m *MealType) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the MealType model
func (MealType) TableName() string {
	return "meal_types"
}

// MenuAssignment links a product to a (weekday, meal type) slot. Only active
// assignments make the product orderable on that day.
type MenuAssignment struct {
	ID         uuid.UUID    `gorm:"type:uuid;primary_key" json:"id"`
	ProductID  uuid.UUID    `gorm:"type:uuid;not null;index" json:"product_id"`
	MealTypeID uuid.UUID    `gorm:"type:uuid;not null;index" json:"meal_type_id"`
	Weekday    enum.Weekday `gorm:"not null;index" json:"weekday"`
	Active     bool         `gorm:"not null;default:true" json:"active"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`

	// Relationships
	Product  Product  `gorm:"foreignKey:ProductID" json:"-"`
	MealType MealType `gorm:"foreignKey:MealTypeID" json:"meal_type,omitempty"`
}

// BeforeCreate generates a UUID before creating a new assignment
func (a *MenuAssignment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the MenuAssignment model
func (MenuAssignment) TableName() string {
	return "menu_assignments"
}
