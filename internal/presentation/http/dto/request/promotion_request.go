package request

// CreatePromotionRequest represents the create promotion request. Dates use
// the YYYY-MM-DD form; both endpoints are inclusive.
type CreatePromotionRequest struct {
	Name            string `json:"name" binding:"required"`
	Description     string `json:"description"`
	DiscountPercent int    `json:"discount_percent"`
	StartDate       string `json:"start_date" binding:"required"`
	EndDate         string `json:"end_date" binding:"required"`
}

// UpdatePromotionRequest represents the update promotion request; omitted
// fields keep their current values.
type UpdatePromotionRequest struct {
	Name            *string `json:"name"`
	Description     *string `json:"description"`
	DiscountPercent *int    `json:"discount_percent"`
	StartDate       *string `json:"start_date"`
	EndDate         *string `json:"end_date"`
	Active          *bool   `json:"active"`
}

// LinkProductRequest attaches a product to a promotion. A special price
// greater than zero replaces the product price outright.
type LinkProductRequest struct {
	ProductID    string  `json:"product_id" binding:"required,uuid"`
	SpecialPrice float64 `json:"special_price"`
}
