package request

// CreateProductRequest represents the create product request
type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Image       *string `json:"image"`
}

// UpdateProductRequest represents the update product request; omitted
// fields keep their current values.
type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Description *string  `json:"description"`
	Image       *string  `json:"image"`
}

// ProductFilterRequest represents product list query parameters
type ProductFilterRequest struct {
	Page     int    `form:"page"`
	PerPage  int    `form:"per_page"`
	Search   string `form:"search"`
	Category string `form:"category"`
}

// AssignMenuRequest represents the day-menu assignment request
type AssignMenuRequest struct {
	ProductID  string `json:"product_id" binding:"required,uuid"`
	MealTypeID string `json:"meal_type_id" binding:"required,uuid"`
	Weekday    int    `json:"weekday" binding:"required"`
}

// SetAssignmentActiveRequest toggles a menu assignment
type SetAssignmentActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}
