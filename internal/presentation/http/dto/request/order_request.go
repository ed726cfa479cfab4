package request

// AddItemRequest adds a product to a cart
type AddItemRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  int    `json:"quantity" binding:"required"`
}

// SetQuantityRequest replaces a cart line's quantity; zero removes the line
type SetQuantityRequest struct {
	Index    *int `json:"index" binding:"required"`
	Quantity *int `json:"quantity" binding:"required"`
}

// RemoveItemRequest drops a cart line by product name
type RemoveItemRequest struct {
	Name string `json:"name" binding:"required"`
}

// CheckoutRequest closes a cart into an invoice
type CheckoutRequest struct {
	Table         string  `json:"table"`
	Server        string  `json:"server"`
	PaymentMethod string  `json:"payment_method"`
	Discount      float64 `json:"discount"`
	Copies        int     `json:"copies"`
	Print         bool    `json:"print"`
}
