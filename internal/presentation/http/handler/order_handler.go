package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"restopos/internal/application/service"
	"restopos/internal/presentation/http/dto/request"
	"restopos/internal/presentation/http/dto/response"
)

// OrderHandler handles cart and checkout HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// OpenCart handles starting a new cart
func (h *OrderHandler) OpenCart(c *gin.Context) {
	cart := h.orderService.OpenCart()
	response.Created(c, "Cart opened", cart)
}

// GetCart handles retrieving a cart with its current totals
func (h *OrderHandler) GetCart(c *gin.Context) {
	cart, err := h.orderService.GetCart(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	totals, err := h.orderService.GetTotals(cart.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cart retrieved successfully", gin.H{
		"cart":   cart,
		"totals": totals,
	})
}

// AddItem handles adding a product to a cart at its effective price
func (h *OrderHandler) AddItem(c *gin.Context) {
	var req request.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	productID, _ := uuid.Parse(req.ProductID)

	cart, err := h.orderService.AddItem(c.Request.Context(), c.Param("id"), productID, req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item added to cart", cart)
}

// SetQuantity handles replacing a cart line's quantity
func (h *OrderHandler) SetQuantity(c *gin.Context) {
	var req request.SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	cart, err := h.orderService.SetQuantity(c.Param("id"), *req.Index, *req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cart updated", cart)
}

// RemoveItem handles dropping a cart line by product name
func (h *OrderHandler) RemoveItem(c *gin.Context) {
	var req request.RemoveItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	cart, err := h.orderService.RemoveItem(c.Param("id"), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item removed from cart", cart)
}

// ClearCart handles cancelling an in-progress sale
func (h *OrderHandler) ClearCart(c *gin.Context) {
	cart, err := h.orderService.ClearCart(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cart cleared", cart)
}

// Checkout handles closing a cart into an invoice
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req request.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	inv, outcome, err := h.orderService.Checkout(c.Request.Context(), c.Param("id"), &service.CheckoutInput{
		Table:         req.Table,
		Server:        req.Server,
		PaymentMethod: req.PaymentMethod,
		Discount:      req.Discount,
		Copies:        req.Copies,
		Print:         req.Print,
	})
	if err != nil {
		if inv != nil {
			// sale recorded but delivery failed; return both
			response.Success(c, 201, "Sale recorded, print failed", gin.H{
				"invoice": inv,
				"error":   err.Error(),
			})
			return
		}
		response.Error(c, err)
		return
	}

	response.Created(c, "Checkout completed", gin.H{
		"invoice": inv,
		"print":   outcome,
	})
}

// History handles listing the session's issued invoices
func (h *OrderHandler) History(c *gin.Context) {
	invoices := h.orderService.History()
	response.OK(c, "Sales history retrieved successfully", gin.H{
		"invoices":      invoices,
		"session_total": float64(h.orderService.SessionTotal()) / 100,
	})
}
