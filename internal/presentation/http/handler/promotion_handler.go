package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"restopos/internal/application/service"
	"restopos/internal/presentation/http/dto/request"
	"restopos/internal/presentation/http/dto/response"
)

const dateLayout = "2006-01-02"

// PromotionHandler handles promotion HTTP requests
type PromotionHandler struct {
	pricingService *service.PricingService
}

// NewPromotionHandler creates a new promotion handler
func NewPromotionHandler(pricingService *service.PricingService) *PromotionHandler {
	return &PromotionHandler{pricingService: pricingService}
}

// Create handles creating a promotion
func (h *PromotionHandler) Create(c *gin.Context) {
	var req request.CreatePromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		response.BadRequest(c, "Invalid start_date, expected YYYY-MM-DD")
		return
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		response.BadRequest(c, "Invalid end_date, expected YYYY-MM-DD")
		return
	}

	promotion, err := h.pricingService.CreatePromotion(c.Request.Context(), &service.CreatePromotionInput{
		Name:            req.Name,
		Description:     req.Description,
		DiscountPercent: req.DiscountPercent,
		StartDate:       startDate,
		EndDate:         endDate,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Promotion created successfully", promotion)
}

// Get handles retrieving a promotion by ID
func (h *PromotionHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid promotion ID")
		return
	}

	promotion, err := h.pricingService.GetPromotion(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Promotion retrieved successfully", promotion)
}

// Update handles partially updating a promotion
func (h *PromotionHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid promotion ID")
		return
	}

	var req request.UpdatePromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	input := &service.UpdatePromotionInput{
		Name:            req.Name,
		Description:     req.Description,
		DiscountPercent: req.DiscountPercent,
		Active:          req.Active,
	}
	if req.StartDate != nil {
		startDate, err := time.Parse(dateLayout, *req.StartDate)
		if err != nil {
			response.BadRequest(c, "Invalid start_date, expected YYYY-MM-DD")
			return
		}
		input.StartDate = &startDate
	}
	if req.EndDate != nil {
		endDate, err := time.Parse(dateLayout, *req.EndDate)
		if err != nil {
			response.BadRequest(c, "Invalid end_date, expected YYYY-MM-DD")
			return
		}
		input.EndDate = &endDate
	}

	promotion, err := h.pricingService.UpdatePromotion(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Promotion updated successfully", promotion)
}

// ListActive handles listing the promotions covering a day (default today)
func (h *PromotionHandler) ListActive(c *gin.Context) {
	day, ok := h.parseDay(c)
	if !ok {
		return
	}

	promotions, err := h.pricingService.ListActivePromotions(c.Request.Context(), day)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Active promotions retrieved successfully", promotions)
}

// LinkProduct handles attaching a product to a promotion
func (h *PromotionHandler) LinkProduct(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid promotion ID")
		return
	}

	var req request.LinkProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	productID, _ := uuid.Parse(req.ProductID)

	link, err := h.pricingService.LinkProduct(c.Request.Context(), id, productID, req.SpecialPrice)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Product linked to promotion", link)
}

// UnlinkProduct handles detaching a product from a promotion
func (h *PromotionHandler) UnlinkProduct(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid promotion ID")
		return
	}
	productID, ok := parseUUIDParam(c, "productId")
	if !ok {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	if err := h.pricingService.UnlinkProduct(c.Request.Context(), id, productID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product unlinked from promotion", nil)
}

// ResolvePrice handles resolving one product's effective price for a day
func (h *PromotionHandler) ResolvePrice(c *gin.Context) {
	productID, ok := parseUUIDParam(c, "productId")
	if !ok {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	day, ok := h.parseDay(c)
	if !ok {
		return
	}

	resolved, err := h.pricingService.ResolvePrice(c.Request.Context(), productID, day)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Price resolved successfully", resolved)
}

// ListDiscounted handles listing all discounted products for a day
func (h *PromotionHandler) ListDiscounted(c *gin.Context) {
	day, ok := h.parseDay(c)
	if !ok {
		return
	}

	resolved, err := h.pricingService.ListDiscounted(c.Request.Context(), day)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Discounted products retrieved successfully", resolved)
}

// parseDay reads the optional ?day=YYYY-MM-DD query, defaulting to today.
func (h *PromotionHandler) parseDay(c *gin.Context) (time.Time, bool) {
	raw := c.Query("day")
	if raw == "" {
		return time.Now(), true
	}
	day, err := time.Parse(dateLayout, raw)
	if err != nil {
		response.BadRequest(c, "Invalid day, expected YYYY-MM-DD")
		return time.Time{}, false
	}
	return day, true
}
