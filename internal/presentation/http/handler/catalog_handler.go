package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"restopos/internal/application/service"
	"restopos/internal/domain/enum"
	"restopos/internal/domain/repository"
	"restopos/internal/presentation/http/dto/request"
	"restopos/internal/presentation/http/dto/response"
	"restopos/pkg/pagination"
)

// CatalogHandler handles product and day-menu HTTP requests
type CatalogHandler struct {
	catalogService *service.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// List handles listing catalog products
func (h *CatalogHandler) List(c *gin.Context) {
	var filter request.ProductFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.ProductFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search:   filter.Search,
		Category: filter.Category,
	}

	result, err := h.catalogService.ListProducts(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Products retrieved successfully", result)
}

// Create handles creating a product
func (h *CatalogHandler) Create(c *gin.Context) {
	var req request.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.catalogService.CreateProduct(c.Request.Context(), &service.CreateProductInput{
		Name:        req.Name,
		Price:       req.Price,
		Category:    req.Category,
		Description: req.Description,
		Image:       req.Image,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Product created successfully", product)
}

// Get handles retrieving a product by ID
func (h *CatalogHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	product, err := h.catalogService.GetProduct(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product retrieved successfully", product)
}

// Update handles partially updating a product
func (h *CatalogHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	var req request.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.catalogService.UpdateProduct(c.Request.Context(), id, &service.UpdateProductInput{
		Name:        req.Name,
		Price:       req.Price,
		Category:    req.Category,
		Description: req.Description,
		Image:       req.Image,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product updated successfully", product)
}

// Delete handles deleting a product with its assignments and promotion links
func (h *CatalogHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	if err := h.catalogService.DeleteProduct(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product deleted successfully", nil)
}

// Categories handles listing the distinct category labels
func (h *CatalogHandler) Categories(c *gin.Context) {
	categories, err := h.catalogService.ListCategories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Categories retrieved successfully", categories)
}

// MealTypes handles listing the configured meal slots
func (h *CatalogHandler) MealTypes(c *gin.Context) {
	mealTypes, err := h.catalogService.ListMealTypes(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Meal types retrieved successfully", mealTypes)
}

// Assign handles placing a product on the day menu
func (h *CatalogHandler) Assign(c *gin.Context) {
	var req request.AssignMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	productID, _ := uuid.Parse(req.ProductID)
	mealTypeID, _ := uuid.Parse(req.MealTypeID)

	assignment, err := h.catalogService.AssignToDay(c.Request.Context(), productID, mealTypeID, enum.Weekday(req.Weekday))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Product assigned to menu", assignment)
}

// Unassign handles removing a menu assignment
func (h *CatalogHandler) Unassign(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid assignment ID")
		return
	}

	if err := h.catalogService.UnassignFromDay(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Assignment removed", nil)
}

// SetActive handles pausing/restoring a menu assignment
func (h *CatalogHandler) SetActive(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid assignment ID")
		return
	}

	var req request.SetAssignmentActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := h.catalogService.SetAssignmentActive(c.Request.Context(), id, *req.Active); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Assignment updated", nil)
}

// DayMenu handles listing the active products for one weekday
func (h *CatalogHandler) DayMenu(c *gin.Context) {
	weekday, err := strconv.Atoi(c.Param("weekday"))
	if err != nil {
		response.BadRequest(c, "Invalid weekday")
		return
	}

	var mealTypeID *uuid.UUID
	if raw := c.Query("meal_type_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "Invalid meal type ID")
			return
		}
		mealTypeID = &id
	}

	products, err := h.catalogService.GetDayMenu(c.Request.Context(), enum.Weekday(weekday), mealTypeID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Day menu retrieved successfully", products)
}

// Assignments handles listing all assignments for one weekday
func (h *CatalogHandler) Assignments(c *gin.Context) {
	weekday, err := strconv.Atoi(c.Param("weekday"))
	if err != nil {
		response.BadRequest(c, "Invalid weekday")
		return
	}

	assignments, err := h.catalogService.ListAssignments(c.Request.Context(), enum.Weekday(weekday))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Assignments retrieved successfully", assignments)
}
