package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"restopos/internal/config"
	"restopos/internal/presentation/http/handler"
	"restopos/internal/presentation/http/middleware"
	"restopos/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	Catalog   *handler.CatalogHandler
	Promotion *handler.PromotionHandler
	Order     *handler.OrderHandler
	Printer   *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager *utils.JWTManager
	Cfg        *config.Config
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
		}

		// Read-only menu browsing stays public so a customer-facing
		// display can poll it without a terminal session.
		menu := v1.Group("/menu")
		{
			menu.GET("/meal-types", h.Catalog.MealTypes)
			menu.GET("/day/:weekday", h.Catalog.DayMenu)
		}

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		window := time.Duration(deps.Cfg.RateLimit.Duration) * time.Second
		rateLimiter := middleware.NewIPRateLimiter(deps.Cfg.RateLimit.Requests, window)
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h)
	}

	return router
}

func registerProtectedRoutes(rg *gin.RouterGroup, h *Handlers) {
	// Account
	auth := rg.Group("/auth")
	{
		auth.GET("/profile", h.Auth.Profile)
		auth.POST("/register", middleware.RequireRole("admin"), h.Auth.Register)
	}

	// Catalog
	products := rg.Group("/products")
	{
		products.GET("", h.Catalog.List)
		products.POST("", h.Catalog.Create)
		products.GET("/categories", h.Catalog.Categories)
		products.GET("/:id", h.Catalog.Get)
		products.PATCH("/:id", h.Catalog.Update)
		products.DELETE("/:id", h.Catalog.Delete)
	}

	// Day menu management
	menu := rg.Group("/menu")
	{
		menu.POST("/assignments", h.Catalog.Assign)
		menu.DELETE("/assignments/:id", h.Catalog.Unassign)
		menu.PATCH("/assignments/:id/active", h.Catalog.SetActive)
		menu.GET("/day/:weekday/assignments", h.Catalog.Assignments)
	}

	// Promotions and pricing
	promotions := rg.Group("/promotions")
	{
		promotions.GET("", h.Promotion.ListActive)
		promotions.POST("", h.Promotion.Create)
		promotions.GET("/:id", h.Promotion.Get)
		promotions.PATCH("/:id", h.Promotion.Update)
		promotions.POST("/:id/products", h.Promotion.LinkProduct)
		promotions.DELETE("/:id/products/:productId", h.Promotion.UnlinkProduct)
	}
	pricing := rg.Group("/pricing")
	{
		pricing.GET("/resolve/:productId", h.Promotion.ResolvePrice)
		pricing.GET("/discounted", h.Promotion.ListDiscounted)
	}

	// Carts and checkout
	carts := rg.Group("/carts")
	{
		carts.POST("", h.Order.OpenCart)
		carts.GET("/:id", h.Order.GetCart)
		carts.POST("/:id/items", h.Order.AddItem)
		carts.PATCH("/:id/items", h.Order.SetQuantity)
		carts.DELETE("/:id/items", h.Order.RemoveItem)
		carts.DELETE("/:id", h.Order.ClearCart)
		carts.POST("/:id/checkout", h.Order.Checkout)
	}
	rg.GET("/sales/history", h.Order.History)

	// Printing
	printers := rg.Group("/printer")
	{
		printers.GET("/status", h.Printer.Status)
		printers.POST("/reprint", h.Printer.Reprint)
		printers.POST("/export", h.Printer.Export)
		printers.GET("/preview/:number", h.Printer.Preview)
	}
}
