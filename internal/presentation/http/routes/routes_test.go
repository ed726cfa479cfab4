package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"restopos/internal/application/service"
	"restopos/internal/config"
	"restopos/internal/domain/entity"
	"restopos/internal/infrastructure/repository"
	"restopos/internal/presentation/http/handler"
	"restopos/internal/presentation/http/routes"
	"restopos/pkg/invoice"
	"restopos/pkg/printer"
	"restopos/pkg/utils"
)

// stubRunner fails every subprocess call so nothing is spooled from tests.
type stubRunner struct{}

func (stubRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	return "", "", errors.New("exec: " + name + ": executable file not found in $PATH")
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testAPI struct {
	router *gin.Engine
	token  string
	db     *gorm.DB
}

func setupAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entity.MealType{},
		&entity.Product{},
		&entity.MenuAssignment{},
		&entity.Promotion{},
		&entity.PromotionProduct{},
		&entity.User{},
	))

	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	admin := &entity.User{Username: "admin", Password: string(hashed), FullName: "Admin", Role: "admin"}
	require.NoError(t, db.Create(admin).Error)

	cfg := &config.Config{
		App: config.AppConfig{Name: "restopos", Env: "test"},
		Business: config.BusinessConfig{
			Name:    "RESTAURANTE EL BUEN SABOR",
			TaxID:   "900123456-7",
			TaxRate: 0.19,
		},
		Printer: config.PrinterConfig{
			Type:      "none",
			CharWidth: 48,
			ExportDir: t.TempDir(),
		},
		JWT:       config.JWTConfig{Secret: "test-secret", ExpiryHours: time.Hour},
		RateLimit: config.RateLimitConfig{Requests: 1000, Duration: 60},
	}
	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	mealTypeRepo := repository.NewMealTypeRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	promotionRepo := repository.NewPromotionRepository(db)

	pricingService := service.NewPricingService(promotionRepo, productRepo)
	printerService := service.NewPrinterService(
		printer.NewSpoolerWithRunner(stubRunner{}),
		printer.NewExporterWithRunner(stubRunner{}, nil),
		printer.NewNullPrinter(),
		invoice.NewRenderer(),
		cfg,
	)

	orderService := service.NewOrderService(pricingService, printerService, cfg)

	h := &routes.Handlers{
		Auth:      handler.NewAuthHandler(service.NewAuthService(userRepo, jwtManager)),
		Catalog:   handler.NewCatalogHandler(service.NewCatalogService(productRepo, mealTypeRepo, menuRepo)),
		Promotion: handler.NewPromotionHandler(pricingService),
		Order:     handler.NewOrderHandler(orderService),
		Printer:   handler.NewPrinterHandler(printerService, orderService),
	}
	router := routes.Setup(h, &routes.Deps{JWTManager: jwtManager, Cfg: cfg})

	token, err := jwtManager.GenerateToken(admin.ID, admin.Username, admin.Role)
	require.NoError(t, err)

	return &testAPI{router: router, token: token, db: db}
}

func (a *testAPI) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

func TestHealthEndpoint(t *testing.T) {
	api := setupAPI(t)
	w, _ := api.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "restopos")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	api := setupAPI(t)
	api.token = ""
	w, env := api.do(t, http.MethodGet, "/api/v1/products", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, env.Success)
}

func TestLogin(t *testing.T) {
	api := setupAPI(t)
	api.token = ""

	w, env := api.do(t, http.MethodPost, "/api/v1/auth/login", gin.H{
		"username": "admin",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var result struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.NotEmpty(t, result.Token)

	// a wrong password gets the same message as an unknown user
	w, env = api.do(t, http.MethodPost, "/api/v1/auth/login", gin.H{
		"username": "admin",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid username or password", env.Message)
}

func TestRegisterRequiresAdminRole(t *testing.T) {
	api := setupAPI(t)

	// issue a cashier token and try to create a user with it
	jwtManager := utils.NewJWTManager("test-secret", time.Hour)
	cashierToken, err := jwtManager.GenerateToken(utils.NewUUID(), "cashier1", "cashier")
	require.NoError(t, err)
	api.token = cashierToken

	w, _ := api.do(t, http.MethodPost, "/api/v1/auth/register", gin.H{
		"username": "nuevo",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestProductLifecycle(t *testing.T) {
	api := setupAPI(t)

	w, env := api.do(t, http.MethodPost, "/api/v1/products", gin.H{
		"name":     "Hamburguesa",
		"price":    28000,
		"category": "Comidas",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.True(t, env.Success)

	var created struct {
		ID    string  `json:"id"`
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "Hamburguesa", created.Name)
	assert.Equal(t, 28000.0, created.Price)

	// names are unique
	w, _ = api.do(t, http.MethodPost, "/api/v1/products", gin.H{"name": "Hamburguesa", "price": 1})
	assert.Equal(t, http.StatusConflict, w.Code)

	// partial update keeps other fields
	w, env = api.do(t, http.MethodPatch, "/api/v1/products/"+created.ID, gin.H{"price": 30000})
	require.Equal(t, http.StatusOK, w.Code)
	var updated struct {
		Price    float64 `json:"price"`
		Category string  `json:"category"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, 30000.0, updated.Price)
	assert.Equal(t, "Comidas", updated.Category)

	w, _ = api.do(t, http.MethodDelete, "/api/v1/products/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = api.do(t, http.MethodGet, "/api/v1/products/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateProductValidation(t *testing.T) {
	api := setupAPI(t)

	// binding catches the missing name
	w, _ := api.do(t, http.MethodPost, "/api/v1/products", gin.H{"price": 1000})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env := api.do(t, http.MethodPost, "/api/v1/products", gin.H{"name": "Sopa", "price": -5})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "Validation failed", env.Message)
}

func TestCartCheckoutFlow(t *testing.T) {
	api := setupAPI(t)

	create := func(name string, price float64) string {
		w, env := api.do(t, http.MethodPost, "/api/v1/products", gin.H{"name": name, "price": price})
		require.Equal(t, http.StatusCreated, w.Code)
		var p struct {
			ID string `json:"id"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &p))
		return p.ID
	}
	burgerID := create("Hamburguesa", 28000)
	sodaID := create("Gaseosa", 5000)

	w, env := api.do(t, http.MethodPost, "/api/v1/carts", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var cart struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &cart))

	w, _ = api.do(t, http.MethodPost, "/api/v1/carts/"+cart.ID+"/items", gin.H{"product_id": burgerID, "quantity": 2})
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = api.do(t, http.MethodPost, "/api/v1/carts/"+cart.ID+"/items", gin.H{"product_id": sodaID, "quantity": 1})
	require.Equal(t, http.StatusOK, w.Code)

	w, env = api.do(t, http.MethodGet, "/api/v1/carts/"+cart.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var state struct {
		Totals struct {
			Subtotal float64 `json:"subtotal"`
			Tax      float64 `json:"tax"`
			Total    float64 `json:"total"`
		} `json:"totals"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &state))
	assert.Equal(t, 61000.0, state.Totals.Subtotal)
	assert.Equal(t, 11590.0, state.Totals.Tax)
	assert.Equal(t, 72590.0, state.Totals.Total)

	w, env = api.do(t, http.MethodPost, "/api/v1/carts/"+cart.ID+"/checkout", gin.H{
		"table":          "5",
		"server":         "Carlos",
		"payment_method": "Efectivo",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var checkout struct {
		Invoice struct {
			Number string  `json:"number"`
			Total  float64 `json:"total"`
		} `json:"invoice"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &checkout))
	assert.True(t, strings.HasPrefix(checkout.Invoice.Number, "FACT-"))
	assert.Equal(t, 72590.0, checkout.Invoice.Total)

	// the cart is gone once it turns into an invoice
	w, _ = api.do(t, http.MethodGet, "/api/v1/carts/"+cart.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = api.do(t, http.MethodGet, "/api/v1/sales/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history struct {
		Invoices     []json.RawMessage `json:"invoices"`
		SessionTotal float64           `json:"session_total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &history))
	assert.Len(t, history.Invoices, 1)
	assert.Equal(t, 72590.0, history.SessionTotal)
}

func TestDayMenuOverHTTP(t *testing.T) {
	api := setupAPI(t)

	require.NoError(t, api.db.Create(&entity.MealType{Name: "Almuerzo", SortOrder: 2}).Error)
	var meal entity.MealType
	require.NoError(t, api.db.Where("name = ?", "Almuerzo").First(&meal).Error)

	w, env := api.do(t, http.MethodPost, "/api/v1/products", gin.H{"name": "Bandeja Paisa", "price": 32000})
	require.Equal(t, http.StatusCreated, w.Code)
	var p struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &p))

	w, _ = api.do(t, http.MethodPost, "/api/v1/menu/assignments", gin.H{
		"product_id":   p.ID,
		"meal_type_id": meal.ID.String(),
		"weekday":      3,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env = api.do(t, http.MethodGet, "/api/v1/menu/day/3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var products []struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &products))
	require.Len(t, products, 1)
	assert.Equal(t, "Bandeja Paisa", products[0].Name)

	// out-of-range weekdays are rejected
	w, _ = api.do(t, http.MethodGet, "/api/v1/menu/day/8", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// menu browsing is public
	api.token = ""
	w, _ = api.do(t, http.MethodGet, "/api/v1/menu/day/3", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
