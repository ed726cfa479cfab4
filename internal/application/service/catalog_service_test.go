package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"restopos/internal/domain/entity"
	"restopos/internal/domain/enum"
	"restopos/internal/domain/repository"
	infraRepo "restopos/internal/infrastructure/repository"
	"restopos/pkg/apperror"
	"restopos/pkg/pagination"
)

func newCatalogService(t *testing.T) (*CatalogService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	return NewCatalogService(
		infraRepo.NewProductRepository(db),
		infraRepo.NewMealTypeRepository(db),
		infraRepo.NewMenuRepository(db),
	), db
}

func listParams() *repository.ProductFilterParams {
	return &repository.ProductFilterParams{Pagination: &pagination.PaginationParams{}}
}

func TestCreateProductValidation(t *testing.T) {
	svc, _ := newCatalogService(t)
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, &CreateProductInput{Name: "   ", Price: -5})
	require.Error(t, err)

	appErr := apperror.GetAppError(err)
	assert.Equal(t, 422, appErr.Code)
	assert.Len(t, appErr.Errors, 2)
}

func TestCreateProductDefaultsCategory(t *testing.T) {
	svc, _ := newCatalogService(t)

	product, err := svc.CreateProduct(context.Background(), &CreateProductInput{
		Name:  "Hamburguesa",
		Price: 28000,
	})
	require.NoError(t, err)
	assert.Equal(t, "General", product.Category)
	assert.Equal(t, int64(2800000), product.Price)
}

func TestCreateProductDuplicateName(t *testing.T) {
	svc, _ := newCatalogService(t)
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, &CreateProductInput{Name: "Gaseosa", Price: 5000})
	require.NoError(t, err)

	_, err = svc.CreateProduct(ctx, &CreateProductInput{Name: "Gaseosa", Price: 6000})
	require.Error(t, err)
	assert.Equal(t, 409, apperror.GetAppError(err).Code)
}

func TestUpdateProductPartial(t *testing.T) {
	svc, _ := newCatalogService(t)
	ctx := context.Background()

	product, err := svc.CreateProduct(ctx, &CreateProductInput{
		Name: "Jugo", Price: 6000, Category: "Bebidas", Description: "Natural",
	})
	require.NoError(t, err)

	newPrice := 6500.0
	updated, err := svc.UpdateProduct(ctx, product.ID, &UpdateProductInput{Price: &newPrice})
	require.NoError(t, err)

	assert.Equal(t, int64(650000), updated.Price)
	// untouched fields keep their values
	assert.Equal(t, "Jugo", updated.Name)
	assert.Equal(t, "Bebidas", updated.Category)
	assert.Equal(t, "Natural", updated.Description)
}

func TestDeleteMissingProductLeavesCatalogUntouched(t *testing.T) {
	svc, _ := newCatalogService(t)
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, &CreateProductInput{Name: "Hamburguesa", Price: 28000})
	require.NoError(t, err)

	before, err := svc.ListProducts(ctx, listParams())
	require.NoError(t, err)

	err = svc.DeleteProduct(ctx, uuid.New())
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)

	after, err := svc.ListProducts(ctx, listParams())
	require.NoError(t, err)
	assert.Equal(t, before.Pagination.Total, after.Pagination.Total)
}

func TestDeleteProductCascades(t *testing.T) {
	svc, db := newCatalogService(t)
	ctx := context.Background()

	product, err := svc.CreateProduct(ctx, &CreateProductInput{Name: "Bandeja", Price: 35000})
	require.NoError(t, err)

	mealType := &entity.MealType{Name: "Almuerzo"}
	require.NoError(t, db.Create(mealType).Error)

	_, err = svc.AssignToDay(ctx, product.ID, mealType.ID, enum.Weekday(3))
	require.NoError(t, err)

	promo := seedPromotion(t, db, "Promo", 10, date(2025, 1, 1), date(2025, 1, 31))
	linkPromo(t, db, promo, product, 0)

	require.NoError(t, svc.DeleteProduct(ctx, product.ID))

	var assignments, links int64
	require.NoError(t, db.Model(&entity.MenuAssignment{}).Where("product_id = ?", product.ID).Count(&assignments).Error)
	require.NoError(t, db.Model(&entity.PromotionProduct{}).Where("product_id = ?", product.ID).Count(&links).Error)
	assert.Zero(t, assignments)
	assert.Zero(t, links)

	_, err = svc.GetProduct(ctx, product.ID)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}

func TestListProductsSearchAndCategory(t *testing.T) {
	svc, _ := newCatalogService(t)
	ctx := context.Background()

	for _, p := range []CreateProductInput{
		{Name: "Hamburguesa doble", Price: 32000, Category: "Comidas"},
		{Name: "Hamburguesa sencilla", Price: 28000, Category: "Comidas"},
		{Name: "Gaseosa", Price: 5000, Category: "Bebidas"},
	} {
		_, err := svc.CreateProduct(ctx, &p)
		require.NoError(t, err)
	}

	params := listParams()
	params.Search = "hamburguesa"
	result, err := svc.ListProducts(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Pagination.Total)

	params = listParams()
	params.Category = "Bebidas"
	result, err = svc.ListProducts(ctx, params)
	require.NoError(t, err)
	require.Equal(t, int64(1), result.Pagination.Total)
	assert.Equal(t, "Gaseosa", result.Items[0].Name)

	categories, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bebidas", "Comidas"}, categories)
}

func TestAssignToDayValidation(t *testing.T) {
	svc, db := newCatalogService(t)
	ctx := context.Background()

	product, err := svc.CreateProduct(ctx, &CreateProductInput{Name: "Arepa", Price: 4000})
	require.NoError(t, err)
	mealType := &entity.MealType{Name: "Desayuno"}
	require.NoError(t, db.Create(mealType).Error)

	_, err = svc.AssignToDay(ctx, product.ID, mealType.ID, enum.Weekday(0))
	require.Error(t, err)
	assert.Equal(t, 422, apperror.GetAppError(err).Code)

	_, err = svc.AssignToDay(ctx, product.ID, mealType.ID, enum.Weekday(8))
	require.Error(t, err)

	// double assignment of the same slot conflicts
	_, err = svc.AssignToDay(ctx, product.ID, mealType.ID, enum.Weekday(1))
	require.NoError(t, err)
	_, err = svc.AssignToDay(ctx, product.ID, mealType.ID, enum.Weekday(1))
	require.Error(t, err)
	assert.Equal(t, 409, apperror.GetAppError(err).Code)
}

func TestDayMenuFiltersInactive(t *testing.T) {
	svc, db := newCatalogService(t)
	ctx := context.Background()

	breakfast := &entity.MealType{Name: "Desayuno"}
	lunch := &entity.MealType{Name: "Almuerzo"}
	require.NoError(t, db.Create(breakfast).Error)
	require.NoError(t, db.Create(lunch).Error)

	arepa, err := svc.CreateProduct(ctx, &CreateProductInput{Name: "Arepa", Price: 4000})
	require.NoError(t, err)
	bandeja, err := svc.CreateProduct(ctx, &CreateProductInput{Name: "Bandeja", Price: 35000})
	require.NoError(t, err)

	monday := enum.Weekday(1)
	a1, err := svc.AssignToDay(ctx, arepa.ID, breakfast.ID, monday)
	require.NoError(t, err)
	_, err = svc.AssignToDay(ctx, bandeja.ID, lunch.ID, monday)
	require.NoError(t, err)

	products, err := svc.GetDayMenu(ctx, monday, nil)
	require.NoError(t, err)
	assert.Len(t, products, 2)

	// paused assignments drop off the menu but stay listed
	require.NoError(t, svc.SetAssignmentActive(ctx, a1.ID, false))

	products, err = svc.GetDayMenu(ctx, monday, nil)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Bandeja", products[0].Name)

	assignments, err := svc.ListAssignments(ctx, monday)
	require.NoError(t, err)
	assert.Len(t, assignments, 2)

	// meal-type filter
	products, err = svc.GetDayMenu(ctx, monday, &lunch.ID)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Bandeja", products[0].Name)

	// other weekdays are empty
	products, err = svc.GetDayMenu(ctx, enum.Weekday(2), nil)
	require.NoError(t, err)
	assert.Empty(t, products)
}
