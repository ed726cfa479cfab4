package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"restopos/internal/domain/entity"
	"restopos/internal/infrastructure/repository"
	"restopos/pkg/apperror"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
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
	return db
}

func newPricingService(t *testing.T) (*PricingService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	return NewPricingService(
		repository.NewPromotionRepository(db),
		repository.NewProductRepository(db),
	), db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, priceMinor int64) *entity.Product {
	t.Helper()
	p := &entity.Product{Name: name, Price: priceMinor, Category: "General"}
	require.NoError(t, db.Create(p).Error)
	return p
}

func seedPromotion(t *testing.T, db *gorm.DB, name string, percent int, start, end time.Time) *entity.Promotion {
	t.Helper()
	promo := &entity.Promotion{
		Name:            name,
		DiscountPercent: percent,
		StartDate:       start,
		EndDate:         end,
		Active:          true,
	}
	require.NoError(t, db.Create(promo).Error)
	return promo
}

func linkPromo(t *testing.T, db *gorm.DB, promo *entity.Promotion, product *entity.Product, specialPrice int64) {
	t.Helper()
	require.NoError(t, db.Create(&entity.PromotionProduct{
		PromotionID:  promo.ID,
		ProductID:    product.ID,
		SpecialPrice: specialPrice,
	}).Error)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolvePriceWindow(t *testing.T) {
	svc, db := newPricingService(t)
	ctx := context.Background()

	product := seedProduct(t, db, "Almuerzo ejecutivo", 1000000) // $10,000
	promo := seedPromotion(t, db, "Enero", 20, date(2025, 1, 1), date(2025, 1, 31))
	linkPromo(t, db, promo, product, 0)

	// inside the window the discount applies
	resolved, err := svc.ResolvePrice(ctx, product.ID, date(2025, 1, 15))
	require.NoError(t, err)
	assert.Equal(t, int64(800000), resolved.EffectivePrice)
	assert.Equal(t, 20, resolved.DiscountPercent)
	assert.Equal(t, "Enero", resolved.PromotionName)

	// both endpoints are inclusive
	for _, day := range []time.Time{date(2025, 1, 1), date(2025, 1, 31)} {
		resolved, err := svc.ResolvePrice(ctx, product.ID, day)
		require.NoError(t, err)
		assert.Equal(t, int64(800000), resolved.EffectivePrice, day)
	}

	// the day after the window the original price is back
	resolved, err = svc.ResolvePrice(ctx, product.ID, date(2025, 2, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(1000000), resolved.EffectivePrice)
	assert.Zero(t, resolved.DiscountPercent)
	assert.Empty(t, resolved.PromotionName)
}

func TestResolvePriceHighestDiscountWins(t *testing.T) {
	svc, db := newPricingService(t)
	ctx := context.Background()

	product := seedProduct(t, db, "Hamburguesa", 2800000)
	small := seedPromotion(t, db, "Descuento chico", 10, date(2025, 1, 1), date(2025, 1, 31))
	big := seedPromotion(t, db, "Descuento grande", 25, date(2025, 1, 1), date(2025, 1, 31))
	linkPromo(t, db, small, product, 0)
	linkPromo(t, db, big, product, 0)

	resolved, err := svc.ResolvePrice(ctx, product.ID, date(2025, 1, 10))
	require.NoError(t, err)
	assert.Equal(t, "Descuento grande", resolved.PromotionName)
	assert.Equal(t, int64(2100000), resolved.EffectivePrice)
}

func TestResolvePriceTieBreakOlderWins(t *testing.T) {
	svc, db := newPricingService(t)
	ctx := context.Background()

	product := seedProduct(t, db, "Gaseosa", 500000)

	older := &entity.Promotion{
		Name: "Primera", DiscountPercent: 15,
		StartDate: date(2025, 1, 1), EndDate: date(2025, 1, 31),
		Active: true, CreatedAt: date(2025, 1, 1),
	}
	newer := &entity.Promotion{
		Name: "Segunda", DiscountPercent: 15,
		StartDate: date(2025, 1, 1), EndDate: date(2025, 1, 31),
		Active: true, CreatedAt: date(2025, 1, 5),
	}
	require.NoError(t, db.Create(newer).Error)
	require.NoError(t, db.Create(older).Error)
	linkPromo(t, db, newer, product, 0)
	linkPromo(t, db, older, product, 0)

	resolved, err := svc.ResolvePrice(ctx, product.ID, date(2025, 1, 10))
	require.NoError(t, err)
	assert.Equal(t, "Primera", resolved.PromotionName)
}

func TestResolvePriceSpecialPriceWinsOutright(t *testing.T) {
	svc, db := newPricingService(t)
	ctx := context.Background()

	product := seedProduct(t, db, "Bandeja paisa", 3500000)
	promo := seedPromotion(t, db, "Especial", 10, date(2025, 1, 1), date(2025, 1, 31))
	linkPromo(t, db, promo, product, 2990000)

	resolved, err := svc.ResolvePrice(ctx, product.ID, date(2025, 1, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(2990000), resolved.EffectivePrice)
}

func TestResolvePriceInactivePromotionIgnored(t *testing.T) {
	svc, db := newPricingService(t)
	ctx := context.Background()

	product := seedProduct(t, db, "Jugo natural", 600000)
	promo := seedPromotion(t, db, "Apagada", 50, date(2025, 1, 1), date(2025, 1, 31))
	linkPromo(t, db, promo, product, 0)
	require.NoError(t, db.Model(promo).Update("active", false).Error)

	resolved, err := svc.ResolvePrice(ctx, product.ID, date(2025, 1, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(600000), resolved.EffectivePrice)
	assert.Zero(t, resolved.DiscountPercent)
}

func TestResolvePriceUnknownProduct(t *testing.T) {
	svc, _ := newPricingService(t)

	_, err := svc.ResolvePrice(context.Background(), uuid.New(), time.Now())
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}

func TestCreatePromotionValidation(t *testing.T) {
	svc, _ := newPricingService(t)
	ctx := context.Background()

	_, err := svc.CreatePromotion(ctx, &CreatePromotionInput{
		Name:            "",
		DiscountPercent: 120,
		StartDate:       date(2025, 2, 1),
		EndDate:         date(2025, 1, 1),
	})
	require.Error(t, err)

	appErr := apperror.GetAppError(err)
	assert.Equal(t, 422, appErr.Code)
	assert.Len(t, appErr.Errors, 3)
}

func TestPromotionWindowInclusiveOnBoundaryDays(t *testing.T) {
	svc, db := newPricingService(t)
	ctx := context.Background()

	product := seedProduct(t, db, "Sopa del dia", 800000)
	promo := seedPromotion(t, db, "Semana", 10, date(2025, 3, 3), date(2025, 3, 9))
	linkPromo(t, db, promo, product, 0)

	for _, day := range []time.Time{date(2025, 3, 3), date(2025, 3, 9)} {
		active, err := svc.ListActivePromotions(ctx, day)
		require.NoError(t, err)
		assert.Len(t, active, 1, day)

		discounted, err := svc.ListDiscounted(ctx, day)
		require.NoError(t, err)
		assert.Len(t, discounted, 1, day)
	}

	for _, day := range []time.Time{date(2025, 3, 2), date(2025, 3, 10)} {
		active, err := svc.ListActivePromotions(ctx, day)
		require.NoError(t, err)
		assert.Empty(t, active, day)
	}
}

func TestListDiscountedOneEntryPerProduct(t *testing.T) {
	svc, db := newPricingService(t)
	ctx := context.Background()

	product := seedProduct(t, db, "Hamburguesa", 2800000)
	small := seedPromotion(t, db, "Chico", 10, date(2025, 1, 1), date(2025, 1, 31))
	big := seedPromotion(t, db, "Grande", 30, date(2025, 1, 1), date(2025, 1, 31))
	linkPromo(t, db, small, product, 0)
	linkPromo(t, db, big, product, 0)

	resolved, err := svc.ListDiscounted(ctx, date(2025, 1, 10))
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Equal(t, "Grande", resolved[0].PromotionName)
	assert.Equal(t, int64(1960000), resolved[0].EffectivePrice)
}
