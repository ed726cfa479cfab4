package database

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"restopos/internal/config"
	"restopos/internal/domain/entity"
)

// NewPostgresDB connects to PostgreSQL, preferring the primary profile and
// falling back to the local profile when the primary host does not answer a
// short TCP probe. POS terminals keep a local replica for exactly this case.
func NewPostgresDB(cfg *config.Config) (*gorm.DB, error) {
	profile := cfg.Database
	if !profile.Reachable(2*time.Second) && cfg.Fallback.Host != "" {
		logrus.WithFields(logrus.Fields{
			"primary":  profile.Host,
			"fallback": cfg.Fallback.Host,
		}).Warn("primary database unreachable, switching to fallback")
		profile = cfg.Fallback
	}

	logLevel := logger.Warn
	if cfg.App.Debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  profile.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	logrus.WithField("host", profile.Host).Info("connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	logrus.Info("running database migrations")

	err := db.AutoMigrate(
		// Catalog entities
		&entity.MealType{},
		&entity.Product{},
		&entity.MenuAssignment{},

		// Pricing entities
		&entity.Promotion{},
		&entity.PromotionProduct{},

		// System entities
		&entity.User{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logrus.Info("database migrations completed")
	return nil
}

// SeedDefaultData seeds the meal-type slots and the admin user.
func SeedDefaultData(db *gorm.DB) error {
	mealTypes := []entity.MealType{
		{Name: "Desayuno", SortOrder: 1},
		{Name: "Almuerzo", SortOrder: 2},
		{Name: "Cena", SortOrder: 3},
	}

	for i := range mealTypes {
		var existing entity.MealType
		if err := db.Where("name = ?", mealTypes[i].Name).First(&existing).Error; err != nil {
			if err := db.Create(&mealTypes[i]).Error; err != nil {
				logrus.WithError(err).Warnf("failed to seed meal type %s", mealTypes[i].Name)
			}
		}
	}

	// Create the admin user if configured via environment variables
	adminUsername := viper.GetString("ADMIN_USERNAME")
	adminPassword := viper.GetString("ADMIN_PASSWORD")

	if adminUsername != "" && adminPassword != "" {
		var existing entity.User
		if err := db.Where("username = ?", adminUsername).First(&existing).Error; err != nil {
			hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
			if err != nil {
				logrus.WithError(err).Warn("failed to hash admin password")
			} else {
				admin := entity.User{
					Username: adminUsername,
					Password: string(hashed),
					FullName: viper.GetString("ADMIN_NAME"),
					Role:     "admin",
				}
				if err := db.Create(&admin).Error; err != nil {
					logrus.WithError(err).Warn("failed to create admin user")
				} else {
					logrus.WithField("username", adminUsername).Info("admin user created")
				}
			}
		}
	}

	return nil
}
