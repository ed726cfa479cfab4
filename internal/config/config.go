package config

import (
	"net"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Fallback  DatabaseConfig
	Business  BusinessConfig
	Printer   PrinterConfig
	JWT       JWTConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

// BusinessConfig holds the invoice header data and the tax rate applied at
// checkout. The rate is configuration, not a constant.
type BusinessConfig struct {
	Name     string
	TaxID    string
	TaxRate  float64
	Currency string
}

// PrinterConfig selects the receipt output backend: "cups", "network",
// "usb" or "none".
type PrinterConfig struct {
	Type      string
	QueueName string
	USBPath   string
	Address   string
	CharWidth int
	ExportDir string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.WithError(err).Warn(".env file not found, using environment variables")
	}

	// Set defaults
	viper.SetDefault("APP_NAME", "restopos")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "restopos")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "America/Bogota")
	viper.SetDefault("DB_FALLBACK_HOST", "")
	viper.SetDefault("DB_FALLBACK_PORT", "5432")
	viper.SetDefault("BUSINESS_NAME", "RESTAURANTE")
	viper.SetDefault("BUSINESS_TAX_ID", "123456789")
	viper.SetDefault("BUSINESS_TAX_RATE", 0.19)
	viper.SetDefault("BUSINESS_CURRENCY", "COP")
	viper.SetDefault("PRINTER_TYPE", "cups")
	viper.SetDefault("PRINTER_QUEUE", "")
	viper.SetDefault("PRINTER_USB_PATH", "")
	viper.SetDefault("PRINTER_ADDRESS", "")
	viper.SetDefault("PRINTER_CHAR_WIDTH", 48)
	viper.SetDefault("PRINTER_EXPORT_DIR", "./invoices")
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 12)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)

	primary := DatabaseConfig{
		Host:     viper.GetString("DB_HOST"),
		Port:     viper.GetString("DB_PORT"),
		Name:     viper.GetString("DB_NAME"),
		User:     viper.GetString("DB_USER"),
		Password: viper.GetString("DB_PASSWORD"),
		SSLMode:  viper.GetString("DB_SSL_MODE"),
		Timezone: viper.GetString("DB_TIMEZONE"),
	}

	// The fallback profile reuses the primary's credentials unless overridden.
	fallback := primary
	fallback.Host = viper.GetString("DB_FALLBACK_HOST")
	fallback.Port = viper.GetString("DB_FALLBACK_PORT")
	if user := viper.GetString("DB_FALLBACK_USER"); user != "" {
		fallback.User = user
	}
	if pass := viper.GetString("DB_FALLBACK_PASSWORD"); pass != "" {
		fallback.Password = pass
	}

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Database: primary,
		Fallback: fallback,
		Business: BusinessConfig{
			Name:     viper.GetString("BUSINESS_NAME"),
			TaxID:    viper.GetString("BUSINESS_TAX_ID"),
			TaxRate:  viper.GetFloat64("BUSINESS_TAX_RATE"),
			Currency: viper.GetString("BUSINESS_CURRENCY"),
		},
		Printer: PrinterConfig{
			Type:      viper.GetString("PRINTER_TYPE"),
			QueueName: viper.GetString("PRINTER_QUEUE"),
			USBPath:   viper.GetString("PRINTER_USB_PATH"),
			Address:   viper.GetString("PRINTER_ADDRESS"),
			CharWidth: viper.GetInt("PRINTER_CHAR_WIDTH"),
			ExportDir: viper.GetString("PRINTER_EXPORT_DIR"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
	}
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}

// Reachable probes the configured host with a short TCP dial. The fallback
// profile is only tried when the primary does not answer at all.
func (c *DatabaseConfig) Reachable(timeout time.Duration) bool {
	if c.Host == "" {
		return false
	}
	conn, err := net.DialTimeout("tcp", net.JoinHostPort(c.Host, c.Port), timeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
