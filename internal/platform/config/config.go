package config

import (
	"fmt"
	"log"
	"time"

	"github.com/buildledger/site_ledger_app/internal/core/domain"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration, resolved once at startup. The time
// zone and currency are process-wide: day-boundary math and amount formatting
// never infer locale per call.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// TimeZone drives every half-open day and period window.
	TimeZone string
	Location *time.Location
	// CurrencyCode is display-only; ledger amounts are currency-agnostic.
	CurrencyCode string
	// DefaultBudgetPeriod applies when SetBudget is called without a period.
	DefaultBudgetPeriod domain.BudgetPeriod

	// RateLimit uses ulule/limiter's formatted syntax, e.g. "100-M".
	RateLimit string

	AMQPURL         string
	AMQPExchange    string
	AMQPIngestQueue string
	AMQPExportQueue string

	GoogleSpreadsheetID      string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string
}

// LoadConfig loads configuration from environment variables and a .env file
// if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "site-ledger-app")
	viper.SetDefault("TIME_ZONE", "UTC")
	viper.SetDefault("CURRENCY_CODE", "USD")
	viper.SetDefault("DEFAULT_BUDGET_PERIOD", string(domain.PeriodCalendarMonth))
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("AMQP_URL", "")
	viper.SetDefault("AMQP_EXCHANGE", "ledger")
	viper.SetDefault("AMQP_INGEST_QUEUE", "transactions.inbound")
	viper.SetDefault("AMQP_EXPORT_QUEUE", "reports.export")
	viper.SetDefault("GOOGLE_SPREADSHEET_ID", "")
	viper.SetDefault("GOOGLE_SERVICE_ACCOUNT_JSON", "")
	viper.SetDefault("GOOGLE_SERVICE_ACCOUNT_FILE", "")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if !cfg.IsProduction && cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiry, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiry = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION (%q). Defaulting to %s.\n", jwtExpiryStr, jwtExpiry)
	}
	cfg.JWTExpiryDuration = jwtExpiry
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.TimeZone = viper.GetString("TIME_ZONE")
	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIME_ZONE %q: %w", cfg.TimeZone, err)
	}
	cfg.Location = loc

	cfg.CurrencyCode = viper.GetString("CURRENCY_CODE")

	periodStr := viper.GetString("DEFAULT_BUDGET_PERIOD")
	period, err := domain.ParseBudgetPeriod(periodStr)
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_BUDGET_PERIOD %q: %w", periodStr, err)
	}
	cfg.DefaultBudgetPeriod = period

	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	cfg.AMQPURL = viper.GetString("AMQP_URL")
	cfg.AMQPExchange = viper.GetString("AMQP_EXCHANGE")
	cfg.AMQPIngestQueue = viper.GetString("AMQP_INGEST_QUEUE")
	cfg.AMQPExportQueue = viper.GetString("AMQP_EXPORT_QUEUE")

	cfg.GoogleSpreadsheetID = viper.GetString("GOOGLE_SPREADSHEET_ID")
	cfg.GoogleServiceAccountJSON = viper.GetString("GOOGLE_SERVICE_ACCOUNT_JSON")
	cfg.GoogleServiceAccountFile = viper.GetString("GOOGLE_SERVICE_ACCOUNT_FILE")

	return cfg, nil
}
