package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all configuration for our application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Fees      FeesConfig      `mapstructure:"fees"`
	Cache     CacheConfig     `mapstructure:"cache"`
}

type ServerConfig struct {
	Port string `mapstructure:"SERVER_PORT"`
	Host string `mapstructure:"SERVER_HOST"`
	Env  string `mapstructure:"ENV"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"DATABASE_HOST"`
	Port     string `mapstructure:"DATABASE_PORT"`
	Name     string `mapstructure:"DATABASE_NAME"`
	User     string `mapstructure:"DATABASE_USER"`
	Password string `mapstructure:"DATABASE_PASSWORD"`
	SSLMode  string `mapstructure:"DATABASE_SSLMODE"`
}

type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`
	Port     string `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
}

type SchedulerConfig struct {
	StatementRefreshSpec string `mapstructure:"STATEMENT_REFRESH_SPEC"`
	Timezone             string `mapstructure:"SCHEDULER_TIMEZONE"`
}

// FeesConfig carries the deployment-level fee percentages. They are
// snapshotted onto a loan when it is funded; the accrual engine never
// reads them afterwards.
type FeesConfig struct {
	InitialFeePct string `mapstructure:"INITIAL_FEE_PCT"`
	DailyFeePct   string `mapstructure:"DAILY_FEE_PCT"`
	ExitFeePct    string `mapstructure:"EXIT_FEE_PCT"`
}

type CacheConfig struct {
	StatementTTL string `mapstructure:"STATEMENT_CACHE_TTL"`
}

// Load reads configuration from environment variables and files
func Load() (*Config, error) {
	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("DATABASE_HOST", "localhost")
	viper.SetDefault("DATABASE_PORT", "5432")
	viper.SetDefault("DATABASE_NAME", "advancements")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_SSLMODE", "disable")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("INITIAL_FEE_PCT", "15.00")
	viper.SetDefault("DAILY_FEE_PCT", "0.07")
	viper.SetDefault("EXIT_FEE_PCT", "1.50")
	viper.SetDefault("STATEMENT_CACHE_TTL", "1h")
	viper.SetDefault("STATEMENT_REFRESH_SPEC", "0 0 2 * * *")
	viper.SetDefault("SCHEDULER_TIMEZONE", "Europe/Dublin")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read from .env file (optional)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./deployments")

	// Don't fail if .env file doesn't exist
	_ = viper.ReadInConfig()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.Host == "" || c.Database.Name == "" {
		return fmt.Errorf("DATABASE_HOST and DATABASE_NAME are required")
	}

	// Fee percentages must parse and must not be negative
	for name, value := range map[string]string{
		"INITIAL_FEE_PCT": c.Fees.InitialFeePct,
		"DAILY_FEE_PCT":   c.Fees.DailyFeePct,
		"EXIT_FEE_PCT":    c.Fees.ExitFeePct,
	} {
		pct, err := decimal.NewFromString(value)
		if err != nil {
			return fmt.Errorf("%s must be a valid decimal: %w", name, err)
		}
		if pct.IsNegative() {
			return fmt.Errorf("%s must not be negative", name)
		}
	}

	if _, err := time.ParseDuration(c.Cache.StatementTTL); err != nil {
		return fmt.Errorf("STATEMENT_CACHE_TTL must be a valid duration: %w", err)
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// DSN builds the postgres connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// GetInitialFeePct returns the configured first-year fee percentage
func (c *Config) GetInitialFeePct() decimal.Decimal {
	pct, _ := decimal.NewFromString(c.Fees.InitialFeePct)
	return pct
}

// GetDailyFeePct returns the configured post-year-one daily rate
func (c *Config) GetDailyFeePct() decimal.Decimal {
	pct, _ := decimal.NewFromString(c.Fees.DailyFeePct)
	return pct
}

// GetExitFeePct returns the configured exit fee percentage
func (c *Config) GetExitFeePct() decimal.Decimal {
	pct, _ := decimal.NewFromString(c.Fees.ExitFeePct)
	return pct
}

// GetStatementTTL returns how long cached statements stay valid
func (c *Config) GetStatementTTL() time.Duration {
	ttl, _ := time.ParseDuration(c.Cache.StatementTTL)
	return ttl
}
