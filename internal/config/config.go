package config

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	Port              string   `mapstructure:"PORT"`
	Env               string   `mapstructure:"ENV"`
	DatabaseURL       string   `mapstructure:"DATABASE_URL"`
	DBMaxConns        int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns        int32    `mapstructure:"DB_MIN_CONNS"`
	CORSOrigins       []string `mapstructure:"CORS_ORIGINS"`
	CurrencySymbol    string   `mapstructure:"CURRENCY_SYMBOL"`
	DefaultAPRPercent string   `mapstructure:"DEFAULT_APR_PERCENT"`
	DefaultTermMonths int64    `mapstructure:"DEFAULT_TERM_MONTHS"`
	SessionTTLHours   int      `mapstructure:"SESSION_TTL_HOURS"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("CURRENCY_SYMBOL", "$")
	v.SetDefault("DEFAULT_APR_PERCENT", "15")
	v.SetDefault("DEFAULT_TERM_MONTHS", 48)
	v.SetDefault("SESSION_TTL_HOURS", 72)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("CURRENCY_SYMBOL")
	v.BindEnv("DEFAULT_APR_PERCENT")
	v.BindEnv("DEFAULT_TERM_MONTHS")
	v.BindEnv("SESSION_TTL_HOURS")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the financing defaults are usable. Submitted forms
// fall back to these values, so a misconfigured default would silently
// distort every estimate.
func (c *Config) Validate() error {
	apr, err := decimal.NewFromString(c.DefaultAPRPercent)
	if err != nil {
		return fmt.Errorf("DEFAULT_APR_PERCENT %q is not a number: %w", c.DefaultAPRPercent, err)
	}
	if apr.IsNegative() {
		return fmt.Errorf("DEFAULT_APR_PERCENT must not be negative, got %s", apr)
	}

	if c.DefaultTermMonths <= 0 {
		return fmt.Errorf("DEFAULT_TERM_MONTHS must be positive, got %d", c.DefaultTermMonths)
	}

	if c.SessionTTLHours <= 0 {
		return fmt.Errorf("SESSION_TTL_HOURS must be positive, got %d", c.SessionTTLHours)
	}

	return nil
}
