// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/mmynk/tripledger/internal/money"
)

// DevJWTSecret is used when JWT_SECRET is unset. Validate rejects it unless
// ENV is "dev".
const DevJWTSecret = "dev-secret-change-in-production"

type Config struct {
	Env string

	// HTTP server
	Port string

	// Database
	DBPath string

	// Auth
	JWTSecret string
	JWTTTL    time.Duration

	// AMQP; events are disabled when AMQPURL is empty.
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// FX
	FXRates         string
	DefaultCurrency string

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads .env if present, then the environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to load .env file", "error", err)
	}
	return FromEnv()
}

// FromEnv reads the configuration from the process environment only.
func FromEnv() *Config {
	return &Config{
		Env:    getEnv("ENV", "dev"),
		Port:   getEnv("PORT", "8080"),
		DBPath: getEnv("DB_PATH", "./data/tripledger.db"),

		JWTSecret: getEnv("JWT_SECRET", DevJWTSecret),
		JWTTTL:    getEnvDuration("JWT_TTL", 24*time.Hour),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "tripledger"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "ledger_events"),

		FXRates:         getEnv("FX_RATES", "EUR:THB=38.5,USD:THB=36.1"),
		DefaultCurrency: getEnv("DEFAULT_CURRENCY", "EUR"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.DBPath == "" {
		errors = append(errors, "database path cannot be empty")
	}

	if c.JWTSecret == "" {
		errors = append(errors, "JWT secret cannot be empty")
	} else if c.JWTSecret == DevJWTSecret && c.Env != "dev" {
		errors = append(errors, "JWT_SECRET must be set outside dev")
	}
	if c.JWTTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid JWT TTL %v: must be at least 1 minute", c.JWTTTL))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if _, ok := money.NormalizeCurrency(c.DefaultCurrency); !ok {
		errors = append(errors, fmt.Sprintf("invalid default currency '%s': must be a 3-letter code", c.DefaultCurrency))
	}
	if _, err := ParseRates(c.FXRates); err != nil {
		errors = append(errors, fmt.Sprintf("invalid FX_RATES: %v", err))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be text or json", c.LogFormat))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// Rate is a static exchange rate: one unit of Base costs Rate units of Quote.
type Rate struct {
	Base  string
	Quote string
	Rate  float64
}

// ParseRates parses "EUR:THB=38.5,USD:THB=36.1". Empty input yields no rates.
func ParseRates(s string) ([]Rate, error) {
	var rates []Rate
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		pair, value, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("entry %q: missing '='", part)
		}
		base, quote, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("entry %q: pair must be BASE:QUOTE", part)
		}
		b, okB := money.NormalizeCurrency(base)
		q, okQ := money.NormalizeCurrency(quote)
		if !okB || !okQ {
			return nil, fmt.Errorf("entry %q: invalid currency code", part)
		}
		r, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || r <= 0 {
			return nil, fmt.Errorf("entry %q: rate must be a positive number", part)
		}
		rates = append(rates, Rate{Base: b, Quote: q, Rate: r})
	}
	return rates, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
