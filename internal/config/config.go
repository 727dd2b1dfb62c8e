package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"roundup/internal/core"
)

type Config struct {
	// HTTP Server
	Port string

	// Banking gateway
	GatewayBackend      string // "sandbox" or "starling"
	StarlingBaseURL     string
	StarlingAccessToken string
	StarlingHTTPTimeout time.Duration

	// Round-up screen
	WeekCount int

	// AMQP (optional; empty URL disables transfer events)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// HTTP response cache
	CacheSize int
	CacheTTL  time.Duration
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8082"),

		GatewayBackend:      getEnv("GATEWAY_BACKEND", "sandbox"),
		StarlingBaseURL:     getEnv("STARLING_BASE_URL", ""),
		StarlingAccessToken: getEnv("STARLING_ACCESS_TOKEN", ""),
		StarlingHTTPTimeout: getEnvDuration("STARLING_HTTP_TIMEOUT", 10*time.Second),

		WeekCount: getEnvInt("WEEK_COUNT", core.DefaultWeekCount),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "roundup"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "transfer_events"),

		CacheSize: getEnvInt("CACHE_SIZE", 64),
		CacheTTL:  getEnvDuration("CACHE_TTL", 2*time.Minute),
	}
}

// Validate checks the configuration and returns an error listing every
// violation it found.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.GatewayBackend {
	case "sandbox":
	case "starling":
		if c.StarlingAccessToken == "" {
			errs = append(errs, "STARLING_ACCESS_TOKEN is required when using the starling backend")
		}
		if c.StarlingHTTPTimeout < time.Second || c.StarlingHTTPTimeout > time.Minute {
			errs = append(errs, fmt.Sprintf("invalid starling timeout %v: must be between 1s and 1m", c.StarlingHTTPTimeout))
		}
	default:
		errs = append(errs, fmt.Sprintf("invalid gateway backend '%s': must be one of [sandbox starling]", c.GatewayBackend))
	}

	if c.WeekCount < 1 || c.WeekCount > 104 {
		errs = append(errs, fmt.Sprintf("invalid week count %d: must be between 1 and 104", c.WeekCount))
	}

	if c.AMQPURL != "" {
		if parsed, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsed.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.CacheSize < 1 || c.CacheSize > 10000 {
		errs = append(errs, fmt.Sprintf("invalid cache size %d: must be between 1 and 10000", c.CacheSize))
	}
	if c.CacheTTL < time.Second || c.CacheTTL > time.Hour {
		errs = append(errs, fmt.Sprintf("invalid cache TTL %v: must be between 1 second and 1 hour", c.CacheTTL))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
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
