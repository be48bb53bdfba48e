package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Telegram
	BotToken string

	// Data files
	DataDir string

	// AMQP (optional; empty URL disables the notification handoff)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Scheduler
	TickInterval    time.Duration
	RuleDefaultTime string

	// Digest
	DigestHour int

	// Notifications
	NotifyTimeout time.Duration
}

func Load() *Config {
	cfg := &Config{
		BotToken: getEnv("BOT_TOKEN", ""),
		DataDir:  getEnv("DATA_DIR", "./data"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "finbot"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "notifications"),

		TickInterval:    getEnvDuration("TICK_INTERVAL", time.Minute),
		RuleDefaultTime: getEnv("RULE_DEFAULT_TIME", "12:10"),

		DigestHour: getEnvInt("DIGEST_HOUR", 9),

		NotifyTimeout: getEnvDuration("NOTIFY_TIMEOUT", 5*time.Second),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if c.DataDir == "" {
		errors = append(errors, "data directory cannot be empty")
	} else if _, err := os.Stat(c.DataDir); os.IsNotExist(err) {
		if err := os.MkdirAll(c.DataDir, 0755); err != nil {
			errors = append(errors, fmt.Sprintf("cannot create data directory '%s': %v", c.DataDir, err))
		}
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

	if c.TickInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid tick interval %v: must be at least 1 second", c.TickInterval))
	} else if c.TickInterval > time.Hour {
		errors = append(errors, fmt.Sprintf("invalid tick interval %v: must be at most 1 hour", c.TickInterval))
	}

	if _, err := time.Parse("15:04", c.RuleDefaultTime); err != nil || len(c.RuleDefaultTime) != 5 {
		errors = append(errors, fmt.Sprintf("invalid rule default time '%s': must be HH:MM", c.RuleDefaultTime))
	}

	if c.DigestHour < 0 || c.DigestHour > 23 {
		errors = append(errors, fmt.Sprintf("invalid digest hour %d: must be between 0 and 23", c.DigestHour))
	}

	if c.NotifyTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid notify timeout %v: must be at least 1 second", c.NotifyTimeout))
	} else if c.NotifyTimeout > time.Minute {
		errors = append(errors, fmt.Sprintf("invalid notify timeout %v: must be at most 1 minute", c.NotifyTimeout))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
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
