package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the process needs from the environment.
type Config struct {
	BotToken    string
	DatabaseURL string

	// AdminIDs are the operators allowed to use the review surface.
	AdminIDs []int64

	// BankDetails is the free-text transfer instruction shown on invoices.
	BankDetails string

	// PaymentLogChatID receives review cards, NewUserLogChatID new-lead
	// notifications. Zero disables the respective channel.
	PaymentLogChatID int64
	NewUserLogChatID int64

	WebhookBaseURL string
	Port           int

	// Admission gate intervals per event class.
	MessageInterval  time.Duration
	CallbackInterval time.Duration

	// BroadcastDelay is the minimum pause between fan-out sends.
	BroadcastDelay time.Duration

	// ConversationTTL expires stalled mid-flow state. Zero (the default)
	// disables expiry.
	ConversationTTL time.Duration

	LogLevel  string
	LogFormat string
}

// LoadConfig reads .env if present and assembles the config from the
// environment. Only BOT_TOKEN and DATABASE_URL are mandatory.
func LoadConfig() (*Config, error) {
	// A missing .env is fine in production where the environment is real.
	_ = godotenv.Load()

	cfg := &Config{
		BotToken:         os.Getenv("BOT_TOKEN"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		AdminIDs:         envInt64List("ADMIN_IDS"),
		BankDetails:      envOr("BANK_DETAILS", "CBE: 1000... | Telebirr: 09..."),
		PaymentLogChatID: envInt64("ADMIN_PAYMENT_LOG_ID", 0),
		NewUserLogChatID: envInt64("ADMIN_NEW_USER_LOG_ID", 0),
		WebhookBaseURL:   os.Getenv("WEBHOOK_BASE_URL"),
		Port:             int(envInt64("PORT", 8080)),
		MessageInterval:  envDuration("MESSAGE_INTERVAL", 800*time.Millisecond),
		CallbackInterval: envDuration("CALLBACK_INTERVAL", 500*time.Millisecond),
		BroadcastDelay:   envDuration("BROADCAST_DELAY", 50*time.Millisecond),
		ConversationTTL:  envDuration("CONVERSATION_TTL", 0),
		LogLevel:         envOr("LOG_LEVEL", "info"),
		LogFormat:        envOr("LOG_FORMAT", "console"),
	}

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	return cfg, nil
}

// IsAdmin reports whether the given Telegram id belongs to an operator.
func (c *Config) IsAdmin(id int64) bool {
	for _, admin := range c.AdminIDs {
		if admin == id {
			return true
		}
	}
	return false
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func envInt64List(key string) []int64 {
	var out []int64
	for _, part := range strings.Split(os.Getenv(key), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if n, err := strconv.ParseInt(part, 10, 64); err == nil {
			out = append(out, n)
		}
	}
	return out
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
