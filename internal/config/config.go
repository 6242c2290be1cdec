package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Delivery transport modes.
const (
	DeliveryEmail    = "email"
	DeliveryTelegram = "telegram"
)

// Catalog source modes.
const (
	CatalogFile = "file"
	CatalogDB   = "db"
)

// Config holds every setting the bot needs. It is built once at process
// start and passed down; nothing below main reads the environment.
type Config struct {
	// Gmail account used for both SMTP sending and IMAP feedback checks.
	GmailAddress     string
	GmailAppPassword string

	// Who receives the daily digest, and whose replies carry feedback.
	RecipientEmail string

	// email or telegram.
	Delivery string

	// Telegram transport settings, required only when Delivery is telegram.
	TelegramToken  string
	TelegramChatID int64

	// file or db.
	CatalogSource string

	// File paths for the file-backed catalog source and state document.
	VerbsFile      string
	AdjectivesFile string
	HistoryFile    string
	TemplateFile   string // optional; empty means the built-in template

	// Database settings for the db-backed catalog source.
	DBDriver string // sqlite3 or postgres
	DBPath   string // sqlite3 file path
	DBURL    string // postgres connection string

	SMTPServer string
	SMTPPort   int
	IMAPServer string
	IMAPPort   int
}

// Load reads .env (if present) and the environment into a Config.
// Validation is separate so commands that never touch the network (for
// example a dry run against file catalogs) can still inspect settings.
func Load() *Config {
	// Missing .env is fine; real deployments may set plain env vars.
	_ = godotenv.Load()

	cfg := &Config{
		GmailAddress:     os.Getenv("GMAIL_ADDRESS"),
		GmailAppPassword: os.Getenv("GMAIL_APP_PASSWORD"),
		RecipientEmail:   os.Getenv("RECIPIENT_EMAIL"),
		Delivery:         getenvDefault("DELIVERY", DeliveryEmail),
		TelegramToken:    os.Getenv("TELEGRAM_BOT_TOKEN"),
		CatalogSource:    getenvDefault("CATALOG_SOURCE", CatalogFile),
		VerbsFile:        getenvDefault("VERBS_FILE", "data/verbs.json"),
		AdjectivesFile:   getenvDefault("ADJECTIVES_FILE", "data/adjectives.json"),
		HistoryFile:      getenvDefault("HISTORY_FILE", "data/history.json"),
		TemplateFile:     os.Getenv("TEMPLATE_FILE"),
		DBDriver:         getenvDefault("DB_DRIVER", "sqlite3"),
		DBPath:           getenvDefault("DB_PATH", "data/spanbot.db"),
		DBURL:            os.Getenv("DATABASE_URL"),
		SMTPServer:       getenvDefault("SMTP_SERVER", "smtp.gmail.com"),
		SMTPPort:         465,
		IMAPServer:       getenvDefault("IMAP_SERVER", "imap.gmail.com"),
		IMAPPort:         993,
	}

	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		fmt.Sscanf(v, "%d", &cfg.TelegramChatID)
	}

	return cfg
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// ConfigurationError reports required settings that are missing. It is
// fatal and raised before any state mutation.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return "configuration errors:\n  - " + strings.Join(e.Missing, "\n  - ")
}

// Validate checks the settings required for the configured transport.
func (c *Config) Validate() error {
	var missing []string

	switch c.Delivery {
	case DeliveryEmail:
		if c.GmailAddress == "" {
			missing = append(missing, "GMAIL_ADDRESS not set")
		}
		if c.GmailAppPassword == "" {
			missing = append(missing, "GMAIL_APP_PASSWORD not set")
		}
		if c.RecipientEmail == "" {
			missing = append(missing, "RECIPIENT_EMAIL not set")
		}
	case DeliveryTelegram:
		if c.TelegramToken == "" {
			missing = append(missing, "TELEGRAM_BOT_TOKEN not set")
		}
		if c.TelegramChatID == 0 {
			missing = append(missing, "TELEGRAM_CHAT_ID not set")
		}
	default:
		missing = append(missing, fmt.Sprintf("DELIVERY must be %q or %q, got %q", DeliveryEmail, DeliveryTelegram, c.Delivery))
	}

	switch c.CatalogSource {
	case CatalogFile, CatalogDB:
	default:
		missing = append(missing, fmt.Sprintf("CATALOG_SOURCE must be %q or %q, got %q", CatalogFile, CatalogDB, c.CatalogSource))
	}

	if len(missing) > 0 {
		return &ConfigurationError{Missing: missing}
	}
	return nil
}

// ValidateFeedback checks the settings required for the feedback check,
// which always goes through IMAP regardless of the delivery transport.
func (c *Config) ValidateFeedback() error {
	var missing []string
	if c.GmailAddress == "" {
		missing = append(missing, "GMAIL_ADDRESS not set")
	}
	if c.GmailAppPassword == "" {
		missing = append(missing, "GMAIL_APP_PASSWORD not set")
	}
	if c.RecipientEmail == "" {
		missing = append(missing, "RECIPIENT_EMAIL not set")
	}
	if len(missing) > 0 {
		return &ConfigurationError{Missing: missing}
	}
	return nil
}
