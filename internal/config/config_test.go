package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emailConfig() *Config {
	return &Config{
		GmailAddress:     "bot@example.com",
		GmailAppPassword: "app-password",
		RecipientEmail:   "student@example.com",
		Delivery:         DeliveryEmail,
		CatalogSource:    CatalogFile,
	}
}

func TestValidateEmailConfig(t *testing.T) {
	assert.NoError(t, emailConfig().Validate())
}

func TestValidateMissingEmailSettings(t *testing.T) {
	cfg := emailConfig()
	cfg.GmailAddress = ""
	cfg.RecipientEmail = ""

	err := cfg.Validate()
	require.Error(t, err)

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Len(t, cfgErr.Missing, 2)
	assert.Contains(t, err.Error(), "GMAIL_ADDRESS")
	assert.Contains(t, err.Error(), "RECIPIENT_EMAIL")
}

func TestValidateTelegramConfig(t *testing.T) {
	cfg := &Config{
		Delivery:       DeliveryTelegram,
		TelegramToken:  "123:abc",
		TelegramChatID: 42,
		CatalogSource:  CatalogFile,
	}
	assert.NoError(t, cfg.Validate())

	cfg.TelegramChatID = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TELEGRAM_CHAT_ID")
}

func TestValidateRejectsUnknownModes(t *testing.T) {
	cfg := emailConfig()
	cfg.Delivery = "carrier-pigeon"
	assert.Error(t, cfg.Validate())

	cfg = emailConfig()
	cfg.CatalogSource = "ouija"
	assert.Error(t, cfg.Validate())
}

func TestValidateFeedbackRequiresIMAPSettings(t *testing.T) {
	cfg := &Config{Delivery: DeliveryTelegram, TelegramToken: "t", TelegramChatID: 1}

	err := cfg.ValidateFeedback()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GMAIL_ADDRESS")
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"GMAIL_ADDRESS", "GMAIL_APP_PASSWORD", "RECIPIENT_EMAIL", "DELIVERY",
		"CATALOG_SOURCE", "VERBS_FILE", "ADJECTIVES_FILE", "HISTORY_FILE",
		"DB_DRIVER", "DB_PATH", "SMTP_SERVER", "IMAP_SERVER",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, DeliveryEmail, cfg.Delivery)
	assert.Equal(t, CatalogFile, cfg.CatalogSource)
	assert.Equal(t, "data/verbs.json", cfg.VerbsFile)
	assert.Equal(t, "data/adjectives.json", cfg.AdjectivesFile)
	assert.Equal(t, "data/history.json", cfg.HistoryFile)
	assert.Equal(t, "sqlite3", cfg.DBDriver)
	assert.Equal(t, "smtp.gmail.com", cfg.SMTPServer)
	assert.Equal(t, 465, cfg.SMTPPort)
	assert.Equal(t, "imap.gmail.com", cfg.IMAPServer)
	assert.Equal(t, 993, cfg.IMAPPort)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("GMAIL_ADDRESS", "bot@example.com")
	t.Setenv("DELIVERY", "telegram")
	t.Setenv("TELEGRAM_CHAT_ID", "4242")
	t.Setenv("HISTORY_FILE", "/tmp/history.json")

	cfg := Load()

	assert.Equal(t, "bot@example.com", cfg.GmailAddress)
	assert.Equal(t, DeliveryTelegram, cfg.Delivery)
	assert.Equal(t, int64(4242), cfg.TelegramChatID)
	assert.Equal(t, "/tmp/history.json", cfg.HistoryFile)
}
