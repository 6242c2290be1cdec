// Package telegram is the alternate delivery transport: the digest goes
// to a Telegram chat instead of an email inbox.
package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/spanbot/internal/config"
	"github.com/example/spanbot/internal/session"
)

// Deliverer sends the daily digest as a Markdown message.
type Deliverer struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// NewDeliverer authenticates against the Bot API.
func NewDeliverer(cfg *config.Config) (*Deliverer, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("creating Telegram bot: %v", err)
	}
	return &Deliverer{api: api, chatID: cfg.TelegramChatID}, nil
}

var _ session.Deliverer = (*Deliverer)(nil)

// Deliver formats and sends the digest.
func (d *Deliverer) Deliver(digest session.Digest) error {
	msg := tgbotapi.NewMessage(d.chatID, formatDigest(digest))
	msg.ParseMode = "Markdown"

	if _, err := d.api.Send(msg); err != nil {
		return fmt.Errorf("sending Telegram message: %v", err)
	}
	return nil
}

func formatDigest(d session.Digest) string {
	var b strings.Builder

	if d.TestMode {
		b.WriteString("(test)\n")
	}
	b.WriteString("*Your Daily Spanish Vocabulary*\n")
	b.WriteString(d.Date.Format("Monday, January 2, 2006") + "\n\n")

	if d.VerbReset || d.AdjectiveReset {
		var parts []string
		if d.VerbReset {
			parts = append(parts, "all verbs")
		}
		if d.AdjectiveReset {
			parts = append(parts, "all adjectives")
		}
		b.WriteString(fmt.Sprintf("🎉 You've completed %s. Starting a new cycle!\n\n", strings.Join(parts, " and ")))
	}

	b.WriteString(fmt.Sprintf("Verb: *%s* — %s\n", d.Verb.Spanish, d.Verb.English))
	if d.Verb.Conjugation != "" {
		b.WriteString(fmt.Sprintf("Conjugation: %s\n", d.Verb.Conjugation))
	}
	if d.Verb.Example != "" {
		b.WriteString(fmt.Sprintf("✏️ %s\n", d.Verb.Example))
	}
	b.WriteString("\n")

	adj := d.Adjective.Spanish
	if d.Adjective.SpanishF != "" {
		adj += "/" + d.Adjective.SpanishF
	}
	b.WriteString(fmt.Sprintf("Adjective: *%s* — %s\n", adj, d.Adjective.English))
	if d.Adjective.PluralM != "" {
		b.WriteString(fmt.Sprintf("Plural forms: %s, %s\n", d.Adjective.PluralM, d.Adjective.PluralF))
	}
	if d.Adjective.Example != "" {
		b.WriteString(fmt.Sprintf("✏️ %s\n", d.Adjective.Example))
	}

	b.WriteString(fmt.Sprintf("\nCurrent difficulty: %.1f (%s)", d.Difficulty, d.DifficultyName))
	return b.String()
}
