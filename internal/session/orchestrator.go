// Package session ties selection, delivery and history updates into the
// two run-to-completion cycles the bot performs: the daily send and the
// feedback check.
package session

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/example/spanbot/internal/feedback"
	"github.com/example/spanbot/internal/selector"
	"github.com/example/spanbot/pkg/models"
)

// ErrDelivery means the transport reported failure. History is left
// untouched so the same words stay eligible for the next run.
var ErrDelivery = errors.New("delivery failed")

// Digest is the rendered-content input handed to a delivery transport.
type Digest struct {
	Date            time.Time
	Verb            models.Word
	Adjective       models.Word
	Difficulty      float64
	DifficultyName  string
	VerbReset       bool
	AdjectiveReset  bool
	TestMode        bool
}

// Deliverer sends a digest to the recipient. The orchestrator only sees
// success or failure, never transport details.
type Deliverer interface {
	Deliver(d Digest) error
}

// Inbox fetches the most recent plausible reply since a cutoff. ok is
// false when there is nothing to process.
type Inbox interface {
	RecentReply(since time.Time) (body string, ok bool, err error)
}

// Store is the state persistence surface the orchestrator needs.
type Store interface {
	LoadOrDefault() (*models.History, error)
	Save(h *models.History) error
}

// CatalogSource returns the word list for a named category.
type CatalogSource interface {
	Words(category string) ([]models.Word, error)
}

// Orchestrator wires the collaborators for one invocation.
type Orchestrator struct {
	Store     Store
	Source    CatalogSource
	Selector  *selector.Selector
	Deliverer Deliverer
	Inbox     Inbox

	// Now is the clock; tests pin it. Nil means time.Now.
	Now func() time.Time
}

func (o *Orchestrator) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// SendResult reports what a send cycle picked and did.
type SendResult struct {
	Verb           models.Word
	Adjective      models.Word
	Difficulty     float64
	DifficultyName string
	VerbReset      bool
	AdjectiveReset bool
	Delivered      bool
}

// SendCycle runs one daily-send invocation. With dryRun the words are
// selected and reported but nothing is delivered and no state changes.
// History is only mutated and saved after the transport confirms
// success; a failed delivery surfaces ErrDelivery with state untouched.
func (o *Orchestrator) SendCycle(dryRun, testMode bool) (*SendResult, error) {
	hist, err := o.Store.LoadOrDefault()
	if err != nil {
		return nil, err
	}

	verbs, err := o.Source.Words(models.CategoryVerbs)
	if err != nil {
		return nil, err
	}
	adjectives, err := o.Source.Words(models.CategoryAdjectives)
	if err != nil {
		return nil, err
	}

	difficulty := hist.CurrentDifficulty

	verb, verbReset, err := o.Selector.Select(verbs, hist, models.CategoryVerbs, difficulty)
	if err != nil {
		return nil, fmt.Errorf("selecting verb: %w", err)
	}
	adjective, adjReset, err := o.Selector.Select(adjectives, hist, models.CategoryAdjectives, difficulty)
	if err != nil {
		return nil, fmt.Errorf("selecting adjective: %w", err)
	}

	result := &SendResult{
		Verb:           verb,
		Adjective:      adjective,
		Difficulty:     difficulty,
		DifficultyName: selector.DifficultyName(difficulty),
		VerbReset:      verbReset,
		AdjectiveReset: adjReset,
	}

	if verbReset {
		log.Println("All verbs have been used, starting a new cycle")
	}
	if adjReset {
		log.Println("All adjectives have been used, starting a new cycle")
	}

	if dryRun {
		return result, nil
	}

	digest := Digest{
		Date:           o.now(),
		Verb:           verb,
		Adjective:      adjective,
		Difficulty:     difficulty,
		DifficultyName: result.DifficultyName,
		VerbReset:      verbReset,
		AdjectiveReset: adjReset,
		TestMode:       testMode,
	}

	if err := o.Deliverer.Deliver(digest); err != nil {
		// No partial credit: the words were never marked used, so the
		// same picks stay eligible next run.
		return result, fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	result.Delivered = true

	hist.SentEmails = append(hist.SentEmails, models.SendRecord{
		Date:            o.now().Format("2006-01-02"),
		VerbID:          verb.ID,
		AdjectiveID:     adjective.ID,
		Success:         true,
		DifficultyLevel: difficulty,
	})
	hist.MarkUsed(models.CategoryVerbs, verb.ID)
	hist.MarkUsed(models.CategoryAdjectives, adjective.ID)
	hist.TotalSent++

	if err := o.Store.Save(hist); err != nil {
		return result, err
	}
	return result, nil
}

// FeedbackResult reports the outcome of a feedback check.
type FeedbackResult struct {
	Found    bool
	Keyword  string
	NewLevel float64
}

// FeedbackCycle fetches the latest reply since the cutoff, interprets
// it and persists any difficulty change. A reply without a recognized
// keyword, or no reply at all, leaves state unchanged.
func (o *Orchestrator) FeedbackCycle(since time.Time) (*FeedbackResult, error) {
	body, ok, err := o.Inbox.RecentReply(since)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &FeedbackResult{}, nil
	}

	kw, matched := feedback.Interpret(body)
	if !matched {
		return &FeedbackResult{}, nil
	}

	hist, err := o.Store.LoadOrDefault()
	if err != nil {
		return nil, err
	}

	newLevel := feedback.Apply(hist, kw, o.now())
	if err := o.Store.Save(hist); err != nil {
		return nil, err
	}

	log.Printf("Feedback received: %q (adjustment %+.1f), new difficulty %.1f",
		kw.Phrase, kw.Adjustment, newLevel)

	return &FeedbackResult{Found: true, Keyword: kw.Phrase, NewLevel: newLevel}, nil
}
