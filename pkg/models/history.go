package models

import "time"

// DefaultDifficulty is the level a fresh history starts at.
const DefaultDifficulty = 2.0

// SendRecord is one entry in the send log.
type SendRecord struct {
	Date            string  `json:"date"` // YYYY-MM-DD
	VerbID          int     `json:"verb_id"`
	AdjectiveID     int     `json:"adjective_id"`
	Success         bool    `json:"success"`
	DifficultyLevel float64 `json:"difficulty_level"`
}

// Adjustment is one entry in the difficulty adjustment log.
type Adjustment struct {
	Date     string  `json:"date"` // YYYY-MM-DD
	Feedback string  `json:"feedback"`
	OldLevel float64 `json:"old_level"`
	NewLevel float64 `json:"new_level"`
}

// History is the single persisted state document. Used-word sets are
// tracked per catalog category and cleared independently when a catalog
// is exhausted; the rest of the document survives resets.
type History struct {
	SentEmails        []SendRecord     `json:"sent_emails"`
	Used              map[string][]int `json:"used_words"`
	TotalSent         int              `json:"total_emails_sent"`
	CurrentDifficulty float64          `json:"current_difficulty_level"`
	Adjustments       []Adjustment     `json:"difficulty_adjustments"`
	LastFeedbackCheck *time.Time       `json:"last_feedback_check"`
}

// NewHistory returns the default state used when no document exists yet.
func NewHistory() *History {
	return &History{
		SentEmails:        []SendRecord{},
		Used:              map[string][]int{},
		Adjustments:       []Adjustment{},
		CurrentDifficulty: DefaultDifficulty,
	}
}

// IsUsed reports whether the word ID has already been shown in the
// current cycle of the given category.
func (h *History) IsUsed(category string, id int) bool {
	for _, used := range h.Used[category] {
		if used == id {
			return true
		}
	}
	return false
}

// MarkUsed records a word ID as shown for the category. Adding the same
// ID twice is a no-op.
func (h *History) MarkUsed(category string, id int) {
	if h.IsUsed(category, id) {
		return
	}
	if h.Used == nil {
		h.Used = map[string][]int{}
	}
	h.Used[category] = append(h.Used[category], id)
}

// ResetUsed clears the used set for one category, starting a new
// exposure cycle. Other categories and the rest of the history are
// untouched.
func (h *History) ResetUsed(category string) {
	if h.Used != nil {
		h.Used[category] = []int{}
	}
}
