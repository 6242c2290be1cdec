// Package feedback turns free-text reply bodies into bounded difficulty
// adjustments.
package feedback

import (
	"regexp"
	"strings"
	"time"

	"github.com/example/spanbot/pkg/models"
)

// Keyword is a lexical trigger with its signed difficulty adjustment.
type Keyword struct {
	Phrase     string
	Adjustment float64
}

// Keywords is the fixed trigger table. Matching scans it in this order
// and the first hit wins, so "too easy" in a reply is reported as "easy"
// (the bare form precedes the phrase). The order is part of the contract;
// reordering changes which keyword gets logged, not the adjustment.
var Keywords = []Keyword{
	{"easy", 0.5},
	{"too easy", 0.5},
	{"easier", 0.5},
	{"simple", 0.5},
	{"hard", -0.5},
	{"too hard", -0.5},
	{"harder", -0.5},
	{"difficult", -0.5},
	{"perfect", 0.0},
	{"good", 0.0},
	{"just right", 0.0},
}

var patterns = compilePatterns()

func compilePatterns() []*regexp.Regexp {
	ps := make([]*regexp.Regexp, len(Keywords))
	for i, k := range Keywords {
		// Word boundaries keep "easy" from matching inside "uneasy".
		ps[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(k.Phrase) + `\b`)
	}
	return ps
}

// Interpret scans the text for a feedback keyword, case-insensitively
// with whole-word matching. The second return is false when nothing
// matched; the caller then leaves state untouched.
func Interpret(text string) (Keyword, bool) {
	lower := strings.ToLower(text)
	for i, p := range patterns {
		if p.MatchString(lower) {
			return Keywords[i], true
		}
	}
	return Keyword{}, false
}

// Apply adjusts the history's difficulty by the keyword's delta, clamped
// to the valid range, and appends an adjustment-log entry. The caller
// persists the document afterwards. Returns the new level.
func Apply(h *models.History, k Keyword, now time.Time) float64 {
	oldLevel := h.CurrentDifficulty
	newLevel := clamp(oldLevel+k.Adjustment, 1.0, 5.0)

	h.Adjustments = append(h.Adjustments, models.Adjustment{
		Date:     now.Format("2006-01-02"),
		Feedback: k.Phrase,
		OldLevel: oldLevel,
		NewLevel: newLevel,
	})
	h.CurrentDifficulty = newLevel
	checked := now
	h.LastFeedbackCheck = &checked

	return newLevel
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
