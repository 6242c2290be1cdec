// Package selector implements the adaptive word selection used for the
// daily digest. Words are drawn from the unused portion of a catalog
// with a tiered probability across three difficulty bands: mostly at the
// recipient's current level, sometimes a step above for challenge,
// occasionally a step below for review.
package selector

import (
	"errors"
	"math/rand"

	"github.com/example/spanbot/pkg/models"
)

// ErrNoCandidates means the catalog has no words at all. This is a
// precondition violation and is not retried.
var ErrNoCandidates = errors.New("no words available to select from")

// Band probabilities and geometry.
const (
	currentShare = 0.70
	higherShare  = 0.20 // cumulative cutoff 0.90
	bandWidth    = 0.5
	bandStep     = 1.0

	MinDifficulty = 1.0
	MaxDifficulty = 5.0
)

// Selector picks words for a catalog given the current difficulty. The
// random source is injected so tests can seed it and assert
// distributional properties.
type Selector struct {
	rng *rand.Rand
}

// New creates a selector backed by the given random source.
func New(rng *rand.Rand) *Selector {
	return &Selector{rng: rng}
}

// Select picks one unused word from the catalog. When every word has
// been used the category's used set in history is cleared, the whole
// catalog becomes eligible again and the returned reset flag is true.
// The used set is not otherwise modified; marking the pick as used is
// the caller's job once delivery succeeds.
func (s *Selector) Select(words []models.Word, history *models.History, category string, difficulty float64) (models.Word, bool, error) {
	if len(words) == 0 {
		return models.Word{}, false, ErrNoCandidates
	}

	unused := make([]models.Word, 0, len(words))
	for _, w := range words {
		if !history.IsUsed(category, w.ID) {
			unused = append(unused, w)
		}
	}

	reset := false
	if len(unused) == 0 {
		// Full cycle complete: start over.
		history.ResetUsed(category)
		unused = words
		reset = true
	}

	return s.pick(unused, difficulty), reset, nil
}

// pick applies the 70/20/10 band distribution over the given pool.
func (s *Selector) pick(pool []models.Word, difficulty float64) models.Word {
	current := filterByDifficulty(pool, difficulty, bandWidth)
	higher := filterByDifficulty(pool, min(MaxDifficulty, difficulty+bandStep), bandWidth)
	lower := filterByDifficulty(pool, max(MinDifficulty, difficulty-bandStep), bandWidth)

	r := s.rng.Float64()
	switch {
	case r < currentShare && len(current) > 0:
		return current[s.rng.Intn(len(current))]
	case r < currentShare+higherShare && len(higher) > 0:
		return higher[s.rng.Intn(len(higher))]
	case len(lower) > 0:
		return lower[s.rng.Intn(len(lower))]
	default:
		// Chosen band was empty: any unused word will do.
		return pool[s.rng.Intn(len(pool))]
	}
}

// filterByDifficulty returns the words within tolerance of the target
// level. Bands built from overlapping targets may share words.
func filterByDifficulty(words []models.Word, target, tolerance float64) []models.Word {
	lo := max(MinDifficulty, target-tolerance)
	hi := min(MaxDifficulty, target+tolerance)

	var out []models.Word
	for _, w := range words {
		if w.Difficulty >= lo && w.Difficulty <= hi {
			out = append(out, w)
		}
	}
	return out
}

// DifficultyName converts a difficulty level to a human-readable name
// for the digest.
func DifficultyName(level float64) string {
	switch {
	case level < 1.5:
		return "Beginner"
	case level < 2.5:
		return "Elementary"
	case level < 3.5:
		return "Intermediate"
	case level < 4.5:
		return "Advanced"
	default:
		return "Expert"
	}
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
