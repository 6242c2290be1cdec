package models

// Catalog categories. Used as keys in catalog files, in the words table
// and in the history used-word sets.
const (
	CategoryVerbs      = "verbs"
	CategoryAdjectives = "adjectives"
)

// Word represents a Spanish vocabulary item from one of the catalogs.
// The selector only looks at ID and Difficulty; the rest is display data
// for the daily digest. Adjective-only fields are empty on verbs and
// vice versa.
type Word struct {
	ID          int     `json:"id" db:"id"`
	Spanish     string  `json:"spanish,omitempty" db:"spanish"`
	SpanishF    string  `json:"spanish_f,omitempty" db:"spanish_f"`
	PluralM     string  `json:"plural_m,omitempty" db:"plural_m"`
	PluralF     string  `json:"plural_f,omitempty" db:"plural_f"`
	English     string  `json:"english" db:"english"`
	Conjugation string  `json:"conjugation,omitempty" db:"conjugation"`
	Example     string  `json:"example,omitempty" db:"example"`
	ExampleEN   string  `json:"example_en,omitempty" db:"example_en"`
	Difficulty  float64 `json:"difficulty" db:"difficulty"` // 1.0-5.0 scale
}
