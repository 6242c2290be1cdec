// Package catalog loads vocabulary catalogs from JSON files or from a
// words table in SQLite/PostgreSQL.
package catalog

import (
	"errors"
	"fmt"

	"github.com/example/spanbot/pkg/models"
)

// ErrCatalogLoad means a catalog source is missing or malformed. Fatal
// for the run.
var ErrCatalogLoad = errors.New("failed to load word catalog")

// Source returns the ordered word list for a named category.
type Source interface {
	Words(category string) ([]models.Word, error)
}

// validateIDs enforces the unique-ID invariant within one catalog.
func validateIDs(category string, words []models.Word) error {
	seen := make(map[int]bool, len(words))
	for _, w := range words {
		if seen[w.ID] {
			return errorsf("duplicate id %d in %s catalog", w.ID, category)
		}
		seen[w.ID] = true
	}
	return nil
}

// errorsf wraps ErrCatalogLoad with a formatted detail message.
func errorsf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrCatalogLoad}, args...)...)
}
