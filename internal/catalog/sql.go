package catalog

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/example/spanbot/pkg/models"
)

// DBSource serves catalogs from the words table. It doubles as the
// repository the importer writes through.
type DBSource struct {
	db *sqlx.DB
}

// NewDBSource creates a source over an open catalog database.
func NewDBSource(db *sqlx.DB) *DBSource {
	return &DBSource{db: db}
}

// rebind switches ? placeholders to $N for PostgreSQL.
func (s *DBSource) rebind(query string) string {
	return s.db.Rebind(query)
}

// Words returns the ordered word list for a category.
func (s *DBSource) Words(category string) ([]models.Word, error) {
	query := s.rebind(`
		SELECT id, spanish, spanish_f, plural_m, plural_f, english,
		       conjugation, example, example_en, difficulty
		FROM words WHERE category = ? ORDER BY id
	`)

	var words []models.Word
	if err := s.db.Select(&words, query, category); err != nil {
		return nil, errorsf("querying %s: %v", category, err)
	}
	return words, nil
}

// FindBySpanish looks up a word by its display form within a category.
// Returns nil without error when no row matches.
func (s *DBSource) FindBySpanish(category, spanish string) (*models.Word, error) {
	query := s.rebind(`
		SELECT id, spanish, spanish_f, plural_m, plural_f, english,
		       conjugation, example, example_en, difficulty
		FROM words WHERE category = ? AND LOWER(spanish) = LOWER(?)
	`)

	var w models.Word
	err := s.db.Get(&w, query, category, spanish)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errorsf("looking up %q: %v", spanish, err)
	}
	return &w, nil
}

// Create inserts a new word, assigning the next free ID in the category.
func (s *DBSource) Create(category string, w *models.Word) error {
	var nextID int
	query := s.rebind(`SELECT COALESCE(MAX(id), 0) + 1 FROM words WHERE category = ?`)
	if err := s.db.Get(&nextID, query, category); err != nil {
		return errorsf("allocating id: %v", err)
	}
	w.ID = nextID

	query = s.rebind(`
		INSERT INTO words (id, category, spanish, spanish_f, plural_m, plural_f,
		                   english, conjugation, example, example_en, difficulty)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := s.db.Exec(query, w.ID, category, w.Spanish, w.SpanishF, w.PluralM,
		w.PluralF, w.English, w.Conjugation, w.Example, w.ExampleEN, w.Difficulty)
	if err != nil {
		return errorsf("inserting %q: %v", w.Spanish, err)
	}
	return nil
}

// Update overwrites an existing word identified by category and ID.
func (s *DBSource) Update(category string, w *models.Word) error {
	query := s.rebind(`
		UPDATE words SET
			spanish = ?, spanish_f = ?, plural_m = ?, plural_f = ?,
			english = ?, conjugation = ?, example = ?, example_en = ?,
			difficulty = ?
		WHERE category = ? AND id = ?
	`)
	_, err := s.db.Exec(query, w.Spanish, w.SpanishF, w.PluralM, w.PluralF,
		w.English, w.Conjugation, w.Example, w.ExampleEN, w.Difficulty,
		category, w.ID)
	if err != nil {
		return errorsf("updating %q: %v", w.Spanish, err)
	}
	return nil
}
