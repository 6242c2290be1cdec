package catalog

import (
	"encoding/json"
	"os"

	"github.com/example/spanbot/pkg/models"
)

// FileSource reads catalogs from JSON files. Each file holds a single
// object keyed by its category name, e.g. {"verbs": [...]}.
type FileSource struct {
	paths map[string]string
}

// NewFileSource maps the two standard categories to their files.
func NewFileSource(verbsFile, adjectivesFile string) *FileSource {
	return &FileSource{
		paths: map[string]string{
			models.CategoryVerbs:      verbsFile,
			models.CategoryAdjectives: adjectivesFile,
		},
	}
}

// Words loads and validates the word list for a category.
func (s *FileSource) Words(category string) ([]models.Word, error) {
	path, ok := s.paths[category]
	if !ok {
		return nil, errorsf("unknown category %q", category)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errorsf("reading %s: %v", path, err)
	}

	var doc map[string][]models.Word
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errorsf("parsing %s: %v", path, err)
	}

	words, ok := doc[category]
	if !ok {
		return nil, errorsf("%s is missing the %q key", path, category)
	}

	if err := validateIDs(category, words); err != nil {
		return nil, err
	}
	return words, nil
}
