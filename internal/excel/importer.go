// Package excel imports vocabulary rows from Excel or CSV files into
// the catalog database.
package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/example/spanbot/internal/catalog"
	"github.com/example/spanbot/pkg/models"
)

// ImportConfig defines where the word fields live in the sheet.
type ImportConfig struct {
	FilePath          string // Path to the Excel or CSV file
	CategoryColumn    string // verbs or adjectives
	SpanishColumn     string
	SpanishFColumn    string // feminine form, adjectives only
	PluralMColumn     string
	PluralFColumn     string
	EnglishColumn     string
	ConjugationColumn string // verbs only
	ExampleColumn     string
	ExampleENColumn   string
	DifficultyColumn  string
	SheetName         string
	StartRow          int // 1-based; rows above are headers
}

// DefaultImportConfig returns the default column layout.
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		CategoryColumn:    "A",
		SpanishColumn:     "B",
		SpanishFColumn:    "C",
		PluralMColumn:     "D",
		PluralFColumn:     "E",
		EnglishColumn:     "F",
		ConjugationColumn: "G",
		ExampleColumn:     "H",
		ExampleENColumn:   "I",
		DifficultyColumn:  "J",
		SheetName:         "Sheet1",
		StartRow:          2,
	}
}

// ImportResult holds the outcome of an import operation.
type ImportResult struct {
	TotalProcessed int
	Created        int
	Updated        int
	Skipped        int
	Errors         []string
}

// ImportWords imports words from an Excel or CSV file into the store.
func ImportWords(store *catalog.DBSource, config ImportConfig) (*ImportResult, error) {
	ext := strings.ToLower(filepath.Ext(config.FilePath))
	if ext == ".csv" {
		return importFromCSV(store, config)
	}
	return importFromExcel(store, config)
}

func importFromExcel(store *catalog.DBSource, config ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %v", err)
	}

	result := &ImportResult{Errors: make([]string, 0)}
	for i, row := range rows {
		if i < config.StartRow-1 {
			continue
		}
		result.TotalProcessed++
		if err := processRow(store, row, config, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
		}
	}
	return result, nil
}

func importFromCSV(store *catalog.DBSource, config ImportConfig) (*ImportResult, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	result := &ImportResult{Errors: make([]string, 0)}
	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %v", err)
		}

		rowNum++
		if rowNum < config.StartRow {
			continue
		}

		result.TotalProcessed++
		if err := processRow(store, row, config, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
		}
	}
	return result, nil
}

// processRow extracts the configured columns from one row and upserts
// the word into its category.
func processRow(store *catalog.DBSource, row []string, config ImportConfig, result *ImportResult) error {
	cell := func(column string) string {
		if idx := columnToIndex(column); idx >= 0 && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	category := strings.ToLower(cell(config.CategoryColumn))
	spanish := cell(config.SpanishColumn)
	english := cell(config.EnglishColumn)

	if spanish == "" || english == "" {
		result.Skipped++
		return nil
	}

	switch category {
	case models.CategoryVerbs, models.CategoryAdjectives:
	default:
		return fmt.Errorf("unknown category %q", category)
	}

	word := models.Word{
		Spanish:     spanish,
		SpanishF:    cell(config.SpanishFColumn),
		PluralM:     cell(config.PluralMColumn),
		PluralF:     cell(config.PluralFColumn),
		English:     english,
		Conjugation: cell(config.ConjugationColumn),
		Example:     cell(config.ExampleColumn),
		ExampleEN:   cell(config.ExampleENColumn),
		Difficulty:  parseDifficulty(cell(config.DifficultyColumn)),
	}

	existing, err := store.FindBySpanish(category, spanish)
	if err != nil {
		return err
	}
	if existing != nil {
		word.ID = existing.ID
		if err := store.Update(category, &word); err != nil {
			return err
		}
		result.Updated++
		return nil
	}

	if err := store.Create(category, &word); err != nil {
		return err
	}
	result.Created++
	return nil
}

// parseDifficulty clamps the cell value into the 1.0-5.0 scale,
// defaulting to the middle of the range when the cell is empty or not a
// number.
func parseDifficulty(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 3.0
	}
	if v < 1.0 {
		return 1.0
	}
	if v > 5.0 {
		return 5.0
	}
	return v
}

// columnToIndex converts an Excel column letter to a zero-based index.
func columnToIndex(column string) int {
	column = strings.ToUpper(strings.TrimSpace(column))
	if column == "" {
		return -1
	}
	index := 0
	for i := 0; i < len(column); i++ {
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}
