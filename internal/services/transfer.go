package services

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/lehmann314159/wordbank/internal/logger"
	"github.com/lehmann314159/wordbank/internal/models"
)

// exampleSeparator splits hand-written example cells. Exported cells hold a
// JSON array instead so examples containing the separator survive.
const exampleSeparator = "|"

var csvHeader = []string{
	"word", "english_definition", "english_pronunciation", "english_examples", "category", "contributor", "translations",
}

// ImportCSV adds every headword row from r. Rows that are invalid or already
// in the dictionary are skipped and reported; store failures abort the import.
// The translations column holds a JSON array of translations as written by
// ExportCSV.
func (s *DictionaryService) ImportCSV(ctx context.Context, r io.Reader) (*models.ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	// Read header
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colIndex := make(map[string]int)
	for i, col := range header {
		colIndex[strings.ToLower(strings.TrimSpace(col))] = i
	}

	for _, col := range []string{"word", "english_definition"} {
		if _, ok := colIndex[col]; !ok {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	field := func(record []string, col string) string {
		idx, ok := colIndex[col]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	result := &models.ImportResult{}
	lineNum := 1 // Header is line 1

	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", lineNum, err))
			result.Skipped++
			continue
		}

		req := &models.CreateWordRequest{
			Word:                 field(record, "word"),
			EnglishDefinition:    field(record, "english_definition"),
			EnglishPronunciation: field(record, "english_pronunciation"),
			Category:             field(record, "category"),
			Contributor:          field(record, "contributor"),
		}

		examples, err := parseExamples(field(record, "english_examples"))
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", lineNum, err))
			result.Skipped++
			continue
		}
		req.EnglishExamples = examples

		translations, err := parseTranslations(field(record, "translations"))
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", lineNum, err))
			result.Skipped++
			continue
		}
		req.InitialTranslations = translations

		if err := req.Validate(); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", lineNum, err))
			result.Skipped++
			continue
		}

		if _, err := s.Add(ctx, req); err != nil {
			if errors.Is(err, models.ErrDuplicateEntry) {
				result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", lineNum, err))
				result.Skipped++
				continue
			}
			return result, fmt.Errorf("line %d: %w", lineNum, err)
		}

		result.Imported++
	}

	logger.Info("csv import finished", "imported", result.Imported, "skipped", result.Skipped)
	return result, nil
}

// ExportCSV writes every word to w in headword order. Examples and
// translations are JSON-encoded cells that ImportCSV reads back.
func (s *DictionaryService) ExportCSV(ctx context.Context, w io.Writer) error {
	words, err := s.ListAll(ctx, "")
	if err != nil {
		return fmt.Errorf("failed to fetch words: %w", err)
	}

	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, word := range words {
		examples, err := encodeCell(word.EnglishExamples)
		if err != nil {
			return fmt.Errorf("failed to encode examples of %s: %w", word.Word, err)
		}

		translations, err := encodeCell(translationRequests(word.Translations))
		if err != nil {
			return fmt.Errorf("failed to encode translations of %s: %w", word.Word, err)
		}

		record := []string{
			word.Word,
			word.EnglishDefinition,
			word.EnglishPronunciation,
			examples,
			word.Category,
			word.Contributor,
			translations,
		}

		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// parseExamples reads a JSON array cell, or a pipe-separated one
func parseExamples(cell string) ([]string, error) {
	if cell == "" {
		return nil, nil
	}
	if !strings.HasPrefix(cell, "[") {
		return strings.Split(cell, exampleSeparator), nil
	}

	var examples []string
	if err := json.Unmarshal([]byte(cell), &examples); err != nil {
		return nil, fmt.Errorf("%w: english_examples: %v", models.ErrInvalidInput, err)
	}
	return examples, nil
}

func parseTranslations(cell string) ([]models.TranslationRequest, error) {
	if cell == "" {
		return nil, nil
	}

	var translations []models.TranslationRequest
	if err := json.Unmarshal([]byte(cell), &translations); err != nil {
		return nil, fmt.Errorf("%w: translations: %v", models.ErrInvalidInput, err)
	}
	return translations, nil
}

// encodeCell JSON-encodes a list; an empty list is an empty cell
func encodeCell[T any](items []T) (string, error) {
	if len(items) == 0 {
		return "", nil
	}

	data, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func translationRequests(translations []models.Translation) []models.TranslationRequest {
	reqs := make([]models.TranslationRequest, 0, len(translations))
	for _, t := range translations {
		reqs = append(reqs, models.TranslationRequest{
			Language:      t.Language,
			Definition:    t.Definition,
			Pronunciation: t.Pronunciation,
			Examples:      t.Examples,
			Contributor:   t.Contributor,
		})
	}
	return reqs
}
