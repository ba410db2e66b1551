package models

import (
	"fmt"
	"strings"
	"time"
)

// EnglishLanguage is the language every headword and its primary definition is written in
const EnglishLanguage = "English"

// AllFilter disables a language or category filter
const AllFilter = "all"

// SuggestedCategories are offered to contributors but not enforced
var SuggestedCategories = []string{
	"Slang", "Academic", "Dining", "Dormitory", "Sports", "Events", "Leadership", "Culture", "General",
}

// SuggestedLanguages are offered to contributors but not enforced
var SuggestedLanguages = []string{
	EnglishLanguage,
	"Swahili", "French", "Arabic", "Amharic", "Yoruba", "Zulu",
	"Afrikaans", "Hausa", "Igbo", "Portuguese", "Spanish", "Other",
}

// Word is a dictionary entry stored as one document in the dictionary collection
type Word struct {
	ID                   string        `json:"id,omitempty"`
	Word                 string        `json:"word"`
	EnglishDefinition    string        `json:"englishDefinition"`
	EnglishPronunciation string        `json:"englishPronunciation,omitempty"`
	EnglishExamples      []string      `json:"englishExamples,omitempty"`
	Translations         []Translation `json:"translations"`
	Category             string        `json:"category,omitempty"`
	Contributor          string        `json:"contributor,omitempty"`
	DateAdded            time.Time     `json:"dateAdded"`
	LastUpdated          time.Time     `json:"lastUpdated"`
}

// HasTranslation reports whether the word carries a translation in the given language
func (w *Word) HasTranslation(language string) bool {
	for _, t := range w.Translations {
		if t.Language == language {
			return true
		}
	}
	return false
}

// Translation is a language-specific definition embedded in a Word
type Translation struct {
	Language      string    `json:"language"`
	Definition    string    `json:"definition"`
	Pronunciation string    `json:"pronunciation,omitempty"`
	Examples      []string  `json:"examples,omitempty"`
	Contributor   string    `json:"contributor,omitempty"`
	DateAdded     time.Time `json:"dateAdded"`
}

// CreateWordRequest is the submission payload for a new headword
type CreateWordRequest struct {
	Word                 string               `json:"word"`
	EnglishDefinition    string               `json:"englishDefinition"`
	EnglishPronunciation string               `json:"englishPronunciation,omitempty"`
	EnglishExamples      []string             `json:"englishExamples,omitempty"`
	Category             string               `json:"category,omitempty"`
	Contributor          string               `json:"contributor,omitempty"`
	InitialTranslations  []TranslationRequest `json:"initialTranslations,omitempty"`
}

// Validate checks the fields a submitter must provide
func (r *CreateWordRequest) Validate() error {
	if strings.TrimSpace(r.Word) == "" {
		return fmt.Errorf("%w: word is required", ErrInvalidInput)
	}
	if strings.TrimSpace(r.EnglishDefinition) == "" {
		return fmt.Errorf("%w: englishDefinition is required", ErrInvalidInput)
	}
	return nil
}

// TranslationRequest is the submission payload for one translation
type TranslationRequest struct {
	Language      string   `json:"language"`
	Definition    string   `json:"definition"`
	Pronunciation string   `json:"pronunciation,omitempty"`
	Examples      []string `json:"examples,omitempty"`
	Contributor   string   `json:"contributor,omitempty"`
}

// Validate checks the fields a translation must carry
func (r *TranslationRequest) Validate() error {
	if strings.TrimSpace(r.Language) == "" {
		return fmt.Errorf("%w: language is required", ErrInvalidInput)
	}
	if strings.TrimSpace(r.Definition) == "" {
		return fmt.Errorf("%w: definition is required", ErrInvalidInput)
	}
	return nil
}

// Sort orders accepted by BrowseFilter
const (
	SortAlphabetical = "alphabetical"
	SortNewest       = "newest"
	SortOldest       = "oldest"
)

// BrowseFilter represents query parameters for browsing words
type BrowseFilter struct {
	Search   string
	Language string
	Category string
	Sort     string
	Limit    int
}

// ImportResult contains the results of a CSV import operation
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}
