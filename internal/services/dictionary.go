package services

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/lehmann314159/wordbank/internal/logger"
	"github.com/lehmann314159/wordbank/internal/models"
	"github.com/lehmann314159/wordbank/internal/repository"
)

// highSentinel is the largest code point; appended to a prefix it bounds
// every headword that starts with that prefix.
const highSentinel = "\U0010FFFF"

// DictionaryService provides the word repository operations
type DictionaryService struct {
	repo repository.DictionaryRepository
	now  func() time.Time
}

// NewDictionaryService creates a new dictionary service
func NewDictionaryService(repo repository.DictionaryRepository) *DictionaryService {
	return NewDictionaryServiceWithClock(repo, func() time.Time { return time.Now().UTC() })
}

// NewDictionaryServiceWithClock creates a dictionary service with a custom time source
func NewDictionaryServiceWithClock(repo repository.DictionaryRepository, now func() time.Time) *DictionaryService {
	return &DictionaryService{
		repo: repo,
		now:  now,
	}
}

// NormalizeHeadword trims and lower-cases a headword the way it is stored
func NormalizeHeadword(word string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(word))
}

// CheckExists returns the stored word matching the normalized headword, or
// nil when there is none.
func (s *DictionaryService) CheckExists(ctx context.Context, word string) (*models.Word, error) {
	found, err := s.repo.FindByWord(ctx, NormalizeHeadword(word))
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return found, nil
}

// Add stores a new word and returns its ID. Required fields are the caller's
// responsibility; see models.CreateWordRequest.Validate.
//
// The duplicate check and the insert are separate store calls, so two
// concurrent adds of the same headword can both succeed.
func (s *DictionaryService) Add(ctx context.Context, req *models.CreateWordRequest) (string, error) {
	existing, err := s.CheckExists(ctx, req.Word)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", &models.DuplicateEntryError{Word: existing.Word, ExistingID: existing.ID}
	}

	now := s.now()
	contributor := strings.TrimSpace(req.Contributor)

	word := &models.Word{
		Word:                 NormalizeHeadword(req.Word),
		EnglishDefinition:    strings.TrimSpace(req.EnglishDefinition),
		EnglishPronunciation: strings.TrimSpace(req.EnglishPronunciation),
		EnglishExamples:      cleanExamples(req.EnglishExamples),
		Category:             strings.TrimSpace(req.Category),
		Contributor:          contributor,
		Translations:         []models.Translation{},
		DateAdded:            now,
		LastUpdated:          now,
	}

	for _, tr := range req.InitialTranslations {
		if t, ok := buildTranslation(tr, contributor, now); ok {
			word.Translations = append(word.Translations, t)
		}
	}

	id, err := s.repo.Insert(ctx, word)
	if err != nil {
		return "", err
	}

	logger.Info("word added", "id", id, "word", word.Word, "translations", len(word.Translations))
	return id, nil
}

// AddTranslation appends a translation to the word with the given ID and
// returns that ID. A second translation in an already present language is
// appended as another entry.
func (s *DictionaryService) AddTranslation(ctx context.Context, wordID string, req *models.TranslationRequest) (string, error) {
	now := s.now()
	t, ok := buildTranslation(*req, "", now)
	if !ok {
		return "", fmt.Errorf("%w: translation needs a language and a definition", models.ErrInvalidInput)
	}

	if err := s.repo.AppendTranslation(ctx, wordID, t, now); err != nil {
		return "", err
	}

	logger.Info("translation added", "id", wordID, "language", t.Language)
	return wordID, nil
}

// Get retrieves a single word by ID
func (s *DictionaryService) Get(ctx context.Context, id string) (*models.Word, error) {
	return s.repo.GetByID(ctx, id)
}

// Search returns words whose headword starts with term, in headword order,
// optionally restricted to words translated into lang.
func (s *DictionaryService) Search(ctx context.Context, term, lang string) ([]*models.Word, error) {
	prefix := NormalizeHeadword(term)
	words, err := s.repo.RangeByWord(ctx, prefix, prefix+highSentinel)
	if err != nil {
		return nil, err
	}
	return filterByLanguage(words, lang), nil
}

// ListAll returns every word in headword order, optionally restricted to
// words translated into lang. The whole collection is read on every call.
func (s *DictionaryService) ListAll(ctx context.Context, lang string) ([]*models.Word, error) {
	words, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}
	return filterByLanguage(words, lang), nil
}

// AvailableLanguages returns English plus every translation language in use,
// sorted. Store failures degrade to just English.
func (s *DictionaryService) AvailableLanguages(ctx context.Context) []string {
	words, err := s.ListAll(ctx, "")
	if err != nil {
		logger.Error("failed to load languages", "error", err)
		return []string{models.EnglishLanguage}
	}

	seen := map[string]bool{models.EnglishLanguage: true}
	for _, w := range words {
		for _, t := range w.Translations {
			seen[t.Language] = true
		}
	}

	languages := make([]string, 0, len(seen))
	for lang := range seen {
		languages = append(languages, lang)
	}
	slices.Sort(languages)
	return languages
}

// Categories returns the distinct categories used by stored words, sorted
func (s *DictionaryService) Categories(ctx context.Context) ([]string, error) {
	words, err := s.ListAll(ctx, "")
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	categories := []string{}
	for _, w := range words {
		if w.Category != "" && !seen[w.Category] {
			seen[w.Category] = true
			categories = append(categories, w.Category)
		}
	}
	slices.Sort(categories)
	return categories, nil
}

// Browse searches or lists words, then applies the category filter, sort
// order and limit from filter.
func (s *DictionaryService) Browse(ctx context.Context, filter models.BrowseFilter) ([]*models.Word, error) {
	var words []*models.Word
	var err error
	if strings.TrimSpace(filter.Search) != "" {
		words, err = s.Search(ctx, filter.Search, filter.Language)
	} else {
		words, err = s.ListAll(ctx, filter.Language)
	}
	if err != nil {
		return nil, err
	}

	if filter.Category != "" && filter.Category != models.AllFilter {
		words = slices.DeleteFunc(words, func(w *models.Word) bool {
			return w.Category != filter.Category
		})
	}

	switch filter.Sort {
	case "":
	case models.SortAlphabetical:
		slices.SortStableFunc(words, func(a, b *models.Word) int {
			return cmp.Compare(a.Word, b.Word)
		})
	case models.SortNewest:
		slices.SortStableFunc(words, func(a, b *models.Word) int {
			return b.DateAdded.Compare(a.DateAdded)
		})
	case models.SortOldest:
		slices.SortStableFunc(words, func(a, b *models.Word) int {
			return a.DateAdded.Compare(b.DateAdded)
		})
	default:
		return nil, fmt.Errorf("%w: unknown sort %q", models.ErrInvalidInput, filter.Sort)
	}

	if filter.Limit > 0 && len(words) > filter.Limit {
		words = words[:filter.Limit]
	}

	return words, nil
}

func filterByLanguage(words []*models.Word, lang string) []*models.Word {
	if lang == "" || lang == models.AllFilter || lang == models.EnglishLanguage {
		return words
	}

	filtered := make([]*models.Word, 0, len(words))
	for _, w := range words {
		if w.HasTranslation(lang) {
			filtered = append(filtered, w)
		}
	}
	return filtered
}

// buildTranslation normalizes a translation request. It reports false when
// the language or definition is blank.
func buildTranslation(req models.TranslationRequest, defaultContributor string, now time.Time) (models.Translation, bool) {
	t := models.Translation{
		Language:      strings.TrimSpace(req.Language),
		Definition:    strings.TrimSpace(req.Definition),
		Pronunciation: strings.TrimSpace(req.Pronunciation),
		Examples:      cleanExamples(req.Examples),
		Contributor:   strings.TrimSpace(req.Contributor),
		DateAdded:     now,
	}
	if t.Language == "" || t.Definition == "" {
		return models.Translation{}, false
	}
	if t.Contributor == "" {
		t.Contributor = defaultContributor
	}
	return t, true
}

// cleanExamples drops blank examples; nil means the field is omitted
func cleanExamples(examples []string) []string {
	var cleaned []string
	for _, ex := range examples {
		if ex = strings.TrimSpace(ex); ex != "" {
			cleaned = append(cleaned, ex)
		}
	}
	return cleaned
}
