package repository

import (
	"context"
	"time"

	"github.com/lehmann314159/wordbank/internal/models"
)

// DictionaryRepository defines the document operations on the dictionary collection
type DictionaryRepository interface {
	// Insert stores a new word document and returns its assigned ID
	Insert(ctx context.Context, word *models.Word) (string, error)

	// GetByID retrieves a word by its ID, or models.ErrNotFound
	GetByID(ctx context.Context, id string) (*models.Word, error)

	// FindByWord returns the first word whose headword equals word exactly, or models.ErrNotFound
	FindByWord(ctx context.Context, word string) (*models.Word, error)

	// AppendTranslation atomically appends t to the word's translations and sets lastUpdated
	AppendTranslation(ctx context.Context, id string, t models.Translation, updatedAt time.Time) error

	// RangeByWord returns words with lower <= word < upper ordered by word
	RangeByWord(ctx context.Context, lower, upper string) ([]*models.Word, error)

	// All returns every word ordered by word
	All(ctx context.Context) ([]*models.Word, error)
}
