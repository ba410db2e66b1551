package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/lehmann314159/wordbank/internal/models"
)

// SQLiteRepository implements DictionaryRepository as JSON documents in SQLite
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite repository
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Insert stores a new word document and returns its assigned ID
func (r *SQLiteRepository) Insert(ctx context.Context, word *models.Word) (string, error) {
	doc := *word
	doc.ID = ""
	if doc.Translations == nil {
		doc.Translations = []models.Translation{}
	}

	data, err := json.Marshal(&doc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal word: %w", err)
	}

	id := uuid.NewString()
	_, err = r.db.ExecContext(ctx, `INSERT INTO dictionary (id, document) VALUES (?, ?)`, id, string(data))
	if err != nil {
		return "", classify("failed to insert word", err)
	}

	return id, nil
}

// GetByID retrieves a word by its ID
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Word, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, document FROM dictionary WHERE id = ?`, id)
	return r.scanWord(row)
}

// FindByWord returns the first word whose headword equals word exactly
func (r *SQLiteRepository) FindByWord(ctx context.Context, word string) (*models.Word, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, document FROM dictionary WHERE word = ? ORDER BY rowid LIMIT 1`, word,
	)
	return r.scanWord(row)
}

// AppendTranslation appends t to the stored translations array in a single
// statement, so concurrent appends to the same word are all kept.
func (r *SQLiteRepository) AppendTranslation(ctx context.Context, id string, t models.Translation, updatedAt time.Time) error {
	data, err := json.Marshal(&t)
	if err != nil {
		return fmt.Errorf("failed to marshal translation: %w", err)
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE dictionary
		 SET document = json_set(json_insert(document, '$.translations[#]', json(?)), '$.lastUpdated', ?)
		 WHERE id = ?`,
		string(data), updatedAt.Format(time.RFC3339Nano), id,
	)
	if err != nil {
		return classify("failed to append translation", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrNotFound
	}

	return nil
}

// RangeByWord returns words with lower <= word < upper ordered by word
func (r *SQLiteRepository) RangeByWord(ctx context.Context, lower, upper string) ([]*models.Word, error) {
	return r.queryWords(ctx,
		`SELECT id, document FROM dictionary WHERE word >= ? AND word < ? ORDER BY word, rowid`,
		lower, upper,
	)
}

// All returns every word ordered by word
func (r *SQLiteRepository) All(ctx context.Context) ([]*models.Word, error) {
	return r.queryWords(ctx, `SELECT id, document FROM dictionary ORDER BY word, rowid`)
}

func (r *SQLiteRepository) queryWords(ctx context.Context, query string, args ...any) ([]*models.Word, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify("failed to query words", err)
	}
	defer rows.Close()

	var words []*models.Word
	for rows.Next() {
		var id, document string
		if err := rows.Scan(&id, &document); err != nil {
			return nil, fmt.Errorf("failed to scan word: %w", err)
		}

		word, err := decodeWord(id, document)
		if err != nil {
			return nil, err
		}
		words = append(words, word)
	}

	if err := rows.Err(); err != nil {
		return nil, classify("error iterating rows", err)
	}

	return words, nil
}

// scanWord scans a single row into a Word
func (r *SQLiteRepository) scanWord(row *sql.Row) (*models.Word, error) {
	var id, document string
	if err := row.Scan(&id, &document); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, classify("failed to scan word", err)
	}

	return decodeWord(id, document)
}

func decodeWord(id, document string) (*models.Word, error) {
	var word models.Word
	if err := json.Unmarshal([]byte(document), &word); err != nil {
		return nil, fmt.Errorf("failed to unmarshal word %s: %w", id, err)
	}

	word.ID = id
	if word.Translations == nil {
		word.Translations = []models.Translation{}
	}

	return &word, nil
}

// classify wraps err with msg and marks access failures with models.ErrPermissionDenied
func classify(msg string, err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code {
		case sqlite3.ErrPerm, sqlite3.ErrReadonly, sqlite3.ErrAuth, sqlite3.ErrCantOpen:
			return fmt.Errorf("%s: %w: %w", msg, models.ErrPermissionDenied, err)
		}
	}
	return fmt.Errorf("%s: %w", msg, err)
}
