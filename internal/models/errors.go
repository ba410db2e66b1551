package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a word ID has no stored document
	ErrNotFound = errors.New("word not found")

	// ErrDuplicateEntry matches any DuplicateEntryError
	ErrDuplicateEntry = errors.New("word already exists")

	// ErrPermissionDenied is returned when the store refuses access
	ErrPermissionDenied = errors.New("permission denied by dictionary store")

	// ErrInvalidInput is returned when a submission fails validation
	ErrInvalidInput = errors.New("invalid input")
)

// DuplicateEntryError is returned by an add when the headword is already stored.
// Callers are expected to offer the translation flow for ExistingID instead.
type DuplicateEntryError struct {
	Word       string
	ExistingID string
}

func (e *DuplicateEntryError) Error() string {
	return fmt.Sprintf("the word %q already exists in the dictionary; add a translation instead", e.Word)
}

// Is lets errors.Is(err, ErrDuplicateEntry) match
func (e *DuplicateEntryError) Is(target error) bool {
	return target == ErrDuplicateEntry
}
