// Package errs defines the typed failures the core returns to its callers.
// Every failure is recoverable from the data model's point of view: when one
// of these is returned, nothing was written.
package errs

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinels matched through errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrReferenced = errors.New("referenced by dependent rows")
	ErrDuplicate  = errors.New("duplicate key")
	ErrNotFound   = errors.New("not found")
	ErrStorage    = errors.New("storage failure")
)

// ValidationError rejects an intent before anything is touched.
// Fields maps the offending field to a short reason.
type ValidationError struct {
	Entity string
	Fields map[string]string
}

func NewValidation(entity string, fields map[string]string) *ValidationError {
	return &ValidationError{Entity: entity, Fields: fields}
}

// Invalid is shorthand for a single-field validation failure.
func Invalid(entity, field, reason string) *ValidationError {
	return &ValidationError{Entity: entity, Fields: map[string]string{field: reason}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return fmt.Sprintf("invalid %s: %s", e.Entity, strings.Join(parts, ", "))
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ReferentialIntegrityViolation rejects a delete because dependents exist.
type ReferentialIntegrityViolation struct {
	Entity        string
	ID            uint
	BlockingTable string
	Count         int64
}

func (e *ReferentialIntegrityViolation) Error() string {
	return fmt.Sprintf("%s %d is referenced by %d row(s) in %s", e.Entity, e.ID, e.Count, e.BlockingTable)
}

func (e *ReferentialIntegrityViolation) Is(target error) bool { return target == ErrReferenced }

type DuplicateKeyError struct {
	Entity string
	Field  string
	Value  string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s with %s %q already exists", e.Entity, e.Field, e.Value)
}

func (e *DuplicateKeyError) Is(target error) bool { return target == ErrDuplicate }

type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// StorageError wraps a persistence failure. It is returned only after any
// open unit of work has been rolled back.
type StorageError struct {
	Op  string
	Err error
}

func Storage(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// IsDomain reports whether err is one of the typed core failures rather
// than an unexpected error.
func IsDomain(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrReferenced) ||
		errors.Is(err, ErrDuplicate) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrStorage)
}
