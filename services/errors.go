package services

import (
	"errors"
	"fmt"
	"strings"

	"lorryledger/repository"
)

// ErrNotFound is returned (wrapped) when a referenced record does not exist.
var ErrNotFound = repository.ErrNotFound

// ErrNoMoreRecords is returned by Pager.LoadPage when there is nothing older to load.
var ErrNoMoreRecords = errors.New("no more records")

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every invalid field of a request.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// OrNil returns e as an error only when at least one field failed.
func (e *ValidationError) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ConflictError rejects an operation whose inputs disagree with each other
// or with stored state.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func conflictf(format string, args ...interface{}) error {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// PreconditionError rejects an operation that cannot run until something
// else is set up.
type PreconditionError struct {
	Message string
}

func (e *PreconditionError) Error() string { return e.Message }

// StoreError wraps a failure of the ledger store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *StoreError) Unwrap() error { return e.Err }

// storeErr passes not-found through untouched and wraps everything else.
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return &StoreError{Op: op, Err: err}
}
