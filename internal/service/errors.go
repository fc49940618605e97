// Package service provides business logic for the application.
package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Service errors.
var (
	ErrBookNotFound       = errors.New("book not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrNotAuthor          = errors.New("caller is not the book's author")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrExternalCheck      = errors.New("external reachability check failed")
)

// FieldErrors is a per-field validation failure, serialized to clients
// as a field -> messages mapping with a 400 status.
type FieldErrors map[string][]string

// Add appends a message for the given field.
func (e FieldErrors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Any reports whether any field failed.
func (e FieldErrors) Any() bool {
	return len(e) > 0
}

// Error implements the error interface.
func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fmt.Sprintf("validation failed on fields: %s", strings.Join(fields, ", "))
}

// AsFieldErrors extracts FieldErrors from an error chain.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
