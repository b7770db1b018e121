package model

import (
	"errors"
	"fmt"
)

// Error categories. Every typed error below matches exactly one of these
// through errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrEmptyPool  = errors.New("player pool is empty")
)

// Storage-level not-found errors. Backends return these; services wrap them
// into a NotFoundError carrying the requested key.
var (
	ErrPlayerNotFound = errors.New("player not found")
	ErrMatchNotFound  = errors.New("match not found")
	ErrAuditNotFound  = errors.New("audit entry not found")
)

// ValidationError reports malformed operator input. Rule names the specific
// check that failed (e.g. "name_digits").
type ValidationError struct {
	Field   string
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a ValidationError
func NewValidationError(field, rule, message string) *ValidationError {
	return &ValidationError{Field: field, Rule: rule, Message: message}
}

// NotFoundError reports a reference to a player or match that does not exist
type NotFoundError struct {
	Kind string // "player" or "match"
	Key  string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// PlayerNotFound creates a NotFoundError for a player key (id or code)
func PlayerNotFound(key any) *NotFoundError {
	return &NotFoundError{Kind: "player", Key: fmt.Sprint(key), Err: ErrPlayerNotFound}
}

// MatchNotFound creates a NotFoundError for a match id
func MatchNotFound(id MatchID) *NotFoundError {
	return &NotFoundError{Kind: "match", Key: fmt.Sprint(id), Err: ErrMatchNotFound}
}

// EmptyPoolError is returned when pairing is attempted with no players
type EmptyPoolError struct{}

func (e *EmptyPoolError) Error() string {
	return "cannot generate pairings: no players registered"
}

func (e *EmptyPoolError) Is(target error) bool {
	return target == ErrEmptyPool
}
