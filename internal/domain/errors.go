package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is matched by every ValidationError.
	ErrValidation = errors.New("validation error")
	// ErrDomain is matched by every DomainError.
	ErrDomain = errors.New("domain error")

	ErrNegativeSpan      = errors.New("end date must not be before start date")
	ErrNegativeDistance  = errors.New("distance must not be negative")
	ErrNegativePrice     = errors.New("price must not be negative")
	ErrCarNotFound       = errors.New("car does not exist")
	ErrRentalNotFound    = errors.New("rental does not exist")
	ErrMissingCommission = errors.New("commission is required to compute payments")
	ErrMissingOptions    = errors.New("options are required to compute payments")
)

// ValidationError reports a record that cannot be built from its input:
// a missing required field, an unparsable value or a duplicate id.
type ValidationError struct {
	Record string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid %s: %s", e.Record, e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s %s", e.Record, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// DomainError reports input that is well formed but violates a business rule.
type DomainError struct {
	Record string
	ID     int64
	Err    error
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s %d: %v", e.Record, e.ID, e.Err)
}

func (e *DomainError) Unwrap() []error { return []error{ErrDomain, e.Err} }

func missingField(record, field string) error {
	return &ValidationError{Record: record, Field: field, Reason: "is required"}
}

// NewDuplicateIDError is returned when a batch repeats an identifier.
func NewDuplicateIDError(record string, id int64) error {
	return &ValidationError{Record: record, Reason: fmt.Sprintf("repeated %s id %d", record, id)}
}

// NewDomainError wraps cause for the record identified by id.
func NewDomainError(record string, id int64, cause error) error {
	return &DomainError{Record: record, ID: id, Err: cause}
}
