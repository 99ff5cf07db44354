package lib

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Database errors
var (
	ErrConflict = errors.New("conflict")
	ErrNotFound = errors.New("not found")
)

// Pickup slot errors
var (
	ErrSlotFull        = errors.New("pickup slot is full")
	ErrSlotUnavailable = errors.New("pickup slot is unavailable")
)

// Auth errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("expired token")
	ErrInvalidSignature = errors.New("invalid signature")
)

// FieldError represents a clean validation error for APIs
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is a client input error. The first entry names the
// offending field.
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Errors: []FieldError{{Field: field, Message: message}}}
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	first := e.Errors[0]
	if first.Field == "" {
		return first.Message
	}
	return first.Field + " " + first.Message
}

// UpstreamError carries a non-success answer from the payment API.
type UpstreamError struct {
	Status int
	Body   []byte
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("payment api responded with status %d", e.Status)
}

// Details returns the upstream body as JSON, or {"raw": body} when it is not JSON.
func (e *UpstreamError) Details() any {
	var parsed any
	if len(e.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(e.Body, &parsed); err != nil {
		return map[string]string{"raw": string(e.Body)}
	}
	return parsed
}

// IntegrityError marks a server-side data problem: an unparseable catalog
// price or a payment response missing fields we rely on.
type IntegrityError struct {
	Message string
	Err     error
}

func (e *IntegrityError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *IntegrityError) Unwrap() error {
	return e.Err
}

func MapPgError(err error) error {
	if err == nil {
		return nil
	}

	var driverErr pgdriver.Error
	if errors.As(err, &driverErr) {
		return mapSQLState(driverErr.Field('C'), err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return mapSQLState(pgErr.Code, err)
	}

	// sqlite reports constraint failures only in the message
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %s", ErrConflict, err.Error())
	}
	return err
}

func mapSQLState(code string, err error) error {
	switch code {
	case "23505": // unique_violation
		return fmt.Errorf("%w: %s", ErrConflict, err.Error())
	case "P0002": // no_data_found
		return fmt.Errorf("%w: %s", ErrNotFound, err.Error())
	}
	return err
}
