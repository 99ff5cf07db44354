package lib

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	datePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	nonDigits    = regexp.MustCompile(`\D`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report json names so messages match what the client sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("bakery_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("phone_digits", func(fl validator.FieldLevel) bool {
		return len(DigitsOnly(fl.Field().String())) >= 10
	})
	_ = v.RegisterValidation("iso_date", func(fl validator.FieldLevel) bool {
		return datePattern.MatchString(fl.Field().String())
	})

	return v
}

// DigitsOnly strips every non-digit character.
func DigitsOnly(s string) string {
	return nonDigits.ReplaceAllString(s, "")
}

// ErrMalformedBody is returned when the request body is not a JSON object.
var ErrMalformedBody = errors.New("malformed request")

// DecodeBody decodes the request body into T. Unknown fields are ignored,
// the storefront sends display data alongside what we read.
func DecodeBody[T any](r *http.Request) (*T, error) {
	defer r.Body.Close()

	var body T
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrMalformedBody
		}
		return nil, errors.Join(ErrMalformedBody, err)
	}
	return &body, nil
}

// ValidateStruct runs the struct's validate tags. Errors come back in field
// declaration order, only the first is kept.
func ValidateStruct(v any, prefix string) *ValidationError {
	if err := validate.Struct(v); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			mapped := mapValidationErrors(ve, prefix)
			if len(mapped.Errors) > 0 {
				mapped.Errors = mapped.Errors[:1]
			}
			return mapped
		}
		return NewValidationError(prefix, err.Error())
	}
	return nil
}

// ValidateVar validates a single value against tag and names it field on failure.
func ValidateVar(field string, value any, tag string) *ValidationError {
	if err := validate.Var(value, tag); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			return NewValidationError(field, messageFor(ve[0]))
		}
		return NewValidationError(field, "is invalid")
	}
	return nil
}

func mapValidationErrors(errs validator.ValidationErrors, prefix string) *ValidationError {
	out := &ValidationError{}

	for _, e := range errs {
		field := e.Field()
		if prefix != "" {
			field = prefix + "." + field
		}

		if e.Tag() == "dive" {
			continue
		}

		out.Errors = append(out.Errors, FieldError{
			Field:   field,
			Message: messageFor(e),
		})
	}

	return out
}

func messageFor(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "bakery_email":
		return "must be a valid email address"
	case "phone_digits":
		return "must contain at least 10 digits"
	case "iso_date":
		return "must be a date in YYYY-MM-DD format"
	case "min":
		return "must be at least " + e.Param()
	case "max":
		return "must be at most " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "oneof":
		return "must be one of: " + e.Param()
	case "uuid4", "uuid":
		return "must be a valid UUID"
	default:
		return "is invalid"
	}
}
