package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/service/auth"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status
// codes based on the error type. This prevents leaking internal error
// types or messages to clients. Not-found covers both absent rows and
// rows owned by someone else; there is deliberately no 403 mapping for
// owner mismatches.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrMalformedToken),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		return http.StatusUnauthorized

	// Not found (includes owner mismatch by design)
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Transient store failures
	case errors.Is(err, store.ErrTransient):
		return http.StatusServiceUnavailable

	// Input that slipped past handler validation
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "an unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrMalformedToken),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		return "invalid or missing credentials"

	case errors.Is(err, store.ErrTaskNotFound):
		return "task not found"

	case errors.Is(err, store.ErrNotFound):
		return "not found"

	case errors.Is(err, store.ErrTransient):
		return "service temporarily unavailable"

	case errors.Is(err, store.ErrInvalidEntity):
		return "invalid task data"

	default:
		return "an unexpected error occurred"
	}
}

// ValidationFields converts a validator error into per-field messages
// keyed by the lowercased struct field name, matching the JSON names of
// the request types in this package.
func ValidationFields(err error) map[string]string {
	fields := make(map[string]string)

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fields["body"] = "validation failed"
		return fields
	}

	for _, fe := range verrs {
		fields[jsonFieldName(fe.Field())] = validationTagMessage(fe.Tag(), fe.Param())
	}

	return fields
}

// jsonFieldName lowercases an exported struct field name. The request
// structs in this package all use single-word fields, so this matches
// their JSON tags exactly.
func jsonFieldName(field string) string {
	if field == "" {
		return field
	}
	return string(field[0]|0x20) + field[1:]
}

// validationTagMessage maps validation tags to user-friendly messages.
func validationTagMessage(tag, param string) string {
	switch tag {
	case "required":
		return "must not be empty"
	case "max":
		if n, err := strconv.Atoi(param); err == nil {
			return "must be at most " + strconv.Itoa(n) + " characters"
		}
		return "too long"
	case "min":
		return "too short"
	case "boolean":
		return "must be a boolean"
	default:
		return "invalid value"
	}
}
