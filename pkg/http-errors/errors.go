// Package httpErrors maps domain error codes onto HTTP statuses so the
// transport layer translates failures in exactly one place.
package httpErrors

import (
	"errors"
	"net/http"

	dErrors "nbms/pkg/domain-errors"
)

// ToHTTPStatus maps a domain error code to its HTTP status.
func ToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeBadRequest, dErrors.CodeInvalidInput:
		return http.StatusBadRequest
	case dErrors.CodeValidation:
		return http.StatusUnprocessableEntity
	case dErrors.CodeUnauthenticated:
		return http.StatusUnauthorized
	case dErrors.CodeForbidden, dErrors.CodeMissingConsent, dErrors.CodeInstanceFrozen:
		return http.StatusForbidden
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// StatusForError resolves the status for any error, defaulting to 500 for
// errors that carry no domain code.
func StatusForError(err error) int {
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		return ToHTTPStatus(domainErr.Code)
	}
	return http.StatusInternalServerError
}

// CodeForError returns the domain code string for JSON error envelopes.
// Non-domain errors collapse to internal_error so transport never leaks
// raw failure detail.
func CodeForError(err error) string {
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		return string(domainErr.Code)
	}
	return string(dErrors.CodeInternal)
}
