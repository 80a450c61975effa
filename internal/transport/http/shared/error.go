package shared

import (
	"errors"
	"net/http"

	"nbms/internal/transport/http/shared/json"
	dErrors "nbms/pkg/domain-errors"
	httpErrors "nbms/pkg/http-errors"
)

// WriteError centralizes domain error translation to HTTP responses.
// Domain errors map to their status and code; anything else collapses to a
// bare 500 so internals never leak.
func WriteError(w http.ResponseWriter, err error) {
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		response := map[string]string{
			"error": string(domainErr.Code),
		}
		if domainErr.Message != "" {
			response["error_description"] = domainErr.Message
		}
		json.WriteJSON(w, httpErrors.ToHTTPStatus(domainErr.Code), response)
		return
	}

	json.WriteJSON(w, http.StatusInternalServerError, map[string]string{
		"error": string(dErrors.CodeInternal),
	})
}
