// Package shared holds response helpers used by every transport handler.
package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	domainerrors "github.com/hmcts/cpp-context-prosecution-casefile-sub008/pkg/domain-errors"
)

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into a JSON error envelope. Uncoded
// errors map to 500 with no detail leaked.
func WriteError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := domainerrors.CodeInternal
	message := "internal error"

	var de *domainerrors.Error
	if errors.As(err, &de) {
		status = domainerrors.ToHTTPStatus(de.Code)
		code = de.Code
		message = de.Message
	}

	WriteJSON(w, status, map[string]string{
		"error":   string(code),
		"message": message,
	})
}
