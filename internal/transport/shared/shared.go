// Package shared holds the JSON response helpers every handler uses.
package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	pkgerrors "biopay/pkg/domainerrors"
)

type errorEnvelope struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps a coded error to its HTTP status and writes the standard
// error envelope. Errors without a code are reported as internal without
// leaking the underlying message.
func WriteError(w http.ResponseWriter, err error) {
	var derr *pkgerrors.Error
	if !errors.As(err, &derr) {
		derr = pkgerrors.New(pkgerrors.CodeInternal, "internal error")
	}
	WriteJSON(w, pkgerrors.ToHTTPStatus(derr.Code), errorEnvelope{
		Error:       string(derr.Code),
		Description: derr.Message,
	})
}
