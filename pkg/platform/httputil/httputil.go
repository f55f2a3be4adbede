// Package httputil centralizes JSON response envelopes so every handler
// renders errors the same way.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "whitelist/pkg/domain-errors"
)

type errorBody struct {
	Error            string                   `json:"error"`
	ErrorDescription string                   `json:"error_description,omitempty"`
	Fields           []dErrors.FieldViolation `json:"fields,omitempty"`
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into the JSON error envelope.
// Internal errors omit the description so infrastructure details never leak;
// validation errors include the full list of field violations.
func WriteError(w http.ResponseWriter, err error) {
	var de *dErrors.Error
	if !errors.As(err, &de) {
		de = dErrors.New(dErrors.CodeInternal, "internal error")
	}

	body := errorBody{Error: string(de.Code)}
	if de.Code != dErrors.CodeInternal {
		body.ErrorDescription = de.Message
		body.Fields = de.Fields
	}
	WriteJSON(w, dErrors.ToHTTPStatus(de.Code), body)
}
