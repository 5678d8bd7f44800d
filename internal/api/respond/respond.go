// Package respond writes the JSON envelopes every handler shares.
package respond

import (
	"encoding/json"
	"net/http"

	apperror "goshop/internal/errors"
)

// errorBody is the uniform error payload: HTTP status code, a stable machine
// category and a human message.
type errorBody struct {
	Code     int    `json:"code"`
	Category string `json:"category"`
	Message  string `json:"message"`
}

// JSON writes v with the given status. Encoding failures are silent; headers
// are already gone by then.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// Error maps err onto the shared error payload.
func Error(w http.ResponseWriter, err error) {
	status, category, message := apperror.MapToHTTPStatus(err)
	JSON(w, status, errorBody{Code: status, Category: category, Message: message})
}

// NoContent answers 204.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
