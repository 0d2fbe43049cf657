package handler

import (
	"encoding/json"
	"net/http"

	apperrors "prescription-reader/pkg/errors"
)

// writeError writes a JSON error response (helper function)
func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeAppError maps a structured error to its HTTP status. Unclassified
// errors render as 500.
func writeAppError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		writeError(w, appErr.StatusCode, appErr.Message)
		return
	}
	writeError(w, apperrors.GetStatusCode(err), err.Error())
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}
