// Package http provides the JSON API server and handler implementations.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// apiError is the uniform error envelope the frontend expects.
type apiError struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, apiError{Success: false, Message: message})
}

// writeCreated wraps a payload in the success envelope used by writes.
func writeCreated(w http.ResponseWriter, v any) {
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": v})
}

func writeOK(w http.ResponseWriter, v any) {
	writeJSON(w, http.StatusOK, v)
}
