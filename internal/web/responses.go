package web

import (
	"encoding/json"
	"net/http"

	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/logging"
)

// errorResponse is the JSON error envelope of every API route
type errorResponse struct {
	Code int    `json:"code"`
	Text string `json:"text"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.LogError(logging.FromContext(r.Context()), "failed to encode response", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, text string) {
	writeJSON(w, r, status, errorResponse{Code: status, Text: text})
}
