package server

import (
	"encoding/json"
	"net/http"

	"chat-relay/errors"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondDomainError maps the error taxonomy to a status code. Fault detail
// never reaches the client; the caller logs it.
func respondDomainError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	switch status {
	case http.StatusUnauthorized:
		respondError(w, status, "authentication required")
	case http.StatusForbidden:
		respondError(w, status, "forbidden")
	default:
		respondError(w, status, "internal server error")
	}
}
