package server

import (
	"encoding/json"
	"net/http"

	"chat-relay/auth"
)

type loginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// handleLogin authenticates (or first-registers) the caller and issues a
// session token, returned in the body and as a session cookie.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var request auth.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := s.authService.Login(request.Username, request.Password)
	if err != nil {
		s.log.Warn("Login refused", "username", request.Username, "error", err)
		respondDomainError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    string(token),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	respondJSON(w, http.StatusOK, loginResponse{Token: string(token), Username: request.Username})
}
