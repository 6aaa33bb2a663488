package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/samber/lo"

	"chat-relay/auth"
	"chat-relay/domain"
)

type messageResponse struct {
	Position  uint64    `json:"position"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// handleGetMessages returns every message after the optional "from" cursor
// (the last position the client has seen), oldest first.
func (s *Server) handleGetMessages(w http.ResponseWriter, r *http.Request) {
	var cursor uint64
	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid cursor")
			return
		}
		cursor = parsed
	}

	messages, err := s.chatService.GetMessages(cursor)
	if err != nil {
		s.log.Error("Listing messages failed", "error", err)
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toMessageResponses(messages))
}

// handlePostMessage appends a message for the session presented by the caller.
// The payload username must match the session identity.
func (s *Server) handlePostMessage(w http.ResponseWriter, r *http.Request) {
	var request auth.PostMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := auth.ValidatePostMessage(request); err != nil {
		respondError(w, http.StatusBadRequest, "invalid message")
		return
	}

	message, err := s.chatService.PostMessage(r.Context(), sessionToken(r), request)
	if err != nil {
		s.log.Warn("Message rejected", "username", request.Username, "error", err)
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toMessageResponse(message))
}

func toMessageResponse(message domain.Message) messageResponse {
	return messageResponse{
		Position:  message.Position,
		Author:    message.Author,
		Body:      message.Body,
		CreatedAt: message.CreatedAt,
	}
}

func toMessageResponses(messages []domain.Message) []messageResponse {
	return lo.Map(messages, func(item domain.Message, _ int) messageResponse {
		return toMessageResponse(item)
	})
}
