//go:generate go run go.uber.org/mock/mockgen -source=chat_service.go -destination=../mocks/mock_chat_service.go -package=mocks
package services

import (
	"context"
	"fmt"
	"log/slog"

	"chat-relay/auth"
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/moderation"
	"chat-relay/repositories"
)

// Notifier wakes the fan-out pipeline after a committed append.
type Notifier interface {
	Dispatch()
}

type IChatService interface {
	PostMessage(ctx context.Context, token string, request auth.PostMessageRequest) (domain.Message, error)
	GetMessages(from uint64) ([]domain.Message, error)
}

// ChatService is the composition root: it validates the caller's session,
// appends to the log, then wakes the notifier. The log itself trusts its
// caller; author/identity enforcement lives here.
type ChatService struct {
	sessions  auth.ISessionStore
	messages  repositories.IMessageRepository
	notifier  Notifier
	moderator *moderation.Moderator
	log       *slog.Logger
}

func NewChatService(sessions auth.ISessionStore, messages repositories.IMessageRepository,
	notifier Notifier, moderator *moderation.Moderator, log *slog.Logger) *ChatService {
	return &ChatService{
		sessions:  sessions,
		messages:  messages,
		notifier:  notifier,
		moderator: moderator,
		log:       log,
	}
}

// PostMessage appends a message on behalf of the session bound to token.
// The payload username must equal the session identity; a mismatch is
// ErrForbidden and never touches the log.
func (s *ChatService) PostMessage(ctx context.Context, token string,
	request auth.PostMessageRequest) (domain.Message, error) {
	if token == "" {
		return domain.Message{}, errors.ErrUnauthenticated
	}
	session, ok := s.sessions.GetSession(token)
	if !ok {
		return domain.Message{}, errors.ErrUnauthenticated
	}
	if session.Username != request.Username {
		return domain.Message{}, errors.ErrForbidden
	}
	if err := auth.ValidatePostMessage(request); err != nil {
		return domain.Message{}, fmt.Errorf("%w: %v", errors.ErrForbidden, err)
	}

	body := s.moderator.Censor(request.Body)
	message, err := s.messages.Append(ctx, session.Username, body)
	if err != nil {
		return domain.Message{}, err
	}

	s.log.Debug("Message appended", "position", message.Position, "author", message.Author)
	s.notifier.Dispatch()
	return message, nil
}

// GetMessages returns every message with position greater than from,
// oldest first. from 0 means the whole log.
func (s *ChatService) GetMessages(from uint64) ([]domain.Message, error) {
	return s.messages.ListFrom(from)
}
