//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"

	"chat-relay/domain"
	"chat-relay/errors"
)

const messagePrefix = "msg:"

type IMessageRepository interface {
	Append(ctx context.Context, author, body string) (domain.Message, error)
	ListFrom(cursor uint64) ([]domain.Message, error)
}

// MessageRepository is the append-only message log, persisted in BadgerDB.
//
// The key is formatted as "msg:{position_padded}" with 20-digit zero padding so
// lexicographical key order is position order. Positions are 1-based, strictly
// increasing and gap-free: assignment and the write happen in one critical
// section, and the counter only advances once the write committed.
type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger

	mu      sync.Mutex
	lastPos uint64
}

// NewMessageRepository opens the log over db and recovers the position counter
// from the highest existing key, so positions stay gap-free across restarts.
func NewMessageRepository(db *badger.DB, log *slog.Logger) (*MessageRepository, error) {
	repo := &MessageRepository{db: db, log: log}
	if err := repo.recoverLastPosition(); err != nil {
		return nil, fmt.Errorf("%w: recover position counter: %v", errors.ErrStorageFault, err)
	}
	return repo, nil
}

// Append assigns the next position and persists the message atomically with
// respect to all concurrent appends. A failed write never burns a position.
//
// Cancellation is honored up to the point the write starts; after that the
// append runs to completion so the log never ends up with a gap.
func (m *MessageRepository) Append(ctx context.Context, author, body string) (domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return domain.Message{}, fmt.Errorf("%w: append aborted: %v", errors.ErrStorageFault, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	message := domain.Message{
		Position:  m.lastPos + 1,
		Author:    author,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(message)
	if err != nil {
		return domain.Message{}, fmt.Errorf("%w: marshal message: %v", errors.ErrStorageFault, err)
	}

	err = m.db.Update(func(txn *badger.Txn) error {
		return txn.Set(messageKey(message.Position), data)
	})
	if err != nil {
		return domain.Message{}, fmt.Errorf("%w: store message: %v", errors.ErrStorageFault, err)
	}

	m.lastPos = message.Position
	return message, nil
}

// ListFrom returns every message with position greater than cursor, in
// strictly increasing position order. Cursor 0 means the whole log. The result
// is a snapshot: badger's View gives a consistent read even while appends run.
func (m *MessageRepository) ListFrom(cursor uint64) ([]domain.Message, error) {
	var messages []domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Prefix = []byte(messagePrefix)
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(messageKey(cursor + 1)); it.Valid(); it.Next() {
			var message domain.Message
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &message)
			})
			if err != nil {
				return err
			}
			messages = append(messages, message)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: list messages: %v", errors.ErrStorageFault, err)
	}
	return messages, nil
}

// recoverLastPosition seeks the highest message key via a reverse iterator.
func (m *MessageRepository) recoverLastPosition() error {
	return m.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Prefix = []byte(messagePrefix)
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		// Seek past the largest possible key, then step back into the prefix
		it.Seek([]byte(messagePrefix + "99999999999999999999"))
		if !it.Valid() {
			return nil
		}
		var message domain.Message
		err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &message)
		})
		if err != nil {
			return err
		}
		m.lastPos = message.Position
		m.log.Debug("Recovered message log position", "last_position", m.lastPos)
		return nil
	})
}

func messageKey(position uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", messagePrefix, position))
}
