//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"board-lab/codec"
	"bytes"
	"board-lab/domain/chat"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IMessageRepository interface {
	StoreMessage(board uuid.UUID, message chat.Message) error
	GetMessages(board uuid.UUID, cursor *string) ([]chat.Message, *string, error)
}

type MessageRepository struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, limitMessages *int) MessageRepository {
	return MessageRepository{db: db, log: log, limitMessages: limitMessages}
}

// StoreMessage writes message under "msg:{board}:{sent_at_nanos}:{id}". The zero padded
// timestamp makes key order chronological and the id separates messages sent the same
// nanosecond. Storing a message twice rewrites the same key.
func (m MessageRepository) StoreMessage(board uuid.UUID, message chat.Message) error {
	key := fmt.Sprintf("%s%019d:%s", boardPrefix(board), message.SentAt.UnixNano(), message.ID)
	return m.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), codec.MarshalMessage(message))
	})
}

// GetMessages returns a page of the board's messages, the most recent first.
// The cursor resumes after the last message of the page and is nil when nothing is left.
func (m MessageRepository) GetMessages(board uuid.UUID, cursor *string) ([]chat.Message, *string, error) {
	prefix := []byte(boardPrefix(board))
	start := append(append([]byte(nil), prefix...), "9999999999999999999"...)
	if cursor != nil {
		start = append(append([]byte(nil), prefix...), *cursor...)
	}

	var (
		messages []chat.Message
		last     string
		more     bool
	)
	err := m.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		it.Seek(start)
		if cursor != nil && it.ValidForPrefix(prefix) && bytes.Equal(it.Item().Key(), start) {
			it.Next()
		}
		for ; it.ValidForPrefix(prefix); it.Next() {
			if m.limitMessages != nil && len(messages) == *m.limitMessages {
				more = true
				break
			}
			item := it.Item()
			err := item.Value(func(value []byte) error {
				message, err := codec.UnmarshalMessage(value)
				if err != nil {
					return fmt.Errorf("key %s: %w", item.Key(), err)
				}
				messages = append(messages, message)
				return nil
			})
			if err != nil {
				return err
			}
			last = string(item.Key()[len(prefix):])
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if !more {
		return messages, nil, nil
	}
	m.log.Debug("Message page full", "board", board, "limit", *m.limitMessages)
	return messages, &last, nil
}

func boardPrefix(board uuid.UUID) string {
	return fmt.Sprintf("msg:%s:", board)
}
