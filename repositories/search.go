//go:generate go run go.uber.org/mock/mockgen -source=search.go -destination=../mocks/mock_search.go -package=mocks
package repositories

import (
	"board-lab/domain"
	"board-lab/domain/chat"
	"board-lab/domain/search"
	"context"
	"fmt"
	"log/slog"

	"github.com/blugelabs/bluge"
	"github.com/google/uuid"
)

const (
	fieldBoard    = "board"
	fieldSender   = "sender_id"
	fieldNickname = "nickname"
	fieldIcon     = "icon"
	fieldContent  = "content"
	fieldAt       = "at"
)

type IMessageIndex interface {
	Index(board uuid.UUID, message chat.Message) error
	Search(ctx context.Context, board uuid.UUID, query search.Query) ([]chat.Message, error)
}

// MessageIndex is the full-text index over chat messages. Every field needed to rebuild
// a message is stored, a search never goes back to badger.
type MessageIndex struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewMessageIndex(writer *bluge.Writer, log *slog.Logger) *MessageIndex {
	return &MessageIndex{writer: writer, log: log}
}

// Index adds or replaces the document of a message, keyed by message id.
func (i *MessageIndex) Index(board uuid.UUID, message chat.Message) error {
	doc := bluge.NewDocument(message.ID.String()).
		AddField(bluge.NewKeywordField(fieldBoard, board.String()).StoreValue()).
		AddField(bluge.NewKeywordField(fieldSender, message.Sender.ID.String()).StoreValue()).
		AddField(bluge.NewTextField(fieldNickname, message.Sender.Nickname).StoreValue()).
		AddField(bluge.NewKeywordField(fieldIcon, string(message.Sender.Icon)).StoreValue()).
		AddField(bluge.NewTextField(fieldContent, message.Content).StoreValue()).
		AddField(bluge.NewDateTimeField(fieldAt, message.SentAt).StoreValue().Sortable())
	return i.writer.Update(doc.ID(), doc)
}

// Search returns the messages of a board matching every term, the most recent first.
func (i *MessageIndex) Search(ctx context.Context, board uuid.UUID, query search.Query) ([]chat.Message, error) {
	if query.IsEmpty() {
		return nil, nil
	}
	q := bluge.NewBooleanQuery().
		AddMust(bluge.NewTermQuery(board.String()).SetField(fieldBoard))
	if query.Terms != "" {
		q.AddMust(bluge.NewMatchQuery(query.Terms).SetField(fieldContent).SetOperator(bluge.MatchQueryOperatorAnd))
	}
	if query.From != "" {
		q.AddMust(bluge.NewMatchQuery(query.From).SetField(fieldNickname))
	}

	reader, err := i.writer.Reader()
	if err != nil {
		return nil, fmt.Errorf("open index reader: %w", err)
	}
	defer func() { _ = reader.Close() }()

	request := bluge.NewTopNSearch(query.Limit, q).SortBy([]string{"-" + fieldAt})
	matches, err := reader.Search(ctx, request)
	if err != nil {
		return nil, err
	}

	var results []chat.Message
	match, err := matches.Next()
	for err == nil && match != nil {
		var message chat.Message
		var visitErr error
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			visitErr = visitMessageField(&message, field, value)
			return visitErr == nil
		})
		if err == nil {
			err = visitErr
		}
		if err != nil {
			return nil, err
		}
		results = append(results, message)
		match, err = matches.Next()
	}
	if err != nil {
		return nil, err
	}
	i.log.Debug("Search done", "terms", query.Terms, "from", query.From, "hits", len(results))
	return results, nil
}

func visitMessageField(m *chat.Message, field string, value []byte) error {
	var err error
	switch field {
	case "_id":
		m.ID, err = uuid.ParseBytes(value)
	case fieldSender:
		m.Sender.ID, err = uuid.ParseBytes(value)
	case fieldNickname:
		m.Sender.Nickname = string(value)
	case fieldIcon:
		m.Sender.Icon = domain.ProfileIcon(value)
	case fieldContent:
		m.Content = string(value)
	case fieldAt:
		m.SentAt, err = bluge.DecodeDateTime(value)
		m.SentAt = m.SentAt.UTC()
	}
	return err
}
