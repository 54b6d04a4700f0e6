package services

import (
	"board-lab/domain"
	"board-lab/domain/chat"
	"board-lab/domain/search"
	"board-lab/errors"
	"board-lab/repositories"
	"context"
	"strings"

	"github.com/google/uuid"
)

// ChatSession is the part of a running session the chat commands need.
type ChatSession interface {
	Me() domain.Profile
	Board() uuid.UUID
	Send(content string, sender domain.Profile) (chat.Message, error)
	Cells() []chat.Cell
}

type ChatService struct {
	session    ChatSession
	repository repositories.IMessageRepository
	index      repositories.IMessageIndex
}

func NewChatService(session ChatSession, repository repositories.IMessageRepository,
	index repositories.IMessageIndex) *ChatService {
	return &ChatService{session: session, repository: repository, index: index}
}

// Send posts a chat line as the local profile. Blank lines are refused.
func (s *ChatService) Send(content string) (chat.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return chat.Message{}, errors.ErrEmptyMessage
	}
	return s.session.Send(content, s.session.Me())
}

// Cells is the grouped rendering of the live timeline.
func (s *ChatService) Cells() []chat.Cell {
	return s.session.Cells()
}

// History pages the stored messages of the current board, the most recent first.
func (s *ChatService) History(cursor *string) ([]chat.Message, *string, error) {
	return s.repository.GetMessages(s.session.Board(), cursor)
}

// Search runs a "/find terms --from nick --limit n" query against the current board.
func (s *ChatService) Search(ctx context.Context, raw string) ([]chat.Message, error) {
	query := search.NewSearchQuery(raw)
	if query.IsEmpty() {
		return nil, nil
	}
	return s.index.Search(ctx, s.session.Board(), *query)
}
