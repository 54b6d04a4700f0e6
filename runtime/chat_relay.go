package runtime

import (
	"board-lab/codec"
	"board-lab/contract"
	"board-lab/domain"
	"board-lab/domain/chat"
	"board-lab/domain/event"
	"board-lab/errors"
	"board-lab/projection"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

type censor interface {
	Censor(content string) (string, []string)
}

// ChatRelay sends and receives chat envelopes and keeps the session timeline.
type ChatRelay struct {
	emitMu      sync.Mutex
	boardMu     sync.RWMutex
	board       uuid.UUID
	log         *slog.Logger
	files       contract.IFileStore
	broadcaster contract.IBroadcaster
	timeline    *projection.Timeline
	moderator   censor
	domainEvent chan<- event.DomainEvent
	telemetry   chan<- event.Event
	now         func() time.Time

	OnReceived Bus[chat.Message]
	OnCells    Bus[[]chat.Cell]
}

func NewChatRelay(log *slog.Logger, files contract.IFileStore, broadcaster contract.IBroadcaster,
	timeline *projection.Timeline) *ChatRelay {
	return &ChatRelay{
		log:         log,
		files:       files,
		broadcaster: broadcaster,
		timeline:    timeline,
		now:         time.Now,
	}
}

// WithModerator censors every message, sent or received, before it enters the timeline.
func (r *ChatRelay) WithModerator(moderator censor) *ChatRelay {
	r.moderator = moderator
	return r
}

// WithEvents forwards accepted messages to the fan-out sinks and censorship hits to telemetry.
// Both sends are best effort.
func (r *ChatRelay) WithEvents(domainEvent chan<- event.DomainEvent, telemetry chan<- event.Event) *ChatRelay {
	r.domainEvent = domainEvent
	r.telemetry = telemetry
	return r
}

func (r *ChatRelay) SetBoard(id uuid.UUID) {
	r.boardMu.Lock()
	defer r.boardMu.Unlock()
	r.board = id
}

func (r *ChatRelay) Board() uuid.UUID {
	r.boardMu.RLock()
	defer r.boardMu.RUnlock()
	return r.board
}

// Send records the message locally and queues it for broadcast.
// A message that cannot be saved is not sent.
func (r *ChatRelay) Send(content string, sender domain.Profile) (chat.Message, error) {
	msg := chat.NewMessage(sender, r.censor(content), r.now())
	env := domain.NewEnvelope(msg.ID, domain.KindChat)

	location, err := r.files.Save(env, codec.MarshalMessage(msg))
	if err != nil {
		return chat.Message{}, fmt.Errorf("save message %s: %w: %w", msg.ID, err, errors.ErrPersistenceFailure)
	}

	r.accept(msg, true)
	if !r.broadcaster.Enqueue(contract.Outgoing{Envelope: env, Location: location}) {
		r.log.Warn("Chat broadcast dropped", "id", msg.ID)
	}
	return msg, nil
}

// Receive handles a chat envelope sent by a peer. Messages already in the timeline are ignored.
func (r *ChatRelay) Receive(location string, env domain.DataEnvelope) error {
	payload, err := r.files.Load(location)
	if err != nil {
		return fmt.Errorf("load %s: %w: %w", location, err, errors.ErrPersistenceFailure)
	}
	if _, err := r.files.Save(env, payload); err != nil {
		return fmt.Errorf("copy %s: %w: %w", location, err, errors.ErrPersistenceFailure)
	}
	msg, err := codec.UnmarshalMessage(payload)
	if err != nil {
		return err
	}
	if msg.ID != env.ID {
		return fmt.Errorf("envelope %s carries message %s: %w", env.ID, msg.ID, errors.ErrInvalidPayload)
	}
	msg.Content = r.censor(msg.Content)
	r.accept(msg, false)
	return nil
}

func (r *ChatRelay) accept(msg chat.Message, local bool) {
	r.emitMu.Lock()
	defer r.emitMu.Unlock()
	if !r.timeline.Append(msg) {
		r.log.Debug("Duplicate chat message ignored", "id", msg.ID)
		return
	}
	r.OnReceived.Publish(msg)
	r.OnCells.Publish(r.timeline.Cells())

	if r.domainEvent == nil {
		return
	}
	select {
	case r.domainEvent <- event.MessageReceived{Board: r.Board(), Message: msg, Local: local}:
	default:
		r.log.Debug("Domain event lost", "message_id", msg.ID)
	}
}

func (r *ChatRelay) censor(content string) string {
	if r.moderator == nil {
		return content
	}
	censored, words := r.moderator.Censor(content)
	for _, w := range words {
		if r.telemetry == nil {
			break
		}
		select {
		case r.telemetry <- event.NewEvent(event.CensorshipHit, event.Censored{Word: w}):
		default:
			r.log.Debug("Observability telemetry event lost")
		}
	}
	return censored
}

// Reset empties the timeline of a left board. Stored history is kept.
func (r *ChatRelay) Reset() {
	r.emitMu.Lock()
	defer r.emitMu.Unlock()
	r.timeline.Reset()
	r.OnCells.Publish(nil)
}

func (r *ChatRelay) Messages() []chat.Message {
	return r.timeline.Messages()
}

func (r *ChatRelay) Cells() []chat.Cell {
	return r.timeline.Cells()
}
