// Package runtime handles the mutation path of a whiteboard session, its chat relay and presence.
// It orchestrates the system without containing transport or storage details.
package runtime

import (
	"board-lab/contract"
	"board-lab/domain"
	"board-lab/domain/chat"
	"board-lab/domain/event"
	"board-lab/moderation"
	"board-lab/projection"
	"board-lab/runtime/workers"
	"context"
	"embed"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

//go:embed censored/*
var censoredFolder embed.FS

// Options tune the queues and workers of a session.
type Options struct {
	BufferSize           int
	SinkTimeout          time.Duration
	SendTimeout          time.Duration
	RestartInterval      time.Duration
	MetricInterval       time.Duration
	LowCapacityThreshold int
	EnableModeration     bool
	CharReplacement      rune
	Accept               AcceptPolicy
}

// Orchestrator wires one whiteboard session: the engine and the chat relay share the
// broadcaster, inbound envelopes are dispatched by kind and domain events reach the sinks.
type Orchestrator struct {
	mu             sync.Mutex
	log            *slog.Logger
	me             domain.Profile
	opts           Options
	supervisor     *workers.Supervisor
	permanentSinks []contract.EventSink
	extraWorkers   []contract.Worker
	registry       *Registry
	hosting        bool

	transport    contract.ITransport
	broadcaster  *workers.Broadcaster
	domainEvents chan event.DomainEvent
	telemetry    chan event.Event

	Engine   *Engine
	Chat     *ChatRelay
	Presence *PresenceManager
	Photos   *PhotoReceiver

	restarts  *event.Counter
	failures  *event.Counter
	censored  *event.CensoredHandler
	moderator *moderation.Moderator
}

func NewOrchestrator(log *slog.Logger, me domain.Profile, transport contract.ITransport,
	files contract.IFileStore, photos contract.IPhotoRepository, opts Options) (*Orchestrator, error) {
	telemetry := make(chan event.Event, opts.BufferSize)
	domainEvents := make(chan event.DomainEvent, opts.BufferSize)
	broadcaster := workers.NewBroadcaster(log, transport, files, opts.BufferSize, opts.SendTimeout, telemetry)

	o := &Orchestrator{
		log:          log,
		me:           me,
		opts:         opts,
		supervisor:   workers.NewSupervisor(log, opts.RestartInterval).WithTelemetry(telemetry),
		registry:     NewRegistry(),
		transport:    transport,
		broadcaster:  broadcaster,
		domainEvents: domainEvents,
		telemetry:    telemetry,
		Engine:       NewEngine(log, me, broadcaster, files),
		Chat: NewChatRelay(log, files, broadcaster, projection.NewTimeline()).
			WithEvents(domainEvents, telemetry),
		Presence: NewPresenceManager(log, transport, opts.Accept),
		Photos:   NewPhotoReceiver(log, files, photos),
		restarts: event.NewCounter(),
		failures: event.NewCounter(),
		censored: event.NewCensoredHandler(log),
	}
	// Heavy tasks like I/O (loading files) and CPU (Aho-Corasick build) are done before any message flows.
	if opts.EnableModeration {
		moderator, err := o.prepareModeration("censored", opts.CharReplacement)
		if err != nil {
			return nil, err
		}
		o.moderator = moderator
		o.Chat.WithModerator(moderator)
	}
	o.Chat.SetBoard(me.ID)
	o.registry.Observe(me)
	o.bridge()
	return o, nil
}

// Add registers sinks that receive every domain event of the session.
func (o *Orchestrator) Add(sinks ...contract.EventSink) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.permanentSinks = append(o.permanentSinks, sinks...)
}

// Supervise adds workers started with the session, the LAN transport server for instance.
func (o *Orchestrator) Supervise(w ...contract.Worker) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.extraWorkers = append(o.extraWorkers, w...)
}

// Me is the local profile, also the id of the whiteboard this device hosts.
func (o *Orchestrator) Me() domain.Profile {
	return o.me
}

// Board is the whiteboard the session is currently attached to.
func (o *Orchestrator) Board() uuid.UUID {
	return o.Chat.Board()
}

// Host advertises the local whiteboard with the icons of everyone seen so far.
// A joined whiteboard is left first.
func (o *Orchestrator) Host() error {
	if _, joined := o.Presence.Joined(); joined {
		o.Leave()
	}
	o.mu.Lock()
	o.hosting = true
	o.mu.Unlock()
	return o.Presence.StartPublishing(o.registry.Participants())
}

func (o *Orchestrator) StopHosting() {
	o.mu.Lock()
	o.hosting = false
	o.mu.Unlock()
	o.Presence.StopPublishing()
}

// Join connects to a discovered whiteboard, leaving the joined one if any. Objects and chat
// lines of the previous board are discarded, chat history and search are then scoped to wb.
func (o *Orchestrator) Join(ctx context.Context, wb domain.Whiteboard) error {
	if _, joined := o.Presence.Joined(); joined {
		o.Leave()
	}
	if o.Board() != wb.ID {
		o.reset(wb.ID)
	}
	if err := o.Presence.JoinWhiteboard(ctx, wb); err != nil {
		o.reset(o.me.ID)
		return err
	}
	return nil
}

// Leave disconnects from the joined whiteboard and discards its objects and chat lines.
// Nothing is sent to the peers left behind.
func (o *Orchestrator) Leave() {
	o.Presence.DisconnectWhiteboard()
	o.reset(o.me.ID)
}

// reset moves the session to board with an empty store, timeline and roster. Envelopes
// queued for the previous board are dropped.
func (o *Orchestrator) reset(board uuid.UUID) {
	o.broadcaster.Purge()
	o.Engine.Reset()
	o.Chat.Reset()
	o.Chat.SetBoard(board)
	o.registry.Reset()
	o.registry.Observe(o.me)
}

// Send posts a chat message on the current board.
func (o *Orchestrator) Send(content string, sender domain.Profile) (chat.Message, error) {
	return o.Chat.Send(content, sender)
}

func (o *Orchestrator) Cells() []chat.Cell {
	return o.Chat.Cells()
}

// Broadcaster is the outbound queue shared by every envelope kind.
func (o *Orchestrator) Broadcaster() contract.IBroadcaster {
	return o.broadcaster
}

func (o *Orchestrator) Participants() []domain.Profile {
	return o.registry.Participants()
}

// Restarts counts workers restarted after a panic.
func (o *Orchestrator) Restarts() uint64 {
	return o.restarts.Get(event.RestartedAfterPanicType)
}

// DeliveryFailures counts envelopes dropped on the way in or out.
func (o *Orchestrator) DeliveryFailures() uint64 {
	return o.failures.Get(event.BroadcastFailedType) + o.failures.Get(event.InboundDroppedType)
}

// Moderator is the censor shared with the chat relay, absent when moderation is disabled.
func (o *Orchestrator) Moderator() (*moderation.Moderator, bool) {
	return o.moderator, o.moderator != nil
}

func (o *Orchestrator) CensoredHits(word string) uint64 {
	return o.censored.Hits(word)
}

// Start initiates the orchestrator by preparing the pipeline and workers
// and then starting the supervisor. It blocks until Stop is called or ctx is done.
func (o *Orchestrator) Start(ctx context.Context) {
	// 1. Preparation phase (No Lock)
	inbound := workers.NewInboundWorker(o.log, o.transport.Events(), o.Presence, o.telemetry).
		Handle(domain.KindChat, o.Chat).
		Handle(domain.KindWhiteboardObject, o.Engine).
		Handle(domain.KindPhoto, o.Photos)

	// 2. Critical Section (Short Lock)
	o.mu.Lock()
	fanout := workers.NewEventFanout(o.log, o.domainEvents, o.opts.SinkTimeout).Add(o.permanentSinks...)
	o.supervisor.Add(
		o.broadcaster,
		inbound,
		fanout,
		o.prepareTelemetry(),
		workers.NewChannelCapacityWorker(o.log, []workers.Gauge{
			workers.GaugeOf("broadcast", o.broadcaster.Queue()),
			workers.GaugeOf("domain_events", o.domainEvents),
			workers.GaugeOf("telemetry", o.telemetry),
		}, o.telemetry, o.opts.MetricInterval),
	)
	o.supervisor.Add(o.extraWorkers...)
	o.mu.Unlock()

	// 3. Execution phase (No Lock)
	o.log.Info("Starting orchestrator and all supervised workers", "profile", o.me.String())
	o.supervisor.Run(ctx)
}

// prepareModeration loads censored words and builds the Aho-Corasick automaton.
func (o *Orchestrator) prepareModeration(path string, charReplacement rune) (*moderation.Moderator, error) {
	data, err := NewCensoredLoader(censoredFolder).LoadAll(path)
	if err != nil {
		return nil, err
	}

	o.log.Info("Censored words loaded", "languages", strings.Join(data.Languages(), ","), "words", len(data.Words))

	return moderation.NewModerator(data.Words, charReplacement, o.log)
}

func (o *Orchestrator) prepareTelemetry() contract.Worker {
	return workers.NewTelemetryWorker(o.log, o.telemetry,
		event.NewChannelCapacityHandler(o.log, o.opts.LowCapacityThreshold),
		event.NewDeliveryFailureHandler(o.log, o.failures),
		event.NewWorkerRestartedAfterPanicHandler(o.log, o.restarts),
		o.censored,
	)
}

// bridge turns engine emissions into domain events and keeps the participant list current.
func (o *Orchestrator) bridge() {
	changed := func(kind event.ChangeKind) func(domain.WhiteboardObject) {
		return func(obj domain.WhiteboardObject) {
			if obj.SelectedBy != nil {
				o.observe(*obj.SelectedBy)
			}
			o.publish(event.ObjectChanged{Board: o.Chat.Board(), Object: obj, Change: kind})
		}
	}
	o.Engine.OnAdded.Subscribe(changed(event.ObjectAdded))
	o.Engine.OnUpdated.Subscribe(changed(event.ObjectUpdated))
	o.Engine.OnRemoved.Subscribe(changed(event.ObjectRemoved))
	o.Chat.OnReceived.Subscribe(func(msg chat.Message) {
		o.observe(msg.Sender)
	})
}

// observe republishes the advertisement when a new participant shows up on a hosted board.
func (o *Orchestrator) observe(p domain.Profile) {
	if !o.registry.Observe(p) {
		return
	}
	o.mu.Lock()
	hosting := o.hosting
	o.mu.Unlock()
	if !hosting {
		return
	}
	if err := o.Presence.StartPublishing(o.registry.Participants()); err != nil {
		o.log.Warn("Cannot refresh advertisement", "error", err)
	}
}

func (o *Orchestrator) publish(evt event.DomainEvent) {
	select {
	case o.domainEvents <- evt:
	default:
		o.log.Debug("Domain event lost", "board", evt.BoardID())
	}
}

// Stop initiates a graceful shutdown of the orchestrator.
// It cancels the supervision context to signal workers to stop.
func (o *Orchestrator) Stop() {
	o.log.Info("Requesting orchestrator shutdown")
	o.supervisor.Stop()
	o.Presence.StopSearching()
	o.Presence.StopPublishing()
}
