package main

import (
	"board-lab/domain"
	"board-lab/repositories"
	"board-lab/runtime"
	"board-lab/services"
	"board-lab/sink"
	"board-lab/storage"
	"board-lab/transport/memory"
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// Drain returns what was written since the last call.
func (b *syncBuffer) Drain() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.buf.String()
	b.buf.Reset()
	return out
}

func newTestConsole(t *testing.T) (*console, *syncBuffer) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	db, err := storage.OpenInMemory()
	req.NoError(err)
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(t.TempDir()))
	req.NoError(err)

	me := domain.NewProfile("alice", domain.IconCool)
	files := storage.NewFileStore(db)
	photos := repositories.NewPhotoRepository(db, log)
	peer := memory.NewNetwork(log).NewPeer(me.ID, me.Nickname, files, 64)
	session, err := runtime.NewOrchestrator(log, me, peer, files, photos, runtime.Options{
		BufferSize:      64,
		SinkTimeout:     100 * time.Millisecond,
		SendTimeout:     100 * time.Millisecond,
		RestartInterval: 10 * time.Millisecond,
		MetricInterval:  time.Second,
	})
	req.NoError(err)

	messages := repositories.NewMessageRepository(db, log, nil)
	index := repositories.NewMessageIndex(writer, log)
	activity := sink.NewActivitySink(10)
	session.Add(sink.NewHistorySink(messages, log), activity)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		session.Start(ctx)
	}()
	t.Cleanup(func() {
		session.Stop()
		cancel()
		<-done
		_ = writer.Close()
		_ = db.Close()
	})

	out := &syncBuffer{}
	c := newConsole(out, session,
		services.NewChatService(session, messages, index),
		services.NewWhiteboardService(session.Engine, photos, session.Broadcaster(), domain.Size{Width: 100, Height: 20}),
		activity)
	c.subscribe()
	return c, out
}

func TestConsole_WhiteboardCommands(t *testing.T) {
	req := require.New(t)
	c, out := newTestConsole(t)
	ctx := context.Background()

	// When a text box and a stroke are added
	req.False(c.exec(ctx, "/text 10 20 sprint goals"))
	req.False(c.exec(ctx, "/draw 0,0 10,10 20,0"))
	out.Drain()
	c.exec(ctx, "/objects")

	// Then both are listed in insertion order
	listing := out.Drain()
	req.Contains(listing, "sprint goals")
	req.Contains(listing, "3 points")
	req.Less(strings.Index(listing, "sprint goals"), strings.Index(listing, "3 points"))

	// When the first one is selected and moved
	c.exec(ctx, "/select 1")
	c.exec(ctx, "/move 1 50 60")
	out.Drain()
	c.exec(ctx, "/objects")
	listing = out.Drain()
	req.Contains(listing, "1*")
	req.Contains(listing, "50,60")
	req.Contains(listing, "alice")

	// Then activity keeps every change
	c.exec(ctx, "/remove 2")
	req.Eventually(func() bool { return len(c.activity.Recent()) == 5 }, time.Second, 5*time.Millisecond)
	req.Len(c.board.Objects(), 1)
}

func TestConsole_ChatAndHistory(t *testing.T) {
	req := require.New(t)
	c, out := newTestConsole(t)
	ctx := context.Background()

	c.exec(ctx, "hello board")
	c.exec(ctx, "   ")
	req.Len(c.chat.Cells(), 1)

	// History is written by the sink, asynchronously
	req.Eventually(func() bool {
		out.Drain()
		c.exec(ctx, "/history")
		return strings.Contains(out.Drain(), "hello board")
	}, time.Second, 10*time.Millisecond)
}

func TestConsole_Errors(t *testing.T) {
	req := require.New(t)
	c, out := newTestConsole(t)
	ctx := context.Background()

	tests := []struct {
		line string
		want string
	}{
		{line: "/bogus", want: "unknown command /bogus"},
		{line: "/select 4", want: "no item 4 among 0"},
		{line: "/text ten 4", want: "coordinate \"ten\""},
		{line: "/join", want: "missing index"},
		{line: "/draw 1;2", want: "is not X,Y"},
	}
	for _, tt := range tests {
		out.Drain()
		req.False(c.exec(ctx, tt.line))
		req.Contains(out.Drain(), tt.want, tt.line)
	}
	out.Drain()
	req.False(c.exec(ctx, "/stats"))
	req.Contains(out.Drain(), "delivery failures")
	req.True(c.exec(ctx, "/quit"))
}

func TestPick(t *testing.T) {
	req := require.New(t)
	items := []string{"a", "b"}

	got, err := pick(items, []string{"2"})
	req.NoError(err)
	req.Equal("b", got)

	_, err = pick(items, []string{"0"})
	req.Error(err)
	_, err = pick(items, []string{"x"})
	req.Error(err)
}
