package lan

import (
	"board-lab/domain"
	"board-lab/errors"
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// wsConn is an indirection over *websocket.Conn to ease testing.
type wsConn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// link is one websocket to a peer. inbound is true when the peer dialed us.
type link struct {
	peer    domain.NetworkConnection
	inbound bool
	conn    wsConn

	mu     sync.Mutex
	closed bool
	send   chan []byte
	done   chan struct{}
}

func newLink(peer domain.NetworkConnection, inbound bool, conn wsConn, queue int) *link {
	return &link{
		peer:    peer,
		inbound: inbound,
		conn:    conn,
		send:    make(chan []byte, queue),
		done:    make(chan struct{}),
	}
}

func (l *link) trySend(frame []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return errors.ErrNoConnectedPeers
	}
	select {
	case l.send <- frame:
		return nil
	default:
		return errors.ErrBackpressure
	}
}

func (l *link) close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	close(l.done)
	_ = l.conn.Close()
}

// run pumps frames both ways until the socket fails, ctx is done or the link is closed.
func (l *link) run(ctx context.Context, t *Transport) {
	go l.writeLoop(ctx)
	defer t.removeLink(l)
	for {
		_, data, err := l.conn.ReadMessage()
		if err != nil {
			t.log.Debug("Link closed", "peer", l.peer.Name, "error", err)
			return
		}
		t.receive(l, data)
	}
}

func (l *link) writeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			l.close()
			return
		case <-l.done:
			return
		case frame := <-l.send:
			_ = l.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := l.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
				l.close()
				return
			}
		}
	}
}
