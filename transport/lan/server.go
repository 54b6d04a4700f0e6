package lan

import (
	"board-lab/domain"
	"board-lab/domain/event"
	"board-lab/errors"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // peers are not browsers
	},
}

func (t *Transport) router(ctx context.Context) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/ws", func(c *gin.Context) {
		t.handleJoin(ctx, c)
	})
	return r
}

// handleJoin surfaces the request to the local user and answers 403 on rejection.
func (t *Transport) handleJoin(ctx context.Context, c *gin.Context) {
	id, err := uuid.Parse(c.Query("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid id"})
		return
	}
	peer := domain.NetworkConnection{ID: id, Name: c.Query("name"), Info: map[string]string{}}

	answer := make(chan bool, 1)
	t.emit(event.ConnectionRequested{Connection: peer, Respond: func(accept bool) {
		select {
		case answer <- accept:
		default:
		}
	}})

	var accepted bool
	select {
	case accepted = <-answer:
	case <-time.After(t.cfg.AnswerTimeout):
	case <-c.Request.Context().Done():
		return
	}
	if !accepted {
		t.log.Info("Connection rejected", "peer", peer.Name)
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		t.log.Warn("Websocket upgrade failed", "peer", peer.Name, "error", err)
		return
	}
	l := newLink(peer, true, ws, t.cfg.SendQueue)
	t.addLink(l)
	t.log.Info("Peer connected", "peer", peer.Name)
	l.run(ctx, t)
}

// JoinConnection dials the host advertised by conn. The call returns once the host accepted.
func (t *Transport) JoinConnection(ctx context.Context, conn domain.NetworkConnection) error {
	address := conn.Info[AddressKey]
	if address == "" {
		t.mu.Lock()
		address = t.seen[conn.ID].conn.Info[AddressKey]
		t.mu.Unlock()
	}
	if address == "" {
		return fmt.Errorf("%s has no known address: %w", conn.Name, errors.ErrConnection)
	}

	u := url.URL{Scheme: "ws", Host: address, Path: "/ws",
		RawQuery: url.Values{"id": {t.cfg.ID.String()}, "name": {t.cfg.Name}}.Encode()}
	ws, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusForbidden {
			return fmt.Errorf("%s refused the connection: %w", conn.Name, errors.ErrConnection)
		}
		return fmt.Errorf("dial %s: %w: %w", address, err, errors.ErrConnection)
	}

	l := newLink(conn, false, ws, t.cfg.SendQueue)
	t.addLink(l)
	go l.run(context.WithoutCancel(ctx), t)
	return nil
}
