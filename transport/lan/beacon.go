package lan

import (
	"board-lab/codec"
	"board-lab/domain"
	"board-lab/domain/event"
	"context"
	"fmt"
	"maps"
	"net"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

const maxBeaconSize = 64 * 1024

// StartPublishing broadcasts a beacon every BeaconInterval until StopPublishing.
// Publishing again replaces the metadata.
func (t *Transport) StartPublishing(metadata map[string]string) error {
	target := &net.UDPAddr{IP: net.ParseIP(t.cfg.BeaconAddr), Port: t.cfg.BeaconPort}
	conn, err := net.DialUDP("udp4", nil, target)
	if err != nil {
		return fmt.Errorf("beacon socket: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.mu.Lock()
	if t.stopPublish != nil {
		t.stopPublish()
	}
	t.stopPublish = cancel
	t.info = lo.Assign(metadata)
	t.mu.Unlock()

	go func() {
		defer func() { _ = conn.Close() }()
		ticker := time.NewTicker(t.cfg.BeaconInterval)
		defer ticker.Stop()
		for {
			if _, err := conn.Write(codec.MarshalBeacon(t.beacon())); err != nil {
				t.log.Debug("Beacon not sent", "error", err)
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return nil
}

func (t *Transport) beacon() codec.Beacon {
	address := t.advertisedAddress()
	t.mu.Lock()
	defer t.mu.Unlock()
	return codec.Beacon{ID: t.cfg.ID, Name: t.cfg.Name, Address: address, Info: lo.Assign(t.info)}
}

func (t *Transport) StopPublishing() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopPublish != nil {
		t.stopPublish()
		t.stopPublish = nil
	}
}

// StartSearching listens for beacons. Every new or changed host produces a full PeersFound
// report, hosts silent for PeerTTL produce PeerLost.
func (t *Transport) StartSearching() error {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{Port: t.cfg.BeaconPort})
	if err != nil {
		return fmt.Errorf("beacon listener: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.mu.Lock()
	if t.stopSearch != nil {
		t.stopSearch()
	}
	t.stopSearch = cancel
	t.searchAddr = conn.LocalAddr().(*net.UDPAddr)
	t.seen = make(map[uuid.UUID]sighting)
	t.mu.Unlock()

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()
	go t.listen(conn)
	go t.expire(ctx)
	return nil
}

// SearchAddr is the UDP address beacons are read from while searching.
func (t *Transport) SearchAddr() *net.UDPAddr {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.searchAddr
}

func (t *Transport) StopSearching() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopSearch != nil {
		t.stopSearch()
		t.stopSearch = nil
	}
	t.seen = make(map[uuid.UUID]sighting)
}

func (t *Transport) listen(conn *net.UDPConn) {
	buf := make([]byte, maxBeaconSize)
	for {
		n, _, err := conn.ReadFromUDP(buf)
		if err != nil {
			return
		}
		beacon, err := codec.UnmarshalBeacon(buf[:n])
		if err != nil {
			t.log.Debug("Beacon ignored", "error", err)
			continue
		}
		if beacon.ID == t.cfg.ID {
			continue
		}
		t.sighted(beacon)
	}
}

func (t *Transport) sighted(beacon codec.Beacon) {
	conn := beacon.Connection()
	conn.Info[AddressKey] = beacon.Address

	t.mu.Lock()
	previous, known := t.seen[conn.ID]
	t.seen[conn.ID] = sighting{conn: conn, lastSeen: time.Now()}
	changed := !known || !sameConnection(previous.conn, conn)
	report := t.reportLocked()
	t.mu.Unlock()

	if changed {
		t.emit(event.PeersFound{Connections: report})
	}
}

func (t *Transport) expire(ctx context.Context) {
	ticker := time.NewTicker(max(t.cfg.PeerTTL/2, 10*time.Millisecond))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			t.mu.Lock()
			var lost []domain.NetworkConnection
			for id, s := range t.seen {
				if now.Sub(s.lastSeen) > t.cfg.PeerTTL {
					lost = append(lost, s.conn)
					delete(t.seen, id)
				}
			}
			t.mu.Unlock()
			for _, conn := range lost {
				t.emit(event.PeerLost{Connection: conn})
			}
		}
	}
}

func (t *Transport) reportLocked() []domain.NetworkConnection {
	report := lo.MapToSlice(t.seen, func(_ uuid.UUID, s sighting) domain.NetworkConnection { return s.conn })
	slices.SortFunc(report, func(a, b domain.NetworkConnection) int { return strings.Compare(a.Name, b.Name) })
	return report
}

func sameConnection(a, b domain.NetworkConnection) bool {
	return a.Name == b.Name && maps.Equal(a.Info, b.Info)
}
