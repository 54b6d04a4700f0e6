package codec

import (
	"board-lab/domain"

	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	beaconID      protowire.Number = 1
	beaconName    protowire.Number = 2
	beaconAddress protowire.Number = 3
	beaconInfo    protowire.Number = 4

	entryKey   protowire.Number = 1
	entryValue protowire.Number = 2
)

// Beacon is the datagram a LAN host broadcasts to advertise a whiteboard.
type Beacon struct {
	ID      uuid.UUID
	Name    string
	Address string
	Info    map[string]string
}

func (b Beacon) Connection() domain.NetworkConnection {
	info := make(map[string]string, len(b.Info))
	for k, v := range b.Info {
		info[k] = v
	}
	return domain.NetworkConnection{ID: b.ID, Name: b.Name, Info: info}
}

func MarshalBeacon(beacon Beacon) []byte {
	b := appendUUID(nil, beaconID, beacon.ID)
	b = appendString(b, beaconName, beacon.Name)
	b = appendString(b, beaconAddress, beacon.Address)
	for k, v := range beacon.Info {
		entry := appendString(nil, entryKey, k)
		entry = appendString(entry, entryValue, v)
		b = appendMessage(b, beaconInfo, entry)
	}
	return b
}

func UnmarshalBeacon(b []byte) (Beacon, error) {
	beacon := Beacon{Info: map[string]string{}}
	err := walk(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		switch num {
		case beaconID:
			return consumeUUID(typ, v, &beacon.ID)
		case beaconName:
			return consumeString(typ, v, &beacon.Name)
		case beaconAddress:
			return consumeString(typ, v, &beacon.Address)
		case beaconInfo:
			return consumeMessage(typ, v, func(m []byte) error {
				var key, value string
				err := walk(m, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
					switch num {
					case entryKey:
						return consumeString(typ, v, &key)
					case entryValue:
						return consumeString(typ, v, &value)
					}
					return 0, errSkip
				})
				beacon.Info[key] = value
				return err
			})
		}
		return 0, errSkip
	})
	if err != nil {
		return Beacon{}, err
	}
	return beacon, nil
}
