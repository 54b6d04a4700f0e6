package codec

import (
	"board-lab/domain"

	"google.golang.org/protobuf/encoding/protowire"
)

const (
	objectID         protowire.Number = 1
	objectKind       protowire.Number = 2
	objectPosition   protowire.Number = 3
	objectSize       protowire.Number = 4
	objectSelectedBy protowire.Number = 5
	objectText       protowire.Number = 6
	objectPoints     protowire.Number = 7
	objectPhotoID    protowire.Number = 8

	pairFirst  protowire.Number = 1
	pairSecond protowire.Number = 2
)

// MarshalObject encodes a whiteboard object, the lock owner included.
func MarshalObject(o domain.WhiteboardObject) []byte {
	b := appendUUID(nil, objectID, o.ID)
	b = appendString(b, objectKind, string(o.Kind))
	b = appendMessage(b, objectPosition, marshalPair(o.Position.X, o.Position.Y))
	b = appendMessage(b, objectSize, marshalPair(o.Size.Width, o.Size.Height))
	if o.SelectedBy != nil {
		b = appendMessage(b, objectSelectedBy, MarshalProfile(*o.SelectedBy))
	}
	b = appendString(b, objectText, o.Text)
	for _, p := range o.Points {
		b = appendMessage(b, objectPoints, marshalPair(p.X, p.Y))
	}
	return appendUUID(b, objectPhotoID, o.PhotoID)
}

func UnmarshalObject(b []byte) (domain.WhiteboardObject, error) {
	var o domain.WhiteboardObject
	var kind string
	err := walk(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		switch num {
		case objectID:
			return consumeUUID(typ, v, &o.ID)
		case objectKind:
			return consumeString(typ, v, &kind)
		case objectPosition:
			return consumeMessage(typ, v, func(m []byte) error {
				return unmarshalPair(m, &o.Position.X, &o.Position.Y)
			})
		case objectSize:
			return consumeMessage(typ, v, func(m []byte) error {
				return unmarshalPair(m, &o.Size.Width, &o.Size.Height)
			})
		case objectSelectedBy:
			return consumeMessage(typ, v, func(m []byte) error {
				p, err := UnmarshalProfile(m)
				if err != nil {
					return err
				}
				o.SelectedBy = &p
				return nil
			})
		case objectText:
			return consumeString(typ, v, &o.Text)
		case objectPoints:
			return consumeMessage(typ, v, func(m []byte) error {
				var p domain.Point
				if err := unmarshalPair(m, &p.X, &p.Y); err != nil {
					return err
				}
				o.Points = append(o.Points, p)
				return nil
			})
		case objectPhotoID:
			return consumeUUID(typ, v, &o.PhotoID)
		}
		return 0, errSkip
	})
	if err != nil {
		return domain.WhiteboardObject{}, err
	}
	o.Kind = domain.ObjectKind(kind)
	if o.Kind == "" {
		o.Kind = domain.ObjectGeneric
	}
	return o, nil
}

func marshalPair(first, second float64) []byte {
	b := appendDouble(nil, pairFirst, first)
	return appendDouble(b, pairSecond, second)
}

func unmarshalPair(b []byte, first, second *float64) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		switch num {
		case pairFirst:
			return consumeDouble(typ, v, first)
		case pairSecond:
			return consumeDouble(typ, v, second)
		}
		return 0, errSkip
	})
}
