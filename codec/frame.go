package codec

import (
	"board-lab/domain"
	errs "board-lab/errors"
	"errors"

	"google.golang.org/protobuf/encoding/protowire"
)

const (
	frameEnvelope protowire.Number = 1
	framePayload  protowire.Number = 2
)

// Frame is what a network transport puts on the wire: the envelope and its payload blob.
type Frame struct {
	Envelope domain.DataEnvelope
	Payload  []byte
}

func MarshalFrame(f Frame) []byte {
	b := appendMessage(nil, frameEnvelope, MarshalEnvelope(f.Envelope))
	return appendBytes(b, framePayload, f.Payload)
}

// UnmarshalFrame decodes a frame. A frame whose envelope kind is unknown is returned
// together with ErrUnknownKind.
func UnmarshalFrame(b []byte) (Frame, error) {
	var f Frame
	var kindErr error
	err := walk(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		switch num {
		case frameEnvelope:
			return consumeMessage(typ, v, func(m []byte) error {
				env, err := UnmarshalEnvelope(m)
				if errors.Is(err, errs.ErrUnknownKind) {
					kindErr, err = err, nil
				}
				f.Envelope = env
				return err
			})
		case framePayload:
			return consumeBytes(typ, v, &f.Payload)
		}
		return 0, errSkip
	})
	if err != nil {
		return Frame{}, err
	}
	return f, kindErr
}
