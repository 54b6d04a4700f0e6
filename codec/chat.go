package codec

import (
	"board-lab/domain/chat"
	"time"

	"google.golang.org/protobuf/encoding/protowire"
)

const (
	messageID      protowire.Number = 1
	messageSender  protowire.Number = 2
	messageContent protowire.Number = 3
	messageSentAt  protowire.Number = 4
)

func MarshalMessage(m chat.Message) []byte {
	b := appendUUID(nil, messageID, m.ID)
	b = appendMessage(b, messageSender, MarshalProfile(m.Sender))
	b = appendString(b, messageContent, m.Content)
	return appendSint64(b, messageSentAt, m.SentAt.UnixNano())
}

// UnmarshalMessage returns SentAt in UTC.
func UnmarshalMessage(b []byte) (chat.Message, error) {
	var m chat.Message
	var sentAt int64
	err := walk(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		switch num {
		case messageID:
			return consumeUUID(typ, v, &m.ID)
		case messageSender:
			return consumeMessage(typ, v, func(p []byte) error {
				sender, err := UnmarshalProfile(p)
				m.Sender = sender
				return err
			})
		case messageContent:
			return consumeString(typ, v, &m.Content)
		case messageSentAt:
			return consumeSint64(typ, v, &sentAt)
		}
		return 0, errSkip
	})
	if err != nil {
		return chat.Message{}, err
	}
	m.SentAt = time.Unix(0, sentAt).UTC()
	return m, nil
}
