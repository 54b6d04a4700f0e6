package codec

import (
	"board-lab/domain"
	"board-lab/domain/chat"
	"board-lab/errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func TestEnvelope_RoundTrip(t *testing.T) {
	req := require.New(t)
	env := domain.DataEnvelope{ID: uuid.New(), Kind: domain.KindWhiteboardObject, IsDeleted: true}

	got, err := UnmarshalEnvelope(MarshalEnvelope(env))

	req.NoError(err)
	req.Equal(env, got)
}

func TestEnvelope_UnknownKind(t *testing.T) {
	req := require.New(t)
	id := uuid.New()
	b := appendUUID(nil, envelopeID, id)
	b = appendString(b, envelopeKind, "hologram")

	env, err := UnmarshalEnvelope(b)

	req.ErrorIs(err, errors.ErrUnknownKind)
	req.Equal(id, env.ID)
}

func TestEnvelope_SkipsUnknownFields(t *testing.T) {
	req := require.New(t)
	env := domain.NewEnvelope(uuid.New(), domain.KindChat)
	b := MarshalEnvelope(env)
	// Given a newer peer adding field 15
	b = protowire.AppendTag(b, 15, protowire.VarintType)
	b = protowire.AppendVarint(b, 42)

	got, err := UnmarshalEnvelope(b)

	req.NoError(err)
	req.Equal(env, got)
}

func TestDecode_Truncated(t *testing.T) {
	req := require.New(t)
	b := MarshalObject(domain.NewWhiteboardObject(domain.ObjectText, domain.Point{X: 1}, domain.Size{}))

	_, err := UnmarshalObject(b[:len(b)-3])

	req.ErrorIs(err, errors.ErrDecodeFailure)
}

func TestObject_RoundTrip(t *testing.T) {
	req := require.New(t)
	alice := domain.NewProfile("alice", domain.IconCool)
	obj := domain.NewWhiteboardObject(domain.ObjectDrawing, domain.Point{X: 10.5, Y: -3}, domain.Size{Width: 100, Height: 40})
	obj.SelectedBy = &alice
	obj.Text = "label"
	obj.Points = []domain.Point{{X: 0, Y: 0}, {X: 1.25, Y: 2.5}}
	obj.PhotoID = uuid.New()

	got, err := UnmarshalObject(MarshalObject(obj))

	req.NoError(err)
	req.True(obj.Equal(got))
	req.Equal(alice, *got.SelectedBy)
}

func TestObject_UnlockedHasNoOwner(t *testing.T) {
	req := require.New(t)
	obj := domain.NewWhiteboardObject(domain.ObjectGeneric, domain.Point{}, domain.Size{})

	got, err := UnmarshalObject(MarshalObject(obj))

	req.NoError(err)
	req.Nil(got.SelectedBy)
	req.Equal(obj.ID, got.ID)
}

func TestMessage_RoundTrip(t *testing.T) {
	req := require.New(t)
	msg := chat.NewMessage(domain.NewProfile("bob", domain.IconNerd), "hi there", time.Now())

	got, err := UnmarshalMessage(MarshalMessage(msg))

	req.NoError(err)
	req.Equal(msg.ID, got.ID)
	req.Equal(msg.Sender, got.Sender)
	req.Equal(msg.Content, got.Content)
	req.True(msg.SentAt.Equal(got.SentAt))
}

func TestFrame_KeepsPayloadOfUnknownKind(t *testing.T) {
	req := require.New(t)
	env := domain.NewEnvelope(uuid.New(), domain.KindChat)
	frame := Frame{Envelope: env, Payload: []byte("payload")}

	got, err := UnmarshalFrame(MarshalFrame(frame))
	req.NoError(err)
	req.Equal(frame, got)

	// Given a frame whose envelope kind is not known locally
	unknown := appendUUID(nil, envelopeID, env.ID)
	unknown = appendString(unknown, envelopeKind, "hologram")
	b := appendMessage(nil, frameEnvelope, unknown)
	b = appendBytes(b, framePayload, []byte("x"))

	got, err = UnmarshalFrame(b)
	req.ErrorIs(err, errors.ErrUnknownKind)
	req.Equal(env.ID, got.Envelope.ID)
	req.Equal([]byte("x"), got.Payload)
}

func TestBeacon_RoundTrip(t *testing.T) {
	req := require.New(t)
	beacon := Beacon{
		ID:      uuid.New(),
		Name:    "retro board",
		Address: "192.168.1.20:7420",
		Info:    map[string]string{domain.ParticipantsKey: "cool,nerd"},
	}

	got, err := UnmarshalBeacon(MarshalBeacon(beacon))

	req.NoError(err)
	req.Equal(beacon, got)
	req.Equal("cool,nerd", got.Connection().Info[domain.ParticipantsKey])
}
