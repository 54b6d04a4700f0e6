package codec

import (
	"board-lab/domain"
	"board-lab/errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

const (
	envelopeID        protowire.Number = 1
	envelopeKind      protowire.Number = 2
	envelopeIsDeleted protowire.Number = 3
)

func MarshalEnvelope(env domain.DataEnvelope) []byte {
	return appendEnvelope(nil, env)
}

func appendEnvelope(b []byte, env domain.DataEnvelope) []byte {
	b = appendUUID(b, envelopeID, env.ID)
	b = appendString(b, envelopeKind, env.Kind.String())
	return appendBool(b, envelopeIsDeleted, env.IsDeleted)
}

// UnmarshalEnvelope decodes envelope metadata. An unrecognized kind is an ErrUnknownKind,
// the envelope is still returned so the caller can log it.
func UnmarshalEnvelope(b []byte) (domain.DataEnvelope, error) {
	var env domain.DataEnvelope
	var kind string
	err := walk(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		switch num {
		case envelopeID:
			return consumeUUID(typ, v, &env.ID)
		case envelopeKind:
			return consumeString(typ, v, &kind)
		case envelopeIsDeleted:
			return consumeBool(typ, v, &env.IsDeleted)
		}
		return 0, errSkip
	})
	if err != nil {
		return domain.DataEnvelope{}, err
	}
	env.Kind = domain.ParseDataKind(kind)
	if env.Kind == domain.KindUnknown {
		return env, fmt.Errorf("kind %q: %w", kind, errors.ErrUnknownKind)
	}
	return env, nil
}
