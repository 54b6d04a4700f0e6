// Package codec serializes envelopes and payloads exchanged between peers.
// Everything is written in protobuf wire format with protowire. Unknown fields are skipped
// so older peers keep decoding newer payloads.
package codec

import (
	"board-lab/errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protowire"
)

// errSkip tells walk to skip the current field.
var errSkip = fmt.Errorf("skip field")

// fieldFunc consumes the value of one field and returns the number of bytes read.
type fieldFunc func(num protowire.Number, typ protowire.Type, b []byte) (int, error)

// walk iterates over the fields of a message. Any failure is an ErrDecodeFailure.
func walk(b []byte, fn fieldFunc) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("tag: %v: %w", protowire.ParseError(n), errors.ErrDecodeFailure)
		}
		b = b[n:]
		m, err := fn(num, typ, b)
		if err == errSkip {
			m, err = protowire.ConsumeFieldValue(num, typ, b), nil
		}
		if err != nil {
			return fmt.Errorf("field %d: %v: %w", num, err, errors.ErrDecodeFailure)
		}
		if m < 0 {
			return fmt.Errorf("field %d: %v: %w", num, protowire.ParseError(m), errors.ErrDecodeFailure)
		}
		b = b[m:]
	}
	return nil
}

func appendUUID(b []byte, num protowire.Number, id uuid.UUID) []byte {
	if id == uuid.Nil {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, id[:])
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendBytes(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, protowire.EncodeBool(v))
}

func appendDouble(b []byte, num protowire.Number, v float64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(v))
}

func appendSint64(b []byte, num protowire.Number, v int64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, protowire.EncodeZigZag(v))
}

// appendMessage always writes the field, an empty embedded message still marks presence.
func appendMessage(b []byte, num protowire.Number, msg []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, msg)
}

func consumeUUID(typ protowire.Type, b []byte, dst *uuid.UUID) (int, error) {
	if typ != protowire.BytesType {
		return 0, errSkip
	}
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return n, nil
	}
	id, err := uuid.FromBytes(v)
	if err != nil {
		return 0, err
	}
	*dst = id
	return n, nil
}

func consumeString(typ protowire.Type, b []byte, dst *string) (int, error) {
	if typ != protowire.BytesType {
		return 0, errSkip
	}
	v, n := protowire.ConsumeString(b)
	if n >= 0 {
		*dst = v
	}
	return n, nil
}

func consumeBytes(typ protowire.Type, b []byte, dst *[]byte) (int, error) {
	if typ != protowire.BytesType {
		return 0, errSkip
	}
	v, n := protowire.ConsumeBytes(b)
	if n >= 0 {
		*dst = append([]byte(nil), v...)
	}
	return n, nil
}

func consumeBool(typ protowire.Type, b []byte, dst *bool) (int, error) {
	if typ != protowire.VarintType {
		return 0, errSkip
	}
	v, n := protowire.ConsumeVarint(b)
	if n >= 0 {
		*dst = protowire.DecodeBool(v)
	}
	return n, nil
}

func consumeDouble(typ protowire.Type, b []byte, dst *float64) (int, error) {
	if typ != protowire.Fixed64Type {
		return 0, errSkip
	}
	v, n := protowire.ConsumeFixed64(b)
	if n >= 0 {
		*dst = math.Float64frombits(v)
	}
	return n, nil
}

func consumeSint64(typ protowire.Type, b []byte, dst *int64) (int, error) {
	if typ != protowire.VarintType {
		return 0, errSkip
	}
	v, n := protowire.ConsumeVarint(b)
	if n >= 0 {
		*dst = protowire.DecodeZigZag(v)
	}
	return n, nil
}

// consumeMessage hands the embedded message bytes to decode.
func consumeMessage(typ protowire.Type, b []byte, decode func([]byte) error) (int, error) {
	if typ != protowire.BytesType {
		return 0, errSkip
	}
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return n, nil
	}
	return n, decode(v)
}
