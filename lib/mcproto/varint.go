// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package mcproto

import (
	"errors"
	"io"
)

// MaxVarIntLength is the maximum encoded size of a 32-bit VarInt.
const MaxVarIntLength = 5

// ErrVarIntTooLong is returned when a VarInt continues past
// MaxVarIntLength bytes.
var ErrVarIntTooLong = errors.New("mcproto: varint is too long")

// AppendVarInt appends the VarInt encoding of value to dst. Negative
// values are encoded as their two's complement and always take five
// bytes.
func AppendVarInt(dst []byte, value int32) []byte {
	unsigned := uint32(value)
	for unsigned >= 0x80 {
		dst = append(dst, byte(unsigned)|0x80)
		unsigned >>= 7
	}
	return append(dst, byte(unsigned))
}

// VarIntLength returns the number of bytes AppendVarInt would write.
func VarIntLength(value int32) int {
	unsigned := uint32(value)
	length := 1
	for unsigned >= 0x80 {
		unsigned >>= 7
		length++
	}
	return length
}

// ReadVarInt reads one VarInt from reader. An EOF before the first
// byte is returned as io.EOF; an EOF inside the value is
// io.ErrUnexpectedEOF.
func ReadVarInt(reader io.ByteReader) (int32, error) {
	var result uint32
	for position := range MaxVarIntLength {
		b, err := reader.ReadByte()
		if err != nil {
			if position > 0 && errors.Is(err, io.EOF) {
				return 0, io.ErrUnexpectedEOF
			}
			return 0, err
		}
		result |= uint32(b&0x7f) << (7 * position)
		if b&0x80 == 0 {
			return int32(result), nil
		}
	}
	return 0, ErrVarIntTooLong
}
