// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package mcproto

import (
	"encoding/binary"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxStringLength is the protocol limit on string length in UTF-16
// code units. The byte length on the wire may be up to four times
// larger.
const MaxStringLength = 32767

// Encoder builds a packet payload. The zero value is ready to use.
type Encoder struct {
	buffer []byte
}

// WriteVarInt appends a VarInt.
func (e *Encoder) WriteVarInt(value int32) {
	e.buffer = AppendVarInt(e.buffer, value)
}

// WriteString appends a VarInt byte length followed by the UTF-8
// bytes of value.
func (e *Encoder) WriteString(value string) {
	e.buffer = AppendVarInt(e.buffer, int32(len(value)))
	e.buffer = append(e.buffer, value...)
}

// WriteUint16 appends a big-endian unsigned short.
func (e *Encoder) WriteUint16(value uint16) {
	e.buffer = binary.BigEndian.AppendUint16(e.buffer, value)
}

// WriteInt64 appends a big-endian long.
func (e *Encoder) WriteInt64(value int64) {
	e.buffer = binary.BigEndian.AppendUint64(e.buffer, uint64(value))
}

// WriteBool appends a single 0x00 or 0x01 byte.
func (e *Encoder) WriteBool(value bool) {
	if value {
		e.buffer = append(e.buffer, 1)
		return
	}
	e.buffer = append(e.buffer, 0)
}

// WriteUUID appends the 16 raw bytes of id.
func (e *Encoder) WriteUUID(id uuid.UUID) {
	e.buffer = append(e.buffer, id[:]...)
}

// WriteBytes appends raw bytes without a length prefix.
func (e *Encoder) WriteBytes(data []byte) {
	e.buffer = append(e.buffer, data...)
}

// Bytes returns the encoded payload. The slice aliases the encoder's
// buffer.
func (e *Encoder) Bytes() []byte {
	return e.buffer
}

// Decoder reads fields sequentially from a packet payload. Every read
// past the end of the payload returns an error wrapping
// io.ErrUnexpectedEOF.
type Decoder struct {
	data   []byte
	offset int
}

// NewDecoder returns a Decoder positioned at the start of data.
func NewDecoder(data []byte) *Decoder {
	return &Decoder{data: data}
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int {
	return len(d.data) - d.offset
}

// Rest returns the unread bytes and moves the decoder to the end.
func (d *Decoder) Rest() []byte {
	rest := d.data[d.offset:]
	d.offset = len(d.data)
	return rest
}

// ReadByte implements io.ByteReader so ReadVarInt can consume the
// payload directly.
func (d *Decoder) ReadByte() (byte, error) {
	if d.offset >= len(d.data) {
		return 0, io.EOF
	}
	b := d.data[d.offset]
	d.offset++
	return b, nil
}

// ReadVarInt reads one VarInt.
func (d *Decoder) ReadVarInt() (int32, error) {
	value, err := ReadVarInt(d)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	if err != nil {
		return 0, fmt.Errorf("reading varint: %w", err)
	}
	return value, nil
}

// ReadBytes reads exactly n raw bytes. The returned slice aliases the
// payload.
func (d *Decoder) ReadBytes(n int) ([]byte, error) {
	if n < 0 || n > d.Remaining() {
		return nil, fmt.Errorf("reading %d bytes with %d remaining: %w", n, d.Remaining(), io.ErrUnexpectedEOF)
	}
	data := d.data[d.offset : d.offset+n]
	d.offset += n
	return data, nil
}

// ReadString reads a length-prefixed UTF-8 string.
func (d *Decoder) ReadString() (string, error) {
	length, err := d.ReadVarInt()
	if err != nil {
		return "", err
	}
	if length < 0 || int(length) > MaxStringLength*4 {
		return "", fmt.Errorf("mcproto: string length %d out of range", length)
	}
	data, err := d.ReadBytes(int(length))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("mcproto: string is not valid UTF-8")
	}
	return string(data), nil
}

// ReadUint16 reads a big-endian unsigned short.
func (d *Decoder) ReadUint16() (uint16, error) {
	data, err := d.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(data), nil
}

// ReadInt64 reads a big-endian long.
func (d *Decoder) ReadInt64() (int64, error) {
	data, err := d.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(data)), nil
}

// ReadUUID reads 16 raw bytes as a UUID.
func (d *Decoder) ReadUUID() (uuid.UUID, error) {
	data, err := d.ReadBytes(16)
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.FromBytes(data)
}
