// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package mcproto

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// MaxPacketLength is the largest frame length a three-byte VarInt can
// express, which is the protocol's hard limit on serverbound and
// clientbound packets.
const MaxPacketLength = 1<<21 - 1

// CompressionDisabled is the threshold value meaning packets are never
// compressed.
const CompressionDisabled = -1

// ErrPacketLength is returned for frames that are empty or exceed
// MaxPacketLength.
var ErrPacketLength = errors.New("mcproto: invalid packet length")

// Packet is one decoded protocol message: its identifier and the raw
// payload that follows it.
type Packet struct {
	ID   int32
	Data []byte
}

// Conn reads and writes framed packets over a byte stream.
type Conn struct {
	stream    io.ReadWriter
	reader    *bufio.Reader
	threshold int
}

// NewConn wraps stream. Compression starts disabled.
func NewConn(stream io.ReadWriter) *Conn {
	return &Conn{
		stream:    stream,
		reader:    bufio.NewReader(stream),
		threshold: CompressionDisabled,
	}
}

// SetCompression applies the threshold advertised by the server in a
// set-compression packet. Negative values disable compression.
func (c *Conn) SetCompression(threshold int) {
	if threshold < 0 {
		threshold = CompressionDisabled
	}
	c.threshold = threshold
}

// Compression returns the current threshold and whether compression
// is enabled.
func (c *Conn) Compression() (int, bool) {
	return c.threshold, c.threshold >= 0
}

// ReadPacket reads one frame, inflating it when compression is
// enabled, and splits off the packet identifier.
func (c *Conn) ReadPacket() (Packet, error) {
	length, err := ReadVarInt(c.reader)
	if err != nil {
		return Packet{}, err
	}
	if length <= 0 || length > MaxPacketLength {
		return Packet{}, fmt.Errorf("%w: %d", ErrPacketLength, length)
	}

	frame := make([]byte, length)
	if _, err := io.ReadFull(c.reader, frame); err != nil {
		return Packet{}, fmt.Errorf("reading %d byte frame: %w", length, err)
	}

	payload := frame
	if c.threshold >= 0 {
		payload, err = inflate(frame)
		if err != nil {
			return Packet{}, err
		}
	}

	decoder := NewDecoder(payload)
	id, err := decoder.ReadVarInt()
	if err != nil {
		return Packet{}, fmt.Errorf("reading packet id: %w", err)
	}
	return Packet{ID: id, Data: decoder.Rest()}, nil
}

// WritePacket frames and writes packet in a single Write call,
// compressing it when compression is enabled and the uncompressed body
// reaches the threshold.
func (c *Conn) WritePacket(packet Packet) error {
	body := AppendVarInt(make([]byte, 0, MaxVarIntLength+len(packet.Data)), packet.ID)
	body = append(body, packet.Data...)

	frame := body
	if c.threshold >= 0 {
		var err error
		frame, err = deflate(body, c.threshold)
		if err != nil {
			return err
		}
	}
	if len(frame) > MaxPacketLength {
		return fmt.Errorf("%w: %d", ErrPacketLength, len(frame))
	}

	out := AppendVarInt(make([]byte, 0, MaxVarIntLength+len(frame)), int32(len(frame)))
	out = append(out, frame...)
	_, err := c.stream.Write(out)
	return err
}

// inflate decodes the body of a compressed-format frame.
func inflate(frame []byte) ([]byte, error) {
	decoder := NewDecoder(frame)
	dataLength, err := decoder.ReadVarInt()
	if err != nil {
		return nil, fmt.Errorf("reading uncompressed length: %w", err)
	}
	if dataLength == 0 {
		return decoder.Rest(), nil
	}
	if dataLength < 0 || dataLength > MaxPacketLength*4 {
		return nil, fmt.Errorf("mcproto: uncompressed length %d out of range", dataLength)
	}

	reader, err := zlib.NewReader(bytes.NewReader(decoder.Rest()))
	if err != nil {
		return nil, fmt.Errorf("opening zlib stream: %w", err)
	}
	defer reader.Close()

	payload := make([]byte, dataLength)
	if _, err := io.ReadFull(reader, payload); err != nil {
		return nil, fmt.Errorf("inflating %d byte packet: %w", dataLength, err)
	}
	return payload, nil
}

// deflate produces the body of a compressed-format frame.
func deflate(body []byte, threshold int) ([]byte, error) {
	if len(body) < threshold {
		frame := make([]byte, 0, 1+len(body))
		frame = AppendVarInt(frame, 0)
		return append(frame, body...), nil
	}

	var buffer bytes.Buffer
	buffer.Write(AppendVarInt(nil, int32(len(body))))
	writer := zlib.NewWriter(&buffer)
	if _, err := writer.Write(body); err != nil {
		return nil, fmt.Errorf("deflating packet: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finishing zlib stream: %w", err)
	}
	return buffer.Bytes(), nil
}
