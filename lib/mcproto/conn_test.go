// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package mcproto

import (
	"bytes"
	"errors"
	"testing"
)

func TestConnRoundTripUncompressed(t *testing.T) {
	var stream bytes.Buffer
	conn := NewConn(&stream)

	want := Packet{ID: IDKeepAlive, Data: []byte{1, 2, 3, 4, 5, 6, 7, 8}}
	if err := conn.WritePacket(want); err != nil {
		t.Fatalf("WritePacket: %v", err)
	}

	// length(9) id(0x23) payload
	wantWire := append([]byte{0x09, 0x23}, want.Data...)
	if !bytes.Equal(stream.Bytes(), wantWire) {
		t.Fatalf("wire = % x, want % x", stream.Bytes(), wantWire)
	}

	got, err := conn.ReadPacket()
	if err != nil {
		t.Fatalf("ReadPacket: %v", err)
	}
	if got.ID != want.ID || !bytes.Equal(got.Data, want.Data) {
		t.Fatalf("ReadPacket = %+v, want %+v", got, want)
	}
}

func TestConnCompressionThreshold(t *testing.T) {
	var stream bytes.Buffer
	conn := NewConn(&stream)
	conn.SetCompression(64)

	if threshold, enabled := conn.Compression(); !enabled || threshold != 64 {
		t.Fatalf("Compression() = (%d, %v), want (64, true)", threshold, enabled)
	}

	small := Packet{ID: 0x12, Data: []byte("tiny")}
	large := Packet{ID: 0x12, Data: bytes.Repeat([]byte("occupied "), 40)}

	if err := conn.WritePacket(small); err != nil {
		t.Fatalf("WritePacket(small): %v", err)
	}
	// Below the threshold: length, dataLength=0, raw id and payload.
	wantSmall := append([]byte{byte(2 + len(small.Data)), 0x00, 0x12}, small.Data...)
	if !bytes.Equal(stream.Bytes(), wantSmall) {
		t.Fatalf("small wire = % x, want % x", stream.Bytes(), wantSmall)
	}
	got, err := conn.ReadPacket()
	if err != nil {
		t.Fatalf("ReadPacket(small): %v", err)
	}
	if got.ID != small.ID || !bytes.Equal(got.Data, small.Data) {
		t.Fatalf("small round trip = %+v, want %+v", got, small)
	}

	if err := conn.WritePacket(large); err != nil {
		t.Fatalf("WritePacket(large): %v", err)
	}
	if stream.Len() >= len(large.Data) {
		t.Fatalf("compressed frame is %d bytes, expected fewer than %d", stream.Len(), len(large.Data))
	}
	got, err = conn.ReadPacket()
	if err != nil {
		t.Fatalf("ReadPacket(large): %v", err)
	}
	if got.ID != large.ID || !bytes.Equal(got.Data, large.Data) {
		t.Fatalf("large round trip mismatch: id 0x%02x, %d bytes", got.ID, len(got.Data))
	}
}

func TestConnDisableCompression(t *testing.T) {
	conn := NewConn(&bytes.Buffer{})
	conn.SetCompression(256)
	conn.SetCompression(-5)
	if threshold, enabled := conn.Compression(); enabled || threshold != CompressionDisabled {
		t.Fatalf("Compression() = (%d, %v), want (%d, false)", threshold, enabled, CompressionDisabled)
	}
}

func TestConnRejectsBadFrameLength(t *testing.T) {
	conn := NewConn(bytes.NewBuffer([]byte{0x00}))
	if _, err := conn.ReadPacket(); !errors.Is(err, ErrPacketLength) {
		t.Fatalf("zero length: err = %v, want ErrPacketLength", err)
	}

	oversized := AppendVarInt(nil, MaxPacketLength+1)
	conn = NewConn(bytes.NewBuffer(oversized))
	if _, err := conn.ReadPacket(); !errors.Is(err, ErrPacketLength) {
		t.Fatalf("oversized length: err = %v, want ErrPacketLength", err)
	}
}

func TestConnTruncatedFrame(t *testing.T) {
	conn := NewConn(bytes.NewBuffer([]byte{0x05, 0x00, 0x01}))
	if _, err := conn.ReadPacket(); err == nil {
		t.Fatal("expected error for truncated frame")
	}
}
