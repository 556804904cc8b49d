// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package mcproto

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestVarIntEncoding(t *testing.T) {
	tests := []struct {
		value   int32
		encoded []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{255, []byte{0xff, 0x01}},
		{25565, []byte{0xdd, 0xc7, 0x01}},
		{2097151, []byte{0xff, 0xff, 0x7f}},
		{2147483647, []byte{0xff, 0xff, 0xff, 0xff, 0x07}},
		{-1, []byte{0xff, 0xff, 0xff, 0xff, 0x0f}},
		{-2147483648, []byte{0x80, 0x80, 0x80, 0x80, 0x08}},
	}
	for _, test := range tests {
		got := AppendVarInt(nil, test.value)
		if !bytes.Equal(got, test.encoded) {
			t.Errorf("AppendVarInt(%d) = % x, want % x", test.value, got, test.encoded)
		}
		if length := VarIntLength(test.value); length != len(test.encoded) {
			t.Errorf("VarIntLength(%d) = %d, want %d", test.value, length, len(test.encoded))
		}
		decoded, err := ReadVarInt(bytes.NewReader(test.encoded))
		if err != nil {
			t.Errorf("ReadVarInt(% x): %v", test.encoded, err)
			continue
		}
		if decoded != test.value {
			t.Errorf("ReadVarInt(% x) = %d, want %d", test.encoded, decoded, test.value)
		}
	}
}

func TestReadVarIntErrors(t *testing.T) {
	if _, err := ReadVarInt(bytes.NewReader(nil)); !errors.Is(err, io.EOF) {
		t.Errorf("empty input: err = %v, want io.EOF", err)
	}
	if _, err := ReadVarInt(bytes.NewReader([]byte{0x80, 0x80})); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("truncated input: err = %v, want io.ErrUnexpectedEOF", err)
	}
	if _, err := ReadVarInt(bytes.NewReader([]byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x01})); !errors.Is(err, ErrVarIntTooLong) {
		t.Errorf("six byte input: err = %v, want ErrVarIntTooLong", err)
	}
}
