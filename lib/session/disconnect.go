// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

// ThrottleMessage is the disconnect text a server sends when a client
// reconnects too quickly.
const ThrottleMessage = `{"text":"Connection throttled! Please wait before reconnecting."}`

// DuplicateLoginMessage is the disconnect text the target server sends
// when the name is already playing.
const DuplicateLoginMessage = `{"color":"dark_red","text":"Игрок с данным никнеймом уже играет на сервере!"}`

// DisconnectKind classifies a server disconnect.
type DisconnectKind int

const (
	// DisconnectRejected is any disconnect that is neither throttle
	// nor duplicate login: kicks, bans, whitelist, shutdown.
	DisconnectRejected DisconnectKind = iota

	// DisconnectThrottled asks the client to wait before reconnecting.
	DisconnectThrottled

	// DisconnectDuplicate means the name is already online.
	DisconnectDuplicate
)

func (k DisconnectKind) String() string {
	switch k {
	case DisconnectThrottled:
		return "throttled"
	case DisconnectDuplicate:
		return "duplicate"
	default:
		return "rejected"
	}
}

// Classify maps a disconnect message to its kind by exact comparison.
func Classify(message string) DisconnectKind {
	switch message {
	case ThrottleMessage:
		return DisconnectThrottled
	case DuplicateLoginMessage:
		return DisconnectDuplicate
	default:
		return DisconnectRejected
	}
}

// Disconnect records a server-initiated end of session.
type Disconnect struct {
	Kind    DisconnectKind
	Message string

	// Phase is the phase the session was in when the disconnect
	// arrived.
	Phase Phase
}
