// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package mcproto

import (
	"crypto/md5"

	"github.com/google/uuid"
)

// OfflineUUID returns the UUID an offline-mode server assigns to name:
// the MD5 digest of "OfflinePlayer:"+name with the version nibble set
// to 3 and the variant bits set to RFC 4122.
//
// uuid.NewMD5 is not usable here because it hashes a namespace UUID in
// front of the name.
func OfflineUUID(name string) uuid.UUID {
	digest := md5.Sum([]byte("OfflinePlayer:" + name))
	digest[6] = digest[6]&0x0f | 0x30
	digest[8] = digest[8]&0x3f | 0x80
	return uuid.UUID(digest)
}
