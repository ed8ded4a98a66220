/*
 * Copyright 2026 The FileRipper Team
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package cache

import (
	"crypto/sha256"
	"encoding/base64"
)

// SessionID is the opaque credential fingerprint returned to the
// client as a cookie/header. It is SHA-256(user + password), base64
// encoded with the crypt alphabet and no padding, matching the wire
// format original_source/src/cache/ftp.rs produces.
type SessionID string

// cryptEncoding mirrors Rust base64's Config::new(CharacterSet::Crypt,
// false): the crypt alphabet, no padding.
var cryptEncoding = base64.NewEncoding(
	"./0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz",
).WithPadding(base64.NoPadding)

// Fingerprint deterministically derives a SessionID from credentials.
func Fingerprint(user, password string) SessionID {
	sum := sha256.Sum256([]byte(user + password))
	return SessionID(cryptEncoding.EncodeToString(sum[:]))
}

// TransferID identifies a single (session, file) transfer. Collisions
// across concurrent downloads of the same file by the same user are
// intentional: they share progress state.
type TransferID string

// NewTransferID builds the transfer id for id downloading filename.
func NewTransferID(id SessionID, filename string) TransferID {
	return TransferID(string(id) + "-" + filename)
}
