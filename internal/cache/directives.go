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

import "github.com/FssAy/pjatk-drives/internal/network"

// A directive is a message posted to a store's inbox carrying a reply
// channel (or no reply at all, for fire-and-forget directives like
// Reap). Reply channels are always buffered with capacity 1 so a
// worker's send never blocks on an abandoned caller.

// --- Session Store directives ---

type sessionDirective interface{ isSessionDirective() }

// connectDirective asks the store to find-or-create a session for the
// given credentials.
type connectDirective struct {
	user     string
	password string
	reply    chan<- connectResult
}

type connectResult struct {
	id  SessionID
	err error
}

func (connectDirective) isSessionDirective() {}

// addSessionDirective is private: only a Connect worker re-enters the
// store with it once a dial succeeds.
type addSessionDirective struct {
	id      SessionID
	session network.Session
}

func (addSessionDirective) isSessionDirective() {}

// existsDirective is a synchronous map lookup.
type existsDirective struct {
	id    SessionID
	reply chan<- bool
}

func (existsDirective) isSessionDirective() {}

// executeDirective looks up a session and, if present, hands the
// embedded sub-directive to a worker. ack reports whether the session
// existed; it is always sent before the sub-directive's own reply.
type executeDirective struct {
	id  SessionID
	ack chan<- bool
	sub executeSubDirective
}

func (executeDirective) isSessionDirective() {}

// reapSessionsDirective instructs the store to purge idle, non-pinned
// sessions.
type reapSessionsDirective struct {
	now int64
}

func (reapSessionsDirective) isSessionDirective() {}

// disconnectDirective removes id immediately, outside of TTL reaping.
// This is the supplemental logout operation SPEC_FULL.md §4.5 adds.
type disconnectDirective struct {
	id    SessionID
	reply chan<- bool
}

func (disconnectDirective) isSessionDirective() {}

// --- Executor sub-directives (carried inside executeDirective) ---

type executeSubDirective interface{ isExecuteSubDirective() }

type readDirSub struct {
	dir   string
	reply chan<- readDirResult
}

type readDirResult struct {
	entries []Entry
	err     error
}

func (readDirSub) isExecuteSubDirective() {}

type transferFileSub struct {
	transferID TransferID
	// filename may be empty when continuing an existing transfer; the
	// Executor requires it non-empty only when no record exists yet.
	// ReadFileChunk always sets it.
	filename  string
	chunkSize uint64
	reply     chan<- transferResult
}

type transferResult struct {
	pack ContentPack
	err  error
}

func (transferFileSub) isExecuteSubDirective() {}

// --- Transfer Store directives ---

type transferDirective interface{ isTransferDirective() }

type getTransferDirective struct {
	id    TransferID
	reply chan<- *transferRecord
}

func (getTransferDirective) isTransferDirective() {}

type addTransferDirective struct {
	id     TransferID
	record *transferRecord
}

func (addTransferDirective) isTransferDirective() {}

type removeTransferDirective struct {
	id TransferID
}

func (removeTransferDirective) isTransferDirective() {}

type reapTransfersDirective struct {
	now int64
}

func (reapTransfersDirective) isTransferDirective() {}
