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
	"sync"
	"sync/atomic"

	"github.com/FssAy/pjatk-drives/internal/network"
)

// sessionRecord is owned by the Session Store: only the store's
// directive loop ever mutates lastUsed or touches the map it lives in.
// inUse is the exception (spec.md §9's Open Question) — it is flipped
// by whichever Executor worker is currently running against this
// session, concurrently with the store's own Reap pass, so it is an
// atomic rather than a plain bool.
type sessionRecord struct {
	session  network.Session
	lastUsed int64
	inUse    atomic.Bool
}

// transferRecord is owned by the Transfer Store but handed out by
// shared pointer so an Executor worker can mutate it after the store
// has already moved on to the next directive. mu is the "per-record
// shared lock" invariant 4 of spec.md §3 requires: a worker holds it
// for the duration of exactly one chunk read; the store takes the
// read-side only to sample lastUsed during a Reap sweep.
type transferRecord struct {
	mu sync.RWMutex

	lastUsed   int64
	fileSize   uint64
	totalRead  uint64
	chunkSize  uint64
	chunksSent uint64
	file       network.File
}
