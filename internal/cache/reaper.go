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
	"context"
	"sync/atomic"
	"time"
)

// reaperStarted guards New against starting a second reaper; the zero
// value (not started) lets the first caller win the CompareAndSwap.
var reaperStarted atomic.Bool

// reaper periodically tells both stores to purge idle entries. It never
// touches a store's map directly — it only posts Reap directives.
type reaper struct {
	sessions *SessionStore
	transfers *TransferStore

	sessionPeriod  time.Duration
	transferPeriod time.Duration
}

// run ticks both sweeps independently until ctx is cancelled, matching
// spec.md §4.4's "exits when both inboxes are closed" via context
// cancellation instead (see DESIGN.md).
func (r *reaper) run(ctx context.Context) {
	sessionTicker := time.NewTicker(r.sessionPeriod)
	defer sessionTicker.Stop()

	transferTicker := time.NewTicker(r.transferPeriod)
	defer transferTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-sessionTicker.C:
			r.sessions.reap(nowUnix())
		case <-transferTicker.C:
			r.transfers.reap(nowUnix())
		}
	}
}
