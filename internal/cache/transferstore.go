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

	"github.com/FssAy/pjatk-drives/internal/logging"
	"github.com/FssAy/pjatk-drives/internal/metrics"
)

// TransferStore is the single owner of TransferID -> *transferRecord.
// Records are handed out by shared pointer so an Executor worker can
// mutate one after the store has already moved on (spec.md §4.2).
type TransferStore struct {
	inbox      chan transferDirective
	ttlSeconds int64
}

// NewTransferStore creates a store with the given inbox capacity and
// idle TTL. It does nothing until Run is called.
func NewTransferStore(capacity int, ttlSeconds int64) *TransferStore {
	return &TransferStore{
		inbox:      make(chan transferDirective, capacity),
		ttlSeconds: ttlSeconds,
	}
}

// Run consumes directives until ctx is cancelled.
func (s *TransferStore) Run(ctx context.Context) {
	log := logging.Get()
	transfers := make(map[TransferID]*transferRecord)

	for {
		select {
		case <-ctx.Done():
			return
		case d := <-s.inbox:
			switch directive := d.(type) {
			case getTransferDirective:
				directive.reply <- transfers[directive.id]

			case addTransferDirective:
				// Overwrite semantics: a second Add for the same id
				// replaces the prior record. The store relies on this
				// only happening once per id (on first-chunk success);
				// it does not enforce it.
				transfers[directive.id] = directive.record
				metrics.TransfersActive.Set(float64(len(transfers)))

			case removeTransferDirective:
				delete(transfers, directive.id)
				metrics.TransfersActive.Set(float64(len(transfers)))

			case reapTransfersDirective:
				reaped := 0
				for id, record := range transfers {
					record.mu.RLock()
					idle := directive.now-record.lastUsed >= s.ttlSeconds
					record.mu.RUnlock()

					if idle {
						log.Debug().Str("transfer", string(id)).Msg("reaping stale transfer")
						delete(transfers, id)
						reaped++
					}
				}
				if reaped > 0 {
					metrics.TransfersReapedTotal.Add(float64(reaped))
					metrics.TransfersActive.Set(float64(len(transfers)))
				}
			}
		}
	}
}

func (s *TransferStore) get(ctx context.Context, id TransferID) (*transferRecord, error) {
	replyCh := make(chan *transferRecord, 1)
	if err := s.post(ctx, getTransferDirective{id: id, reply: replyCh}); err != nil {
		return nil, err
	}
	select {
	case record := <-replyCh:
		return record, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *TransferStore) add(id TransferID, record *transferRecord) {
	select {
	case s.inbox <- addTransferDirective{id: id, record: record}:
	default:
		logging.Get().Warn().Str("transfer", string(id)).Msg("transfer store inbox full, dropping registration")
	}
}

func (s *TransferStore) remove(id TransferID) {
	select {
	case s.inbox <- removeTransferDirective{id: id}:
	default:
		logging.Get().Warn().Str("transfer", string(id)).Msg("transfer store inbox full, dropping removal")
	}
}

func (s *TransferStore) reap(now int64) {
	select {
	case s.inbox <- reapTransfersDirective{now: now}:
	default:
		logging.Get().Warn().Msg("transfer store inbox full, skipping reap tick")
	}
}

func (s *TransferStore) post(ctx context.Context, d transferDirective) error {
	select {
	case s.inbox <- d:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
