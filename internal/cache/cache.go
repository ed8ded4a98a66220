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

	"github.com/FssAy/pjatk-drives/internal/config"
	"github.com/FssAy/pjatk-drives/internal/network"
)

// New builds a Client wired from cfg: both stores, the reaper, all
// started in their own goroutines. This is the module's init(). Each
// call creates a new, independent pair of stores, but reaperStarted is
// process-wide: only the first New in a process starts a reaper, so
// the stores of any Client built by a later call are never reaped.
func New(ctx context.Context, cfg config.Config, dial Dialer) *Client {
	runCtx, cancel := context.WithCancel(ctx)

	transfers := NewTransferStore(cfg.TransferStoreCapacity, int64(cfg.TransferTTL.Seconds()))
	sessions := NewSessionStore(cfg.SessionStoreCapacity, int64(cfg.SessionTTL.Seconds()), dial, transfers)

	go sessions.Run(runCtx)
	go transfers.Run(runCtx)

	if reaperStarted.CompareAndSwap(false, true) {
		r := &reaper{
			sessions:       sessions,
			transfers:      transfers,
			sessionPeriod:  cfg.SessionReapPeriod,
			transferPeriod: cfg.TransferReapPeriod,
		}
		go r.run(runCtx)
	}

	return &Client{
		sessions:  sessions,
		transfers: transfers,
		chunkSize: uint64(cfg.ChunkSize),
		cancel:    cancel,
	}
}

// DialSFTP adapts network.Dial to the Dialer type this package expects,
// binding addr, so cmd/drivesd can pass cfg.FTPHost without importing
// internal/network itself.
func DialSFTP(addr string) Dialer {
	return func(user, password string) (network.Session, error) {
		return network.Dial(addr, user, password)
	}
}
