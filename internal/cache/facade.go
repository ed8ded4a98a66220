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

// Package cache implements the session and transfer cache: two
// cooperating actors reached only through the Client facade in this
// file, plus a background reaper.
package cache

import (
	"context"

	"github.com/FssAy/pjatk-drives/internal/logging"
)

// Client is the facade every HTTP handler talks to. It never touches
// either store's map directly; every method builds a directive with a
// fresh reply channel, posts it, and awaits the reply.
type Client struct {
	sessions  *SessionStore
	transfers *TransferStore
	chunkSize uint64

	cancel context.CancelFunc
}

// SessionExists reports whether id currently names a live session.
func (c *Client) SessionExists(ctx context.Context, id SessionID) bool {
	return c.sessions.exists(ctx, id)
}

// Connect finds or creates a session for credentials and returns its id.
func (c *Client) Connect(ctx context.Context, user, password string) (SessionID, error) {
	return c.sessions.connect(ctx, user, password)
}

// Disconnect removes id from the Session Store immediately, without
// waiting for SESSION_TTL to elapse. This is new behavior beyond the
// distilled spec (see SPEC_FULL.md §4.5): an explicit logout path.
func (c *Client) Disconnect(ctx context.Context, id SessionID) error {
	return c.sessions.disconnect(ctx, id)
}

// ReadDir lists path using the SFTP session behind id.
func (c *Client) ReadDir(ctx context.Context, id SessionID, path string) ([]Entry, error) {
	replyCh := make(chan readDirResult, 1)
	if err := c.sessions.execute(ctx, id, readDirSub{dir: path, reply: replyCh}); err != nil {
		return nil, err
	}
	select {
	case res := <-replyCh:
		return res.entries, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// ReadFileChunk reads the next content pack for (id, path), issuing
// Remove against the Transfer Store once IsLast is observed, or when
// ctx is done before the reply arrives. An error replied by the
// Executor leaves the transfer record in place for the reaper.
func (c *Client) ReadFileChunk(ctx context.Context, id SessionID, path string) (ContentPack, error) {
	transferID := NewTransferID(id, path)

	replyCh := make(chan transferResult, 1)
	sub := transferFileSub{
		transferID: transferID,
		filename:   path,
		chunkSize:  c.chunkSize,
		reply:      replyCh,
	}
	if err := c.sessions.execute(ctx, id, sub); err != nil {
		return ContentPack{}, err
	}

	select {
	case res := <-replyCh:
		if res.err != nil {
			// An I/O error from the Executor is returned as-is; the
			// record is left for the reaper to collect, matching
			// original_source's ftp_read_file (only is_last or a
			// channel/receive error triggers an immediate Remove).
			return ContentPack{}, res.err
		}
		if res.pack.IsLast {
			c.transfers.remove(transferID)
		}
		return res.pack, nil
	case <-ctx.Done():
		c.transfers.remove(transferID)
		return ContentPack{}, ctx.Err()
	}
}

// Shutdown stops the stores' and reaper's goroutines.
func (c *Client) Shutdown() {
	if c.cancel != nil {
		c.cancel()
	}
	logging.Get().Info().Msg("cache client shut down")
}
