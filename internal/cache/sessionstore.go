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
	"fmt"

	"github.com/FssAy/pjatk-drives/internal/core"
	"github.com/FssAy/pjatk-drives/internal/logging"
	"github.com/FssAy/pjatk-drives/internal/metrics"
	"github.com/FssAy/pjatk-drives/internal/network"
)

// Dialer opens a new SFTP session for the given credentials. Connect
// calls it from a worker goroutine, never from the store's loop.
type Dialer func(user, password string) (network.Session, error)

// SessionStore is the single owner of SessionID -> sessionRecord. All
// mutation happens inside run(); everything else reaches it through
// inbox.
type SessionStore struct {
	inbox      chan sessionDirective
	dial       Dialer
	transfers  *TransferStore
	ttlSeconds int64
}

// NewSessionStore creates a store with the given inbox capacity and
// idle TTL. It does nothing until Run is called.
func NewSessionStore(capacity int, ttlSeconds int64, dial Dialer, transfers *TransferStore) *SessionStore {
	return &SessionStore{
		inbox:      make(chan sessionDirective, capacity),
		dial:       dial,
		transfers:  transfers,
		ttlSeconds: ttlSeconds,
	}
}

// Run consumes directives until ctx is cancelled. It is meant to be
// run in its own goroutine for the lifetime of the process.
func (s *SessionStore) Run(ctx context.Context) {
	log := logging.Get()
	sessions := make(map[SessionID]*sessionRecord)

	for {
		select {
		case <-ctx.Done():
			return
		case d := <-s.inbox:
			switch directive := d.(type) {
			case connectDirective:
				s.handleConnect(ctx, sessions, directive)

			case addSessionDirective:
				sessions[directive.id] = &sessionRecord{session: directive.session, lastUsed: nowUnix()}
				metrics.SessionsActive.Set(float64(len(sessions)))

			case existsDirective:
				_, ok := sessions[directive.id]
				directive.reply <- ok

			case executeDirective:
				record, ok := sessions[directive.id]
				if !ok {
					directive.ack <- false
					continue
				}
				record.lastUsed = nowUnix()
				directive.ack <- true

				go s.runExecutor(ctx, record, directive.sub)

			case disconnectDirective:
				if record, ok := sessions[directive.id]; ok {
					record.session.Close()
					delete(sessions, directive.id)
					metrics.SessionsActive.Set(float64(len(sessions)))
				}
				directive.reply <- true

			case reapSessionsDirective:
				reaped := 0
				for id, record := range sessions {
					if record.inUse.Load() {
						continue
					}
					if directive.now-record.lastUsed >= s.ttlSeconds {
						log.Debug().Str("session", string(id)).Msg("reaping idle session")
						record.session.Close()
						delete(sessions, id)
						reaped++
					}
				}
				if reaped > 0 {
					metrics.SessionsReapedTotal.Add(float64(reaped))
					metrics.SessionsActive.Set(float64(len(sessions)))
				}
			}
		}
	}
}

// handleConnect implements the find-or-dial logic of spec.md §4.1.
// Two concurrent Connect calls for the same credentials may each dial;
// the last AddSession re-entry wins, which is accepted, not prevented.
func (s *SessionStore) handleConnect(ctx context.Context, sessions map[SessionID]*sessionRecord, d connectDirective) {
	id := Fingerprint(d.user, d.password)

	if record, ok := sessions[id]; ok {
		record.lastUsed = nowUnix()
		metrics.ConnectTotal.WithLabelValues("hit").Inc()
		reply(d.reply, connectResult{id: id})
		return
	}

	go func() {
		session, err := s.dial(d.user, d.password)
		if err != nil {
			metrics.ConnectTotal.WithLabelValues("error").Inc()
			reply(d.reply, connectResult{err: err})
			return
		}

		select {
		case s.inbox <- addSessionDirective{id: id, session: session}:
		case <-ctx.Done():
			session.Close()
			reply(d.reply, connectResult{err: fmt.Errorf("%w: store shutting down", core.ErrCancelled)})
			return
		}

		metrics.ConnectTotal.WithLabelValues("new").Inc()
		reply(d.reply, connectResult{id: id})
	}()
}

// runExecutor runs one sub-directive against record on a worker
// goroutine. The inUse flag is set for its duration so a Reap sweep
// never collects a session mid-operation (spec.md §9 Open Question).
func (s *SessionStore) runExecutor(ctx context.Context, record *sessionRecord, sub executeSubDirective) {
	record.inUse.Store(true)
	defer record.inUse.Store(false)

	switch directive := sub.(type) {
	case readDirSub:
		entries, err := executeReadDir(record.session, directive.dir)
		reply(directive.reply, readDirResult{entries: entries, err: err})

	case transferFileSub:
		pack, err := executeTransferFile(ctx, s.transfers, record.session, directive.transferID, directive.filename, directive.chunkSize)
		reply(directive.reply, transferResult{pack: pack, err: err})
	}
}

// --- facade-facing helpers (post + await) ---

func (s *SessionStore) connect(ctx context.Context, user, password string) (SessionID, error) {
	replyCh := make(chan connectResult, 1)
	if err := s.post(ctx, connectDirective{user: user, password: password, reply: replyCh}); err != nil {
		return "", err
	}
	select {
	case res := <-replyCh:
		return res.id, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (s *SessionStore) exists(ctx context.Context, id SessionID) bool {
	replyCh := make(chan bool, 1)
	if err := s.post(ctx, existsDirective{id: id, reply: replyCh}); err != nil {
		return false
	}
	select {
	case ok := <-replyCh:
		return ok
	case <-ctx.Done():
		return false
	}
}

// execute looks up id and, if present, runs sub against its session,
// returning core.ErrNotFound when the session doesn't exist.
func (s *SessionStore) execute(ctx context.Context, id SessionID, sub executeSubDirective) error {
	ack := make(chan bool, 1)
	if err := s.post(ctx, executeDirective{id: id, ack: ack, sub: sub}); err != nil {
		return err
	}
	select {
	case ok := <-ack:
		if !ok {
			return fmt.Errorf("%w: invalid ftp client id", core.ErrNotFound)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *SessionStore) disconnect(ctx context.Context, id SessionID) error {
	replyCh := make(chan bool, 1)
	if err := s.post(ctx, disconnectDirective{id: id, reply: replyCh}); err != nil {
		return err
	}
	select {
	case <-replyCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *SessionStore) reap(now int64) {
	select {
	case s.inbox <- reapSessionsDirective{now: now}:
	default:
		logging.Get().Warn().Msg("session store inbox full, skipping reap tick")
	}
}

func (s *SessionStore) post(ctx context.Context, d sessionDirective) error {
	select {
	case s.inbox <- d:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// reply sends v on ch without blocking if the receiver already gave up
// (ch is always buffered 1, so this never blocks in practice).
func reply[T any](ch chan<- T, v T) {
	select {
	case ch <- v:
	default:
	}
}
