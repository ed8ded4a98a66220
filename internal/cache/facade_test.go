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
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FssAy/pjatk-drives/internal/core"
	"github.com/FssAy/pjatk-drives/internal/network"
)

// newTestClient wires a Client directly against the stores (bypassing
// cache.New's config-driven defaults) so tests can use short TTLs.
func newTestClient(t *testing.T, dial Dialer, sessionTTL, transferTTL int64) (*Client, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())

	transfers := NewTransferStore(64, transferTTL)
	sessions := NewSessionStore(64, sessionTTL, dial, transfers)

	go sessions.Run(ctx)
	go transfers.Run(ctx)

	client := &Client{sessions: sessions, transfers: transfers, chunkSize: 1024, cancel: cancel}
	return client, cancel
}

func TestFingerprint_Deterministic(t *testing.T) {
	a := Fingerprint("alice", "s3cret")
	b := Fingerprint("alice", "s3cret")
	assert.Equal(t, a, b)

	c := Fingerprint("alice", "different")
	assert.NotEqual(t, a, c)
}

func TestConnect_DedupesConcurrentLogins(t *testing.T) {
	var dialCount int
	var mu sync.Mutex

	dial := func(user, password string) (network.Session, error) {
		mu.Lock()
		dialCount++
		mu.Unlock()
		time.Sleep(10 * time.Millisecond)
		return newFakeSession(), nil
	}

	client, cancel := newTestClient(t, dial, 300, 30)
	defer cancel()

	ctx := context.Background()
	var wg sync.WaitGroup
	ids := make([]SessionID, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := client.Connect(ctx, "bob", "pw")
			require.NoError(t, err)
			ids[i] = id
		}(i)
	}
	wg.Wait()

	assert.Equal(t, ids[0], ids[1])
	assert.True(t, client.SessionExists(ctx, ids[0]))
}

func TestConnect_DialFailureSurfacesAuthFailed(t *testing.T) {
	dial := func(user, password string) (network.Session, error) {
		return nil, core.ErrAuthFailed
	}

	client, cancel := newTestClient(t, dial, 300, 30)
	defer cancel()

	ctx := context.Background()
	_, err := client.Connect(ctx, "eve", "wrong")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrAuthFailed))

	id := Fingerprint("eve", "wrong")
	assert.False(t, client.SessionExists(ctx, id))
}

func TestSessionReap_EvictsIdleSessions(t *testing.T) {
	dial := func(user, password string) (network.Session, error) {
		return newFakeSession(), nil
	}

	client, cancel := newTestClient(t, dial, 0, 30)
	defer cancel()

	ctx := context.Background()
	id, err := client.Connect(ctx, "alice", "s3cret")
	require.NoError(t, err)
	require.True(t, client.SessionExists(ctx, id))

	client.sessions.reap(nowUnix() + 1)
	time.Sleep(20 * time.Millisecond)

	assert.False(t, client.SessionExists(ctx, id))
}

func TestReadDir_ListsEntries(t *testing.T) {
	session := newFakeSession().withDir("/",
		fakeFileInfo{name: "a.txt", size: 10},
		fakeFileInfo{name: "sub", isDir: true},
	)
	dial := func(user, password string) (network.Session, error) { return session, nil }

	client, cancel := newTestClient(t, dial, 300, 30)
	defer cancel()

	ctx := context.Background()
	id, err := client.Connect(ctx, "alice", "s3cret")
	require.NoError(t, err)

	entries, err := client.ReadDir(ctx, id, "/")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a.txt", entries[0].Name)
	assert.False(t, entries[0].IsDir)
	assert.True(t, entries[1].IsDir)
}

func TestReadDir_MissingSessionFails(t *testing.T) {
	client, cancel := newTestClient(t, nil, 300, 30)
	defer cancel()

	ctx := context.Background()
	_, err := client.ReadDir(ctx, SessionID("nonexistent"), "/")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrNotFound))
}

// TestReadFileChunk_ChunkedDownload matches spec.md §8's chunked
// download scenario: a 2600-byte file at chunk size 1024 produces
// three packs, the third terminal, then a fourth call restarts fresh.
func TestReadFileChunk_ChunkedDownload(t *testing.T) {
	contents := make([]byte, 2600)
	for i := range contents {
		contents[i] = byte(i % 251)
	}
	session := newFakeSession().withFile("/f.bin", contents)
	dial := func(user, password string) (network.Session, error) { return session, nil }

	client, cancel := newTestClient(t, dial, 300, 30)
	defer cancel()

	ctx := context.Background()
	id, err := client.Connect(ctx, "alice", "s3cret")
	require.NoError(t, err)

	expectations := []struct {
		no     uint64
		size   uint64
		isLast bool
	}{
		{0, 1024, false},
		{1, 1024, false},
		{2, 552, true},
	}

	var received []byte
	for _, want := range expectations {
		pack, err := client.ReadFileChunk(ctx, id, "/f.bin")
		require.NoError(t, err)
		assert.Equal(t, want.no, pack.No)
		assert.Equal(t, want.size, pack.Size)
		assert.Equal(t, want.isLast, pack.IsLast)
		received = append(received, pack.Bytes...)
	}
	assert.Equal(t, contents, received)

	// A fourth call starts a fresh transfer because Remove fired on is_last.
	pack, err := client.ReadFileChunk(ctx, id, "/f.bin")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), pack.No)
	assert.Equal(t, uint64(1024), pack.Size)
	assert.False(t, pack.IsLast)
}

func TestReadFileChunk_SingleByteFile(t *testing.T) {
	session := newFakeSession().withFile("/f.bin", []byte{0x42})
	dial := func(user, password string) (network.Session, error) { return session, nil }

	client, cancel := newTestClient(t, dial, 300, 30)
	defer cancel()

	ctx := context.Background()
	id, err := client.Connect(ctx, "alice", "s3cret")
	require.NoError(t, err)

	client.chunkSize = 1
	pack, err := client.ReadFileChunk(ctx, id, "/f.bin")
	require.NoError(t, err)
	assert.True(t, pack.IsLast)
	assert.Equal(t, uint64(1), pack.Size)
	assert.Equal(t, uint64(0), pack.PacksLeft)
}

func TestReadFileChunk_ZeroSizeFileRejected(t *testing.T) {
	session := newFakeSession().withFile("/empty.bin", []byte{})
	dial := func(user, password string) (network.Session, error) { return session, nil }

	client, cancel := newTestClient(t, dial, 300, 30)
	defer cancel()

	ctx := context.Background()
	id, err := client.Connect(ctx, "alice", "s3cret")
	require.NoError(t, err)

	_, err = client.ReadFileChunk(ctx, id, "/empty.bin")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidInput))

	record, getErr := client.transfers.get(ctx, NewTransferID(id, "/empty.bin"))
	require.NoError(t, getErr)
	assert.Nil(t, record)
}

func TestTransferReap_AbandonedTransferEvicted(t *testing.T) {
	contents := make([]byte, 2048)
	session := newFakeSession().withFile("/f.bin", contents)
	dial := func(user, password string) (network.Session, error) { return session, nil }

	client, cancel := newTestClient(t, dial, 300, 0)
	defer cancel()

	ctx := context.Background()
	id, err := client.Connect(ctx, "alice", "s3cret")
	require.NoError(t, err)

	_, err = client.ReadFileChunk(ctx, id, "/f.bin")
	require.NoError(t, err)

	transferID := NewTransferID(id, "/f.bin")
	record, err := client.transfers.get(ctx, transferID)
	require.NoError(t, err)
	require.NotNil(t, record)

	client.transfers.reap(nowUnix() + 1)
	time.Sleep(20 * time.Millisecond)

	record, err = client.transfers.get(ctx, transferID)
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestDisconnect_RemovesSessionImmediately(t *testing.T) {
	session := newFakeSession()
	dial := func(user, password string) (network.Session, error) { return session, nil }

	client, cancel := newTestClient(t, dial, 300, 30)
	defer cancel()

	ctx := context.Background()
	id, err := client.Connect(ctx, "alice", "s3cret")
	require.NoError(t, err)
	require.True(t, client.SessionExists(ctx, id))

	require.NoError(t, client.Disconnect(ctx, id))
	assert.False(t, client.SessionExists(ctx, id))
	assert.True(t, session.isClosed())
}
