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
	"fmt"
	"io"

	"github.com/FssAy/pjatk-drives/internal/core"
	"github.com/FssAy/pjatk-drives/internal/metrics"
	"github.com/FssAy/pjatk-drives/internal/network"
)

// executeReadDir lists dir on session and adapts the result to Entry.
func executeReadDir(session network.Session, dir string) ([]Entry, error) {
	infos, err := session.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrIoFailed, err)
	}

	entries := make([]Entry, len(infos))
	for i, info := range infos {
		entries[i] = Entry{
			Name:  info.Name(),
			Size:  uint64(info.Size()),
			IsDir: info.IsDir(),
		}
	}
	return entries, nil
}

// executeTransferFile runs one step of the TransferFile state machine
// described in spec.md §4.3: get-or-create the transfer record, read one
// chunk under its lock, and register the record with transfers only
// after the first chunk succeeds.
func executeTransferFile(
	ctx context.Context,
	transfers *TransferStore,
	session network.Session,
	transferID TransferID,
	filename string,
	chunkSize uint64,
) (ContentPack, error) {
	record, err := transfers.get(ctx, transferID)
	if err != nil {
		return ContentPack{}, err
	}

	firstChunk := record == nil
	if firstChunk {
		record, err = openTransfer(session, filename, chunkSize)
		if err != nil {
			return ContentPack{}, err
		}
	}

	record.mu.Lock()
	defer record.mu.Unlock()

	buf := make([]byte, record.chunkSize)
	n, readErr := record.file.Read(buf)
	if readErr != nil && n == 0 && !errors.Is(readErr, io.EOF) {
		return ContentPack{}, fmt.Errorf("%w: %v", core.ErrIoFailed, readErr)
	}
	buf = buf[:n]

	no := record.chunksSent
	record.chunksSent++
	record.totalRead += uint64(n)
	record.lastUsed = nowUnix()

	// totalChunks is a ceiling division: the count of sends required to
	// exhaust fileSize at chunkSize, including a short final chunk. Using
	// chunksSent *after* this read (rather than before) is what makes the
	// send that delivers the last byte of an exact-multiple-sized file
	// report packsLeft == 0 immediately, instead of one read too late.
	totalChunks := (record.fileSize + record.chunkSize - 1) / record.chunkSize
	var packsLeft uint64
	if record.chunksSent < totalChunks {
		packsLeft = totalChunks - record.chunksSent
	}
	pack := ContentPack{
		No:        no,
		IsLast:    packsLeft == 0 || n == 0,
		Size:      uint64(n),
		Bytes:     buf,
		PacksLeft: packsLeft,
	}

	metrics.ChunksServedTotal.Inc()
	if firstChunk && record.chunksSent == 1 {
		transfers.add(transferID, record)
	}

	return pack, nil
}

// openTransfer implements spec.md §4.3 step 2: open the file, stat it,
// and build a fresh, not-yet-registered transfer record. filename must
// be non-empty since there is no existing record to continue from.
func openTransfer(session network.Session, filename string, chunkSize uint64) (*transferRecord, error) {
	if filename == "" {
		return nil, fmt.Errorf("%w: new transfer without filename", core.ErrInvalidInput)
	}

	file, err := session.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrIoFailed, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("%w: %v", core.ErrIoFailed, err)
	}

	size := uint64(info.Size())
	if size == 0 {
		file.Close()
		return nil, fmt.Errorf("%w: invalid file size 0", core.ErrInvalidInput)
	}

	return &transferRecord{
		lastUsed:  nowUnix(),
		fileSize:  size,
		chunkSize: chunkSize,
		file:      file,
	}, nil
}
