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
	"bytes"
	"errors"
	"io"
	"os"
	"sync"
	"time"

	"github.com/FssAy/pjatk-drives/internal/network"
)

// fakeFileInfo satisfies os.FileInfo with just the fields the cache reads.
type fakeFileInfo struct {
	name  string
	size  int64
	isDir bool
}

func (f fakeFileInfo) Name() string       { return f.name }
func (f fakeFileInfo) Size() int64        { return f.size }
func (f fakeFileInfo) Mode() os.FileMode  { return 0 }
func (f fakeFileInfo) ModTime() time.Time { return time.Time{} }
func (f fakeFileInfo) IsDir() bool        { return f.isDir }
func (f fakeFileInfo) Sys() any           { return nil }

// fakeFile wraps a byte slice as a network.File.
type fakeFile struct {
	name   string
	reader *bytes.Reader
	closed bool
}

func newFakeFile(name string, contents []byte) *fakeFile {
	return &fakeFile{name: name, reader: bytes.NewReader(contents)}
}

func (f *fakeFile) Read(p []byte) (int, error) { return f.reader.Read(p) }
func (f *fakeFile) Close() error               { f.closed = true; return nil }
func (f *fakeFile) Stat() (os.FileInfo, error) {
	return fakeFileInfo{name: f.name, size: f.reader.Size()}, nil
}

// fakeSession is an in-memory network.Session: no real SSH/SFTP dialing.
// Safe for concurrent use since the cache may open the same path from
// two concurrent TransferFile calls.
type fakeSession struct {
	mu     sync.Mutex
	closed bool
	files  map[string][]byte
	dirs   map[string][]fakeFileInfo
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		files: make(map[string][]byte),
		dirs:  make(map[string][]fakeFileInfo),
	}
}

func (s *fakeSession) withFile(path string, contents []byte) *fakeSession {
	s.files[path] = contents
	return s
}

func (s *fakeSession) withDir(path string, entries ...fakeFileInfo) *fakeSession {
	s.dirs[path] = entries
	return s
}

func (s *fakeSession) Open(path string) (network.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	contents, ok := s.files[path]
	if !ok {
		return nil, errors.New("no such file")
	}
	return newFakeFile(path, contents), nil
}

func (s *fakeSession) Stat(path string) (os.FileInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	contents, ok := s.files[path]
	if !ok {
		return nil, errors.New("no such file")
	}
	return fakeFileInfo{name: path, size: int64(len(contents))}, nil
}

func (s *fakeSession) ReadDir(path string) ([]os.FileInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, ok := s.dirs[path]
	if !ok {
		return nil, errors.New("no such directory")
	}
	infos := make([]os.FileInfo, len(entries))
	for i, e := range entries {
		infos[i] = e
	}
	return infos, nil
}

func (s *fakeSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *fakeSession) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

var _ io.Reader = (*fakeFile)(nil)
