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

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FssAy/pjatk-drives/internal/cache"
	"github.com/FssAy/pjatk-drives/internal/config"
	"github.com/FssAy/pjatk-drives/internal/logging"
	"github.com/FssAy/pjatk-drives/internal/network"
)

func TestMain(m *testing.M) {
	logging.Init("error")
	os.Exit(m.Run())
}

type stubFile struct {
	r *bytes.Reader
}

func (f *stubFile) Read(p []byte) (int, error) { return f.r.Read(p) }
func (f *stubFile) Close() error               { return nil }
func (f *stubFile) Stat() (os.FileInfo, error) { return stubInfo{size: f.r.Size()}, nil }

type stubInfo struct {
	size int64
	name string
	dir  bool
}

func (s stubInfo) Name() string       { return s.name }
func (s stubInfo) Size() int64        { return s.size }
func (s stubInfo) Mode() os.FileMode  { return 0 }
func (s stubInfo) ModTime() time.Time { return time.Time{} }
func (s stubInfo) IsDir() bool        { return s.dir }
func (s stubInfo) Sys() any           { return nil }

type stubSession struct{}

func (stubSession) Open(path string) (network.File, error) {
	return &stubFile{r: bytes.NewReader([]byte("hello world"))}, nil
}
func (stubSession) Stat(path string) (os.FileInfo, error) { return stubInfo{size: 11}, nil }
func (stubSession) ReadDir(path string) ([]os.FileInfo, error) {
	return []os.FileInfo{stubInfo{name: "readme.txt", size: 11}}, nil
}
func (stubSession) Close() error { return nil }

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	cfg := config.Default()
	cfg.ChunkSize = 1024

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	dial := func(user, password string) (network.Session, error) { return stubSession{}, nil }
	client := cache.New(ctx, cfg, dial)
	t.Cleanup(client.Shutdown)

	return New(client, AllowAll{}, nil)
}

func TestLogin_SetsSessionCookie(t *testing.T) {
	handler := newTestServer(t)

	body, _ := json.Marshal(loginRequest{User: "alice", Password: "s3cret"})
	req := httptest.NewRequest(http.MethodPost, "/api/1/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "ftp_client", cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
}

func TestFtp_DownloadsFileAsPartialContent(t *testing.T) {
	handler := newTestServer(t)

	loginBody, _ := json.Marshal(loginRequest{User: "alice", Password: "s3cret"})
	loginReq := httptest.NewRequest(http.MethodPost, "/api/1/login", bytes.NewReader(loginBody))
	loginRec := httptest.NewRecorder()
	handler.ServeHTTP(loginRec, loginReq)
	sessionID := loginRec.Result().Cookies()[0].Value

	req := httptest.NewRequest(http.MethodGet, "/api/1/ftp/file.txt", nil)
	req.Header.Set("ftp", sessionID)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusPartialContent, rec.Code)
	assert.Equal(t, "file.txt", rec.Header().Get("pack-name"))
	assert.Equal(t, "text/plain", rec.Header().Get("pack-mime"))
	assert.Equal(t, "true", rec.Header().Get("pack-is-last"))
	assert.Equal(t, "hello world", rec.Body.String())
}

func TestFtp_ListsDirectoryAsJSON(t *testing.T) {
	handler := newTestServer(t)

	loginBody, _ := json.Marshal(loginRequest{User: "alice", Password: "s3cret"})
	loginReq := httptest.NewRequest(http.MethodPost, "/api/1/login", bytes.NewReader(loginBody))
	loginRec := httptest.NewRecorder()
	handler.ServeHTTP(loginRec, loginReq)
	sessionID := loginRec.Result().Cookies()[0].Value

	req := httptest.NewRequest(http.MethodGet, "/api/1/ftp/", nil)
	req.Header.Set("ftp", sessionID)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var listing []listingEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	require.Len(t, listing, 1)
	assert.Equal(t, "readme.txt", listing[0].Name)
}

func TestFtp_MissingSessionReturns401(t *testing.T) {
	handler := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/1/ftp/file.txt", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
