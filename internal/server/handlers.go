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
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/FssAy/pjatk-drives/internal/cache"
	"github.com/FssAy/pjatk-drives/internal/core"
)

type handlers struct {
	client    *cache.Client
	validator CredentialValidator
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

type loginRequest struct {
	User     string `json:"user"`
	Password string `json:"password"`
}

// login validates credentials, connects (or reuses) a session, and sets
// it as the ftp_client cookie, matching original_source's login.rs.
func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid login data", http.StatusBadRequest, err)
		return
	}

	if !h.validator.Valid(req.User, req.Password) {
		writeError(w, "invalid credentials", http.StatusBadRequest, nil)
		return
	}

	id, err := h.client.Connect(r.Context(), req.User, req.Password)
	if err != nil {
		writeError(w, "ftp conn failed", statusForError(err), err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "ftp_client",
		Value:    string(id),
		Path:     "/",
		HttpOnly: true,
	})
	w.Header().Set("Access-Control-Expose-Headers", "Set-Cookie")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(id))
}

type listingEntry struct {
	Name  string `json:"name"`
	Size  uint64 `json:"size"`
	IsDir bool   `json:"is_dir"`
}

// ftp serves both directory listings and file downloads depending on
// the is-dir header/path extension heuristic from original_source's
// ftp.rs, under the single "/api/1/ftp/*" route.
func (h *handlers) ftp(w http.ResponseWriter, r *http.Request) {
	id := sessionIDFromRequest(r)
	if id == "" {
		writeError(w, "no ftp client identification provided", http.StatusUnauthorized, nil)
		return
	}

	ftpPath := chi.URLParam(r, "*")
	decoded, err := url.QueryUnescape(ftpPath)
	if err == nil {
		ftpPath = decoded
	}
	if !strings.HasPrefix(ftpPath, "/") {
		ftpPath = "/" + ftpPath
	}

	isDir := looksLikeDir(ftpPath, r.Header.Get("is-dir"))

	if isDir {
		h.listDir(w, r, cache.SessionID(id), ftpPath)
		return
	}
	h.downloadFile(w, r, cache.SessionID(id), ftpPath)
}

func (h *handlers) listDir(w http.ResponseWriter, r *http.Request, id cache.SessionID, dir string) {
	entries, err := h.client.ReadDir(r.Context(), id, dir)
	if err != nil {
		writeError(w, "cannot list the directory", statusForError(err), err)
		return
	}

	listing := make([]listingEntry, len(entries))
	for i, e := range entries {
		listing[i] = listingEntry{Name: e.Name, Size: e.Size, IsDir: e.IsDir}
	}
	sort.Slice(listing, func(i, j int) bool { return listing[i].Name < listing[j].Name })

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(listing)
}

func (h *handlers) downloadFile(w http.ResponseWriter, r *http.Request, id cache.SessionID, filePath string) {
	pack, err := h.client.ReadFileChunk(r.Context(), id, filePath)
	if err != nil {
		writeError(w, "cannot download the file", statusForError(err), err)
		return
	}

	fileName := path.Base(filePath)
	mime := extensionToMime(path.Ext(filePath))

	header := w.Header()
	header.Set("pack-name", fileName)
	header.Set("pack-number", strconv.FormatUint(pack.No, 10))
	header.Set("pack-futures", strconv.FormatUint(pack.PacksLeft, 10))
	header.Set("pack-size", strconv.FormatUint(pack.Size, 10))
	header.Set("pack-is-last", strconv.FormatBool(pack.IsLast))
	header.Set("pack-mime", mime)
	w.WriteHeader(http.StatusPartialContent)
	w.Write(pack.Bytes)
}

// sessionIDFromRequest reads the ftp header first, falling back to the
// ftp_client cookie, matching original_source's ftp.rs precedence.
func sessionIDFromRequest(r *http.Request) string {
	if v := r.Header.Get("ftp"); v != "" {
		return v
	}
	if c, err := r.Cookie("ftp_client"); err == nil {
		return c.Value
	}
	return ""
}

// looksLikeDir mirrors the is-dir heuristic: an explicit header wins;
// otherwise a path with no extension is treated as a directory.
func looksLikeDir(ftpPath, isDirHeader string) bool {
	if isDirHeader != "" {
		return isDirHeader == "true"
	}
	return path.Ext(ftpPath) == ""
}

func writeError(w http.ResponseWriter, message string, status int, cause error) {
	body := map[string]any{"message": message, "code": status}
	if cause != nil {
		body["error"] = cause.Error()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// statusForError maps the core error taxonomy to HTTP status codes per
// spec.md §7: NotFound -> 401, InvalidInput -> 400, everything else
// that crosses a store boundary -> 503.
func statusForError(err error) int {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return http.StatusUnauthorized
	case errors.Is(err, core.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusServiceUnavailable
	}
}
