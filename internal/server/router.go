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

// Package server is the HTTP front door: routing, a login endpoint, the
// combined listing/download endpoint, and /metrics. None of its
// decisions (which headers, JSON vs HTML) are part of the cache's
// tested contract — see SPEC_FULL.md §2.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/FssAy/pjatk-drives/internal/cache"
	"github.com/FssAy/pjatk-drives/internal/logging"
)

type requestIDKey struct{}

// requestID stamps each request with a uuid before requestLogger reads
// it back out, replacing chi's own counter-based middleware.RequestID
// with the uuid.NewString() scheme other_examples/cuemby-warren uses.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), requestIDKey{}, uuid.NewString())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// CredentialValidator checks credentials against an upstream identity
// provider before a session is even attempted. The distilled spec
// treats this as an external collaborator (spec.md §1) — the gateway
// doesn't know or care how it's implemented, only that it exists.
type CredentialValidator interface {
	Valid(user, password string) bool
}

// AllowAll is a CredentialValidator that never rejects; useful for
// local development or when the upstream check happens elsewhere.
type AllowAll struct{}

func (AllowAll) Valid(string, string) bool { return true }

// New builds the chi router: health, login, ftp listing/download, and
// metrics, wired against client and validator.
func New(client *cache.Client, validator CredentialValidator, metricsRegistry *prometheus.Registry) http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	h := &handlers{client: client, validator: validator}

	r.Get("/health", h.health)

	r.Route("/api/1", func(r chi.Router) {
		r.Post("/login", h.login)
		r.Get("/ftp/*", h.ftp)
	})

	if metricsRegistry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(metricsRegistry, promhttp.HandlerOpts{}))
	}

	return r
}

// requestLogger logs start (debug) and completion (info) of every
// request, the same two-line shape marmos91-dittofs's pkg/api uses.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := requestIDFromContext(r.Context())
		log := logging.Get()

		log.Debug().
			Str("request_id", reqID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote_addr", r.RemoteAddr).
			Msg("request started")

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		log.Info().
			Str("request_id", reqID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("request completed")
	})
}
