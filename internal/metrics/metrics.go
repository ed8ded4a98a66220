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

// Package metrics exposes Prometheus collectors for the cache's two
// stores and the reaper. MustRegister adds them all to the registry
// the caller passes in, which cmd/drivesd serves on its own metrics
// listener.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// SessionsActive is the number of live entries in the Session Store.
	SessionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "drives",
		Subsystem: "sessions",
		Name:      "active",
		Help:      "Number of live SFTP sessions held by the session store.",
	})

	// TransfersActive is the number of live entries in the Transfer Store.
	TransfersActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "drives",
		Subsystem: "transfers",
		Name:      "active",
		Help:      "Number of in-progress file transfers held by the transfer store.",
	})

	// ChunksServedTotal counts every content pack successfully returned.
	ChunksServedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "drives",
		Subsystem: "transfers",
		Name:      "chunks_served_total",
		Help:      "Total number of content packs served to clients.",
	})

	// SessionsReapedTotal counts sessions evicted for being idle.
	SessionsReapedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "drives",
		Subsystem: "sessions",
		Name:      "reaped_total",
		Help:      "Total number of sessions evicted by the reaper.",
	})

	// TransfersReapedTotal counts transfers evicted for being idle.
	TransfersReapedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "drives",
		Subsystem: "transfers",
		Name:      "reaped_total",
		Help:      "Total number of transfers evicted by the reaper.",
	})

	// ConnectTotal counts Connect directives by outcome ("hit", "new", "error").
	ConnectTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "drives",
		Subsystem: "sessions",
		Name:      "connect_total",
		Help:      "Total number of Connect directives by outcome.",
	}, []string{"outcome"})
)

// MustRegister registers every collector against reg. Call once at
// startup; registering the same collector twice panics, which is the
// desired failure mode for a programming error like that.
func MustRegister(reg *prometheus.Registry) {
	reg.MustRegister(
		SessionsActive,
		TransfersActive,
		ChunksServedTotal,
		SessionsReapedTotal,
		TransfersReapedTotal,
		ConnectTotal,
	)
}
