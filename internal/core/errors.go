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

// Package core holds the error taxonomy shared across the gateway.
//
// Errors never cross goroutine boundaries as panics: a worker that
// fails always replies on its callback channel with one of these
// sentinels (optionally wrapped with a cause), never by closing the
// channel or letting the goroutine die silently.
package core

import "errors"

// Error kinds. Only ErrIoFailed and ErrConnectFailed are expected to
// carry a wrapped cause (fmt.Errorf("...: %w", cause)); the others are
// self-describing.
var (
	// ErrAuthFailed means the SSH handshake with the upstream failed.
	// Rejected credentials are reported this way, and so is any other
	// handshake failure.
	ErrAuthFailed = errors.New("authentication_failed")

	// ErrConnectFailed means the TCP dial failed, or the SFTP subsystem
	// could not be opened on an established SSH connection.
	ErrConnectFailed = errors.New("connect_failed")

	// ErrIoFailed wraps any SFTP operation error (open, stat, read, readdir).
	ErrIoFailed = errors.New("io_failed")

	// ErrNotFound means no session exists for the supplied id, or no
	// transfer record exists where one was required.
	ErrNotFound = errors.New("not_found")

	// ErrInvalidInput means a transfer was requested without a filename,
	// or against a file reported as zero bytes.
	ErrInvalidInput = errors.New("invalid_input")

	// ErrCancelled means the caller's reply channel was abandoned before
	// the worker could deliver a result. Never surfaces as a user-visible
	// failure on its own; it is an internal bookkeeping signal.
	ErrCancelled = errors.New("cancelled")
)
