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

// Package logging wires up the process-wide zerolog logger. Every
// other package fetches it through Get() rather than constructing its
// own, so log level and output format stay consistent across the
// gateway.
package logging

import (
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	once   sync.Once
	global zerolog.Logger
)

// Init configures the global logger. levelName is one of zerolog's
// level strings ("debug", "info", "warn", "error"); unrecognised or
// empty values fall back to "info". Safe to call more than once; only
// the first call takes effect.
func Init(levelName string) {
	once.Do(func() {
		level, err := zerolog.ParseLevel(strings.ToLower(levelName))
		if err != nil || levelName == "" {
			level = zerolog.InfoLevel
		}

		writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
		global = zerolog.New(writer).
			Level(level).
			With().
			Timestamp().
			Caller().
			Logger()
	})
}

// Get returns the global logger, initializing it at info level if Init
// was never called (e.g. in tests).
func Get() *zerolog.Logger {
	once.Do(func() {
		global = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
			Level(zerolog.InfoLevel).
			With().
			Timestamp().
			Logger()
	})
	return &global
}
