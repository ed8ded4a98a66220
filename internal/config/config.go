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

// Package config loads the gateway's configuration from (in order of
// precedence) environment variables prefixed DRIVES_, an optional
// config file, and finally these defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full set of gateway tunables. Field names mirror
// spec.md §6's tunables table plus the handful of ambient settings
// (bind address, upstream SFTP host, log level) the table doesn't cover.
type Config struct {
	// Bind is the address the HTTP front door listens on.
	Bind string `mapstructure:"bind"`

	// FTPHost is the upstream SFTP server's host:port.
	FTPHost string `mapstructure:"ftp_host"`

	// LogLevel is one of zerolog's level names.
	LogLevel string `mapstructure:"log_level"`

	// SessionStoreCapacity bounds the Session Store's directive inbox.
	SessionStoreCapacity int `mapstructure:"session_store_capacity"`

	// TransferStoreCapacity bounds the Transfer Store's directive inbox.
	TransferStoreCapacity int `mapstructure:"transfer_store_capacity"`

	// SessionTTL is the idle cut-off before a session is reaped.
	SessionTTL time.Duration `mapstructure:"session_ttl"`

	// SessionReapPeriod is how often the reaper sweeps sessions.
	SessionReapPeriod time.Duration `mapstructure:"session_reap_period"`

	// TransferTTL is the idle cut-off before a transfer is reaped.
	TransferTTL time.Duration `mapstructure:"transfer_ttl"`

	// TransferReapPeriod is how often the reaper sweeps transfers.
	TransferReapPeriod time.Duration `mapstructure:"transfer_reap_period"`

	// ChunkSize is the number of bytes per content pack.
	ChunkSize int `mapstructure:"chunk_size"`

	// MetricsBind is the address the Prometheus /metrics endpoint binds to.
	// Empty disables the metrics server.
	MetricsBind string `mapstructure:"metrics_bind"`
}

// Default returns the tunables spec.md §6 lists as defaults.
func Default() Config {
	return Config{
		Bind:                  "127.0.0.1:6655",
		FTPHost:               "127.0.0.1:22",
		LogLevel:              "info",
		SessionStoreCapacity:  256,
		TransferStoreCapacity: 1024,
		SessionTTL:            300 * time.Second,
		SessionReapPeriod:     60 * time.Second,
		TransferTTL:           30 * time.Second,
		TransferReapPeriod:    40 * time.Second,
		ChunkSize:             1024,
		MetricsBind:           "127.0.0.1:9655",
	}
}

// Load reads configFile (if non-empty and present) over the defaults,
// then applies DRIVES_-prefixed environment variable overrides.
func Load(configFile string) (Config, error) {
	def := Default()

	v := viper.New()
	v.SetEnvPrefix("drives")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, def)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !errors.Is(err, os.ErrNotExist) {
				return Config{}, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, def Config) {
	v.SetDefault("bind", def.Bind)
	v.SetDefault("ftp_host", def.FTPHost)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("session_store_capacity", def.SessionStoreCapacity)
	v.SetDefault("transfer_store_capacity", def.TransferStoreCapacity)
	v.SetDefault("session_ttl", def.SessionTTL)
	v.SetDefault("session_reap_period", def.SessionReapPeriod)
	v.SetDefault("transfer_ttl", def.TransferTTL)
	v.SetDefault("transfer_reap_period", def.TransferReapPeriod)
	v.SetDefault("chunk_size", def.ChunkSize)
	v.SetDefault("metrics_bind", def.MetricsBind)
}
