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

package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/FssAy/pjatk-drives/internal/cache"
	"github.com/FssAy/pjatk-drives/internal/config"
	"github.com/FssAy/pjatk-drives/internal/logging"
	"github.com/FssAy/pjatk-drives/internal/metrics"
	"github.com/FssAy/pjatk-drives/internal/server"
)

func main() {
	configFile := flag.String("config", "", "path to a config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		panic(err)
	}

	logging.Init(cfg.LogLevel)
	log := logging.Get()
	log.Info().Str("bind", cfg.Bind).Str("ftp_host", cfg.FTPHost).Msg("drivesd starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	metrics.MustRegister(registry)

	client := cache.New(ctx, cfg, cache.DialSFTP(cfg.FTPHost))
	defer client.Shutdown()

	httpServer := &http.Server{
		Addr:    cfg.Bind,
		Handler: server.New(client, server.AllowAll{}, nil),
	}

	metricsServer := &http.Server{
		Addr:    cfg.MetricsBind,
		Handler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", cfg.Bind).Msg("http front door listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if cfg.MetricsBind != "" {
		g.Go(func() error {
			log.Info().Str("addr", cfg.MetricsBind).Msg("metrics endpoint listening")
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
		metricsServer.Shutdown(shutdownCtx)
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("drivesd exited with error")
		os.Exit(1)
	}

	log.Info().Msg("drivesd stopped")
}
