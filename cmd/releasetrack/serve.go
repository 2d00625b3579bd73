// Copyright 2025 The releasetrack authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/releasetrack/releasetrack/database"
	"github.com/releasetrack/releasetrack/event"
	"github.com/releasetrack/releasetrack/internal/config"
	"github.com/spf13/cobra"
)

// serveRun opens the store, applies schema migrations, and serves the
// prometheus metrics endpoint until interrupted
func serveRun(_ *cobra.Command, _ []string, cfg *config.Config) {
	logger := commonRun()

	promRegistry := prometheus.NewRegistry()
	eventBus := event.NewEventBus(promRegistry, logger)
	defer eventBus.Stop()

	db, err := database.New(
		cfg.DataDir,
		database.WithLogger(logger),
		database.WithPromRegistry(promRegistry),
		database.WithEventBus(eventBus),
	)
	if err != nil {
		slog.Error(fmt.Sprintf("opening database: %s", err))
		os.Exit(1)
	}
	defer db.Close()

	metricsServer := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.MetricsPort),
		Handler: promhttp.HandlerFor(
			promRegistry,
			promhttp.HandlerOpts{},
		),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info(
			fmt.Sprintf("serving metrics on :%d", cfg.MetricsPort),
			"component", programName,
		)
		if err := metricsServer.ListenAndServe(); err != nil &&
			err != http.ErrServerClosed {
			slog.Error(err.Error())
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-signalChan
	logger.Info(
		fmt.Sprintf("received signal: %s", sig),
		"component", programName,
	)
	if err := metricsServer.Close(); err != nil {
		slog.Error(err.Error())
	}
}

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the store with a metrics endpoint",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.FromContext(cmd.Context())
			if cfg == nil {
				slog.Error("no config found in context")
				os.Exit(1)
			}
			serveRun(cmd, args, cfg)
		},
	}
}

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database schema migrations and exit",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.FromContext(cmd.Context())
			if cfg == nil {
				slog.Error("no config found in context")
				os.Exit(1)
			}
			logger := commonRun()
			db, err := database.New(
				cfg.DataDir,
				database.WithLogger(logger),
			)
			if err != nil {
				slog.Error(fmt.Sprintf("opening database: %s", err))
				os.Exit(1)
			}
			if err := db.Close(); err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			logger.Info("schema is up to date", "component", programName)
		},
	}
}
