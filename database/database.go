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

// Package database is the persistent data model and integrity layer for
// the release management platform. It tracks committees, projects,
// releases, release revisions, background tasks, and distribution records,
// and enforces the transactional invariants around revision sequencing,
// the release and task lifecycles, and derived read-time views.
package database

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/releasetrack/releasetrack/database/models"
	"github.com/releasetrack/releasetrack/event"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"
)

// Store is a sqlite-backed store for release management data. It is safe
// for concurrent use; write transactions serialize on the database write
// lock, not on application-level mutexes.
type Store struct {
	promRegistry prometheus.Registerer
	db           *gorm.DB
	logger       *slog.Logger
	eventBus     *event.EventBus
	metrics      storeMetrics
	dataDir      string
}

type storeMetrics struct {
	revisionsAllocated  prometheus.Counter
	allocationConflicts prometheus.Counter
	taskTransitions     *prometheus.CounterVec
	phaseTransitions    *prometheus.CounterVec
}

// StoreOptionFunc configures optional store dependencies
type StoreOptionFunc func(*Store)

// WithLogger specifies the logger object to use for logging messages
func WithLogger(logger *slog.Logger) StoreOptionFunc {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithPromRegistry specifies the prometheus registry to use for metrics
func WithPromRegistry(registry prometheus.Registerer) StoreOptionFunc {
	return func(s *Store) {
		s.promRegistry = registry
	}
}

// WithEventBus specifies the event bus for data change notifications
func WithEventBus(bus *event.EventBus) StoreOptionFunc {
	return func(s *Store) {
		s.eventBus = bus
	}
}

// New creates a sqlite store. Uses an in-memory database if dataDir is empty.
func New(dataDir string, opts ...StoreOptionFunc) (*Store, error) {
	s := &Store{
		dataDir: dataDir,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		s.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	// Every transaction takes the write lock at BEGIN so that concurrent
	// writers queue on busy_timeout instead of failing mid-transaction
	connOpts := "_txlock=immediate&_pragma=busy_timeout(10000)&_pragma=foreign_keys(1)"
	var dsn string
	if dataDir == "" {
		// Use in-memory database when no data directory is specified, useful for testing
		// cache=shared allows multiple connections to share the same in-memory database
		dsn = "file::memory:?cache=shared&" + connOpts
	} else {
		// Make sure that we can read data dir, and create if it doesn't exist
		if _, err := os.Stat(dataDir); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read data dir: %w", err)
			}
			if err := os.MkdirAll(dataDir, fs.ModePerm); err != nil {
				return nil, fmt.Errorf("failed to create data dir: %w", err)
			}
		}
		dbPath := filepath.Join(dataDir, "releasetrack.sqlite")
		// WAL journal mode for concurrent readers during writes
		dsn = fmt.Sprintf(
			"file:%s?_pragma=journal_mode(WAL)&%s",
			dbPath,
			connOpts,
		)
	}
	db, err := gorm.Open(
		sqlite.Open(dsn),
		&gorm.Config{
			Logger:                 gormlogger.Discard,
			SkipDefaultTransaction: true,
			TranslateError:         true,
		},
	)
	if err != nil {
		return nil, err
	}
	s.db = db
	// Configure tracing for GORM
	if err := s.db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return nil, err
	}
	s.initMetrics()
	// Create table schemas
	for _, model := range models.MigrateModels {
		s.logger.Debug(fmt.Sprintf("creating table: %#v", model))
		if err := s.db.AutoMigrate(model); err != nil {
			return s, err
		}
	}
	return s, nil
}

func (s *Store) initMetrics() {
	promautoFactory := promauto.With(s.promRegistry)
	s.metrics.revisionsAllocated = promautoFactory.NewCounter(
		prometheus.CounterOpts{
			Name: "releasetrack_revisions_allocated_total",
			Help: "total revision sequence numbers allocated",
		},
	)
	s.metrics.allocationConflicts = promautoFactory.NewCounter(
		prometheus.CounterOpts{
			Name: "releasetrack_revision_allocation_conflicts_total",
			Help: "total revision allocation conflicts detected",
		},
	)
	s.metrics.taskTransitions = promautoFactory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "releasetrack_task_transitions_total",
			Help: "total task status transitions by target status",
		},
		[]string{"status"},
	)
	s.metrics.phaseTransitions = promautoFactory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "releasetrack_release_phase_transitions_total",
			Help: "total release phase transitions by target phase",
		},
		[]string{"phase"},
	)
}

// AutoMigrate creates or updates database schema for the given models
func (s *Store) AutoMigrate(dst ...any) error {
	return s.db.AutoMigrate(dst...)
}

// DB returns the underlying GORM database handle
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Close shuts down the database connection
func (s *Store) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get database handle: %w", err)
	}
	return db.Close()
}

// publishEvent sends a store change notification when an event bus is
// configured. Events are emitted after the owning transaction commits.
func (s *Store) publishEvent(eventType event.EventType, data any) {
	if s.eventBus == nil {
		return
	}
	s.eventBus.Publish(eventType, event.NewEvent(eventType, data))
}
