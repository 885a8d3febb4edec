// Copyright 2025 Kadir Pekel
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

// Package observability wires OpenTelemetry tracing and run metrics.
//
// Tracing installs a global tracer provider, so packages only call
// otel.Tracer. Metrics are collected in process and written once, in
// Prometheus text format, when the Manager shuts down.
package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kadirpekel/welcomer/pkg/config"
)

// Recorder observes letter outcomes.
type Recorder interface {
	LetterGenerated(ctx context.Context, elapsed time.Duration)
	LetterFailed(ctx context.Context, reason string)
}

// Manager owns the tracer provider and metrics of one run.
type Manager struct {
	cfg     config.ObservabilityConfig
	version string
	traceW  io.Writer

	mu       sync.Mutex
	provider *sdktrace.TracerProvider
	metrics  *Metrics
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithServiceVersion sets the service.version resource attribute.
func WithServiceVersion(v string) ManagerOption {
	return func(m *Manager) {
		m.version = v
	}
}

// WithTraceWriter sends stdout exporter output to w.
func WithTraceWriter(w io.Writer) ManagerOption {
	return func(m *Manager) {
		m.traceW = w
	}
}

// NewManager creates a Manager. Nothing starts until Start is called.
func NewManager(cfg config.ObservabilityConfig, opts ...ManagerOption) *Manager {
	m := &Manager{cfg: cfg}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start initializes whatever cfg enables.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cfg.Tracing.Enabled {
		tp, err := newTracerProvider(ctx, m.cfg.Tracing, m.version, m.traceW)
		if err != nil {
			return err
		}
		m.provider = tp
		slog.Debug("Tracing enabled", "exporter", m.cfg.Tracing.Exporter, "service", m.cfg.Tracing.ServiceName)
	}

	if m.cfg.Metrics.Enabled {
		metrics, err := newMetrics(m.cfg.Metrics)
		if err != nil {
			return err
		}
		m.metrics = metrics
		slog.Debug("Metrics enabled", "namespace", m.cfg.Metrics.Namespace, "textfile", m.cfg.Metrics.Textfile)
	}

	return nil
}

// Recorder returns the metrics recorder, or a no-op one when metrics are off.
func (m *Manager) Recorder() Recorder {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.metrics == nil {
		return nopRecorder{}
	}
	return m.metrics
}

// Metrics returns the metrics, or nil when they are off.
func (m *Manager) Metrics() *Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.metrics
}

// Shutdown writes the metrics textfile, if configured, and flushes and
// stops the exporters.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	if m.metrics != nil {
		if path := m.cfg.Metrics.Textfile; path != "" {
			errs = append(errs, m.metrics.WriteTextfile(path))
		}
		errs = append(errs, m.metrics.shutdown(ctx))
		m.metrics = nil
	}
	if m.provider != nil {
		errs = append(errs, m.provider.Shutdown(ctx))
		m.provider = nil
	}
	return errors.Join(errs...)
}
