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

package observability

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kadirpekel/welcomer/pkg/config"
)

const meterName = "github.com/kadirpekel/welcomer"

// Metrics records letter outcomes as OpenTelemetry instruments backed by a
// private Prometheus registry.
type Metrics struct {
	provider *sdkmetric.MeterProvider
	registry *prometheus.Registry

	generated metric.Int64Counter
	failed    metric.Int64Counter
	duration  metric.Float64Histogram
}

func newMetrics(cfg config.MetricsConfig) (*Metrics, error) {
	registry := prometheus.NewRegistry()

	exporter, err := otelprom.New(
		otelprom.WithRegisterer(registry),
		otelprom.WithNamespace(cfg.Namespace),
		otelprom.WithoutScopeInfo(),
		otelprom.WithoutTargetInfo(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	meter := provider.Meter(meterName)

	m := &Metrics{provider: provider, registry: registry}

	m.generated, err = meter.Int64Counter("letters_generated",
		metric.WithDescription("Letters written to the output directory"))
	if err != nil {
		return nil, fmt.Errorf("failed to create generated counter: %w", err)
	}

	m.failed, err = meter.Int64Counter("letters_failed",
		metric.WithDescription("Accounts whose letter could not be generated"))
	if err != nil {
		return nil, fmt.Errorf("failed to create failed counter: %w", err)
	}

	m.duration, err = meter.Float64Histogram("letter_generation_duration",
		metric.WithDescription("Time to generate one letter"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	return m, nil
}

// LetterGenerated records a generated letter.
func (m *Metrics) LetterGenerated(ctx context.Context, elapsed time.Duration) {
	m.generated.Add(ctx, 1)
	m.duration.Record(ctx, elapsed.Seconds())
}

// LetterFailed records a failed account, labelled with the failure kind.
func (m *Metrics) LetterFailed(ctx context.Context, reason string) {
	m.failed.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

// Gatherer exposes the collected metrics.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteTextfile writes the current metrics in Prometheus text format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}

func (m *Metrics) shutdown(ctx context.Context) error {
	return m.provider.Shutdown(ctx)
}

type nopRecorder struct{}

func (nopRecorder) LetterGenerated(context.Context, time.Duration) {}
func (nopRecorder) LetterFailed(context.Context, string)           {}
