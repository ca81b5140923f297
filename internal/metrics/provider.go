// Package metrics wires OpenTelemetry instruments to a Prometheus registry. Use case
// outcomes and HTTP requests share one meter provider, and the registry also carries
// the Go runtime and process collectors.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

// Provider owns the meter provider and the registry its exporter writes into.
type Provider struct {
	meterProvider *metric.MeterProvider
	registry      *prometheus.Registry
}

// NewProvider builds a Provider on a fresh registry. namespace becomes the
// service.name resource attribute (exported as target_info) and prefixes the
// process collector.
func NewProvider(namespace string) (*Provider, error) {
	registry := prometheus.NewRegistry()
	if err := registry.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("failed to register go collector: %w", err)
	}
	processOpts := collectors.ProcessCollectorOpts{Namespace: namespace}
	if err := registry.Register(collectors.NewProcessCollector(processOpts)); err != nil {
		return nil, fmt.Errorf("failed to register process collector: %w", err)
	}

	exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	opts := []metric.Option{metric.WithReader(exporter)}
	if namespace != "" {
		opts = append(opts, metric.WithResource(
			resource.NewSchemaless(attribute.String("service.name", namespace)),
		))
	}

	return &Provider{
		meterProvider: metric.NewMeterProvider(opts...),
		registry:      registry,
	}, nil
}

// Handler serves the registry, negotiating OpenMetrics when the scraper asks for it.
func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

func (p *Provider) MeterProvider() *metric.MeterProvider {
	return p.meterProvider
}

// Shutdown flushes the meter provider. Calling it twice is not an error.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil || p.meterProvider == nil {
		return nil
	}
	err := p.meterProvider.Shutdown(ctx)
	if errors.Is(err, metric.ErrReaderShutdown) {
		return nil
	}
	return err
}
