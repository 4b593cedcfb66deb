// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

// Package telemetry wires an OTLP/HTTP trace exporter for xlinker.
// Spans are opened by internal/cmd around each staticlink/depthsort/
// indexer call; the core packages themselves stay I/O-free and never
// import this package.
package telemetry

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

// Config controls whether tracing is enabled and where spans are sent.
type Config struct {
	Enabled     bool
	ExporterURL string
	ServiceName string
}

var tracer trace.Tracer = otel.Tracer("xlinker")

// Init configures the global tracer provider when cfg.Enabled is true.
// It returns a shutdown function that flushes and stops the exporter;
// callers must invoke it before the process exits. When tracing is
// disabled, Init is a no-op whose shutdown function does nothing.
func Init(ctx context.Context, cfg Config) (func(), error) {
	if !cfg.Enabled {
		return func() {}, nil
	}

	endpoint, insecure, err := splitEndpoint(cfg.ExporterURL)
	if err != nil {
		return nil, fmt.Errorf("telemetry: invalid exporter url: %w", err)
	}

	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(endpoint)}
	if insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("telemetry: failed to create exporter: %w", err)
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "xlinker"
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(semconv.SchemaURL, semconv.ServiceName(serviceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: failed to build resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)
	tracer = provider.Tracer("xlinker")

	return func() {
		_ = provider.Shutdown(context.Background())
	}, nil
}

// GetTracer returns the package-wide tracer, valid whether or not Init
// has been called (a no-op tracer is used until then).
func GetTracer() trace.Tracer {
	return tracer
}

// splitEndpoint pulls the host[:port] out of a URL and reports whether
// the scheme calls for a plaintext (non-TLS) connection.
func splitEndpoint(raw string) (string, bool, error) {
	if raw == "" {
		return "", false, fmt.Errorf("empty endpoint")
	}
	if !strings.Contains(raw, "://") {
		return raw, false, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", false, err
	}
	return u.Host, u.Scheme == "http", nil
}
