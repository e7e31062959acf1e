// Copyright 2026 The Warden Invite Authors
// SPDX-License-Identifier: Apache-2.0

// Package telemetry configures OpenTelemetry tracing for a run.
//
// Tracing is opt-in. With OTEL_EXPORTER_OTLP_ENDPOINT unset, or
// OTEL_SDK_DISABLED=true, [Setup] registers nothing and the global
// tracer stays a no-op, so spans created by package triage cost
// nothing. When an endpoint is set, spans are exported over OTLP/HTTP
// and flushed by the returned shutdown function.
package telemetry

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Environment variables consulted by Setup.
const (
	EndpointEnv = "OTEL_EXPORTER_OTLP_ENDPOINT"
	DisabledEnv = "OTEL_SDK_DISABLED"
)

// Shutdown flushes pending spans and releases the exporter.
type Shutdown func(context.Context) error

// Setup installs a global tracer provider for serviceName when an OTLP
// endpoint is configured. getenv is usually os.Getenv. The returned
// Shutdown is never nil and should be deferred by the caller.
func Setup(ctx context.Context, serviceName, serviceVersion string, getenv func(string) string) (Shutdown, error) {
	noop := func(context.Context) error { return nil }

	if strings.EqualFold(getenv(DisabledEnv), "true") {
		return noop, nil
	}
	endpoint := getenv(EndpointEnv)
	if endpoint == "" {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
	if err != nil {
		return noop, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return noop, fmt.Errorf("building telemetry resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return provider.Shutdown, nil
}
