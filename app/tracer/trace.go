// Copyright © 2022-2025 Obol Labs Inc. Licensed under the terms of a Business Source License 1.1

// Package tracer provides a global OpenTelemetry tracer.
package tracer

import (
	"context"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/obolnetwork/attester/app/errors"
)

const defaultServiceName = "attester"

// tracer is the global app level tracer, it defaults to a noop tracer.
var tracer trace.Tracer = noop.NewTracerProvider().Tracer("")

// Start creates a span and a context.Context containing the newly-created span from the global tracer.
// See go.opentelemetry.io/otel/trace#Start for more details.
func Start(ctx context.Context, spanName string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return tracer.Start(ctx, spanName, opts...)
}

// Init initialises the global tracer via the option(s) defaulting to a noop tracer.
// It returns the shutdown function that flushes pending spans.
func Init(ctx context.Context, opts ...func(*options)) (func(context.Context) error, error) {
	o := options{serviceName: defaultServiceName}
	for _, opt := range opts {
		opt(&o)
	}

	if o.expFunc == nil {
		return func(context.Context) error {
			return nil
		}, nil
	}

	exp, err := o.expFunc(ctx)
	if err != nil {
		return nil, err
	}

	tp := newTraceProvider(exp, o.serviceName)

	// Set globals
	otel.SetTracerProvider(tp)
	tracer = tp.Tracer("")

	return tp.Shutdown, nil
}

type options struct {
	serviceName string
	expFunc     func(context.Context) (sdktrace.SpanExporter, error)
}

// WithServiceName returns an option overriding the default "attester" service name resource.
func WithServiceName(name string) func(*options) {
	return func(o *options) {
		if name != "" {
			o.serviceName = name
		}
	}
}

// WithStdOut returns an option to configure an OpenTelemetry exporter for tracing
// telemetry to be written to an output destination as JSON.
func WithStdOut(w io.Writer) func(*options) {
	return func(o *options) {
		o.expFunc = func(context.Context) (sdktrace.SpanExporter, error) {
			ex, err := stdouttrace.New(stdouttrace.WithWriter(w))
			if err != nil {
				return nil, errors.Wrap(err, "stdout exporter")
			}

			return ex, nil
		}
	}
}

// WithOTLPOrNoop returns an option to configure an OTLP gRPC tracing exporter
// if the address is not empty, else the default noop tracer is retained.
func WithOTLPOrNoop(addr string) func(*options) {
	if addr == "" {
		return func(*options) {}
	}

	return WithOTLP(addr)
}

// WithOTLP returns an option to configure an insecure OTLP gRPC tracing exporter.
func WithOTLP(addr string) func(*options) {
	return func(o *options) {
		o.expFunc = func(ctx context.Context) (sdktrace.SpanExporter, error) {
			ex, err := otlptracegrpc.New(ctx,
				otlptracegrpc.WithEndpoint(addr),
				otlptracegrpc.WithInsecure(),
			)
			if err != nil {
				return nil, errors.Wrap(err, "otlp exporter")
			}

			return ex, nil
		}
	}
}

func newTraceProvider(exp sdktrace.SpanExporter, serviceName string) *sdktrace.TracerProvider {
	r := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
	)

	return sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(r),
	)
}
