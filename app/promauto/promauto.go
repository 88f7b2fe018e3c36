// Copyright © 2022-2025 Obol Labs Inc. Licensed under the terms of a Business Source License 1.1

// Package promauto is a drop-in replacement of github.com/prometheus/client_golang/prometheus/promauto
// and adds support for wrapping all metrics with runtime labels.
package promauto

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/obolnetwork/attester/app/errors"
)

// Using globals since promauto is designed for use at package initialisation time.
var (
	mu      sync.Mutex
	metrics []prometheus.Collector
)

// NewRegistry returns a new registry containing all promauto created metrics and
// built-in Go process metrics wrapping all the metrics with the provided labels.
func NewRegistry(labels prometheus.Labels) (*prometheus.Registry, error) {
	registry := prometheus.NewRegistry()

	registerer := prometheus.WrapRegistererWith(labels, registry)

	mu.Lock()
	defer mu.Unlock()

	collectorsToRegister := append([]prometheus.Collector{
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	}, metrics...)

	for _, c := range collectorsToRegister {
		if err := registerer.Register(c); err != nil {
			return nil, errors.Wrap(err, "register metric")
		}
	}

	return registry, nil
}

// cache adds the metric to the local global cache and returns it.
func cache[T prometheus.Collector](metric T) T {
	mu.Lock()
	defer mu.Unlock()

	metrics = append(metrics, metric)

	return metric
}

func NewGaugeVec(opts prometheus.GaugeOpts, labelNames []string) *prometheus.GaugeVec {
	return cache(promauto.NewGaugeVec(opts, labelNames))
}

func NewGauge(opts prometheus.GaugeOpts) prometheus.Gauge {
	return cache(promauto.NewGauge(opts))
}

func NewHistogramVec(opts prometheus.HistogramOpts, labelNames []string) *prometheus.HistogramVec {
	return cache(promauto.NewHistogramVec(opts, labelNames))
}

func NewHistogram(opts prometheus.HistogramOpts) prometheus.Histogram {
	return cache(promauto.NewHistogram(opts))
}

func NewCounterVec(opts prometheus.CounterOpts, labelNames []string) *prometheus.CounterVec {
	return cache(promauto.NewCounterVec(opts, labelNames))
}

func NewCounter(opts prometheus.CounterOpts) prometheus.Counter {
	return cache(promauto.NewCounter(opts))
}
