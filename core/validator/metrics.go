// Copyright © 2022-2025 Obol Labs Inc. Licensed under the terms of a Business Source License 1.1

package validator

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/obolnetwork/attester/app/promauto"
)

var (
	attestCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "core",
		Subsystem: "validator",
		Name:      "attest_total",
		Help:      "Total count of proposals evaluated for attestation by result",
	}, []string{"result"})

	proposalCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "core",
		Subsystem: "validator",
		Name:      "proposals_total",
		Help:      "Total count of block proposals created by this validator",
	})

	dutyDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "core",
		Subsystem: "validator",
		Name:      "duty_duration_seconds",
		Help:      "Duration of validator duties in seconds by duty type",
		Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"duty"})
)
