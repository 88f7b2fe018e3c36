// Copyright © 2022-2025 Obol Labs Inc. Licensed under the terms of a Business Source License 1.1

package quorum

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/obolnetwork/attester/app/promauto"
)

var (
	collectedGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "core",
		Subsystem: "quorum",
		Name:      "attestations_collected",
		Help:      "Number of distinct signer attestations collected for the latest proposal",
	})

	timeoutCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "core",
		Subsystem: "quorum",
		Name:      "timeout_total",
		Help:      "Total count of attestation collections that timed out before reaching quorum",
	})

	pollCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "core",
		Subsystem: "quorum",
		Name:      "poll_total",
		Help:      "Total count of attestation polls by result",
	}, []string{"result"})

	pollDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "core",
		Subsystem: "quorum",
		Name:      "poll_duration_seconds",
		Help:      "Duration of a single attestation poll in seconds",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	})
)
