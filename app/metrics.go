// Copyright © 2022-2025 Obol Labs Inc. Licensed under the terms of a Business Source License 1.1

package app

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/obolnetwork/attester/app/promauto"
	"github.com/obolnetwork/attester/app/version"
)

var (
	versionGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "app",
		Name:      "version",
		Help:      "Constant gauge with label set to current app version",
	}, []string{"version"})

	slotCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "app",
		Subsystem: "simnet",
		Name:      "slots_total",
		Help:      "Total count of simnet slots by result",
	}, []string{"result"})
)

func initStartupMetrics() {
	versionGauge.WithLabelValues(version.Version).Set(1)
}
