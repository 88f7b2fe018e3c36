// Copyright © 2022-2025 Obol Labs Inc. Licensed under the terms of a Business Source License 1.1

package txavail

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/obolnetwork/attester/app/promauto"
)

var (
	missingCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "core",
		Subsystem: "txavail",
		Name:      "missing_total",
		Help:      "Total count of transactions unresolved after fetching from peers",
	})

	fetchedCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "core",
		Subsystem: "txavail",
		Name:      "fetched_total",
		Help:      "Total count of transactions absent from the local pool and fetched from peers",
	})
)
