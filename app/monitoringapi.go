// Copyright © 2022-2025 Obol Labs Inc. Licensed under the terms of a Business Source License 1.1

package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/obolnetwork/attester/app/errors"
	"github.com/obolnetwork/attester/app/lifecycle"
	"github.com/obolnetwork/attester/app/log"
	"github.com/obolnetwork/attester/app/z"
)

// errNotReady is returned by the readiness check before the first slot completed.
var errNotReady = errors.NewSentinel("duty loop not ready")

// wireMonitoringAPI constructs the monitoring API and registers it with the life cycle manager.
// It serves prometheus metrics, a liveness and a readiness endpoint.
func wireMonitoringAPI(ctx context.Context, life *lifecycle.Manager, addr string,
	registry *prometheus.Registry, readyFunc func() error,
) {
	if addr == "" {
		log.Debug(ctx, "Monitoring API disabled")
		return
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           newMonitoringRouter(registry, readyFunc),
		ReadHeaderTimeout: time.Second,
	}

	log.Info(ctx, "Monitoring API enabled", z.Str("address", addr))

	life.RegisterStart(lifecycle.AsyncBackground, lifecycle.StartMonitoringAPI, httpServeHook(server.ListenAndServe))
	life.RegisterStop(lifecycle.StopMonitoringAPI, lifecycle.HookFunc(server.Shutdown))
}

// newMonitoringRouter returns the monitoring API router.
func newMonitoringRouter(registry *prometheus.Registry, readyFunc func() error) *mux.Router {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.InstrumentMetricHandler(
		registry, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	)).Methods(http.MethodGet)

	r.HandleFunc("/livez", func(w http.ResponseWriter, _ *http.Request) {
		writeResponse(w, http.StatusOK, "ok")
	}).Methods(http.MethodGet)

	r.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		if err := readyFunc(); err != nil {
			writeResponse(w, http.StatusInternalServerError, err.Error())
			return
		}

		writeResponse(w, http.StatusOK, "ok")
	}).Methods(http.MethodGet)

	return r
}

func writeResponse(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}
