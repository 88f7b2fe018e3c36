// Copyright © 2022-2025 Obol Labs Inc. Licensed under the terms of a Business Source License 1.1

package app

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/obolnetwork/attester/app/k1util"
	"github.com/obolnetwork/attester/app/promauto"
	"github.com/obolnetwork/attester/app/version"
	"github.com/obolnetwork/attester/core/signer"
)

func TestMonitoringRouter(t *testing.T) {
	initStartupMetrics()

	registry, err := promauto.NewRegistry(prometheus.Labels{"validator_address": "0x01"})
	require.NoError(t, err)

	var ready error = errNotReady
	srv := httptest.NewServer(newMonitoringRouter(registry, func() error { return ready }))
	defer srv.Close()

	get := func(path string) (int, string) {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()

		b, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		return resp.StatusCode, string(b)
	}

	status, body := get("/livez")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "ok", body)

	status, body = get("/readyz")
	require.Equal(t, http.StatusInternalServerError, status)
	require.Equal(t, "duty loop not ready", body)

	ready = nil
	status, _ = get("/readyz")
	require.Equal(t, http.StatusOK, status)

	status, body = get("/metrics")
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, body, `go_goroutines{validator_address="0x01"}`)
	require.Contains(t, body, `app_version{validator_address="0x01",version="`+version.Version+`"} 1`)

	resp, err := http.Post(srv.URL+"/livez", "text/plain", nil)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	status, _ = get("/unknown")
	require.Equal(t, http.StatusNotFound, status)
}

func TestLoadPrivKey(t *testing.T) {
	s, err := signer.Random()
	require.NoError(t, err)

	file := filepath.Join(t.TempDir(), "validator-key")
	require.NoError(t, k1util.Save(s.PrivateKey(), file))

	conf := Config{PrivKeyFile: file}
	require.NoError(t, loadPrivKey(&conf))
	require.Equal(t, fmt.Sprintf("%x", s.PrivateKey().Serialize()), conf.Validator.PrivateKey)

	// Explicit keys take precedence.
	conf = Config{PrivKeyFile: filepath.Join(t.TempDir(), "missing")}
	conf.Validator.PrivateKey = "0x01"
	require.NoError(t, loadPrivKey(&conf))
	require.Equal(t, "0x01", conf.Validator.PrivateKey)
	require.Empty(t, conf.PrivKeyFile)

	conf = Config{PrivKeyFile: filepath.Join(t.TempDir(), "missing")}
	require.ErrorContains(t, loadPrivKey(&conf), "read private key from disk")
}

func TestNewDutyLoopErrors(t *testing.T) {
	tests := []struct {
		name   string
		conf   Config
		errMsg string
	}{
		{
			name:   "slot duration",
			conf:   Config{SimnetCommitteeSize: 4},
			errMsg: "invalid simnet slot duration",
		},
		{
			name:   "committee size",
			conf:   Config{SimnetSlotDuration: 1},
			errMsg: "invalid simnet committee size",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := newDutyLoop(test.conf, nil)
			require.ErrorContains(t, err, test.errMsg)
		})
	}
}
