// Copyright © 2022-2025 Obol Labs Inc. Licensed under the terms of a Business Source License 1.1

// Package app provides the top app-level abstraction and entrypoint for an attester validator client.
// The sub-packages also provide app-level functionality.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/obolnetwork/attester/app/errors"
	"github.com/obolnetwork/attester/app/k1util"
	"github.com/obolnetwork/attester/app/lifecycle"
	"github.com/obolnetwork/attester/app/log"
	"github.com/obolnetwork/attester/app/privkeylock"
	"github.com/obolnetwork/attester/app/promauto"
	"github.com/obolnetwork/attester/app/tracer"
	"github.com/obolnetwork/attester/app/version"
	"github.com/obolnetwork/attester/app/z"
	"github.com/obolnetwork/attester/core/validator"
)

// Config defines the attester run configuration.
type Config struct {
	Log                 log.Config
	Validator           validator.Config
	PrivKeyFile         string
	MonitoringAddr      string
	OTLPAddress         string
	OTLPServiceName     string
	SimnetSlotDuration  time.Duration
	SimnetCommitteeSize int

	TestConfig TestConfig
}

// TestConfig defines additional test-only config.
type TestConfig struct {
	// Clock drives the duty loop and attestation polling, defaults to the real clock.
	Clock clockwork.Clock
	// SlotCallback is called with the outcome of every simnet slot.
	SlotCallback func(context.Context, SlotResult)
	// SkipLogInit skips initialising the global logger.
	SkipLogInit bool
}

// Run is the entrypoint for running an attester instance.
// All processes and their dependencies are wired and added
// to the life cycle manager which handles starting and graceful shutdown.
func Run(ctx context.Context, conf Config) (err error) {
	ctx = log.WithTopic(ctx, "app-start")
	defer func() {
		if err != nil {
			log.Error(ctx, "Fatal run error", err)
		}
	}()

	if !conf.TestConfig.SkipLogInit {
		if err := log.InitLogger(conf.Log); err != nil {
			return err
		}
	}

	version.LogInfo(ctx, "Attester starting")
	initStartupMetrics()

	if err := loadPrivKey(&conf); err != nil {
		return err
	}

	clock := conf.TestConfig.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	// Wire processes and their dependencies
	life := new(lifecycle.Manager)

	if err := wireTracing(ctx, life, conf); err != nil {
		return err
	}

	loop, err := newDutyLoop(conf, clock)
	if err != nil {
		return err
	}

	address := loop.local.Address()
	log.Info(ctx, "Validator client created",
		z.Str("address", address.Hex()),
		z.Bool("disabled", conf.Validator.Disabled),
		z.Bool("reexecute", conf.Validator.Reexecute),
		z.Int("committee_size", loop.committee.Size()),
	)

	if err := wirePrivKeyLock(life, conf, address.Hex()); err != nil {
		return err
	}

	promRegistry, err := promauto.NewRegistry(prometheus.Labels{
		"validator_address": address.Hex(),
	})
	if err != nil {
		return err
	}

	wireMonitoringAPI(ctx, life, conf.MonitoringAddr, promRegistry, loop.Ready)

	life.RegisterStart(lifecycle.AsyncAppCtx, lifecycle.StartDutyLoop, lifecycle.HookFunc(loop.Run))
	life.RegisterStop(lifecycle.StopDutyLoop, lifecycle.HookFuncCtx(loop.Stop))

	return life.Run(ctx)
}

// loadPrivKey loads the private key from the key file if configured and not provided explicitly.
// An explicit key takes precedence and clears the key file so it is not locked.
func loadPrivKey(conf *Config) error {
	if conf.Validator.PrivateKey != "" {
		conf.PrivKeyFile = ""
		return nil
	} else if conf.PrivKeyFile == "" || conf.Validator.Disabled {
		return nil
	}

	key, err := k1util.Load(conf.PrivKeyFile)
	if err != nil {
		return err
	}

	conf.Validator.PrivateKey = fmt.Sprintf("%x", key.Serialize())

	return nil
}

// wirePrivKeyLock locks the private key file for the lifetime of the app.
func wirePrivKeyLock(life *lifecycle.Manager, conf Config, address string) error {
	if conf.PrivKeyFile == "" || conf.Validator.Disabled {
		return nil
	}

	svc, err := privkeylock.New(conf.PrivKeyFile, address, "run")
	if err != nil {
		return err
	}

	life.RegisterStart(lifecycle.AsyncAppCtx, lifecycle.StartPrivkeyLock, lifecycle.HookFuncErr(svc.Run))
	life.RegisterStop(lifecycle.StopPrivkeyLock, lifecycle.HookFuncMin(svc.Close))

	return nil
}

// wireTracing constructs the global tracer and registers it with the life cycle manager.
func wireTracing(ctx context.Context, life *lifecycle.Manager, conf Config) error {
	stopTracer, err := tracer.Init(ctx,
		tracer.WithOTLPOrNoop(conf.OTLPAddress),
		tracer.WithServiceName(conf.OTLPServiceName),
	)
	if err != nil {
		return errors.Wrap(err, "init tracing")
	}

	life.RegisterStop(lifecycle.StopTracing, lifecycle.HookFunc(stopTracer))

	return nil
}

// httpServeHook wraps a http.Server.ListenAndServe function, swallowing http.ErrServerClosed.
type httpServeHook func() error

func (h httpServeHook) Call(context.Context) error {
	err := h()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	} else if err != nil {
		return errors.Wrap(err, "serve")
	}

	return nil
}
