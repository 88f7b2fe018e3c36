// Copyright © 2022-2025 Obol Labs Inc. Licensed under the terms of a Business Source License 1.1

package lifecycle

import (
	"bytes"
	"context"
	"runtime/pprof"
	"sync"
	"time"

	"github.com/obolnetwork/attester/app/errors"
	"github.com/obolnetwork/attester/app/log"
	"github.com/obolnetwork/attester/app/z"
)

// IHookFunc is implemented by all hook function adapters.
type IHookFunc interface {
	Call(context.Context) error
}

// HookFunc adapts a func(ctx) error.
type HookFunc func(ctx context.Context) error

func (fn HookFunc) Call(ctx context.Context) error {
	return fn(ctx)
}

// HookFuncErr adapts a func() error.
type HookFuncErr func() error

func (fn HookFuncErr) Call(context.Context) error {
	return fn()
}

// HookFuncMin adapts a func().
type HookFuncMin func()

func (fn HookFuncMin) Call(context.Context) error {
	fn()
	return nil
}

// HookFuncCtx adapts a func(ctx).
type HookFuncCtx func(ctx context.Context)

func (fn HookFuncCtx) Call(ctx context.Context) error {
	fn(ctx)
	return nil
}

// HookStartType selects the goroutine and context a start hook runs with.
type HookStartType int

const (
	// AsyncAppCtx hooks run in their own goroutine with the app context.
	AsyncAppCtx HookStartType = iota + 1

	// SyncBackground hooks run inline with a background context and must be stopped by a stop hook.
	SyncBackground

	// AsyncBackground hooks run in their own goroutine with a background context and must be stopped by a stop hook.
	AsyncBackground
)

const stopTimeout = 10 * time.Second

type hook struct {
	Order     int
	Label     string
	StartType HookStartType
	Func      IHookFunc
}

// runState holds the first hook error and cancels the app on start failures.
type runState struct {
	mu          sync.Mutex
	firstErr    error
	cancelStart context.CancelFunc
}

func (s *runState) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.firstErr == nil {
		s.firstErr = err
	}
}

func (s *runState) err() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.firstErr
}

// runHooks runs start hooks until appCtx is done or a start hook fails, then runs stop hooks.
func runHooks(appCtx context.Context, startHooks []hook, stopHooks []hook) error {
	startCtx, cancel := context.WithCancel(appCtx)
	defer cancel()

	state := &runState{cancelStart: cancel}
	bgCtx := log.WithTopic(context.Background(), "app-start")

	if err := state.startAll(startCtx, bgCtx, startHooks); err != nil {
		return err
	}

	<-startCtx.Done()

	if appCtx.Err() != nil {
		log.Info(appCtx, "Shutdown signal detected")
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), stopTimeout)
	defer stopCancel()

	stopCtx = log.WithTopic(stopCtx, "app-stop")
	log.Info(stopCtx, "Shutting down gracefully")

	state.stopAll(stopCtx, stopCancel, stopHooks)

	return state.err()
}

func (s *runState) startAll(startCtx, bgCtx context.Context, hooks []hook) error {
	for _, h := range hooks {
		if startCtx.Err() != nil {
			return nil //nolint:nilerr // A failed hook already cancelled the app.
		}

		switch h.StartType {
		case AsyncAppCtx:
			go s.start(startCtx, h)
		case SyncBackground:
			s.start(bgCtx, h)
		case AsyncBackground:
			go s.start(bgCtx, h)
		default:
			return errors.New("unexpected hook type", z.Any("type", h.StartType))
		}
	}

	return nil
}

// start blocks until the hook returns, cancelling the app if it fails.
func (s *runState) start(ctx context.Context, h hook) {
	err := h.Func.Call(ctx)
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}

	s.fail(errors.Wrap(err, "start hook", z.Str("hook", h.Label)))
	s.cancelStart()
}

// stopAll runs the stop hooks in order, aborting on the first failure or timeout.
func (s *runState) stopAll(stopCtx context.Context, cancel context.CancelFunc, hooks []hook) {
	for _, h := range hooks {
		if stopCtx.Err() != nil {
			return
		}

		err := h.Func.Call(stopCtx)
		if errors.Is(stopCtx.Err(), context.DeadlineExceeded) {
			s.fail(errors.New("shutdown timeout", z.Str("hook", h.Label), z.Str("stack_dump", stackDump())))
		} else if err != nil && !errors.Is(err, context.Canceled) {
			s.fail(errors.Wrap(err, "stop hook", z.Str("hook", h.Label)))
			cancel()
		}
	}
}

func stackDump() string {
	var buf bytes.Buffer
	_ = pprof.Lookup("goroutine").WriteTo(&buf, 2)

	return buf.String()
}
