// Copyright © 2022-2025 Obol Labs Inc. Licensed under the terms of a Business Source License 1.1

// Package lifecycle provides a life cycle manager abstracting the starting and stopping
// of processes by registered start or stop hooks.
//
// The following features as supported:
//   - Start hooks are called synchronously or asynchronously, with either the application
//     context (hard shutdown) or a background context (graceful shutdown).
//   - Stop hooks are synchronous and share a shutdown context with a 10s timeout.
//   - Hooks are ordered by OrderStart and OrderStop.
//   - A start hook error or closing the application context triggers graceful shutdown.
//   - A stop hook error triggers hard shutdown.
package lifecycle

import (
	"cmp"
	"context"
	"slices"
	"sync"
)

// Manager manages process life cycle by registered start and stop hooks.
type Manager struct {
	mu         sync.Mutex
	started    bool
	startHooks []hook
	stopHooks  []hook
}

// RegisterStart registers a start hook. The type defines whether it is sync or async and which context is used.
// The order defines the order in which hooks are called.
func (m *Manager) RegisterStart(typ HookStartType, order OrderStart, fn IHookFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		panic(any("cycle already started"))
	}

	m.startHooks = append(m.startHooks, hook{
		Label:     order.String(),
		Order:     int(order),
		StartType: typ,
		Func:      fn,
	})
}

// RegisterStop registers a synchronous stop hook that will be called with the shutdown context that may timeout.
func (m *Manager) RegisterStop(order OrderStop, fn IHookFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		panic(any("cycle already started"))
	}

	m.stopHooks = append(m.stopHooks, hook{
		Label: order.String(),
		Order: int(order),
		Func:  fn,
	})
}

// Run the lifecycle; start all hooks, waiting for shutdown, stop all hooks.
func (m *Manager) Run(appCtx context.Context) error {
	startHooks := make([]hook, len(m.startHooks))
	stopHooks := make([]hook, len(m.stopHooks))

	m.mu.Lock()

	m.started = true
	copy(startHooks, m.startHooks)
	copy(stopHooks, m.stopHooks)

	m.mu.Unlock()

	byOrder := func(a, b hook) int { return cmp.Compare(a.Order, b.Order) }
	slices.SortStableFunc(startHooks, byOrder)
	slices.SortStableFunc(stopHooks, byOrder)

	return runHooks(appCtx, startHooks, stopHooks)
}
