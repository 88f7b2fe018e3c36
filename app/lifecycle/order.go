// Copyright © 2022-2025 Obol Labs Inc. Licensed under the terms of a Business Source License 1.1

package lifecycle

import "strconv"

// OrderStart defines the order hooks are started.
type OrderStart int

// OrderStop defines the order hooks are stopped.
type OrderStop int

// Global ordering of start hooks.
const (
	StartPrivkeyLock OrderStart = iota
	StartMonitoringAPI
	StartDutyLoop
)

// Global ordering of stop hooks; follows dependency tree from root to leaves.
const (
	StopDutyLoop OrderStop = iota // High level components...
	StopPrivkeyLock
	StopTracing // Low level services...
	StopMonitoringAPI
)

var (
	startLabels = map[OrderStart]string{
		StartPrivkeyLock:   "PrivkeyLock",
		StartMonitoringAPI: "MonitoringAPI",
		StartDutyLoop:      "DutyLoop",
	}
	stopLabels = map[OrderStop]string{
		StopDutyLoop:      "DutyLoop",
		StopPrivkeyLock:   "PrivkeyLock",
		StopTracing:       "Tracing",
		StopMonitoringAPI: "MonitoringAPI",
	}
)

func (o OrderStart) String() string {
	if l, ok := startLabels[o]; ok {
		return l
	}

	return "OrderStart(" + strconv.Itoa(int(o)) + ")"
}

func (o OrderStop) String() string {
	if l, ok := stopLabels[o]; ok {
		return l
	}

	return "OrderStop(" + strconv.Itoa(int(o)) + ")"
}
