// Copyright © 2022-2025 Obol Labs Inc. Licensed under the terms of a Business Source License 1.1

// Package version provides the release version and build information of the binary.
package version

import (
	"context"
	"runtime/debug"

	"github.com/obolnetwork/attester/app/log"
	"github.com/obolnetwork/attester/app/z"
)

// Version is the release version of the codebase.
// Usually overridden by tag names when building binaries.
var Version = "v0.1-dev"

// GitCommit returns the git commit hash and timestamp from build info.
func GitCommit() (hash string, timestamp string) {
	hash, timestamp = "unknown", "unknown"

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return hash, timestamp
	}

	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			hash = s.Value
			if len(hash) > 7 {
				hash = hash[:7]
			}
		case "vcs.time":
			timestamp = s.Value
		}
	}

	return hash, timestamp
}

// Dependencies returns the module path and version of all build dependencies.
func Dependencies() []string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return nil
	}

	var resp []string
	for _, dep := range info.Deps {
		resp = append(resp, dep.Path+" "+dep.Version)
	}

	return resp
}

// LogInfo logs version information along-with the provided message.
func LogInfo(ctx context.Context, msg string) {
	gitHash, gitTimestamp := GitCommit()
	log.Info(ctx, msg,
		z.Str("version", Version),
		z.Str("git_commit_hash", gitHash),
		z.Str("git_commit_time", gitTimestamp),
	)
}
