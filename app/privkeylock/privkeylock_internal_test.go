// Copyright © 2022-2025 Obol Labs Inc. Licensed under the terms of a Business Source License 1.1

package privkeylock

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestService(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), "validator-key")
	lockPath := LockPath(keyPath)

	// A stale file is ignored.
	require.NoError(t, writeFile(lockPath, "0xabc", "test", time.Now().Add(-staleDuration)))

	svc, err := New(keyPath, "0xabc", "run")
	require.NoError(t, err)
	svc.updatePeriod = time.Millisecond

	meta := readMetadata(t, lockPath)
	require.Equal(t, "run", meta.Command)
	require.Equal(t, "0xabc", meta.Address)

	_, err = New(keyPath, "0xabc", "run")
	require.ErrorContains(t, err, "another attester instance may be running")

	// Delete the file so Run creates it again.
	require.NoError(t, os.Remove(lockPath))

	var eg errgroup.Group
	eg.Go(svc.Run)
	eg.Go(func() error {
		assert.Eventually(t, func() bool {
			_, err := os.Stat(lockPath)
			return err == nil
		}, time.Second, time.Millisecond)
		svc.Close()

		return nil
	})

	require.NoError(t, eg.Wait())

	_, err = os.Stat(lockPath)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestInvalidLockFile(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), "validator-key")
	require.NoError(t, os.WriteFile(LockPath(keyPath), []byte("not json"), 0o600))

	_, err := New(keyPath, "0xabc", "run")
	require.ErrorContains(t, err, "decode private key lock file")
}

func readMetadata(t *testing.T, path string) metadata {
	t.Helper()

	b, err := os.ReadFile(path)
	require.NoError(t, err)

	var meta metadata
	require.NoError(t, json.Unmarshal(b, &meta))

	return meta
}
