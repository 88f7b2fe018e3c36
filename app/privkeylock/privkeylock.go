// Copyright © 2022-2025 Obol Labs Inc. Licensed under the terms of a Business Source License 1.1

// Package privkeylock prevents two validator clients from signing with the same private key file.
package privkeylock

import (
	"encoding/json"
	"os"
	"time"

	"github.com/obolnetwork/attester/app/errors"
	"github.com/obolnetwork/attester/app/z"
)

var (
	// staleDuration is the duration after which a private key lock file is considered stale.
	staleDuration = 5 * time.Second

	// updatePeriod is the duration after which the private key lock file is updated.
	updatePeriod = 1 * time.Second
)

// LockPath returns the lock file path of the private key file.
func LockPath(privKeyPath string) string {
	return privKeyPath + ".lock"
}

// New returns a new private key locking service for the key file used by the validator address.
// It errors if a recently updated lock file exists.
func New(privKeyPath, address, command string) (Service, error) {
	path := LockPath(privKeyPath)

	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) { //nolint:revive // Empty block is fine.
		// No file, it is created below.
	} else if err != nil {
		return Service{}, errors.Wrap(err, "read private key lock file", z.Str("path", path))
	} else {
		var meta metadata
		if err := json.Unmarshal(content, &meta); err != nil {
			return Service{}, errors.Wrap(err, "decode private key lock file", z.Str("path", path))
		}

		if time.Since(meta.Timestamp) <= staleDuration {
			return Service{}, errors.New(
				"existing private key lock file found, another attester instance may be running on your machine",
				z.Str("path", path),
				z.Str("command", meta.Command),
				z.Str("address", meta.Address),
			)
		}
	}

	if err := writeFile(path, address, command, time.Now()); err != nil {
		return Service{}, err
	}

	return Service{
		address:      address,
		command:      command,
		path:         path,
		updatePeriod: updatePeriod,
		quit:         make(chan struct{}),
		done:         make(chan struct{}),
	}, nil
}

// Service is a private key locking service.
type Service struct {
	address      string
	command      string
	path         string
	updatePeriod time.Duration
	quit         chan struct{} // Quit exits the Run goroutine if closed.
	done         chan struct{} // Done is closed when Run exits, which exits the Close goroutine.
}

// Run runs the service, updating the lock file periodically and deleting it when closed.
func (s Service) Run() error {
	defer close(s.done)

	tick := time.NewTicker(s.updatePeriod)
	defer tick.Stop()

	for {
		select {
		case <-s.quit:
			if err := os.Remove(s.path); err != nil {
				return errors.Wrap(err, "delete private key lock file")
			}

			return nil
		case <-tick.C:
			if err := writeFile(s.path, s.address, s.command, time.Now()); err != nil {
				return err
			}
		}
	}
}

// Close closes the service, waiting for the Run goroutine to exit.
// Note this will block forever if Run is not called.
func (s Service) Close() {
	close(s.quit)
	<-s.done
}

// metadata is the metadata stored in the lock file.
type metadata struct {
	Command   string    `json:"command"`
	Address   string    `json:"address"`
	Timestamp time.Time `json:"timestamp"`
}

// writeFile creates or updates the file with the latest metadata.
func writeFile(path, address, command string, now time.Time) error {
	b, err := json.Marshal(metadata{Command: command, Address: address, Timestamp: now})
	if err != nil {
		return errors.Wrap(err, "marshal private key lock file")
	}

	if err := os.WriteFile(path, b, 0o600); err != nil {
		return errors.Wrap(err, "write private key lock file", z.Str("path", path))
	}

	return nil
}
