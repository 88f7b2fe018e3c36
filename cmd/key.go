// Copyright © 2022-2025 Obol Labs Inc. Licensed under the terms of a Business Source License 1.1

package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/obolnetwork/attester/app/errors"
	"github.com/obolnetwork/attester/app/k1util"
	"github.com/obolnetwork/attester/app/z"
	"github.com/obolnetwork/attester/core/signer"
)

type keyConfig struct {
	PrivKeyFile string
}

func bindKeyFileFlag(flags *pflag.FlagSet, config *keyConfig) {
	flags.StringVar(&config.PrivKeyFile, "validator-private-key-file", ".attester/validator-private-key", "The path to the validator private key file.")
}

// newCreateKeyCmd returns the create key command.
func newCreateKeyCmd(runFunc func(io.Writer, keyConfig) error) *cobra.Command {
	var conf keyConfig

	cmd := &cobra.Command{
		Use:   "key",
		Short: "Create a validator private key",
		Long:  "Creates a new secp256k1 validator private key file and prints the validator address.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFunc(cmd.OutOrStdout(), conf)
		},
	}

	bindKeyFileFlag(cmd.Flags(), &conf)

	return cmd
}

func runCreateKey(w io.Writer, conf keyConfig) error {
	if _, err := os.Stat(conf.PrivKeyFile); err == nil {
		return errors.New("existing private key file found, refusing to overwrite", z.Str("path", conf.PrivKeyFile))
	}

	s, err := signer.Random()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(conf.PrivKeyFile), 0o755); err != nil {
		return errors.Wrap(err, "create key directory")
	}

	if err := k1util.Save(s.PrivateKey(), conf.PrivKeyFile); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(w, "Created validator private key: %s\n", conf.PrivKeyFile)
	_, _ = fmt.Fprintln(w, s.Address().Hex())

	return nil
}

// newAddressCmd returns the address command.
func newAddressCmd(runFunc func(io.Writer, keyConfig) error) *cobra.Command {
	var conf keyConfig

	cmd := &cobra.Command{
		Use:   "address",
		Short: "Print the validator address",
		Long:  "Prints the validator address of the private key file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFunc(cmd.OutOrStdout(), conf)
		},
	}

	bindKeyFileFlag(cmd.Flags(), &conf)

	return cmd
}

func runAddress(w io.Writer, conf keyConfig) error {
	key, err := k1util.Load(conf.PrivKeyFile)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(w, signer.FromKey(key).Address().Hex())

	return nil
}
