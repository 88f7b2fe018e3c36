// Copyright © 2022-2025 Obol Labs Inc. Licensed under the terms of a Business Source License 1.1

// Package cmd implements the attester command-line interface.
package cmd

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/obolnetwork/attester/app"
	"github.com/obolnetwork/attester/app/errors"
	"github.com/obolnetwork/attester/app/log"
	"github.com/obolnetwork/attester/app/z"
)

const (
	// The name of our config file, without the file extension because
	// viper supports many different config file languages.
	defaultConfigFilename = "attester"

	// The environment variable prefix of all environment variables bound to our command line flags.
	envPrefix = "attester"
)

// New returns a new root cobra command that handles our command line tool.
func New() *cobra.Command {
	return newRootCmd(
		newVersionCmd(runVersionCmd),
		newRunCmd(app.Run),
		newAddressCmd(runAddress),
		newCreateCmd(
			newCreateKeyCmd(runCreateKey),
		),
	)
}

func newRootCmd(cmds ...*cobra.Command) *cobra.Command {
	root := &cobra.Command{
		Use:   "attester",
		Short: "Attester - block proposer and attester validator client",
		Long:  "Attester proposes blocks when scheduled and attests to proposals of its committee after verifying them.",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initializeConfig(cmd)
		},
	}

	root.AddCommand(cmds...)

	return root
}

// newCreateCmd returns the create command grouping the create subcommands.
func newCreateCmd(cmds ...*cobra.Command) *cobra.Command {
	root := &cobra.Command{
		Use:   "create",
		Short: "Create artifacts for a validator",
	}

	root.AddCommand(cmds...)

	return root
}

// initializeConfig sets up the general viper config and binds the cobra flags to the viper flags.
func initializeConfig(cmd *cobra.Command) error {
	v := viper.New()

	v.SetConfigName(defaultConfigFilename)
	v.AddConfigPath(".")

	// Attempt to read the config file, gracefully ignoring errors
	// caused by a config file not being found. Return an error
	// if we cannot parse the config file.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return errors.Wrap(err, "read config")
		}
	}

	v.SetEnvPrefix(envPrefix)
	// Environment variables can't have dashes in them, so bind them to their equivalent
	// keys with underscores.
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return bindFlags(cmd.Flags(), v)
}

// bindFlags binds each cobra flag to its associated viper configuration (config file and environment variable).
func bindFlags(flags *pflag.FlagSet, v *viper.Viper) error {
	var lastErr error

	flags.VisitAll(func(f *pflag.Flag) {
		// Cobra provided flags take priority.
		if f.Changed || !v.IsSet(f.Name) {
			return
		}

		if err := flags.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name))); err != nil {
			lastErr = errors.Wrap(err, "set flag from config", z.Str("flag", f.Name))
		}
	})

	return lastErr
}

// printFlags logs the flag values of the command, redacting secrets.
func printFlags(ctx context.Context, flags *pflag.FlagSet) {
	var fields []z.Field
	flags.VisitAll(func(flag *pflag.Flag) {
		fields = append(fields, z.Str(strings.ReplaceAll(flag.Name, "-", "_"), redact(flag.Name, flag.Value.String())))
	})

	log.Info(ctx, "Parsed config", fields...)
}

// redact returns a redacted version of the given flag value. It currently supports redacting
// private keys and passwords in valid URLs provided in address flags.
func redact(flag, val string) string {
	if strings.Contains(flag, "private-key") && !strings.HasSuffix(flag, "-file") {
		if val == "" {
			return val
		}

		return "xxxxx"
	}

	if !strings.Contains(flag, "address") {
		return val
	}

	u, err := url.Parse(val)
	if err != nil {
		return val
	}

	return u.Redacted()
}
