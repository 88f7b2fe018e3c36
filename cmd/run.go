// Copyright © 2022-2025 Obol Labs Inc. Licensed under the terms of a Business Source License 1.1

package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/obolnetwork/attester/app"
	"github.com/obolnetwork/attester/app/errors"
	"github.com/obolnetwork/attester/app/log"
	"github.com/obolnetwork/attester/core/validator"
)

func newRunCmd(runFunc func(context.Context, app.Config) error) *cobra.Command {
	var conf app.Config

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the validator client",
		Long:  "Starts the long-running validator client performing proposer and attester duties on an in-memory simnet.",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateRunConfig(cmd.Flags(), conf)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			printFlags(cmd.Context(), cmd.Flags())

			return runFunc(cmd.Context(), conf)
		},
	}

	bindValidatorFlags(cmd.Flags(), &conf)
	bindLogFlags(cmd.Flags(), &conf.Log)
	bindMonitoringFlags(cmd.Flags(), &conf)
	bindSimnetFlags(cmd.Flags(), &conf)

	return cmd
}

func bindValidatorFlags(flags *pflag.FlagSet, config *app.Config) {
	def := validator.DefaultConfig()

	flags.StringVar(&config.Validator.PrivateKey, "validator-private-key", "", "Hex encoded secp256k1 validator private key. Takes precedence over --validator-private-key-file.")
	flags.StringVar(&config.PrivKeyFile, "validator-private-key-file", ".attester/validator-private-key", "The path to the validator private key file.")
	flags.DurationVar(&config.Validator.AttestationPollingInterval, "attestation-polling-interval", def.AttestationPollingInterval, "Interval between attestation polls while collecting a quorum.")
	flags.BoolVar(&config.Validator.Disabled, "disable-validator", false, "Run without performing any validator duties.")
	flags.BoolVar(&config.Validator.Reexecute, "validator-reexecute", false, "Re-execute proposed blocks before attesting to them.")
}

func bindLogFlags(flags *pflag.FlagSet, config *log.Config) {
	def := log.DefaultConfig()

	flags.StringVar(&config.Format, "log-format", def.Format, "Log format; console, logfmt or json")
	flags.StringVar(&config.Level, "log-level", def.Level, "Log level; debug, info, warn or error")
	flags.StringVar(&config.Color, "log-color", def.Color, "Log color; auto, force, disable.")
	flags.StringVar(&config.OutputPath, "log-output-path", "", "Path in which to write on-disk logs.")
}

func bindMonitoringFlags(flags *pflag.FlagSet, config *app.Config) {
	flags.StringVar(&config.MonitoringAddr, "monitoring-address", "127.0.0.1:3620", "Listening address (ip and port) for the monitoring API (prometheus, liveness and readiness).")
	flags.StringVar(&config.OTLPAddress, "otlp-address", "", "Listening address for OTLP gRPC tracing backend.")
	flags.StringVar(&config.OTLPServiceName, "otlp-service-name", "attester", "Service name used for OTLP gRPC tracing.")
}

func bindSimnetFlags(flags *pflag.FlagSet, config *app.Config) {
	flags.DurationVar(&config.SimnetSlotDuration, "simnet-slot-duration", 12*time.Second, "Configures slot duration in simnet.")
	flags.IntVar(&config.SimnetCommitteeSize, "simnet-committee-size", 4, "Number of validators in the simnet committee including this one.")
}

func validateRunConfig(flags *pflag.FlagSet, conf app.Config) error {
	if conf.SimnetCommitteeSize <= 0 {
		return errors.New("flag 'simnet-committee-size' must be positive")
	} else if conf.SimnetSlotDuration <= 0 {
		return errors.New("flag 'simnet-slot-duration' must be positive")
	} else if conf.Validator.AttestationPollingInterval <= 0 {
		return errors.New("flag 'attestation-polling-interval' must be positive")
	}

	if flags.Changed("validator-private-key") && flags.Changed("validator-private-key-file") {
		return errors.New("flags 'validator-private-key' and 'validator-private-key-file' are mutually exclusive")
	}

	return nil
}
