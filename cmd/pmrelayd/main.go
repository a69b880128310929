// SPDX-FileCopyrightText: Copyright (c) 2025 the pmrelayd authors
// SPDX-License-Identifier: Apache-2.0

// Package main is the main package invoking the tool
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/edgefw/pmrelayd/internal/gic"
	"github.com/edgefw/pmrelayd/internal/pmclient"
	"github.com/edgefw/pmrelayd/internal/pmusim"
	"github.com/edgefw/pmrelayd/internal/relay"
	"github.com/edgefw/pmrelayd/internal/util"
	"github.com/edgefw/pmrelayd/internal/version"
)

const (
	flagLogLevel     = "log-level"
	flagCallbackLine = "callback-line"
)

var rootCmd = &cobra.Command{
	Use:   "pmrelayd",
	Short: "relay between a non-secure OS and a power management coprocessor",
	Long: "pmrelayd bridges synchronous power management calls to an asynchronous PMU mailbox,\n" +
		"pairing a call dispatcher with an interrupt-driven callback channel",
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

var logger *slog.Logger

func setup(cmd *cobra.Command, _ []string) error {
	level, err := util.ParseLevel(viper.GetString(flagLogLevel))
	if err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}

	logOpts := &slog.HandlerOptions{
		Level: level,
	}

	logger = slog.New(slog.NewTextHandler(os.Stdout, logOpts)).With("command", cmd.Name())

	logger.Info(version.Name, "version", version.Short(), "sha", strings.TrimSpace(version.SHA))

	return nil
}

// buildRelay wires the relay against the in-process simulator stack: the
// simulated PMU serves both as the mailbox connection and, through the
// operations client, as the delegate backend.
func buildRelay() (*relay.Service, *pmusim.PMU, *gic.Model) {
	pmu := pmusim.New(logger.With("module", "pmusim"))
	distributor := gic.NewModel()
	ops := pmclient.New(logger.With("module", "pmclient"), pmu)
	svc := relay.New(logger.With("module", "relay"), pmu, distributor, ops)

	return svc, pmu, distributor
}

func init() {
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(`-`, `_`))
	viper.SetEnvPrefix("pmrelayd")

	pf := rootCmd.PersistentFlags()
	pf.String(flagLogLevel, "info", "log level (error, warning, info, debug, trace)")
	pf.Uint32(flagCallbackLine, 142, "interrupt line used to signal pending callback data")

	if err := viper.BindPFlags(pf); err != nil {
		panic(err)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		panic(err)
	}
}
