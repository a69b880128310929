// SPDX-FileCopyrightText: Copyright (c) 2025 the pmrelayd authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/edgefw/pmrelayd/pkg/pmapi"
)

const (
	flagSoakInterval = "soak-interval"
	flagPollInterval = "poll-interval"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "run the relay against the built-in PMU simulator",
	Long: "serve brings the relay up against the simulated coprocessor, lets the simulator\n" +
		"emit periodic callback events and drains them the way the non-secure OS would:\n" +
		"observe the forwarded interrupt, then fetch the pending block",
	RunE: serve,
}

func init() {
	pf := serveCmd.PersistentFlags()
	pf.Duration(flagSoakInterval, 3*time.Second, "interval between simulated PMU callback events")
	pf.Duration(flagPollInterval, 50*time.Millisecond, "interval at which the OS side polls the distributor")

	if err := viper.BindPFlags(pf); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(serveCmd)
}

func serve(cmd *cobra.Command, _ []string) error {
	svc, pmu, distributor := buildRelay()
	if err := svc.Setup(); err != nil {
		return err
	}

	line := viper.GetUint32(flagCallbackLine)

	res := svc.Dispatch(uint32(pmapi.InitCallback), uint64(line), 0)
	logger.Debug("callback line registered", "line", line, "status", pmapi.Status(res.Words()[0]))

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Coprocessor side: ask for a suspend every soak interval.
	g.Go(func() error {
		ticker := time.NewTicker(viper.GetDuration(flagSoakInterval))
		defer ticker.Stop()

		var seq uint32

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				seq++
				pmu.RequestSuspendOf(seq, 100, 0, 10)
			}
		}
	})

	// Non-secure side: poll for the forwarded notification, acknowledge it
	// and fetch the pending block.
	g.Go(func() error {
		ticker := time.NewTicker(viper.GetDuration(flagPollInterval))
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if !distributor.Pending(line) {
					continue
				}

				distributor.ClearPending(line)

				res := svc.Dispatch(uint32(pmapi.GetCallbackData), 0, 0)
				logger.Info("callback data fetched", "words", res.Words())

				distributor.ClearActive(line)
			}
		}
	})

	err := g.Wait()

	logger.Info("graceful shutdown done")

	return err
}
