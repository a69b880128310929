// SPDX-FileCopyrightText: Copyright (c) 2025 the pmrelayd authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	flagFID = "fid"
	flagX1  = "x1"
	flagX2  = "x2"
)

var callCmd = &cobra.Command{
	Use:   "call",
	Short: "issue one PM call through the relay and print the result registers",
	Long: "call brings the relay up against the simulated coprocessor, dispatches a single\n" +
		"function identifier with two raw argument registers and prints the reply",
	RunE: call,
}

func init() {
	pf := callCmd.PersistentFlags()
	pf.String(flagFID, "", "function identifier (e.g. 0xa02, or a PM API number like 1)")
	pf.String(flagX1, "0", "first argument register")
	pf.String(flagX2, "0", "second argument register")

	if err := viper.BindPFlags(pf); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(callCmd)
}

func call(_ *cobra.Command, _ []string) error {
	fid, err := strconv.ParseUint(viper.GetString(flagFID), 0, 32)
	if err != nil {
		return fmt.Errorf("parsing function identifier: %w", err)
	}

	x1, err := strconv.ParseUint(viper.GetString(flagX1), 0, 64)
	if err != nil {
		return fmt.Errorf("parsing x1: %w", err)
	}

	x2, err := strconv.ParseUint(viper.GetString(flagX2), 0, 64)
	if err != nil {
		return fmt.Errorf("parsing x2: %w", err)
	}

	svc, _, _ := buildRelay()
	if err := svc.Setup(); err != nil {
		return err
	}

	for i, w := range svc.Dispatch(uint32(fid), x1, x2).Words() {
		fmt.Printf("x%d = %#016x\n", i, w)
	}

	return nil
}
