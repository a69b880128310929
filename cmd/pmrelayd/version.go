// SPDX-FileCopyrightText: Copyright (c) 2025 the pmrelayd authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/edgefw/pmrelayd/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println(versionString())
	},
}

func versionString() string {
	return fmt.Sprintf("%s %s (%s)", version.Name, version.Short(), strings.TrimSpace(version.SHA))
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
