/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Command colframe inspects and writes column snapshot files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "colframe",
		Short:         "Inspect columnar snapshot files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "config file (.toml or .json)")
	root.PersistentFlags().String("log-level", "", "override the configured log level")
	addCommands(root)
	return root
}

func addCommands(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "stypes",
		Short: "List the storage types",
		Args:  cobra.NoArgs,
		RunE:  listSTypes}
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "functions",
		Short: "List the registered frame functions",
		Args:  cobra.NoArgs,
		RunE:  listFunctions}
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "put file value...",
		Short: "Write values as a column snapshot",
		Args:  cobra.MinimumNArgs(1),
		RunE:  putColumn}
	cmd.Flags().StringP("stype", "t", "str32", "storage type name or code")
	cmd.Flags().Int("scale", 2, "decimal scale")
	cmd.Flags().String("na", "NA", "token written as a missing value")
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "cat file...",
		Short: "Print snapshot files side by side as one frame",
		Args:  cobra.MinimumNArgs(1),
		RunE:  catColumns}
	cmd.Flags().IntP("limit", "n", -1, "maximum number of rows (-1: all)")
	cmd.Flags().String("fn", "", "frame function to apply instead of selecting all columns")
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "stats file...",
		Short: "Print summary statistics of snapshot files",
		Args:  cobra.MinimumNArgs(1),
		RunE:  columnStats}
	root.AddCommand(cmd)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
