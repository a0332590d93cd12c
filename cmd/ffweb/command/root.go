// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package command provides the root and sub-commands for the ffweb
// fleet management server. Commands are organized using the cobra
// library. The root command starts the web server itself while the
// "db" sub-command creates the database tables and the "token" and
// "config" sub-commands help operators in issuing bearer tokens and
// inspecting the effective settings.
//
//	./ffweb [-c /path/of/config.yaml]             # start web server
//	./ffweb db init [--dev] [-c /path/of/config.yaml]
//	./ffweb token --role DISPATCHER --actor UUID [--ttl 8h]
//	./ffweb config show [-c /path/of/config.yaml]
//
// A .env file in the working directory is loaded before the config
// file, so FFWEB_* variables may be kept there during development.
package command

import (
	"fmt"
	"os"

	"github.com/momeni/fleetflow/pkg/adapter/config"
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "ffweb",
	Short: "A fleet management and trip dispatching web server",
	Long: `A fleet management web server which keeps a registry of
vehicles and drivers, dispatches trips through a guarded workflow,
tracks maintenance and fuel records, and reports the fleet finances.
The REST API is served under /api/ffweb/v1 and requires a bearer token
whose role claim decides which operations may be called. Prometheus
metrics are exposed on /metrics.`,
	RunE: startWebServer,
}

// Execute runs the rootCmd which in turn parses CLI arguments and
// flags and runs the most specific cobra command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(prepareEnv)
	rootCmd.PersistentFlags().StringVarP(
		&cfgPath, "config", "c", "", "config file path",
	)
}

// prepareEnv loads the .env file and ensures that cfgPath is set
// respectively by either the CLI args, the CONFIG_FILE environment
// variable, or its default value.
func prepareEnv() {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfgPath = config.ResolvePath(cfgPath)
}

func loadConfig() (*config.Config, error) {
	c, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	return c, nil
}
