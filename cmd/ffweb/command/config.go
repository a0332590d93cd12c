// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration file actions",
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration settings",
	Long: `Print the effective configuration settings after applying the
environment variables and the default values. Secrets are not printed.`,
	RunE: showConfig,
	Args: cobra.NoArgs,
}

func showConfig(_ *cobra.Command, _ []string) error {
	c, err := loadConfig()
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(4)
	if err = enc.Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return enc.Close()
}

func init() {
	configCmd.AddCommand(showCmd)
	rootCmd.AddCommand(configCmd)
}
