// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/fleetflow/pkg/core/model"
	"github.com/spf13/cobra"
)

var tokenOpts struct {
	role   string
	actor  string
	driver string
	ttl    time.Duration
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a signed bearer token for an actor",
	Long: `Issue a bearer token which is signed by the JWT secret of the
config file (or the FFWEB_JWT_SECRET environment variable).
The token carries the actor identifier, its role, and an optional
driver identifier. It is printed on the standard output.`,
	RunE: issueToken,
	Args: cobra.NoArgs,
}

func issueToken(_ *cobra.Command, _ []string) error {
	c, err := loadConfig()
	if err != nil {
		return err
	}
	auth, err := c.Auth.NewAuthenticator()
	if err != nil {
		return fmt.Errorf("creating authenticator: %w", err)
	}
	a := model.Actor{}
	if a.Role, err = model.ParseRole(tokenOpts.role); err != nil {
		return fmt.Errorf("parsing --role: %w", err)
	}
	if tokenOpts.actor == "" {
		a.ID = uuid.New()
	} else if a.ID, err = uuid.Parse(tokenOpts.actor); err != nil {
		return fmt.Errorf("parsing --actor: %w", err)
	}
	if tokenOpts.driver != "" {
		did, err := uuid.Parse(tokenOpts.driver)
		if err != nil {
			return fmt.Errorf("parsing --driver: %w", err)
		}
		a.DriverID = &did
	}
	tok, err := auth.Sign(a, tokenOpts.ttl)
	if err != nil {
		return fmt.Errorf("signing token: %w", err)
	}
	fmt.Println(tok)
	return nil
}

func init() {
	f := tokenCmd.Flags()
	f.StringVar(&tokenOpts.role, "role", "", "actor role, e.g. DISPATCHER")
	f.StringVar(&tokenOpts.actor, "actor", "", "actor UUID (random if empty)")
	f.StringVar(&tokenOpts.driver, "driver", "", "linked driver UUID")
	f.DurationVar(&tokenOpts.ttl, "ttl", 8*time.Hour, "token lifetime")
	_ = tokenCmd.MarkFlagRequired("role")
	rootCmd.AddCommand(tokenCmd)
}
