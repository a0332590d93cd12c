// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/fleetflow/pkg/adapter/db/postgres"
	"github.com/momeni/fleetflow/pkg/adapter/db/postgres/driversrp"
	"github.com/momeni/fleetflow/pkg/adapter/db/postgres/tripsrp"
	"github.com/momeni/fleetflow/pkg/adapter/db/postgres/vehiclesrp"
	"github.com/momeni/fleetflow/pkg/adapter/hash/scram"
	"github.com/momeni/fleetflow/pkg/core/model"
	"github.com/momeni/fleetflow/pkg/core/repo"
	"github.com/momeni/fleetflow/pkg/core/usecase/fleetuc"
	"github.com/spf13/cobra"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database management actions",
	Long: `Database management actions can be chosen by sub-commands.
For a fresh installation, the init sub-command creates the tables.`,
}

var devData bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the database tables and grant them to the normal role",
	Long: `Create the database tables, their indexes, and grant the row
level privileges to the normal role. The database connection
information are read from the config file and the admin role password
is read from its pgpass file. The normal role password is also set from
its pgpass file, so the server may connect with it afterwards.

With the --dev flag, existing tables are dropped first and a few sample
vehicles and drivers are inserted. The actor identifiers of the sample
drivers are printed, so tokens may be issued for them.`,
	RunE: initDB,
	Args: cobra.NoArgs,
}

func initDB(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	c, err := loadConfig()
	if err != nil {
		return err
	}
	pass, err := c.Database.Password(repo.NormalRole)
	if err != nil {
		return fmt.Errorf("reading %s password: %w", repo.NormalRole, err)
	}
	p, err := c.Database.ConnectionPool(ctx, repo.AdminRole)
	if err != nil {
		return fmt.Errorf("creating DB pool: %w", err)
	}
	defer p.Close()
	err = p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			if devData {
				if err := postgres.DropSchema(ctx, tx); err != nil {
					return err
				}
			}
			err := postgres.SetRolePassword(
				ctx, tx, repo.NormalRole, pass, scram.SHA256(),
			)
			if err != nil {
				return err
			}
			return postgres.CreateSchema(ctx, tx, repo.NormalRole)
		})
	})
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	if !devData {
		return nil
	}
	return seed(ctx, p)
}

func seed(ctx context.Context, p repo.Pool) error {
	uc := fleetuc.New(p, vehiclesrp.New(), driversrp.New(), tripsrp.New())
	vehicles := []model.Vehicle{
		{
			Name: "Van 05", LicensePlate: "FF-0005",
			Type: model.VehicleTypeVan, MaxCapacity: 500,
			AcquisitionCost: 18000, Odometer: 1200,
		},
		{
			Name: "Truck 11", LicensePlate: "FF-0011",
			Type: model.VehicleTypeTruck, MaxCapacity: 8000,
			AcquisitionCost: 72000, Odometer: 54000,
		},
		{
			Name: "Bike 02", LicensePlate: "FF-0102",
			Type: model.VehicleTypeBike, MaxCapacity: 20,
			AcquisitionCost: 900,
		},
	}
	for _, v := range vehicles {
		if _, err := uc.RegisterVehicle(ctx, v); err != nil {
			return fmt.Errorf("seeding vehicle %s: %w", v.LicensePlate, err)
		}
	}
	expiry := time.Now().UTC().AddDate(2, 0, 0).Truncate(24 * time.Hour)
	for _, name := range []string{"Alex", "Sam"} {
		d, err := uc.RegisterDriver(ctx, model.Driver{
			ActorID: uuid.New(), Name: name,
			LicenseExpiry: expiry, SafetyScore: 95,
		})
		if err != nil {
			return fmt.Errorf("seeding driver %s: %w", name, err)
		}
		fmt.Printf("driver %s: id=%s actor=%s\n", name, d.ID, d.ActorID)
	}
	return nil
}

func init() {
	initCmd.Flags().BoolVar(
		&devData, "dev", false, "drop existing tables and insert sample data",
	)
	dbCmd.AddCommand(initCmd)
	rootCmd.AddCommand(dbCmd)
}
