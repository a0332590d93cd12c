// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"github.com/momeni/fleetflow/pkg/core/repo"
	"github.com/momeni/fleetflow/pkg/core/usecase/appuc"
	"github.com/momeni/fleetflow/pkg/core/usecase/financeuc"
	"github.com/momeni/fleetflow/pkg/core/usecase/maintenanceuc"
	"github.com/momeni/fleetflow/pkg/core/usecase/tripsuc"
)

var _ appuc.Builder = (*Config)(nil)

// NewTripsUseCase instantiates a trips use case based on the settings
// in the `c` struct. The opts are appended to the options which are
// derived from those settings.
func (c *Config) NewTripsUseCase(
	p repo.Pool, r appuc.Repos, opts ...tripsuc.Option,
) (*tripsuc.UseCase, error) {
	all := make([]tripsuc.Option, 0, len(opts)+1)
	if n := c.Usecases.Trips.MaxAttempts; n != nil {
		all = append(all, tripsuc.WithMaxAttempts(*n))
	}
	all = append(all, opts...)
	return tripsuc.New(p, r.Trips, r.Vehicles, r.Drivers, all...)
}

// NewMaintenanceUseCase instantiates a maintenance use case based on
// the settings in the `c` struct.
func (c *Config) NewMaintenanceUseCase(
	p repo.Pool, r appuc.Repos,
) (*maintenanceuc.UseCase, error) {
	var opts []maintenanceuc.Option
	if n := c.Usecases.Maintenance.MaxAttempts; n != nil {
		opts = append(opts, maintenanceuc.WithMaxAttempts(*n))
	}
	return maintenanceuc.New(
		p, r.Maintenance, r.Vehicles, r.Trips, opts...,
	)
}

// NewFinanceUseCase instantiates a finance use case based on the
// settings in the `c` struct.
func (c *Config) NewFinanceUseCase(
	p repo.Pool, r appuc.Repos,
) (*financeuc.UseCase, error) {
	f := c.Usecases.Finance
	var opts []financeuc.Option
	if n := f.TopCostVehicles; n != nil {
		opts = append(opts, financeuc.WithTopCostVehicles(*n))
	}
	if f.loc != nil {
		opts = append(opts, financeuc.WithLocation(f.loc))
	}
	return financeuc.New(p, r.Finance, opts...)
}
