// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package appuc contains the application UseCase which creates all
// other use case objects from a Builder (realized by the effective
// configuration), maintains them, and lets them be replaced atomically
// when the configuration is reloaded. Resources packages ask this
// use case for the actual use case objects right before using them.
package appuc

import (
	"fmt"
	"sync"

	"github.com/momeni/fleetflow/pkg/core/repo"
	"github.com/momeni/fleetflow/pkg/core/usecase/financeuc"
	"github.com/momeni/fleetflow/pkg/core/usecase/fleetuc"
	"github.com/momeni/fleetflow/pkg/core/usecase/fueluc"
	"github.com/momeni/fleetflow/pkg/core/usecase/maintenanceuc"
	"github.com/momeni/fleetflow/pkg/core/usecase/tripsuc"
)

// Repos holds one instance of every repository which is required by
// the managed use cases.
type Repos struct {
	Trips       repo.Trips
	Vehicles    repo.Vehicles
	Drivers     repo.Drivers
	Maintenance repo.Maintenance
	Fuel        repo.Fuel
	Finance     repo.Finance
}

// UseCase represents an application use case. It holds a database
// connection pool and all repository instances, so it can pass them to
// a Builder in order to create the managed use case objects.
type UseCase struct {
	pool  repo.Pool
	repos Repos

	tripOptions []tripsuc.Option

	// mutex serializes the Reload calls, so an older Builder may not
	// publish its use cases after a newer one.
	mutex sync.Mutex

	// rwlock is locked for writing by updateAll when the new use case
	// objects are published, while getters lock it for reading.
	rwlock sync.RWMutex

	managed managedUseCases
}

type managedUseCases struct {
	trips       *tripsuc.UseCase
	maintenance *maintenanceuc.UseCase
	fuel        *fueluc.UseCase
	fleet       *fleetuc.UseCase
	finance     *financeuc.UseCase
}

// Option is a functional option for the application use case.
type Option func(app *UseCase) error

// WithTripOptions option passes extra options to every trips use case
// which is created by this application use case, regardless of the
// Builder in effect. It may be used for registering observers.
func WithTripOptions(opts ...tripsuc.Option) Option {
	return func(app *UseCase) error {
		app.tripOptions = append(app.tripOptions, opts...)
		return nil
	}
}

// New instantiates an application use case and creates all managed
// use case objects using the b Builder.
func New(p repo.Pool, r Repos, b Builder, opts ...Option) (*UseCase, error) {
	app := &UseCase{pool: p, repos: r}
	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	if err := app.Reload(b); err != nil {
		return nil, err
	}
	return app, nil
}

// Reload creates fresh use case objects using the b Builder and
// replaces the current ones atomically. On errors, the current use
// case objects are kept.
func (app *UseCase) Reload(b Builder) error {
	app.mutex.Lock()
	defer app.mutex.Unlock()
	managed, err := app.newManagedUseCases(b)
	if err != nil {
		return fmt.Errorf("creating use cases: %w", err)
	}
	app.updateAll(managed)
	return nil
}

func (app *UseCase) newManagedUseCases(
	b Builder,
) (managedUseCases, error) {
	var nilm managedUseCases
	p, r := app.pool, app.repos
	trips, err := b.NewTripsUseCase(p, r, app.tripOptions...)
	if err != nil {
		return nilm, fmt.Errorf("trips: %w", err)
	}
	maintenance, err := b.NewMaintenanceUseCase(p, r)
	if err != nil {
		return nilm, fmt.Errorf("maintenance: %w", err)
	}
	finance, err := b.NewFinanceUseCase(p, r)
	if err != nil {
		return nilm, fmt.Errorf("finance: %w", err)
	}
	return managedUseCases{
		trips:       trips,
		maintenance: maintenance,
		fuel:        fueluc.New(p, r.Fuel, r.Vehicles, r.Trips, nil),
		fleet:       fleetuc.New(p, r.Vehicles, r.Drivers, r.Trips),
		finance:     finance,
	}, nil
}
