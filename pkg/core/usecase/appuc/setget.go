// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package appuc

import (
	"github.com/momeni/fleetflow/pkg/core/usecase/financeuc"
	"github.com/momeni/fleetflow/pkg/core/usecase/fleetuc"
	"github.com/momeni/fleetflow/pkg/core/usecase/fueluc"
	"github.com/momeni/fleetflow/pkg/core/usecase/maintenanceuc"
	"github.com/momeni/fleetflow/pkg/core/usecase/tripsuc"
)

// updateAll atomically publishes the m use case objects. It takes
// the writing lock only after all of them are instantiated.
func (app *UseCase) updateAll(m managedUseCases) {
	app.rwlock.Lock()
	defer app.rwlock.Unlock()
	app.managed = m
}

// TripsUseCase returns the currently effective trips use case object.
func (app *UseCase) TripsUseCase() *tripsuc.UseCase {
	app.rwlock.RLock()
	defer app.rwlock.RUnlock()
	return app.managed.trips
}

// MaintenanceUseCase returns the currently effective maintenance use
// case object.
func (app *UseCase) MaintenanceUseCase() *maintenanceuc.UseCase {
	app.rwlock.RLock()
	defer app.rwlock.RUnlock()
	return app.managed.maintenance
}

func (app *UseCase) FuelUseCase() *fueluc.UseCase {
	app.rwlock.RLock()
	defer app.rwlock.RUnlock()
	return app.managed.fuel
}

func (app *UseCase) FleetUseCase() *fleetuc.UseCase {
	app.rwlock.RLock()
	defer app.rwlock.RUnlock()
	return app.managed.fleet
}

// FinanceUseCase returns the currently effective finance use case
// object.
func (app *UseCase) FinanceUseCase() *financeuc.UseCase {
	app.rwlock.RLock()
	defer app.rwlock.RUnlock()
	return app.managed.finance
}
