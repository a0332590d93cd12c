// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package appuc

import (
	"github.com/momeni/fleetflow/pkg/core/repo"
	"github.com/momeni/fleetflow/pkg/core/usecase/financeuc"
	"github.com/momeni/fleetflow/pkg/core/usecase/maintenanceuc"
	"github.com/momeni/fleetflow/pkg/core/usecase/tripsuc"
)

// Builder interface represents the expectations from the application
// use case builders. Each use case which has configurable settings
// has one NewX method here which takes the database connection pool
// and the repositories. The configuration struct implements this
// interface, so a reloaded configuration can produce a new set of
// use case objects.
type Builder interface {
	// NewTripsUseCase creates a trips use case. The extra opts are
	// appended after the options which are derived from settings.
	NewTripsUseCase(
		p repo.Pool, r Repos, opts ...tripsuc.Option,
	) (*tripsuc.UseCase, error)

	NewMaintenanceUseCase(
		p repo.Pool, r Repos,
	) (*maintenanceuc.UseCase, error)

	NewFinanceUseCase(p repo.Pool, r Repos) (*financeuc.UseCase, error)
}
