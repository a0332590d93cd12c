// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package routes contains all resource packages and facilitates
// instantiation and registration of all repo and resource packages.
package routes

import (
	"github.com/momeni/fleetflow/pkg/adapter/db/postgres/driversrp"
	"github.com/momeni/fleetflow/pkg/adapter/db/postgres/financerp"
	"github.com/momeni/fleetflow/pkg/adapter/db/postgres/fuelrp"
	"github.com/momeni/fleetflow/pkg/adapter/db/postgres/maintenancerp"
	"github.com/momeni/fleetflow/pkg/adapter/db/postgres/tripsrp"
	"github.com/momeni/fleetflow/pkg/adapter/db/postgres/vehiclesrp"
	"github.com/momeni/fleetflow/pkg/adapter/restful/gin"
	"github.com/momeni/fleetflow/pkg/adapter/restful/gin/authn"
	"github.com/momeni/fleetflow/pkg/adapter/restful/gin/driversrs"
	"github.com/momeni/fleetflow/pkg/adapter/restful/gin/financers"
	"github.com/momeni/fleetflow/pkg/adapter/restful/gin/fuelrs"
	"github.com/momeni/fleetflow/pkg/adapter/restful/gin/maintenancers"
	"github.com/momeni/fleetflow/pkg/adapter/restful/gin/metrics"
	"github.com/momeni/fleetflow/pkg/adapter/restful/gin/tripsrs"
	"github.com/momeni/fleetflow/pkg/adapter/restful/gin/vehiclesrs"
	"github.com/momeni/fleetflow/pkg/core/usecase/appuc"
)

// BasePath is the prefix of all versioned REST APIs.
const BasePath = "/api/ffweb/v1"

// NewRepos instantiates the PostgreSQL repositories. Each repository
// package is named like tripsrp and is stateless, running its queries
// on the connections and transactions which are passed by use cases.
func NewRepos() appuc.Repos {
	return appuc.Repos{
		Trips:       tripsrp.New(),
		Vehicles:    vehiclesrp.New(),
		Drivers:     driversrp.New(),
		Maintenance: maintenancerp.New(),
		Fuel:        fuelrp.New(),
		Finance:     financerp.New(),
	}
}

// Register instantiates a series of "resource" structs, from packages
// which are named like tripsrs, in order to adapt the use cases of app
// with the REST APIs. These resources are registered as request
// handlers using the e gin-gonic engine instance. All of them require
// the bearer tokens which are verified by auth. The m collectors are
// updated by all requests and are served at gin.MetricsPath without
// authentication.
func Register(
	e *gin.Engine,
	app *appuc.UseCase,
	auth *authn.Authenticator,
	m *metrics.Metrics,
) {
	e.Use(m.Middleware())
	e.GET(gin.MetricsPath, m.Handler())
	r := e.Group(BasePath, auth.Middleware())
	tripsrs.Register(r, app.TripsUseCase)
	vehiclesrs.Register(r, app.FleetUseCase)
	driversrs.Register(r, app.FleetUseCase)
	maintenancers.Register(r, app.MaintenanceUseCase)
	fuelrs.Register(r, app.FuelUseCase)
	financers.Register(r, app.FinanceUseCase)
}
