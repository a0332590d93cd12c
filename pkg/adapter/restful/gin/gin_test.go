// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package gin_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/bitcomplete/sqltestutil"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/momeni/fleetflow/internal/test/dbcontainer"
	"github.com/momeni/fleetflow/pkg/adapter/config"
	"github.com/momeni/fleetflow/pkg/adapter/db/postgres"
	"github.com/momeni/fleetflow/pkg/adapter/restful/gin"
	"github.com/momeni/fleetflow/pkg/adapter/restful/gin/authn"
	"github.com/momeni/fleetflow/pkg/adapter/restful/gin/metrics"
	"github.com/momeni/fleetflow/pkg/adapter/restful/gin/routes"
	"github.com/momeni/fleetflow/pkg/core/model"
	"github.com/momeni/fleetflow/pkg/core/usecase/appuc"
	"github.com/stretchr/testify/suite"
)

type IntegrationGinTestSuite struct {
	suite.Suite

	Ctx  context.Context
	Pg   *sqltestutil.PostgresContainer
	Pool *postgres.Pool
	Auth *authn.Authenticator
	Gin  *gin.Engine

	manager, dispatcher, safety model.Actor
}

func TestIntegrationGinTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping the postgres container in short mode")
	}
	ctx := context.Background()
	pg, pool, dfrs, ok := dbcontainer.New(ctx, 60*time.Second, t)
	for _, f := range dfrs {
		defer f()
	}
	if !ok {
		return // errors are already logged
	}
	suite.Run(t, &IntegrationGinTestSuite{
		Ctx:  ctx,
		Pg:   pg,
		Pool: pool,
	})
}

func (igts *IntegrationGinTestSuite) SetupSuite() {
	err := dbcontainer.InitSchema(igts.Ctx, igts.Pool)
	igts.Require().NoError(err, "failed to create schema contents")

	igts.Auth, err = authn.New([]byte("integration-secret"), 0)
	igts.Require().NoError(err)
	m := metrics.New(nil)
	app, err := appuc.New(igts.Pool, routes.NewRepos(), &config.Config{})
	igts.Require().NoError(err, "failed to instantiate use cases")

	igts.Gin = gin.New(gin.Logger(), gin.Recovery())
	igts.Require().NotNil(igts.Gin, "cannot instantiate Gin engine")
	routes.Register(igts.Gin, app, igts.Auth, m)

	igts.manager = model.Actor{ID: uuid.New(), Role: model.RoleFleetManager}
	igts.dispatcher = model.Actor{ID: uuid.New(), Role: model.RoleDispatcher}
	igts.safety = model.Actor{ID: uuid.New(), Role: model.RoleSafetyOfficer}
}

type errResp struct {
	Kind   string
	Detail string
}

func (igts *IntegrationGinTestSuite) sendReqRecvResp(
	a model.Actor, method, path string, body, res any,
) int {
	b, err := json.Marshal(body)
	igts.Require().NoError(err, "cannot marshal request body")
	req, err := http.NewRequest(
		method, routes.BasePath+path, bytes.NewReader(b),
	)
	igts.Require().NoError(err, "cannot create %s request", method)
	tok, err := igts.Auth.Sign(a, time.Minute)
	igts.Require().NoError(err, "cannot sign token")
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	igts.Gin.ServeHTTP(w, req)
	if res != nil {
		igts.NoError(json.Unmarshal(w.Body.Bytes(), res), "body is not json")
	}
	return w.Code
}

func (igts *IntegrationGinTestSuite) createVehicle(plate string) *model.Vehicle {
	v := &model.Vehicle{}
	code := igts.sendReqRecvResp(
		igts.manager, http.MethodPost, "/vehicles",
		map[string]any{
			"license_plate": plate, "type": "VAN",
			"max_capacity": 800, "acquisition_cost": 9000,
			"odometer": 10,
		}, v,
	)
	igts.Require().Equal(201, code, "failed to register vehicle")
	return v
}

func (igts *IntegrationGinTestSuite) createDriver(
	actor uuid.UUID,
) *model.Driver {
	d := &model.Driver{}
	code := igts.sendReqRecvResp(
		igts.safety, http.MethodPost, "/drivers",
		map[string]any{
			"actor_id": actor, "name": "driver",
			"license_expiry": "2099-01-01",
		}, d,
	)
	igts.Require().Equal(201, code, "failed to register driver")
	return d
}

func (igts *IntegrationGinTestSuite) createTrip(
	v *model.Vehicle, d *model.Driver,
) *model.Trip {
	t := &model.Trip{}
	code := igts.sendReqRecvResp(
		igts.dispatcher, http.MethodPost, "/trips",
		map[string]any{
			"title": "integration", "vehicle_id": v.ID,
			"driver_id": d.ID, "cargo_weight": 100, "revenue": 700,
		}, t,
	)
	igts.Require().Equal(201, code, "failed to create trip")
	return t
}

func (igts *IntegrationGinTestSuite) moveTo(
	a model.Actor, t *model.Trip, status string, res any,
) int {
	return igts.sendReqRecvResp(
		a, http.MethodPatch, "/trips/"+t.ID.String(),
		map[string]string{"status": status}, res,
	)
}

func (igts *IntegrationGinTestSuite) TestDuplicatePlate() {
	igts.createVehicle("PG-DUP")
	e := &errResp{}
	code := igts.sendReqRecvResp(
		igts.manager, http.MethodPost, "/vehicles",
		map[string]any{"license_plate": "PG-DUP", "type": "TRUCK"}, e,
	)
	igts.Equal(409, code)
	igts.Equal("Conflict", e.Kind)
}

func (igts *IntegrationGinTestSuite) TestNotFound() {
	e := &errResp{}
	code := igts.sendReqRecvResp(
		igts.safety, http.MethodGet, "/trips/"+uuid.NewString(), nil, e,
	)
	igts.Equal(404, code)
	igts.Equal("NotFound", e.Kind)
}

func (igts *IntegrationGinTestSuite) TestLifecycle() {
	v := igts.createVehicle("PG-001")
	driverActor := model.Actor{ID: uuid.New(), Role: model.RoleDispatcher}
	d := igts.createDriver(driverActor.ID)
	trip := igts.createTrip(v, d)

	igts.Require().Equal(200, igts.moveTo(igts.dispatcher, trip, "DISPATCHED", trip))
	igts.Equal(model.TripStatusDispatched, trip.Status)
	igts.Require().Equal(200, igts.moveTo(driverActor, trip, "IN_PROGRESS", trip))
	igts.Require().NotNil(trip.StartOdometer)
	igts.Equal(10.0, *trip.StartOdometer)

	fl := &model.FuelLog{}
	igts.Equal(201, igts.sendReqRecvResp(
		igts.dispatcher, http.MethodPost, "/fuel",
		map[string]any{
			"vehicle_id": v.ID, "trip_id": trip.ID,
			"liters": 20, "cost": 45, "odometer_reading": 90,
		}, fl,
	))
	e := &errResp{}
	igts.Equal(422, igts.sendReqRecvResp(
		igts.dispatcher, http.MethodPost, "/fuel",
		map[string]any{
			"vehicle_id": v.ID, "liters": 5, "cost": 10,
			"odometer_reading": 50,
		}, e,
	))
	igts.Equal("OdometerRegression", e.Kind)

	igts.Require().Equal(200, igts.moveTo(driverActor, trip, "COMPLETED", trip))
	igts.Require().NotNil(trip.EndOdometer)
	igts.Equal(90.0, *trip.EndOdometer)

	var as []model.ActivityLog
	igts.Equal(200, igts.sendReqRecvResp(
		igts.safety, http.MethodGet,
		"/trips/"+trip.ID.String()+"/activity", nil, &as,
	))
	igts.Len(as, 3)

	var vs []model.Vehicle
	igts.Equal(200, igts.sendReqRecvResp(
		igts.manager, http.MethodGet, "/vehicles?status=AVAILABLE", nil, &vs,
	))
	found := false
	for _, x := range vs {
		if x.ID == v.ID {
			found = true
			igts.Equal(90.0, x.Odometer)
		}
	}
	igts.True(found, "completed trip must release its vehicle")
}

func (igts *IntegrationGinTestSuite) TestMaintenanceIsExclusive() {
	v := igts.createVehicle("PG-SHOP")
	ml := &model.MaintenanceLog{}
	igts.Require().Equal(201, igts.sendReqRecvResp(
		igts.manager, http.MethodPost, "/maintenance",
		map[string]any{"vehicle_id": v.ID, "description": "oil", "cost": 60},
		ml,
	))
	e := &errResp{}
	igts.Equal(409, igts.sendReqRecvResp(
		igts.manager, http.MethodPost, "/maintenance",
		map[string]any{"vehicle_id": v.ID, "description": "tyres"}, e,
	))
	igts.Equal("ActiveRecordExists", e.Kind)

	igts.Equal(200, igts.sendReqRecvResp(
		igts.manager, http.MethodPost,
		"/maintenance/"+ml.ID.String()+"/close", nil, ml,
	))
	igts.Equal(model.MaintenanceStatusClosed, ml.Status)
}

func (igts *IntegrationGinTestSuite) TestConcurrentDispatch() {
	v := igts.createVehicle("PG-RACE")
	trips := []*model.Trip{
		igts.createTrip(v, igts.createDriver(uuid.New())),
		igts.createTrip(v, igts.createDriver(uuid.New())),
	}
	codes := make([]int, len(trips))
	var wg sync.WaitGroup
	for i, t := range trips {
		wg.Add(1)
		go func(i int, t *model.Trip) {
			defer wg.Done()
			codes[i] = igts.moveTo(igts.dispatcher, t, "DISPATCHED", nil)
		}(i, t)
	}
	wg.Wait()
	ok := 0
	for _, c := range codes {
		if c == 200 {
			ok++
			continue
		}
		igts.Contains([]int{409, 503}, c, "loser must conflict")
	}
	igts.Equal(1, ok, "exactly one trip may hold the vehicle")
}
