// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package routes_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gingonic "github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/momeni/fleetflow/internal/test/memdb"
	"github.com/momeni/fleetflow/pkg/adapter/config"
	"github.com/momeni/fleetflow/pkg/adapter/restful/gin"
	"github.com/momeni/fleetflow/pkg/adapter/restful/gin/authn"
	"github.com/momeni/fleetflow/pkg/adapter/restful/gin/metrics"
	"github.com/momeni/fleetflow/pkg/adapter/restful/gin/routes"
	"github.com/momeni/fleetflow/pkg/core/model"
	"github.com/momeni/fleetflow/pkg/core/usecase/appuc"
	"github.com/momeni/fleetflow/pkg/core/usecase/tripsuc"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
)

type RoutesTestSuite struct {
	suite.Suite

	Store   *memdb.Store
	Auth    *authn.Authenticator
	Metrics *metrics.Metrics
	Gin     *gin.Engine

	manager, dispatcher, safety, analyst model.Actor
}

func TestRoutesTestSuite(t *testing.T) {
	suite.Run(t, new(RoutesTestSuite))
}

func (rts *RoutesTestSuite) SetupTest() {
	gingonic.SetMode(gingonic.TestMode)
	var err error
	rts.Store = memdb.New()
	rts.Auth, err = authn.New([]byte("routes-test-secret"), time.Second)
	rts.Require().NoError(err)
	rts.Metrics = metrics.New(nil)
	app, err := appuc.New(
		rts.Store, memdb.Repos(), &config.Config{},
		appuc.WithTripOptions(
			tripsuc.WithObserver(rts.Metrics.ObserveTransition),
		),
	)
	rts.Require().NoError(err)
	rts.Gin = gin.New(gin.Recovery())
	routes.Register(rts.Gin, app, rts.Auth, rts.Metrics)

	rts.manager = model.Actor{ID: uuid.New(), Role: model.RoleFleetManager}
	rts.dispatcher = model.Actor{ID: uuid.New(), Role: model.RoleDispatcher}
	rts.safety = model.Actor{ID: uuid.New(), Role: model.RoleSafetyOfficer}
	rts.analyst = model.Actor{ID: uuid.New(), Role: model.RoleFinancialAnalyst}
}

func (rts *RoutesTestSuite) token(a model.Actor) string {
	tok, err := rts.Auth.Sign(a, time.Hour)
	rts.Require().NoError(err)
	return tok
}

// call sends a JSON request on behalf of the a actor (if not nil) and
// decodes the response into res (if not nil), returning the status.
func (rts *RoutesTestSuite) call(
	a *model.Actor, method, path string, body, res any,
) int {
	var r *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		rts.Require().NoError(err)
		r = bytes.NewReader(b)
	} else {
		r = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, routes.BasePath+path, r)
	rts.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if a != nil {
		req.Header.Set("Authorization", "Bearer "+rts.token(*a))
	}
	w := httptest.NewRecorder()
	rts.Gin.ServeHTTP(w, req)
	if res != nil {
		rts.Require().NoError(
			json.Unmarshal(w.Body.Bytes(), res), w.Body.String(),
		)
	}
	return w.Code
}

type errResp struct {
	Kind   string
	Detail string
}

func (rts *RoutesTestSuite) TestAuthentication() {
	e := &errResp{}
	rts.Equal(401, rts.call(nil, http.MethodGet, "/trips", nil, e))
	rts.Equal("Unauthenticated", e.Kind)

	req := httptest.NewRequest(http.MethodGet, routes.BasePath+"/trips", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()
	rts.Gin.ServeHTTP(w, req)
	rts.Equal(401, w.Code)

	other, err := authn.New([]byte("another-secret"), 0)
	rts.Require().NoError(err)
	tok, err := other.Sign(rts.manager, time.Hour)
	rts.Require().NoError(err)
	req = httptest.NewRequest(http.MethodGet, routes.BasePath+"/trips", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w = httptest.NewRecorder()
	rts.Gin.ServeHTTP(w, req)
	rts.Equal(401, w.Code, "signature must be verified")

	tok, err = rts.Auth.Sign(rts.manager, -time.Hour)
	rts.Require().NoError(err)
	req = httptest.NewRequest(http.MethodGet, routes.BasePath+"/trips", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w = httptest.NewRecorder()
	rts.Gin.ServeHTTP(w, req)
	rts.Equal(401, w.Code, "expired tokens are rejected")
}

func (rts *RoutesTestSuite) TestRoleChecks() {
	e := &errResp{}
	rts.Equal(403, rts.call(&rts.dispatcher, http.MethodPost, "/vehicles",
		map[string]any{"license_plate": "X", "type": "VAN"}, e))
	rts.Equal("Unauthorized", e.Kind)
	rts.Equal(403, rts.call(&rts.safety, http.MethodGet, "/finance/kpis", nil, nil))
	rts.Equal(403, rts.call(&rts.safety, http.MethodGet, "/fuel", nil, nil))
	rts.Equal(403, rts.call(&rts.analyst, http.MethodPost, "/maintenance",
		map[string]any{}, nil))
	rts.Equal(403, rts.call(&rts.safety, http.MethodPost, "/trips",
		map[string]any{"title": "t"}, e))
	rts.Equal("Unauthorized", e.Kind)
	rts.Equal(200, rts.call(&rts.analyst, http.MethodGet, "/finance/kpis", nil, nil))
	rts.Equal(200, rts.call(&rts.safety, http.MethodGet, "/vehicles", nil, nil))
}

func (rts *RoutesTestSuite) TestBadRequests() {
	var errs map[string][]string
	rts.Equal(400, rts.call(&rts.manager, http.MethodPost, "/vehicles",
		map[string]any{"type": "VAN", "max_capacity": -1}, &errs))
	rts.Contains(errs["LicensePlate"][0], "'required' tag")
	rts.Contains(errs["MaxCapacity"][0], "'gte' tag")

	e := &errResp{}
	rts.Equal(400, rts.call(&rts.manager, http.MethodPost, "/vehicles",
		map[string]any{"license_plate": "X", "type": "PLANE"}, e))
	rts.Equal("BadRequest", e.Kind)

	errs = nil
	rts.Equal(400, rts.call(&rts.manager, http.MethodGet,
		"/trips?status=RUNNING&vehicle_id=42", nil, &errs))
	rts.Len(errs["status"], 1)
	rts.Len(errs["vehicle_id"], 1)

	errs = nil
	rts.Equal(400, rts.call(&rts.manager, http.MethodGet,
		"/trips/not-a-uuid", nil, &errs))
	rts.Equal([]string{"Path param tid is not UUID."}, errs["tid"])

	errs = nil
	rts.Equal(400, rts.call(&rts.manager, http.MethodPost, "/drivers",
		map[string]any{
			"actor_id": uuid.New(), "name": "D",
			"license_expiry": "31/12/2030",
		}, &errs))
	rts.Len(errs["license_expiry"], 1)

	errs = nil
	rts.Equal(400, rts.call(&rts.analyst, http.MethodGet,
		"/finance/fuel-cost?year=2024&month=13", nil, &errs))
	rts.Len(errs["Month"], 1)

	rts.Equal(404, rts.call(&rts.manager, http.MethodGet,
		"/trips/"+uuid.NewString(), nil, e))
	rts.Equal("NotFound", e.Kind)
}

func (rts *RoutesTestSuite) TestMetricsArePublic() {
	rts.Equal(200, rts.call(&rts.manager, http.MethodGet, "/vehicles", nil, nil))
	w := httptest.NewRecorder()
	rts.Gin.ServeHTTP(w, httptest.NewRequest(http.MethodGet, gin.MetricsPath, nil))
	rts.Equal(200, w.Code)
	body := w.Body.String()
	rts.Contains(body, "fleetflow_http_requests_total")
	rts.Contains(body, `route="`+routes.BasePath+`/vehicles"`)
}

func (rts *RoutesTestSuite) TestTripLifecycle() {
	v := &model.Vehicle{}
	rts.Equal(201, rts.call(&rts.manager, http.MethodPost, "/vehicles",
		map[string]any{
			"name": "Truck 1", "license_plate": "FF-001",
			"type": "TRUCK", "max_capacity": 1000,
			"acquisition_cost": 20000, "odometer": 100,
		}, v))
	rts.Equal(model.VehicleStatusAvailable, v.Status)
	e := &errResp{}
	rts.Equal(409, rts.call(&rts.manager, http.MethodPost, "/vehicles",
		map[string]any{"license_plate": "FF-001", "type": "VAN"}, e))
	rts.Equal("Conflict", e.Kind)

	driverActor := model.Actor{ID: uuid.New(), Role: model.RoleDispatcher}
	d := &model.Driver{}
	rts.Equal(201, rts.call(&rts.safety, http.MethodPost, "/drivers",
		map[string]any{
			"actor_id": driverActor.ID, "name": "Dana",
			"license_expiry": "2099-12-31", "safety_score": 90,
		}, d))
	rts.Equal(model.DriverStatusOnDuty, d.Status)

	heavy := &model.Trip{}
	rts.Equal(201, rts.call(&rts.dispatcher, http.MethodPost, "/trips",
		map[string]any{
			"title": "Too heavy", "vehicle_id": v.ID, "driver_id": d.ID,
			"cargo_weight": 1500,
		}, heavy))
	heavyPath := "/trips/" + heavy.ID.String()
	rts.Equal(422, rts.moveTo(&rts.dispatcher, heavyPath, "DISPATCHED", e))
	rts.Equal("CapacityExceeded", e.Kind)
	rts.Equal(409, rts.moveTo(&rts.dispatcher, heavyPath, "COMPLETED", e))
	rts.Equal("InvalidTransition", e.Kind)

	trip := &model.Trip{}
	rts.Equal(201, rts.call(&rts.dispatcher, http.MethodPost, "/trips",
		map[string]any{
			"title": "Deliver", "priority": "HIGH",
			"vehicle_id": v.ID, "driver_id": d.ID,
			"cargo_weight": 500, "revenue": 3000,
		}, trip))
	rts.Equal(model.TripStatusDraft, trip.Status)
	rts.Equal(model.PriorityHigh, trip.Priority)
	path := "/trips/" + trip.ID.String()

	rts.Equal(200, rts.moveTo(&rts.dispatcher, path, "DISPATCHED", trip))
	rts.Equal(model.TripStatusDispatched, trip.Status)
	var vs []model.Vehicle
	rts.Equal(200, rts.call(&rts.analyst, http.MethodGet,
		"/vehicles?status=ON_TRIP", nil, &vs))
	rts.Len(vs, 1)
	rts.Equal(409, rts.call(&rts.manager, http.MethodPost,
		"/vehicles/"+v.ID.String()+"/retire", nil, e))
	rts.Equal("ResourceConflict", e.Kind)

	rts.Equal(403, rts.moveTo(&rts.dispatcher, path, "IN_PROGRESS", e))
	rts.Equal("Unauthorized", e.Kind)
	rts.Equal(200, rts.moveTo(&driverActor, path, "IN_PROGRESS", trip))
	rts.Require().NotNil(trip.StartOdometer)
	rts.Equal(100.0, *trip.StartOdometer)

	fl := &model.FuelLog{}
	rts.Equal(201, rts.call(&rts.dispatcher, http.MethodPost, "/fuel",
		map[string]any{
			"vehicle_id": v.ID, "trip_id": trip.ID,
			"liters": 40, "cost": 80, "odometer_reading": 350,
		}, fl))
	rts.Equal(350.0, fl.OdometerReading)
	rts.Equal(422, rts.call(&rts.dispatcher, http.MethodPost, "/fuel",
		map[string]any{
			"vehicle_id": v.ID, "liters": 10, "cost": 20,
			"odometer_reading": 300,
		}, e))
	rts.Equal("OdometerRegression", e.Kind)

	rts.Equal(200, rts.moveTo(&driverActor, path, "COMPLETED", trip))
	rts.Require().NotNil(trip.EndOdometer)
	rts.Equal(350.0, *trip.EndOdometer)

	var as []model.ActivityLog
	rts.Equal(200, rts.call(&rts.safety, http.MethodGet,
		path+"/activity", nil, &as))
	rts.Require().Len(as, 3)
	rts.Equal("Status changed to DISPATCHED", as[0].Action)
	rts.Equal(driverActor.ID, as[2].PerformedBy)

	var ts []model.Trip
	rts.Equal(200, rts.call(&rts.safety, http.MethodGet,
		"/trips?status=COMPLETED&driver_id="+d.ID.String(), nil, &ts))
	rts.Require().Len(ts, 1)
	rts.Equal(trip.ID, ts[0].ID)

	r := &model.FinancialReport{}
	rts.Equal(200, rts.call(&rts.analyst, http.MethodGet,
		"/finance/report", nil, r))
	rts.Equal(3000.0, r.Totals.Revenue)
	rts.Equal(20080.0, r.Totals.OperationalCost)

	rts.Equal(1.0, testutil.ToFloat64(
		rts.Metrics.Transitions("DISPATCHED", "applied"),
	))
	rts.Equal(1.0, testutil.ToFloat64(
		rts.Metrics.Transitions("DISPATCHED", "CapacityExceeded"),
	))
	rts.Equal(1.0, testutil.ToFloat64(
		rts.Metrics.Transitions("IN_PROGRESS", "Unauthorized"),
	))
}

func (rts *RoutesTestSuite) TestMaintenanceAndRetirement() {
	v := &model.Vehicle{}
	rts.Equal(201, rts.call(&rts.manager, http.MethodPost, "/vehicles",
		map[string]any{"license_plate": "FF-002", "type": "VAN"}, v))

	m := &model.MaintenanceLog{}
	rts.Equal(201, rts.call(&rts.safety, http.MethodPost, "/maintenance",
		map[string]any{
			"vehicle_id": v.ID, "description": "brakes", "cost": 250,
		}, m))
	rts.Equal(model.MaintenanceStatusOpen, m.Status)
	var vs []model.Vehicle
	rts.Equal(200, rts.call(&rts.safety, http.MethodGet,
		"/vehicles?status=IN_SHOP", nil, &vs))
	rts.Len(vs, 1)

	e := &errResp{}
	rts.Equal(409, rts.call(&rts.manager, http.MethodPost, "/maintenance",
		map[string]any{"vehicle_id": v.ID, "description": "oil"}, e))
	rts.Equal("ActiveRecordExists", e.Kind)

	closePath := "/maintenance/" + m.ID.String() + "/close"
	rts.Equal(200, rts.call(&rts.safety, http.MethodPost, closePath, nil, m))
	rts.Equal(model.MaintenanceStatusClosed, m.Status)
	rts.Equal(409, rts.call(&rts.safety, http.MethodPost, closePath, nil, e))
	rts.Equal("InvalidTransition", e.Kind)

	var ms []model.MaintenanceLog
	rts.Equal(200, rts.call(&rts.dispatcher, http.MethodGet,
		"/maintenance?status=CLOSED&vehicle_id="+v.ID.String(), nil, &ms))
	rts.Len(ms, 1)

	rts.Equal(200, rts.call(&rts.manager, http.MethodPost,
		"/vehicles/"+v.ID.String()+"/retire", nil, v))
	rts.Equal(model.VehicleStatusRetired, v.Status)
	rts.True(v.Retired)

	d := &model.Driver{}
	rts.Equal(201, rts.call(&rts.manager, http.MethodPost, "/drivers",
		map[string]any{
			"actor_id": uuid.New(), "name": "Sam",
			"license_expiry": "2030-01-01",
		}, d))
	rts.Equal(200, rts.call(&rts.safety, http.MethodPatch,
		"/drivers/"+d.ID.String(),
		map[string]any{"status": "SUSPENDED"}, d))
	rts.Equal(model.DriverStatusSuspended, d.Status)
	var ds []model.Driver
	rts.Equal(200, rts.call(&rts.analyst, http.MethodGet,
		"/drivers?status=SUSPENDED", nil, &ds))
	rts.Len(ds, 1)

	k := &model.FleetKPIs{}
	rts.Equal(200, rts.call(&rts.manager, http.MethodGet,
		"/finance/kpis", nil, k))
	rts.Equal(250.0, k.OperationalCost)
	var top []model.VehicleFinancials
	rts.Equal(200, rts.call(&rts.manager, http.MethodGet,
		"/finance/top-cost?n=1", nil, &top))
	rts.Len(top, 1)
	rollups := &model.MonthlyRollups{}
	rts.Equal(200, rts.call(&rts.manager, http.MethodGet,
		"/finance/rollups", nil, rollups))
	rts.Len(rollups.MaintenanceCostByMonth, 1)
}

// moveTo requests the trip at path to move to status.
func (rts *RoutesTestSuite) moveTo(
	a *model.Actor, path, status string, res any,
) int {
	return rts.call(a, http.MethodPatch, path,
		map[string]string{"status": status}, res)
}
