// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package vehiclesrs realizes the vehicles resource of the fleet
// registry.
package vehiclesrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/fleetflow/pkg/adapter/restful/gin/authn"
	"github.com/momeni/fleetflow/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/fleetflow/pkg/core/model"
	"github.com/momeni/fleetflow/pkg/core/usecase/fleetuc"
)

type resource struct {
	fleet func() *fleetuc.UseCase
}

// Register instantiates a resource adapting the fleet use case with
// the relevant REST APIs including:
//  1. POST request to /api/ffweb/v1/vehicles in order to register
//     a vehicle (fleet managers only),
//  2. GET request to /api/ffweb/v1/vehicles for listing vehicles,
//  3. POST request to /api/ffweb/v1/vehicles/:vid/retire in order to
//     retire a vehicle (fleet managers only).
func Register(r *gin.RouterGroup, fleet func() *fleetuc.UseCase) {
	rs := &resource{fleet: fleet}
	managers := authn.Require(model.RoleFleetManager)
	r.POST("vehicles", managers, rs.RegisterVehicle)
	r.GET("vehicles", rs.ListVehicles)
	r.POST("vehicles/:vid/retire", managers, rs.RetireVehicle)
}

func (rs *resource) RegisterVehicle(c *gin.Context) {
	v := DserRegisterVehicleReq(c)
	if v == nil {
		return
	}
	created, err := rs.fleet().RegisterVehicle(c, *v)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (rs *resource) ListVehicles(c *gin.Context) {
	f := DserListVehiclesReq(c)
	if f == nil {
		return
	}
	vs, err := rs.fleet().ListVehicles(c, *f)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, vs)
}

func (rs *resource) RetireVehicle(c *gin.Context) {
	vid, ok := serdser.PathID(c, "vid")
	if !ok {
		return
	}
	v, err := rs.fleet().RetireVehicle(c, vid)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}
