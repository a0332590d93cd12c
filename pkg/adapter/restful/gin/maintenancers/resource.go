// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package maintenancers realizes the maintenance resource which opens
// and closes the maintenance records of vehicles.
package maintenancers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/fleetflow/pkg/adapter/restful/gin/authn"
	"github.com/momeni/fleetflow/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/fleetflow/pkg/core/model"
	"github.com/momeni/fleetflow/pkg/core/usecase/maintenanceuc"
)

type resource struct {
	maintenance func() *maintenanceuc.UseCase
}

// Register instantiates a resource adapting the maintenance use case
// with the relevant REST APIs including:
//  1. POST request to /api/ffweb/v1/maintenance in order to open
//     a record and send its vehicle to the shop,
//  2. POST request to /api/ffweb/v1/maintenance/:mid/close in order
//     to close a record,
//  3. GET request to /api/ffweb/v1/maintenance for listing records.
func Register(
	r *gin.RouterGroup, maintenance func() *maintenanceuc.UseCase,
) {
	rs := &resource{maintenance: maintenance}
	staff := authn.Require(model.RoleFleetManager, model.RoleSafetyOfficer)
	r.POST("maintenance", staff, rs.Open)
	r.POST("maintenance/:mid/close", staff, rs.Close)
	r.GET("maintenance", rs.List)
}

func (rs *resource) Open(c *gin.Context) {
	req := DserOpenReq(c)
	if req == nil {
		return
	}
	m, err := rs.maintenance().Open(
		c, req.VehicleID, req.Description, req.Cost,
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (rs *resource) Close(c *gin.Context) {
	mid, ok := serdser.PathID(c, "mid")
	if !ok {
		return
	}
	m, err := rs.maintenance().Close(c, mid)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (rs *resource) List(c *gin.Context) {
	f := DserListReq(c)
	if f == nil {
		return
	}
	ms, err := rs.maintenance().List(c, *f)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, ms)
}
