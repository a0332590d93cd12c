// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package driversrs realizes the drivers resource of the fleet
// registry. Drivers may be registered and have their duty status
// changed by fleet managers and safety officers.
package driversrs

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

// Register adds the POST /drivers, PATCH /drivers/:did, and
// GET /drivers routes to r.
func Register(r *gin.RouterGroup, fleet func() *fleetuc.UseCase) {
	rs := &resource{fleet: fleet}
	staff := authn.Require(model.RoleFleetManager, model.RoleSafetyOfficer)
	r.POST("drivers", staff, rs.RegisterDriver)
	r.PATCH("drivers/:did", staff, rs.SetDriverStatus)
	r.GET("drivers", rs.ListDrivers)
}

func (rs *resource) RegisterDriver(c *gin.Context) {
	d := DserRegisterDriverReq(c)
	if d == nil {
		return
	}
	created, err := rs.fleet().RegisterDriver(c, *d)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (rs *resource) SetDriverStatus(c *gin.Context) {
	did, s, ok := DserSetDriverStatusReq(c)
	if !ok {
		return
	}
	d, err := rs.fleet().SetDriverStatus(c, did, s)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (rs *resource) ListDrivers(c *gin.Context) {
	f := DserListDriversReq(c)
	if f == nil {
		return
	}
	ds, err := rs.fleet().ListDrivers(c, *f)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, ds)
}
