// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package fuelrs realizes the fuel logs resource.
package fuelrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/fleetflow/pkg/adapter/restful/gin/authn"
	"github.com/momeni/fleetflow/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/fleetflow/pkg/core/model"
	"github.com/momeni/fleetflow/pkg/core/usecase/fueluc"
)

type resource struct {
	fuel func() *fueluc.UseCase
}

// Register adds the POST /fuel and GET /fuel routes to r.
func Register(r *gin.RouterGroup, fuel func() *fueluc.UseCase) {
	rs := &resource{fuel: fuel}
	g := r.Group("fuel", authn.Require(
		model.RoleFleetManager, model.RoleDispatcher,
		model.RoleFinancialAnalyst,
	))
	g.POST("", rs.RecordFuel)
	g.GET("", rs.List)
}

func (rs *resource) RecordFuel(c *gin.Context) {
	fl := DserRecordFuelReq(c)
	if fl == nil {
		return
	}
	created, err := rs.fuel().RecordFuel(c, *fl)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (rs *resource) List(c *gin.Context) {
	f := DserListReq(c)
	if f == nil {
		return
	}
	fs, err := rs.fuel().List(c, *f)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, fs)
}
