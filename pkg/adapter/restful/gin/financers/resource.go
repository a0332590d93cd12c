// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package financers realizes the read-only finance resource which
// serves the fleet KPIs, the financial report, and the monthly
// rollups. Only fleet managers and financial analysts may read them.
package financers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/fleetflow/pkg/adapter/restful/gin/authn"
	"github.com/momeni/fleetflow/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/fleetflow/pkg/core/model"
	"github.com/momeni/fleetflow/pkg/core/usecase/financeuc"
)

type resource struct {
	finance func() *financeuc.UseCase
}

// Register instantiates a resource adapting the finance use case with
// the GET requests of /api/ffweb/v1/finance/{kpis,report,rollups} and
// the narrower /fuel-cost?year=&month= and /top-cost?n= queries.
func Register(r *gin.RouterGroup, finance func() *financeuc.UseCase) {
	rs := &resource{finance: finance}
	g := r.Group("finance", authn.Require(
		model.RoleFleetManager, model.RoleFinancialAnalyst,
	))
	g.GET("kpis", rs.KPIs)
	g.GET("report", rs.Report)
	g.GET("rollups", rs.Rollups)
	g.GET("fuel-cost", rs.FuelCost)
	g.GET("top-cost", rs.TopCost)
}

func (rs *resource) KPIs(c *gin.Context) {
	k, err := rs.finance().GetFleetKPIs(c)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, k)
}

func (rs *resource) Report(c *gin.Context) {
	r, err := rs.finance().GetFinancialReport(c)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (rs *resource) Rollups(c *gin.Context) {
	m, err := rs.finance().GetMonthlyRollups(c)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (rs *resource) FuelCost(c *gin.Context) {
	req := DserFuelCostReq(c)
	if req == nil {
		return
	}
	cost, err := rs.finance().FuelCostForMonth(c, req.Year, req.Month)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, model.MonthlyAmount{
		Month: model.Month{Year: req.Year, Month: req.Month}, Amount: cost,
	})
}

func (rs *resource) TopCost(c *gin.Context) {
	n := DserTopCostReq(c)
	if n == nil {
		return
	}
	vs, err := rs.finance().TopCostVehicles(c, *n)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, vs)
}
