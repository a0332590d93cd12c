// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package tripsrs realizes the trips resource, allowing the trip
// workflow REST APIs to be accepted and delegated to the trips use
// case. Role checks of the workflow are left to the use case, so the
// routes only require an authenticated actor.
package tripsrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/fleetflow/pkg/adapter/restful/gin/authn"
	"github.com/momeni/fleetflow/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/fleetflow/pkg/core/usecase/tripsuc"
)

type resource struct {
	trips func() *tripsuc.UseCase
}

// Register instantiates a resource adapting the trips use case with
// the relevant REST APIs including:
//  1. POST request to /api/ffweb/v1/trips in order to create a draft,
//  2. GET request to /api/ffweb/v1/trips for listing trips,
//  3. GET request to /api/ffweb/v1/trips/:tid for fetching a trip,
//  4. GET request to /api/ffweb/v1/trips/:tid/activity for fetching
//     the audit log of a trip,
//  5. PATCH request to /api/ffweb/v1/trips/:tid in order to move the
//     trip to another status.
//
// The trips function is called for each request, so use cases which
// are replaced by a configuration reload take effect immediately.
func Register(r *gin.RouterGroup, trips func() *tripsuc.UseCase) {
	rs := &resource{trips: trips}
	r.POST("trips", rs.CreateTrip)
	r.GET("trips", rs.ListTrips)
	r.GET("trips/:tid", rs.GetTrip)
	r.GET("trips/:tid/activity", rs.History)
	r.PATCH("trips/:tid", rs.Transition)
}

func (rs *resource) CreateTrip(c *gin.Context) {
	t := DserCreateTripReq(c)
	if t == nil {
		return
	}
	trip, err := rs.trips().CreateTrip(c, *t, authn.ActorOf(c))
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, trip)
}

func (rs *resource) ListTrips(c *gin.Context) {
	f := DserListTripsReq(c)
	if f == nil {
		return
	}
	ts, err := rs.trips().List(c, *f)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, ts)
}

func (rs *resource) GetTrip(c *gin.Context) {
	tid, ok := serdser.PathID(c, "tid")
	if !ok {
		return
	}
	t, err := rs.trips().Get(c, tid)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (rs *resource) History(c *gin.Context) {
	tid, ok := serdser.PathID(c, "tid")
	if !ok {
		return
	}
	as, err := rs.trips().History(c, tid)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, as)
}

func (rs *resource) Transition(c *gin.Context) {
	req := DserTransitionReq(c)
	if req == nil {
		return
	}
	t, err := rs.trips().Transition(
		c, req.TripID, req.Status, authn.ActorOf(c),
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}
