package tripsrs

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/momeni/fleetflow/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/fleetflow/pkg/core/model"
)

type createTripReq struct {
	Title             string          `json:"title" binding:"required,max=200"`
	Description       string          `json:"description"`
	Origin            string          `json:"origin"`
	Destination       string          `json:"destination"`
	Priority          *model.Priority `json:"priority"`
	VehicleID         *uuid.UUID      `json:"vehicle_id"`
	DriverID          *uuid.UUID      `json:"driver_id"`
	CargoWeight       float64         `json:"cargo_weight" binding:"gte=0"`
	EstimatedFuelCost float64         `json:"estimated_fuel_cost" binding:"gte=0"`
	Revenue           float64         `json:"revenue" binding:"gte=0"`
}

func DserCreateTripReq(c *gin.Context) *model.Trip {
	req := &createTripReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil
	}
	t := &model.Trip{
		Title:             req.Title,
		Description:       req.Description,
		Origin:            req.Origin,
		Destination:       req.Destination,
		VehicleID:         req.VehicleID,
		DriverID:          req.DriverID,
		CargoWeight:       req.CargoWeight,
		EstimatedFuelCost: req.EstimatedFuelCost,
		Revenue:           req.Revenue,
	}
	if req.Priority != nil {
		t.Priority = *req.Priority
	}
	return t
}

type listTripsReq struct {
	Status    string `form:"status"`
	VehicleID string `form:"vehicle_id"`
	DriverID  string `form:"driver_id"`
}

func DserListTripsReq(c *gin.Context) *model.TripFilter {
	req := &listTripsReq{}
	if ok := serdser.Bind(c, req, binding.Query); !ok {
		return nil
	}
	var errs map[string][]string
	f := &model.TripFilter{
		Status: serdser.OptParse(
			&errs, "status", req.Status, model.ParseTripStatus,
		),
		VehicleID: serdser.OptUUID(&errs, "vehicle_id", req.VehicleID),
		DriverID:  serdser.OptUUID(&errs, "driver_id", req.DriverID),
	}
	if serdser.Invalid(c, errs) {
		return nil
	}
	return f
}

type transitionReq struct {
	Status model.TripStatus `json:"status" binding:"required"`
}

type tripTransitionReq struct {
	TripID uuid.UUID
	Status model.TripStatus
}

func DserTransitionReq(c *gin.Context) *tripTransitionReq {
	tid, ok := serdser.PathID(c, "tid")
	if !ok {
		return nil
	}
	req := &transitionReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil
	}
	return &tripTransitionReq{TripID: tid, Status: req.Status}
}
