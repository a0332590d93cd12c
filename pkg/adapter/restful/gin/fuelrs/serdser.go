package fuelrs

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/momeni/fleetflow/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/fleetflow/pkg/core/model"
)

type recordFuelReq struct {
	VehicleID       uuid.UUID  `json:"vehicle_id" binding:"required"`
	TripID          *uuid.UUID `json:"trip_id"`
	Liters          float64    `json:"liters" binding:"gt=0"`
	Cost            float64    `json:"cost" binding:"gte=0"`
	OdometerReading float64    `json:"odometer_reading" binding:"gte=0"`
	Date            *time.Time `json:"date"`
}

func DserRecordFuelReq(c *gin.Context) *model.FuelLog {
	req := &recordFuelReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil
	}
	fl := &model.FuelLog{
		VehicleID:       req.VehicleID,
		TripID:          req.TripID,
		Liters:          req.Liters,
		Cost:            req.Cost,
		OdometerReading: req.OdometerReading,
	}
	if req.Date != nil {
		fl.Date = *req.Date
	}
	return fl
}

type listReq struct {
	VehicleID string `form:"vehicle_id"`
	TripID    string `form:"trip_id"`
	From      string `form:"from"`
	To        string `form:"to"`
}

func DserListReq(c *gin.Context) *model.FuelFilter {
	req := &listReq{}
	if ok := serdser.Bind(c, req, binding.Query); !ok {
		return nil
	}
	var errs map[string][]string
	f := &model.FuelFilter{
		VehicleID: serdser.OptUUID(&errs, "vehicle_id", req.VehicleID),
		TripID:    serdser.OptUUID(&errs, "trip_id", req.TripID),
		From:      optTime(&errs, "from", req.From),
		To:        optTime(&errs, "to", req.To),
	}
	if !f.From.IsZero() && !f.To.IsZero() {
		serdser.Assert(
			&errs, f.From.Before(f.To), "from/to",
			"The from instant must be before the to instant.",
		)
	}
	if serdser.Invalid(c, errs) {
		return nil
	}
	return f
}

func optTime(errs *map[string][]string, name, s string) time.Time {
	return serdser.OptParse(errs, name, s, func(s string) (time.Time, error) {
		return time.Parse(time.RFC3339, s)
	})
}
