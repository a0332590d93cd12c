package vehiclesrs

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/fleetflow/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/fleetflow/pkg/core/model"
)

type registerVehicleReq struct {
	Name            string            `json:"name" binding:"max=100"`
	LicensePlate    string            `json:"license_plate" binding:"required,max=20"`
	Type            model.VehicleType `json:"type" binding:"required"`
	MaxCapacity     float64           `json:"max_capacity" binding:"gte=0"`
	AcquisitionCost float64           `json:"acquisition_cost" binding:"gte=0"`
	Odometer        float64           `json:"odometer" binding:"gte=0"`
}

func DserRegisterVehicleReq(c *gin.Context) *model.Vehicle {
	req := &registerVehicleReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil
	}
	return &model.Vehicle{
		Name:            req.Name,
		LicensePlate:    req.LicensePlate,
		Type:            req.Type,
		MaxCapacity:     req.MaxCapacity,
		AcquisitionCost: req.AcquisitionCost,
		Odometer:        req.Odometer,
	}
}

type listVehiclesReq struct {
	Status string `form:"status"`
	Type   string `form:"type"`
}

func DserListVehiclesReq(c *gin.Context) *model.VehicleFilter {
	req := &listVehiclesReq{}
	if ok := serdser.Bind(c, req, binding.Query); !ok {
		return nil
	}
	var errs map[string][]string
	f := &model.VehicleFilter{
		Status: serdser.OptParse(
			&errs, "status", req.Status, model.ParseVehicleStatus,
		),
		Type: serdser.OptParse(
			&errs, "type", req.Type, model.ParseVehicleType,
		),
	}
	if serdser.Invalid(c, errs) {
		return nil
	}
	return f
}
