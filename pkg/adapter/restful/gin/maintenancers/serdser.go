package maintenancers

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/momeni/fleetflow/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/fleetflow/pkg/core/model"
)

type openReq struct {
	VehicleID   uuid.UUID `json:"vehicle_id" binding:"required"`
	Description string    `json:"description" binding:"required"`
	Cost        float64   `json:"cost" binding:"gte=0"`
}

func DserOpenReq(c *gin.Context) *openReq {
	req := &openReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil
	}
	return req
}

type listReq struct {
	VehicleID string `form:"vehicle_id"`
	Status    string `form:"status"`
}

func DserListReq(c *gin.Context) *model.MaintenanceFilter {
	req := &listReq{}
	if ok := serdser.Bind(c, req, binding.Query); !ok {
		return nil
	}
	var errs map[string][]string
	f := &model.MaintenanceFilter{
		VehicleID: serdser.OptUUID(&errs, "vehicle_id", req.VehicleID),
		Status: serdser.OptParse(
			&errs, "status", req.Status, model.ParseMaintenanceStatus,
		),
	}
	if serdser.Invalid(c, errs) {
		return nil
	}
	return f
}
