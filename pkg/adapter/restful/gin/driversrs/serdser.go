package driversrs

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/momeni/fleetflow/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/fleetflow/pkg/core/model"
)

// dateLayout is the wire format of license expiry dates.
const dateLayout = time.DateOnly

type registerDriverReq struct {
	ActorID       uuid.UUID          `json:"actor_id" binding:"required"`
	Name          string             `json:"name" binding:"required,max=100"`
	LicenseExpiry string             `json:"license_expiry" binding:"required"`
	SafetyScore   float64            `json:"safety_score" binding:"gte=0,lte=100"`
	Status        model.DriverStatus `json:"status"`
}

func DserRegisterDriverReq(c *gin.Context) *model.Driver {
	req := &registerDriverReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil
	}
	var errs map[string][]string
	expiry, err := time.Parse(dateLayout, req.LicenseExpiry)
	serdser.Assert(
		&errs, err == nil, "license_expiry",
		"The license_expiry must be formatted as YYYY-MM-DD.",
	)
	if serdser.Invalid(c, errs) {
		return nil
	}
	return &model.Driver{
		ActorID:       req.ActorID,
		Name:          req.Name,
		LicenseExpiry: expiry,
		SafetyScore:   req.SafetyScore,
		Status:        req.Status,
	}
}

type setDriverStatusReq struct {
	Status model.DriverStatus `json:"status" binding:"required"`
}

func DserSetDriverStatusReq(c *gin.Context) (uuid.UUID, model.DriverStatus, bool) {
	did, ok := serdser.PathID(c, "did")
	if !ok {
		return uuid.Nil, 0, false
	}
	req := &setDriverStatusReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return uuid.Nil, 0, false
	}
	return did, req.Status, true
}

type listDriversReq struct {
	Status string `form:"status"`
}

func DserListDriversReq(c *gin.Context) *model.DriverFilter {
	req := &listDriversReq{}
	if ok := serdser.Bind(c, req, binding.Query); !ok {
		return nil
	}
	var errs map[string][]string
	f := &model.DriverFilter{
		Status: serdser.OptParse(
			&errs, "status", req.Status, model.ParseDriverStatus,
		),
	}
	if serdser.Invalid(c, errs) {
		return nil
	}
	return f
}
