package financers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/fleetflow/pkg/adapter/restful/gin/serdser"
)

type rawFuelCostReq struct {
	Year  int `form:"year" binding:"required,min=1900,max=9999"`
	Month int `form:"month" binding:"required,min=1,max=12"`
}

type fuelCostReq struct {
	Year  int
	Month time.Month
}

func DserFuelCostReq(c *gin.Context) *fuelCostReq {
	req := &rawFuelCostReq{}
	if ok := serdser.Bind(c, req, binding.Query); !ok {
		return nil
	}
	return &fuelCostReq{Year: req.Year, Month: time.Month(req.Month)}
}

type topCostReq struct {
	N int `form:"n,default=5" binding:"min=0,max=100"`
}

func DserTopCostReq(c *gin.Context) *int {
	req := &topCostReq{}
	if ok := serdser.Bind(c, req, binding.Query); !ok {
		return nil
	}
	return &req.N
}
