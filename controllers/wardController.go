package controllers

import (
	"IPDLedger/handlers"
	"IPDLedger/middlewares"
	"IPDLedger/models"

	"github.com/gin-gonic/gin"
)

func SetupWardRoutes(router *gin.Engine, auth gin.HandlerFunc, wardHandler *handlers.WardHandler) {
	group := router.Group("", auth)
	manage := middlewares.RequireRoles(models.RoleAdmin, models.RoleNurse)
	read := middlewares.RequireRoles(allStaff...)

	group.POST("/wards", manage, wardHandler.CreateWard)
	group.GET("/wards", read, wardHandler.ListWards)

	group.POST("/bed-types", manage, wardHandler.CreateBedType)
	group.GET("/bed-types", read, wardHandler.ListBedTypes)

	group.POST("/beds", manage, wardHandler.CreateBed)
	group.GET("/beds", read, wardHandler.ListBeds)
	group.PUT("/beds/:id/status", manage, wardHandler.UpdateBedStatus)
}
