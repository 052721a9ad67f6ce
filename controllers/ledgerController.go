package controllers

import (
	"IPDLedger/handlers"
	"IPDLedger/middlewares"
	"IPDLedger/models"

	"github.com/gin-gonic/gin"
)

// SetupLedgerRoutes registers the ledger, admission and billing routes with their roles.
func SetupLedgerRoutes(router *gin.Engine, auth gin.HandlerFunc, ledgerHandler *handlers.LedgerHandler, admissionHandler *handlers.AdmissionHandler, billHandler *handlers.BillHandler) {
	group := router.Group("", auth)
	read := middlewares.RequireRoles(allStaff...)

	group.GET("/ledger", read, ledgerHandler.GetLedger)
	group.POST("/ledger",
		middlewares.RequireRoles(models.RoleAdmin, models.RoleNurse, models.RoleReceptionist),
		ledgerHandler.PostTransaction)
	group.POST("/ledger/bed-charge",
		middlewares.RequireRoles(models.RoleAdmin, models.RoleNurse),
		ledgerHandler.PostBedCharges)

	group.POST("/admissions",
		middlewares.RequireRoles(models.RoleAdmin, models.RoleDoctor, models.RoleReceptionist),
		admissionHandler.Admit)
	group.PUT("/admissions",
		middlewares.RequireRoles(models.RoleAdmin, models.RoleDoctor, models.RoleNurse),
		admissionHandler.UpdateStatus)
	group.GET("/admissions", read, admissionHandler.ListAdmissions)
	group.GET("/admissions/:id", read, admissionHandler.GetAdmission)

	finalize := middlewares.RequireRoles(models.RoleAdmin, models.RoleReceptionist)
	group.POST("/finalize", finalize, billHandler.Finalize)
	group.POST("/ipd/finalize", finalize, billHandler.Finalize)
	group.GET("/bills/:id", read, billHandler.GetBill)
}
