package controllers

import (
	"IPDLedger/handlers"
	"IPDLedger/middlewares"
	"IPDLedger/models"

	"github.com/gin-gonic/gin"
)

// allStaff may read patients, admissions, ledgers and beds.
var allStaff = []string{models.RoleAdmin, models.RoleDoctor, models.RoleNurse, models.RoleReceptionist}

func SetupPatientRoutes(router *gin.Engine, auth gin.HandlerFunc, patientHandler *handlers.PatientHandler) {
	patients := router.Group("/patients", auth)

	patients.POST("", middlewares.RequireRoles(models.RoleAdmin, models.RoleReceptionist), patientHandler.CreatePatient)
	patients.GET("/:id", middlewares.RequireRoles(allStaff...), patientHandler.GetPatientByID)
	patients.GET("", middlewares.RequireRoles(allStaff...), patientHandler.GetAllPatients)
}
