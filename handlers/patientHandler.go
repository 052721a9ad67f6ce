package handlers

import (
	"IPDLedger/middlewares"
	"IPDLedger/models"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type PatientService interface {
	Create(ctx context.Context, patient *models.Patient) error
	GetByID(ctx context.Context, id string) (*models.Patient, error)
	GetAll(ctx context.Context) ([]models.Patient, error)
}

type PatientHandler struct {
	service PatientService
}

func NewPatientHandler(service PatientService) *PatientHandler {
	return &PatientHandler{service: service}
}

func (h *PatientHandler) CreatePatient(c *gin.Context) {
	var patient models.Patient
	if !bindJSON(c, &patient, false) {
		return
	}
	if err := h.service.Create(c.Request.Context(), &patient); err != nil {
		middlewares.HandleError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"patient": patient}, http.StatusCreated)
}

func (h *PatientHandler) GetPatientByID(c *gin.Context) {
	patient, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		middlewares.HandleError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"patient": patient}, http.StatusOK)
}

func (h *PatientHandler) GetAllPatients(c *gin.Context) {
	patients, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		middlewares.HandleError(c, err)
		return
	}
	if patients == nil {
		patients = []models.Patient{}
	}
	middlewares.RespondJSON(c, gin.H{"patients": patients}, http.StatusOK)
}
