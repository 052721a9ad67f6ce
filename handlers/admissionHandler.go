package handlers

import (
	"IPDLedger/middlewares"
	"IPDLedger/models"
	"IPDLedger/services"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AdmissionService interface {
	Admit(ctx context.Context, in services.AdmitInput) (*models.Admission, error)
	UpdateStatus(ctx context.Context, in services.UpdateAdmissionInput) (*models.Admission, error)
	Get(ctx context.Context, id string) (*models.Admission, error)
	List(ctx context.Context, status string) ([]models.Admission, error)
}

type AdmissionHandler struct {
	service AdmissionService
}

func NewAdmissionHandler(service AdmissionService) *AdmissionHandler {
	return &AdmissionHandler{service: service}
}

func (h *AdmissionHandler) Admit(c *gin.Context) {
	var in services.AdmitInput
	if !bindJSON(c, &in, false) {
		return
	}
	admission, err := h.service.Admit(c.Request.Context(), in)
	if err != nil {
		middlewares.HandleError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"admission": admission}, http.StatusCreated)
}

// UpdateStatus handles PUT /admissions. Status DISCHARGED releases the bed.
func (h *AdmissionHandler) UpdateStatus(c *gin.Context) {
	var in services.UpdateAdmissionInput
	if !bindJSON(c, &in, false) {
		return
	}
	admission, err := h.service.UpdateStatus(c.Request.Context(), in)
	if err != nil {
		middlewares.HandleError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"admission": admission}, http.StatusOK)
}

func (h *AdmissionHandler) GetAdmission(c *gin.Context) {
	admission, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		middlewares.HandleError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"admission": admission}, http.StatusOK)
}

func (h *AdmissionHandler) ListAdmissions(c *gin.Context) {
	admissions, err := h.service.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		middlewares.HandleError(c, err)
		return
	}
	if admissions == nil {
		admissions = []models.Admission{}
	}
	middlewares.RespondJSON(c, gin.H{"admissions": admissions}, http.StatusOK)
}
