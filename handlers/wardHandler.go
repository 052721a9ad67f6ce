package handlers

import (
	"IPDLedger/middlewares"
	"IPDLedger/models"
	"IPDLedger/services"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type WardService interface {
	CreateWard(ctx context.Context, ward *models.Ward) error
	ListWards(ctx context.Context) ([]models.Ward, error)
	CreateBedType(ctx context.Context, bedType *models.BedType) error
	ListBedTypes(ctx context.Context) ([]models.BedType, error)
	CreateBed(ctx context.Context, bed *models.Bed) error
	ListBeds(ctx context.Context, status string) ([]models.Bed, error)
	UpdateBedStatus(ctx context.Context, id string, in services.BedStatusInput) (*models.Bed, error)
}

type WardHandler struct {
	service WardService
}

func NewWardHandler(service WardService) *WardHandler {
	return &WardHandler{service: service}
}

func (h *WardHandler) CreateWard(c *gin.Context) {
	var ward models.Ward
	if !bindJSON(c, &ward, false) {
		return
	}
	if err := h.service.CreateWard(c.Request.Context(), &ward); err != nil {
		middlewares.HandleError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"ward": ward}, http.StatusCreated)
}

func (h *WardHandler) ListWards(c *gin.Context) {
	wards, err := h.service.ListWards(c.Request.Context())
	if err != nil {
		middlewares.HandleError(c, err)
		return
	}
	if wards == nil {
		wards = []models.Ward{}
	}
	middlewares.RespondJSON(c, gin.H{"wards": wards}, http.StatusOK)
}

func (h *WardHandler) CreateBedType(c *gin.Context) {
	var bedType models.BedType
	if !bindJSON(c, &bedType, false) {
		return
	}
	if err := h.service.CreateBedType(c.Request.Context(), &bedType); err != nil {
		middlewares.HandleError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"bedType": bedType}, http.StatusCreated)
}

func (h *WardHandler) ListBedTypes(c *gin.Context) {
	bedTypes, err := h.service.ListBedTypes(c.Request.Context())
	if err != nil {
		middlewares.HandleError(c, err)
		return
	}
	if bedTypes == nil {
		bedTypes = []models.BedType{}
	}
	middlewares.RespondJSON(c, gin.H{"bedTypes": bedTypes}, http.StatusOK)
}

func (h *WardHandler) CreateBed(c *gin.Context) {
	var bed models.Bed
	if !bindJSON(c, &bed, false) {
		return
	}
	if err := h.service.CreateBed(c.Request.Context(), &bed); err != nil {
		middlewares.HandleError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"bed": bed}, http.StatusCreated)
}

// ListBeds handles GET /beds?status=
func (h *WardHandler) ListBeds(c *gin.Context) {
	beds, err := h.service.ListBeds(c.Request.Context(), c.Query("status"))
	if err != nil {
		middlewares.HandleError(c, err)
		return
	}
	if beds == nil {
		beds = []models.Bed{}
	}
	middlewares.RespondJSON(c, gin.H{"beds": beds}, http.StatusOK)
}

func (h *WardHandler) UpdateBedStatus(c *gin.Context) {
	var in services.BedStatusInput
	if !bindJSON(c, &in, false) {
		return
	}
	bed, err := h.service.UpdateBedStatus(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		middlewares.HandleError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"bed": bed}, http.StatusOK)
}
