package handlers

import (
	"IPDLedger/middlewares"
	"IPDLedger/models"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type FinalizeService interface {
	Finalize(ctx context.Context, actor models.Actor, admissionID string) (*models.Bill, error)
	GetBill(ctx context.Context, id string) (*models.Bill, error)
}

type BillHandler struct {
	service FinalizeService
}

func NewBillHandler(service FinalizeService) *BillHandler {
	return &BillHandler{service: service}
}

// Finalize handles POST /finalize and closes the admission into a bill.
func (h *BillHandler) Finalize(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req struct {
		AdmissionID string `json:"admissionId"`
	}
	if !bindJSON(c, &req, false) {
		return
	}

	bill, err := h.service.Finalize(c.Request.Context(), a, req.AdmissionID)
	if err != nil {
		middlewares.HandleError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"bill": bill}, http.StatusCreated)
}

func (h *BillHandler) GetBill(c *gin.Context) {
	bill, err := h.service.GetBill(c.Request.Context(), c.Param("id"))
	if err != nil {
		middlewares.HandleError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"bill": bill}, http.StatusOK)
}
