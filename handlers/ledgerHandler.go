package handlers

import (
	"IPDLedger/middlewares"
	"IPDLedger/models"
	"IPDLedger/services"
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type LedgerService interface {
	GetLedger(ctx context.Context, admissionID string) (*services.LedgerView, error)
	PostTransaction(ctx context.Context, actor models.Actor, in services.PostTransactionInput) (*models.BillingTransaction, error)
}

type BedChargeService interface {
	PostDailyCharges(ctx context.Context, actor models.Actor, admissionID string) ([]services.BedChargeResult, error)
}

type LedgerHandler struct {
	ledger     LedgerService
	bedCharges BedChargeService
}

func NewLedgerHandler(ledger LedgerService, bedCharges BedChargeService) *LedgerHandler {
	return &LedgerHandler{ledger: ledger, bedCharges: bedCharges}
}

// GetLedger handles GET /ledger?admissionId=
func (h *LedgerHandler) GetLedger(c *gin.Context) {
	view, err := h.ledger.GetLedger(c.Request.Context(), c.Query("admissionId"))
	if err != nil {
		middlewares.HandleError(c, err)
		return
	}
	middlewares.RespondJSON(c, view, http.StatusOK)
}

// PostTransaction handles POST /ledger
func (h *LedgerHandler) PostTransaction(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var in services.PostTransactionInput
	if !bindJSON(c, &in, false) {
		return
	}

	txn, err := h.ledger.PostTransaction(c.Request.Context(), a, in)
	if err != nil {
		middlewares.HandleError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"transaction": txn}, http.StatusCreated)
}

// PostBedCharges handles POST /ledger/bed-charge. Without an admissionId every ACTIVE admission is charged.
func (h *LedgerHandler) PostBedCharges(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req struct {
		AdmissionID string `json:"admissionId"`
	}
	if !bindJSON(c, &req, true) {
		return
	}
	if req.AdmissionID == "" {
		req.AdmissionID = strings.TrimSpace(c.Query("admissionId"))
	}

	results, err := h.bedCharges.PostDailyCharges(c.Request.Context(), a, req.AdmissionID)
	if err != nil {
		middlewares.HandleError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"results": results}, http.StatusOK)
}
