package services

import (
	"IPDLedger/apperr"
	"IPDLedger/models"
	"IPDLedger/repositories"
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// SummaryItemName labels the single line item of a closing bill.
const SummaryItemName = "IPD Admission Charges (ledger summary)"

// BillNotifier tells the patient about a closing bill.
type BillNotifier interface {
	SendBillSummary(ctx context.Context, patient *models.Patient, bill *models.Bill) error
}

// notifyTimeout bounds one bill notification.
const notifyTimeout = 30 * time.Second

type FinalizeService struct {
	admissions repositories.AdmissionRepository
	bills      repositories.BillRepository
	notifier   BillNotifier
	log        zerolog.Logger
	pending    sync.WaitGroup
}

// NewFinalizeService wires the finalizer. notifier may be nil.
func NewFinalizeService(admissions repositories.AdmissionRepository, bills repositories.BillRepository, notifier BillNotifier, log zerolog.Logger) *FinalizeService {
	return &FinalizeService{
		admissions: admissions,
		bills:      bills,
		notifier:   notifier,
		log:        log.With().Str("component", "finalize").Logger(),
	}
}

// Finalize closes a discharged admission's ledger into one bill. An admission
// is billed once, and never while it is still ACTIVE.
func (s *FinalizeService) Finalize(ctx context.Context, actor models.Actor, admissionID string) (*models.Bill, error) {
	if actor.ID == "" {
		return nil, invalid(errors.New("acting user is required"))
	}
	admissionID = strings.TrimSpace(admissionID)
	if admissionID == "" {
		return nil, invalid(errors.New("admissionId is required"))
	}

	admission, err := s.admissions.GetByID(ctx, admissionID)
	if err != nil {
		return nil, err
	}
	if admission.Status == models.AdmissionActive {
		return nil, errors.Wrapf(apperr.ErrConflict, "admission %s is still active, discharge it first", admissionID)
	}

	bill, err := s.bills.CreateForAdmission(ctx, admissionID, func(locked *models.Admission, txns []models.BillingTransaction) *models.Bill {
		return BuildClosingBill(locked, Accumulate(txns), actor.ID)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("admission_id", admissionID).
		Str("bill_number", bill.BillNumber).
		Str("final_amount", bill.FinalAmount.String()).
		Str("status", bill.PaymentStatus).
		Msg("Admission finalized")

	s.notify(ctx, admission.Patient, bill)
	return bill, nil
}

// notify sends the bill summary in the background so a slow mail server does
// not hold up the response.
func (s *FinalizeService) notify(ctx context.Context, patient *models.Patient, bill *models.Bill) {
	if s.notifier == nil || patient == nil {
		return
	}
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
		defer cancel()
		if err := s.notifier.SendBillSummary(ctx, patient, bill); err != nil {
			s.log.Warn().Err(err).Str("bill_id", bill.ID).Msg("Failed to send bill summary")
		}
	}()
}

// Wait blocks until every queued bill notification has finished.
func (s *FinalizeService) Wait() {
	s.pending.Wait()
}

// BuildClosingBill maps a ledger summary onto a bill with one summary line.
// Tax and discount are not computed.
func BuildClosingBill(admission *models.Admission, summary models.LedgerSummary, createdBy string) *models.Bill {
	paid := summary.TotalDeposits.Add(summary.TotalPayments)
	status := models.BillPending
	if summary.NetDue.IsZero() {
		status = models.BillPaid
	}

	admissionID := admission.ID
	return &models.Bill{
		AdmissionID:    &admissionID,
		PatientID:      admission.PatientID,
		DoctorID:       admission.AdmittedBy,
		TotalAmount:    summary.TotalCharges,
		CGST:           decimal.Zero,
		SGST:           decimal.Zero,
		DiscountAmount: decimal.Zero,
		FinalAmount:    summary.TotalCharges,
		PaymentStatus:  status,
		PaidAmount:     paid,
		BalanceAmount:  summary.NetDue,
		Notes:          "Closing bill for IPD admission " + admission.ID,
		CreatedBy:      createdBy,
		Items: []models.BillItem{{
			ItemType:   "IPD",
			ItemName:   SummaryItemName,
			Quantity:   1,
			UnitPrice:  summary.TotalCharges,
			TotalPrice: summary.TotalCharges,
			GSTRate:    decimal.Zero,
		}},
	}
}

// GetBill returns a bill with its items.
func (s *FinalizeService) GetBill(ctx context.Context, id string) (*models.Bill, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, invalid(errors.New("bill id is required"))
	}
	return s.bills.GetByID(ctx, id)
}
