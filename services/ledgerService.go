package services

import (
	"IPDLedger/apperr"
	"IPDLedger/models"
	"IPDLedger/repositories"
	"context"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// LedgerView is an admission's ledger as shown to staff.
type LedgerView struct {
	Admission    *models.Admission           `json:"admission"`
	Transactions []models.BillingTransaction `json:"transactions"`
	Summary      models.LedgerSummary        `json:"summary"`
}

// PostTransactionInput is an ad hoc ledger entry. PatientID defaults to the admission's patient.
type PostTransactionInput struct {
	AdmissionID   string              `json:"admissionId"`
	PatientID     string              `json:"patientId"`
	Type          string              `json:"type"`
	Amount        decimal.NullDecimal `json:"amount"`
	Description   string              `json:"description"`
	Reference     string              `json:"reference"`
	PaymentMethod string              `json:"paymentMethod"`
}

func (in PostTransactionInput) Validate() error {
	return validation.Errors{
		"admissionId": validation.Validate(strings.TrimSpace(in.AdmissionID), validation.Required),
		"type":        validation.Validate(strings.TrimSpace(in.Type), validation.Required),
		"amount":      validateAmount(in.Amount),
	}.Filter()
}

func validateAmount(amount decimal.NullDecimal) error {
	if !amount.Valid {
		return validation.ErrRequired
	}
	if amount.Decimal.IsNegative() {
		return errors.New("must not be negative")
	}
	return nil
}

type LedgerService struct {
	admissions repositories.AdmissionRepository
	ledger     repositories.LedgerRepository
	now        func() time.Time
}

func NewLedgerService(admissions repositories.AdmissionRepository, ledger repositories.LedgerRepository) *LedgerService {
	return &LedgerService{admissions: admissions, ledger: ledger, now: time.Now}
}

// Accumulate folds transactions into the five category totals and the clamped net due.
// Types are compared upper-cased; unknown types are left out of every total.
func Accumulate(txns []models.BillingTransaction) models.LedgerSummary {
	summary := models.LedgerSummary{
		TotalCharges:     decimal.Zero,
		TotalDeposits:    decimal.Zero,
		TotalPayments:    decimal.Zero,
		TotalRefunds:     decimal.Zero,
		TotalAdjustments: decimal.Zero,
	}
	for _, txn := range txns {
		switch strings.ToUpper(strings.TrimSpace(txn.Type)) {
		case models.TxnCharge:
			summary.TotalCharges = summary.TotalCharges.Add(txn.Amount)
		case models.TxnDeposit:
			summary.TotalDeposits = summary.TotalDeposits.Add(txn.Amount)
		case models.TxnPayment:
			summary.TotalPayments = summary.TotalPayments.Add(txn.Amount)
		case models.TxnRefund:
			summary.TotalRefunds = summary.TotalRefunds.Add(txn.Amount)
		case models.TxnAdjustment:
			summary.TotalAdjustments = summary.TotalAdjustments.Add(txn.Amount)
		}
	}

	// Overpayment shows as nothing due, never as a credit.
	netDue := summary.TotalCharges.
		Sub(summary.TotalDeposits.Add(summary.TotalPayments)).
		Add(summary.TotalRefunds).
		Sub(summary.TotalAdjustments)
	if netDue.IsNegative() {
		netDue = decimal.Zero
	}
	summary.NetDue = netDue
	return summary
}

// GetLedger loads the admission with its joins, its transactions and their summary.
func (s *LedgerService) GetLedger(ctx context.Context, admissionID string) (*LedgerView, error) {
	admissionID = strings.TrimSpace(admissionID)
	if admissionID == "" {
		return nil, invalid(errors.New("admissionId is required"))
	}

	admission, err := s.admissions.GetByID(ctx, admissionID)
	if err != nil {
		return nil, err
	}
	txns, err := s.ledger.ListByAdmission(ctx, admissionID)
	if err != nil {
		return nil, err
	}
	if txns == nil {
		txns = []models.BillingTransaction{}
	}

	return &LedgerView{
		Admission:    admission,
		Transactions: txns,
		Summary:      Accumulate(txns),
	}, nil
}

// PostTransaction appends one ledger entry attributed to actor.
func (s *LedgerService) PostTransaction(ctx context.Context, actor models.Actor, in PostTransactionInput) (*models.BillingTransaction, error) {
	if actor.ID == "" {
		return nil, invalid(errors.New("acting user is required"))
	}
	if err := in.Validate(); err != nil {
		return nil, invalid(err)
	}

	admission, err := s.admissions.GetByID(ctx, strings.TrimSpace(in.AdmissionID))
	if err != nil {
		return nil, err
	}

	patientID := strings.TrimSpace(in.PatientID)
	if patientID == "" {
		patientID = admission.PatientID
	}

	txn := &models.BillingTransaction{
		AdmissionID:   admission.ID,
		PatientID:     patientID,
		Type:          strings.ToUpper(strings.TrimSpace(in.Type)),
		Amount:        in.Amount.Decimal,
		Description:   in.Description,
		Reference:     in.Reference,
		PaymentMethod: in.PaymentMethod,
		PaymentStatus: models.PaymentCompleted,
		ProcessedBy:   actor.ID,
		ProcessedAt:   s.now(),
	}
	if err := s.ledger.Create(ctx, txn); err != nil {
		return nil, errors.Wrap(err, "post ledger transaction")
	}
	return txn, nil
}

// invalid marks err as caller input error while keeping its message readable.
func invalid(err error) error {
	return fmt.Errorf("%w: %v", apperr.ErrValidation, err)
}
