package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types folded by the ledger.
const (
	TxnCharge     = "CHARGE"
	TxnDeposit    = "DEPOSIT"
	TxnPayment    = "PAYMENT"
	TxnRefund     = "REFUND"
	TxnAdjustment = "ADJUSTMENT"
)

const (
	PaymentCompleted = "COMPLETED"

	// BedDailyMarker tags bed-day charges in the description.
	BedDailyMarker = "BED_DAILY"
	// BedDailyReference is the correlation key for automatic bed-day charges.
	BedDailyReference = "AUTO:BED_DAILY"
)

// BillingTransaction is one append-only ledger entry of an admission.
type BillingTransaction struct {
	ID            string          `gorm:"primaryKey;column:id" json:"id"`
	AdmissionID   string          `gorm:"column:admission_id;not null;index;uniqueIndex:idx_billing_txn_bed_day,priority:1" json:"admissionId"`
	BillID        *string         `gorm:"column:bill_id;index" json:"billId"`
	PatientID     string          `gorm:"column:patient_id;not null;index" json:"patientId"`
	Type          string          `gorm:"column:type;not null;index" json:"type"`
	Amount        decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null" json:"amount"`
	Description   string          `gorm:"column:description" json:"description"`
	Reference     string          `gorm:"column:reference;uniqueIndex:idx_billing_txn_bed_day,priority:3" json:"reference"`
	PaymentMethod string          `gorm:"column:payment_method" json:"paymentMethod"`
	PaymentStatus string          `gorm:"column:payment_status;not null" json:"paymentStatus"`
	ProcessedBy   string          `gorm:"column:processed_by;not null" json:"processedBy"`
	ProcessedAt   time.Time       `gorm:"column:processed_at;not null;index" json:"processedAt"`
	// ChargeDate is only set on bed-day charges; NULLs never collide in the unique index.
	ChargeDate *time.Time `gorm:"column:charge_date;type:date;uniqueIndex:idx_billing_txn_bed_day,priority:2" json:"chargeDate,omitempty"`
}

func (BillingTransaction) TableName() string {
	return "billing_transaction"
}

// LedgerSummary is the fold of an admission's transactions.
type LedgerSummary struct {
	TotalCharges     decimal.Decimal `json:"totalCharges"`
	TotalDeposits    decimal.Decimal `json:"totalDeposits"`
	TotalPayments    decimal.Decimal `json:"totalPayments"`
	TotalRefunds     decimal.Decimal `json:"totalRefunds"`
	TotalAdjustments decimal.Decimal `json:"totalAdjustments"`
	NetDue           decimal.Decimal `json:"netDue"`
}

// Actor is the principal a ledger write is attributed to.
type Actor struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

// SystemActor attributes writes made by scheduled jobs.
var SystemActor = Actor{ID: "SYSTEM", Role: "SYSTEM"}
