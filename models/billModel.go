package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bill payment statuses
const (
	BillPending = "PENDING"
	BillPaid    = "PAID"
)

// Bill is the closing invoice of an admission.
type Bill struct {
	ID             string          `gorm:"primaryKey;column:id" json:"id"`
	BillNumber     string          `gorm:"column:bill_number;unique;not null" json:"billNumber"`
	AdmissionID    *string         `gorm:"column:admission_id;uniqueIndex" json:"admissionId,omitempty"`
	PatientID      string          `gorm:"column:patient_id;not null;index" json:"patientId"`
	DoctorID       string          `gorm:"column:doctor_id" json:"doctorId"`
	TotalAmount    decimal.Decimal `gorm:"column:total_amount;type:numeric(12,2);not null" json:"totalAmount"`
	CGST           decimal.Decimal `gorm:"column:cgst;type:numeric(12,2);not null;default:0" json:"cgst"`
	SGST           decimal.Decimal `gorm:"column:sgst;type:numeric(12,2);not null;default:0" json:"sgst"`
	DiscountAmount decimal.Decimal `gorm:"column:discount_amount;type:numeric(12,2);not null;default:0" json:"discountAmount"`
	FinalAmount    decimal.Decimal `gorm:"column:final_amount;type:numeric(12,2);not null" json:"finalAmount"`
	PaymentStatus  string          `gorm:"column:payment_status;check:payment_status IN ('PENDING', 'PAID');not null" json:"paymentStatus"`
	PaidAmount     decimal.Decimal `gorm:"column:paid_amount;type:numeric(12,2);not null;default:0" json:"paidAmount"`
	BalanceAmount  decimal.Decimal `gorm:"column:balance_amount;type:numeric(12,2);not null;default:0" json:"balanceAmount"`
	Notes          string          `gorm:"column:notes" json:"notes"`
	CreatedBy      string          `gorm:"column:created_by;not null" json:"createdBy"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	Items          []BillItem      `gorm:"foreignKey:BillID;references:ID" json:"items"`
}

func (Bill) TableName() string {
	return "bill"
}

// BillItem model. Position keeps the item order stable.
type BillItem struct {
	ID         uint            `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	BillID     string          `gorm:"column:bill_id;not null;index" json:"billId"`
	Position   int             `gorm:"column:position;not null" json:"position"`
	ItemType   string          `gorm:"column:item_type;not null" json:"itemType"`
	ItemName   string          `gorm:"column:item_name;not null" json:"itemName"`
	Quantity   int             `gorm:"column:quantity;not null" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null" json:"unitPrice"`
	TotalPrice decimal.Decimal `gorm:"column:total_price;type:numeric(12,2);not null" json:"totalPrice"`
	GSTRate    decimal.Decimal `gorm:"column:gst_rate;type:numeric(5,2);not null;default:0" json:"gstRate"`
}

func (BillItem) TableName() string {
	return "bill_item"
}
