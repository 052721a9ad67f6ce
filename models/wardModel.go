package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bed statuses
const (
	BedAvailable   = "AVAILABLE"
	BedOccupied    = "OCCUPIED"
	BedMaintenance = "MAINTENANCE"
	BedBlocked     = "BLOCKED"
)

// Ward model
type Ward struct {
	ID        string    `gorm:"primaryKey;column:id" json:"id"`
	Name      string    `gorm:"column:name;unique;not null" json:"name"`
	Floor     string    `gorm:"column:floor" json:"floor"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	Beds      []Bed     `gorm:"foreignKey:WardID;references:ID" json:"-"`
}

func (Ward) TableName() string {
	return "ward"
}

// BedType model. DailyRate is the bed-day charge.
type BedType struct {
	ID        string          `gorm:"primaryKey;column:id" json:"id"`
	Name      string          `gorm:"column:name;unique;not null" json:"name"`
	DailyRate decimal.Decimal `gorm:"column:daily_rate;type:numeric(12,2);not null;default:0" json:"dailyRate"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (BedType) TableName() string {
	return "bed_type"
}

// Bed model
type Bed struct {
	ID        string    `gorm:"primaryKey;column:id" json:"id"`
	WardID    string    `gorm:"column:ward_id;not null;index;uniqueIndex:idx_ward_bed_number" json:"wardId"`
	BedTypeID string    `gorm:"column:bed_type_id;not null;index" json:"bedTypeId"`
	BedNumber string    `gorm:"column:bed_number;not null;uniqueIndex:idx_ward_bed_number" json:"bedNumber"`
	Status    string    `gorm:"column:status;check:status IN ('AVAILABLE', 'OCCUPIED', 'MAINTENANCE', 'BLOCKED');not null;default:AVAILABLE;index" json:"status"`
	Notes     string    `gorm:"column:notes" json:"notes"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	Ward      *Ward     `gorm:"foreignKey:WardID;references:ID" json:"ward,omitempty"`
	BedType   *BedType  `gorm:"foreignKey:BedTypeID;references:ID" json:"bedType,omitempty"`
}

func (Bed) TableName() string {
	return "bed"
}

// DailyRate returns the bed type's rate, zero when the type is not loaded.
func (b *Bed) DailyRate() decimal.Decimal {
	if b == nil || b.BedType == nil {
		return decimal.Zero
	}
	return b.BedType.DailyRate
}

// IsManualBedStatus reports whether staff may set the status directly.
// OCCUPIED is only reachable through admission.
func IsManualBedStatus(status string) bool {
	switch status {
	case BedAvailable, BedMaintenance, BedBlocked:
		return true
	}
	return false
}
