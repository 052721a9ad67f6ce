package models

import (
	"time"
)

// Admission statuses. DISCHARGED is terminal.
const (
	AdmissionActive     = "ACTIVE"
	AdmissionDischarged = "DISCHARGED"
)

// Admission model
type Admission struct {
	ID             string     `gorm:"primaryKey;column:id" json:"id"`
	PatientID      string     `gorm:"column:patient_id;not null;index" json:"patientId"`
	BedID          string     `gorm:"column:bed_id;not null;index" json:"bedId"`
	AdmittedBy     string     `gorm:"column:admitted_by;not null" json:"admittedBy"`
	Diagnosis      string     `gorm:"column:diagnosis" json:"diagnosis"`
	ChiefComplaint string     `gorm:"column:chief_complaint" json:"chiefComplaint"`
	EstimatedStay  *int       `gorm:"column:estimated_stay" json:"estimatedStay,omitempty"`
	Status         string     `gorm:"column:status;check:status IN ('ACTIVE', 'DISCHARGED');not null;index" json:"status"`
	DischargeDate  *time.Time `gorm:"column:discharge_date" json:"dischargeDate,omitempty"`
	DischargeNotes string     `gorm:"column:discharge_notes" json:"dischargeNotes"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	Patient        *Patient   `gorm:"foreignKey:PatientID;references:ID" json:"patient,omitempty"`
	Bed            *Bed       `gorm:"foreignKey:BedID;references:ID" json:"bed,omitempty"`
}

func (Admission) TableName() string {
	return "admission"
}

// IsValidAdmissionStatus reports whether status is a known admission state.
func IsValidAdmissionStatus(status string) bool {
	return status == AdmissionActive || status == AdmissionDischarged
}
