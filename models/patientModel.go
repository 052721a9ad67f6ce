package models

import (
	"time"
)

// Patient model
type Patient struct {
	ID          string      `gorm:"primaryKey;column:id" json:"id"`
	FirstName   string      `gorm:"column:first_name;not null" json:"firstName"`
	MiddleName  string      `gorm:"column:middle_name" json:"middleName"`
	LastName    string      `gorm:"column:last_name;not null;index" json:"lastName"`
	Sex         string      `gorm:"column:sex;check:sex IN ('Male', 'Female', 'Other');not null" json:"sex"`
	DateOfBirth string      `gorm:"column:date_of_birth;not null;index" json:"dateOfBirth"`
	Phone       string      `gorm:"column:phone" json:"phone"`
	Email       string      `gorm:"column:email" json:"email"`
	Address     string      `gorm:"column:address" json:"address"`
	CreatedAt   time.Time   `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	Admissions  []Admission `gorm:"foreignKey:PatientID;references:ID" json:"-"`
}

func (Patient) TableName() string {
	return "patient"
}

// FullName joins the patient's name parts.
func (p Patient) FullName() string {
	name := p.FirstName
	if p.MiddleName != "" {
		name += " " + p.MiddleName
	}
	return name + " " + p.LastName
}
