package services

import (
	"IPDLedger/models"
	"IPDLedger/repositories"
	"context"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pkg/errors"
)

type AdmitInput struct {
	PatientID      string `json:"patientId"`
	BedID          string `json:"bedId"`
	DoctorID       string `json:"doctorId"`
	Diagnosis      string `json:"diagnosis"`
	ChiefComplaint string `json:"chiefComplaint"`
	EstimatedStay  *int   `json:"estimatedStay"`
}

func (in AdmitInput) Validate() error {
	return validation.Errors{
		"patientId":     validation.Validate(strings.TrimSpace(in.PatientID), validation.Required),
		"bedId":         validation.Validate(strings.TrimSpace(in.BedID), validation.Required),
		"doctorId":      validation.Validate(strings.TrimSpace(in.DoctorID), validation.Required),
		"estimatedStay": validation.Validate(in.EstimatedStay, validation.Min(0)),
	}.Filter()
}

// UpdateAdmissionInput changes an admission's status. DISCHARGED frees the bed.
type UpdateAdmissionInput struct {
	ID             string `json:"id"`
	Status         string `json:"status"`
	DischargeNotes string `json:"dischargeNotes"`
}

func (in UpdateAdmissionInput) Validate() error {
	return validation.Errors{
		"id": validation.Validate(strings.TrimSpace(in.ID), validation.Required),
		"status": validation.Validate(strings.ToUpper(strings.TrimSpace(in.Status)),
			validation.Required, validation.In(models.AdmissionActive, models.AdmissionDischarged)),
	}.Filter()
}

type AdmissionService struct {
	admissions repositories.AdmissionRepository
	patients   repositories.PatientRepository
	now        func() time.Time
}

func NewAdmissionService(admissions repositories.AdmissionRepository, patients repositories.PatientRepository) *AdmissionService {
	return &AdmissionService{admissions: admissions, patients: patients, now: time.Now}
}

// Admit creates an ACTIVE admission and takes the bed in the same transaction.
func (s *AdmissionService) Admit(ctx context.Context, in AdmitInput) (*models.Admission, error) {
	if err := in.Validate(); err != nil {
		return nil, invalid(err)
	}

	patient, err := s.patients.GetByID(ctx, strings.TrimSpace(in.PatientID))
	if err != nil {
		return nil, err
	}

	admission := &models.Admission{
		PatientID:      patient.ID,
		BedID:          strings.TrimSpace(in.BedID),
		AdmittedBy:     strings.TrimSpace(in.DoctorID),
		Diagnosis:      in.Diagnosis,
		ChiefComplaint: in.ChiefComplaint,
		EstimatedStay:  in.EstimatedStay,
		Status:         models.AdmissionActive,
	}
	if err := s.admissions.Create(ctx, admission); err != nil {
		return nil, err
	}
	return s.admissions.GetByID(ctx, admission.ID)
}

// UpdateStatus discharges the admission or sets a plain status.
func (s *AdmissionService) UpdateStatus(ctx context.Context, in UpdateAdmissionInput) (*models.Admission, error) {
	if err := in.Validate(); err != nil {
		return nil, invalid(err)
	}

	id := strings.TrimSpace(in.ID)
	status := strings.ToUpper(strings.TrimSpace(in.Status))
	if status == models.AdmissionDischarged {
		return s.admissions.Discharge(ctx, id, in.DischargeNotes, s.now())
	}
	return s.admissions.UpdateStatus(ctx, id, status)
}

func (s *AdmissionService) Get(ctx context.Context, id string) (*models.Admission, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, invalid(errors.New("admission id is required"))
	}
	return s.admissions.GetByID(ctx, id)
}

// List returns admissions, optionally filtered by status.
func (s *AdmissionService) List(ctx context.Context, status string) ([]models.Admission, error) {
	status = strings.ToUpper(strings.TrimSpace(status))
	if status != "" && !models.IsValidAdmissionStatus(status) {
		return nil, invalid(errors.Errorf("unknown admission status %q", status))
	}
	return s.admissions.List(ctx, status)
}
