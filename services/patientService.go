package services

import (
	"IPDLedger/models"
	"IPDLedger/repositories"
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/pkg/errors"
)

type PatientService struct {
	repository repositories.PatientRepository
}

func NewPatientService(repository repositories.PatientRepository) *PatientService {
	return &PatientService{repository: repository}
}

func validatePatient(p *models.Patient) error {
	return validation.ValidateStruct(p,
		validation.Field(&p.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&p.LastName, validation.Required, validation.Length(1, 100)),
		validation.Field(&p.Sex, validation.Required, validation.In("Male", "Female", "Other")),
		validation.Field(&p.DateOfBirth, validation.Required, validation.Date("2006-01-02")),
		validation.Field(&p.Email, is.EmailFormat),
	)
}

// Create registers a patient. The id is assigned by the repository.
func (s *PatientService) Create(ctx context.Context, patient *models.Patient) error {
	patient.FirstName = strings.TrimSpace(patient.FirstName)
	patient.LastName = strings.TrimSpace(patient.LastName)
	patient.Email = strings.TrimSpace(patient.Email)
	if err := validatePatient(patient); err != nil {
		return invalid(err)
	}
	patient.ID = ""
	return s.repository.Create(ctx, patient)
}

func (s *PatientService) GetByID(ctx context.Context, id string) (*models.Patient, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, invalid(errors.New("patient id is required"))
	}
	return s.repository.GetByID(ctx, id)
}

func (s *PatientService) GetAll(ctx context.Context) ([]models.Patient, error) {
	return s.repository.GetAll(ctx)
}
