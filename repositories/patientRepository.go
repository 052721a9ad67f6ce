package repositories

import (
	"IPDLedger/apperr"
	"IPDLedger/cache"
	"IPDLedger/models"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

const (
	PatientCacheExpiry = 7 * 24 * time.Hour
)

type PatientRepository interface {
	Create(ctx context.Context, patient *models.Patient) error
	GetByID(ctx context.Context, id string) (*models.Patient, error)
	GetAll(ctx context.Context) ([]models.Patient, error)
}

type patientRepository struct {
	db    *gorm.DB
	cache *cache.Cache
	log   zerolog.Logger
}

func NewPatientRepository(db *gorm.DB, cache *cache.Cache, log zerolog.Logger) PatientRepository {
	return &patientRepository{db: db, cache: cache, log: log}
}

func (r *patientRepository) Create(ctx context.Context, patient *models.Patient) error {
	// Check if a record with the same unique fields already exists
	var existing models.Patient
	err := r.db.WithContext(ctx).
		Where("first_name = ? AND last_name = ? AND date_of_birth = ?", patient.FirstName, patient.LastName, patient.DateOfBirth).
		First(&existing).Error
	if err == nil {
		return fmt.Errorf("patient with the same details already exists as %s: %w", existing.ID, apperr.ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for existing patient: %w", err)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var nextID string
		if err := tx.Raw("SELECT 'HP-' || LPAD(nextval('patient_id_seq')::TEXT, 6, '0')").Scan(&nextID).Error; err != nil {
			return fmt.Errorf("failed to obtain next sequence value: %w", err)
		}
		patient.ID = nextID

		if err := tx.Create(patient).Error; err != nil {
			return fmt.Errorf("failed to create patient: %w", err)
		}

		if err := r.cache.Delete(ctx, "patients_cache"); err != nil {
			r.log.Warn().Err(err).Msg("failed to delete patients cache")
		}
		return nil
	})
}

func (r *patientRepository) GetByID(ctx context.Context, id string) (*models.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.getPatientCacheKey(id)
	var patient models.Patient
	if hit, err := r.cache.GetJSON(ctx, cacheKey, &patient); err != nil {
		r.log.Warn().Err(err).Str("patient_id", id).Msg("failed to get patient from cache")
	} else if hit {
		return &patient, nil
	}

	err := r.db.WithContext(ctx).First(&patient, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("patient %s: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	if err := r.cache.SetJSON(ctx, cacheKey, patient, PatientCacheExpiry); err != nil {
		r.log.Warn().Err(err).Str("patient_id", id).Msg("failed to set patient in cache")
	}
	return &patient, nil
}

func (r *patientRepository) GetAll(ctx context.Context) ([]models.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := "patients_cache"
	var patients []models.Patient
	if hit, err := r.cache.GetJSON(ctx, cacheKey, &patients); err != nil {
		r.log.Warn().Err(err).Msg("failed to get patients from cache")
	} else if hit {
		return patients, nil
	}

	patients = nil
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&patients).Error; err != nil {
		return nil, fmt.Errorf("failed to get all patients: %w", err)
	}

	if err := r.cache.SetJSON(ctx, cacheKey, patients, PatientCacheExpiry); err != nil {
		r.log.Warn().Err(err).Msg("failed to set patients in cache")
	}
	return patients, nil
}

func (r *patientRepository) getPatientCacheKey(patientID string) string {
	return fmt.Sprintf("patient_cache:%s", patientID)
}
