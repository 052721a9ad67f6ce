package repositories

import (
	"IPDLedger/apperr"
	"IPDLedger/models"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AdmissionRepository interface {
	// Create inserts an ACTIVE admission and occupies its bed in one transaction.
	Create(ctx context.Context, admission *models.Admission) error
	GetByID(ctx context.Context, id string) (*models.Admission, error)
	List(ctx context.Context, status string) ([]models.Admission, error)
	// Discharge closes an ACTIVE admission and frees its bed in one transaction.
	Discharge(ctx context.Context, id, notes string, at time.Time) (*models.Admission, error)
	UpdateStatus(ctx context.Context, id, status string) (*models.Admission, error)
}

type admissionRepository struct {
	db *gorm.DB
}

func NewAdmissionRepository(db *gorm.DB) AdmissionRepository {
	return &admissionRepository{db: db}
}

func (r *admissionRepository) Create(ctx context.Context, admission *models.Admission) error {
	if admission.ID == "" {
		admission.ID = uuid.New().String()
	}
	admission.Status = models.AdmissionActive

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var bed models.Bed
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&bed, "id = ?", admission.BedID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("bed %s: %w", admission.BedID, apperr.ErrNotFound)
			}
			return fmt.Errorf("failed to find bed: %w", err)
		}
		if bed.Status != models.BedAvailable {
			return fmt.Errorf("bed %s is %s: %w", bed.ID, bed.Status, apperr.ErrConflict)
		}

		if err := tx.Omit(clause.Associations).Create(admission).Error; err != nil {
			return fmt.Errorf("failed to create admission: %w", err)
		}
		if err := tx.Model(&models.Bed{}).Where("id = ?", bed.ID).Update("status", models.BedOccupied).Error; err != nil {
			return fmt.Errorf("failed to occupy bed: %w", err)
		}
		return nil
	})
}

func (r *admissionRepository) GetByID(ctx context.Context, id string) (*models.Admission, error) {
	var admission models.Admission
	err := r.withJoins(r.db.WithContext(ctx)).First(&admission, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("admission %s: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get admission: %w", err)
	}
	return &admission, nil
}

func (r *admissionRepository) List(ctx context.Context, status string) ([]models.Admission, error) {
	query := r.withJoins(r.db.WithContext(ctx)).Order("created_at ASC, id ASC")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var admissions []models.Admission
	if err := query.Find(&admissions).Error; err != nil {
		return nil, fmt.Errorf("failed to list admissions: %w", err)
	}
	return admissions, nil
}

func (r *admissionRepository) Discharge(ctx context.Context, id, notes string, at time.Time) (*models.Admission, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		admission, err := lockAdmission(tx, id)
		if err != nil {
			return err
		}
		if admission.Status != models.AdmissionActive {
			return fmt.Errorf("admission %s is %s: %w", id, admission.Status, apperr.ErrConflict)
		}

		err = tx.Model(&models.Admission{}).Where("id = ?", id).Updates(map[string]interface{}{
			"status":          models.AdmissionDischarged,
			"discharge_date":  at,
			"discharge_notes": notes,
		}).Error
		if err != nil {
			return fmt.Errorf("failed to discharge admission: %w", err)
		}
		if err := tx.Model(&models.Bed{}).Where("id = ?", admission.BedID).Update("status", models.BedAvailable).Error; err != nil {
			return fmt.Errorf("failed to release bed: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *admissionRepository) UpdateStatus(ctx context.Context, id, status string) (*models.Admission, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		admission, err := lockAdmission(tx, id)
		if err != nil {
			return err
		}
		if admission.Status == models.AdmissionDischarged && status != models.AdmissionDischarged {
			return fmt.Errorf("admission %s is already discharged: %w", id, apperr.ErrConflict)
		}
		if err := tx.Model(&models.Admission{}).Where("id = ?", id).Update("status", status).Error; err != nil {
			return fmt.Errorf("failed to update admission status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *admissionRepository) withJoins(db *gorm.DB) *gorm.DB {
	return db.Preload("Patient").Preload("Bed.Ward").Preload("Bed.BedType")
}

func lockAdmission(tx *gorm.DB, id string) (*models.Admission, error) {
	var admission models.Admission
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&admission, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("admission %s: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find admission: %w", err)
	}
	return &admission, nil
}
