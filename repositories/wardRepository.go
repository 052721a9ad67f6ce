package repositories

import (
	"IPDLedger/apperr"
	"IPDLedger/models"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WardRepository interface {
	CreateWard(ctx context.Context, ward *models.Ward) error
	ListWards(ctx context.Context) ([]models.Ward, error)
	CreateBedType(ctx context.Context, bedType *models.BedType) error
	ListBedTypes(ctx context.Context) ([]models.BedType, error)
	CreateBed(ctx context.Context, bed *models.Bed) error
	ListBeds(ctx context.Context, status string) ([]models.Bed, error)
	// UpdateBedStatus changes a bed that is not OCCUPIED to another manual status.
	UpdateBedStatus(ctx context.Context, id, status, notes string) (*models.Bed, error)
}

type wardRepository struct {
	db *gorm.DB
}

func NewWardRepository(db *gorm.DB) WardRepository {
	return &wardRepository{db: db}
}

func (r *wardRepository) CreateWard(ctx context.Context, ward *models.Ward) error {
	if ward.ID == "" {
		ward.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(ward).Error; err != nil {
		return translateCreateError("ward", err)
	}
	return nil
}

func (r *wardRepository) ListWards(ctx context.Context) ([]models.Ward, error) {
	var wards []models.Ward
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&wards).Error; err != nil {
		return nil, fmt.Errorf("failed to list wards: %w", err)
	}
	return wards, nil
}

func (r *wardRepository) CreateBedType(ctx context.Context, bedType *models.BedType) error {
	if bedType.ID == "" {
		bedType.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(bedType).Error; err != nil {
		return translateCreateError("bed type", err)
	}
	return nil
}

func (r *wardRepository) ListBedTypes(ctx context.Context) ([]models.BedType, error) {
	var bedTypes []models.BedType
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&bedTypes).Error; err != nil {
		return nil, fmt.Errorf("failed to list bed types: %w", err)
	}
	return bedTypes, nil
}

func (r *wardRepository) CreateBed(ctx context.Context, bed *models.Bed) error {
	if bed.ID == "" {
		bed.ID = uuid.New().String()
	}
	if bed.Status == "" {
		bed.Status = models.BedAvailable
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(bed).Error; err != nil {
		return translateCreateError("bed", err)
	}
	return nil
}

func (r *wardRepository) ListBeds(ctx context.Context, status string) ([]models.Bed, error) {
	query := r.db.WithContext(ctx).Preload("Ward").Preload("BedType").Order("ward_id ASC, bed_number ASC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var beds []models.Bed
	if err := query.Find(&beds).Error; err != nil {
		return nil, fmt.Errorf("failed to list beds: %w", err)
	}
	return beds, nil
}

func (r *wardRepository) UpdateBedStatus(ctx context.Context, id, status, notes string) (*models.Bed, error) {
	var bed models.Bed
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&bed, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("bed %s: %w", id, apperr.ErrNotFound)
			}
			return fmt.Errorf("failed to find bed: %w", err)
		}
		if bed.Status == models.BedOccupied {
			return fmt.Errorf("bed %s is occupied: %w", id, apperr.ErrConflict)
		}
		bed.Status = status
		bed.Notes = notes
		return tx.Model(&models.Bed{}).Where("id = ?", id).Updates(map[string]interface{}{
			"status": status,
			"notes":  notes,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &bed, nil
}

func translateCreateError(entity string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s already exists: %w", entity, apperr.ErrConflict)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%s references a missing record: %w", entity, apperr.ErrNotFound)
	}
	return fmt.Errorf("failed to create %s: %w", entity, err)
}
