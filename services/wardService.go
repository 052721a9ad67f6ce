package services

import (
	"IPDLedger/models"
	"IPDLedger/repositories"
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type BedStatusInput struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// WardService maintains wards, bed types and beds.
type WardService struct {
	repository repositories.WardRepository
}

func NewWardService(repository repositories.WardRepository) *WardService {
	return &WardService{repository: repository}
}

func (s *WardService) CreateWard(ctx context.Context, ward *models.Ward) error {
	ward.Name = strings.TrimSpace(ward.Name)
	if err := validation.ValidateStruct(ward,
		validation.Field(&ward.Name, validation.Required, validation.Length(1, 100)),
	); err != nil {
		return invalid(err)
	}
	return s.repository.CreateWard(ctx, ward)
}

func (s *WardService) ListWards(ctx context.Context) ([]models.Ward, error) {
	return s.repository.ListWards(ctx)
}

func (s *WardService) CreateBedType(ctx context.Context, bedType *models.BedType) error {
	bedType.Name = strings.TrimSpace(bedType.Name)
	err := validation.Errors{
		"name":      validation.Validate(bedType.Name, validation.Required, validation.Length(1, 100)),
		"dailyRate": nonNegative(bedType.DailyRate),
	}.Filter()
	if err != nil {
		return invalid(err)
	}
	return s.repository.CreateBedType(ctx, bedType)
}

func (s *WardService) ListBedTypes(ctx context.Context) ([]models.BedType, error) {
	return s.repository.ListBedTypes(ctx)
}

// CreateBed adds a bed. New beds start AVAILABLE.
func (s *WardService) CreateBed(ctx context.Context, bed *models.Bed) error {
	bed.BedNumber = strings.TrimSpace(bed.BedNumber)
	if err := validation.ValidateStruct(bed,
		validation.Field(&bed.WardID, validation.Required),
		validation.Field(&bed.BedTypeID, validation.Required),
		validation.Field(&bed.BedNumber, validation.Required, validation.Length(1, 20)),
	); err != nil {
		return invalid(err)
	}
	bed.Status = models.BedAvailable
	bed.Ward = nil
	bed.BedType = nil
	return s.repository.CreateBed(ctx, bed)
}

func (s *WardService) ListBeds(ctx context.Context, status string) ([]models.Bed, error) {
	status = strings.ToUpper(strings.TrimSpace(status))
	if status != "" {
		if err := validation.Validate(status, validation.In(
			models.BedAvailable, models.BedOccupied, models.BedMaintenance, models.BedBlocked,
		)); err != nil {
			return nil, invalid(errors.Wrap(err, "status"))
		}
	}
	return s.repository.ListBeds(ctx, status)
}

// UpdateBedStatus sets a manual status. Occupancy only changes through admission and discharge.
func (s *WardService) UpdateBedStatus(ctx context.Context, id string, in BedStatusInput) (*models.Bed, error) {
	id = strings.TrimSpace(id)
	status := strings.ToUpper(strings.TrimSpace(in.Status))
	if id == "" {
		return nil, invalid(errors.New("bed id is required"))
	}
	if !models.IsManualBedStatus(status) {
		return nil, invalid(errors.Errorf("status must be one of %s, %s, %s", models.BedAvailable, models.BedMaintenance, models.BedBlocked))
	}
	return s.repository.UpdateBedStatus(ctx, id, status, in.Notes)
}

func nonNegative(d decimal.Decimal) error {
	if d.IsNegative() {
		return errors.New("must not be negative")
	}
	return nil
}
