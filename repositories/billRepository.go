package repositories

import (
	"IPDLedger/apperr"
	"IPDLedger/cache"
	"IPDLedger/models"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// BillBuilder turns an admission and the ledger rows it has not been billed for
// into a closing bill.
type BillBuilder func(admission *models.Admission, txns []models.BillingTransaction) *models.Bill

type BillRepository interface {
	// CreateForAdmission locks the admission, reads its unbilled transactions,
	// builds the bill from them and writes it with its items. Exactly the rows the
	// bill was built from are stamped with its id. All of it is one transaction.
	CreateForAdmission(ctx context.Context, admissionID string, build BillBuilder) (*models.Bill, error)
	GetByID(ctx context.Context, id string) (*models.Bill, error)
}

type billRepository struct {
	db    *gorm.DB
	cache *cache.Cache
	log   zerolog.Logger
}

func NewBillRepository(db *gorm.DB, cache *cache.Cache, log zerolog.Logger) BillRepository {
	return &billRepository{db: db, cache: cache, log: log}
}

func (r *billRepository) CreateForAdmission(ctx context.Context, admissionID string, build BillBuilder) (*models.Bill, error) {
	var bill *models.Bill
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		admission, err := lockAdmission(tx, admissionID)
		if err != nil {
			return err
		}
		if admission.Status == models.AdmissionActive {
			return fmt.Errorf("admission %s is still active, discharge it first: %w", admissionID, apperr.ErrConflict)
		}

		var existing []models.Bill
		if err := tx.Where("admission_id = ?", admissionID).Limit(1).Find(&existing).Error; err != nil {
			return fmt.Errorf("failed to check existing bill: %w", err)
		}
		if len(existing) > 0 {
			return fmt.Errorf("admission %s already billed as %s: %w", admissionID, existing[0].BillNumber, apperr.ErrConflict)
		}

		var txns []models.BillingTransaction
		err = tx.Where("admission_id = ? AND bill_id IS NULL", admissionID).
			Order("processed_at ASC, id ASC").
			Find(&txns).Error
		if err != nil {
			return fmt.Errorf("failed to read ledger for billing: %w", err)
		}

		bill = build(admission, txns)
		if bill.ID == "" {
			bill.ID = uuid.New().String()
		}
		bill.AdmissionID = &admission.ID
		for i := range bill.Items {
			bill.Items[i].BillID = bill.ID
			bill.Items[i].Position = i + 1
		}

		// Sequence values are not rolled back; a failed insert leaves a gap in bill numbers.
		var number string
		if err := tx.Raw("SELECT 'IPD-' || LPAD(nextval('bill_number_seq')::TEXT, 6, '0')").Scan(&number).Error; err != nil {
			return fmt.Errorf("failed to obtain next bill number: %w", err)
		}
		bill.BillNumber = number

		if err := tx.Create(bill).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("admission %s already has a bill: %w", admissionID, apperr.ErrConflict)
			}
			return fmt.Errorf("failed to create bill: %w", err)
		}

		if len(txns) == 0 {
			return nil
		}
		ids := make([]string, len(txns))
		for i, txn := range txns {
			ids[i] = txn.ID
		}
		err = tx.Model(&models.BillingTransaction{}).
			Where("id IN ? AND bill_id IS NULL", ids).
			Update("bill_id", bill.ID).Error
		if err != nil {
			return fmt.Errorf("failed to fold ledger into bill: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	bumpLedgerVersion(ctx, r.cache, r.log, admissionID)
	return bill, nil
}

func (r *billRepository) GetByID(ctx context.Context, id string) (*models.Bill, error) {
	var bill models.Bill
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&bill, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("bill %s: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	return &bill, nil
}
