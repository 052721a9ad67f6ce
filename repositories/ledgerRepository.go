package repositories

import (
	"IPDLedger/cache"
	"IPDLedger/models"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	LedgerCacheExpiry = 10 * time.Minute
)

type LedgerRepository interface {
	// ListByAdmission returns the admission's transactions oldest first.
	ListByAdmission(ctx context.Context, admissionID string) ([]models.BillingTransaction, error)
	Create(ctx context.Context, txn *models.BillingTransaction) error
	// HasChargeBetween reports whether a CHARGE whose description contains marker
	// was processed within [from, to].
	HasChargeBetween(ctx context.Context, admissionID, marker string, from, to time.Time) (bool, error)
	// CreateIfAbsent inserts txn unless it collides with the bed-day unique index.
	CreateIfAbsent(ctx context.Context, txn *models.BillingTransaction) (bool, error)
}

type ledgerRepository struct {
	db    *gorm.DB
	cache *cache.Cache
	log   zerolog.Logger
}

func NewLedgerRepository(db *gorm.DB, cache *cache.Cache, log zerolog.Logger) LedgerRepository {
	return &ledgerRepository{db: db, cache: cache, log: log}
}

func (r *ledgerRepository) ListByAdmission(ctx context.Context, admissionID string) ([]models.BillingTransaction, error) {
	// A writer bumps the version after it commits, so a list read before the
	// write can only land under a key nobody reads any more.
	cacheKey, err := r.cache.VersionedKey(ctx, LedgerVersionKey(admissionID), LedgerCacheKey(admissionID))
	if err != nil {
		r.log.Warn().Err(err).Str("admission_id", admissionID).Msg("failed to read ledger cache version")
		return r.listFromDB(ctx, admissionID)
	}

	var txns []models.BillingTransaction
	if hit, err := r.cache.GetJSON(ctx, cacheKey, &txns); err != nil {
		r.log.Warn().Err(err).Str("admission_id", admissionID).Msg("failed to get ledger from cache")
	} else if hit {
		return txns, nil
	}

	txns, err = r.listFromDB(ctx, admissionID)
	if err != nil {
		return nil, err
	}
	if err := r.cache.SetJSON(ctx, cacheKey, txns, LedgerCacheExpiry); err != nil {
		r.log.Warn().Err(err).Str("admission_id", admissionID).Msg("failed to set ledger in cache")
	}
	return txns, nil
}

func (r *ledgerRepository) listFromDB(ctx context.Context, admissionID string) ([]models.BillingTransaction, error) {
	var txns []models.BillingTransaction
	err := r.db.WithContext(ctx).
		Where("admission_id = ?", admissionID).
		Order("processed_at ASC, id ASC").
		Find(&txns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger transactions: %w", err)
	}
	return txns, nil
}

func (r *ledgerRepository) Create(ctx context.Context, txn *models.BillingTransaction) error {
	if txn.ID == "" {
		txn.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(txn).Error; err != nil {
		return fmt.Errorf("failed to create ledger transaction: %w", err)
	}
	r.invalidate(ctx, txn.AdmissionID)
	return nil
}

func (r *ledgerRepository) HasChargeBetween(ctx context.Context, admissionID, marker string, from, to time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.BillingTransaction{}).
		Where("admission_id = ? AND type = ?", admissionID, models.TxnCharge).
		Where("description LIKE ?", "%"+marker+"%").
		Where("processed_at >= ? AND processed_at <= ?", from, to).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check existing charges: %w", err)
	}
	return count > 0, nil
}

func (r *ledgerRepository) CreateIfAbsent(ctx context.Context, txn *models.BillingTransaction) (bool, error) {
	if txn.ID == "" {
		txn.ID = uuid.New().String()
	}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(txn)
	if res.Error != nil {
		return false, fmt.Errorf("failed to create ledger transaction: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	r.invalidate(ctx, txn.AdmissionID)
	return true, nil
}

func (r *ledgerRepository) invalidate(ctx context.Context, admissionID string) {
	bumpLedgerVersion(ctx, r.cache, r.log, admissionID)
}

func bumpLedgerVersion(ctx context.Context, c *cache.Cache, log zerolog.Logger, admissionID string) {
	if err := c.Bump(ctx, LedgerVersionKey(admissionID)); err != nil {
		log.Warn().Err(err).Str("admission_id", admissionID).Msg("failed to bump ledger cache version")
	}
}

// LedgerCacheKey is the cache key prefix of an admission's transaction list.
func LedgerCacheKey(admissionID string) string {
	return fmt.Sprintf("ledger_cache:%s", admissionID)
}

// LedgerVersionKey holds the generation of an admission's cached transaction list.
func LedgerVersionKey(admissionID string) string {
	return fmt.Sprintf("ledger_version:%s", admissionID)
}
