package services

import (
	"IPDLedger/models"
	"IPDLedger/repositories"
	"IPDLedger/utils"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Locker serializes work on a key across processes.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// BedChargeResult reports what the daily run did for one admission.
type BedChargeResult struct {
	AdmissionID string          `json:"admissionId"`
	Posted      bool            `json:"posted"`
	Amount      decimal.Decimal `json:"amount"`
	Error       string          `json:"error,omitempty"`
}

type BedChargeService struct {
	admissions repositories.AdmissionRepository
	ledger     repositories.LedgerRepository
	locker     Locker
	loc        *time.Location
	now        func() time.Time
	log        zerolog.Logger
}

// NewBedChargeService builds the daily bed-charge poster. Calendar days are taken in loc.
func NewBedChargeService(admissions repositories.AdmissionRepository, ledger repositories.LedgerRepository, locker Locker, loc *time.Location, log zerolog.Logger) *BedChargeService {
	if loc == nil {
		loc = time.Local
	}
	return &BedChargeService{
		admissions: admissions,
		ledger:     ledger,
		locker:     locker,
		loc:        loc,
		now:        time.Now,
		log:        log.With().Str("component", "bed_charge").Logger(),
	}
}

func bedChargeLockKey(admissionID string) string {
	return fmt.Sprintf("bed_charge_lock:%s", admissionID)
}

// PostDailyCharges posts today's bed charge for one admission, or for every ACTIVE
// admission when admissionID is empty. At most one charge lands per admission per day.
//
// A failure on a named admission is returned. In a batch run it is recorded on that
// admission's result and the run moves on.
func (s *BedChargeService) PostDailyCharges(ctx context.Context, actor models.Actor, admissionID string) ([]BedChargeResult, error) {
	if actor.ID == "" {
		return nil, invalid(errors.New("acting user is required"))
	}

	now := s.now()
	admissionID = strings.TrimSpace(admissionID)
	if admissionID != "" {
		admission, err := s.admissions.GetByID(ctx, admissionID)
		if err != nil {
			return nil, err
		}
		result, err := s.postOne(ctx, actor, admission, now)
		if err != nil {
			return nil, err
		}
		return []BedChargeResult{result}, nil
	}

	admissions, err := s.admissions.List(ctx, models.AdmissionActive)
	if err != nil {
		return nil, errors.Wrap(err, "list active admissions")
	}

	results := make([]BedChargeResult, 0, len(admissions))
	for i := range admissions {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		result, err := s.postOne(ctx, actor, &admissions[i], now)
		if err != nil {
			s.log.Error().Err(err).Str("admission_id", admissions[i].ID).Msg("Bed charge failed")
			result = BedChargeResult{AdmissionID: admissions[i].ID, Amount: decimal.Zero, Error: "bed charge failed"}
		}
		results = append(results, result)
	}
	return results, nil
}

func (s *BedChargeService) postOne(ctx context.Context, actor models.Actor, admission *models.Admission, now time.Time) (BedChargeResult, error) {
	result := BedChargeResult{AdmissionID: admission.ID, Amount: decimal.Zero}
	if admission.Status != models.AdmissionActive {
		return result, nil
	}
	rate := admission.Bed.DailyRate()
	if !rate.IsPositive() {
		return result, nil
	}

	release, err := s.locker.Acquire(ctx, bedChargeLockKey(admission.ID))
	if err != nil {
		return result, errors.Wrapf(err, "lock admission %s", admission.ID)
	}
	defer release()

	from, to := utils.StartOfDay(now, s.loc), utils.EndOfDay(now, s.loc)
	exists, err := s.ledger.HasChargeBetween(ctx, admission.ID, models.BedDailyMarker, from, to)
	if err != nil {
		return result, err
	}
	if exists {
		return result, nil
	}

	day := utils.DateKey(now, s.loc)
	chargeDate := utils.CalendarDate(now, s.loc)
	txn := &models.BillingTransaction{
		AdmissionID:   admission.ID,
		PatientID:     admission.PatientID,
		Type:          models.TxnCharge,
		Amount:        rate,
		Description:   fmt.Sprintf("%s bed charge for %s at %s/day", models.BedDailyMarker, day, rate.StringFixed(2)),
		Reference:     models.BedDailyReference,
		PaymentStatus: models.PaymentCompleted,
		ProcessedBy:   actor.ID,
		ProcessedAt:   now,
		ChargeDate:    &chargeDate,
	}
	posted, err := s.ledger.CreateIfAbsent(ctx, txn)
	if err != nil {
		return result, err
	}
	if posted {
		result.Posted = true
		result.Amount = rate
		s.log.Info().Str("admission_id", admission.ID).Str("day", day).Str("amount", rate.String()).Msg("Bed charge posted")
	}
	return result, nil
}
