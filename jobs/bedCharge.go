// Package jobs runs scheduled ledger work.
package jobs

import (
	"IPDLedger/models"
	"IPDLedger/services"
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

const bedChargeTimeout = 10 * time.Minute

type BedChargePoster interface {
	PostDailyCharges(ctx context.Context, actor models.Actor, admissionID string) ([]services.BedChargeResult, error)
}

// BedChargeJob posts the day's bed charge for every ACTIVE admission as the SYSTEM actor.
type BedChargeJob struct {
	poster  BedChargePoster
	log     zerolog.Logger
	timeout time.Duration
}

func NewBedChargeJob(poster BedChargePoster, log zerolog.Logger) *BedChargeJob {
	return &BedChargeJob{
		poster:  poster,
		log:     log.With().Str("job", "bed_charge").Logger(),
		timeout: bedChargeTimeout,
	}
}

// Run executes one pass. Re-running on the same day posts nothing new.
func (j *BedChargeJob) Run(ctx context.Context) ([]services.BedChargeResult, error) {
	start := time.Now()
	results, err := j.poster.PostDailyCharges(ctx, models.SystemActor, "")
	if err != nil {
		j.log.Error().Err(err).Msg("Bed charge run failed")
		return nil, err
	}

	posted, failed := 0, 0
	for _, r := range results {
		if r.Posted {
			posted++
		}
		if r.Error != "" {
			failed++
		}
	}
	j.log.Info().
		Int("admissions", len(results)).
		Int("posted", posted).
		Int("failed", failed).
		Dur("took", time.Since(start)).
		Msg("Bed charge run finished")
	return results, nil
}

// Scheduler wraps a cron runner whose calendar follows the hospital's time zone.
type Scheduler struct {
	cron *cron.Cron
	log  zerolog.Logger
}

func NewScheduler(loc *time.Location, log zerolog.Logger) *Scheduler {
	logger := cronLogger{log: log.With().Str("component", "cron").Logger()}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		log: log,
	}
}

// AddBedChargeJob schedules job on a standard five field cron expression.
func (s *Scheduler) AddBedChargeJob(schedule string, job *BedChargeJob) error {
	_, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), job.timeout)
		defer cancel()
		_, _ = job.Run(ctx)
	})
	if err != nil {
		return err
	}
	s.log.Info().Str("schedule", schedule).Msg("Bed charge job scheduled")
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for a running job until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn().Msg("Scheduler stopped before running job finished")
	}
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
