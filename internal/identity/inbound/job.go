package inbound

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/vendorauth/internal/pkg/config"
	"github.com/shandysiswandi/vendorauth/internal/pkg/goroutine"
	"github.com/shandysiswandi/vendorauth/internal/pkg/lock"
	"go.uber.org/atomic"
)

const (
	sweepLockKey         = "identity:sweep-expired-challenges"
	defaultSweepInterval = time.Hour
	defaultSweepLockTTL  = 5 * time.Minute
)

type sweeper interface {
	SweepExpiredChallenges(ctx context.Context) (int64, error)
}

// SweepJob purges expired challenges on a fixed interval. A tick is skipped
// while the previous one is still running here or holds the lock on another
// replica.
type SweepJob struct {
	uc       sweeper
	locker   lock.Locker
	interval time.Duration
	lockTTL  time.Duration
	running  *atomic.Bool
}

func NewSweepJob(cfg config.Config, locker lock.Locker, uc sweeper) *SweepJob {
	interval := cfg.GetMinute("modules.identity.sweep_interval_minutes")
	if interval <= 0 {
		interval = defaultSweepInterval
	}

	lockTTL := cfg.GetSecond("modules.identity.sweep_lock_seconds")
	if lockTTL <= 0 {
		lockTTL = defaultSweepLockTTL
	}

	return &SweepJob{
		uc:       uc,
		locker:   locker,
		interval: interval,
		lockTTL:  lockTTL,
		running:  atomic.NewBool(false),
	}
}

// RegisterSweepJob starts the job on routine. It stops when ctx is done.
func RegisterSweepJob(ctx context.Context, routine *goroutine.Manager, job *SweepJob) {
	routine.Go(ctx, job.Run)
}

func (j *SweepJob) Run(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "expired challenge sweep started", "interval", j.interval.String())

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "expired challenge sweep stopped")
			return nil
		case <-ticker.C:
			j.Tick(ctx)
		}
	}
}

// Tick runs one sweep unless one is already in flight.
func (j *SweepJob) Tick(ctx context.Context) {
	if !j.running.CompareAndSwap(false, true) {
		slog.WarnContext(ctx, "previous expired challenge sweep still running, skipping")
		return
	}
	defer j.running.Store(false)

	sweep := func(ctx context.Context) error {
		_, err := j.uc.SweepExpiredChallenges(ctx)
		return err
	}

	if j.locker == nil {
		if err := sweep(ctx); err != nil {
			slog.ErrorContext(ctx, "expired challenge sweep failed", "error", err)
		}
		return
	}

	err := j.locker.Do(ctx, sweepLockKey, j.lockTTL, sweep)
	if errors.Is(err, lock.ErrNotAcquired) {
		slog.InfoContext(ctx, "expired challenge sweep held by another instance")
		return
	}
	if err != nil {
		slog.ErrorContext(ctx, "expired challenge sweep failed", "error", err)
	}
}
