// Package job provides background job schedulers.
package job

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"camp-slides/internal/app/service"
	"camp-slides/internal/domain"
	"camp-slides/pkg/locker"
)

const (
	scheduledLockKey = "deck:refresh:scheduled"
	manualLockKey    = "deck:refresh:manual"
)

// ErrRefreshInProgress is returned by RefreshNow when another manual refresh holds the lock.
var ErrRefreshInProgress = errors.New("deck refresh already in progress")

// DeckRefresher rebuilds slide decks.
// Implementations: internal/app/service/slide_service.go
type DeckRefresher interface {
	RefreshAll(ctx context.Context, langs []domain.Language) []service.RefreshResult
}

// RefreshConfig holds refresh scheduler configuration.
type RefreshConfig struct {
	Interval  time.Duration
	Timeout   time.Duration
	OnStartup bool
	Languages []domain.Language
}

// RefreshScheduler periodically revalidates the cached slide decks.
// A distributed lock makes one instance do the work per interval.
type RefreshScheduler struct {
	decks     DeckRefresher
	interval  time.Duration
	timeout   time.Duration
	languages []domain.Language
	logger    *zap.Logger
	locker    locker.DistributedLocker

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRefreshScheduler creates a new RefreshScheduler.
func NewRefreshScheduler(
	decks DeckRefresher,
	cfg RefreshConfig,
	logger *zap.Logger,
	locker locker.DistributedLocker,
) *RefreshScheduler {
	return &RefreshScheduler{
		decks:     decks,
		interval:  cfg.Interval,
		timeout:   cfg.Timeout,
		languages: cfg.Languages,
		logger:    logger,
		locker:    locker,
	}
}

// Start begins the background refresh loop.
func (s *RefreshScheduler) Start(runOnStartup bool) {
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.logger.Info("starting deck refresh scheduler",
		zap.Duration("interval", s.interval),
		zap.Bool("run_on_startup", runOnStartup),
	)

	s.wg.Add(1)
	go s.run(runOnStartup)
}

// Stop gracefully stops the scheduler.
func (s *RefreshScheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.logger.Info("stopping deck refresh scheduler")
	s.cancel()
	s.wg.Wait()
	s.logger.Info("deck refresh scheduler stopped")
}

func (s *RefreshScheduler) run(runOnStartup bool) {
	defer s.wg.Done()

	if runOnStartup {
		s.executeRefresh()
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.executeRefresh()
		}
	}
}

// executeRefresh rebuilds all decks under the scheduled lock.
//
// The lock TTL equals the interval: after a successful refresh it is left to
// expire so no other instance repeats the work within the same interval.
// After a failure it is released so another instance may retry right away.
func (s *RefreshScheduler) executeRefresh() {
	acquired, err := s.locker.Acquire(s.ctx, scheduledLockKey, s.interval)
	if err != nil {
		s.logger.Error("failed to acquire distributed lock", zap.Error(err))
		return
	}
	if !acquired {
		s.logger.Debug("another instance refreshed the decks, skipping")
		return
	}

	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	failed := s.logResults(s.decks.RefreshAll(ctx, s.languages))

	if failed > 0 {
		if err := s.locker.Release(s.ctx, scheduledLockKey); err != nil {
			s.logger.Error("failed to release lock after refresh error", zap.Error(err))
		}
		s.logger.Info("deck refresh completed with errors, lock released for retry",
			zap.Int("languages_failed", failed),
		)
		return
	}

	s.logger.Info("deck refresh completed, lock held for cooldown",
		zap.Duration("cooldown", s.interval),
	)
}

// RefreshNow rebuilds all decks immediately. Concurrent manual refreshes
// across instances are refused with ErrRefreshInProgress.
func (s *RefreshScheduler) RefreshNow(ctx context.Context) ([]service.RefreshResult, error) {
	var results []service.RefreshResult

	err := locker.Run(ctx, s.locker, manualLockKey, s.timeout, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		results = s.decks.RefreshAll(ctx, s.languages)
		s.logResults(results)
		return nil
	})
	if errors.Is(err, locker.ErrNotAcquired) {
		return nil, ErrRefreshInProgress
	}
	if err != nil {
		return nil, err
	}

	return results, nil
}

func (s *RefreshScheduler) logResults(results []service.RefreshResult) int {
	failed := 0
	for _, r := range results {
		if r.Error != nil {
			failed++
			s.logger.Warn("deck refresh failed",
				zap.String("lang", string(r.Language)),
				zap.Error(r.Error),
			)
			continue
		}
		s.logger.Debug("deck refreshed",
			zap.String("lang", string(r.Language)),
			zap.Int("slides", r.Count),
			zap.Duration("duration", r.Duration),
		)
	}
	return failed
}
