package workers

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/comitanigiacomo/ignitofy-engine/internal/core/domain"
)

// StreakRefresher recomputes every cached streak against the current day.
type StreakRefresher interface {
	RefreshStreaks(ctx context.Context) (int, error)
}

// StreakWorker keeps cached streaks honest across midnight. Streaks are
// anchored to today, so once the local day rolls over every cached value may
// be stale even though nothing was mutated.
type StreakWorker struct {
	refresher StreakRefresher
	clock     domain.Clock
	interval  time.Duration
	logger    *log.Logger

	lastDay domain.Day
	trigger chan struct{}
}

func NewStreakWorker(refresher StreakRefresher, clock domain.Clock, interval time.Duration, logger *log.Logger) *StreakWorker {
	return &StreakWorker{
		refresher: refresher,
		clock:     clock,
		interval:  interval,
		logger:    logger,
		lastDay:   domain.Today(clock),
		trigger:   make(chan struct{}, 1),
	}
}

func (w *StreakWorker) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		w.logger.Info("streak worker started", "interval", w.interval)
		for {
			select {
			case <-ticker.C:
				w.tick(ctx)
			case <-w.trigger:
				w.refresh(ctx)
			case <-ctx.Done():
				w.logger.Info("streak worker shutting down")
				return
			}
		}
	}()
}

// Trigger requests an immediate refresh without waiting for the day to change.
func (w *StreakWorker) Trigger() {
	select {
	case w.trigger <- struct{}{}:
	default:
		w.logger.Debug("streak refresh already pending")
	}
}

// tick refreshes only when the local day differs from the last one seen.
func (w *StreakWorker) tick(ctx context.Context) bool {
	today := domain.Today(w.clock)
	if today == w.lastDay {
		return false
	}

	w.logger.Info("day rolled over", "from", w.lastDay, "to", today)
	w.lastDay = today
	w.refresh(ctx)
	return true
}

func (w *StreakWorker) refresh(ctx context.Context) {
	changed, err := w.refresher.RefreshStreaks(ctx)
	if err != nil {
		w.logger.Error("failed to refresh streaks", "changed", changed, "err", err)
		return
	}
	if changed > 0 {
		w.logger.Info("streaks refreshed", "changed", changed)
	}
}
