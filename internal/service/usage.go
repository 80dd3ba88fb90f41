package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pricewatch/pricewatch/internal/metrics"
	"github.com/pricewatch/pricewatch/internal/model"
	"github.com/pricewatch/pricewatch/internal/repository"
)

// UsageStore persists per-user usage counters.
type UsageStore interface {
	AddUsage(ctx context.Context, userID string, elapsedMs int64) (*model.APIUsage, error)
	ListUsage(ctx context.Context) ([]*model.APIUsage, error)
}

// UsageMeter accumulates how long each user's mutating requests take.
type UsageMeter struct {
	store   UsageStore
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewUsageMeter creates a new UsageMeter.
func NewUsageMeter(store UsageStore, recorder metrics.Recorder, logger *slog.Logger) *UsageMeter {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UsageMeter{
		store:   store,
		metrics: recorder,
		logger:  logger,
	}
}

// Record adds one call of the given duration to userID's counter.
// Negative durations count as zero.
func (m *UsageMeter) Record(ctx context.Context, userID string, elapsed time.Duration) (*model.APIUsage, error) {
	if userID == "" {
		return nil, ErrInvalidOwner
	}
	if elapsed < 0 {
		elapsed = 0
	}

	usage, err := m.store.AddUsage(ctx, userID, elapsed.Milliseconds())
	if err != nil {
		if errors.Is(err, repository.ErrOwnerNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidOwner, userID)
		}
		return nil, fmt.Errorf("failed to record usage: %w", err)
	}

	m.metrics.ObserveUsageRecord(elapsed)

	return usage, nil
}

// Measure runs fn and records its wall time against userID.
// The measurement is persisted even when ctx is cancelled or fn panics;
// a panic keeps propagating after the record. A failed measurement is only
// logged, and fn's error is returned untouched.
func (m *UsageMeter) Measure(ctx context.Context, userID string, fn func(ctx context.Context) error) error {
	start := time.Now()
	defer func() {
		m.record(ctx, userID, time.Since(start))
	}()

	return fn(ctx)
}

func (m *UsageMeter) record(ctx context.Context, userID string, elapsed time.Duration) {
	if _, err := m.Record(context.WithoutCancel(ctx), userID, elapsed); err != nil {
		m.metrics.IncUsageRecordFailed()
		m.logger.Error("usage_record_failed",
			"user_id", userID,
			"elapsed_ms", elapsed.Milliseconds(),
			"error", err,
		)
	}
}

// ListAll returns every user's counter, heaviest first.
func (m *UsageMeter) ListAll(ctx context.Context) ([]*model.APIUsage, error) {
	usages, err := m.store.ListUsage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list usage: %w", err)
	}
	return usages, nil
}
