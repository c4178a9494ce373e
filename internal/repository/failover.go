package repository

import (
	"context"
	"sync/atomic"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

// FailoverSearchCache prefers the primary cache (Redis) and falls back
// to the in-memory one when the primary errors, probing for recovery
// at most once a minute.
type FailoverSearchCache struct {
	primary   domain.SearchCache
	fallback  domain.SearchCache
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64 // unix seconds of the last failed probe
}

func NewFailoverSearchCache(primary, fallback domain.SearchCache, logger *zerolog.Logger) *FailoverSearchCache {
	return &FailoverSearchCache{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (f *FailoverSearchCache) GetSearch(ctx context.Context, text string) ([]models.Item, error) {
	if f.primaryUp() {
		items, err := f.primary.GetSearch(ctx, text)
		if err == nil {
			return items, nil
		}
		f.markDown(err)
	}
	return f.fallback.GetSearch(ctx, text)
}

func (f *FailoverSearchCache) SetSearch(ctx context.Context, text string, items []models.Item) error {
	if f.primaryUp() {
		err := f.primary.SetSearch(ctx, text, items)
		if err == nil {
			return nil
		}
		f.markDown(err)
	}
	return f.fallback.SetSearch(ctx, text, items)
}

func (f *FailoverSearchCache) Invalidate(ctx context.Context) error {
	// Both sides are cleared; a recovering primary must not serve
	// entries from before the invalidation.
	var primaryErr error
	if f.primaryUp() {
		primaryErr = f.primary.Invalidate(ctx)
		if primaryErr != nil {
			f.markDown(primaryErr)
		}
	}
	if err := f.fallback.Invalidate(ctx); err != nil {
		return err
	}
	return primaryErr
}

func (f *FailoverSearchCache) primaryUp() bool {
	if !f.isDown.Load() {
		return true
	}
	// Allow a recovery probe once the cool-down has passed.
	last := time.Unix(f.lastCheck.Load(), 0)
	if time.Since(last) > time.Minute {
		f.isDown.Store(false)
		return true
	}
	return false
}

func (f *FailoverSearchCache) markDown(err error) {
	f.logger.Error().Err(err).Msg("primary search cache failed, falling back to memory")
	f.isDown.Store(true)
	f.lastCheck.Store(time.Now().Unix())
}
