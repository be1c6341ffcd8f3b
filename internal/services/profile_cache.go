package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/jumak-backend/internal/platform/logger"
	"github.com/yungbote/jumak-backend/internal/platform/rediscache"
)

// profileCache stores ProfileView read models. Failures are logged and
// treated as misses; the database stays the source of truth.
type profileCache struct {
	log   *logger.Logger
	cache rediscache.Cache
	ttl   time.Duration
}

func newProfileCache(log *logger.Logger, cache rediscache.Cache, ttl time.Duration) *profileCache {
	return &profileCache{log: log.With("component", "ProfileCache"), cache: cache, ttl: ttl}
}

func profileCacheKey(userID uuid.UUID) string { return "taste:profile:" + userID.String() }

func (pc *profileCache) get(ctx context.Context, userID uuid.UUID) (*ProfileView, bool) {
	if pc == nil || pc.cache == nil {
		return nil, false
	}
	raw, err := pc.cache.Get(ctx, profileCacheKey(userID))
	if err != nil {
		if !errors.Is(err, rediscache.ErrMiss) {
			pc.log.Warn("profile cache read failed", "user_id", userID, "error", err)
		}
		return nil, false
	}
	var view ProfileView
	if err := json.Unmarshal(raw, &view); err != nil {
		pc.log.Warn("profile cache entry unreadable", "user_id", userID, "error", err)
		return nil, false
	}
	return &view, true
}

func (pc *profileCache) put(ctx context.Context, view *ProfileView) {
	if pc == nil || pc.cache == nil || view == nil {
		return
	}
	raw, err := json.Marshal(view)
	if err != nil {
		return
	}
	if err := pc.cache.Set(ctx, profileCacheKey(view.UserID), raw, pc.ttl); err != nil {
		pc.log.Warn("profile cache write failed", "user_id", view.UserID, "error", err)
	}
}

func (pc *profileCache) invalidate(ctx context.Context, userID uuid.UUID) {
	if pc == nil || pc.cache == nil {
		return
	}
	if err := pc.cache.Delete(ctx, profileCacheKey(userID)); err != nil {
		pc.log.Warn("profile cache invalidate failed", "user_id", userID, "error", err)
	}
}
