package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/jumak-backend/internal/domain"
	"gorm.io/gorm"
)

func Float(v float64) *float64 { return &v }

// SeedReviewSignal inserts an active signal for userID created at the given time.
func SeedReviewSignal(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, at time.Time, sweetness *float64) *types.ReviewSignal {
	tb.Helper()
	s := &types.ReviewSignal{
		ID:        uuid.New(),
		ReviewID:  uuid.New(),
		UserID:    userID,
		ProductID: uuid.New(),
		Overall:   Float(4),
		Sweetness: sweetness,
		CreatedAt: at.UTC(),
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed review signal: %v", err)
	}
	return s
}
