package taste

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/jumak-backend/internal/domain"
	"github.com/yungbote/jumak-backend/internal/platform/dbctx"
	"github.com/yungbote/jumak-backend/internal/platform/logger"
)

type ReviewSignalRepo interface {
	Create(dbc dbctx.Context, row *types.ReviewSignal) error
	// GetByReviewID ignores soft-deleted rows.
	GetByReviewID(dbc dbctx.Context, reviewID uuid.UUID) (*types.ReviewSignal, error)
	// SoftDelete reports whether an active row was deleted.
	SoftDelete(dbc dbctx.Context, reviewID uuid.UUID) (bool, error)
	// ListActiveByUser returns the user's active signals in history order.
	ListActiveByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.ReviewSignal, error)
}

type reviewSignalRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReviewSignalRepo(db *gorm.DB, baseLog *logger.Logger) ReviewSignalRepo {
	return &reviewSignalRepo{db: db, log: baseLog.With("repo", "ReviewSignalRepo")}
}

func (r *reviewSignalRepo) Create(dbc dbctx.Context, row *types.ReviewSignal) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if row == nil {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	return t.WithContext(dbc.Ctx).Create(row).Error
}

func (r *reviewSignalRepo) GetByReviewID(dbc dbctx.Context, reviewID uuid.UUID) (*types.ReviewSignal, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if reviewID == uuid.Nil {
		return nil, nil
	}
	var row types.ReviewSignal
	if err := t.WithContext(dbc.Ctx).Where("review_id = ?", reviewID).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *reviewSignalRepo) SoftDelete(dbc dbctx.Context, reviewID uuid.UUID) (bool, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if reviewID == uuid.Nil {
		return false, nil
	}
	res := t.WithContext(dbc.Ctx).Where("review_id = ?", reviewID).Delete(&types.ReviewSignal{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *reviewSignalRepo) ListActiveByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.ReviewSignal, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	out := []*types.ReviewSignal{}
	if userID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("seq ASC").
		Order("created_at ASC").
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
