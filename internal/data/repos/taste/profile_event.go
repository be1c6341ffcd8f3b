package taste

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/jumak-backend/internal/domain"
	"github.com/yungbote/jumak-backend/internal/platform/dbctx"
	"github.com/yungbote/jumak-backend/internal/platform/logger"
)

type ProfileEventRepo interface {
	Create(dbc dbctx.Context, row *types.ProfileEvent) error
	// ListByUser returns the user's quiz events in seq order.
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.ProfileEvent, error)
}

type profileEventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProfileEventRepo(db *gorm.DB, baseLog *logger.Logger) ProfileEventRepo {
	return &profileEventRepo{db: db, log: baseLog.With("repo", "ProfileEventRepo")}
}

func (r *profileEventRepo) Create(dbc dbctx.Context, row *types.ProfileEvent) error {
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

func (r *profileEventRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.ProfileEvent, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	out := []*types.ProfileEvent{}
	if userID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("seq ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
