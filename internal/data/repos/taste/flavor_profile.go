package taste

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/jumak-backend/internal/domain"
	"github.com/yungbote/jumak-backend/internal/platform/dbctx"
	"github.com/yungbote/jumak-backend/internal/platform/logger"
)

type FlavorProfileRepo interface {
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.FlavorProfile, error)
	GetByUserIDForUpdate(dbc dbctx.Context, userID uuid.UUID) (*types.FlavorProfile, error)
	// EnsureForUpdate inserts init when no row exists for its user, then
	// returns the stored row locked for the rest of the transaction.
	EnsureForUpdate(dbc dbctx.Context, init *types.FlavorProfile) (*types.FlavorProfile, error)
	Save(dbc dbctx.Context, row *types.FlavorProfile) error
}

type flavorProfileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFlavorProfileRepo(db *gorm.DB, baseLog *logger.Logger) FlavorProfileRepo {
	return &flavorProfileRepo{db: db, log: baseLog.With("repo", "FlavorProfileRepo")}
}

func (r *flavorProfileRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.FlavorProfile, error) {
	return r.get(dbc, userID, false)
}

func (r *flavorProfileRepo) GetByUserIDForUpdate(dbc dbctx.Context, userID uuid.UUID) (*types.FlavorProfile, error) {
	return r.get(dbc, userID, true)
}

func (r *flavorProfileRepo) get(dbc dbctx.Context, userID uuid.UUID, lock bool) (*types.FlavorProfile, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil {
		return nil, nil
	}
	q := t.WithContext(dbc.Ctx)
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var row types.FlavorProfile
	if err := q.Where("user_id = ?", userID).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *flavorProfileRepo) EnsureForUpdate(dbc dbctx.Context, init *types.FlavorProfile) (*types.FlavorProfile, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if init == nil || init.UserID == uuid.Nil {
		return nil, nil
	}
	if init.ID == uuid.Nil {
		init.ID = uuid.New()
	}
	if err := t.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(init).Error; err != nil {
		return nil, err
	}
	return r.get(dbctx.Context{Ctx: dbc.Ctx, Tx: t}, init.UserID, true)
}

func (r *flavorProfileRepo) Save(dbc dbctx.Context, row *types.FlavorProfile) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.UserID == uuid.Nil {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	row.UpdatedAt = time.Now().UTC()
	return t.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"sweetness",
				"acidity",
				"body",
				"carbonation",
				"bitterness",
				"aroma",
				"review_count",
				"seeded",
				"retake_count",
				"last_retake_at",
				"last_retake_influence",
				"retake_base",
				"history_seq",
				"analysis",
				"analysis_updated_at",
				"updated_at",
			}),
		}).
		Create(row).Error
}
