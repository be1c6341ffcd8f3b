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

type QuizResultRepo interface {
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.QuizResult, error)
	Upsert(dbc dbctx.Context, row *types.QuizResult) error
}

type quizResultRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizResultRepo(db *gorm.DB, baseLog *logger.Logger) QuizResultRepo {
	return &quizResultRepo{db: db, log: baseLog.With("repo", "QuizResultRepo")}
}

func (r *quizResultRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.QuizResult, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil {
		return nil, nil
	}
	var row types.QuizResult
	if err := t.WithContext(dbc.Ctx).Where("user_id = ?", userID).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

// Upsert keeps a single result per user; a retake overwrites answers, label and scores.
func (r *quizResultRepo) Upsert(dbc dbctx.Context, row *types.QuizResult) error {
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
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"answers", "label", "scores", "updated_at"}),
		}).
		Create(row).Error
}
