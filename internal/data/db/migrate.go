package db

import (
	types "github.com/yungbote/jumak-backend/internal/domain"
	"gorm.io/gorm"
)

// Models lists every table owned by the taste engine.
func Models() []any {
	return []any{
		&types.FlavorProfile{},
		&types.QuizResult{},
		&types.ReviewSignal{},
		&types.ProfileEvent{},
	}
}

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
