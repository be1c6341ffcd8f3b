package taste

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuizResult is the latest quiz submission of a user. A retake overwrites it.
type QuizResult struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`

	Answers datatypes.JSON `gorm:"type:jsonb;column:answers;not null" json:"answers"`
	Label   string         `gorm:"column:label;not null;index" json:"label"`
	Scores  datatypes.JSON `gorm:"type:jsonb;column:scores;not null" json:"scores"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (QuizResult) TableName() string { return "quiz_result" }

func (q *QuizResult) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}
