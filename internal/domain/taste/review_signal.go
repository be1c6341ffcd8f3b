package taste

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReviewSignal is the taste evidence carried by one product review. Rows are
// soft-deleted when the review goes away so the profile can be replayed.
type ReviewSignal struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ReviewID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"review_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_review_signal_user_created,priority:1" json:"user_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Seq       int64     `gorm:"column:seq;not null;default:0" json:"seq"`

	Overall     *float64 `gorm:"column:overall" json:"overall,omitempty"`
	Sweetness   *float64 `gorm:"column:sweetness" json:"sweetness,omitempty"`
	Acidity     *float64 `gorm:"column:acidity" json:"acidity,omitempty"`
	Body        *float64 `gorm:"column:body" json:"body,omitempty"`
	Carbonation *float64 `gorm:"column:carbonation" json:"carbonation,omitempty"`
	Bitterness  *float64 `gorm:"column:bitterness" json:"bitterness,omitempty"`
	Aroma       *float64 `gorm:"column:aroma" json:"aroma,omitempty"`

	CreatedAt time.Time      `gorm:"not null;autoCreateTime;index:idx_review_signal_user_created,priority:2" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ReviewSignal) TableName() string { return "taste_review_signal" }

func (s *ReviewSignal) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
