package taste

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FlavorProfile is the persisted six-dimension taste vector of one user.
type FlavorProfile struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`

	Sweetness   float64 `gorm:"column:sweetness;not null" json:"sweetness"`
	Acidity     float64 `gorm:"column:acidity;not null" json:"acidity"`
	Body        float64 `gorm:"column:body;not null" json:"body"`
	Carbonation float64 `gorm:"column:carbonation;not null" json:"carbonation"`
	Bitterness  float64 `gorm:"column:bitterness;not null" json:"bitterness"`
	Aroma       float64 `gorm:"column:aroma;not null" json:"aroma"`

	ReviewCount int  `gorm:"column:review_count;not null" json:"review_count"`
	Seeded      bool `gorm:"column:seeded;not null" json:"seeded"`

	RetakeCount         int            `gorm:"column:retake_count;not null" json:"retake_count"`
	LastRetakeAt        *time.Time     `gorm:"column:last_retake_at" json:"last_retake_at,omitempty"`
	LastRetakeInfluence *float64       `gorm:"column:last_retake_influence" json:"last_retake_influence,omitempty"`
	RetakeBase          datatypes.JSON `gorm:"type:jsonb;column:retake_base" json:"retake_base,omitempty"`

	// HistorySeq is the last sequence number handed to a review signal or
	// profile event of this user.
	HistorySeq int64 `gorm:"column:history_seq;not null;default:0" json:"history_seq"`

	Analysis          string     `gorm:"column:analysis" json:"analysis"`
	AnalysisUpdatedAt *time.Time `gorm:"column:analysis_updated_at" json:"analysis_updated_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (FlavorProfile) TableName() string { return "flavor_profile" }

func (p *FlavorProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
