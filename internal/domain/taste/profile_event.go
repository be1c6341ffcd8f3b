package taste

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProfileEvent records a quiz step (seed, initialize or retake) applied to a
// user's flavor profile. Seq shares one per-user counter with ReviewSignal so
// the two tables merge into the profile's ordered history.
type ProfileEvent struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_profile_event_user_seq,priority:1" json:"user_id"`
	Seq    int64     `gorm:"column:seq;not null;uniqueIndex:idx_profile_event_user_seq,priority:2" json:"seq"`

	Kind      string         `gorm:"column:kind;not null" json:"kind"`
	Label     string         `gorm:"column:label;not null" json:"label"`
	Reference datatypes.JSON `gorm:"type:jsonb;column:reference;not null" json:"reference"`
	Influence float64        `gorm:"column:influence;not null" json:"influence"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (ProfileEvent) TableName() string { return "taste_profile_event" }

func (e *ProfileEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
