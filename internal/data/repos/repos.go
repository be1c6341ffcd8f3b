package repos

import (
	"github.com/yungbote/jumak-backend/internal/data/repos/taste"
	"github.com/yungbote/jumak-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type FlavorProfileRepo = taste.FlavorProfileRepo
type QuizResultRepo = taste.QuizResultRepo
type ReviewSignalRepo = taste.ReviewSignalRepo
type ProfileEventRepo = taste.ProfileEventRepo

// Set bundles every repository the taste services depend on.
type Set struct {
	FlavorProfile FlavorProfileRepo
	QuizResult    QuizResultRepo
	ReviewSignal  ReviewSignalRepo
	ProfileEvent  ProfileEventRepo
}

func NewSet(db *gorm.DB, log *logger.Logger) Set {
	return Set{
		FlavorProfile: taste.NewFlavorProfileRepo(db, log),
		QuizResult:    taste.NewQuizResultRepo(db, log),
		ReviewSignal:  taste.NewReviewSignalRepo(db, log),
		ProfileEvent:  taste.NewProfileEventRepo(db, log),
	}
}
