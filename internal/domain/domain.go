package domain

import (
	"github.com/yungbote/jumak-backend/internal/domain/taste"
)

type FlavorProfile = taste.FlavorProfile
type QuizResult = taste.QuizResult
type ReviewSignal = taste.ReviewSignal
type ProfileEvent = taste.ProfileEvent
