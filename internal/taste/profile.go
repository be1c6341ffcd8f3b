package taste

import "time"

// Profile is the engine's view of a user's flavor profile. It carries no
// persistence concerns; the service layer maps it to and from storage rows.
type Profile struct {
	Vector      Vector
	ReviewCount int
	Seeded      bool

	RetakeCount         int
	LastRetakeAt        *time.Time
	LastRetakeInfluence *float64
	// RetakeBase is the vector as it stood right before the last retake blend.
	RetakeBase *Vector

	Analysis          string
	AnalysisUpdatedAt *time.Time
}

// NewProfile returns an unseeded profile at the neutral midpoint.
func NewProfile() *Profile {
	return &Profile{Vector: Uniform(NeutralScore)}
}

// Stage describes how much evidence backs a profile. It is derived, never stored.
type Stage string

const (
	StageUnseeded   Stage = "unseeded"
	StageSeeded     Stage = "seeded"
	StageLearning   Stage = "learning"
	StageConverging Stage = "converging"
	StageStable     Stage = "stable"
)

// Review-count thresholds shared by retake influence and analysis wording.
const (
	ConvergingAt = 5
	StableAt     = 20
)

func StageOf(p *Profile) Stage {
	if p == nil {
		return StageUnseeded
	}
	switch {
	case p.ReviewCount >= StableAt:
		return StageStable
	case p.ReviewCount >= ConvergingAt:
		return StageConverging
	case p.ReviewCount > 0:
		return StageLearning
	case p.Seeded:
		return StageSeeded
	default:
		return StageUnseeded
	}
}
