package taste

import (
	"fmt"
	"math"
	"time"
)

const (
	maxReviewAlpha        = 0.25
	minReviewAlpha        = 0.05
	defaultReviewStrength = 0.6

	// ChangeReportThreshold is the smallest per-dimension retake change worth telling the user about.
	ChangeReportThreshold = 0.2

	influenceHigh   = 0.8
	influenceMedium = 0.4
	influenceLow    = 0.1
)

// ReviewSignal is the taste evidence extracted from one product review.
type ReviewSignal struct {
	// Overall is the review's star rating in [1,5]; 0 means not given.
	Overall float64
	Ratings Ratings
}

// Seed overwrites the vector with the label's reference vector.
func (c *Catalog) Seed(p *Profile, label Label) error {
	ref, err := c.ReferenceVector(label)
	if err != nil {
		return err
	}
	p.Vector = ref
	p.Seeded = true
	return nil
}

// Initialize applies a first quiz result. A profile without review evidence
// is seeded outright; one that already learned from reviews is blended at the
// bracket influence, without counting as a retake.
func (c *Catalog) Initialize(p *Profile, label Label) error {
	if p.ReviewCount == 0 {
		return c.Seed(p, label)
	}
	ref, err := c.ReferenceVector(label)
	if err != nil {
		return err
	}
	p.Vector = Blend(p.Vector, ref, InfluenceFor(p.ReviewCount))
	p.Seeded = true
	return nil
}

// ReviewAlpha is the fraction of the gap between the stored value and the
// review's value that one review closes. It shrinks as evidence accumulates
// and never exceeds maxReviewAlpha.
func ReviewAlpha(reviewCount int, overall float64) float64 {
	n := float64(reviewCount + 1)
	base := clamp(2.0/(n+1.0), minReviewAlpha, maxReviewAlpha)
	strength := defaultReviewStrength
	if overall > 0 {
		strength = clamp(overall/MaxScore, 0, 1)
	}
	return base * (0.5 + 0.5*strength)
}

// IncorporateReview nudges each rated dimension toward the review's value.
// Unrated dimensions are untouched; ReviewCount always grows by one. Calling
// it twice for the same review double-counts it.
func IncorporateReview(p *Profile, sig ReviewSignal) *Profile {
	alpha := ReviewAlpha(p.ReviewCount, sig.Overall)
	for _, d := range Dimensions {
		target, ok := sig.Ratings[d]
		if !ok || math.IsNaN(target) || math.IsInf(target, 0) {
			continue
		}
		cur := p.Vector.Get(d)
		p.Vector = p.Vector.With(d, clampScore(cur+alpha*(clampScore(target)-cur)))
	}
	p.ReviewCount++
	return p
}

// Replay rebuilds a profile from a seed vector and the full ordered review history.
func Replay(seed Vector, seeded bool, signals []ReviewSignal) *Profile {
	p := &Profile{Vector: seed.Clamped(), Seeded: seeded}
	for _, sig := range signals {
		IncorporateReview(p, sig)
	}
	return p
}

// InfluenceFor is the weight a retaken quiz gets against accumulated reviews.
func InfluenceFor(reviewCount int) float64 {
	switch {
	case reviewCount < ConvergingAt:
		return influenceHigh
	case reviewCount < StableAt:
		return influenceMedium
	default:
		return influenceLow
	}
}

// Blend moves current toward reference by influence, clamped.
func Blend(current, reference Vector, influence float64) Vector {
	influence = clamp(influence, 0, 1)
	var out Vector
	for _, d := range Dimensions {
		out = out.With(d, clampScore(current.Get(d)*(1-influence)+reference.Get(d)*influence))
	}
	return out
}

type DimensionChange struct {
	Dimension Dimension `json:"dimension"`
	Before    float64   `json:"before"`
	After     float64   `json:"after"`
	Delta     float64   `json:"delta"`
}

// RetakePlan is the full outcome of a retake, computed without touching the profile.
type RetakePlan struct {
	Label     Label             `json:"label"`
	Influence float64           `json:"influence_rate"`
	Reference Vector            `json:"reference"`
	Before    Vector            `json:"before"`
	Predicted Vector            `json:"predicted"`
	Changes   []DimensionChange `json:"changes"`
	Message   string            `json:"message"`
}

// PlanRetake computes what a retake to label would do. Preview and commit
// both go through here so the preview is exactly what gets written.
func (c *Catalog) PlanRetake(p *Profile, label Label) (RetakePlan, error) {
	ref, err := c.ReferenceVector(label)
	if err != nil {
		return RetakePlan{}, err
	}
	influence := InfluenceFor(p.ReviewCount)
	predicted := Blend(p.Vector, ref, influence)

	plan := RetakePlan{
		Label:     label,
		Influence: influence,
		Reference: ref,
		Before:    p.Vector,
		Predicted: predicted,
		Changes:   []DimensionChange{},
	}
	for _, d := range Dimensions {
		before, after := p.Vector.Get(d), predicted.Get(d)
		delta := after - before
		if math.Abs(delta)+1e-9 < ChangeReportThreshold {
			continue
		}
		plan.Changes = append(plan.Changes, DimensionChange{Dimension: d, Before: before, After: after, Delta: delta})
	}
	plan.Message = retakeMessage(influence, plan.Changes)
	return plan, nil
}

// ApplyRetake commits a plan produced by PlanRetake for the same profile state.
func ApplyRetake(p *Profile, plan RetakePlan, now time.Time) error {
	if p.Vector != plan.Before {
		return ErrStalePlan
	}
	before := plan.Before
	influence := plan.Influence
	at := now.UTC()

	p.RetakeBase = &before
	p.Vector = plan.Predicted
	p.Seeded = true
	p.RetakeCount++
	p.LastRetakeAt = &at
	p.LastRetakeInfluence = &influence
	return nil
}

func retakeMessage(influence float64, changes []DimensionChange) string {
	var msg string
	switch {
	case influence >= influenceHigh:
		msg = "리뷰 데이터가 아직 적어 새 테스트 결과가 취향 프로필에 크게 반영됩니다."
	case influence >= influenceMedium:
		msg = "쌓인 리뷰와 새 테스트 결과가 균형 있게 반영됩니다."
	default:
		msg = "리뷰 데이터가 충분히 쌓여 새 테스트 결과는 소폭만 반영됩니다."
	}
	if len(changes) == 0 {
		return msg + " 눈에 띄는 취향 변화는 없습니다."
	}
	return fmt.Sprintf("%s %d개 항목의 취향이 달라집니다.", msg, len(changes))
}
