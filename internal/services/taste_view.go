package services

import (
	"cmp"
	"encoding/json"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	types "github.com/yungbote/jumak-backend/internal/domain"
	"github.com/yungbote/jumak-backend/internal/taste"
)

// TypeView is the public description of an archetype with its resolved image URL.
type TypeView struct {
	taste.TypeInfo
	ImageURL string `json:"image_url,omitempty"`
}

// ProfileView is the read model served to clients and cached.
type ProfileView struct {
	UserID              uuid.UUID    `json:"user_id"`
	Vector              taste.Vector `json:"vector"`
	Stage               taste.Stage  `json:"stage"`
	ReviewCount         int          `json:"review_count"`
	Seeded              bool         `json:"seeded"`
	RetakeCount         int          `json:"retake_count"`
	LastRetakeAt        *time.Time   `json:"last_retake_at,omitempty"`
	LastRetakeInfluence *float64     `json:"last_retake_influence,omitempty"`
	Analysis            string       `json:"analysis"`
	AnalysisUpdatedAt   *time.Time   `json:"analysis_updated_at,omitempty"`
	Type                *TypeView    `json:"type,omitempty"`
}

type QuizOutcome struct {
	Classification taste.Classification `json:"classification"`
	Profile        ProfileView          `json:"profile"`
}

type RetakeOutcome struct {
	Classification taste.Classification `json:"classification"`
	Plan           taste.RetakePlan     `json:"plan"`
	// Profile is set only when the retake was committed.
	Profile *ProfileView `json:"profile,omitempty"`
}

// ReviewInput is the taste evidence of one review, as sent by the review service.
type ReviewInput struct {
	ReviewID    uuid.UUID `json:"review_id"`
	ProductID   uuid.UUID `json:"product_id"`
	Overall     *float64  `json:"overall" validate:"omitempty,gte=1,lte=5"`
	Sweetness   *float64  `json:"sweetness" validate:"omitempty,gte=0,lte=5"`
	Acidity     *float64  `json:"acidity" validate:"omitempty,gte=0,lte=5"`
	Body        *float64  `json:"body" validate:"omitempty,gte=0,lte=5"`
	Carbonation *float64  `json:"carbonation" validate:"omitempty,gte=0,lte=5"`
	Bitterness  *float64  `json:"bitterness" validate:"omitempty,gte=0,lte=5"`
	Aroma       *float64  `json:"aroma" validate:"omitempty,gte=0,lte=5"`
}

func (in ReviewInput) row(userID uuid.UUID) *types.ReviewSignal {
	return &types.ReviewSignal{
		ReviewID:    in.ReviewID,
		UserID:      userID,
		ProductID:   in.ProductID,
		Overall:     in.Overall,
		Sweetness:   in.Sweetness,
		Acidity:     in.Acidity,
		Body:        in.Body,
		Carbonation: in.Carbonation,
		Bitterness:  in.Bitterness,
		Aroma:       in.Aroma,
	}
}

func signalFromRow(row *types.ReviewSignal) taste.ReviewSignal {
	sig := taste.ReviewSignal{Ratings: taste.Ratings{}}
	if row.Overall != nil {
		sig.Overall = *row.Overall
	}
	for d, v := range map[taste.Dimension]*float64{
		taste.Sweetness:   row.Sweetness,
		taste.Acidity:     row.Acidity,
		taste.Body:        row.Body,
		taste.Carbonation: row.Carbonation,
		taste.Bitterness:  row.Bitterness,
		taste.Aroma:       row.Aroma,
	} {
		if v != nil {
			sig.Ratings[d] = *v
		}
	}
	return sig
}

func newProfileRow(userID uuid.UUID) *types.FlavorProfile {
	row := &types.FlavorProfile{UserID: userID}
	setRowVector(row, taste.Uniform(taste.NeutralScore))
	return row
}

func setRowVector(row *types.FlavorProfile, v taste.Vector) {
	row.Sweetness = v.Sweetness
	row.Acidity = v.Acidity
	row.Body = v.Body
	row.Carbonation = v.Carbonation
	row.Bitterness = v.Bitterness
	row.Aroma = v.Aroma
}

func profileFromRow(row *types.FlavorProfile) *taste.Profile {
	p := &taste.Profile{
		Vector: taste.Vector{
			Sweetness:   row.Sweetness,
			Acidity:     row.Acidity,
			Body:        row.Body,
			Carbonation: row.Carbonation,
			Bitterness:  row.Bitterness,
			Aroma:       row.Aroma,
		},
		ReviewCount:         row.ReviewCount,
		Seeded:              row.Seeded,
		RetakeCount:         row.RetakeCount,
		LastRetakeAt:        row.LastRetakeAt,
		LastRetakeInfluence: row.LastRetakeInfluence,
		Analysis:            row.Analysis,
		AnalysisUpdatedAt:   row.AnalysisUpdatedAt,
	}
	if raw := strings.TrimSpace(string(row.RetakeBase)); raw != "" && raw != "null" {
		var base taste.Vector
		if err := json.Unmarshal(row.RetakeBase, &base); err == nil {
			p.RetakeBase = &base
		}
	}
	return p
}

func applyProfileToRow(p *taste.Profile, row *types.FlavorProfile) error {
	setRowVector(row, p.Vector)
	row.ReviewCount = p.ReviewCount
	row.Seeded = p.Seeded
	row.RetakeCount = p.RetakeCount
	row.LastRetakeAt = p.LastRetakeAt
	row.LastRetakeInfluence = p.LastRetakeInfluence
	row.Analysis = p.Analysis
	row.AnalysisUpdatedAt = p.AnalysisUpdatedAt
	row.RetakeBase = nil
	if p.RetakeBase != nil {
		raw, err := json.Marshal(p.RetakeBase)
		if err != nil {
			return err
		}
		row.RetakeBase = datatypes.JSON(raw)
	}
	return nil
}

func quizResultRow(userID uuid.UUID, answers taste.Answers, c taste.Classification) (*types.QuizResult, error) {
	rawAnswers, err := json.Marshal(taste.NormalizeAnswers(answers))
	if err != nil {
		return nil, err
	}
	rawScores, err := json.Marshal(c.Scores)
	if err != nil {
		return nil, err
	}
	return &types.QuizResult{
		UserID:  userID,
		Answers: datatypes.JSON(rawAnswers),
		Label:   string(c.Label),
		Scores:  datatypes.JSON(rawScores),
	}, nil
}

// nextSeq hands out the next history position; row must be locked.
func nextSeq(row *types.FlavorProfile) int64 {
	row.HistorySeq++
	return row.HistorySeq
}

func profileEventRow(userID uuid.UUID, seq int64, ev taste.HistoryEvent) (*types.ProfileEvent, error) {
	ref, err := json.Marshal(ev.Reference)
	if err != nil {
		return nil, err
	}
	return &types.ProfileEvent{
		UserID:    userID,
		Seq:       seq,
		Kind:      string(ev.Kind),
		Label:     string(ev.Label),
		Reference: datatypes.JSON(ref),
		Influence: ev.Influence,
	}, nil
}

// historyFromRows merges quiz events and active review signals by seq.
func historyFromRows(events []*types.ProfileEvent, signals []*types.ReviewSignal) ([]taste.HistoryEvent, error) {
	type step struct {
		seq int64
		ev  taste.HistoryEvent
	}
	steps := make([]step, 0, len(events)+len(signals))
	for _, row := range signals {
		steps = append(steps, step{seq: row.Seq, ev: taste.HistoryEvent{Kind: taste.EventReview, Review: signalFromRow(row)}})
	}
	for _, row := range events {
		var ref taste.Vector
		if err := json.Unmarshal(row.Reference, &ref); err != nil {
			return nil, err
		}
		steps = append(steps, step{seq: row.Seq, ev: taste.HistoryEvent{
			Kind:      taste.EventKind(row.Kind),
			Label:     taste.Label(row.Label),
			Reference: ref,
			Influence: row.Influence,
		}})
	}
	slices.SortStableFunc(steps, func(a, b step) int { return cmp.Compare(a.seq, b.seq) })
	out := make([]taste.HistoryEvent, len(steps))
	for i, st := range steps {
		out[i] = st.ev
	}
	return out, nil
}

func refreshAnalysis(p *taste.Profile, now time.Time) {
	at := now.UTC()
	p.Analysis = taste.GenerateAnalysis(p)
	p.AnalysisUpdatedAt = &at
}
