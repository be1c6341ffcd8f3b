package taste

// EventKind names one step of a profile's history.
type EventKind string

const (
	EventReview     EventKind = "review"
	EventSeed       EventKind = "seed"
	EventInitialize EventKind = "initialize"
	EventRetake     EventKind = "retake"
)

// HistoryEvent is one ordered step that changed a profile's vector. Quiz
// events carry the reference vector and influence they were applied with, so
// replay does not depend on the catalog in force today.
type HistoryEvent struct {
	Kind      EventKind
	Label     Label
	Reference Vector
	Influence float64
	Review    ReviewSignal
}

// InitializeEvent describes what Initialize does for a profile holding
// reviewCount reviews.
func (c *Catalog) InitializeEvent(reviewCount int, label Label) (HistoryEvent, error) {
	ref, err := c.ReferenceVector(label)
	if err != nil {
		return HistoryEvent{}, err
	}
	if reviewCount == 0 {
		return HistoryEvent{Kind: EventSeed, Label: label, Reference: ref, Influence: 1}, nil
	}
	return HistoryEvent{Kind: EventInitialize, Label: label, Reference: ref, Influence: InfluenceFor(reviewCount)}, nil
}

// Event is the history entry of a committed plan.
func (plan RetakePlan) Event() HistoryEvent {
	return HistoryEvent{Kind: EventRetake, Label: plan.Label, Reference: plan.Reference, Influence: plan.Influence}
}

// ReplayHistory rebuilds vector, review count, seeded flag and retake base
// from the full ordered history, starting at the neutral vector. An
// initialize step that no longer has any surviving review before it seeds
// outright, as Initialize would have.
func ReplayHistory(events []HistoryEvent) *Profile {
	p := NewProfile()
	for _, ev := range events {
		switch ev.Kind {
		case EventReview:
			IncorporateReview(p, ev.Review)
		case EventSeed:
			p.Vector = ev.Reference.Clamped()
			p.Seeded = true
		case EventInitialize:
			if p.ReviewCount == 0 {
				p.Vector = ev.Reference.Clamped()
			} else {
				p.Vector = Blend(p.Vector, ev.Reference, ev.Influence)
			}
			p.Seeded = true
		case EventRetake:
			before := p.Vector
			p.RetakeBase = &before
			p.Vector = Blend(p.Vector, ev.Reference, ev.Influence)
			p.Seeded = true
		}
	}
	return p
}
