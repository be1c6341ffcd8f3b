package taste

import (
	"sort"
	"strings"
)

// Answers maps question id to the chosen label ("A" or "B").
type Answers map[string]string

// Scores maps base archetype to its accumulated points.
type Scores map[Label]int

// Total is the sum of all points awarded.
func (s Scores) Total() int {
	n := 0
	for _, v := range s {
		n += v
	}
	return n
}

// Classification is the outcome of a quiz.
type Classification struct {
	Label         Label    `json:"label"`
	Kind          Kind     `json:"kind"`
	Scores        Scores   `json:"scores"`
	Info          TypeInfo `json:"info"`
	LowConfidence bool     `json:"low_confidence"`
}

const (
	pureThreshold  = 3
	mixedThreshold = 2
)

func normalizeQuestionID(id string) string { return strings.ToLower(strings.TrimSpace(id)) }

func normalizeChoice(choice string) string { return strings.ToUpper(strings.TrimSpace(choice)) }

// NormalizeAnswers folds question ids to lower case and choices to upper case.
// When two raw keys fold to the same id the lexically smallest raw key wins.
func NormalizeAnswers(answers Answers) Answers {
	keys := make([]string, 0, len(answers))
	for k := range answers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make(Answers, len(answers))
	for _, k := range keys {
		id := normalizeQuestionID(k)
		if _, seen := out[id]; seen {
			continue
		}
		out[id] = normalizeChoice(answers[k])
	}
	return out
}

// CalculateScores totals the archetype weights of every recognised answer.
// Unknown questions and unknown choices are skipped; validation is the
// caller's job (see ValidateAnswers).
func (c *Catalog) CalculateScores(answers Answers) Scores {
	scores := make(Scores, len(c.base))
	for _, l := range c.base {
		scores[l] = 0
	}
	for id, choice := range NormalizeAnswers(answers) {
		ix, ok := c.questionIx[id]
		if !ok {
			continue
		}
		for _, ch := range c.questions[ix].Choices {
			if ch.Label != choice {
				continue
			}
			for l, w := range ch.Weights {
				scores[l] += w
			}
		}
	}
	return scores
}

// DetermineType picks the archetype for a score table. Checks run in a fixed
// order: a single base archetype at >= 3 points, then exactly two base
// archetypes tied at 2 points, then the fallback. Non-base keys are ignored.
func (c *Catalog) DetermineType(scores Scores) Label {
	best := 0
	var top []Label
	for _, l := range c.base {
		s := scores[l]
		switch {
		case s > best:
			best = s
			top = []Label{l}
		case s == best && s > 0:
			top = append(top, l)
		}
	}

	if best >= pureThreshold && len(top) == 1 {
		return top[0]
	}
	if best == mixedThreshold && len(top) == 2 {
		if l, ok := c.MixedLabel(top[0], top[1]); ok {
			return l
		}
	}
	return c.fallback
}

// Classify scores answers and resolves the archetype. It never fails.
func (c *Catalog) Classify(answers Answers) Classification {
	scores := c.CalculateScores(answers)
	label := c.DetermineType(scores)
	info := c.TypeInfo(label)
	return Classification{
		Label:         label,
		Kind:          info.Kind,
		Scores:        scores,
		Info:          info,
		LowConfidence: label == c.fallback,
	}
}

// Classify runs the embedded catalog's classifier.
func Classify(answers Answers) Classification {
	return DefaultCatalog().Classify(answers)
}
