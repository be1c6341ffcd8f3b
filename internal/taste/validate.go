package taste

import "sort"

// ValidateAnswers checks that answers covers exactly the catalog's questions
// with one valid choice each. It returns *ValidationError on failure.
func (c *Catalog) ValidateAnswers(answers Answers) error {
	verr := &ValidationError{}

	byID := map[string][]string{}
	for raw := range answers {
		id := normalizeQuestionID(raw)
		byID[id] = append(byID[id], raw)
	}

	for id, raws := range byID {
		if _, known := c.questionIx[id]; !known {
			verr.Extra = append(verr.Extra, raws...)
			continue
		}
		if len(raws) > 1 {
			verr.Extra = append(verr.Extra, raws...)
			continue
		}
		switch normalizeChoice(answers[raws[0]]) {
		case ChoiceA, ChoiceB:
		default:
			verr.InvalidChoice = append(verr.InvalidChoice, id)
		}
	}
	for _, q := range c.questions {
		if _, ok := byID[q.ID]; !ok {
			verr.Missing = append(verr.Missing, q.ID)
		}
	}

	if verr.empty() {
		return nil
	}
	sort.Strings(verr.Missing)
	sort.Strings(verr.Extra)
	sort.Strings(verr.InvalidChoice)
	return verr
}
