package taste

import (
	"errors"
	"reflect"
	"testing"
)

func TestValidateAnswers(t *testing.T) {
	c := DefaultCatalog()

	if err := c.ValidateAnswers(Answers{"q1": "A", "q2": "b", "q3": "B", "q4": "A", "Q5": " B", "q6": "A"}); err != nil {
		t.Fatalf("valid answers rejected: %v", err)
	}

	err := c.ValidateAnswers(Answers{"q1": "A", "q2": "C", "q3": "B", "q4": "A", "q5": "B", "q7": "A"})
	if !errors.Is(err, ErrInvalidAnswers) {
		t.Fatalf("expected ErrInvalidAnswers, got %v", err)
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if !reflect.DeepEqual(verr.Missing, []string{"q6"}) {
		t.Fatalf("missing: %v", verr.Missing)
	}
	if !reflect.DeepEqual(verr.Extra, []string{"q7"}) {
		t.Fatalf("extra: %v", verr.Extra)
	}
	if !reflect.DeepEqual(verr.InvalidChoice, []string{"q2"}) {
		t.Fatalf("invalid choice: %v", verr.InvalidChoice)
	}
}

func TestValidateAnswersDuplicateKeys(t *testing.T) {
	c := DefaultCatalog()
	err := c.ValidateAnswers(Answers{"q1": "A", "Q1": "B", "q2": "A", "q3": "A", "q4": "A", "q5": "A", "q6": "A"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if !reflect.DeepEqual(verr.Extra, []string{"Q1", "q1"}) || len(verr.Missing) != 0 {
		t.Fatalf("got %+v", verr)
	}
}

func TestValidateAnswersEmpty(t *testing.T) {
	c := DefaultCatalog()
	var verr *ValidationError
	if !errors.As(c.ValidateAnswers(nil), &verr) {
		t.Fatalf("expected validation error")
	}
	if !reflect.DeepEqual(verr.Missing, c.QuestionIDs()) {
		t.Fatalf("missing: %v", verr.Missing)
	}
}
