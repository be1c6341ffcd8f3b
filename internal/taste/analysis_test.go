package taste

import (
	"strings"
	"testing"
)

func TestGenerateAnalysisBrackets(t *testing.T) {
	rich := Vector{Sweetness: 4.5, Acidity: 3, Body: 3, Carbonation: 3, Bitterness: 1, Aroma: 4.2}

	if got := GenerateAnalysis(&Profile{Vector: rich}); got != msgNoReviews {
		t.Fatalf("zero reviews: %q", got)
	}
	if got := GenerateAnalysis(nil); got != msgNoReviews {
		t.Fatalf("nil profile: %q", got)
	}
	for _, n := range []int{1, 2} {
		if got := GenerateAnalysis(&Profile{Vector: rich, ReviewCount: n}); got != msgLowConfidence {
			t.Fatalf("%d reviews: %q", n, got)
		}
	}

	got := GenerateAnalysis(&Profile{Vector: rich, ReviewCount: 3})
	for _, want := range []string{"선호하는 맛: 단맛, 향.", "덜 선호하는 맛: 쓴맛.", "과실주", "초기 분석"} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in %q", want, got)
		}
	}
}

func TestGenerateAnalysisDecisionTable(t *testing.T) {
	cases := []struct {
		name   string
		vector Vector
		count  int
		want   []string
	}{
		{"sparkling", Vector{Sweetness: 3, Acidity: 4.5, Body: 2.5, Carbonation: 4.1, Bitterness: 3, Aroma: 3}, 8, []string{"스파클링 막걸리", "자리를 잡아"}},
		{"distilled", Vector{Sweetness: 3, Acidity: 3, Body: 4.4, Carbonation: 3, Bitterness: 4, Aroma: 3}, 20, []string{"증류식 소주", "안정적인"}},
		{"clean", Vector{Sweetness: 1.5, Acidity: 3, Body: 2, Carbonation: 3, Bitterness: 3, Aroma: 3}, 4, []string{"청주", "덜 선호하는 맛: 단맛, 바디감."}},
		{"balanced", Uniform(3), 30, []string{msgBalanced, msgDefaultPick}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := GenerateAnalysis(&Profile{Vector: tc.vector, ReviewCount: tc.count})
			for _, w := range tc.want {
				if !strings.Contains(got, w) {
					t.Fatalf("missing %q in %q", w, got)
				}
			}
		})
	}
}

func TestStageThresholds(t *testing.T) {
	cases := []struct {
		p    *Profile
		want Stage
	}{
		{&Profile{}, StageUnseeded},
		{&Profile{Seeded: true}, StageSeeded},
		{&Profile{Seeded: true, ReviewCount: 1}, StageLearning},
		{&Profile{ReviewCount: 4}, StageLearning},
		{&Profile{ReviewCount: 5}, StageConverging},
		{&Profile{ReviewCount: 19}, StageConverging},
		{&Profile{ReviewCount: 20}, StageStable},
	}
	for _, tc := range cases {
		if got := StageOf(tc.p); got != tc.want {
			t.Fatalf("%+v: got %s want %s", tc.p, got, tc.want)
		}
	}
}
