package taste

import (
	"fmt"
	"strings"
)

const (
	highPreference = 4.0
	lowPreference  = 2.0
)

const (
	msgNoReviews     = "아직 리뷰 데이터가 부족합니다. 마셔 본 전통주에 리뷰를 남기면 취향 분석이 시작됩니다."
	msgLowConfidence = "리뷰가 조금 더 쌓이면 더 정확한 취향 분석을 보여드릴 수 있어요. 지금은 참고용으로 봐 주세요."
	msgBalanced      = "특정 맛에 치우치지 않고 고르게 즐기는 편입니다."
	msgDefaultPick   = "다양한 스타일의 전통주를 마셔 보며 취향을 넓혀 보세요."
)

type recommendation struct {
	high []Dimension
	low  []Dimension
	text string
}

// First matching row wins.
var recommendations = []recommendation{
	{high: []Dimension{Sweetness, Aroma}, low: []Dimension{Bitterness}, text: "과실향이 풍부한 과실주나 달콤한 막걸리를 추천합니다."},
	{high: []Dimension{Acidity, Carbonation}, text: "청량한 스파클링 막걸리를 추천합니다."},
	{high: []Dimension{Body, Bitterness}, text: "깊은 여운의 증류식 소주나 숙성 약주를 추천합니다."},
	{high: []Dimension{Body, Sweetness}, text: "진하고 달콤한 탁주나 귀주를 추천합니다."},
	{low: []Dimension{Sweetness, Body}, text: "깔끔하고 담백한 청주를 추천합니다."},
	{high: []Dimension{Aroma}, text: "향이 좋은 약주나 가향주를 추천합니다."},
}

// HighDimensions lists dimensions at or above the high-preference mark.
func HighDimensions(v Vector) []Dimension {
	var out []Dimension
	for _, d := range Dimensions {
		if v.Get(d) >= highPreference {
			out = append(out, d)
		}
	}
	return out
}

// LowDimensions lists dimensions at or below the low-preference mark.
func LowDimensions(v Vector) []Dimension {
	var out []Dimension
	for _, d := range Dimensions {
		if v.Get(d) <= lowPreference {
			out = append(out, d)
		}
	}
	return out
}

// GenerateAnalysis renders the rule-based summary of a profile.
func GenerateAnalysis(p *Profile) string {
	switch {
	case p == nil || p.ReviewCount == 0:
		return msgNoReviews
	case p.ReviewCount < 3:
		return msgLowConfidence
	}

	high, low := HighDimensions(p.Vector), LowDimensions(p.Vector)
	var parts []string
	if len(high) > 0 {
		parts = append(parts, "선호하는 맛: "+joinNames(high)+".")
	}
	if len(low) > 0 {
		parts = append(parts, "덜 선호하는 맛: "+joinNames(low)+".")
	}
	if len(high) == 0 && len(low) == 0 {
		parts = append(parts, msgBalanced)
	}
	parts = append(parts, recommend(high, low))
	parts = append(parts, confidenceNote(p))
	return strings.Join(parts, " ")
}

func recommend(high, low []Dimension) string {
	for _, r := range recommendations {
		if containsAll(high, r.high) && containsAll(low, r.low) {
			return r.text
		}
	}
	return msgDefaultPick
}

func confidenceNote(p *Profile) string {
	switch StageOf(p) {
	case StageStable:
		return fmt.Sprintf("리뷰 %d개를 바탕으로 한 안정적인 분석입니다.", p.ReviewCount)
	case StageConverging:
		return fmt.Sprintf("리뷰 %d개를 바탕으로 취향이 자리를 잡아 가고 있습니다.", p.ReviewCount)
	default:
		return fmt.Sprintf("리뷰 %d개를 바탕으로 한 초기 분석입니다.", p.ReviewCount)
	}
}

func containsAll(set, want []Dimension) bool {
	for _, w := range want {
		found := false
		for _, s := range set {
			if s == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func joinNames(ds []Dimension) string {
	names := make([]string, len(ds))
	for i, d := range ds {
		names[i] = d.DisplayName()
	}
	return strings.Join(names, ", ")
}
