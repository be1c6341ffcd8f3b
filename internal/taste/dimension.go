package taste

import "math"

// Dimension names one axis of a taste vector.
type Dimension string

const (
	Sweetness   Dimension = "sweetness"
	Acidity     Dimension = "acidity"
	Body        Dimension = "body"
	Carbonation Dimension = "carbonation"
	Bitterness  Dimension = "bitterness"
	Aroma       Dimension = "aroma"
)

// Dimensions lists every axis in canonical order.
var Dimensions = [...]Dimension{Sweetness, Acidity, Body, Carbonation, Bitterness, Aroma}

const (
	MinScore     = 0.0
	MaxScore     = 5.0
	NeutralScore = 2.5
)

var dimensionNames = map[Dimension]string{
	Sweetness:   "단맛",
	Acidity:     "산미",
	Body:        "바디감",
	Carbonation: "탄산감",
	Bitterness:  "쓴맛",
	Aroma:       "향",
}

// DisplayName is the Korean label shown to customers.
func (d Dimension) DisplayName() string {
	if n, ok := dimensionNames[d]; ok {
		return n
	}
	return string(d)
}

func (d Dimension) Valid() bool {
	_, ok := dimensionNames[d]
	return ok
}

// Vector is a point in the six-dimensional taste space. Every component is
// expected to lie in [MinScore, MaxScore].
type Vector struct {
	Sweetness   float64 `json:"sweetness" yaml:"sweetness"`
	Acidity     float64 `json:"acidity" yaml:"acidity"`
	Body        float64 `json:"body" yaml:"body"`
	Carbonation float64 `json:"carbonation" yaml:"carbonation"`
	Bitterness  float64 `json:"bitterness" yaml:"bitterness"`
	Aroma       float64 `json:"aroma" yaml:"aroma"`
}

// Uniform returns a vector with every component set to x.
func Uniform(x float64) Vector {
	return Vector{x, x, x, x, x, x}
}

func (v Vector) Get(d Dimension) float64 {
	switch d {
	case Sweetness:
		return v.Sweetness
	case Acidity:
		return v.Acidity
	case Body:
		return v.Body
	case Carbonation:
		return v.Carbonation
	case Bitterness:
		return v.Bitterness
	case Aroma:
		return v.Aroma
	default:
		return 0
	}
}

// With returns a copy of v with dimension d set to x.
func (v Vector) With(d Dimension, x float64) Vector {
	switch d {
	case Sweetness:
		v.Sweetness = x
	case Acidity:
		v.Acidity = x
	case Body:
		v.Body = x
	case Carbonation:
		v.Carbonation = x
	case Bitterness:
		v.Bitterness = x
	case Aroma:
		v.Aroma = x
	}
	return v
}

func (v Vector) Clamped() Vector {
	for _, d := range Dimensions {
		v = v.With(d, clampScore(v.Get(d)))
	}
	return v
}

func (v Vector) InRange() bool {
	for _, d := range Dimensions {
		x := v.Get(d)
		if math.IsNaN(x) || x < MinScore || x > MaxScore {
			return false
		}
	}
	return true
}

// Map returns the vector keyed by dimension name.
func (v Vector) Map() map[Dimension]float64 {
	out := make(map[Dimension]float64, len(Dimensions))
	for _, d := range Dimensions {
		out[d] = v.Get(d)
	}
	return out
}

// Mean is the element-wise average of vs. It returns the neutral vector when vs is empty.
func Mean(vs ...Vector) Vector {
	if len(vs) == 0 {
		return Uniform(NeutralScore)
	}
	var out Vector
	for _, d := range Dimensions {
		sum := 0.0
		for _, v := range vs {
			sum += v.Get(d)
		}
		out = out.With(d, sum/float64(len(vs)))
	}
	return out
}

// Ratings is a partial set of per-dimension scores, as reported by a single review.
type Ratings map[Dimension]float64

func clampScore(x float64) float64 {
	if math.IsNaN(x) {
		return NeutralScore
	}
	return math.Max(MinScore, math.Min(MaxScore, x))
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
