package taste

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Label identifies an archetype (base, mixed or fallback).
type Label string

// Kind classifies a label.
type Kind string

const (
	KindBase     Kind = "base"
	KindMixed    Kind = "mixed"
	KindFallback Kind = "fallback"
)

// Valid choice labels. Every question offers exactly these two.
const (
	ChoiceA = "A"
	ChoiceB = "B"
)

const baseArchetypeCount = 4

//go:embed catalog.yaml
var defaultCatalogYAML []byte

type Choice struct {
	Label   string        `json:"label"`
	Text    string        `json:"text"`
	Weights map[Label]int `json:"-"`
}

type Question struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"prompt"`
	Choices []Choice `json:"choices"`
}

// Archetype is the full reference record for a label.
type Archetype struct {
	Label           Label
	Kind            Kind
	Name            string
	Description     string
	Characteristics []string
	ImageRef        string
	Components      []Label
	Vector          Vector
}

// TypeInfo is the public description of an archetype.
type TypeInfo struct {
	Label           Label    `json:"label"`
	Kind            Kind     `json:"kind"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Characteristics []string `json:"characteristics"`
	ImageRef        string   `json:"image_ref"`
}

type pairKey [2]Label

func makePair(a, b Label) pairKey {
	if b < a {
		a, b = b, a
	}
	return pairKey{a, b}
}

// Catalog holds the immutable quiz and archetype reference tables.
type Catalog struct {
	questions  []Question
	questionIx map[string]int
	base       []Label
	order      []Label
	archetypes map[Label]Archetype
	mixed      map[pairKey]Label
	fallback   Label
}

type catalogDoc struct {
	Questions []struct {
		ID      string `yaml:"id"`
		Prompt  string `yaml:"prompt"`
		Choices map[string]struct {
			Text    string         `yaml:"text"`
			Weights map[string]int `yaml:"weights"`
		} `yaml:"choices"`
	} `yaml:"questions"`
	Archetypes []archetypeDoc `yaml:"archetypes"`
	Mixed      []archetypeDoc `yaml:"mixed"`
	Fallback   archetypeDoc   `yaml:"fallback"`
}

type archetypeDoc struct {
	Label           string   `yaml:"label"`
	Name            string   `yaml:"name"`
	Description     string   `yaml:"description"`
	Characteristics []string `yaml:"characteristics"`
	Pair            []string `yaml:"pair"`
	Vector          *Vector  `yaml:"vector"`
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// DefaultCatalog returns the embedded catalog. It panics if the embedded
// document is invalid, which is a build-time defect.
func DefaultCatalog() *Catalog {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = NewCatalog(defaultCatalogYAML)
	})
	if defaultErr != nil {
		panic(fmt.Sprintf("taste: embedded catalog: %v", defaultErr))
	}
	return defaultCatalog
}

// NewCatalog parses and validates a catalog document.
func NewCatalog(raw []byte) (*Catalog, error) {
	var doc catalogDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	c := &Catalog{
		questionIx: map[string]int{},
		archetypes: map[Label]Archetype{},
		mixed:      map[pairKey]Label{},
	}

	if len(doc.Archetypes) != baseArchetypeCount {
		return nil, fmt.Errorf("%w: expected %d base archetypes, got %d", ErrInvalidCatalog, baseArchetypeCount, len(doc.Archetypes))
	}
	baseVectors := make([]Vector, 0, baseArchetypeCount)
	for _, a := range doc.Archetypes {
		if a.Vector == nil {
			return nil, fmt.Errorf("%w: archetype %q has no vector", ErrInvalidCatalog, a.Label)
		}
		if !a.Vector.InRange() {
			return nil, fmt.Errorf("%w: archetype %q vector out of range", ErrInvalidCatalog, a.Label)
		}
		if err := c.add(a, KindBase, nil, *a.Vector); err != nil {
			return nil, err
		}
		c.base = append(c.base, Label(a.Label))
		baseVectors = append(baseVectors, *a.Vector)
	}

	for _, m := range doc.Mixed {
		if len(m.Pair) != 2 || m.Pair[0] == m.Pair[1] {
			return nil, fmt.Errorf("%w: mixed archetype %q needs two distinct components", ErrInvalidCatalog, m.Label)
		}
		a, b := Label(m.Pair[0]), Label(m.Pair[1])
		if !c.isBase(a) || !c.isBase(b) {
			return nil, fmt.Errorf("%w: mixed archetype %q references unknown base", ErrInvalidCatalog, m.Label)
		}
		key := makePair(a, b)
		if prev, dup := c.mixed[key]; dup {
			return nil, fmt.Errorf("%w: pair %s+%s named twice (%s, %s)", ErrInvalidCatalog, a, b, prev, m.Label)
		}
		vec := Mean(c.archetypes[a].Vector, c.archetypes[b].Vector)
		if err := c.add(m, KindMixed, []Label{a, b}, vec); err != nil {
			return nil, err
		}
		c.mixed[key] = Label(m.Label)
	}
	for i := 0; i < len(c.base); i++ {
		for j := i + 1; j < len(c.base); j++ {
			if _, ok := c.mixed[makePair(c.base[i], c.base[j])]; !ok {
				return nil, fmt.Errorf("%w: no mixed archetype for %s+%s", ErrInvalidCatalog, c.base[i], c.base[j])
			}
		}
	}

	if err := c.add(doc.Fallback, KindFallback, slices.Clone(c.base), Mean(baseVectors...)); err != nil {
		return nil, err
	}
	c.fallback = Label(doc.Fallback.Label)

	if len(doc.Questions) == 0 {
		return nil, fmt.Errorf("%w: no questions", ErrInvalidCatalog)
	}
	for _, q := range doc.Questions {
		id := normalizeQuestionID(q.ID)
		if id == "" {
			return nil, fmt.Errorf("%w: question without id", ErrInvalidCatalog)
		}
		if _, dup := c.questionIx[id]; dup {
			return nil, fmt.Errorf("%w: duplicate question %q", ErrInvalidCatalog, id)
		}
		if len(q.Choices) != 2 {
			return nil, fmt.Errorf("%w: question %q must offer exactly two choices", ErrInvalidCatalog, id)
		}
		question := Question{ID: id, Prompt: strings.TrimSpace(q.Prompt)}
		for _, label := range []string{ChoiceA, ChoiceB} {
			ch, ok := q.Choices[label]
			if !ok {
				return nil, fmt.Errorf("%w: question %q is missing choice %s", ErrInvalidCatalog, id, label)
			}
			weights := make(map[Label]int, len(ch.Weights))
			for name, w := range ch.Weights {
				if !c.isBase(Label(name)) {
					return nil, fmt.Errorf("%w: question %q choice %s credits unknown archetype %q", ErrInvalidCatalog, id, label, name)
				}
				if w < 0 {
					return nil, fmt.Errorf("%w: question %q choice %s has negative weight", ErrInvalidCatalog, id, label)
				}
				weights[Label(name)] = w
			}
			question.Choices = append(question.Choices, Choice{Label: label, Text: strings.TrimSpace(ch.Text), Weights: weights})
		}
		c.questionIx[id] = len(c.questions)
		c.questions = append(c.questions, question)
	}

	return c, nil
}

func (c *Catalog) add(a archetypeDoc, kind Kind, components []Label, vec Vector) error {
	label := Label(strings.TrimSpace(a.Label))
	if label == "" {
		return fmt.Errorf("%w: %s archetype without label", ErrInvalidCatalog, kind)
	}
	if _, dup := c.archetypes[label]; dup {
		return fmt.Errorf("%w: duplicate label %q", ErrInvalidCatalog, label)
	}
	c.archetypes[label] = Archetype{
		Label:           label,
		Kind:            kind,
		Name:            a.Name,
		Description:     a.Description,
		Characteristics: slices.Clone(a.Characteristics),
		ImageRef:        "taste-types/" + string(label) + ".png",
		Components:      components,
		Vector:          vec,
	}
	c.order = append(c.order, label)
	return nil
}

func (c *Catalog) isBase(l Label) bool {
	a, ok := c.archetypes[l]
	return ok && a.Kind == KindBase
}

// Questions returns a copy of the ordered question list.
func (c *Catalog) Questions() []Question {
	out := make([]Question, len(c.questions))
	for i, q := range c.questions {
		out[i] = q
		out[i].Choices = make([]Choice, len(q.Choices))
		for j, ch := range q.Choices {
			out[i].Choices[j] = ch
			out[i].Choices[j].Weights = cloneWeights(ch.Weights)
		}
	}
	return out
}

func (c *Catalog) QuestionIDs() []string {
	ids := make([]string, len(c.questions))
	for i, q := range c.questions {
		ids[i] = q.ID
	}
	return ids
}

// BaseLabels returns the four base archetypes in catalog order.
func (c *Catalog) BaseLabels() []Label { return slices.Clone(c.base) }

func (c *Catalog) FallbackLabel() Label { return c.fallback }

// Labels returns every label: base, then mixed, then fallback.
func (c *Catalog) Labels() []Label { return slices.Clone(c.order) }

func (c *Catalog) IsKnownLabel(l Label) bool {
	_, ok := c.archetypes[l]
	return ok
}

// Archetype looks up a label's reference record.
func (c *Catalog) Archetype(l Label) (Archetype, bool) {
	a, ok := c.archetypes[l]
	if !ok {
		return Archetype{}, false
	}
	a.Characteristics = slices.Clone(a.Characteristics)
	a.Components = slices.Clone(a.Components)
	return a, true
}

// ReferenceVector returns the precomputed taste vector for a label.
func (c *Catalog) ReferenceVector(l Label) (Vector, error) {
	a, ok := c.archetypes[l]
	if !ok {
		return Vector{}, fmt.Errorf("%w: %q", ErrUnknownLabel, l)
	}
	return a.Vector, nil
}

// MixedLabel resolves the named combination for an unordered base pair.
func (c *Catalog) MixedLabel(a, b Label) (Label, bool) {
	l, ok := c.mixed[makePair(a, b)]
	return l, ok
}

// TypeInfo returns the public record for a label; unknown labels resolve to the fallback.
func (c *Catalog) TypeInfo(l Label) TypeInfo {
	a, ok := c.archetypes[l]
	if !ok {
		a = c.archetypes[c.fallback]
	}
	return TypeInfo{
		Label:           a.Label,
		Kind:            a.Kind,
		Name:            a.Name,
		Description:     a.Description,
		Characteristics: slices.Clone(a.Characteristics),
		ImageRef:        a.ImageRef,
	}
}

// TypeInfos lists every archetype in catalog order.
func (c *Catalog) TypeInfos() []TypeInfo {
	out := make([]TypeInfo, 0, len(c.order))
	for _, l := range c.order {
		out = append(out, c.TypeInfo(l))
	}
	return out
}

func cloneWeights(in map[Label]int) map[Label]int {
	out := make(map[Label]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
