package diagnostic

import (
	"strings"

	"ritual-backend/internal/shared/telemetry"
)

// Result is the outcome of matching one piece of free text.
type Result struct {
	Category       Category         `json:"category"`
	Recommendation Recommendation   `json:"recommendation"`
	Scores         map[Category]int `json:"scores"`
}

// Matcher scores free text against an immutable snapshot of Tables.
type Matcher struct {
	tables Tables
	rules  []compiledRule
	picker Picker
}

type compiledRule struct {
	category Category
	keywords []string
	weight   int
}

// NewMatcher validates tables and prepares them for matching. A nil picker
// selects uniformly at random.
func NewMatcher(tables Tables, picker Picker) (*Matcher, error) {
	if err := tables.Validate(); err != nil {
		return nil, err
	}
	if picker == nil {
		picker = RandomPicker()
	}
	snapshot := tables.Clone()
	rules := make([]compiledRule, 0, len(snapshot.Rules))
	for _, rule := range snapshot.Rules {
		keywords := make([]string, 0, len(rule.Keywords))
		for _, kw := range rule.Keywords {
			keywords = append(keywords, strings.ToLower(strings.TrimSpace(kw)))
		}
		rules = append(rules, compiledRule{
			category: rule.Category,
			keywords: keywords,
			weight:   rule.Weight,
		})
	}
	return &Matcher{tables: snapshot, rules: rules, picker: picker}, nil
}

// Tables returns a copy of the tables the matcher was built from.
func (m *Matcher) Tables() Tables {
	return m.tables.Clone()
}

// Score returns the cumulative weight per category for text.
func (m *Matcher) Score(text string) map[Category]int {
	normalized := strings.ToLower(text)
	scores := make(map[Category]int, len(categories))
	for _, c := range categories {
		scores[c] = 0
	}
	for _, rule := range m.rules {
		for _, kw := range rule.keywords {
			if strings.Contains(normalized, kw) {
				scores[rule.category] += rule.weight
			}
		}
	}
	return scores
}

// Classify returns the winning category. Ties keep the category declared
// first; an all-zero score falls back to DefaultCategory.
func (m *Matcher) Classify(text string) (Category, map[Category]int) {
	scores := m.Score(text)
	best := DefaultCategory
	bestScore := 0
	for _, c := range categories {
		if scores[c] > bestScore {
			best = c
			bestScore = scores[c]
		}
	}
	return best, scores
}

// Match is total over any input, including the empty string.
func (m *Matcher) Match(text string) Result {
	category, scores := m.Classify(text)
	return Result{
		Category:       category,
		Recommendation: m.Prescribe(category),
		Scores:         scores,
	}
}

// Prescribe draws one recommendation for category. Unknown categories are
// treated as DefaultCategory.
func (m *Matcher) Prescribe(category Category) Recommendation {
	recs := m.tables.Prescriptions[category]
	if len(recs) == 0 {
		recs = m.tables.Prescriptions[DefaultCategory]
	}
	idx := m.picker.Intn(len(recs))
	if idx < 0 || idx >= len(recs) {
		telemetry.Warn("diagnostic.picker.out_of_range", map[string]any{
			"category": string(category),
			"index":    idx,
			"choices":  len(recs),
		})
		idx = 0
	}
	return recs[idx]
}
