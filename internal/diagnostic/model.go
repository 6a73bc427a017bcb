package diagnostic

import (
	"fmt"
	"strings"
)

// Rule adds Weight to Category's score for every keyword found in the input.
type Rule struct {
	Category Category `json:"category" yaml:"category"`
	Keywords []string `json:"keywords" yaml:"keywords"`
	Weight   int      `json:"weight" yaml:"weight"`
}

// Recommendation is the canned ritual suggestion returned to the visitor.
type Recommendation struct {
	Treatment string `json:"treatment" yaml:"treatment"`
	Reasoning string `json:"reasoning" yaml:"reasoning"`
	Oil       string `json:"oil" yaml:"oil"`
}

// PrescriptionTable lists the candidate recommendations for each category.
type PrescriptionTable map[Category][]Recommendation

// Tables is the full matcher configuration. It is replaced as a whole, never patched.
type Tables struct {
	Rules         []Rule            `json:"rules" yaml:"rules"`
	Prescriptions PrescriptionTable `json:"prescriptions" yaml:"prescriptions"`
}

// Validate checks the table invariants: known categories, positive weights,
// non-empty keywords and at least one recommendation per category.
func (t Tables) Validate() error {
	if len(t.Rules) == 0 {
		return fmt.Errorf("%w: at least one rule is required", ErrInvalidTables)
	}
	for i, rule := range t.Rules {
		if !rule.Category.Valid() {
			return fmt.Errorf("%w: rule %d has unknown category %q", ErrInvalidTables, i, rule.Category)
		}
		if rule.Weight <= 0 {
			return fmt.Errorf("%w: rule %d weight must be positive", ErrInvalidTables, i)
		}
		if len(rule.Keywords) == 0 {
			return fmt.Errorf("%w: rule %d has no keywords", ErrInvalidTables, i)
		}
		for j, kw := range rule.Keywords {
			if strings.TrimSpace(kw) == "" {
				return fmt.Errorf("%w: rule %d keyword %d is empty", ErrInvalidTables, i, j)
			}
		}
	}
	for c := range t.Prescriptions {
		if !c.Valid() {
			return fmt.Errorf("%w: prescriptions for unknown category %q", ErrInvalidTables, c)
		}
	}
	for _, c := range categories {
		recs := t.Prescriptions[c]
		if len(recs) == 0 {
			return fmt.Errorf("%w: category %s has no recommendations", ErrInvalidTables, c)
		}
		for i, rec := range recs {
			if strings.TrimSpace(rec.Treatment) == "" {
				return fmt.Errorf("%w: %s recommendation %d has no treatment", ErrInvalidTables, c, i)
			}
		}
	}
	return nil
}

// Clone returns a deep copy so callers can never mutate live tables.
func (t Tables) Clone() Tables {
	out := Tables{
		Rules:         make([]Rule, len(t.Rules)),
		Prescriptions: make(PrescriptionTable, len(t.Prescriptions)),
	}
	for i, rule := range t.Rules {
		rule.Keywords = append([]string(nil), rule.Keywords...)
		out.Rules[i] = rule
	}
	for c, recs := range t.Prescriptions {
		out.Prescriptions[c] = append([]Recommendation(nil), recs...)
	}
	return out
}
