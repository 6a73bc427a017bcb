package diagnostic

import (
	"fmt"
	"strings"
)

// Category is one of the four symptom archetypes free text is bucketed into.
type Category string

const (
	CategoryPietra      Category = "PIETRA"
	CategoryEsaurimento Category = "ESAURIMENTO"
	CategoryTempesta    Category = "TEMPESTA"
	CategoryPesantezza  Category = "PESANTEZZA"
)

// DefaultCategory wins when no keyword matches the input.
const DefaultCategory = CategoryEsaurimento

// categories is the declaration order, which is also the tie-break order.
var categories = []Category{
	CategoryPietra,
	CategoryEsaurimento,
	CategoryTempesta,
	CategoryPesantezza,
}

// Categories returns every category in declaration order.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

// Valid reports whether c is one of the declared categories.
func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory normalizes raw (case and surrounding space) into a Category.
func ParseCategory(raw string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(raw)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: unknown category %q", ErrInvalidTables, raw)
	}
	return c, nil
}
