package diagnostic

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"ritual-backend/internal/shared/telemetry"
)

func newDefaultMatcher(t *testing.T, picker Picker) *Matcher {
	t.Helper()
	m, err := NewMatcher(DefaultTables(), picker)
	require.NoError(t, err)
	return m
}

func TestMatchMixedComplaintFavoursHeavierCategory(t *testing.T) {
	m := newDefaultMatcher(t, nil)

	res := m.Match("ho le spalle di pietra e sono stanchissima, sento che sto per crollare")

	assert.Equal(t, CategoryEsaurimento, res.Category)
	assert.Greater(t, res.Scores[CategoryEsaurimento], res.Scores[CategoryPietra])
	assert.Contains(t, DefaultTables().Prescriptions[CategoryEsaurimento], res.Recommendation)
}

func TestMatchEmptyInputFallsBackToDefault(t *testing.T) {
	m := newDefaultMatcher(t, nil)

	for i := 0; i < 20; i++ {
		res := m.Match("")
		require.Equal(t, DefaultCategory, res.Category)
		require.Contains(t, DefaultTables().Prescriptions[CategoryEsaurimento], res.Recommendation)
	}
	assert.Len(t, DefaultTables().Prescriptions[CategoryEsaurimento], 2)
}

func TestMatchNoKeywordFallsBackToDefault(t *testing.T) {
	m := newDefaultMatcher(t, FirstPicker())

	res := m.Match("vorrei solo un buono regalo")

	assert.Equal(t, DefaultCategory, res.Category)
	for _, score := range res.Scores {
		assert.Zero(t, score)
	}
}

func TestMatchSingleCategoryInputs(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Category
	}{
		{name: "stiff neck", input: "ho il collo rigido", want: CategoryPietra},
		{name: "exhausted", input: "sono esausta", want: CategoryEsaurimento},
		{name: "racing mind", input: "tanta ansia e pensieri", want: CategoryTempesta},
		{name: "swollen ankles", input: "caviglie gonfie", want: CategoryPesantezza},
		{name: "upper case", input: "SPALLE CONTRATTE", want: CategoryPietra},
	}

	m := newDefaultMatcher(t, FirstPicker())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := m.Match(tt.input)
			assert.Equal(t, tt.want, res.Category)
			assert.Equal(t, DefaultTables().Prescriptions[tt.want][0], res.Recommendation)
		})
	}
}

func TestEveryDefaultKeywordSelectsItsCategory(t *testing.T) {
	m := newDefaultMatcher(t, nil)
	for _, rule := range DefaultTables().Rules {
		for _, kw := range rule.Keywords {
			res := m.Match("oggi mi sento " + kw)
			assert.Equalf(t, rule.Category, res.Category, "keyword %q", kw)
		}
	}
}

func TestMatchHighestCumulativeWeightWins(t *testing.T) {
	m := newDefaultMatcher(t, nil)

	res := m.Match("ho le gambe gonfie e pesanti e un po' di ansia")

	assert.Equal(t, CategoryPesantezza, res.Category)
	assert.Equal(t, 6, res.Scores[CategoryPesantezza])
	assert.Equal(t, 2, res.Scores[CategoryTempesta])
}

func TestClassifyTieKeepsFirstDeclaredCategory(t *testing.T) {
	tables := DefaultTables()
	tables.Rules = []Rule{
		{Category: CategoryPesantezza, Keywords: []string{"beta"}, Weight: 2},
		{Category: CategoryTempesta, Keywords: []string{"alfa"}, Weight: 2},
	}
	m, err := NewMatcher(tables, nil)
	require.NoError(t, err)

	got, scores := m.Classify("alfa beta")

	assert.Equal(t, CategoryTempesta, got)
	assert.Equal(t, scores[CategoryTempesta], scores[CategoryPesantezza])
}

func TestPrescribeUsesInjectedPicker(t *testing.T) {
	second := PickerFunc(func(n int) int { return n - 1 })
	m := newDefaultMatcher(t, second)

	got := m.Prescribe(CategoryTempesta)

	assert.Equal(t, DefaultTables().Prescriptions[CategoryTempesta][1], got)
}

func TestPrescribeClampsOutOfRangePick(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	restore := telemetry.SetLogger(zap.New(core))
	defer restore()
	m := newDefaultMatcher(t, PickerFunc(func(int) int { return 99 }))

	got := m.Prescribe(CategoryPietra)

	assert.Equal(t, DefaultTables().Prescriptions[CategoryPietra][0], got)
	entries := logs.FilterMessage("diagnostic.picker.out_of_range").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(99), entries[0].ContextMap()["index"])
	assert.Equal(t, "PIETRA", entries[0].ContextMap()["category"])
}

func TestPrescribeInRangePickDoesNotWarn(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	restore := telemetry.SetLogger(zap.New(core))
	defer restore()
	m := newDefaultMatcher(t, FirstPicker())

	m.Prescribe(CategoryPesantezza)

	assert.Zero(t, logs.Len())
}

func TestMatcherIsolatedFromCallerMutation(t *testing.T) {
	tables := DefaultTables()
	m, err := NewMatcher(tables, FirstPicker())
	require.NoError(t, err)

	tables.Prescriptions[CategoryPietra][0].Treatment = "changed"
	tables.Rules[0].Keywords[0] = "changed"

	assert.Equal(t, CategoryPietra, m.Match("spalle").Category)
	assert.NotEqual(t, "changed", m.Prescribe(CategoryPietra).Treatment)
}

func TestValidateRejectsBrokenTables(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Tables)
	}{
		{name: "no rules", mutate: func(tb *Tables) { tb.Rules = nil }},
		{name: "unknown rule category", mutate: func(tb *Tables) { tb.Rules[0].Category = "NEBBIA" }},
		{name: "zero weight", mutate: func(tb *Tables) { tb.Rules[0].Weight = 0 }},
		{name: "no keywords", mutate: func(tb *Tables) { tb.Rules[1].Keywords = nil }},
		{name: "blank keyword", mutate: func(tb *Tables) { tb.Rules[2].Keywords = []string{"  "} }},
		{name: "missing category", mutate: func(tb *Tables) { delete(tb.Prescriptions, CategoryTempesta) }},
		{name: "empty category", mutate: func(tb *Tables) { tb.Prescriptions[CategoryPietra] = nil }},
		{name: "unknown prescription category", mutate: func(tb *Tables) {
			tb.Prescriptions["NEBBIA"] = []Recommendation{{Treatment: "x"}}
		}},
		{name: "blank treatment", mutate: func(tb *Tables) {
			tb.Prescriptions[CategoryPesantezza] = []Recommendation{{Reasoning: "r"}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tables := DefaultTables()
			tt.mutate(&tables)
			err := tables.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidTables))
		})
	}
}

func TestParseCategory(t *testing.T) {
	got, err := ParseCategory("  tempesta ")
	require.NoError(t, err)
	assert.Equal(t, CategoryTempesta, got)

	_, err = ParseCategory("nebbia")
	assert.ErrorIs(t, err, ErrInvalidTables)
}
