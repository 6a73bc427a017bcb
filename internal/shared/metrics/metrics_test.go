package metrics

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderIncludesLabeledMatches(t *testing.T) {
	IncDiagnosticMatch("PIETRA")
	IncDiagnosticMatch("PIETRA")

	out := Render()

	assert.Contains(t, out, "# TYPE diagnostic_match_total counter")
	assert.Contains(t, out, `diagnostic_match_total{category="PIETRA"}`)
}

func TestHistogramBucketsAreCumulative(t *testing.T) {
	h := newHistogram([]float64{10, 100})
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)

	snap := h.Snapshot()
	assert.Equal(t, uint64(3), snap.count)
	assert.Equal(t, []uint64{1, 1}, snap.counts)

	var out bytes.Buffer
	writeHistogram(&out, "h", "help", snap)
	assert.Contains(t, out.String(), `h_bucket{le="100"} 2`)
	assert.Contains(t, out.String(), `h_bucket{le="+Inf"} 3`)
}
