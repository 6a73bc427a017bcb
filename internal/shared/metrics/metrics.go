package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	diagnosticMatches = newLabeledCounter()
	triageJobs        = newLabeledCounter()

	configLoadFailedTotal atomic.Uint64
	configSaveFailedTotal atomic.Uint64
	leadsCreatedTotal     atomic.Uint64
	chatRepliesTotal      atomic.Uint64
	chatFallbackTotal     atomic.Uint64
	quizFallbackTotal     atomic.Uint64

	llmDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000})
)

// IncDiagnosticMatch counts one matcher result for category.
func IncDiagnosticMatch(category string) {
	diagnosticMatches.Inc(category)
}

// IncTriageJob counts one lead triage job by outcome
// (received, completed, failed, dropped).
func IncTriageJob(outcome string) {
	triageJobs.Inc(outcome)
}

// IncConfigLoadFailed counts a failed configuration load.
func IncConfigLoadFailed() {
	configLoadFailedTotal.Add(1)
}

// IncConfigSaveFailed counts a failed configuration save.
func IncConfigSaveFailed() {
	configSaveFailedTotal.Add(1)
}

// IncLeadCreated counts a new lead.
func IncLeadCreated() {
	leadsCreatedTotal.Add(1)
}

// IncChatReply counts a chat reply; fallback marks canned replies.
func IncChatReply(fallback bool) {
	chatRepliesTotal.Add(1)
	if fallback {
		chatFallbackTotal.Add(1)
	}
}

// IncQuizFallback counts quiz answers resolved by the keyword matcher.
func IncQuizFallback() {
	quizFallbackTotal.Add(1)
}

// ObserveLLMDurationMs records a generative call duration in milliseconds.
func ObserveLLMDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	llmDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeLabeledCounter(&buf, "diagnostic_match_total", "Matcher results by category", "category", diagnosticMatches.Snapshot())
	writeCounter(&buf, "diagnostic_config_load_failed_total", "Failed configuration loads", configLoadFailedTotal.Load())
	writeCounter(&buf, "diagnostic_config_save_failed_total", "Failed configuration saves", configSaveFailedTotal.Load())
	writeCounter(&buf, "leads_created_total", "Leads received", leadsCreatedTotal.Load())
	writeLabeledCounter(&buf, "lead_triage_jobs_total", "Lead triage jobs by outcome", "outcome", triageJobs.Snapshot())
	writeCounter(&buf, "chat_replies_total", "Chat replies sent", chatRepliesTotal.Load())
	writeCounter(&buf, "chat_fallback_total", "Chat replies served from canned fallbacks", chatFallbackTotal.Load())
	writeCounter(&buf, "quiz_fallback_total", "Quiz results resolved by the keyword matcher", quizFallbackTotal.Load())
	writeHistogram(&buf, "llm_duration_ms", "Generative call duration in milliseconds", llmDuration.Snapshot())
	return buf.String()
}

type labeledCounter struct {
	mu     sync.Mutex
	values map[string]uint64
}

func newLabeledCounter() *labeledCounter {
	return &labeledCounter{values: make(map[string]uint64)}
}

func (l *labeledCounter) Inc(label string) {
	l.mu.Lock()
	l.values[label]++
	l.mu.Unlock()
}

func (l *labeledCounter) Snapshot() map[string]uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]uint64, len(l.values))
	for k, v := range l.values {
		out[k] = v
	}
	return out
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeLabeledCounter(buf *bytes.Buffer, name, help, label string, values map[string]uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(buf, "%s{%s=%q} %d\n", name, label, k, values[k])
	}
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// SinceMillis returns the elapsed time since start in milliseconds.
func SinceMillis(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
