// Package metrics keeps process-wide counters and renders them in the
// Prometheus text exposition format on /metrics.
package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	analysisStartedTotal   atomic.Uint64
	analysisCompletedTotal atomic.Uint64
	generatedInitiatives   atomic.Uint64

	analysisFailedTotal   = newLabeledCounter("code")
	classifiedInitiatives = newLabeledCounter("quadrant")

	jobsReceivedTotal  atomic.Uint64
	jobsCompletedTotal atomic.Uint64
	jobsFailedTotal    atomic.Uint64
	jobsDeletedTotal   atomic.Uint64

	// Engine runs are in-process arithmetic; the tail is snapshot storage.
	analysisDuration = newHistogram([]float64{1, 5, 10, 25, 50, 100, 250, 1000, 5000})
)

func IncAnalysisStarted()   { analysisStartedTotal.Add(1) }
func IncAnalysisCompleted() { analysisCompletedTotal.Add(1) }

// IncAnalysisFailed counts a failed analysis under its error code.
func IncAnalysisFailed(code string) {
	if code == "" {
		code = "UNKNOWN"
	}
	analysisFailedTotal.Add(code, 1)
}

// IncClassified counts one scored initiative landing in quadrant.
func IncClassified(quadrant string) {
	classifiedInitiatives.Add(quadrant, 1)
}

// AddGeneratedInitiatives counts catalog initiatives used to pad a portfolio.
func AddGeneratedInitiatives(n int) {
	if n > 0 {
		generatedInitiatives.Add(uint64(n))
	}
}

func IncJobReceived()  { jobsReceivedTotal.Add(1) }
func IncJobCompleted() { jobsCompletedTotal.Add(1) }
func IncJobFailed()    { jobsFailedTotal.Add(1) }
func IncJobDeleted()   { jobsDeletedTotal.Add(1) }

// ObserveAnalysisDurationMs records an analysis duration in milliseconds.
func ObserveAnalysisDurationMs(value float64) {
	analysisDuration.Observe(max(value, 0))
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
	writeCounter(&buf, "sim_analysis_started_total", "Analyses that began processing", analysisStartedTotal.Load())
	writeCounter(&buf, "sim_analysis_completed_total", "Analyses completed with a stored result", analysisCompletedTotal.Load())
	writeLabeledCounter(&buf, "sim_analysis_failed_total", "Analyses failed, by error code", analysisFailedTotal)
	writeLabeledCounter(&buf, "sim_initiatives_classified_total", "Scored initiatives per matrix quadrant", classifiedInitiatives)
	writeCounter(&buf, "sim_generated_initiatives_total", "Catalog initiatives generated to pad portfolios", generatedInitiatives.Load())
	writeCounter(&buf, "sim_jobs_received_total", "Queue jobs received by the worker", jobsReceivedTotal.Load())
	writeCounter(&buf, "sim_jobs_completed_total", "Queue jobs processed successfully", jobsCompletedTotal.Load())
	writeCounter(&buf, "sim_jobs_failed_total", "Queue jobs left for redelivery", jobsFailedTotal.Load())
	writeCounter(&buf, "sim_jobs_deleted_total", "Unprocessable queue messages dropped", jobsDeletedTotal.Load())
	writeHistogram(&buf, "sim_analysis_duration_ms", "Analysis processing time in milliseconds", analysisDuration.Snapshot())
	return buf.String()
}

// labeledCounter is a counter family with a single label.
type labeledCounter struct {
	mu     sync.Mutex
	label  string
	values map[string]uint64
}

func newLabeledCounter(label string) *labeledCounter {
	return &labeledCounter{label: label, values: make(map[string]uint64)}
}

func (c *labeledCounter) Add(value string, n uint64) {
	c.mu.Lock()
	c.values[value] += n
	c.mu.Unlock()
}

// Snapshot returns label values in sorted order so output is stable.
func (c *labeledCounter) Snapshot() ([]string, []uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	counts := make([]uint64, len(keys))
	for i, k := range keys {
		counts[i] = c.values[k]
	}
	return keys, counts
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
	return &histogram{buckets: buckets, counts: make([]uint64, len(buckets))}
}

// Observe records value in the first bucket whose bound contains it.
// Cumulative counts are computed at render time.
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			return
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

func writeHeader(buf *bytes.Buffer, name, help, kind string) {
	fmt.Fprintf(buf, "# HELP %s %s\n# TYPE %s %s\n", name, help, name, kind)
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	writeHeader(buf, name, help, "counter")
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeLabeledCounter(buf *bytes.Buffer, name, help string, c *labeledCounter) {
	writeHeader(buf, name, help, "counter")
	keys, counts := c.Snapshot()
	for i, k := range keys {
		fmt.Fprintf(buf, "%s{%s=%s} %d\n", name, c.label, strconv.Quote(k), counts[i])
	}
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	writeHeader(buf, name, help, "histogram")
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
