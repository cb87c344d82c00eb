package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	relayRequestsTotal       atomic.Uint64
	relayConfigErrorsTotal   atomic.Uint64
	relayUpstreamErrorsTotal atomic.Uint64

	analysisFilesSucceededTotal atomic.Uint64
	analysisFilesFailedTotal    atomic.Uint64

	relayUpstreamDuration = newHistogram([]float64{250, 500, 1000, 2000, 5000, 10000, 30000, 60000, 120000})
	analysisRunDuration   = newHistogram([]float64{1000, 5000, 10000, 30000, 60000, 120000, 300000, 600000})
)

// IncRelayRequest counts a request accepted by the relay endpoint.
func IncRelayRequest() {
	relayRequestsTotal.Add(1)
}

// IncRelayConfigError counts a relay call rejected for missing credentials.
func IncRelayConfigError() {
	relayConfigErrorsTotal.Add(1)
}

// IncRelayUpstreamError counts an upstream call that failed or returned non-2xx.
func IncRelayUpstreamError() {
	relayUpstreamErrorsTotal.Add(1)
}

// ObserveRelayUpstreamMs records the latency of one upstream call.
func ObserveRelayUpstreamMs(value float64) {
	relayUpstreamDuration.Observe(clamp(value))
}

// IncAnalysisFile counts one processed résumé by outcome.
func IncAnalysisFile(failed bool) {
	if failed {
		analysisFilesFailedTotal.Add(1)
		return
	}
	analysisFilesSucceededTotal.Add(1)
}

// ObserveAnalysisRunMs records the duration of a whole sequential batch.
func ObserveAnalysisRunMs(value float64) {
	analysisRunDuration.Observe(clamp(value))
}

func clamp(value float64) float64 {
	if value < 0 {
		return 0
	}
	return value
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
	writeCounter(&buf, "relay_requests_total", "Total relay requests received", relayRequestsTotal.Load())
	writeCounter(&buf, "relay_config_errors_total", "Relay requests rejected for missing credentials", relayConfigErrorsTotal.Load())
	writeCounter(&buf, "relay_upstream_errors_total", "Upstream calls that failed or returned non-2xx", relayUpstreamErrorsTotal.Load())
	writeHistogram(&buf, "relay_upstream_duration_ms", "Upstream generateContent latency in milliseconds", relayUpstreamDuration.Snapshot())
	writeCounter(&buf, "analysis_files_succeeded_total", "Resumes analyzed successfully", analysisFilesSucceededTotal.Load())
	writeCounter(&buf, "analysis_files_failed_total", "Resumes recorded as failed", analysisFilesFailedTotal.Load())
	writeHistogram(&buf, "analysis_run_duration_ms", "Sequential analysis run duration in milliseconds", analysisRunDuration.Snapshot())
	return buf.String()
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
	// counts are per bucket; writeHistogram accumulates them.
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
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
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

// SinceMillis returns the milliseconds elapsed since start.
func SinceMillis(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
