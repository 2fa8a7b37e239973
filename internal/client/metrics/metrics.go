// Package metrics keeps in-process request and upload counters for the client.
// Values live in a private prometheus registry and are printed on demand.
package metrics

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

const namespace = "edulibrary_client"

// Upload outcomes.
const (
	UploadSucceeded = "success"
	UploadFailed    = "failure"
)

type Recorder struct {
	reg      *prometheus.Registry
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	uploads  *prometheus.CounterVec
}

func NewRecorder() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "API requests by endpoint and status code (0 means transport failure).",
		}, []string{"endpoint", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "API request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Uploaded files by outcome.",
		}, []string{"outcome"}),
	}
	r.reg.MustRegister(r.requests, r.latency, r.uploads)
	return r
}

// ObserveRequest records one API round trip.
func (r *Recorder) ObserveRequest(endpoint string, code int, seconds float64) {
	r.requests.WithLabelValues(endpoint, strconv.Itoa(code)).Inc()
	r.latency.WithLabelValues(endpoint).Observe(seconds)
}

// ObserveUploads records the tally of one batch upload.
func (r *Recorder) ObserveUploads(succeeded, failed int) {
	r.uploads.WithLabelValues(UploadSucceeded).Add(float64(succeeded))
	r.uploads.WithLabelValues(UploadFailed).Add(float64(failed))
}

// Dump writes counters as "name{labels} value" lines, sorted by name.
// Histograms are summarized by sample count and sum.
func (r *Recorder) Dump(w io.Writer) error {
	families, err := r.reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	var lines []string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			name := mf.GetName() + formatLabels(m.GetLabel())
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				lines = append(lines, fmt.Sprintf("%s %g", name, m.GetCounter().GetValue()))
			case dto.MetricType_HISTOGRAM:
				h := m.GetHistogram()
				lines = append(lines, fmt.Sprintf("%s count=%d sum=%.3fs", name, h.GetSampleCount(), h.GetSampleSum()))
			}
		}
	}
	sort.Strings(lines)

	if len(lines) == 0 {
		_, err := fmt.Fprintln(w, "no requests recorded")
		return err
	}
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}

func formatLabels(pairs []*dto.LabelPair) string {
	if len(pairs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, fmt.Sprintf("%s=%q", p.GetName(), p.GetValue()))
	}
	return "{" + strings.Join(parts, ",") + "}"
}
