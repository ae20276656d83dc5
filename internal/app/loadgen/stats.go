package loadgen

import (
	"eyebench/internal/app/services/fhir"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// StatsRecorder aggregates request samples per metric name, the same way
// a load-test console groups them. It is safe for concurrent use by every
// simulated user.
type StatsRecorder struct {
	mu        sync.Mutex
	entries   map[string]*statsEntry
	startedAt time.Time
}

type statsEntry struct {
	name        string
	method      string
	numRequests int64
	numFailures int64
	totalTime   time.Duration
	minTime     time.Duration
	maxTime     time.Duration
	totalLength int64
	failures    map[string]int64
}

func NewStatsRecorder() *StatsRecorder {
	return &StatsRecorder{
		entries:   make(map[string]*statsEntry),
		startedAt: time.Now(),
	}
}

func (r *StatsRecorder) Record(sample fhir.Sample) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := sample.Method + " " + sample.Name
	entry, ok := r.entries[key]
	if !ok {
		entry = &statsEntry{
			name:     sample.Name,
			method:   sample.Method,
			minTime:  sample.Elapsed,
			failures: make(map[string]int64),
		}
		r.entries[key] = entry
	}

	entry.numRequests++
	entry.totalTime += sample.Elapsed
	entry.totalLength += int64(sample.ResponseLength)
	if sample.Elapsed < entry.minTime {
		entry.minTime = sample.Elapsed
	}
	if sample.Elapsed > entry.maxTime {
		entry.maxTime = sample.Elapsed
	}
	if sample.Failure != "" {
		entry.numFailures++
		entry.failures[sample.Failure]++
	}
}

// EntryStats is the aggregated view of one metric.
type EntryStats struct {
	Name                  string  `json:"name"`
	Method                string  `json:"method"`
	NumRequests           int64   `json:"num_requests"`
	NumFailures           int64   `json:"num_failures"`
	AverageResponseTimeMs float64 `json:"avg_response_time_ms"`
	MinResponseTimeMs     float64 `json:"min_response_time_ms"`
	MaxResponseTimeMs     float64 `json:"max_response_time_ms"`
	AverageContentLength  float64 `json:"avg_content_length"`
	RequestsPerSecond     float64 `json:"requests_per_second"`
}

// FailureStats counts one distinct failure detail under a metric.
type FailureStats struct {
	Name   string `json:"name"`
	Method string `json:"method"`
	Detail string `json:"detail"`
	Count  int64  `json:"count"`
}

// Report is a point-in-time snapshot of everything recorded so far.
type Report struct {
	StartedAt      time.Time      `json:"started_at"`
	ElapsedSeconds float64        `json:"elapsed_seconds"`
	TotalRequests  int64          `json:"total_requests"`
	TotalFailures  int64          `json:"total_failures"`
	Entries        []EntryStats   `json:"entries"`
	Failures       []FailureStats `json:"failures,omitempty"`
}

func (r *StatsRecorder) Snapshot() Report {
	r.mu.Lock()
	defer r.mu.Unlock()

	elapsed := time.Since(r.startedAt).Seconds()
	report := Report{
		StartedAt:      r.startedAt,
		ElapsedSeconds: elapsed,
	}
	for _, entry := range r.entries {
		stats := EntryStats{
			Name:              entry.name,
			Method:            entry.method,
			NumRequests:       entry.numRequests,
			NumFailures:       entry.numFailures,
			MinResponseTimeMs: float64(entry.minTime.Milliseconds()),
			MaxResponseTimeMs: float64(entry.maxTime.Milliseconds()),
		}
		if entry.numRequests > 0 {
			stats.AverageResponseTimeMs = float64(entry.totalTime.Milliseconds()) / float64(entry.numRequests)
			stats.AverageContentLength = float64(entry.totalLength) / float64(entry.numRequests)
		}
		if elapsed > 0 {
			stats.RequestsPerSecond = float64(entry.numRequests) / elapsed
		}
		report.TotalRequests += entry.numRequests
		report.TotalFailures += entry.numFailures
		report.Entries = append(report.Entries, stats)

		for detail, count := range entry.failures {
			report.Failures = append(report.Failures, FailureStats{
				Name:   entry.name,
				Method: entry.method,
				Detail: detail,
				Count:  count,
			})
		}
	}
	sort.Slice(report.Entries, func(i, j int) bool {
		if report.Entries[i].Name == report.Entries[j].Name {
			return report.Entries[i].Method < report.Entries[j].Method
		}
		return report.Entries[i].Name < report.Entries[j].Name
	})
	sort.Slice(report.Failures, func(i, j int) bool {
		if report.Failures[i].Name == report.Failures[j].Name {
			return report.Failures[i].Detail < report.Failures[j].Detail
		}
		return report.Failures[i].Name < report.Failures[j].Name
	})
	return report
}

// LogSummary prints the aggregated table to the console logger at the end
// of a run.
func (report Report) LogSummary(logger *logrus.Logger, withDetails bool) {
	for _, entry := range report.Entries {
		logger.WithFields(logrus.Fields{
			"method":     entry.Method,
			"requests":   entry.NumRequests,
			"failures":   entry.NumFailures,
			"avg_ms":     entry.AverageResponseTimeMs,
			"min_ms":     entry.MinResponseTimeMs,
			"max_ms":     entry.MaxResponseTimeMs,
			"rps":        entry.RequestsPerSecond,
			"avg_length": entry.AverageContentLength,
		}).Info(entry.Name)
	}
	logger.WithFields(logrus.Fields{
		"total_requests": report.TotalRequests,
		"total_failures": report.TotalFailures,
		"elapsed_s":      report.ElapsedSeconds,
	}).Info("run complete")

	if !withDetails {
		return
	}
	for _, failure := range report.Failures {
		logger.WithFields(logrus.Fields{
			"method": failure.Method,
			"count":  failure.Count,
			"detail": failure.Detail,
		}).Warn(failure.Name)
	}
}
