package loadgen

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"eyebench/internal/app/services/fhir"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsRecorderAggregatesByMetric(t *testing.T) {
	recorder := NewStatsRecorder()

	recorder.Record(fhir.Sample{Name: "patient search", Method: "GET", StatusCode: 200, Elapsed: 10 * time.Millisecond, ResponseLength: 100})
	recorder.Record(fhir.Sample{Name: "patient search", Method: "GET", StatusCode: 200, Elapsed: 30 * time.Millisecond, ResponseLength: 300})
	recorder.Record(fhir.Sample{Name: "patient search", Method: "GET", StatusCode: 500, Elapsed: 20 * time.Millisecond, Failure: "boom"})
	recorder.Record(fhir.Sample{Name: "transaction", Method: "POST", StatusCode: 200, Elapsed: 5 * time.Millisecond})

	report := recorder.Snapshot()
	require.Len(t, report.Entries, 2)
	assert.Equal(t, int64(4), report.TotalRequests)
	assert.Equal(t, int64(1), report.TotalFailures)

	search := report.Entries[0]
	assert.Equal(t, "patient search", search.Name)
	assert.Equal(t, "GET", search.Method)
	assert.Equal(t, int64(3), search.NumRequests)
	assert.Equal(t, int64(1), search.NumFailures)
	assert.Equal(t, float64(10), search.MinResponseTimeMs)
	assert.Equal(t, float64(30), search.MaxResponseTimeMs)
	assert.Equal(t, float64(20), search.AverageResponseTimeMs)

	require.Len(t, report.Failures, 1)
	assert.Equal(t, "boom", report.Failures[0].Detail)
	assert.Equal(t, int64(1), report.Failures[0].Count)
}

func TestStatsRecorderSeparatesMethods(t *testing.T) {
	recorder := NewStatsRecorder()
	recorder.Record(fhir.Sample{Name: "encounter by id", Method: "GET", Elapsed: time.Millisecond})
	recorder.Record(fhir.Sample{Name: "encounter by id", Method: "PUT", Elapsed: time.Millisecond})

	report := recorder.Snapshot()
	require.Len(t, report.Entries, 2)
	assert.Equal(t, "GET", report.Entries[0].Method)
	assert.Equal(t, "PUT", report.Entries[1].Method)
}

func TestStatsRecorderConcurrentRecording(t *testing.T) {
	recorder := NewStatsRecorder()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				recorder.Record(fhir.Sample{Name: "observation create", Method: "POST", Elapsed: time.Millisecond})
			}
		}()
	}
	wg.Wait()

	report := recorder.Snapshot()
	require.Len(t, report.Entries, 1)
	assert.Equal(t, int64(800), report.Entries[0].NumRequests)
}

func TestStatsEndpointServesSnapshot(t *testing.T) {
	recorder := NewStatsRecorder()
	recorder.Record(fhir.Sample{Name: "capability statement", Method: "GET", StatusCode: 200, Elapsed: time.Millisecond})

	router := NewStatsRouter(recorder)
	server := httptest.NewServer(router)
	defer server.Close()

	resp, err := http.Get(server.URL + "/stats")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var report Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	require.Len(t, report.Entries, 1)
	assert.Equal(t, "capability statement", report.Entries[0].Name)

	health, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	defer health.Body.Close()
	assert.Equal(t, http.StatusOK, health.StatusCode)
}
