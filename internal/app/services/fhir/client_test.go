package fhir

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type captureRecorder struct {
	samples []Sample
}

func (c *captureRecorder) Record(sample Sample) {
	c.samples = append(c.samples, sample)
}

func TestClientGetRecordsSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Patient", r.URL.Path)
		assert.Equal(t, "urn:test|abc", r.URL.Query().Get("identifier"))
		assert.Equal(t, "application/fhir+json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/fhir+json")
		w.Write([]byte(`{"resourceType":"Bundle","type":"searchset","total":0}`))
	}))
	defer server.Close()

	recorder := &captureRecorder{}
	client := NewClient(server.URL, 5*time.Second, nil, recorder, zap.NewNop())

	params := url.Values{}
	params.Set("identifier", "urn:test|abc")
	resp, err := client.Get(context.Background(), "/Patient", params)
	require.NoError(t, err)
	assert.True(t, resp.OK())

	bundle, err := resp.Bundle()
	require.NoError(t, err)
	assert.Equal(t, "searchset", bundle.Type)

	require.Len(t, recorder.samples, 1)
	sample := recorder.samples[0]
	assert.Equal(t, "patient search", sample.Name)
	assert.Equal(t, http.StatusOK, sample.StatusCode)
	assert.Empty(t, sample.Failure)
	assert.Greater(t, sample.ResponseLength, 0)
}

func TestClientPostFailureExtractsOperationOutcome(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"resourceType":"OperationOutcome","issue":[{"severity":"error","code":"invalid","details":{"text":"missing subject"},"diagnostics":"Observation.subject is required"}]}`))
	}))
	defer server.Close()

	recorder := &captureRecorder{}
	client := NewClient(server.URL, 5*time.Second, nil, recorder, zap.NewNop())

	resp, err := client.Post(context.Background(), "/Observation", map[string]interface{}{
		"resourceType": "Observation",
	})
	require.Error(t, err)
	assert.False(t, resp.OK())

	require.Len(t, recorder.samples, 1)
	sample := recorder.samples[0]
	assert.Equal(t, "observation create", sample.Name)
	assert.Equal(t, http.StatusUnprocessableEntity, sample.StatusCode)
	assert.Equal(t, "invalid | missing subject | Observation.subject is required", sample.Failure)
}

func TestClientTransactionName(t *testing.T) {
	var recordedPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recordedPath = r.URL.Path
		w.Write([]byte(`{"resourceType":"Bundle","type":"transaction-response"}`))
	}))
	defer server.Close()

	recorder := &captureRecorder{}
	client := NewClient(server.URL, 5*time.Second, nil, recorder, zap.NewNop())

	resp, err := client.Post(context.Background(), "/", map[string]interface{}{
		"resourceType": "Bundle",
		"type":         "transaction",
	})
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.Equal(t, "/", recordedPath)

	require.Len(t, recorder.samples, 1)
	assert.Equal(t, "transaction", recorder.samples[0].Name)
}

func TestExtractErrorDetailTruncatesRawBodies(t *testing.T) {
	long := make([]byte, 2000)
	for i := range long {
		long[i] = 'x'
	}
	detail := extractErrorDetail(long)
	assert.Len(t, detail, maxErrorDetailLength+len("...<truncated>"))
	assert.Contains(t, detail, "...<truncated>")
}
