package registry

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eyebench/internal/app/services/fhir"
	"eyebench/internal/pkg/fhir_dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T, handler http.HandlerFunc) (*Service, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := fhir.NewClient(server.URL, 5*time.Second, nil, nil, zap.NewNop())
	return NewService(client, zap.NewNop()), server
}

func TestSearchPatientBatchMergesAndDeduplicates(t *testing.T) {
	batchResponse := `{
		"resourceType": "Bundle",
		"type": "batch-response",
		"entry": [
			{"resource": {"resourceType": "Bundle", "type": "searchset", "entry": [
				{"resource": {"resourceType": "Patient", "id": "p1"}},
				{"resource": {"resourceType": "Patient", "id": "p2"}}
			]}},
			{"resource": {"resourceType": "Bundle", "type": "searchset", "entry": [
				{"resource": {"resourceType": "Patient", "id": "p2"}},
				{"resource": {"resourceType": "Patient", "id": "p3"}}
			]}},
			{"resource": {"resourceType": "Bundle", "type": "searchset", "entry": []}}
		]
	}`

	service, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/", r.URL.Path)
		w.Write([]byte(batchResponse))
	})

	result, err := service.SearchPatientBatch(context.Background(), "0123abc", 20)
	require.NoError(t, err)
	require.NotNil(t, result.Total)
	assert.Equal(t, 3, *result.Total)

	var ids []string
	for _, entry := range result.Entry {
		_, id := fhir_dto.ResourceHeader(entry.Resource)
		ids = append(ids, id)
	}
	assert.Equal(t, []string{"p1", "p2", "p3"}, ids)
}

func TestGetOrCreatePatientReusesExisting(t *testing.T) {
	var readBack bool
	service, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/":
			w.Write([]byte(`{
				"resourceType": "Bundle",
				"type": "batch-response",
				"entry": [{"resource": {"resourceType": "Bundle", "type": "searchset", "entry": [
					{"resource": {"resourceType": "Patient", "id": "existing-1"}}
				]}}]
			}`))
		case r.Method == http.MethodGet && r.URL.Path == "/Patient/existing-1":
			readBack = true
			w.Write([]byte(`{"resourceType": "Patient", "id": "existing-1"}`))
		default:
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	})

	id, err := service.GetOrCreatePatientByIdentifier(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "existing-1", id)
	assert.True(t, readBack)
}

func TestGetOrCreatePatientCreatesWhenMissing(t *testing.T) {
	var createdBody []byte
	service, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/":
			w.Write([]byte(`{"resourceType": "Bundle", "type": "batch-response", "entry": []}`))
		case r.Method == http.MethodPost && r.URL.Path == "/Patient":
			createdBody, _ = io.ReadAll(r.Body)
			w.Write([]byte(`{"resourceType": "Patient", "id": "new-1"}`))
		case r.Method == http.MethodGet && r.URL.Path == "/Patient/new-1":
			w.Write([]byte(`{"resourceType": "Patient", "id": "new-1"}`))
		default:
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	})

	id, err := service.GetOrCreatePatientByIdentifier(context.Background(), "fresh-identifier")
	require.NoError(t, err)
	assert.Equal(t, "new-1", id)
	assert.Contains(t, string(createdBody), `"urn:medblocks:loadtests:identifier"`)
	assert.Contains(t, string(createdBody), `"fresh-identifier"`)
}
