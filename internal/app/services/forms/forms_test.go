package forms

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eyebench/internal/app/services/fhir"
	"eyebench/internal/pkg/constvars"
	"eyebench/internal/pkg/fhir_dto"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T, handler http.Handler) (*Service, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := fhir.NewClient(server.URL, 5*time.Second, nil, nil, zap.NewNop())
	return NewService(client, zap.NewNop()), server
}

func TestCreateComplaintsFormBuildsTransaction(t *testing.T) {
	var captured fhir_dto.Bundle
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/", r.URL.Path)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &captured))
		w.Header().Set(constvars.HeaderContentType, constvars.MIMEApplicationFHIRJSON)
		_, _ = w.Write([]byte(`{"resourceType":"Bundle","type":"transaction-response","entry":[]}`))
	})
	service, _ := newTestService(t, handler)

	_, err := service.CreateComplaintsForm(context.Background(), "p1", "e1", "doc1")
	require.NoError(t, err)

	require.Equal(t, constvars.FhirBundleTypeTransaction, captured.Type)
	require.NotEmpty(t, captured.Entry)

	var anchor fhir_dto.QuestionnaireResponse
	require.NoError(t, json.Unmarshal(captured.Entry[0].Resource, &anchor))
	assert.Equal(t, constvars.ResourceQuestionnaireResponse, anchor.ResourceType)
	require.NotNil(t, anchor.Meta)
	require.Len(t, anchor.Meta.Tag, 1)
	assert.Equal(t, constvars.FormTagSystem, anchor.Meta.Tag[0].System)
	assert.Equal(t, constvars.FormCodeComplaints, anchor.Meta.Tag[0].Code)
	assert.Equal(t, "Patient/p1", anchor.Subject.Reference)
	assert.Equal(t, "Encounter/e1", anchor.Encounter.Reference)

	var list fhir_dto.List
	last := captured.Entry[len(captured.Entry)-1]
	require.NoError(t, json.Unmarshal(last.Resource, &list))
	require.Equal(t, constvars.ResourceList, list.ResourceType)
	assert.Equal(t, "Complaints Form", list.Title)

	// The List must reference every other entry in the bundle by its URN.
	urns := make(map[string]bool)
	for _, entry := range captured.Entry[:len(captured.Entry)-1] {
		require.NotEmpty(t, entry.FullURL)
		require.NotNil(t, entry.Request)
		assert.Equal(t, constvars.MethodPost, entry.Request.Method)
		urns[entry.FullURL] = true
	}
	require.Len(t, list.Entry, len(urns))
	for _, item := range list.Entry {
		assert.True(t, urns[item.Item.Reference], "List references unknown member %s", item.Item.Reference)
	}
}

func TestFetchFormFallsBackToTagSearch(t *testing.T) {
	searchset := func(resourceType string) string {
		return `{"resourceType":"Bundle","type":"searchset","entry":[{"resource":{"resourceType":"` + resourceType + `","id":"x"}}]}`
	}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(constvars.HeaderContentType, constvars.MIMEApplicationFHIRJSON)
		switch r.URL.Path {
		case "/List":
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"resourceType":"OperationOutcome","issue":[{"code":"exception"}]}`))
		case "/QuestionnaireResponse", "/Condition":
			assert.Equal(t, constvars.FormTagSystem+"|"+constvars.FormCodeComplaints, r.URL.Query().Get("_tag"))
			assert.Equal(t, "Patient/p1", r.URL.Query().Get("subject"))
			_, _ = w.Write([]byte(searchset(r.URL.Path[1:])))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	})
	service, _ := newTestService(t, handler)

	bundle, err := service.FetchComplaints(context.Background(), "p1", "")
	require.NoError(t, err)
	assert.Equal(t, constvars.FhirBundleTypeCollection, bundle.Type)
	assert.Len(t, bundle.Entry, 2)
}

func TestFetchFormPrefersListAnchor(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/List", r.URL.Path)
		query := r.URL.Query()
		assert.Equal(t, "Patient/p1", query.Get("subject"))
		assert.Equal(t, constvars.FormTagSystem+"|"+constvars.FormCodeIOP, query.Get("code"))
		assert.Equal(t, "List:item", query.Get("_include"))
		assert.Equal(t, "Encounter/e1", query.Get("encounter"))
		w.Header().Set(constvars.HeaderContentType, constvars.MIMEApplicationFHIRJSON)
		_, _ = w.Write([]byte(`{"resourceType":"Bundle","type":"searchset","total":1,"entry":[{"resource":{"resourceType":"List","id":"l1"}}]}`))
	})
	service, _ := newTestService(t, handler)

	bundle, err := service.FetchIOP(context.Background(), "p1", "e1")
	require.NoError(t, err)
	require.Len(t, bundle.Entry, 1)
}

func TestCreateDrugPrescriptionLinksMedicationToDiagnosis(t *testing.T) {
	var captured fhir_dto.Bundle
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured))
		w.Header().Set(constvars.HeaderContentType, constvars.MIMEApplicationFHIRJSON)
		_, _ = w.Write([]byte(`{"resourceType":"Bundle","type":"transaction-response"}`))
	})
	service, _ := newTestService(t, handler)

	_, err := service.CreateDrugPrescriptionForm(context.Background(), "p1", "e1", "doc1")
	require.NoError(t, err)

	var conditionURN string
	var medication fhir_dto.MedicationRequest
	for _, entry := range captured.Entry {
		var probe struct {
			ResourceType string `json:"resourceType"`
		}
		require.NoError(t, json.Unmarshal(entry.Resource, &probe))
		switch probe.ResourceType {
		case constvars.ResourceCondition:
			conditionURN = entry.FullURL
		case constvars.ResourceMedicationRequest:
			require.NoError(t, json.Unmarshal(entry.Resource, &medication))
		}
	}
	require.NotEmpty(t, conditionURN)
	require.Len(t, medication.ReasonReference, 1)
	assert.Equal(t, conditionURN, medication.ReasonReference[0].Reference)
	require.Len(t, medication.DosageInstruction, 1)
	require.NotNil(t, medication.DosageInstruction[0].Timing)
	assert.NotEmpty(t, medication.DosageInstruction[0].Timing.Code.Text)
}
