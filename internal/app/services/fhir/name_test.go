package fhir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalName(t *testing.T) {
	transactionBundle := []byte(`{"resourceType":"Bundle","type":"transaction"}`)
	batchBundle := []byte(`{"resourceType":"Bundle","type":"batch"}`)

	testCases := []struct {
		name     string
		method   string
		path     string
		body     []byte
		expected string
	}{
		{"transaction bundle to root", "POST", "/", transactionBundle, "transaction"},
		{"batch bundle to root", "POST", "/", batchBundle, "batch"},
		{"non-bundle to root", "POST", "/", []byte(`{"resourceType":"Patient"}`), "root"},
		{"empty body to root", "GET", "/", nil, "root"},
		{"capability statement", "GET", "/metadata", nil, "capability statement"},
		{"type level search", "GET", "/Patient", nil, "patient search"},
		{"type level without leading slash", "GET", "Observation", nil, "observation search"},
		{"type level create", "POST", "/QuestionnaireResponse", nil, "questionnaireresponse create"},
		{"instance read", "GET", "/Patient/abc-123", nil, "patient by id"},
		{"instance update", "PUT", "/Encounter/enc-1", nil, "encounter update"},
		{"instance patch", "PATCH", "/Encounter/enc-1", nil, "encounter patch"},
		{"instance delete", "DELETE", "/List/l1", nil, "list delete"},
		{"system operation", "POST", "/$export", nil, "system operation $export"},
		{"type operation", "POST", "/Patient/$match", nil, "patient operation $match"},
		{"instance operation", "POST", "/Patient/p1/$everything", nil, "patient instance operation $everything"},
		{"instance history", "GET", "/Patient/p1/_history", nil, "patient history"},
		{"deep subpath", "GET", "/Patient/p1/photo", nil, "patient get"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, CanonicalName(tc.method, tc.path, tc.body))
		})
	}
}
