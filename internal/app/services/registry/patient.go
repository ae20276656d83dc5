package registry

import (
	"context"
	"eyebench/internal/pkg/constvars"
	"eyebench/internal/pkg/fhir_dto"
	"fmt"
	"math/rand"
	"time"

	"github.com/goccy/go-json"
	"github.com/icrowley/fake"
	"go.uber.org/zap"
)

var genders = []string{"male", "female", "other", "unknown"}

// SearchPatientBatch searches for patients matching a pattern by identifier,
// name or phone in a single batch bundle, and merges the three result sets
// into one searchset with duplicates removed.
func (s *Service) SearchPatientBatch(ctx context.Context, pattern string, countEach int) (*fhir_dto.Bundle, error) {
	batch := &fhir_dto.Bundle{
		ResourceType: constvars.ResourceBundle,
		Type:         constvars.FhirBundleTypeBatch,
		Entry: []fhir_dto.BundleEntry{
			{Request: &fhir_dto.BundleRequest{Method: constvars.MethodGet, URL: fmt.Sprintf("Patient?identifier=%s&_count=%d", pattern, countEach)}},
			{Request: &fhir_dto.BundleRequest{Method: constvars.MethodGet, URL: fmt.Sprintf("Patient?name=%s&_count=%d", pattern, countEach)}},
			{Request: &fhir_dto.BundleRequest{Method: constvars.MethodGet, URL: fmt.Sprintf("Patient?telecom=%s&_count=%d", pattern, countEach)}},
		},
	}

	response, err := s.client.Transaction(ctx, batch)
	if err != nil {
		return nil, err
	}

	merged := mergePatientEntries(response)
	total := len(merged)
	return &fhir_dto.Bundle{
		ResourceType: constvars.ResourceBundle,
		Type:         constvars.FhirBundleTypeSearchset,
		Total:        &total,
		Entry:        merged,
	}, nil
}

func mergePatientEntries(batchResponse *fhir_dto.Bundle) []fhir_dto.BundleEntry {
	var merged []fhir_dto.BundleEntry
	seen := make(map[string]bool)

	for _, entry := range batchResponse.Entry {
		if len(entry.Resource) == 0 {
			continue
		}
		resourceType, _ := fhir_dto.ResourceHeader(entry.Resource)
		if resourceType != constvars.ResourceBundle {
			continue
		}
		var inner fhir_dto.Bundle
		if err := json.Unmarshal(entry.Resource, &inner); err != nil {
			continue
		}
		for _, patientEntry := range inner.Entry {
			resourceType, id := fhir_dto.ResourceHeader(patientEntry.Resource)
			if resourceType != constvars.ResourcePatient || id == "" || seen[id] {
				continue
			}
			seen[id] = true
			merged = append(merged, patientEntry)
		}
	}
	return merged
}

// GetOrCreatePatientByIdentifier reuses an existing patient matching the
// identifier, or registers a new one with generated demographics.
func (s *Service) GetOrCreatePatientByIdentifier(ctx context.Context, identifier string) (string, error) {
	searchset, err := s.SearchPatientBatch(ctx, identifier, 20)
	if err == nil && len(searchset.Entry) > 0 {
		_, id := fhir_dto.ResourceHeader(searchset.Entry[0].Resource)
		if id != "" {
			s.client.Get(ctx, "/Patient/"+id, nil)
			return id, nil
		}
	}

	patient := fhir_dto.Patient{
		ResourceType: constvars.ResourcePatient,
		Identifier: []fhir_dto.Identifier{
			{System: constvars.LoadtestIdentifierSystem, Value: identifier},
		},
		Name: []fhir_dto.HumanName{
			{Use: "official", Family: fake.LastName(), Given: []string{fake.FirstName()}},
		},
		Gender:    genders[rand.Intn(len(genders))],
		BirthDate: randomBirthDate(),
		Telecom: []fhir_dto.ContactPoint{
			{System: "phone", Value: fake.Phone()},
		},
		Address: []fhir_dto.Address{
			{
				Use:        "home",
				Line:       []string{fake.StreetAddress()},
				City:       fake.City(),
				PostalCode: fake.Zip(),
				Country:    fake.Country(),
			},
		},
	}

	resp, err := s.client.Post(ctx, "/Patient", patient)
	if err != nil {
		return "", err
	}
	var created fhir_dto.Patient
	if err := resp.DecodeInto(&created, constvars.ResourcePatient); err != nil {
		return "", err
	}
	s.logger.Info("registered new patient",
		zap.String(constvars.LoggingPatientIDKey, created.ID),
	)
	s.client.Get(ctx, "/Patient/"+created.ID, nil)
	return created.ID, nil
}

func randomBirthDate() string {
	ageInYears := 1 + rand.Intn(95)
	birth := time.Now().AddDate(-ageInYears, 0, -rand.Intn(365))
	return birth.Format("2006-01-02")
}
