package registry

import (
	"context"
	"eyebench/internal/pkg/constvars"
	"eyebench/internal/pkg/fhir_dto"
	"math/rand"
	"net/url"

	"github.com/icrowley/fake"
)

// ChooseExistingPractitioner picks a random practitioner from the first page
// of results, or returns an empty id when none exist.
func (s *Service) ChooseExistingPractitioner(ctx context.Context) (string, error) {
	params := url.Values{}
	params.Set("_count", "50")
	resp, err := s.client.Get(ctx, "/Practitioner", params)
	if err != nil {
		return "", err
	}
	bundle, err := resp.Bundle()
	if err != nil {
		return "", err
	}
	if len(bundle.Entry) == 0 {
		return "", nil
	}
	entry := bundle.Entry[rand.Intn(len(bundle.Entry))]
	_, id := fhir_dto.ResourceHeader(entry.Resource)
	return id, nil
}

// GetOrCreatePractitioner returns an existing practitioner id, creating one
// only when the server has none.
func (s *Service) GetOrCreatePractitioner(ctx context.Context) (string, error) {
	existing, err := s.ChooseExistingPractitioner(ctx)
	if err == nil && existing != "" {
		return existing, nil
	}

	practitioner := fhir_dto.Practitioner{
		ResourceType: constvars.ResourcePractitioner,
		Name: []fhir_dto.HumanName{
			{Use: "official", Family: fake.LastName(), Given: []string{fake.FirstName()}},
		},
		Telecom: []fhir_dto.ContactPoint{
			{System: "phone", Value: fake.Phone()},
		},
	}
	resp, err := s.client.Post(ctx, "/Practitioner", practitioner)
	if err != nil {
		return "", err
	}
	var created fhir_dto.Practitioner
	if err := resp.DecodeInto(&created, constvars.ResourcePractitioner); err != nil {
		return "", err
	}
	return created.ID, nil
}
