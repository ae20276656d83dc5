package registry

import (
	"context"
	"eyebench/internal/pkg/constvars"
	"eyebench/internal/pkg/fhir_dto"
	"fmt"
	"math/rand"
	"net/url"
)

// ChooseExistingLocation prefers seeded active locations over creating new
// ones.
func (s *Service) ChooseExistingLocation(ctx context.Context) (string, error) {
	params := url.Values{}
	params.Set("status", constvars.FhirLocationStatusActive)
	params.Set("_count", "50")
	resp, err := s.client.Get(ctx, "/Location", params)
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

func (s *Service) GetOrCreateLocation(ctx context.Context) (string, error) {
	existing, err := s.ChooseExistingLocation(ctx)
	if err == nil && existing != "" {
		return existing, nil
	}

	location := fhir_dto.Location{
		ResourceType: constvars.ResourceLocation,
		Name:         fmt.Sprintf("Room %d", 1+rand.Intn(50)),
		Status:       constvars.FhirLocationStatusActive,
	}
	resp, err := s.client.Post(ctx, "/Location", location)
	if err != nil {
		return "", err
	}
	var created fhir_dto.Location
	if err := resp.DecodeInto(&created, constvars.ResourceLocation); err != nil {
		return "", err
	}
	return created.ID, nil
}
