package forms

import (
	"context"
	"eyebench/internal/pkg/constvars"
	"eyebench/internal/pkg/fhir_dto"
	"net/url"
	"strconv"
)

// fetchForm retrieves everything a form wrote for a patient. The List
// packaging the form members is the primary anchor; when the List search
// fails the member resources are looked up by tag instead and merged into
// a collection bundle.
func (s *Service) fetchForm(ctx context.Context, patientID, encounterID, code string, fallbackTypes []string, listCount, tagCount int) (*fhir_dto.Bundle, error) {
	tag := constvars.FormTagSystem + "|" + code

	params := url.Values{}
	params.Set("subject", "Patient/"+patientID)
	params.Set("code", tag)
	params.Add("_include", "List:item")
	params.Set("_count", strconv.Itoa(listCount))
	if encounterID != "" {
		params.Set("encounter", "Encounter/"+encounterID)
	}

	resp, listErr := s.client.Get(ctx, "/List", params)
	if listErr == nil {
		bundle, err := resp.Bundle()
		if err == nil {
			return bundle, nil
		}
		listErr = err
	}

	var merged []fhir_dto.BundleEntry
	var lastBundle *fhir_dto.Bundle
	var lastErr error
	for _, resourceType := range fallbackTypes {
		tagParams := url.Values{}
		tagParams.Set("_tag", tag)
		tagParams.Set("_count", strconv.Itoa(tagCount))
		if resourceType == constvars.ResourceVisionPrescription || resourceType == constvars.ResourceAllergyIntolerance {
			tagParams.Set("patient", "Patient/"+patientID)
		} else if resourceType != constvars.ResourceDevice {
			tagParams.Set("subject", "Patient/"+patientID)
		}
		if encounterID != "" && resourceType != constvars.ResourceDevice {
			tagParams.Set("encounter", "Encounter/"+encounterID)
		}

		resp, err := s.client.Get(ctx, "/"+resourceType, tagParams)
		if err != nil {
			lastErr = err
			continue
		}
		bundle, err := resp.Bundle()
		if err != nil {
			lastErr = err
			continue
		}
		lastBundle = bundle
		for _, entry := range bundle.Entry {
			if len(entry.Resource) == 0 {
				continue
			}
			merged = append(merged, fhir_dto.BundleEntry{Resource: entry.Resource})
		}
	}

	if len(merged) > 0 {
		return &fhir_dto.Bundle{
			ResourceType: constvars.ResourceBundle,
			Type:         constvars.FhirBundleTypeCollection,
			Entry:        merged,
		}, nil
	}
	if lastBundle != nil {
		return lastBundle, nil
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, listErr
}
