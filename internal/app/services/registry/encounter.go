package registry

import (
	"context"
	"eyebench/internal/pkg/constvars"
	"eyebench/internal/pkg/fhir_dto"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// GetEncountersWithDetails pages encounters with their referenced Patient,
// participant and Location resources included.
func (s *Service) GetEncountersWithDetails(ctx context.Context, count int) (*fhir_dto.Bundle, error) {
	params := url.Values{}
	params.Set("_count", strconv.Itoa(count))
	params.Add("_include", "Encounter:subject")
	params.Add("_include", "Encounter:participant")
	params.Add("_include", "Encounter:location")
	resp, err := s.client.Get(ctx, "/Encounter", params)
	if err != nil {
		return nil, err
	}
	return resp.Bundle()
}

// CreateEncounter starts an ambulatory in-progress encounter and reads it
// back.
func (s *Service) CreateEncounter(ctx context.Context, patientID, practitionerID, locationID string) (string, error) {
	encounter := fhir_dto.Encounter{
		ResourceType: constvars.ResourceEncounter,
		Status:       constvars.FhirEncounterStatusInProgress,
		Class: &fhir_dto.Coding{
			System: constvars.FhirEncounterClassSystem,
			Code:   constvars.FhirEncounterClassAMB,
		},
		Subject: &fhir_dto.Reference{Reference: "Patient/" + patientID},
	}
	if practitionerID != "" {
		encounter.Participant = []fhir_dto.EncounterParticipant{
			{Individual: &fhir_dto.Reference{Reference: "Practitioner/" + practitionerID}},
		}
	}
	if locationID != "" {
		encounter.Location = []fhir_dto.EncounterLocation{
			{Location: fhir_dto.Reference{Reference: "Location/" + locationID}},
		}
	}

	resp, err := s.client.Post(ctx, "/Encounter", encounter)
	if err != nil {
		return "", err
	}
	var created fhir_dto.Encounter
	if err := resp.DecodeInto(&created, constvars.ResourceEncounter); err != nil {
		return "", err
	}
	s.logger.Info("created encounter",
		zap.String(constvars.LoggingEncounterIDKey, created.ID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
	)
	s.client.Get(ctx, "/Encounter/"+created.ID, nil)
	return created.ID, nil
}

// TransferEncounterLocation moves an in-progress encounter to a new
// location. The full resource is read first and PUT back so servers that
// require complete representations accept the update.
func (s *Service) TransferEncounterLocation(ctx context.Context, encounterID, newLocationID string) error {
	body, err := s.readEncounterAsMap(ctx, encounterID)
	if err != nil {
		return err
	}

	body["resourceType"] = constvars.ResourceEncounter
	body["id"] = encounterID
	body["location"] = []map[string]interface{}{
		{"location": map[string]interface{}{"reference": "Location/" + newLocationID}},
	}

	if _, err := s.client.Put(ctx, "/Encounter/"+encounterID, body); err != nil {
		return err
	}
	_, err = s.client.Get(ctx, "/Encounter/"+encounterID, nil)
	return err
}

// DischargeEncounter marks the encounter finished and stamps the period end.
func (s *Service) DischargeEncounter(ctx context.Context, encounterID string) error {
	body, err := s.readEncounterAsMap(ctx, encounterID)
	if err != nil {
		return err
	}

	body["resourceType"] = constvars.ResourceEncounter
	body["id"] = encounterID
	body["status"] = constvars.FhirEncounterStatusFinished
	period, ok := body["period"].(map[string]interface{})
	if !ok {
		period = map[string]interface{}{}
	}
	period["end"] = time.Now().UTC().Truncate(time.Second).Format(time.RFC3339)
	body["period"] = period

	if _, err := s.client.Put(ctx, "/Encounter/"+encounterID, body); err != nil {
		return err
	}
	_, err = s.client.Get(ctx, "/Encounter/"+encounterID, nil)
	return err
}

func (s *Service) readEncounterAsMap(ctx context.Context, encounterID string) (map[string]interface{}, error) {
	resp, err := s.client.Get(ctx, "/Encounter/"+encounterID, nil)
	if err != nil {
		return nil, err
	}
	body := make(map[string]interface{})
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, err
	}
	return body, nil
}
