package registry

import (
	"context"
	"eyebench/internal/pkg/constvars"
	"eyebench/internal/pkg/fhir_dto"
	"net/url"
	"sort"
	"strings"

	"github.com/goccy/go-json"
)

// Sidebar mirrors the data the chart sidebar needs: the patient record,
// the encounter count, the pick lists and optionally one fully resolved
// encounter.
type Sidebar struct {
	Patient        fhir_dto.Patient
	EncounterCount int
	Questionnaires *fhir_dto.Bundle
	Locations      *fhir_dto.Bundle
	Practitioners  *fhir_dto.Bundle
	Encounter      *EncounterDetail
}

// EncounterDetail is one encounter with its referenced resources resolved.
type EncounterDetail struct {
	Resource        fhir_dto.Encounter
	Patient         *fhir_dto.Patient
	Practitioners   []json.RawMessage
	Locations       []fhir_dto.Location
	PractitionerIDs []string
	LocationIDs     []string
}

// PatientSummary aggregates everything recorded against a patient across
// all forms, one searchset per clinical area.
type PatientSummary struct {
	Communications            *fhir_dto.Bundle
	Encounters                *fhir_dto.Bundle
	QuestionnaireResponses    *fhir_dto.Bundle
	ObservationsRefraction    *fhir_dto.Bundle
	ObservationsIOP           *fhir_dto.Bundle
	Conditions                *fhir_dto.Bundle
	Procedures                *fhir_dto.Bundle
	CarePlans                 *fhir_dto.Bundle
	ServiceRequests           *fhir_dto.Bundle
	MedicationRequests        *fhir_dto.Bundle
	DocumentReferences        *fhir_dto.Bundle
	VisionPrescriptions       *fhir_dto.Bundle
	DiagnosticReports         *fhir_dto.Bundle
	Allergies                 *fhir_dto.Bundle
	ObservationsSocialHistory *fhir_dto.Bundle
	ObservationsSurvey        *fhir_dto.Bundle
	VitalsSpO2                *fhir_dto.Bundle
	VitalsHeartRate           *fhir_dto.Bundle
	VitalsBloodPressure       *fhir_dto.Bundle
}

// PatientSidebar loads the sidebar for a patient, resolving encounter
// references when an encounter id is supplied. Sub-queries that fail are
// tolerated so one slow list does not abort the whole view.
func (s *Service) PatientSidebar(ctx context.Context, patientID, encounterID string) (*Sidebar, error) {
	resp, err := s.client.Get(ctx, "/Patient/"+patientID, nil)
	if err != nil {
		return nil, err
	}
	sidebar := &Sidebar{}
	if err := resp.DecodeInto(&sidebar.Patient, constvars.ResourcePatient); err != nil {
		return nil, err
	}

	countParams := url.Values{}
	countParams.Set("subject", "Patient/"+patientID)
	countParams.Set("_count", "0")
	countParams.Set("_total", "accurate")
	if resp, err := s.client.Get(ctx, "/Encounter", countParams); err == nil {
		if bundle, err := resp.Bundle(); err == nil {
			sidebar.EncounterCount = bundleTotal(bundle)
		}
	}

	sidebar.Questionnaires = s.searchBundle(ctx, "/Questionnaire", url.Values{"_count": {"200"}})
	sidebar.Locations = s.searchBundle(ctx, "/Location", url.Values{"_count": {"200"}})
	sidebar.Practitioners = s.searchBundle(ctx, "/Practitioner", url.Values{"_count": {"200"}})

	if encounterID != "" {
		sidebar.Encounter = s.resolveEncounterDetail(ctx, encounterID)
	}
	return sidebar, nil
}

func (s *Service) resolveEncounterDetail(ctx context.Context, encounterID string) *EncounterDetail {
	resp, err := s.client.Get(ctx, "/Encounter/"+encounterID, nil)
	if err != nil {
		return nil
	}
	detail := &EncounterDetail{}
	if err := resp.DecodeInto(&detail.Resource, constvars.ResourceEncounter); err != nil {
		return nil
	}

	if detail.Resource.Subject != nil && detail.Resource.Subject.Reference != "" {
		if resp, err := s.client.Get(ctx, "/"+detail.Resource.Subject.Reference, nil); err == nil {
			patient := new(fhir_dto.Patient)
			if err := resp.DecodeInto(patient, constvars.ResourcePatient); err == nil {
				detail.Patient = patient
			}
		}
	}

	seenRefs := make(map[string]bool)
	practitionerIDs := make(map[string]bool)
	for _, participant := range detail.Resource.Participant {
		if participant.Individual == nil || participant.Individual.Reference == "" {
			continue
		}
		ref := participant.Individual.Reference
		if seenRefs[ref] {
			continue
		}
		seenRefs[ref] = true
		if strings.Contains(ref, "Practitioner/") && !strings.Contains(ref, "PractitionerRole/") {
			if id := referenceID(ref); id != "" {
				practitionerIDs[id] = true
			}
		}
		resp, err := s.client.Get(ctx, "/"+ref, nil)
		if err != nil {
			continue
		}
		detail.Practitioners = append(detail.Practitioners, json.RawMessage(resp.Body))

		// PractitionerRole participants also resolve the underlying Practitioner.
		resourceType, _ := fhir_dto.ResourceHeader(resp.Body)
		if resourceType != constvars.ResourcePractitionerRole {
			continue
		}
		var role fhir_dto.PractitionerRole
		if err := json.Unmarshal(resp.Body, &role); err != nil || role.Practitioner == nil {
			continue
		}
		practitionerRef := role.Practitioner.Reference
		if practitionerRef == "" || seenRefs[practitionerRef] {
			continue
		}
		seenRefs[practitionerRef] = true
		if resp, err := s.client.Get(ctx, "/"+practitionerRef, nil); err == nil {
			detail.Practitioners = append(detail.Practitioners, json.RawMessage(resp.Body))
			if _, id := fhir_dto.ResourceHeader(resp.Body); id != "" {
				practitionerIDs[id] = true
			}
		}
	}

	locationIDs := make(map[string]bool)
	for _, loc := range detail.Resource.Location {
		ref := loc.Location.Reference
		if ref == "" {
			continue
		}
		if id := referenceID(ref); id != "" {
			locationIDs[id] = true
		}
		resp, err := s.client.Get(ctx, "/"+ref, nil)
		if err != nil {
			continue
		}
		var location fhir_dto.Location
		if err := resp.DecodeInto(&location, constvars.ResourceLocation); err == nil {
			detail.Locations = append(detail.Locations, location)
		}
	}

	detail.PractitionerIDs = sortedKeys(practitionerIDs)
	detail.LocationIDs = sortedKeys(locationIDs)
	return detail
}

// PatientSummaryView pulls the full chart summary for a patient.
func (s *Service) PatientSummaryView(ctx context.Context, patientID string) (*PatientSummary, error) {
	if _, err := s.client.Get(ctx, "/Patient/"+patientID, nil); err != nil {
		return nil, err
	}
	subject := "Patient/" + patientID

	summary := &PatientSummary{
		Encounters:             s.searchBundle(ctx, "/Encounter", url.Values{"subject": {subject}, "_count": {"200"}}),
		Communications:         s.searchBundle(ctx, "/Communication", url.Values{"subject": {subject}, "_count": {"200"}}),
		QuestionnaireResponses: s.searchBundle(ctx, "/QuestionnaireResponse", url.Values{"subject": {subject}, "_count": {"200"}, "_include": {"QuestionnaireResponse:questionnaire", "QuestionnaireResponse:encounter"}}),
		ObservationsRefraction: s.searchBundle(ctx, "/Observation", url.Values{"subject": {subject}, "code": {constvars.LoincRefraction}, "_count": {"200"}}),
		ObservationsIOP:        s.searchBundle(ctx, "/Observation", url.Values{"subject": {subject}, "code": {constvars.LoincIOP}, "_count": {"200"}}),
		Conditions:             s.searchBundle(ctx, "/Condition", url.Values{"subject": {subject}, "_count": {"200"}}),
		Procedures:             s.searchBundle(ctx, "/Procedure", url.Values{"subject": {subject}, "_count": {"200"}}),
		CarePlans:              s.searchBundle(ctx, "/CarePlan", url.Values{"subject": {subject}, "_count": {"100"}}),
		ServiceRequests:        s.searchBundle(ctx, "/ServiceRequest", url.Values{"subject": {subject}, "_count": {"200"}}),
		MedicationRequests:     s.searchBundle(ctx, "/MedicationRequest", url.Values{"subject": {subject}, "_count": {"200"}, "_include": {"MedicationRequest:medication"}}),
		DocumentReferences:     s.searchBundle(ctx, "/DocumentReference", url.Values{"subject": {subject}, "_count": {"100"}}),
		VisionPrescriptions:    s.searchBundle(ctx, "/VisionPrescription", url.Values{"patient": {subject}, "_count": {"100"}}),
		DiagnosticReports:      s.searchBundle(ctx, "/DiagnosticReport", url.Values{"subject": {subject}, "_count": {"200"}, "_include": {"DiagnosticReport:result"}}),
		Allergies:              s.searchBundle(ctx, "/AllergyIntolerance", url.Values{"patient": {subject}, "_count": {"100"}}),
		ObservationsSocialHistory: s.searchBundle(ctx, "/Observation",
			url.Values{"subject": {subject}, "category": {"social-history"}, "_count": {"200"}}),
		ObservationsSurvey:  s.searchBundle(ctx, "/Observation", url.Values{"subject": {subject}, "category": {"survey"}, "_count": {"200"}}),
		VitalsSpO2:          s.searchBundle(ctx, "/Observation", url.Values{"subject": {subject}, "code": {constvars.LoincSpO2}, "_count": {"100"}}),
		VitalsHeartRate:     s.searchBundle(ctx, "/Observation", url.Values{"subject": {subject}, "code": {constvars.LoincHeartRate}, "_count": {"100"}}),
		VitalsBloodPressure: s.searchBundle(ctx, "/Observation", url.Values{"subject": {subject}, "code": {constvars.LoincBloodPressurePanel}, "_count": {"100"}}),
	}
	return summary, nil
}

func (s *Service) searchBundle(ctx context.Context, path string, params url.Values) *fhir_dto.Bundle {
	resp, err := s.client.Get(ctx, path, params)
	if err != nil {
		return &fhir_dto.Bundle{ResourceType: constvars.ResourceBundle, Type: constvars.FhirBundleTypeSearchset}
	}
	bundle, err := resp.Bundle()
	if err != nil {
		return &fhir_dto.Bundle{ResourceType: constvars.ResourceBundle, Type: constvars.FhirBundleTypeSearchset}
	}
	return bundle
}

func bundleTotal(bundle *fhir_dto.Bundle) int {
	if bundle.Total != nil {
		return *bundle.Total
	}
	return len(bundle.Entry)
}

func referenceID(reference string) string {
	parts := strings.Split(reference, "/")
	if len(parts) >= 2 && parts[len(parts)-1] != "" {
		return parts[len(parts)-1]
	}
	return ""
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
