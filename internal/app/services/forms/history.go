package forms

import (
	"context"
	"eyebench/internal/pkg/constvars"
	"eyebench/internal/pkg/fhir_dto"

	"github.com/icrowley/fake"
)

// CreateHistoryForm records one past procedure and one past diagnosis from
// the treatment history interview.
func (s *Service) CreateHistoryForm(ctx context.Context, patientID, encounterID, userID string) (*fhir_dto.Bundle, error) {
	builder := &bundleBuilder{}

	const (
		qrURL   = "urn:uuid:qr-history"
		procURL = "urn:uuid:proc-history"
		condURL = "urn:uuid:cond-history"
	)

	builder.add(qrURL, constvars.ResourceQuestionnaireResponse,
		newAnchorResponse(patientID, encounterID, userID, constvars.FormCodeHistory))

	procedure := fhir_dto.Procedure{
		ResourceType:      constvars.ResourceProcedure,
		Status:            "completed",
		Code:              &fhir_dto.CodeableConcept{Text: fake.Word()},
		Category:          &fhir_dto.CodeableConcept{Text: "Past Procedure from Treatment History"},
		Subject:           *patientRef(patientID),
		Encounter:         encounterRef(encounterID),
		PerformedDateTime: nowISO(),
		Meta:              formTag(constvars.FormCodeHistory),
	}
	if ref := practitionerRef(userID); ref != nil {
		procedure.Performer = []fhir_dto.ProcedurePerformer{{Actor: *ref}}
	}
	builder.add(procURL, constvars.ResourceProcedure, procedure)

	condition := fhir_dto.Condition{
		ResourceType: constvars.ResourceCondition,
		ClinicalStatus: &fhir_dto.CodeableConcept{
			Coding: []fhir_dto.Coding{{System: constvars.FhirConditionClinicalSystem, Code: constvars.FhirConditionClinicalActive}},
		},
		Code:      &fhir_dto.CodeableConcept{Text: fake.Word()},
		Category:  []fhir_dto.CodeableConcept{{Text: "Past Diagnosis from Treatment History"}},
		Subject:   *patientRef(patientID),
		Encounter: encounterRef(encounterID),
		Evidence: []fhir_dto.ConditionEvidence{
			{Detail: []fhir_dto.Reference{{Reference: qrURL}}},
		},
		Meta:     formTag(constvars.FormCodeHistory),
		Asserter: practitionerRef(userID),
	}
	builder.add(condURL, constvars.ResourceCondition, condition)

	list := newFormList("Treatment History Form", constvars.FormCodeHistory, patientID, encounterID, "",
		[]string{qrURL, procURL, condURL})
	builder.add("urn:uuid:list-history", constvars.ResourceList, list)

	return s.submit(ctx, builder, constvars.FormCodeHistory)
}

func (s *Service) FetchHistory(ctx context.Context, patientID, encounterID string) (*fhir_dto.Bundle, error) {
	return s.fetchForm(ctx, patientID, encounterID, constvars.FormCodeHistory,
		[]string{constvars.ResourceQuestionnaireResponse, constvars.ResourceProcedure, constvars.ResourceCondition}, 200, 100)
}
