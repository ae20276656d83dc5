package forms

import (
	"context"
	"eyebench/internal/pkg/constvars"
	"eyebench/internal/pkg/fhir_dto"
	"fmt"
	"math/rand"
)

var complaintSymptoms = []string{"Blurred vision", "Eye pain", "Headache", "Photophobia", "Redness"}

var eyeSides = []string{"Right Eye", "Left Eye", "Both Eyes"}

// CreateComplaintsForm records one to three presenting complaints as
// Conditions derived from the anchor QuestionnaireResponse.
func (s *Service) CreateComplaintsForm(ctx context.Context, patientID, encounterID, userID string) (*fhir_dto.Bundle, error) {
	builder := &bundleBuilder{}

	qrURL := urnUUID()
	builder.add(qrURL, constvars.ResourceQuestionnaireResponse, newAnchorResponse(patientID, encounterID, userID, constvars.FormCodeComplaints))

	itemRefs := []string{qrURL}
	for i := 0; i < 1+rand.Intn(3); i++ {
		condition := fhir_dto.Condition{
			ResourceType: constvars.ResourceCondition,
			ClinicalStatus: &fhir_dto.CodeableConcept{
				Coding: []fhir_dto.Coding{{System: constvars.FhirConditionClinicalSystem, Code: constvars.FhirConditionClinicalActive}},
			},
			Category: []fhir_dto.CodeableConcept{
				{Coding: []fhir_dto.Coding{{System: constvars.FhirConditionCategorySystem, Code: "complaint"}}},
			},
			Code:      &fhir_dto.CodeableConcept{Text: complaintSymptoms[rand.Intn(len(complaintSymptoms))]},
			Subject:   *patientRef(patientID),
			Encounter: encounterRef(encounterID),
			Note: []fhir_dto.Annotation{
				{Text: fmt.Sprintf("Duration (days): %d", 1+rand.Intn(30))},
			},
			Meta:     formTag(constvars.FormCodeComplaints),
			Asserter: practitionerRef(userID),
			Evidence: []fhir_dto.ConditionEvidence{
				{Detail: []fhir_dto.Reference{{Reference: qrURL}}},
			},
		}
		if rand.Intn(2) == 0 {
			condition.BodySite = []fhir_dto.CodeableConcept{*bodySiteEye(eyeSides[rand.Intn(len(eyeSides))])}
		}
		condURL := urnUUID()
		itemRefs = append(itemRefs, condURL)
		builder.add(condURL, constvars.ResourceCondition, condition)
	}

	builder.add(urnUUID(), constvars.ResourceList,
		newFormList("Complaints Form", constvars.FormCodeComplaints, patientID, encounterID, userID, itemRefs))

	return s.submit(ctx, builder, constvars.FormCodeComplaints)
}

// FetchComplaints reads the complaints form back, falling back to tag
// searches over its member resource types.
func (s *Service) FetchComplaints(ctx context.Context, patientID, encounterID string) (*fhir_dto.Bundle, error) {
	return s.fetchForm(ctx, patientID, encounterID, constvars.FormCodeComplaints,
		[]string{constvars.ResourceQuestionnaireResponse, constvars.ResourceCondition}, 200, 200)
}
