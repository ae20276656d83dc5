package forms

import (
	"context"
	"eyebench/internal/pkg/constvars"
	"eyebench/internal/pkg/fhir_dto"

	"github.com/icrowley/fake"
)

// CreateReferralForm refers the patient to an external provider as a
// ServiceRequest in the referral service category.
func (s *Service) CreateReferralForm(ctx context.Context, patientID, encounterID, userID string) (*fhir_dto.Bundle, error) {
	builder := &bundleBuilder{}

	qrURL := urnUUID()
	builder.add(qrURL, constvars.ResourceQuestionnaireResponse,
		newAnchorResponse(patientID, encounterID, userID, constvars.FormCodeReferral))

	referral := fhir_dto.ServiceRequest{
		ResourceType: constvars.ResourceServiceRequest,
		Status:       constvars.FhirRequestStatusActive,
		Intent:       constvars.FhirRequestIntentOrder,
		Category: []fhir_dto.CodeableConcept{
			{Coding: []fhir_dto.Coding{{System: constvars.FhirSystemServiceCategory, Code: "referral"}}},
		},
		Code:           &fhir_dto.CodeableConcept{Text: "REFERRAL"},
		Subject:        patientRef(patientID),
		Encounter:      encounterRef(encounterID),
		AuthoredOn:     nowISO(),
		ReasonCode:     []fhir_dto.CodeableConcept{{Text: fake.Sentence()}},
		Note:           []fhir_dto.Annotation{{Text: "Referred to: " + fake.Company()}},
		Meta:           formTag(constvars.FormCodeReferral),
		SupportingInfo: []fhir_dto.Reference{{Reference: qrURL}},
		Requester:      practitionerRef(userID),
	}
	referralURL := urnUUID()
	builder.add(referralURL, constvars.ResourceServiceRequest, referral)

	builder.add(urnUUID(), constvars.ResourceList,
		newFormList("Referral Form", constvars.FormCodeReferral, patientID, encounterID, "", []string{qrURL, referralURL}))

	return s.submit(ctx, builder, constvars.FormCodeReferral)
}

func (s *Service) FetchReferral(ctx context.Context, patientID, encounterID string) (*fhir_dto.Bundle, error) {
	return s.fetchForm(ctx, patientID, encounterID, constvars.FormCodeReferral,
		[]string{constvars.ResourceQuestionnaireResponse, constvars.ResourceServiceRequest}, 200, 100)
}
