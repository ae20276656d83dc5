package forms

import (
	"context"
	"eyebench/internal/pkg/constvars"
	"eyebench/internal/pkg/fhir_dto"

	"github.com/icrowley/fake"
)

// CreateFreeTextForm stores an unstructured clinical note as a
// Communication.
func (s *Service) CreateFreeTextForm(ctx context.Context, patientID, encounterID, userID string) (*fhir_dto.Bundle, error) {
	builder := &bundleBuilder{}

	qrURL := urnUUID()
	builder.add(qrURL, constvars.ResourceQuestionnaireResponse,
		newAnchorResponse(patientID, encounterID, userID, constvars.FormCodeFreeText))

	note := fhir_dto.Communication{
		ResourceType: constvars.ResourceCommunication,
		Status:       constvars.FhirCommunicationCompleted,
		Subject:      patientRef(patientID),
		Encounter:    encounterRef(encounterID),
		Payload:      []fhir_dto.CommunicationPayload{{ContentString: fake.Paragraph()}},
		Sent:         nowISO(),
		Meta:         formTag(constvars.FormCodeFreeText),
		BasedOn:      []fhir_dto.Reference{{Reference: qrURL}},
		Sender:       practitionerRef(userID),
	}
	noteURL := urnUUID()
	builder.add(noteURL, constvars.ResourceCommunication, note)

	builder.add(urnUUID(), constvars.ResourceList,
		newFormList("Free Text Form", constvars.FormCodeFreeText, patientID, encounterID, "", []string{qrURL, noteURL}))

	return s.submit(ctx, builder, constvars.FormCodeFreeText)
}

func (s *Service) FetchFreeText(ctx context.Context, patientID, encounterID string) (*fhir_dto.Bundle, error) {
	return s.fetchForm(ctx, patientID, encounterID, constvars.FormCodeFreeText,
		[]string{constvars.ResourceQuestionnaireResponse, constvars.ResourceCommunication}, 200, 100)
}
