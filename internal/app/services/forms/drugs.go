package forms

import (
	"context"
	"eyebench/internal/pkg/constvars"
	"eyebench/internal/pkg/fhir_dto"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/icrowley/fake"
)

var drugFrequencies = []string{"1-0-1", "1-1-1", "0-0-1", "1-0-0"}

// CreateDrugPrescriptionForm writes a full outpatient prescription: the
// diagnosis as a Condition, the doctor's advice as a Communication, an
// investigation and a follow-up ServiceRequest, and the medication order
// itself.
func (s *Service) CreateDrugPrescriptionForm(ctx context.Context, patientID, encounterID, userID string) (*fhir_dto.Bundle, error) {
	builder := &bundleBuilder{}

	requester := practitionerRef(userID)
	start := time.Now().UTC().Truncate(time.Second)
	stop := start.Add(7 * 24 * time.Hour)

	qrURL := urnUUID()
	builder.add(qrURL, constvars.ResourceQuestionnaireResponse,
		newAnchorResponse(patientID, encounterID, userID, constvars.FormCodeDrugs))

	condition := fhir_dto.Condition{
		ResourceType: constvars.ResourceCondition,
		ClinicalStatus: &fhir_dto.CodeableConcept{
			Coding: []fhir_dto.Coding{{System: constvars.FhirConditionClinicalSystem, Code: constvars.FhirConditionClinicalActive}},
		},
		Code:      &fhir_dto.CodeableConcept{Text: strings.Join([]string{fake.Word(), fake.Word(), fake.Word()}, " ")},
		BodySite:  []fhir_dto.CodeableConcept{{Text: "Right eye"}},
		Subject:   *patientRef(patientID),
		Encounter: encounterRef(encounterID),
		Evidence:  []fhir_dto.ConditionEvidence{{Detail: []fhir_dto.Reference{{Reference: qrURL}}}},
		Meta:      formTag(constvars.FormCodeDrugs),
	}
	conditionURL := urnUUID()
	builder.add(conditionURL, constvars.ResourceCondition, condition)

	advice := fhir_dto.Communication{
		ResourceType:          constvars.ResourceCommunication,
		Status:                constvars.FhirCommunicationCompleted,
		Subject:               patientRef(patientID),
		Encounter:             encounterRef(encounterID),
		Payload:               []fhir_dto.CommunicationPayload{{ContentString: fake.Sentence()}},
		Sent:                  nowISO(),
		Meta:                  formTag(constvars.FormCodeDrugs),
		SupportingInformation: []fhir_dto.Reference{{Reference: qrURL}},
		Sender:                requester,
	}
	adviceURL := urnUUID()
	builder.add(adviceURL, constvars.ResourceCommunication, advice)

	investigation := fhir_dto.ServiceRequest{
		ResourceType:   constvars.ResourceServiceRequest,
		Status:         constvars.FhirRequestStatusActive,
		Intent:         constvars.FhirRequestIntentOrder,
		Code:           &fhir_dto.CodeableConcept{Text: "INVESTIGATION"},
		Subject:        patientRef(patientID),
		Encounter:      encounterRef(encounterID),
		ReasonCode:     []fhir_dto.CodeableConcept{{Text: "Both eyes"}},
		Note:           []fhir_dto.Annotation{{Text: "Dilated fundus exam"}},
		AuthoredOn:     nowISO(),
		Meta:           formTag(constvars.FormCodeDrugs),
		SupportingInfo: []fhir_dto.Reference{{Reference: qrURL}},
		Requester:      requester,
	}
	investigationURL := urnUUID()
	builder.add(investigationURL, constvars.ResourceServiceRequest, investigation)

	followUp := fhir_dto.ServiceRequest{
		ResourceType:       constvars.ResourceServiceRequest,
		Status:             constvars.FhirRequestStatusActive,
		Intent:             constvars.FhirRequestIntentPlan,
		Code:               &fhir_dto.CodeableConcept{Text: "FOLLOW UP"},
		OccurrenceDateTime: stop.Format(time.RFC3339),
		Subject:            patientRef(patientID),
		Encounter:          encounterRef(encounterID),
		Note:               []fhir_dto.Annotation{{Text: "Review after a week"}},
		AuthoredOn:         nowISO(),
		Meta:               formTag(constvars.FormCodeDrugs),
		SupportingInfo:     []fhir_dto.Reference{{Reference: qrURL}},
		Requester:          requester,
	}
	followUpURL := urnUUID()
	builder.add(followUpURL, constvars.ResourceServiceRequest, followUp)

	drug := fake.Word()
	drug = strings.ToUpper(drug[:1]) + drug[1:]
	packs := fmt.Sprintf("%d pack", 1+rand.Intn(3))
	medication := fhir_dto.MedicationRequest{
		ResourceType:              constvars.ResourceMedicationRequest,
		Status:                    constvars.FhirRequestStatusActive,
		Intent:                    constvars.FhirRequestIntentOrder,
		Priority:                  "routine",
		MedicationCodeableConcept: &fhir_dto.CodeableConcept{Text: drug},
		Subject:                   patientRef(patientID),
		Encounter:                 encounterRef(encounterID),
		AuthoredOn:                nowISO(),
		Requester:                 requester,
		ReasonReference:           []fhir_dto.Reference{{Reference: conditionURL}},
		DosageInstruction: []fhir_dto.Dosage{{
			Text:                  "1 tablet",
			PatientInstruction:    packs,
			AdditionalInstruction: []fhir_dto.CodeableConcept{{Text: packs}},
			Timing: &fhir_dto.Timing{
				Code: &fhir_dto.CodeableConcept{Text: drugFrequencies[rand.Intn(len(drugFrequencies))]},
				Repeat: &fhir_dto.TimingRepeat{
					BoundsPeriod: &fhir_dto.Period{Start: start.Format(time.RFC3339), End: stop.Format(time.RFC3339)},
				},
			},
			Site: &fhir_dto.CodeableConcept{Text: "Right eye"},
		}},
		Meta:                  formTag(constvars.FormCodeDrugs),
		SupportingInformation: []fhir_dto.Reference{{Reference: qrURL}},
	}
	medicationURL := urnUUID()
	builder.add(medicationURL, constvars.ResourceMedicationRequest, medication)

	builder.add(urnUUID(), constvars.ResourceList,
		newFormList("Drug Prescription Form", constvars.FormCodeDrugs, patientID, encounterID, "",
			[]string{qrURL, conditionURL, adviceURL, investigationURL, followUpURL, medicationURL}))

	return s.submit(ctx, builder, constvars.FormCodeDrugs)
}

func (s *Service) FetchDrugPrescription(ctx context.Context, patientID, encounterID string) (*fhir_dto.Bundle, error) {
	return s.fetchForm(ctx, patientID, encounterID, constvars.FormCodeDrugs,
		[]string{
			constvars.ResourceQuestionnaireResponse,
			constvars.ResourceCondition,
			constvars.ResourceCommunication,
			constvars.ResourceServiceRequest,
			constvars.ResourceMedicationRequest,
		}, 200, 200)
}
