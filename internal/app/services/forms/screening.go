package forms

import (
	"context"
	"eyebench/internal/pkg/constvars"
	"eyebench/internal/pkg/fhir_dto"
	"math/rand"

	"github.com/icrowley/fake"
)

var (
	allergySubstances  = []string{"Penicillin", "Dust", "Pollen", "Latex", "Aspirin"}
	systemicIllnesses  = []string{"Hypertension", "Diabetes Mellitus", "Asthma", "Hypothyroidism"}
	ocularIllnesses    = []string{"Cataract", "Glaucoma", "Refractive Error", "Dry Eye"}
	educationLevels    = []string{"Primary", "Secondary", "Graduate", "Postgraduate", "Vocational"}
	travelTimes        = []string{"15 minutes", "30 minutes", "45 minutes", "1 hour"}
	bloodSugarFindings = []string{"Normal", "High", "Low"}
	ecgFindings        = []string{"Normal", "Abnormal"}
)

func categoryCoding(code string) []fhir_dto.CodeableConcept {
	return []fhir_dto.CodeableConcept{
		{Coding: []fhir_dto.Coding{{System: constvars.FhirSystemObservationCat, Code: code}}},
	}
}

// CreateScreeningForm records intake vitals, allergies, pre-existing
// illnesses, social history and bedside lab findings in one transaction.
func (s *Service) CreateScreeningForm(ctx context.Context, patientID, encounterID, userID string) (*fhir_dto.Bundle, error) {
	builder := &bundleBuilder{}

	qrURL := urnUUID()
	builder.add(qrURL, constvars.ResourceQuestionnaireResponse,
		newAnchorResponse(patientID, encounterID, userID, constvars.FormCodeScreening))

	screeningObs := func(codeText, category string) fhir_dto.Observation {
		return fhir_dto.Observation{
			ResourceType: constvars.ResourceObservation,
			Status:       constvars.FhirObservationStatusFinal,
			Category:     categoryCoding(category),
			Code:         fhir_dto.CodeableConcept{Text: codeText},
			Subject:      patientRef(patientID),
			Encounter:    encounterRef(encounterID),
			DerivedFrom:  []fhir_dto.Reference{{Reference: qrURL}},
			Meta:         formTag(constvars.FormCodeScreening),
		}
	}

	bp := screeningObs("Blood pressure", "vital-signs")
	bp.Component = []fhir_dto.ObservationComponent{
		{Code: fhir_dto.CodeableConcept{Text: "Systolic"}, ValueQuantity: &fhir_dto.Quantity{Value: float64(100 + rand.Intn(41)), Unit: "mmHg"}},
		{Code: fhir_dto.CodeableConcept{Text: "Diastolic"}, ValueQuantity: &fhir_dto.Quantity{Value: float64(60 + rand.Intn(31)), Unit: "mmHg"}},
	}
	bpURL := urnUUID()
	builder.add(bpURL, constvars.ResourceObservation, bp)

	spo2 := screeningObs("SpO2", "vital-signs")
	spo2.ValueQuantity = &fhir_dto.Quantity{Value: float64(95 + rand.Intn(6)), Unit: "%"}
	spo2URL := urnUUID()
	builder.add(spo2URL, constvars.ResourceObservation, spo2)

	pulse := screeningObs("Pulse rate", "vital-signs")
	pulse.ValueQuantity = &fhir_dto.Quantity{Value: float64(60 + rand.Intn(41)), Unit: "bpm"}
	pulseURL := urnUUID()
	builder.add(pulseURL, constvars.ResourceObservation, pulse)

	allergyStatus := "active"
	if rand.Intn(2) == 0 {
		allergyStatus = "inactive"
	}
	allergy := fhir_dto.AllergyIntolerance{
		ResourceType: constvars.ResourceAllergyIntolerance,
		ClinicalStatus: &fhir_dto.CodeableConcept{
			Coding: []fhir_dto.Coding{{System: constvars.FhirAllergyClinicalSystem, Code: allergyStatus}},
		},
		Code:         &fhir_dto.CodeableConcept{Text: allergySubstances[rand.Intn(len(allergySubstances))]},
		Patient:      *patientRef(patientID),
		Encounter:    encounterRef(encounterID),
		RecordedDate: nowISO(),
		Asserter:     practitionerRef(userID),
		Note:         []fhir_dto.Annotation{{Text: "from screening"}},
		Meta:         formTag(constvars.FormCodeScreening),
	}
	allergyURL := urnUUID()
	builder.add(allergyURL, constvars.ResourceAllergyIntolerance, allergy)

	var condURLs []string
	for _, illness := range []string{
		systemicIllnesses[rand.Intn(len(systemicIllnesses))],
		ocularIllnesses[rand.Intn(len(ocularIllnesses))],
	} {
		condition := fhir_dto.Condition{
			ResourceType: constvars.ResourceCondition,
			ClinicalStatus: &fhir_dto.CodeableConcept{
				Coding: []fhir_dto.Coding{{System: constvars.FhirConditionClinicalSystem, Code: constvars.FhirConditionClinicalActive}},
			},
			Code:      &fhir_dto.CodeableConcept{Text: illness},
			Category:  []fhir_dto.CodeableConcept{{Text: "Pre-existing illness"}},
			Subject:   *patientRef(patientID),
			Encounter: encounterRef(encounterID),
			Note:      []fhir_dto.Annotation{{Text: "timing: previous"}},
			Evidence: []fhir_dto.ConditionEvidence{
				{Detail: []fhir_dto.Reference{{Reference: qrURL}}},
			},
			Meta: formTag(constvars.FormCodeScreening),
		}
		condURL := urnUUID()
		condURLs = append(condURLs, condURL)
		builder.add(condURL, constvars.ResourceCondition, condition)
	}

	education := fhir_dto.Communication{
		ResourceType: constvars.ResourceCommunication,
		Status:       constvars.FhirCommunicationCompleted,
		Subject:      patientRef(patientID),
		Encounter:    encounterRef(encounterID),
		Payload:      []fhir_dto.CommunicationPayload{{ContentString: educationLevels[rand.Intn(len(educationLevels))]}},
		Sent:         nowISO(),
		Meta:         formTag(constvars.FormCodeScreening),
		BasedOn:      []fhir_dto.Reference{{Reference: qrURL}},
		Sender:       practitionerRef(userID),
	}
	educationURL := urnUUID()
	builder.add(educationURL, constvars.ResourceCommunication, education)

	travel := screeningObs("Travel time", "social-history")
	travel.ValueString = travelTimes[rand.Intn(len(travelTimes))]
	travelURL := urnUUID()
	builder.add(travelURL, constvars.ResourceObservation, travel)

	occupation := screeningObs("Occupation", "social-history")
	occupation.ValueString = fake.JobTitle()
	occupationURL := urnUUID()
	builder.add(occupationURL, constvars.ResourceObservation, occupation)

	bloodSugar := screeningObs("Blood Sugar", "laboratory")
	bloodSugar.ValueCodeableConcept = &fhir_dto.CodeableConcept{Text: bloodSugarFindings[rand.Intn(len(bloodSugarFindings))]}
	bloodSugarURL := urnUUID()
	builder.add(bloodSugarURL, constvars.ResourceObservation, bloodSugar)

	ecg := screeningObs("ECG", "laboratory")
	ecg.ValueCodeableConcept = &fhir_dto.CodeableConcept{Text: ecgFindings[rand.Intn(len(ecgFindings))]}
	ecgURL := urnUUID()
	builder.add(ecgURL, constvars.ResourceObservation, ecg)

	itemRefs := append([]string{qrURL, bpURL, spo2URL, pulseURL, allergyURL, educationURL, travelURL, occupationURL, bloodSugarURL, ecgURL}, condURLs...)
	builder.add(urnUUID(), constvars.ResourceList,
		newFormList("Screening Form", constvars.FormCodeScreening, patientID, encounterID, "", itemRefs))

	return s.submit(ctx, builder, constvars.FormCodeScreening)
}

func (s *Service) FetchScreening(ctx context.Context, patientID, encounterID string) (*fhir_dto.Bundle, error) {
	return s.fetchForm(ctx, patientID, encounterID, constvars.FormCodeScreening,
		[]string{
			constvars.ResourceQuestionnaireResponse,
			constvars.ResourceObservation,
			constvars.ResourceCondition,
			constvars.ResourceAllergyIntolerance,
			constvars.ResourceCommunication,
		}, 50, 50)
}
