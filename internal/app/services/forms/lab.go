package forms

import (
	"context"
	"eyebench/internal/pkg/constvars"
	"eyebench/internal/pkg/fhir_dto"
	"math/rand"
)

var (
	biochemAnalytes  = []string{"Glucose (Fasting)", "Glucose (PP)", "HbA1c"}
	biochemResults   = []string{"Normal", "High", "Low"}
	serologyMethods  = []string{"HIV", "HBsAg", "HCV"}
	serologyFindings = []string{"Reactive", "Non-reactive"}
)

// CreateLabForm records a biochemistry analyte and a serology result with a
// DiagnosticReport tying them together.
func (s *Service) CreateLabForm(ctx context.Context, patientID, encounterID, userID string) (*fhir_dto.Bundle, error) {
	builder := &bundleBuilder{}

	qrURL := urnUUID()
	builder.add(qrURL, constvars.ResourceQuestionnaireResponse,
		newAnchorResponse(patientID, encounterID, userID, constvars.FormCodeLab))

	performer := practitionerRef(userID)
	labObs := func(codeText, resultText string) fhir_dto.Observation {
		obs := fhir_dto.Observation{
			ResourceType:         constvars.ResourceObservation,
			Status:               constvars.FhirObservationStatusFinal,
			Category:             categoryCoding("laboratory"),
			Code:                 fhir_dto.CodeableConcept{Text: codeText},
			Subject:              patientRef(patientID),
			Encounter:            encounterRef(encounterID),
			ValueCodeableConcept: &fhir_dto.CodeableConcept{Text: resultText},
			DerivedFrom:          []fhir_dto.Reference{{Reference: qrURL}},
			Meta:                 formTag(constvars.FormCodeLab),
		}
		if performer != nil {
			obs.Performer = []fhir_dto.Reference{*performer}
		}
		return obs
	}

	biochemURL := urnUUID()
	builder.add(biochemURL, constvars.ResourceObservation,
		labObs(biochemAnalytes[rand.Intn(len(biochemAnalytes))], biochemResults[rand.Intn(len(biochemResults))]))

	serologyURL := urnUUID()
	builder.add(serologyURL, constvars.ResourceObservation,
		labObs(serologyMethods[rand.Intn(len(serologyMethods))], serologyFindings[rand.Intn(len(serologyFindings))]))

	report := fhir_dto.DiagnosticReport{
		ResourceType: constvars.ResourceDiagnosticReport,
		Status:       constvars.FhirObservationStatusFinal,
		Category: []fhir_dto.CodeableConcept{
			{Coding: []fhir_dto.Coding{{System: constvars.FhirSystemDiagnosticService, Code: "LAB"}}},
		},
		Code:              fhir_dto.CodeableConcept{Text: "Laboratory report"},
		Subject:           patientRef(patientID),
		Encounter:         encounterRef(encounterID),
		EffectiveDateTime: nowISO(),
		Issued:            nowISO(),
		Result: []fhir_dto.Reference{
			{Reference: biochemURL},
			{Reference: serologyURL},
		},
		Meta: formTag(constvars.FormCodeLab),
	}
	reportURL := urnUUID()
	builder.add(reportURL, constvars.ResourceDiagnosticReport, report)

	builder.add(urnUUID(), constvars.ResourceList,
		newFormList("Lab Form", constvars.FormCodeLab, patientID, encounterID, "",
			[]string{qrURL, reportURL, biochemURL, serologyURL}))

	return s.submit(ctx, builder, constvars.FormCodeLab)
}

func (s *Service) FetchLab(ctx context.Context, patientID, encounterID string) (*fhir_dto.Bundle, error) {
	return s.fetchForm(ctx, patientID, encounterID, constvars.FormCodeLab,
		[]string{constvars.ResourceQuestionnaireResponse, constvars.ResourceObservation, constvars.ResourceDiagnosticReport}, 50, 50)
}
