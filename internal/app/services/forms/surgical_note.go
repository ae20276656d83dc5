package forms

import (
	"context"
	"eyebench/internal/pkg/constvars"
	"eyebench/internal/pkg/fhir_dto"
	"fmt"
	"math/rand"
	"time"

	"github.com/icrowley/fake"
)

// CreateSurgicalNotesForm documents a completed surgery: the Procedure
// with its implant Device, the pre-op lab report, the operative diagnosis
// and a discharge summary Composition.
func (s *Service) CreateSurgicalNotesForm(ctx context.Context, patientID, encounterID, userID string) (*fhir_dto.Bundle, error) {
	builder := &bundleBuilder{}

	surgeon := practitionerRef(userID)
	start := time.Now().UTC().Truncate(time.Second)
	end := start.Add(2 * time.Hour)

	qrURL := urnUUID()
	builder.add(qrURL, constvars.ResourceQuestionnaireResponse,
		newAnchorResponse(patientID, encounterID, userID, constvars.FormCodeSurgicalNote))

	report := fhir_dto.DiagnosticReport{
		ResourceType: constvars.ResourceDiagnosticReport,
		Status:       constvars.FhirObservationStatusFinal,
		Category: []fhir_dto.CodeableConcept{
			{Coding: []fhir_dto.Coding{{System: constvars.FhirSystemDiagnosticService, Code: "LAB"}}},
		},
		Code:              fhir_dto.CodeableConcept{Text: "Pre-op investigations"},
		Subject:           patientRef(patientID),
		Encounter:         encounterRef(encounterID),
		EffectiveDateTime: nowISO(),
		Conclusion:        "Blood tests within normal limits",
		Meta:              formTag(constvars.FormCodeSurgicalNote),
	}
	reportURL := urnUUID()

	procedure := fhir_dto.Procedure{
		ResourceType:    constvars.ResourceProcedure,
		Status:          "completed",
		Code:            &fhir_dto.CodeableConcept{Text: "Cataract Surgery"},
		Subject:         *patientRef(patientID),
		Encounter:       encounterRef(encounterID),
		PerformedPeriod: &fhir_dto.Period{Start: start.Format(time.RFC3339), End: end.Format(time.RFC3339)},
		ReasonCode:      []fhir_dto.CodeableConcept{{Text: "Blurry vision"}},
		BodySite: []fhir_dto.CodeableConcept{{
			Coding: []fhir_dto.Coding{{System: constvars.FhirSystemSNOMED, Code: constvars.SnomedRightEye}},
			Text:   "Right Eye",
		}},
		Report:       []fhir_dto.Reference{{Reference: reportURL}},
		Complication: []fhir_dto.CodeableConcept{{Text: "None"}},
		Outcome:      &fhir_dto.CodeableConcept{Text: "Stable"},
		Note:         []fhir_dto.Annotation{{Text: fake.Sentence()}},
		Meta:         formTag(constvars.FormCodeSurgicalNote),
	}
	if surgeon != nil {
		procedure.Performer = []fhir_dto.ProcedurePerformer{{
			Function: &fhir_dto.CodeableConcept{Text: "Surgeon"},
			Actor:    *surgeon,
		}}
	}
	procedureURL := urnUUID()
	builder.add(procedureURL, constvars.ResourceProcedure, procedure)

	implant := fhir_dto.Device{
		ResourceType:       constvars.ResourceDevice,
		Status:             "active",
		DeviceName:         []fhir_dto.DeviceName{{Name: "IOL", Type: "manufacturer-name"}},
		Type:               &fhir_dto.CodeableConcept{Text: "Acrylic"},
		DistinctIdentifier: fmt.Sprintf("SN-%04d-%04d", rand.Intn(10000), rand.Intn(10000)),
		Meta:               formTag(constvars.FormCodeSurgicalNote),
	}
	implantURL := urnUUID()
	builder.add(implantURL, constvars.ResourceDevice, implant)

	builder.add(reportURL, constvars.ResourceDiagnosticReport, report)

	diagnosis := fhir_dto.Condition{
		ResourceType: constvars.ResourceCondition,
		ClinicalStatus: &fhir_dto.CodeableConcept{
			Coding: []fhir_dto.Coding{{System: constvars.FhirConditionClinicalSystem, Code: constvars.FhirConditionClinicalActive}},
		},
		Code:      &fhir_dto.CodeableConcept{Text: "Cataract"},
		Subject:   *patientRef(patientID),
		Encounter: encounterRef(encounterID),
		Evidence:  []fhir_dto.ConditionEvidence{{Detail: []fhir_dto.Reference{{Reference: qrURL}}}},
		Meta:      formTag(constvars.FormCodeSurgicalNote),
	}
	diagnosisURL := urnUUID()
	builder.add(diagnosisURL, constvars.ResourceCondition, diagnosis)

	summary := fhir_dto.Composition{
		ResourceType: constvars.ResourceComposition,
		Status:       constvars.FhirObservationStatusFinal,
		Type:         &fhir_dto.CodeableConcept{Text: "Discharge summary"},
		Date:         nowISO(),
		Title:        "Surgical Discharge Summary",
		Subject:      patientRef(patientID),
		Encounter:    encounterRef(encounterID),
		Section: []fhir_dto.CompositionSection{{
			Title: "Summary",
			Text:  &fhir_dto.Narrative{Status: "generated", Div: "<div>Discharged in stable condition</div>"},
		}},
		Meta: formTag(constvars.FormCodeSurgicalNote),
	}
	if surgeon != nil {
		summary.Author = []fhir_dto.Reference{*surgeon}
	}
	summaryURL := urnUUID()
	builder.add(summaryURL, constvars.ResourceComposition, summary)

	builder.add(urnUUID(), constvars.ResourceList,
		newFormList("Surgical Notes Form", constvars.FormCodeSurgicalNote, patientID, encounterID, "",
			[]string{qrURL, procedureURL, implantURL, reportURL, diagnosisURL, summaryURL}))

	return s.submit(ctx, builder, constvars.FormCodeSurgicalNote)
}

func (s *Service) FetchSurgicalNotes(ctx context.Context, patientID, encounterID string) (*fhir_dto.Bundle, error) {
	return s.fetchForm(ctx, patientID, encounterID, constvars.FormCodeSurgicalNote,
		[]string{
			constvars.ResourceQuestionnaireResponse,
			constvars.ResourceProcedure,
			constvars.ResourceDevice,
			constvars.ResourceDiagnosticReport,
			constvars.ResourceCondition,
			constvars.ResourceComposition,
		}, 200, 200)
}
