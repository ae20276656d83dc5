package forms

import (
	"context"
	"eyebench/internal/pkg/constvars"
	"eyebench/internal/pkg/fhir_dto"
	"math/rand"
)

// Slit-lamp and fundus exams share one shape: a coded finding per examined
// structure per eye.

type examinedStructure struct {
	systemText string
	systemCode string
	bodyText   string
	bodyCode   string
}

var segmentFindings = []string{
	"Normal",
	"Mild hyperemia",
	"Clear",
	"Pigmented",
	"Deep and quiet",
	"Shallow",
	"Cells and flare present",
}

var anteriorStructures = []examinedStructure{
	{"Structure of right eyelid", "721066003", "Right Eye", constvars.SnomedRightEye},
	{"Structure of left eyelid", "721065004", "Left Eye", constvars.SnomedLeftEye},
	{"Structure of conjunctiva of right eye", "13014005", "Right Eye", constvars.SnomedRightEye},
	{"Structure of conjunctiva of left eye", "67548002", "Left Eye", constvars.SnomedLeftEye},
	{"Entire cornea of right eye", "368573002", "Right Eye", constvars.SnomedRightEye},
	{"Entire cornea of left eye", "368595003", "Left Eye", constvars.SnomedLeftEye},
	{"Structure of anterior chamber of right eye", "721987006", "Right Eye", constvars.SnomedRightEye},
	{"Structure of anterior chamber of left eye", "721986002", "Left Eye", constvars.SnomedLeftEye},
}

var posteriorStructures = []examinedStructure{
	{"Structure of fundus of right eye", "723298005", "Right Eye", constvars.SnomedRightEye},
	{"Structure of fundus of left eye", "723299002", "Left Eye", constvars.SnomedLeftEye},
	{"Structure of macula lutea of right eye", "721945009", "Right Eye", constvars.SnomedRightEye},
	{"Structure of macula lutea of left eye", "721947001", "Left Eye", constvars.SnomedLeftEye},
	{"Structure of right optic disc", "721900005", "Right Eye", constvars.SnomedRightEye},
	{"Structure of left optic disc", "721899000", "Left Eye", constvars.SnomedLeftEye},
	{"Vitreous body structure of right eye", "721959002", "Right Eye", constvars.SnomedRightEye},
	{"Vitreous body structure of left eye", "721960007", "Left Eye", constvars.SnomedLeftEye},
}

func (s *Service) createSegmentExamForm(ctx context.Context, formCodeValue, title, category string, structures []examinedStructure, patientID, encounterID, userID string) (*fhir_dto.Bundle, error) {
	builder := &bundleBuilder{}

	qrURL := urnUUID()
	builder.add(qrURL, constvars.ResourceQuestionnaireResponse,
		newAnchorResponse(patientID, encounterID, userID, formCodeValue))

	performer := practitionerRef(userID)
	itemRefs := []string{qrURL}
	for _, structure := range structures {
		obs := fhir_dto.Observation{
			ResourceType: constvars.ResourceObservation,
			Status:       constvars.FhirObservationStatusFinal,
			Category: []fhir_dto.CodeableConcept{
				{Coding: []fhir_dto.Coding{{System: constvars.MedblocksObservationCategorySystem, Code: category}}},
			},
			Code: fhir_dto.CodeableConcept{
				Coding: []fhir_dto.Coding{{System: constvars.FhirSystemSNOMED, Code: structure.systemCode}},
				Text:   structure.systemText,
			},
			Subject:   patientRef(patientID),
			Encounter: encounterRef(encounterID),
			BodySite: &fhir_dto.CodeableConcept{
				Coding: []fhir_dto.Coding{{System: constvars.FhirSystemSNOMED, Code: structure.bodyCode}},
				Text:   structure.bodyText,
			},
			ValueCodeableConcept: &fhir_dto.CodeableConcept{Text: segmentFindings[rand.Intn(len(segmentFindings))]},
			DerivedFrom:          []fhir_dto.Reference{{Reference: qrURL}},
			Meta:                 formTag(formCodeValue),
		}
		if performer != nil {
			obs.Performer = []fhir_dto.Reference{*performer}
		}
		obsURL := urnUUID()
		itemRefs = append(itemRefs, obsURL)
		builder.add(obsURL, constvars.ResourceObservation, obs)
	}

	builder.add(urnUUID(), constvars.ResourceList,
		newFormList(title, formCodeValue, patientID, encounterID, "", itemRefs))

	return s.submit(ctx, builder, formCodeValue)
}

// CreateAnteriorChamberForm records slit-lamp findings for the anterior
// segment structures of both eyes.
func (s *Service) CreateAnteriorChamberForm(ctx context.Context, patientID, encounterID, userID string) (*fhir_dto.Bundle, error) {
	return s.createSegmentExamForm(ctx, constvars.FormCodeAnterior, "Anterior Chamber Form", "anterior-segment",
		anteriorStructures, patientID, encounterID, userID)
}

func (s *Service) FetchAnteriorChamber(ctx context.Context, patientID, encounterID string) (*fhir_dto.Bundle, error) {
	return s.fetchForm(ctx, patientID, encounterID, constvars.FormCodeAnterior,
		[]string{constvars.ResourceQuestionnaireResponse, constvars.ResourceObservation}, 200, 200)
}

// CreatePosteriorChamberForm records fundus findings for the posterior
// segment structures of both eyes.
func (s *Service) CreatePosteriorChamberForm(ctx context.Context, patientID, encounterID, userID string) (*fhir_dto.Bundle, error) {
	return s.createSegmentExamForm(ctx, constvars.FormCodePosterior, "Posterior Chamber Form", "posterior-segment",
		posteriorStructures, patientID, encounterID, userID)
}

func (s *Service) FetchPosteriorChamber(ctx context.Context, patientID, encounterID string) (*fhir_dto.Bundle, error) {
	return s.fetchForm(ctx, patientID, encounterID, constvars.FormCodePosterior,
		[]string{constvars.ResourceQuestionnaireResponse, constvars.ResourceObservation}, 200, 200)
}
