package forms

import (
	"context"
	"eyebench/internal/pkg/constvars"
	"eyebench/internal/pkg/fhir_dto"
	"math"
	"math/rand"
)

const (
	iopMethodNonContact = "Non-contact tonometry"
	iopMethodTonoPen    = "Tono-Pen"
	iopMethodICare      = "Icare (Rebound)"

	examCodeDynamicContour = "at0051"
	examTextDynamicContour = "Dynamic Contour"
	examCodeGoldmann       = "at0047"
	examTextGoldmann       = "Goldmann"
)

var ductStatuses = []string{"Patent", "Stenosed", "Blocked"}

func iopCategory() []fhir_dto.CodeableConcept {
	return []fhir_dto.CodeableConcept{
		{Coding: []fhir_dto.Coding{{System: constvars.MedblocksObservationCategorySystem, Code: "iop"}}},
	}
}

func eyeBodySite(eye, snomedCode string) *fhir_dto.CodeableConcept {
	return &fhir_dto.CodeableConcept{
		Coding: []fhir_dto.Coding{{System: constvars.FhirSystemSNOMED, Code: snomedCode}},
		Text:   eye + " Eye",
	}
}

// CreateIOPForm measures intraocular pressure for both eyes across
// tonometry methods, plus lacrimal duct patency and central corneal
// thickness.
func (s *Service) CreateIOPForm(ctx context.Context, patientID, encounterID, userID string) (*fhir_dto.Bundle, error) {
	builder := &bundleBuilder{}

	qrURL := urnUUID()
	builder.add(qrURL, constvars.ResourceQuestionnaireResponse,
		newAnchorResponse(patientID, encounterID, userID, constvars.FormCodeIOP))

	iopObservation := func(eye, loincCode, bodySiteCode, method string) fhir_dto.Observation {
		return fhir_dto.Observation{
			ResourceType: constvars.ResourceObservation,
			Status:       constvars.FhirObservationStatusFinal,
			Category:     iopCategory(),
			Code: fhir_dto.CodeableConcept{
				Coding: []fhir_dto.Coding{{System: constvars.FhirSystemLOINC, Code: loincCode}},
				Text:   eye + " IOP",
			},
			Subject:   patientRef(patientID),
			Encounter: encounterRef(encounterID),
			BodySite:  eyeBodySite(eye, bodySiteCode),
			Method: &fhir_dto.CodeableConcept{
				Coding: []fhir_dto.Coding{{System: constvars.IOPMethodSystem, Code: method}},
				Text:   method,
			},
			ValueQuantity: &fhir_dto.Quantity{
				Value:  float64(10 + rand.Intn(13)),
				Unit:   "mmHg",
				System: constvars.FhirSystemUCUM,
				Code:   "mm[Hg]",
			},
			Note:        []fhir_dto.Annotation{{Text: eye + " Eye " + method}},
			DerivedFrom: []fhir_dto.Reference{{Reference: qrURL}},
			Meta:        formTag(constvars.FormCodeIOP),
		}
	}

	iopSpecs := []struct {
		eye      string
		loinc    string
		bodySite string
		method   string
	}{
		{"OD", constvars.LoincIOPRight, constvars.SnomedRightEye, iopMethodNonContact},
		{"OS", constvars.LoincIOPLeft, constvars.SnomedLeftEye, iopMethodICare},
		{"OD", constvars.LoincIOPRight, constvars.SnomedRightEye, iopMethodTonoPen},
		{"OS", constvars.LoincIOPLeft, constvars.SnomedLeftEye, iopMethodICare},
		{"OD", constvars.LoincIOPRight, constvars.SnomedRightEye, iopMethodICare},
		{"OS", constvars.LoincIOPLeft, constvars.SnomedLeftEye, iopMethodICare},
	}

	itemRefs := []string{qrURL}
	for _, spec := range iopSpecs {
		obsURL := urnUUID()
		itemRefs = append(itemRefs, obsURL)
		builder.add(obsURL, constvars.ResourceObservation, iopObservation(spec.eye, spec.loinc, spec.bodySite, spec.method))
	}

	// Duct patency and CCT observations are recorded but not List members.
	for _, spec := range []struct{ eye, bodySite string }{
		{"OD", constvars.SnomedRightEye},
		{"OS", constvars.SnomedLeftEye},
	} {
		status := ductStatuses[rand.Intn(len(ductStatuses))]
		duct := fhir_dto.Observation{
			ResourceType: constvars.ResourceObservation,
			Status:       constvars.FhirObservationStatusFinal,
			Category:     iopCategory(),
			Code:         fhir_dto.CodeableConcept{Text: spec.eye + " Lacrimal duct patency"},
			Subject:      patientRef(patientID),
			Encounter:    encounterRef(encounterID),
			BodySite:     eyeBodySite(spec.eye, spec.bodySite),
			Method: &fhir_dto.CodeableConcept{
				Coding: []fhir_dto.Coding{{System: constvars.ExaminationFindingsSystem, Code: examCodeDynamicContour}},
				Text:   examTextDynamicContour,
			},
			ValueCodeableConcept: &fhir_dto.CodeableConcept{
				Coding: []fhir_dto.Coding{{System: constvars.IOPDuctSystem, Code: status}},
				Text:   status,
			},
			DerivedFrom: []fhir_dto.Reference{{Reference: qrURL}},
			Meta:        formTag(constvars.FormCodeIOP),
		}
		builder.add(urnUUID(), constvars.ResourceObservation, duct)
	}

	for _, spec := range []struct{ eye, bodySite string }{
		{"OD", constvars.SnomedRightEye},
		{"OS", constvars.SnomedLeftEye},
	} {
		cct := fhir_dto.Observation{
			ResourceType: constvars.ResourceObservation,
			Status:       constvars.FhirObservationStatusFinal,
			Category:     iopCategory(),
			Code: fhir_dto.CodeableConcept{
				Coding: []fhir_dto.Coding{{System: constvars.FhirSystemLOINC, Code: constvars.LoincCCT}},
				Text:   spec.eye + " Central corneal thickness",
			},
			Subject:   patientRef(patientID),
			Encounter: encounterRef(encounterID),
			BodySite:  eyeBodySite(spec.eye, spec.bodySite),
			Method: &fhir_dto.CodeableConcept{
				Coding: []fhir_dto.Coding{{System: constvars.ExaminationFindingsSystem, Code: examCodeGoldmann}},
				Text:   examTextGoldmann,
			},
			ValueQuantity: &fhir_dto.Quantity{
				Value:  math.Round((480+rand.Float64()*80)*10) / 10,
				Unit:   "um",
				System: constvars.FhirSystemUCUM,
				Code:   "um",
			},
			DerivedFrom: []fhir_dto.Reference{{Reference: qrURL}},
			Meta:        formTag(constvars.FormCodeIOP),
		}
		builder.add(urnUUID(), constvars.ResourceObservation, cct)
	}

	builder.add(urnUUID(), constvars.ResourceList,
		newFormList("IOP Form", constvars.FormCodeIOP, patientID, encounterID, userID, itemRefs))

	return s.submit(ctx, builder, constvars.FormCodeIOP)
}

func (s *Service) FetchIOP(ctx context.Context, patientID, encounterID string) (*fhir_dto.Bundle, error) {
	return s.fetchForm(ctx, patientID, encounterID, constvars.FormCodeIOP,
		[]string{constvars.ResourceQuestionnaireResponse, constvars.ResourceObservation}, 50, 50)
}
