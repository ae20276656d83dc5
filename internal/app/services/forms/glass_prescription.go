package forms

import (
	"context"
	"eyebench/internal/pkg/constvars"
	"eyebench/internal/pkg/fhir_dto"
	"math/rand"
)

var (
	snellenValues    = []string{"6/6", "6/9", "6/12", "6/18", "6/24", "6/36"}
	nearVisionValues = []string{"N5", "N6", "N8", "N10"}
)

func lensProduct() *fhir_dto.CodeableConcept {
	return &fhir_dto.CodeableConcept{
		Coding: []fhir_dto.Coding{{System: constvars.FhirLensProductSystem, Code: constvars.FhirLensProductLens}},
	}
}

// CreateGlassPrescriptionForm issues two VisionPrescriptions, one for
// distance and one for near vision, plus the measured visual acuities.
// The near sphere is the distance sphere plus the reading addition.
func (s *Service) CreateGlassPrescriptionForm(ctx context.Context, patientID, encounterID, userID string) (*fhir_dto.Bundle, error) {
	builder := &bundleBuilder{}

	prescriber := practitionerRef(userID)

	type eyeSpec struct {
		eye    string
		sphere float64
		cyl    float64
		axis   int
		add    float64
	}
	specs := []eyeSpec{
		{"right", randRound(-6, 6), randRound(-3, 3), rand.Intn(181), randRound(0.5, 3)},
		{"left", randRound(-6, 6), randRound(-3, 3), rand.Intn(181), randRound(0.5, 3)},
	}

	qrURL := urnUUID()
	builder.add(qrURL, constvars.ResourceQuestionnaireResponse,
		newAnchorResponse(patientID, encounterID, userID, constvars.FormCodeGlasses))

	newPrescription := func(near bool) fhir_dto.VisionPrescription {
		vp := fhir_dto.VisionPrescription{
			ResourceType: constvars.ResourceVisionPrescription,
			Status:       constvars.FhirRequestStatusActive,
			DateWritten:  nowISO(),
			Created:      nowISO(),
			Patient:      patientRef(patientID),
			Encounter:    encounterRef(encounterID),
			Prescriber:   prescriber,
			Meta:         formTag(constvars.FormCodeGlasses),
		}
		for _, spec := range specs {
			lens := fhir_dto.LensSpecification{
				Product:  lensProduct(),
				Eye:      spec.eye,
				Sphere:   spec.sphere,
				Cylinder: spec.cyl,
				Axis:     spec.axis,
			}
			add := 0.0
			if near {
				lens.Sphere = spec.sphere + spec.add
				add = spec.add
			}
			lens.Add = &add
			vp.LensSpecification = append(vp.LensSpecification, lens)
		}
		return vp
	}

	distanceURL := urnUUID()
	builder.add(distanceURL, constvars.ResourceVisionPrescription, newPrescription(false))
	nearURL := urnUUID()
	builder.add(nearURL, constvars.ResourceVisionPrescription, newPrescription(true))

	vaObs := func(codeText, value, side string) fhir_dto.Observation {
		return fhir_dto.Observation{
			ResourceType: constvars.ResourceObservation,
			Status:       constvars.FhirObservationStatusFinal,
			Code:         fhir_dto.CodeableConcept{Text: codeText},
			Subject:      patientRef(patientID),
			Encounter:    encounterRef(encounterID),
			ValueString:  value,
			DerivedFrom:  []fhir_dto.Reference{{Reference: qrURL}},
			Meta:         formTag(constvars.FormCodeGlasses),
			BodySite:     &fhir_dto.CodeableConcept{Text: side},
		}
	}

	itemRefs := []string{qrURL, distanceURL, nearURL}
	acuities := []struct {
		label  string
		values []string
	}{
		{"DV UCVA", snellenValues},
		{"DV BCVA", snellenValues},
		{"NV BCVA", nearVisionValues},
	}
	for _, acuity := range acuities {
		for _, side := range []string{"right", "left"} {
			obsURL := urnUUID()
			itemRefs = append(itemRefs, obsURL)
			builder.add(obsURL, constvars.ResourceObservation,
				vaObs(acuity.label, acuity.values[rand.Intn(len(acuity.values))], side))
		}
	}

	builder.add(urnUUID(), constvars.ResourceList,
		newFormList("Glass Prescription Form", constvars.FormCodeGlasses, patientID, encounterID, "", itemRefs))

	return s.submit(ctx, builder, constvars.FormCodeGlasses)
}

func (s *Service) FetchGlassPrescription(ctx context.Context, patientID, encounterID string) (*fhir_dto.Bundle, error) {
	return s.fetchForm(ctx, patientID, encounterID, constvars.FormCodeGlasses,
		[]string{
			constvars.ResourceQuestionnaireResponse,
			constvars.ResourceVisionPrescription,
			constvars.ResourceObservation,
		}, 50, 50)
}
