package forms

import (
	"context"
	"eyebench/internal/pkg/constvars"
	"eyebench/internal/pkg/fhir_dto"
	"math/rand"
)

// CreatePGPForm captures the patient's present glass prescription, the
// spectacles they walked in with, as a single VisionPrescription plus the
// acuity measured through those glasses.
func (s *Service) CreatePGPForm(ctx context.Context, patientID, encounterID, userID string) (*fhir_dto.Bundle, error) {
	builder := &bundleBuilder{}

	qrURL := urnUUID()
	builder.add(qrURL, constvars.ResourceQuestionnaireResponse,
		newAnchorResponse(patientID, encounterID, userID, constvars.FormCodePGP))

	vp := fhir_dto.VisionPrescription{
		ResourceType: constvars.ResourceVisionPrescription,
		Status:       constvars.FhirRequestStatusActive,
		DateWritten:  nowISO(),
		Created:      nowISO(),
		Patient:      patientRef(patientID),
		Encounter:    encounterRef(encounterID),
		Prescriber:   practitionerRef(userID),
		Meta:         formTag(constvars.FormCodePGP),
	}
	for _, eye := range []string{"right", "left"} {
		add := randRound(0.5, 3)
		vp.LensSpecification = append(vp.LensSpecification, fhir_dto.LensSpecification{
			Product:  lensProduct(),
			Eye:      eye,
			Sphere:   randRound(-6, 6),
			Cylinder: randRound(-3, 3),
			Axis:     rand.Intn(181),
			Add:      &add,
		})
	}
	vpURL := urnUUID()
	builder.add(vpURL, constvars.ResourceVisionPrescription, vp)

	itemRefs := []string{qrURL, vpURL}
	for _, side := range []string{"right", "left"} {
		obs := fhir_dto.Observation{
			ResourceType: constvars.ResourceObservation,
			Status:       constvars.FhirObservationStatusFinal,
			Code:         fhir_dto.CodeableConcept{Text: "VA with PGP"},
			Subject:      patientRef(patientID),
			Encounter:    encounterRef(encounterID),
			ValueString:  snellenValues[rand.Intn(len(snellenValues))],
			DerivedFrom:  []fhir_dto.Reference{{Reference: qrURL}},
			Meta:         formTag(constvars.FormCodePGP),
			BodySite:     &fhir_dto.CodeableConcept{Text: side},
		}
		obsURL := urnUUID()
		itemRefs = append(itemRefs, obsURL)
		builder.add(obsURL, constvars.ResourceObservation, obs)
	}

	builder.add(urnUUID(), constvars.ResourceList,
		newFormList("PGP Form", constvars.FormCodePGP, patientID, encounterID, "", itemRefs))

	return s.submit(ctx, builder, constvars.FormCodePGP)
}

func (s *Service) FetchPGP(ctx context.Context, patientID, encounterID string) (*fhir_dto.Bundle, error) {
	return s.fetchForm(ctx, patientID, encounterID, constvars.FormCodePGP,
		[]string{
			constvars.ResourceQuestionnaireResponse,
			constvars.ResourceVisionPrescription,
			constvars.ResourceObservation,
		}, 50, 50)
}
