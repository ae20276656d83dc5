package forms

import (
	"context"
	"eyebench/internal/pkg/constvars"
	"eyebench/internal/pkg/fhir_dto"
	"math/rand"
)

// AutoRefractometerResult lists the server-assigned ids of everything the
// form created.
type AutoRefractometerResult struct {
	QuestionnaireResponseID string
	ListID                  string
	VisionPrescriptionID    string
	ObservationIDs          []string
}

type refractionEye struct {
	label    string
	sphere   float64
	cylinder float64
	axis     int
}

// CreateAutoRefractometerForm records machine refraction readings for both
// eyes. Unlike the charted forms this device workflow posts each resource
// on its own, so the List is built from server ids instead of bundle URNs.
// A VisionPrescription is derived from the readings when an operator is
// known.
func (s *Service) CreateAutoRefractometerForm(ctx context.Context, patientID, encounterID, userID string) (*AutoRefractometerResult, error) {
	anchor := newAnchorResponse(patientID, encounterID, "", constvars.FormCodeAutoRef)
	resp, err := s.client.Post(ctx, constvars.ResourceQuestionnaireResponse, anchor)
	if err != nil {
		return nil, err
	}
	var created fhir_dto.QuestionnaireResponse
	if err := resp.DecodeInto(&created, constvars.ResourceQuestionnaireResponse); err != nil {
		return nil, err
	}
	result := &AutoRefractometerResult{QuestionnaireResponseID: created.ID}
	qrRef := constvars.ResourceQuestionnaireResponse + "/" + created.ID

	eyes := []refractionEye{
		{"OD", randRound(-9, 9), randRound(-9, 9), rand.Intn(181)},
		{"OS", randRound(-9, 9), randRound(-9, 9), rand.Intn(181)},
	}

	makeObs := func(eye refractionEye, loincCode, text string, value float64, unit string) fhir_dto.Observation {
		bodyCode, bodyText := constvars.SnomedRightEye, "Right Eye"
		if eye.label == "OS" {
			bodyCode, bodyText = constvars.SnomedLeftEye, "Left Eye"
		}
		return fhir_dto.Observation{
			ResourceType: constvars.ResourceObservation,
			Status:       constvars.FhirObservationStatusFinal,
			Code: fhir_dto.CodeableConcept{
				Coding: []fhir_dto.Coding{{System: constvars.FhirSystemLOINC, Code: loincCode}},
				Text:   text,
			},
			Subject:     patientRef(patientID),
			Encounter:   encounterRef(encounterID),
			DerivedFrom: []fhir_dto.Reference{{Reference: qrRef}},
			Category: []fhir_dto.CodeableConcept{
				{Coding: []fhir_dto.Coding{{System: constvars.MedblocksObservationCategorySystem, Code: "refraction"}}},
			},
			Method: &fhir_dto.CodeableConcept{
				Coding: []fhir_dto.Coding{{System: constvars.RefractionMethodSystem, Code: "at0227"}},
				Text:   "Laser Interferometer",
			},
			BodySite: &fhir_dto.CodeableConcept{
				Coding: []fhir_dto.Coding{{System: constvars.FhirSystemSNOMED, Code: bodyCode}},
				Text:   bodyText,
			},
			Note:          []fhir_dto.Annotation{{Text: "Not Dilated"}},
			ValueQuantity: &fhir_dto.Quantity{Value: value, Unit: unit},
			Meta:          formTag(constvars.FormCodeAutoRef),
		}
	}

	for _, eye := range eyes {
		specs := []struct {
			code  string
			text  string
			value float64
			unit  string
		}{
			{"9780-8", "OD Sphere", eye.sphere, "D"},
			{"17634-2", "OD Cylinder", eye.cylinder, "D"},
			{"9827-0", "OD Axis", float64(eye.axis), "deg"},
		}
		if eye.label == "OS" {
			specs[0].code, specs[0].text = "9781-6", "OS Sphere"
			specs[1].code, specs[1].text = "17635-9", "OS Cylinder"
			specs[2].code, specs[2].text = "9828-8", "OS Axis"
		}
		for _, spec := range specs {
			obsResp, err := s.client.Post(ctx, constvars.ResourceObservation,
				makeObs(eye, spec.code, spec.text, spec.value, spec.unit))
			if err != nil {
				continue
			}
			var obs fhir_dto.Observation
			if err := obsResp.DecodeInto(&obs, constvars.ResourceObservation); err == nil && obs.ID != "" {
				result.ObservationIDs = append(result.ObservationIDs, obs.ID)
			}
		}
	}

	if userID != "" {
		vp := fhir_dto.VisionPrescription{
			ResourceType: constvars.ResourceVisionPrescription,
			Status:       constvars.FhirRequestStatusActive,
			DateWritten:  nowISO(),
			Created:      nowISO(),
			Patient:      patientRef(patientID),
			Encounter:    encounterRef(encounterID),
			Prescriber:   practitionerRef(userID),
			Meta:         formTag(constvars.FormCodeAutoRef),
		}
		for _, eye := range eyes {
			side := "right"
			if eye.label == "OS" {
				side = "left"
			}
			vp.LensSpecification = append(vp.LensSpecification, fhir_dto.LensSpecification{
				Product:  lensProduct(),
				Eye:      side,
				Sphere:   eye.sphere,
				Cylinder: eye.cylinder,
				Axis:     eye.axis,
			})
		}
		vpResp, err := s.client.Post(ctx, constvars.ResourceVisionPrescription, vp)
		if err == nil {
			var createdVP fhir_dto.VisionPrescription
			if err := vpResp.DecodeInto(&createdVP, constvars.ResourceVisionPrescription); err == nil {
				result.VisionPrescriptionID = createdVP.ID
			}
		}
	}

	itemRefs := []string{qrRef}
	if result.VisionPrescriptionID != "" {
		itemRefs = append(itemRefs, constvars.ResourceVisionPrescription+"/"+result.VisionPrescriptionID)
	}
	for _, oid := range result.ObservationIDs {
		itemRefs = append(itemRefs, constvars.ResourceObservation+"/"+oid)
	}
	listResp, err := s.client.Post(ctx, constvars.ResourceList,
		newFormList("Auto Refractometer Form", constvars.FormCodeAutoRef, patientID, encounterID, "", itemRefs))
	if err == nil {
		var createdList fhir_dto.List
		if err := listResp.DecodeInto(&createdList, constvars.ResourceList); err == nil {
			result.ListID = createdList.ID
		}
	}

	return result, nil
}

func (s *Service) FetchAutoRefractometer(ctx context.Context, patientID, encounterID string) (*fhir_dto.Bundle, error) {
	return s.fetchForm(ctx, patientID, encounterID, constvars.FormCodeAutoRef,
		[]string{
			constvars.ResourceQuestionnaireResponse,
			constvars.ResourceObservation,
			constvars.ResourceVisionPrescription,
		}, 50, 50)
}
