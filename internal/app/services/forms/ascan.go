package forms

import (
	"context"
	"eyebench/internal/pkg/constvars"
	"eyebench/internal/pkg/fhir_dto"
	"fmt"
	"math/rand"
	"strings"
)

var (
	ascanMethods = []string{"Contact", "Immersion", "Optical"}
	iolBrands    = []string{"Alcon", "Zeiss", "J&J", "Bausch & Lomb"}
)

type ascanEye struct {
	prefix       string
	bodySiteCode string
	bodySiteText string
	method       string
	iolBrand     string
}

func ascanMethodConcept(methodText string) *fhir_dto.CodeableConcept {
	code := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(methodText)), " ", "-")
	return &fhir_dto.CodeableConcept{
		Coding: []fhir_dto.Coding{{System: constvars.AScanMethodSystem, Code: code}},
		Text:   methodText,
	}
}

// CreateAScanForm records the full ocular biometry panel for both eyes:
// axial lengths, keratometry, astigmatism, IOL power calculations and the
// selected IOL as a Device.
func (s *Service) CreateAScanForm(ctx context.Context, patientID, encounterID, userID string) (*fhir_dto.Bundle, error) {
	builder := &bundleBuilder{}

	const (
		qrURL          = "urn:uuid:qr-ascan"
		deviceRightURL = "urn:uuid:dev-iol-right"
		deviceLeftURL  = "urn:uuid:dev-iol-left"
	)

	builder.add(qrURL, constvars.ResourceQuestionnaireResponse,
		newAnchorResponse(patientID, encounterID, userID, constvars.FormCodeAScan))

	eyes := []ascanEye{
		{"Right Eye", constvars.SnomedRightEye, "Right Eye", ascanMethods[rand.Intn(len(ascanMethods))], iolBrands[rand.Intn(len(iolBrands))]},
		{"Left Eye", constvars.SnomedLeftEye, "Left Eye", ascanMethods[rand.Intn(len(ascanMethods))], iolBrands[rand.Intn(len(iolBrands))]},
	}
	deviceURLs := []string{deviceRightURL, deviceLeftURL}
	for i, eye := range eyes {
		device := fhir_dto.Device{
			ResourceType: constvars.ResourceDevice,
			Status:       "active",
			Type:         &fhir_dto.CodeableConcept{Text: "Intraocular lens"},
			DeviceName:   []fhir_dto.DeviceName{{Name: eye.iolBrand, Type: "manufacturer-name"}},
			Meta:         formTag(constvars.FormCodeAScan),
		}
		builder.add(deviceURLs[i], constvars.ResourceDevice, device)
	}

	performer := practitionerRef(userID)
	quantityObs := func(eye ascanEye, code, text, unit string, value float64) fhir_dto.Observation {
		obs := fhir_dto.Observation{
			ResourceType: constvars.ResourceObservation,
			Status:       constvars.FhirObservationStatusFinal,
			Category: []fhir_dto.CodeableConcept{
				{Coding: []fhir_dto.Coding{{System: constvars.MedblocksObservationCategorySystem, Code: "ascan"}}},
			},
			Code: fhir_dto.CodeableConcept{
				Coding: []fhir_dto.Coding{{System: constvars.AScanCodeSystem, Code: code}},
				Text:   text,
			},
			Subject:   patientRef(patientID),
			Encounter: encounterRef(encounterID),
			BodySite: &fhir_dto.CodeableConcept{
				Coding: []fhir_dto.Coding{{System: constvars.FhirSystemSNOMED, Code: eye.bodySiteCode}},
				Text:   eye.bodySiteText,
			},
			Method:        ascanMethodConcept(eye.method),
			ValueQuantity: &fhir_dto.Quantity{Value: value, Unit: unit, System: constvars.FhirSystemUCUM, Code: unit},
			DerivedFrom:   []fhir_dto.Reference{{Reference: qrURL}},
			Meta:          formTag(constvars.FormCodeAScan),
		}
		if performer != nil {
			obs.Performer = []fhir_dto.Reference{*performer}
		}
		return obs
	}

	var itemRefs []string
	for i, eye := range eyes {
		axial := func() float64 { return randRound(20, 28) }
		keratometry := func() float64 { return randRound(36, 48) }
		srk := func() float64 { return randRound(1, 3) }

		quantitySpecs := []struct {
			text  string
			code  string
			unit  string
			value float64
		}{
			{eye.prefix + " axial_length_1", "axial_length_1", "mm", axial()},
			{eye.prefix + " axial_length_2", "axial_length_2", "mm", axial()},
			{eye.prefix + " axial_length_3", "axial_length_3", "mm", axial()},
			{eye.prefix + " K1 auto-K", "k1_auto_k", "D", keratometry()},
			{eye.prefix + " K1 normal", "k1_normal", "D", keratometry()},
			{eye.prefix + " K2 auto-K", "k2_auto_k", "D", keratometry()},
			{eye.prefix + " K2 normal", "k2_normal", "D", keratometry()},
			{eye.prefix + " pre-op astigmatism", "pre_op_astigmatism", "D", randRound(0, 5)},
			{eye.prefix + " SRK-T1", "srk_t1", "D", srk()},
			{eye.prefix + " SRK-T2", "srk_t2", "D", srk()},
			{eye.prefix + " SRK-T3", "srk_t3", "D", srk()},
			{eye.prefix + " SRK-II 1", "srk_2_1", "D", srk()},
			{eye.prefix + " SRK-II 2", "srk_2_2", "D", srk()},
			{eye.prefix + " SRK-II 3", "srk_2_3", "D", srk()},
			{eye.prefix + " optical biometry 1", "optical_biometry_1", "mm", axial()},
			{eye.prefix + " optical biometry 2", "optical_biometry_2", "mm", axial()},
			{eye.prefix + " optical biometry 3", "optical_biometry_3", "mm", axial()},
			{eye.prefix + " final IOL power", "final_iol_power", "D", randRound(10, 30)},
		}
		slug := strings.ReplaceAll(strings.ToLower(eye.prefix), " ", "-")
		for idx, spec := range quantitySpecs {
			obs := quantityObs(eye, spec.code, spec.text, spec.unit, spec.value)
			if spec.code == "final_iol_power" {
				obs.Device = &fhir_dto.Reference{Reference: deviceURLs[i]}
			}
			fullURL := fmt.Sprintf("urn:uuid:obs-%s-%s-%d", slug, spec.code, idx)
			itemRefs = append(itemRefs, fullURL)
			builder.add(fullURL, constvars.ResourceObservation, obs)
		}

		integerSpecs := []struct {
			text  string
			code  string
			value int
		}{
			{eye.prefix + " with-rule astigmatism", "with_rule", rand.Intn(2)},
			{eye.prefix + " against-rule astigmatism", "against_rule", rand.Intn(2)},
		}
		for idx, spec := range integerSpecs {
			obs := quantityObs(eye, spec.code, spec.text, "", 0)
			obs.ValueQuantity = nil
			value := spec.value
			obs.ValueInteger = &value
			fullURL := fmt.Sprintf("urn:uuid:obs-%s-%s-i-%d", slug, spec.code, idx)
			itemRefs = append(itemRefs, fullURL)
			builder.add(fullURL, constvars.ResourceObservation, obs)
		}
	}

	listRefs := append([]string{qrURL, deviceRightURL, deviceLeftURL}, itemRefs...)
	builder.add("urn:uuid:list-ascan", constvars.ResourceList,
		newFormList("A-Scan Form", constvars.FormCodeAScan, patientID, encounterID, "", listRefs))

	return s.submit(ctx, builder, constvars.FormCodeAScan)
}

func (s *Service) FetchAScan(ctx context.Context, patientID, encounterID string) (*fhir_dto.Bundle, error) {
	return s.fetchForm(ctx, patientID, encounterID, constvars.FormCodeAScan,
		[]string{constvars.ResourceQuestionnaireResponse, constvars.ResourceObservation, constvars.ResourceDevice}, 200, 200)
}
