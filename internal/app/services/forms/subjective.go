package forms

import (
	"context"
	"eyebench/internal/pkg/constvars"
	"eyebench/internal/pkg/fhir_dto"
	"math"
	"math/rand"
)

var (
	ucvaValues   = []string{"6/6", "6/9", "6/12", "6/18", "CF 3m"}
	bcvaValues   = []string{"6/6", "6/9", "6/12"}
	nvBcvaValues = []string{"N6", "N8", "N10"}
)

func randRound(min, max float64) float64 {
	return math.Round((min+rand.Float64()*(max-min))*100) / 100
}

type lensComponent struct {
	label string
	value float64
	unit  string
}

// CreateSubjectiveRefractionForm records visual acuity per eye: uncorrected
// distance vision, best corrected distance vision with the correcting lens,
// and best corrected near vision with the reading addition. The lens values
// are member observations linked through hasMember.
func (s *Service) CreateSubjectiveRefractionForm(ctx context.Context, patientID, encounterID, userID string) (*fhir_dto.Bundle, error) {
	builder := &bundleBuilder{}

	qrURL := urnUUID()
	builder.add(qrURL, constvars.ResourceQuestionnaireResponse,
		newAnchorResponse(patientID, encounterID, userID, constvars.FormCodeSubjective))

	confounding := "Not Dilated"
	if rand.Intn(2) == 0 {
		confounding = "Dilated"
	}

	vaObservation := func(codeText, value, side string) fhir_dto.Observation {
		return fhir_dto.Observation{
			ResourceType: constvars.ResourceObservation,
			Status:       constvars.FhirObservationStatusFinal,
			Code:         fhir_dto.CodeableConcept{Text: codeText},
			Subject:      patientRef(patientID),
			Encounter:    encounterRef(encounterID),
			ValueString:  value,
			Note:         []fhir_dto.Annotation{{Text: confounding}},
			DerivedFrom:  []fhir_dto.Reference{{Reference: qrURL}},
			Meta:         formTag(constvars.FormCodeSubjective),
			BodySite:     &fhir_dto.CodeableConcept{Text: side},
		}
	}
	lensObservation := func(component lensComponent, side string) fhir_dto.Observation {
		return fhir_dto.Observation{
			ResourceType:  constvars.ResourceObservation,
			Status:        constvars.FhirObservationStatusFinal,
			Code:          fhir_dto.CodeableConcept{Text: "Lens " + component.label + " " + side},
			Subject:       patientRef(patientID),
			Encounter:     encounterRef(encounterID),
			ValueQuantity: &fhir_dto.Quantity{Value: component.value, Unit: component.unit},
			DerivedFrom:   []fhir_dto.Reference{{Reference: qrURL}},
			Meta:          formTag(constvars.FormCodeSubjective),
			BodySite:      &fhir_dto.CodeableConcept{Text: side},
		}
	}

	itemRefs := []string{qrURL}
	for _, side := range []string{"right", "left"} {
		ucvaURL := urnUUID()
		itemRefs = append(itemRefs, ucvaURL)
		builder.add(ucvaURL, constvars.ResourceObservation,
			vaObservation("DV UCVA "+side, ucvaValues[rand.Intn(len(ucvaValues))], side))

		sphere := randRound(-6, 6)
		cylinder := randRound(-3, 3)
		axis := float64(rand.Intn(181))

		dvBcva := vaObservation("DV BCVA "+side, bcvaValues[rand.Intn(len(bcvaValues))], side)
		dvLenses := []lensComponent{
			{"sphere", sphere, "D"},
			{"cylinder", cylinder, "D"},
			{"axis", axis, "deg"},
		}
		dvLensURLs := make([]string, len(dvLenses))
		for i := range dvLenses {
			dvLensURLs[i] = urnUUID()
			dvBcva.HasMember = append(dvBcva.HasMember, fhir_dto.Reference{Reference: dvLensURLs[i]})
		}
		dvBcvaURL := urnUUID()
		itemRefs = append(itemRefs, dvBcvaURL)
		builder.add(dvBcvaURL, constvars.ResourceObservation, dvBcva)
		for i, lens := range dvLenses {
			builder.add(dvLensURLs[i], constvars.ResourceObservation, lensObservation(lens, side))
		}

		add := randRound(0.75, 3)
		total := math.Round((sphere+add)*100) / 100

		nvBcva := vaObservation("NV BCVA "+side, nvBcvaValues[rand.Intn(len(nvBcvaValues))], side)
		nvLenses := []lensComponent{
			{"sphere", total, "D"},
			{"cylinder", cylinder, "D"},
			{"axis", axis, "deg"},
			{"add", add, "D"},
		}
		nvLensURLs := make([]string, len(nvLenses))
		for i := range nvLenses {
			nvLensURLs[i] = urnUUID()
			nvBcva.HasMember = append(nvBcva.HasMember, fhir_dto.Reference{Reference: nvLensURLs[i]})
		}
		nvBcvaURL := urnUUID()
		itemRefs = append(itemRefs, nvBcvaURL)
		builder.add(nvBcvaURL, constvars.ResourceObservation, nvBcva)
		for i, lens := range nvLenses {
			builder.add(nvLensURLs[i], constvars.ResourceObservation, lensObservation(lens, side))
		}
	}

	builder.add(urnUUID(), constvars.ResourceList,
		newFormList("Subjective Refraction Form", constvars.FormCodeSubjective, patientID, encounterID, "", itemRefs))

	return s.submit(ctx, builder, constvars.FormCodeSubjective)
}

func (s *Service) FetchSubjectiveRefraction(ctx context.Context, patientID, encounterID string) (*fhir_dto.Bundle, error) {
	return s.fetchForm(ctx, patientID, encounterID, constvars.FormCodeSubjective,
		[]string{constvars.ResourceQuestionnaireResponse, constvars.ResourceObservation}, 50, 50)
}
