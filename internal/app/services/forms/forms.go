package forms

import (
	"context"
	"eyebench/internal/app/services/fhir"
	"eyebench/internal/pkg/constvars"
	"eyebench/internal/pkg/exceptions"
	"eyebench/internal/pkg/fhir_dto"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service builds and submits clinical form transactions. Every form writes
// a QuestionnaireResponse anchor, its derived clinical resources and a List
// packaging the members, all tagged with the form code so they can be
// fetched back as a unit.
type Service struct {
	client *fhir.Client
	logger *zap.Logger
}

func NewService(client *fhir.Client, logger *zap.Logger) *Service {
	return &Service{client: client, logger: logger}
}

func formTag(formCode string) *fhir_dto.Meta {
	return &fhir_dto.Meta{
		Tag: []fhir_dto.Coding{
			{System: constvars.FormTagSystem, Code: formCode},
		},
	}
}

func formCode(code string) *fhir_dto.CodeableConcept {
	return &fhir_dto.CodeableConcept{
		Coding: []fhir_dto.Coding{
			{System: constvars.FormTagSystem, Code: code},
		},
	}
}

func urnUUID() string {
	return "urn:uuid:" + uuid.NewString()
}

func nowISO() string {
	return time.Now().UTC().Truncate(time.Second).Format(time.RFC3339)
}

func patientRef(patientID string) *fhir_dto.Reference {
	return &fhir_dto.Reference{Reference: "Patient/" + patientID}
}

func encounterRef(encounterID string) *fhir_dto.Reference {
	return &fhir_dto.Reference{Reference: "Encounter/" + encounterID}
}

func practitionerRef(userID string) *fhir_dto.Reference {
	if userID == "" {
		return nil
	}
	return &fhir_dto.Reference{Reference: "Practitioner/" + userID}
}

// bodySiteEye maps a side label onto its SNOMED coded body site.
func bodySiteEye(side string) *fhir_dto.CodeableConcept {
	code := constvars.SnomedBothEyes
	switch side {
	case "Right Eye":
		code = constvars.SnomedRightEye
	case "Left Eye":
		code = constvars.SnomedLeftEye
	}
	return &fhir_dto.CodeableConcept{
		Coding: []fhir_dto.Coding{{System: constvars.FhirSystemSNOMED, Code: code}},
		Text:   side,
	}
}

// newAnchorResponse builds the QuestionnaireResponse every form starts
// with.
func newAnchorResponse(patientID, encounterID, userID, code string) fhir_dto.QuestionnaireResponse {
	return fhir_dto.QuestionnaireResponse{
		ResourceType: constvars.ResourceQuestionnaireResponse,
		Status:       constvars.FhirQRStatusCompleted,
		Subject:      patientRef(patientID),
		Encounter:    encounterRef(encounterID),
		Authored:     nowISO(),
		Author:       practitionerRef(userID),
		Meta:         formTag(code),
	}
}

// newFormList packages the form members so they can be fetched as a unit.
func newFormList(title, code, patientID, encounterID, userID string, itemRefs []string) fhir_dto.List {
	entries := make([]fhir_dto.ListEntry, 0, len(itemRefs))
	for _, ref := range itemRefs {
		entries = append(entries, fhir_dto.ListEntry{Item: fhir_dto.Reference{Reference: ref}})
	}
	return fhir_dto.List{
		ResourceType: constvars.ResourceList,
		Status:       constvars.FhirListStatusCurrent,
		Mode:         constvars.FhirListModeWorking,
		Title:        title,
		Code:         formCode(code),
		Subject:      patientRef(patientID),
		Encounter:    encounterRef(encounterID),
		Date:         nowISO(),
		Author:       practitionerRef(userID),
		Meta:         formTag(code),
		Entry:        entries,
	}
}

// bundleBuilder accumulates transaction entries; the first marshal failure
// sticks and surfaces when the bundle is built.
type bundleBuilder struct {
	entries []fhir_dto.BundleEntry
	err     error
}

func (b *bundleBuilder) add(fullURL, resourceType string, resource interface{}) {
	if b.err != nil {
		return
	}
	raw, err := json.Marshal(resource)
	if err != nil {
		b.err = exceptions.ErrCannotMarshalJSON(err)
		return
	}
	b.entries = append(b.entries, fhir_dto.BundleEntry{
		FullURL:  fullURL,
		Resource: raw,
		Request:  &fhir_dto.BundleRequest{Method: constvars.MethodPost, URL: resourceType},
	})
}

func (b *bundleBuilder) bundle() (*fhir_dto.Bundle, error) {
	if b.err != nil {
		return nil, b.err
	}
	return &fhir_dto.Bundle{
		ResourceType: constvars.ResourceBundle,
		Type:         constvars.FhirBundleTypeTransaction,
		Entry:        b.entries,
	}, nil
}

func (s *Service) submit(ctx context.Context, builder *bundleBuilder, formCode string) (*fhir_dto.Bundle, error) {
	bundle, err := builder.bundle()
	if err != nil {
		return nil, err
	}
	response, err := s.client.Transaction(ctx, bundle)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("submitted form transaction",
		zap.String(constvars.LoggingFormKey, formCode),
		zap.Int("entries", len(bundle.Entry)),
	)
	return response, nil
}
