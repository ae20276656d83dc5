package fhir_dto

type Condition struct {
	ResourceType   string              `json:"resourceType"`
	ID             string              `json:"id,omitempty"`
	Meta           *Meta               `json:"meta,omitempty"`
	ClinicalStatus *CodeableConcept    `json:"clinicalStatus,omitempty"`
	Category       []CodeableConcept   `json:"category,omitempty"`
	Code           *CodeableConcept    `json:"code,omitempty"`
	BodySite       []CodeableConcept   `json:"bodySite,omitempty"`
	Subject        Reference           `json:"subject"`
	Encounter      *Reference          `json:"encounter,omitempty"`
	RecordedDate   string              `json:"recordedDate,omitempty"`
	Asserter       *Reference          `json:"asserter,omitempty"`
	Evidence       []ConditionEvidence `json:"evidence,omitempty"`
	Note           []Annotation        `json:"note,omitempty"`
}

type ConditionEvidence struct {
	Code   []CodeableConcept `json:"code,omitempty"`
	Detail []Reference       `json:"detail,omitempty"`
}
