package fhir_dto

type AllergyIntolerance struct {
	ResourceType   string           `json:"resourceType"`
	ID             string           `json:"id,omitempty"`
	Meta           *Meta            `json:"meta,omitempty"`
	ClinicalStatus *CodeableConcept `json:"clinicalStatus,omitempty"`
	Code           *CodeableConcept `json:"code,omitempty"`
	Patient        Reference        `json:"patient"`
	Encounter      *Reference       `json:"encounter,omitempty"`
	RecordedDate   string           `json:"recordedDate,omitempty"`
	Asserter       *Reference       `json:"asserter,omitempty"`
	Note           []Annotation     `json:"note,omitempty"`
}
