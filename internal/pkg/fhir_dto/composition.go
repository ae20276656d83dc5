package fhir_dto

type Composition struct {
	ResourceType string               `json:"resourceType"`
	ID           string               `json:"id,omitempty"`
	Meta         *Meta                `json:"meta,omitempty"`
	Status       string               `json:"status,omitempty"`
	Type         *CodeableConcept     `json:"type,omitempty"`
	Date         string               `json:"date,omitempty"`
	Title        string               `json:"title,omitempty"`
	Subject      *Reference           `json:"subject,omitempty"`
	Encounter    *Reference           `json:"encounter,omitempty"`
	Author       []Reference          `json:"author,omitempty"`
	Section      []CompositionSection `json:"section,omitempty"`
}

type CompositionSection struct {
	Title string     `json:"title,omitempty"`
	Text  *Narrative `json:"text,omitempty"`
}
