package fhir_dto

type List struct {
	ResourceType string           `json:"resourceType"`
	ID           string           `json:"id,omitempty"`
	Meta         *Meta            `json:"meta,omitempty"`
	Status       string           `json:"status,omitempty"`
	Mode         string           `json:"mode,omitempty"`
	Title        string           `json:"title,omitempty"`
	Code         *CodeableConcept `json:"code,omitempty"`
	Subject      *Reference       `json:"subject,omitempty"`
	Encounter    *Reference       `json:"encounter,omitempty"`
	Date         string           `json:"date,omitempty"`
	Author       *Reference       `json:"author,omitempty"`
	Entry        []ListEntry      `json:"entry,omitempty"`
}

type ListEntry struct {
	Item Reference `json:"item"`
}
