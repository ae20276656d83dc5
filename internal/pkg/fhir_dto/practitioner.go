package fhir_dto

type Practitioner struct {
	ResourceType string         `json:"resourceType"`
	ID           string         `json:"id,omitempty"`
	Meta         *Meta          `json:"meta,omitempty"`
	Identifier   []Identifier   `json:"identifier,omitempty"`
	Active       *bool          `json:"active,omitempty"`
	Name         []HumanName    `json:"name,omitempty"`
	Telecom      []ContactPoint `json:"telecom,omitempty"`
	Gender       string         `json:"gender,omitempty"`
}

type PractitionerRole struct {
	ResourceType string      `json:"resourceType"`
	ID           string      `json:"id,omitempty"`
	Practitioner *Reference  `json:"practitioner,omitempty"`
	Organization *Reference  `json:"organization,omitempty"`
	Location     []Reference `json:"location,omitempty"`
}
