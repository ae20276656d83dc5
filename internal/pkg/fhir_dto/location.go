package fhir_dto

type Location struct {
	ResourceType string   `json:"resourceType"`
	ID           string   `json:"id,omitempty"`
	Meta         *Meta    `json:"meta,omitempty"`
	Status       string   `json:"status,omitempty"`
	Name         string   `json:"name,omitempty"`
	Mode         string   `json:"mode,omitempty"`
	Address      *Address `json:"address,omitempty"`
}
