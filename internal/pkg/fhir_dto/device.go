package fhir_dto

type Device struct {
	ResourceType       string           `json:"resourceType"`
	ID                 string           `json:"id,omitempty"`
	Meta               *Meta            `json:"meta,omitempty"`
	Status             string           `json:"status,omitempty"`
	Type               *CodeableConcept `json:"type,omitempty"`
	DeviceName         []DeviceName     `json:"deviceName,omitempty"`
	DistinctIdentifier string           `json:"distinctIdentifier,omitempty"`
}

type DeviceName struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}
