package fhir_dto

type VisionPrescription struct {
	ResourceType      string              `json:"resourceType"`
	ID                string              `json:"id,omitempty"`
	Meta              *Meta               `json:"meta,omitempty"`
	Status            string              `json:"status,omitempty"`
	Created           string              `json:"created,omitempty"`
	DateWritten       string              `json:"dateWritten,omitempty"`
	Patient           *Reference          `json:"patient,omitempty"`
	Encounter         *Reference          `json:"encounter,omitempty"`
	Prescriber        *Reference          `json:"prescriber,omitempty"`
	LensSpecification []LensSpecification `json:"lensSpecification,omitempty"`
}

type LensSpecification struct {
	Product  *CodeableConcept `json:"product,omitempty"`
	Eye      string           `json:"eye,omitempty"`
	Sphere   float64          `json:"sphere"`
	Cylinder float64          `json:"cylinder"`
	Axis     int              `json:"axis"`
	Add      *float64         `json:"add,omitempty"`
}
