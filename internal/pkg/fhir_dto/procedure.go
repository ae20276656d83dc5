package fhir_dto

type Procedure struct {
	ResourceType      string               `json:"resourceType"`
	ID                string               `json:"id,omitempty"`
	Meta              *Meta                `json:"meta,omitempty"`
	Status            string               `json:"status,omitempty"`
	Category          *CodeableConcept     `json:"category,omitempty"`
	Code              *CodeableConcept     `json:"code,omitempty"`
	Subject           Reference            `json:"subject"`
	Encounter         *Reference           `json:"encounter,omitempty"`
	PerformedDateTime string               `json:"performedDateTime,omitempty"`
	PerformedPeriod   *Period              `json:"performedPeriod,omitempty"`
	Performer         []ProcedurePerformer `json:"performer,omitempty"`
	ReasonCode        []CodeableConcept    `json:"reasonCode,omitempty"`
	BodySite          []CodeableConcept    `json:"bodySite,omitempty"`
	Report            []Reference          `json:"report,omitempty"`
	Complication      []CodeableConcept    `json:"complication,omitempty"`
	Outcome           *CodeableConcept     `json:"outcome,omitempty"`
	Note              []Annotation         `json:"note,omitempty"`
}

type ProcedurePerformer struct {
	Function *CodeableConcept `json:"function,omitempty"`
	Actor    Reference        `json:"actor"`
}
