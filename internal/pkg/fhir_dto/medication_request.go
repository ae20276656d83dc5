package fhir_dto

type MedicationRequest struct {
	ResourceType              string           `json:"resourceType"`
	ID                        string           `json:"id,omitempty"`
	Meta                      *Meta            `json:"meta,omitempty"`
	Status                    string           `json:"status,omitempty"`
	Intent                    string           `json:"intent,omitempty"`
	Priority                  string           `json:"priority,omitempty"`
	MedicationCodeableConcept *CodeableConcept `json:"medicationCodeableConcept,omitempty"`
	Subject                   *Reference       `json:"subject,omitempty"`
	Encounter                 *Reference       `json:"encounter,omitempty"`
	AuthoredOn                string           `json:"authoredOn,omitempty"`
	Requester                 *Reference       `json:"requester,omitempty"`
	ReasonReference           []Reference      `json:"reasonReference,omitempty"`
	SupportingInformation     []Reference      `json:"supportingInformation,omitempty"`
	DosageInstruction         []Dosage         `json:"dosageInstruction,omitempty"`
}

type Dosage struct {
	Text                  string            `json:"text,omitempty"`
	PatientInstruction    string            `json:"patientInstruction,omitempty"`
	AdditionalInstruction []CodeableConcept `json:"additionalInstruction,omitempty"`
	Timing                *Timing           `json:"timing,omitempty"`
	Site                  *CodeableConcept  `json:"site,omitempty"`
}

type Timing struct {
	Code   *CodeableConcept `json:"code,omitempty"`
	Repeat *TimingRepeat    `json:"repeat,omitempty"`
}

type TimingRepeat struct {
	BoundsPeriod *Period `json:"boundsPeriod,omitempty"`
}
