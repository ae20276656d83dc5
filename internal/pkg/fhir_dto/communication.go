package fhir_dto

type Communication struct {
	ResourceType          string                 `json:"resourceType"`
	ID                    string                 `json:"id,omitempty"`
	Meta                  *Meta                  `json:"meta,omitempty"`
	Status                string                 `json:"status,omitempty"`
	Subject               *Reference             `json:"subject,omitempty"`
	Encounter             *Reference             `json:"encounter,omitempty"`
	Sent                  string                 `json:"sent,omitempty"`
	Sender                *Reference             `json:"sender,omitempty"`
	BasedOn               []Reference            `json:"basedOn,omitempty"`
	SupportingInformation []Reference            `json:"supportingInformation,omitempty"`
	Payload               []CommunicationPayload `json:"payload,omitempty"`
}

type CommunicationPayload struct {
	ContentString string `json:"contentString,omitempty"`
}
