package fhir_dto

type QuestionnaireResponse struct {
	ResourceType  string     `json:"resourceType"`
	ID            string     `json:"id,omitempty"`
	Meta          *Meta      `json:"meta,omitempty"`
	Status        string     `json:"status,omitempty"`
	Questionnaire string     `json:"questionnaire,omitempty"`
	Subject       *Reference `json:"subject,omitempty"`
	Encounter     *Reference `json:"encounter,omitempty"`
	Authored      string     `json:"authored,omitempty"`
	Author        *Reference `json:"author,omitempty"`
}
