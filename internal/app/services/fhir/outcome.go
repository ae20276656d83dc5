package fhir

import (
	"eyebench/internal/pkg/fhir_dto"
	"strings"

	"github.com/goccy/go-json"
)

const maxErrorDetailLength = 1000

// extractErrorDetail condenses an error response body into a single line.
// OperationOutcome issues are flattened; anything else is truncated raw.
func extractErrorDetail(body []byte) string {
	var envelope struct {
		ResourceType string `json:"resourceType"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return truncateText(string(body))
	}
	if envelope.ResourceType == "OperationOutcome" {
		var outcome fhir_dto.OperationOutcome
		if err := json.Unmarshal(body, &outcome); err == nil {
			if formatted := formatOperationOutcome(&outcome); formatted != "" {
				return formatted
			}
		}
	}
	return truncateText(string(body))
}

func formatOperationOutcome(outcome *fhir_dto.OperationOutcome) string {
	var messages []string
	for _, issue := range outcome.Issue {
		var parts []string
		if issue.Code != "" {
			parts = append(parts, issue.Code)
		}
		if issue.Details != nil && issue.Details.Text != "" {
			parts = append(parts, issue.Details.Text)
		}
		if issue.Diagnostics != "" {
			parts = append(parts, issue.Diagnostics)
		}
		if len(parts) > 0 {
			messages = append(messages, strings.Join(parts, " | "))
		}
	}
	return strings.Join(messages, "; ")
}

func truncateText(text string) string {
	if len(text) > maxErrorDetailLength {
		return text[:maxErrorDetailLength] + "...<truncated>"
	}
	return text
}
