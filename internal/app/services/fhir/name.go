package fhir

import (
	"strings"

	"github.com/goccy/go-json"
)

// CanonicalName maps a request onto a stable metric name so samples
// aggregate by operation rather than by concrete resource id.
// "Patient/123" becomes "patient by id", "Observation?..." becomes
// "observation search", a transaction bundle POSTed to the root becomes
// "transaction".
func CanonicalName(method, path string, body []byte) string {
	normalized := strings.TrimLeft(path, "/")
	if normalized == "" {
		return nameForRoot(body)
	}
	if normalized == "metadata" {
		return "capability statement"
	}
	parts := strings.Split(normalized, "/")
	first := parts[0]
	if strings.HasPrefix(first, "$") {
		return "system operation " + first
	}
	resource := strings.ToLower(first)
	if len(parts) == 1 {
		return nameForType(method, resource)
	}
	if strings.HasPrefix(parts[1], "$") {
		return resource + " operation " + parts[1]
	}
	if len(parts) == 2 {
		return nameForInstance(method, resource)
	}
	return nameForInstanceSubpath(method, resource, parts[2])
}

func nameForRoot(body []byte) string {
	if len(body) > 0 {
		var envelope struct {
			ResourceType string `json:"resourceType"`
			Type         string `json:"type"`
		}
		if err := json.Unmarshal(body, &envelope); err == nil && envelope.ResourceType == "Bundle" {
			if envelope.Type == "batch" || envelope.Type == "transaction" {
				return envelope.Type
			}
		}
	}
	return "root"
}

func nameForType(method, resource string) string {
	switch method {
	case "GET":
		return resource + " search"
	case "POST":
		return resource + " create"
	}
	return resource + " " + strings.ToLower(method)
}

func nameForInstance(method, resource string) string {
	switch method {
	case "GET":
		return resource + " by id"
	case "PUT":
		return resource + " update"
	case "PATCH":
		return resource + " patch"
	case "DELETE":
		return resource + " delete"
	}
	return resource + " " + strings.ToLower(method) + " by id"
}

func nameForInstanceSubpath(method, resource, subpath string) string {
	if strings.HasPrefix(subpath, "$") {
		return resource + " instance operation " + subpath
	}
	if strings.HasPrefix(subpath, "_history") {
		return resource + " history"
	}
	return resource + " " + strings.ToLower(method)
}
