package registry

import (
	"eyebench/internal/app/services/fhir"

	"go.uber.org/zap"
)

// Service looks up and provisions the demographic resources every journey
// needs before form entry can start: Patient, Practitioner, Location and
// the Encounter that ties them together.
type Service struct {
	client *fhir.Client
	logger *zap.Logger
}

func NewService(client *fhir.Client, logger *zap.Logger) *Service {
	return &Service{client: client, logger: logger}
}
