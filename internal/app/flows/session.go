package flows

import (
	"context"
	"eyebench/internal/app/services/forms"
	"eyebench/internal/app/services/registry"
	"eyebench/internal/pkg/constvars"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const encounterListCount = 20

// Session is one simulated user walking through the clinic. It carries the
// ids picked up along the way so later flows can act on the same patient
// and encounter.
type Session struct {
	Registry *registry.Service
	Forms    *forms.Service

	Identifier     string
	PatientID      string
	EncounterID    string
	PractitionerID string
	LocationID     string

	logger *zap.Logger
}

func NewSession(registryService *registry.Service, formsService *forms.Service, logger *zap.Logger) *Session {
	return &Session{
		Registry:   registryService,
		Forms:      formsService,
		Identifier: strings.ReplaceAll(uuid.NewString(), "-", ""),
		logger:     logger,
	}
}

// Start resolves the practitioner the session will act as.
func (s *Session) Start(ctx context.Context) {
	practitionerID, err := s.Registry.ChooseExistingPractitioner(ctx)
	if err == nil && practitionerID != "" {
		s.PractitionerID = practitionerID
	}
}

// choosePractitioner refreshes the acting practitioner at the start of each
// flow, keeping the previous one when the picklist query fails.
func (s *Session) choosePractitioner(ctx context.Context) string {
	practitionerID, err := s.Registry.ChooseExistingPractitioner(ctx)
	if err != nil || practitionerID == "" {
		return s.PractitionerID
	}
	return practitionerID
}

// dashboard reproduces the queries the charting UI fires when a clinician
// opens a patient: the encounter worklist, the sidebar and the summary.
func (s *Session) dashboard(ctx context.Context) {
	if _, err := s.Registry.GetEncountersWithDetails(ctx, encounterListCount); err != nil {
		s.logger.Warn("encounter worklist query failed", zap.Error(err))
	}
	if _, err := s.Registry.PatientSidebar(ctx, s.PatientID, s.EncounterID); err != nil {
		s.logger.Warn("patient sidebar query failed", zap.Error(err))
	}
	if _, err := s.Registry.PatientSummaryView(ctx, s.PatientID); err != nil {
		s.logger.Warn("patient summary query failed", zap.Error(err))
	}
}

// transferToNextRoom moves the open encounter to another seeded location.
func (s *Session) transferToNextRoom(ctx context.Context) {
	if s.EncounterID == "" {
		return
	}
	locationID, err := s.Registry.ChooseExistingLocation(ctx)
	if err != nil || locationID == "" {
		return
	}
	if err := s.Registry.TransferEncounterLocation(ctx, s.EncounterID, locationID); err != nil {
		s.logger.Warn("encounter transfer failed",
			zap.String(constvars.LoggingEncounterIDKey, s.EncounterID),
			zap.Error(err),
		)
	}
}

type formStep struct {
	name   string
	fetch  func(ctx context.Context) error
	create func(ctx context.Context) error
}

// runFormStep mirrors how the UI loads a form: fetch what exists, chart new
// data, fetch again to render the result. Failures are logged and the flow
// moves on.
func (s *Session) runFormStep(ctx context.Context, step formStep) {
	if err := step.fetch(ctx); err != nil {
		s.logger.Warn("form fetch failed", zap.String(constvars.LoggingFormKey, step.name), zap.Error(err))
	}
	if err := step.create(ctx); err != nil {
		s.logger.Warn("form create failed", zap.String(constvars.LoggingFormKey, step.name), zap.Error(err))
	}
	if err := step.fetch(ctx); err != nil {
		s.logger.Warn("form fetch failed", zap.String(constvars.LoggingFormKey, step.name), zap.Error(err))
	}
}
