package flows

import (
	"context"
	"eyebench/internal/pkg/constvars"

	"go.uber.org/zap"
)

// Registration checks the patient in: look up or register the patient,
// resolve the attending practitioner and room, and open an encounter.
// Without a patient the session cannot continue, so that failure is
// returned.
func (s *Session) Registration(ctx context.Context) error {
	if _, err := s.Registry.GetEncountersWithDetails(ctx, encounterListCount); err != nil {
		s.logger.Warn("encounter worklist query failed", zap.Error(err))
	}

	patientID, err := s.Registry.GetOrCreatePatientByIdentifier(ctx, s.Identifier)
	if err != nil {
		return err
	}
	s.PatientID = patientID

	practitionerID, err := s.Registry.GetOrCreatePractitioner(ctx)
	if err != nil {
		s.logger.Warn("practitioner lookup failed", zap.Error(err))
	} else {
		s.PractitionerID = practitionerID
	}

	locationID, err := s.Registry.GetOrCreateLocation(ctx)
	if err != nil {
		s.logger.Warn("location lookup failed", zap.Error(err))
	} else {
		s.LocationID = locationID
	}

	encounterID, err := s.Registry.CreateEncounter(ctx, s.PatientID, s.PractitionerID, s.LocationID)
	if err != nil {
		s.logger.Warn("encounter creation failed",
			zap.String(constvars.LoggingPatientIDKey, s.PatientID),
			zap.Error(err),
		)
		return nil
	}
	s.EncounterID = encounterID
	s.logger.Info("patient registered",
		zap.String(constvars.LoggingPatientIDKey, s.PatientID),
		zap.String(constvars.LoggingEncounterIDKey, s.EncounterID),
		zap.String(constvars.LoggingLocationIDKey, s.LocationID),
	)
	return nil
}
