package flows

import (
	"context"
	"eyebench/internal/pkg/constvars"

	"go.uber.org/zap"
)

// Prescription is the doctor's final consult: glasses, medication, the
// surgical note and any referral, closing with the discharge.
func (s *Session) Prescription(ctx context.Context) {
	practitionerID := s.choosePractitioner(ctx)
	s.dashboard(ctx)

	s.runFormStep(ctx, formStep{
		name: constvars.FormCodeGlasses,
		fetch: func(ctx context.Context) error {
			_, err := s.Forms.FetchGlassPrescription(ctx, s.PatientID, "")
			return err
		},
		create: func(ctx context.Context) error {
			_, err := s.Forms.CreateGlassPrescriptionForm(ctx, s.PatientID, s.EncounterID, practitionerID)
			return err
		},
	})

	s.runFormStep(ctx, formStep{
		name: constvars.FormCodeDrugs,
		fetch: func(ctx context.Context) error {
			_, err := s.Forms.FetchDrugPrescription(ctx, s.PatientID, "")
			return err
		},
		create: func(ctx context.Context) error {
			_, err := s.Forms.CreateDrugPrescriptionForm(ctx, s.PatientID, s.EncounterID, practitionerID)
			return err
		},
	})

	s.runFormStep(ctx, formStep{
		name: constvars.FormCodeSurgicalNote,
		fetch: func(ctx context.Context) error {
			_, err := s.Forms.FetchSurgicalNotes(ctx, s.PatientID, "")
			return err
		},
		create: func(ctx context.Context) error {
			_, err := s.Forms.CreateSurgicalNotesForm(ctx, s.PatientID, s.EncounterID, practitionerID)
			return err
		},
	})

	s.runFormStep(ctx, formStep{
		name: constvars.FormCodeReferral,
		fetch: func(ctx context.Context) error {
			_, err := s.Forms.FetchReferral(ctx, s.PatientID, "")
			return err
		},
		create: func(ctx context.Context) error {
			_, err := s.Forms.CreateReferralForm(ctx, s.PatientID, s.EncounterID, practitionerID)
			return err
		},
	})

	if s.EncounterID != "" {
		if err := s.Registry.DischargeEncounter(ctx, s.EncounterID); err != nil {
			s.logger.Warn("discharge failed",
				zap.String(constvars.LoggingEncounterIDKey, s.EncounterID),
				zap.Error(err),
			)
		}
	}
}
