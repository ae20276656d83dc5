package flows

import (
	"context"
	"eyebench/internal/pkg/constvars"
)

// Refraction covers the optometry room: machine refraction, pressures,
// vitals screening and the slit-lamp exams, then hands the patient to the
// next room.
func (s *Session) Refraction(ctx context.Context) {
	practitionerID := s.choosePractitioner(ctx)
	s.dashboard(ctx)

	s.runFormStep(ctx, formStep{
		name: constvars.FormCodeAutoRef,
		fetch: func(ctx context.Context) error {
			_, err := s.Forms.FetchAutoRefractometer(ctx, s.PatientID, s.EncounterID)
			return err
		},
		create: func(ctx context.Context) error {
			_, err := s.Forms.CreateAutoRefractometerForm(ctx, s.PatientID, s.EncounterID, practitionerID)
			return err
		},
	})

	s.runFormStep(ctx, formStep{
		name: constvars.FormCodeIOP,
		fetch: func(ctx context.Context) error {
			_, err := s.Forms.FetchIOP(ctx, s.PatientID, s.EncounterID)
			return err
		},
		create: func(ctx context.Context) error {
			_, err := s.Forms.CreateIOPForm(ctx, s.PatientID, s.EncounterID, practitionerID)
			return err
		},
	})

	s.runFormStep(ctx, formStep{
		name: constvars.FormCodeScreening,
		fetch: func(ctx context.Context) error {
			_, err := s.Forms.FetchScreening(ctx, s.PatientID, "")
			return err
		},
		create: func(ctx context.Context) error {
			_, err := s.Forms.CreateScreeningForm(ctx, s.PatientID, s.EncounterID, practitionerID)
			return err
		},
	})

	s.runFormStep(ctx, formStep{
		name: constvars.FormCodeAnterior,
		fetch: func(ctx context.Context) error {
			_, err := s.Forms.FetchAnteriorChamber(ctx, s.PatientID, "")
			return err
		},
		create: func(ctx context.Context) error {
			_, err := s.Forms.CreateAnteriorChamberForm(ctx, s.PatientID, s.EncounterID, practitionerID)
			return err
		},
	})

	s.runFormStep(ctx, formStep{
		name: constvars.FormCodePosterior,
		fetch: func(ctx context.Context) error {
			_, err := s.Forms.FetchPosteriorChamber(ctx, s.PatientID, "")
			return err
		},
		create: func(ctx context.Context) error {
			_, err := s.Forms.CreatePosteriorChamberForm(ctx, s.PatientID, s.EncounterID, practitionerID)
			return err
		},
	})

	s.transferToNextRoom(ctx)
}
