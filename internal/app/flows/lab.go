package flows

import (
	"context"
	"eyebench/internal/pkg/constvars"
)

// Lab covers the investigation room: lab results, free-text notes and the
// ocular biometry panel before the patient sees the surgeon.
func (s *Session) Lab(ctx context.Context) {
	practitionerID := s.choosePractitioner(ctx)
	s.dashboard(ctx)

	s.runFormStep(ctx, formStep{
		name: constvars.FormCodeLab,
		fetch: func(ctx context.Context) error {
			_, err := s.Forms.FetchLab(ctx, s.PatientID, "")
			return err
		},
		create: func(ctx context.Context) error {
			_, err := s.Forms.CreateLabForm(ctx, s.PatientID, s.EncounterID, practitionerID)
			return err
		},
	})

	s.runFormStep(ctx, formStep{
		name: constvars.FormCodeFreeText,
		fetch: func(ctx context.Context) error {
			_, err := s.Forms.FetchFreeText(ctx, s.PatientID, "")
			return err
		},
		create: func(ctx context.Context) error {
			_, err := s.Forms.CreateFreeTextForm(ctx, s.PatientID, s.EncounterID, practitionerID)
			return err
		},
	})

	s.runFormStep(ctx, formStep{
		name: constvars.FormCodeAScan,
		fetch: func(ctx context.Context) error {
			_, err := s.Forms.FetchAScan(ctx, s.PatientID, "")
			return err
		},
		create: func(ctx context.Context) error {
			_, err := s.Forms.CreateAScanForm(ctx, s.PatientID, s.EncounterID, practitionerID)
			return err
		},
	})

	s.transferToNextRoom(ctx)
}
