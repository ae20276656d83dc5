package flows

import (
	"context"
	"eyebench/internal/pkg/constvars"
)

// PGP records the prescription of the glasses the patient already wears.
func (s *Session) PGP(ctx context.Context) {
	practitionerID := s.choosePractitioner(ctx)
	s.dashboard(ctx)

	s.runFormStep(ctx, formStep{
		name: constvars.FormCodePGP,
		fetch: func(ctx context.Context) error {
			_, err := s.Forms.FetchPGP(ctx, s.PatientID, "")
			return err
		},
		create: func(ctx context.Context) error {
			_, err := s.Forms.CreatePGPForm(ctx, s.PatientID, s.EncounterID, practitionerID)
			return err
		},
	})

	s.transferToNextRoom(ctx)
}
