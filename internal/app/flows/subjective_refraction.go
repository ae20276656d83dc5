package flows

import (
	"context"
	"eyebench/internal/pkg/constvars"
)

// SubjectiveRefraction is the trial-frame room: the refractionist charts
// subjective acuities, treatment history and presenting complaints.
func (s *Session) SubjectiveRefraction(ctx context.Context) {
	practitionerID := s.choosePractitioner(ctx)
	s.dashboard(ctx)

	s.runFormStep(ctx, formStep{
		name: constvars.FormCodeSubjective,
		fetch: func(ctx context.Context) error {
			_, err := s.Forms.FetchSubjectiveRefraction(ctx, s.PatientID, "")
			return err
		},
		create: func(ctx context.Context) error {
			_, err := s.Forms.CreateSubjectiveRefractionForm(ctx, s.PatientID, s.EncounterID, practitionerID)
			return err
		},
	})

	s.runFormStep(ctx, formStep{
		name: constvars.FormCodeHistory,
		fetch: func(ctx context.Context) error {
			_, err := s.Forms.FetchHistory(ctx, s.PatientID, "")
			return err
		},
		create: func(ctx context.Context) error {
			_, err := s.Forms.CreateHistoryForm(ctx, s.PatientID, s.EncounterID, practitionerID)
			return err
		},
	})

	s.runFormStep(ctx, formStep{
		name: constvars.FormCodeComplaints,
		fetch: func(ctx context.Context) error {
			_, err := s.Forms.FetchComplaints(ctx, s.PatientID, "")
			return err
		},
		create: func(ctx context.Context) error {
			_, err := s.Forms.CreateComplaintsForm(ctx, s.PatientID, s.EncounterID, practitionerID)
			return err
		},
	})

	s.transferToNextRoom(ctx)
}
