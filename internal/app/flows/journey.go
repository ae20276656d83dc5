package flows

import (
	"context"
	"eyebench/internal/pkg/constvars"

	"go.uber.org/zap"
)

// PatientMovement walks one patient through the whole clinic in the order
// the rooms see them: registration, refraction, subjective refraction,
// PGP, lab and the final prescription consult.
func (s *Session) PatientMovement(ctx context.Context) error {
	if err := s.Registration(ctx); err != nil {
		s.logger.Error("registration failed, skipping iteration", zap.Error(err))
		return err
	}
	if s.PatientID == "" {
		return nil
	}

	steps := []struct {
		name string
		run  func(ctx context.Context)
	}{
		{"refraction", s.Refraction},
		{"subjective_refraction", s.SubjectiveRefraction},
		{"pgp", s.PGP},
		{"lab", s.Lab},
		{"prescription", s.Prescription},
	}
	for _, step := range steps {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Debug("flow start", zap.String(constvars.LoggingFlowKey, step.name))
		step.run(ctx)
	}
	return nil
}
