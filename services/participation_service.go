package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Aidana07/volunteer-hub/models"
	"github.com/Aidana07/volunteer-hub/reconcile"
	"github.com/Aidana07/volunteer-hub/repositories"
	"golang.org/x/sync/errgroup"
)

// ParticipationView is the reconciled dashboard payload for one user.
// Warnings carries human-readable descriptions of source fetches that
// failed; the affected source contributes no records but the view is still
// produced.
type ParticipationView struct {
	Participations []reconcile.Participation `json:"participations"`
	Stats          models.VolunteerStats     `json:"stats"`
	Evaluations    []models.Evaluation       `json:"evaluations"`
	Warnings       []string                  `json:"warnings,omitempty"`
}

type ParticipationService interface {
	// GetParticipationView fetches the user's team memberships, captained
	// teams, open direct registrations and received evaluations
	// concurrently, then reconciles them into one deduplicated
	// participation list with derived statistics. A failed fetch degrades
	// to empty data for that source and a warning; it never fails the view.
	GetParticipationView(ctx context.Context, userID int) (*ParticipationView, error)
}

type participationService struct {
	membershipRepo   repositories.MembershipRepository
	teamRepo         repositories.TeamRepository
	registrationRepo repositories.RegistrationRepository
	evaluationRepo   repositories.EvaluationRepository
	logger           *slog.Logger
	now              func() time.Time
}

func NewParticipationService(
	membershipRepo repositories.MembershipRepository,
	teamRepo repositories.TeamRepository,
	registrationRepo repositories.RegistrationRepository,
	evaluationRepo repositories.EvaluationRepository,
	logger *slog.Logger,
) ParticipationService {
	return &participationService{
		membershipRepo:   membershipRepo,
		teamRepo:         teamRepo,
		registrationRepo: registrationRepo,
		evaluationRepo:   evaluationRepo,
		logger:           logger,
		now:              time.Now,
	}
}

func (s *participationService) GetParticipationView(ctx context.Context, userID int) (*ParticipationView, error) {
	var (
		memberships   []models.TeamMembership
		captained     []models.Team
		registrations []models.Registration
		evaluations   []models.Evaluation

		membershipErr   error
		captainedErr    error
		registrationErr error
		evaluationErr   error
	)

	// Each goroutine records its failure instead of returning it, so one
	// broken source cannot cancel the others.
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// All statuses: the reconciler decides how inactive memberships
		// rank and what they contribute to the statistics.
		memberships, membershipErr = s.membershipRepo.ListByUser(gCtx, userID, nil)
		return nil
	})
	g.Go(func() error {
		captained, captainedErr = s.teamRepo.ListCaptainedByUser(gCtx, userID)
		return nil
	})
	g.Go(func() error {
		registrations, registrationErr = s.registrationRepo.ListByUserAndStatuses(gCtx, userID,
			[]models.RegistrationStatus{models.RegistrationStatusPending, models.RegistrationStatusConfirmed})
		return nil
	})
	g.Go(func() error {
		evaluations, evaluationErr = s.evaluationRepo.ListReceivedByUser(gCtx, userID)
		return nil
	})

	if err := g.Wait(); err != nil {
		// Unreachable: the goroutines never return errors. Kept so a
		// future fatal path is not silently ignored.
		return nil, fmt.Errorf("failed to gather participation sources: %w", err)
	}

	view := &ParticipationView{}
	for _, sourceFailure := range []struct {
		name string
		err  error
	}{
		{"team memberships", membershipErr},
		{"captained teams", captainedErr},
		{"registrations", registrationErr},
		{"evaluations", evaluationErr},
	} {
		if sourceFailure.err == nil {
			continue
		}
		s.logger.Error("participation source fetch failed",
			slog.String("source", sourceFailure.name),
			slog.Int("user_id", userID),
			slog.Any("error", sourceFailure.err))
		view.Warnings = append(view.Warnings,
			fmt.Sprintf("could not load %s; showing partial data", sourceFailure.name))
	}

	now := s.now()
	view.Participations = reconcile.Merge(memberships, captained, registrations, now)
	view.Stats = reconcile.ComputeStats(view.Participations, evaluations, now)
	view.Evaluations = evaluations
	if view.Evaluations == nil {
		view.Evaluations = []models.Evaluation{}
	}
	return view, nil
}
