package services

import (
	"context"

	"github.com/Aidana07/volunteer-hub/models"
	"github.com/Aidana07/volunteer-hub/repositories"
)

type DashboardService interface {
	GetStats(ctx context.Context) (models.DashboardStats, error)
}

type dashboardService struct {
	userRepo         repositories.UserRepository
	eventRepo        repositories.EventRepository
	teamRepo         repositories.TeamRepository
	registrationRepo repositories.RegistrationRepository
	evaluationRepo   repositories.EvaluationRepository
}

func NewDashboardService(
	userRepo repositories.UserRepository,
	eventRepo repositories.EventRepository,
	teamRepo repositories.TeamRepository,
	registrationRepo repositories.RegistrationRepository,
	evaluationRepo repositories.EvaluationRepository,
) DashboardService {
	return &dashboardService{
		userRepo:         userRepo,
		eventRepo:        eventRepo,
		teamRepo:         teamRepo,
		registrationRepo: registrationRepo,
		evaluationRepo:   evaluationRepo,
	}
}

func (s *dashboardService) GetStats(ctx context.Context) (models.DashboardStats, error) {
	published := models.EventStatusPublished

	usersTotal, _ := s.userRepo.Count(ctx)
	eventsTotal, _ := s.eventRepo.Count(ctx, nil)
	activeEvents, _ := s.eventRepo.Count(ctx, &published)
	registrationsTotal, _ := s.registrationRepo.Count(ctx)
	teamsTotal, _ := s.teamRepo.Count(ctx)
	evaluationsTotal, _ := s.evaluationRepo.Count(ctx)

	return models.DashboardStats{
		UsersTotal:         usersTotal,
		EventsTotal:        eventsTotal,
		ActiveEvents:       activeEvents,
		RegistrationsTotal: registrationsTotal,
		TeamsTotal:         teamsTotal,
		EvaluationsTotal:   evaluationsTotal,
	}, nil
}
