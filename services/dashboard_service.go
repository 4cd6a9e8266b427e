package services

import (
	"context"

	"github.com/udesh117/hackathon-system/models"
	"github.com/udesh117/hackathon-system/repositories"
)

type DashboardService interface {
	GetStats(ctx context.Context) (models.DashboardStats, error)
}

type dashboardService struct {
	userRepo       repositories.UserRepository
	teamRepo       repositories.TeamRepository
	submissionRepo repositories.SubmissionRepository
	assignmentRepo repositories.AssignmentRepository
	evaluationRepo repositories.EvaluationRepository
}

func NewDashboardService(
	userRepo repositories.UserRepository,
	teamRepo repositories.TeamRepository,
	submissionRepo repositories.SubmissionRepository,
	assignmentRepo repositories.AssignmentRepository,
	evaluationRepo repositories.EvaluationRepository,
) DashboardService {
	return &dashboardService{
		userRepo:       userRepo,
		teamRepo:       teamRepo,
		submissionRepo: submissionRepo,
		assignmentRepo: assignmentRepo,
		evaluationRepo: evaluationRepo,
	}
}

func (s *dashboardService) GetStats(ctx context.Context) (models.DashboardStats, error) {
	verified := models.TeamStatusVerified
	pending := models.TeamStatusPending
	final := models.SubmissionStatusSubmitted

	participantsTotal, _ := s.userRepo.CountByRole(ctx, models.RoleParticipant, false)
	judgesTotal, _ := s.userRepo.CountByRole(ctx, models.RoleJudge, false)
	activeJudges, _ := s.userRepo.CountByRole(ctx, models.RoleJudge, true)
	teamsTotal, _ := s.teamRepo.CountByStatus(ctx, nil)
	verifiedTeams, _ := s.teamRepo.CountByStatus(ctx, &verified)
	pendingTeams, _ := s.teamRepo.CountByStatus(ctx, &pending)
	submissionsTotal, _ := s.submissionRepo.CountByStatus(ctx, nil)
	finalSubmissions, _ := s.submissionRepo.CountByStatus(ctx, &final)
	assignmentsTotal, _ := s.assignmentRepo.Count(ctx)
	evaluationsSubmitted, _ := s.evaluationRepo.CountByStatus(ctx, models.EvaluationStatusSubmitted)

	return models.DashboardStats{
		ParticipantsTotal:    participantsTotal,
		JudgesTotal:          judgesTotal,
		ActiveJudges:         activeJudges,
		TeamsTotal:           teamsTotal,
		VerifiedTeams:        verifiedTeams,
		PendingTeams:         pendingTeams,
		SubmissionsTotal:     submissionsTotal,
		FinalSubmissions:     finalSubmissions,
		AssignmentsTotal:     assignmentsTotal,
		EvaluationsSubmitted: evaluationsSubmitted,
	}, nil
}
