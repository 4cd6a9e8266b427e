package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/udesh117/hackathon-system/models"
	"github.com/udesh117/hackathon-system/repositories"
)

// EvaluationService drives a judge's scoring record for one team through
// none -> draft -> submitted. An admin lock freezes the record in any state
// and is re-checked on every call, never cached.
type EvaluationService interface {
	Get(ctx context.Context, judgeID, teamID int) (*models.Evaluation, error)
	SaveDraft(ctx context.Context, judgeID, teamID int, input EvaluationInput) (*models.Evaluation, error)
	Submit(ctx context.Context, judgeID, teamID int, input EvaluationInput) (*models.Evaluation, error)
	Update(ctx context.Context, judgeID, teamID int, input EvaluationInput) (*models.Evaluation, error)
	SetLocked(ctx context.Context, judgeID, teamID int, locked bool) error
}

type evaluationService struct {
	evaluationRepo repositories.EvaluationRepository
	assignmentRepo repositories.AssignmentRepository
	submissionRepo repositories.SubmissionRepository
	scoreService   ScoreService
	validate       *validator.Validate
	logger         *slog.Logger
}

func NewEvaluationService(
	evaluationRepo repositories.EvaluationRepository,
	assignmentRepo repositories.AssignmentRepository,
	submissionRepo repositories.SubmissionRepository,
	scoreService ScoreService,
	logger *slog.Logger,
) EvaluationService {
	return &evaluationService{
		evaluationRepo: evaluationRepo,
		assignmentRepo: assignmentRepo,
		submissionRepo: submissionRepo,
		scoreService:   scoreService,
		validate:       newValidator(),
		logger:         logger,
	}
}

// Get returns the stored evaluation, or a synthetic record with status
// "none" when the judge has not saved anything for the team yet.
func (s *evaluationService) Get(ctx context.Context, judgeID, teamID int) (*models.Evaluation, error) {
	if _, err := s.assignmentRepo.GetByJudgeAndTeam(ctx, nil, judgeID, teamID); err != nil {
		if errors.Is(err, repositories.ErrAssignmentNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}

	evaluation, err := s.evaluationRepo.GetByJudgeAndTeam(ctx, nil, judgeID, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrEvaluationNotFound) {
			return &models.Evaluation{
				JudgeID: judgeID,
				TeamID:  teamID,
				Status:  models.EvaluationStatusNone,
			}, nil
		}
		return nil, err
	}
	return evaluation, nil
}

// checkPreconditions verifies the assignment exists and the team's
// submission is finalized, the two facts that gate evaluation creation.
func (s *evaluationService) checkPreconditions(ctx context.Context, judgeID, teamID int) error {
	if _, err := s.assignmentRepo.GetByJudgeAndTeam(ctx, nil, judgeID, teamID); err != nil {
		if errors.Is(err, repositories.ErrAssignmentNotFound) {
			return ErrAssignmentNotFound
		}
		return fmt.Errorf("failed to check assignment for judge %d team %d: %w", judgeID, teamID, err)
	}

	submission, err := s.submissionRepo.GetByTeam(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrSubmissionNotFound) {
			return ErrSubmissionNotFinal
		}
		return fmt.Errorf("failed to check submission for team %d: %w", teamID, err)
	}
	if submission.Status != models.SubmissionStatusSubmitted {
		return ErrSubmissionNotFinal
	}
	return nil
}

func (s *evaluationService) SaveDraft(ctx context.Context, judgeID, teamID int, input EvaluationInput) (*models.Evaluation, error) {
	if err := s.checkPreconditions(ctx, judgeID, teamID); err != nil {
		return nil, err
	}
	if err := validateEvaluationInput(s.validate, input, false); err != nil {
		return nil, err
	}

	current, err := s.evaluationRepo.GetByJudgeAndTeam(ctx, nil, judgeID, teamID)
	if err != nil && !errors.Is(err, repositories.ErrEvaluationNotFound) {
		return nil, err
	}
	if current != nil {
		if current.IsLockedByAdmin {
			return nil, ErrEvaluationLocked
		}
		// A finalized record cannot be regressed to a draft.
		if current.Status == models.EvaluationStatusSubmitted {
			return nil, ErrEvaluationAlreadySubmitted
		}
	}

	evaluation := &models.Evaluation{
		JudgeID:           judgeID,
		TeamID:            teamID,
		ScoreInnovation:   input.ScoreInnovation,
		ScoreFeasibility:  input.ScoreFeasibility,
		ScoreExecution:    input.ScoreExecution,
		ScorePresentation: input.ScorePresentation,
		Comments:          input.Comments,
		Status:            models.EvaluationStatusDraft,
	}
	if err := s.evaluationRepo.Upsert(ctx, nil, evaluation); err != nil {
		return nil, fmt.Errorf("failed to save evaluation draft: %w", err)
	}
	return evaluation, nil
}

func (s *evaluationService) Submit(ctx context.Context, judgeID, teamID int, input EvaluationInput) (*models.Evaluation, error) {
	if err := s.checkPreconditions(ctx, judgeID, teamID); err != nil {
		return nil, err
	}
	if err := validateEvaluationInput(s.validate, input, true); err != nil {
		return nil, err
	}

	current, err := s.evaluationRepo.GetByJudgeAndTeam(ctx, nil, judgeID, teamID)
	if err != nil && !errors.Is(err, repositories.ErrEvaluationNotFound) {
		return nil, err
	}
	if current != nil {
		if current.IsLockedByAdmin {
			return nil, ErrEvaluationLocked
		}
		if current.Status == models.EvaluationStatusSubmitted {
			return nil, ErrEvaluationAlreadySubmitted
		}
	}

	now := time.Now()
	evaluation := &models.Evaluation{
		JudgeID:           judgeID,
		TeamID:            teamID,
		ScoreInnovation:   input.ScoreInnovation,
		ScoreFeasibility:  input.ScoreFeasibility,
		ScoreExecution:    input.ScoreExecution,
		ScorePresentation: input.ScorePresentation,
		Comments:          input.Comments,
		Status:            models.EvaluationStatusSubmitted,
		SubmittedAt:       &now,
	}
	if err := s.evaluationRepo.Upsert(ctx, nil, evaluation); err != nil {
		return nil, fmt.Errorf("failed to submit evaluation: %w", err)
	}

	s.recomputeAsync(teamID)
	return evaluation, nil
}

// Update edits the content of an already submitted evaluation without
// changing its status or submission time.
func (s *evaluationService) Update(ctx context.Context, judgeID, teamID int, input EvaluationInput) (*models.Evaluation, error) {
	if err := validateEvaluationInput(s.validate, input, true); err != nil {
		return nil, err
	}

	current, err := s.evaluationRepo.GetByJudgeAndTeam(ctx, nil, judgeID, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrEvaluationNotFound) {
			return nil, ErrEvaluationNotFound
		}
		return nil, err
	}
	if current.IsLockedByAdmin {
		return nil, ErrEvaluationLocked
	}
	if current.Status != models.EvaluationStatusSubmitted {
		return nil, ErrEvaluationNotSubmitted
	}

	current.ScoreInnovation = input.ScoreInnovation
	current.ScoreFeasibility = input.ScoreFeasibility
	current.ScoreExecution = input.ScoreExecution
	current.ScorePresentation = input.ScorePresentation
	current.Comments = input.Comments

	if err := s.evaluationRepo.Upsert(ctx, nil, current); err != nil {
		return nil, fmt.Errorf("failed to update evaluation: %w", err)
	}

	s.recomputeAsync(teamID)
	return current, nil
}

func (s *evaluationService) SetLocked(ctx context.Context, judgeID, teamID int, locked bool) error {
	err := s.evaluationRepo.SetLocked(ctx, judgeID, teamID, locked)
	if errors.Is(err, repositories.ErrEvaluationNotFound) {
		return ErrEvaluationNotFound
	}
	return err
}

// recomputeAsync refreshes the team aggregate in the background. The
// evaluation record is the authoritative fact; the aggregate is derived and
// recomputable, so a failure here is logged and never fails the caller.
func (s *evaluationService) recomputeAsync(teamID int) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.scoreService.RecomputeTeam(ctx, teamID); err != nil {
			s.logger.Error("failed to recompute team score after evaluation write",
				slog.Int("team_id", teamID), slog.Any("error", err))
		}
	}()
}
