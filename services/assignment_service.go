package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/udesh117/hackathon-system/models"
	"github.com/udesh117/hackathon-system/repositories"
)

type AssignmentPair struct {
	JudgeID int `json:"judge_id"`
	TeamID  int `json:"team_id"`
}

type ReassignInput struct {
	TeamID     int `json:"team_id"`
	OldJudgeID int `json:"old_judge_id"`
	NewJudgeID int `json:"new_judge_id"`
}

// BalanceResult reports the outcome of an auto-balance pass.
type BalanceResult struct {
	TotalRedistributed int    `json:"total_redistributed"`
	NewAssignments     int    `json:"new_assignments"`
	JudgeCount         int    `json:"judge_count"`
	Message            string `json:"message,omitempty"`
}

// AssignmentService maintains the authoritative judge-to-team pairing set
// and redistributes unfinished work across active judges.
type AssignmentService interface {
	Assign(ctx context.Context, pairs []AssignmentPair) ([]*models.Assignment, error)
	Reassign(ctx context.Context, input ReassignInput) (*models.Assignment, error)
	ListMatrix(ctx context.Context) ([]models.JudgeAssignments, error)
	ListForJudge(ctx context.Context, judgeID int) ([]models.AssignedTeam, error)
	AutoBalance(ctx context.Context) (*BalanceResult, error)
}

type assignmentService struct {
	db             *sql.DB // owns multi-statement transactions
	assignmentRepo repositories.AssignmentRepository
	evaluationRepo repositories.EvaluationRepository
	userRepo       repositories.UserRepository
	teamRepo       repositories.TeamRepository
	balanceGroup   singleflight.Group
}

func NewAssignmentService(
	db *sql.DB,
	assignmentRepo repositories.AssignmentRepository,
	evaluationRepo repositories.EvaluationRepository,
	userRepo repositories.UserRepository,
	teamRepo repositories.TeamRepository,
) AssignmentService {
	return &assignmentService{
		db:             db,
		assignmentRepo: assignmentRepo,
		evaluationRepo: evaluationRepo,
		userRepo:       userRepo,
		teamRepo:       teamRepo,
	}
}

// Assign inserts every pair in one batch. A duplicate pair fails the whole
// batch and leaves the store unchanged.
func (s *assignmentService) Assign(ctx context.Context, pairs []AssignmentPair) ([]*models.Assignment, error) {
	if len(pairs) == 0 {
		return nil, ErrNoAssignmentPairs
	}

	assignments := make([]*models.Assignment, len(pairs))
	for i, p := range pairs {
		assignments[i] = &models.Assignment{JudgeID: p.JudgeID, TeamID: p.TeamID}
	}

	if err := s.assignmentRepo.CreateBatch(ctx, nil, assignments); err != nil {
		return nil, mapAssignmentRepoError(err)
	}
	return assignments, nil
}

// Reassign moves a team's evaluation duty from one judge to another. The
// delete and the insert run in a single transaction, so a failed insert
// (for example a duplicate new pair) leaves the old assignment in place.
func (s *assignmentService) Reassign(ctx context.Context, input ReassignInput) (*models.Assignment, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin reassign transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := s.assignmentRepo.GetByJudgeAndTeam(ctx, tx, input.OldJudgeID, input.TeamID); err != nil {
		if errors.Is(err, repositories.ErrAssignmentNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}

	if err := s.assignmentRepo.DeleteByJudgeAndTeam(ctx, tx, input.OldJudgeID, input.TeamID); err != nil {
		return nil, err
	}

	assignment := &models.Assignment{JudgeID: input.NewJudgeID, TeamID: input.TeamID}
	if err := s.assignmentRepo.CreateBatch(ctx, tx, []*models.Assignment{assignment}); err != nil {
		return nil, mapAssignmentRepoError(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit reassign transaction: %w", err)
	}
	return assignment, nil
}

// ListMatrix returns every judge with their assignments, each annotated
// with the evaluation status, plus per-judge load stats.
func (s *assignmentService) ListMatrix(ctx context.Context) ([]models.JudgeAssignments, error) {
	judges, err := s.userRepo.ListJudges(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list judges: %w", err)
	}
	assignments, err := s.assignmentRepo.ListAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	statusByPair, err := s.evaluationStatusByPair(ctx)
	if err != nil {
		return nil, err
	}
	teams, err := s.teamRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	teamsByID := make(map[int]*models.Team, len(teams))
	for _, t := range teams {
		teamsByID[t.ID] = t
	}

	byJudge := make(map[int][]*models.Assignment)
	for _, a := range assignments {
		byJudge[a.JudgeID] = append(byJudge[a.JudgeID], a)
	}

	matrix := make([]models.JudgeAssignments, 0, len(judges))
	for _, judge := range judges {
		row := models.JudgeAssignments{
			JudgeID:       judge.ID,
			JudgeName:     judge.FullName(),
			Email:         judge.Email,
			IsActive:      judge.IsActive,
			TeamsAssigned: make([]models.AssignedTeam, 0),
		}
		for _, a := range byJudge[judge.ID] {
			entry := models.AssignedTeam{
				AssignmentID:     a.ID,
				TeamID:           a.TeamID,
				EvaluationStatus: models.EvaluationStatusNone,
			}
			if t, ok := teamsByID[a.TeamID]; ok {
				entry.TeamName = t.Name
				entry.TeamStatus = t.Status
			}
			if st, ok := statusByPair[pairKey{a.JudgeID, a.TeamID}]; ok {
				entry.EvaluationStatus = st
			}
			row.TeamsAssigned = append(row.TeamsAssigned, entry)

			row.LoadStats.TotalAssigned++
			if entry.EvaluationStatus == models.EvaluationStatusSubmitted {
				row.LoadStats.CompletedCount++
			} else {
				row.LoadStats.PendingCount++
			}
		}
		matrix = append(matrix, row)
	}
	return matrix, nil
}

func (s *assignmentService) ListForJudge(ctx context.Context, judgeID int) ([]models.AssignedTeam, error) {
	assignments, err := s.assignmentRepo.ListByJudge(ctx, judgeID)
	if err != nil {
		return nil, err
	}
	statusByPair, err := s.evaluationStatusByPair(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]models.AssignedTeam, 0, len(assignments))
	for _, a := range assignments {
		entry := models.AssignedTeam{
			AssignmentID:     a.ID,
			TeamID:           a.TeamID,
			EvaluationStatus: models.EvaluationStatusNone,
		}
		if team, err := s.teamRepo.GetByID(ctx, a.TeamID); err == nil {
			entry.TeamName = team.Name
			entry.TeamStatus = team.Status
		}
		if st, ok := statusByPair[pairKey{a.JudgeID, a.TeamID}]; ok {
			entry.EvaluationStatus = st
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// AutoBalance redistributes unresolved assignments evenly across active
// judges. Assignments whose evaluation is already submitted stay with the
// judge who scored them; rebalancing never revokes finished work.
//
// The delete and re-insert of the unresolved set run in one transaction,
// and concurrent calls are collapsed into a single pass.
func (s *assignmentService) AutoBalance(ctx context.Context) (*BalanceResult, error) {
	result, err, _ := s.balanceGroup.Do("auto_balance", func() (interface{}, error) {
		return s.autoBalance(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.(*BalanceResult), nil
}

func (s *assignmentService) autoBalance(ctx context.Context) (*BalanceResult, error) {
	judges, err := s.userRepo.ListJudges(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list active judges: %w", err)
	}
	assignments, err := s.assignmentRepo.ListAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	statusByPair, err := s.evaluationStatusByPair(ctx)
	if err != nil {
		return nil, err
	}

	// Both lists arrive ordered by id ASC, so the same stored state always
	// produces the same distribution.
	unresolved := make([]*models.Assignment, 0, len(assignments))
	for _, a := range assignments {
		if statusByPair[pairKey{a.JudgeID, a.TeamID}] != models.EvaluationStatusSubmitted {
			unresolved = append(unresolved, a)
		}
	}

	if len(unresolved) == 0 {
		return &BalanceResult{Message: "nothing to rebalance"}, nil
	}
	if len(judges) == 0 {
		return &BalanceResult{Message: "no active judges"}, nil
	}

	n, j := len(unresolved), len(judges)
	base, remainder := n/j, n%j

	newAssignments := make([]*models.Assignment, 0, n)
	deleteIDs := make([]int, 0, n)
	next := 0
	for i, judge := range judges {
		load := base
		if i < remainder {
			load++
		}
		for k := 0; k < load; k++ {
			newAssignments = append(newAssignments, &models.Assignment{
				JudgeID: judge.ID,
				TeamID:  unresolved[next].TeamID,
			})
			next++
		}
	}
	for _, a := range unresolved {
		deleteIDs = append(deleteIDs, a.ID)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin balance transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.assignmentRepo.DeleteByIDs(ctx, tx, deleteIDs); err != nil {
		return nil, fmt.Errorf("failed to clear unresolved assignments: %w", err)
	}
	if err := s.assignmentRepo.CreateBatch(ctx, tx, newAssignments); err != nil {
		return nil, mapAssignmentRepoError(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit balance transaction: %w", err)
	}

	return &BalanceResult{
		TotalRedistributed: n,
		NewAssignments:     len(newAssignments),
		JudgeCount:         j,
	}, nil
}

type pairKey struct {
	judgeID int
	teamID  int
}

func (s *assignmentService) evaluationStatusByPair(ctx context.Context) (map[pairKey]models.EvaluationStatus, error) {
	evaluations, err := s.evaluationRepo.ListAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluations: %w", err)
	}
	statuses := make(map[pairKey]models.EvaluationStatus, len(evaluations))
	for _, e := range evaluations {
		statuses[pairKey{e.JudgeID, e.TeamID}] = e.Status
	}
	return statuses, nil
}

func mapAssignmentRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrAssignmentPairConflict):
		return ErrAssignmentConflict
	case errors.Is(err, repositories.ErrAssignmentRefInvalid):
		return ErrAssignmentRefBroken
	default:
		return err
	}
}
