package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/udesh117/hackathon-system/models"
)

var (
	ErrEvaluationNotFound   = errors.New("evaluation not found")
	ErrEvaluationRefInvalid = errors.New("evaluation judge or team invalid")
)

type EvaluationRepository interface {
	GetByJudgeAndTeam(ctx context.Context, exec SQLExecutor, judgeID, teamID int) (*models.Evaluation, error)
	// Upsert writes the full record for a (judge, team) pair, creating it on
	// first draft save.
	Upsert(ctx context.Context, exec SQLExecutor, evaluation *models.Evaluation) error
	ListByTeam(ctx context.Context, teamID int, status *models.EvaluationStatus) ([]*models.Evaluation, error)
	// ListAll feeds the assignment matrix and the balancer; only identity
	// and status fields are guaranteed to be populated on each row.
	ListAll(ctx context.Context, exec SQLExecutor) ([]*models.Evaluation, error)
	SetLocked(ctx context.Context, judgeID, teamID int, locked bool) error
	CountByStatus(ctx context.Context, status models.EvaluationStatus) (int, error)
}

type postgresEvaluationRepository struct {
	db *sql.DB
}

func NewPostgresEvaluationRepository(db *sql.DB) EvaluationRepository {
	return &postgresEvaluationRepository{db: db}
}

func (r *postgresEvaluationRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const evaluationColumns = `id, judge_id, team_id, score_innovation, score_feasibility, score_execution, score_presentation, comments, status, is_locked_by_admin, submitted_at, updated_at`

func (r *postgresEvaluationRepository) scanEvaluation(rowScanner interface{ Scan(...interface{}) error }) (*models.Evaluation, error) {
	var e models.Evaluation
	err := rowScanner.Scan(
		&e.ID, &e.JudgeID, &e.TeamID,
		&e.ScoreInnovation, &e.ScoreFeasibility, &e.ScoreExecution, &e.ScorePresentation,
		&e.Comments, &e.Status, &e.IsLockedByAdmin, &e.SubmittedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEvaluationNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *postgresEvaluationRepository) GetByJudgeAndTeam(ctx context.Context, exec SQLExecutor, judgeID, teamID int) (*models.Evaluation, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + evaluationColumns + ` FROM evaluations WHERE judge_id = $1 AND team_id = $2`
	return r.scanEvaluation(executor.QueryRowContext(ctx, query, judgeID, teamID))
}

func (r *postgresEvaluationRepository) Upsert(ctx context.Context, exec SQLExecutor, evaluation *models.Evaluation) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO evaluations
			(judge_id, team_id, score_innovation, score_feasibility, score_execution, score_presentation,
			 comments, status, is_locked_by_admin, submitted_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		ON CONFLICT (judge_id, team_id) DO UPDATE SET
			score_innovation = EXCLUDED.score_innovation,
			score_feasibility = EXCLUDED.score_feasibility,
			score_execution = EXCLUDED.score_execution,
			score_presentation = EXCLUDED.score_presentation,
			comments = EXCLUDED.comments,
			status = EXCLUDED.status,
			is_locked_by_admin = EXCLUDED.is_locked_by_admin,
			submitted_at = EXCLUDED.submitted_at,
			updated_at = NOW()
		RETURNING id, updated_at`

	err := executor.QueryRowContext(ctx, query,
		evaluation.JudgeID, evaluation.TeamID,
		evaluation.ScoreInnovation, evaluation.ScoreFeasibility,
		evaluation.ScoreExecution, evaluation.ScorePresentation,
		evaluation.Comments, evaluation.Status,
		evaluation.IsLockedByAdmin, evaluation.SubmittedAt,
	).Scan(&evaluation.ID, &evaluation.UpdatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrEvaluationRefInvalid
		}
		return err
	}
	return nil
}

func (r *postgresEvaluationRepository) ListByTeam(ctx context.Context, teamID int, status *models.EvaluationStatus) ([]*models.Evaluation, error) {
	query := `SELECT ` + evaluationColumns + ` FROM evaluations WHERE team_id = $1`
	args := []interface{}{teamID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	evaluations := make([]*models.Evaluation, 0)
	for rows.Next() {
		e, errScan := r.scanEvaluation(rows)
		if errScan != nil {
			return nil, errScan
		}
		evaluations = append(evaluations, e)
	}
	return evaluations, rows.Err()
}

func (r *postgresEvaluationRepository) ListAll(ctx context.Context, exec SQLExecutor) ([]*models.Evaluation, error) {
	executor := r.getExecutor(exec)
	query := `SELECT id, judge_id, team_id, status, is_locked_by_admin FROM evaluations ORDER BY id ASC`

	rows, err := executor.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	evaluations := make([]*models.Evaluation, 0)
	for rows.Next() {
		var e models.Evaluation
		if err := rows.Scan(&e.ID, &e.JudgeID, &e.TeamID, &e.Status, &e.IsLockedByAdmin); err != nil {
			return nil, err
		}
		evaluations = append(evaluations, &e)
	}
	return evaluations, rows.Err()
}

func (r *postgresEvaluationRepository) SetLocked(ctx context.Context, judgeID, teamID int, locked bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE evaluations SET is_locked_by_admin = $1, updated_at = NOW() WHERE judge_id = $2 AND team_id = $3`,
		locked, judgeID, teamID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrEvaluationNotFound)
}

func (r *postgresEvaluationRepository) CountByStatus(ctx context.Context, status models.EvaluationStatus) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM evaluations WHERE status = $1`, status).Scan(&count)
	return count, err
}
