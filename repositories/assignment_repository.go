package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/udesh117/hackathon-system/models"
)

var (
	ErrAssignmentNotFound     = errors.New("assignment not found")
	ErrAssignmentPairConflict = errors.New("assignment pair already exists")
	ErrAssignmentRefInvalid   = errors.New("assignment judge or team invalid")
)

type AssignmentRepository interface {
	// CreateBatch inserts all assignments in one statement. A duplicate
	// (judge_id, team_id) pair fails the whole batch.
	CreateBatch(ctx context.Context, exec SQLExecutor, assignments []*models.Assignment) error
	GetByJudgeAndTeam(ctx context.Context, exec SQLExecutor, judgeID, teamID int) (*models.Assignment, error)
	// ListAll returns every assignment ordered by id ASC so rebalancing is
	// deterministic for the same stored state.
	ListAll(ctx context.Context, exec SQLExecutor) ([]*models.Assignment, error)
	ListByJudge(ctx context.Context, judgeID int) ([]*models.Assignment, error)
	DeleteByJudgeAndTeam(ctx context.Context, exec SQLExecutor, judgeID, teamID int) error
	DeleteByIDs(ctx context.Context, exec SQLExecutor, ids []int) error
	Count(ctx context.Context) (int, error)
}

type postgresAssignmentRepository struct {
	db *sql.DB
}

func NewPostgresAssignmentRepository(db *sql.DB) AssignmentRepository {
	return &postgresAssignmentRepository{db: db}
}

func (r *postgresAssignmentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresAssignmentRepository) CreateBatch(ctx context.Context, exec SQLExecutor, assignments []*models.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}
	executor := r.getExecutor(exec)

	// Single multi-row INSERT: either every pair lands or none does, even
	// without an explicit surrounding transaction.
	query := `INSERT INTO assignments (judge_id, team_id) VALUES `
	args := make([]interface{}, 0, len(assignments)*2)
	for i, a := range assignments {
		if i > 0 {
			query += ", "
		}
		query += fmt.Sprintf("($%d, $%d)", i*2+1, i*2+2)
		args = append(args, a.JudgeID, a.TeamID)
	}
	query += ` RETURNING id, created_at`

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return mapAssignmentError(err)
	}
	defer rows.Close()

	for i := 0; rows.Next(); i++ {
		if err := rows.Scan(&assignments[i].ID, &assignments[i].CreatedAt); err != nil {
			return err
		}
	}
	return mapAssignmentError(rows.Err())
}

func mapAssignmentError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505": // unique_violation on (judge_id, team_id)
			return ErrAssignmentPairConflict
		case "23503": // foreign_key_violation
			return ErrAssignmentRefInvalid
		}
	}
	return err
}

func (r *postgresAssignmentRepository) scanAssignment(rowScanner interface{ Scan(...interface{}) error }) (*models.Assignment, error) {
	var a models.Assignment
	err := rowScanner.Scan(&a.ID, &a.JudgeID, &a.TeamID, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *postgresAssignmentRepository) GetByJudgeAndTeam(ctx context.Context, exec SQLExecutor, judgeID, teamID int) (*models.Assignment, error) {
	executor := r.getExecutor(exec)
	query := `SELECT id, judge_id, team_id, created_at FROM assignments WHERE judge_id = $1 AND team_id = $2`
	return r.scanAssignment(executor.QueryRowContext(ctx, query, judgeID, teamID))
}

func (r *postgresAssignmentRepository) ListAll(ctx context.Context, exec SQLExecutor) ([]*models.Assignment, error) {
	executor := r.getExecutor(exec)
	query := `SELECT id, judge_id, team_id, created_at FROM assignments ORDER BY id ASC`

	rows, err := executor.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := make([]*models.Assignment, 0)
	for rows.Next() {
		a, errScan := r.scanAssignment(rows)
		if errScan != nil {
			return nil, errScan
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

func (r *postgresAssignmentRepository) ListByJudge(ctx context.Context, judgeID int) ([]*models.Assignment, error) {
	query := `SELECT id, judge_id, team_id, created_at FROM assignments WHERE judge_id = $1 ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, judgeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := make([]*models.Assignment, 0)
	for rows.Next() {
		a, errScan := r.scanAssignment(rows)
		if errScan != nil {
			return nil, errScan
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

func (r *postgresAssignmentRepository) DeleteByJudgeAndTeam(ctx context.Context, exec SQLExecutor, judgeID, teamID int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`DELETE FROM assignments WHERE judge_id = $1 AND team_id = $2`, judgeID, teamID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrAssignmentNotFound)
}

func (r *postgresAssignmentRepository) DeleteByIDs(ctx context.Context, exec SQLExecutor, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx,
		`DELETE FROM assignments WHERE id = ANY($1)`, pq.Array(ids))
	return err
}

func (r *postgresAssignmentRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM assignments`).Scan(&count)
	return count, err
}
