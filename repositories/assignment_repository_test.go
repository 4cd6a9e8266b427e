package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udesh117/hackathon-system/models"
)

func newAssignmentRepoMock(t *testing.T) (AssignmentRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewPostgresAssignmentRepository(db), mock
}

func TestAssignmentCreateBatchInsertsAllRows(t *testing.T) {
	repo, mock := newAssignmentRepoMock(t)

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO assignments \(judge_id, team_id\) VALUES \(\$1, \$2\), \(\$3, \$4\) RETURNING id, created_at`).
		WithArgs(1, 10, 1, 11).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).
			AddRow(1, now).
			AddRow(2, now))

	assignments := []*models.Assignment{
		{JudgeID: 1, TeamID: 10},
		{JudgeID: 1, TeamID: 11},
	}
	err := repo.CreateBatch(context.Background(), nil, assignments)
	require.NoError(t, err)
	assert.Equal(t, 1, assignments[0].ID)
	assert.Equal(t, 2, assignments[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentCreateBatchMapsUniqueViolation(t *testing.T) {
	repo, mock := newAssignmentRepoMock(t)

	mock.ExpectQuery(`INSERT INTO assignments`).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.CreateBatch(context.Background(), nil, []*models.Assignment{{JudgeID: 1, TeamID: 10}})
	assert.ErrorIs(t, err, ErrAssignmentPairConflict)
}

func TestAssignmentCreateBatchMapsForeignKeyViolation(t *testing.T) {
	repo, mock := newAssignmentRepoMock(t)

	mock.ExpectQuery(`INSERT INTO assignments`).
		WillReturnError(&pq.Error{Code: "23503"})

	err := repo.CreateBatch(context.Background(), nil, []*models.Assignment{{JudgeID: 99, TeamID: 10}})
	assert.ErrorIs(t, err, ErrAssignmentRefInvalid)
}

func TestAssignmentCreateBatchEmptyNoop(t *testing.T) {
	repo, mock := newAssignmentRepoMock(t)

	require.NoError(t, repo.CreateBatch(context.Background(), nil, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentGetByJudgeAndTeam(t *testing.T) {
	repo, mock := newAssignmentRepoMock(t)

	now := time.Now()
	mock.ExpectQuery(`SELECT id, judge_id, team_id, created_at FROM assignments WHERE judge_id = \$1 AND team_id = \$2`).
		WithArgs(1, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "judge_id", "team_id", "created_at"}).AddRow(5, 1, 10, now))

	assignment, err := repo.GetByJudgeAndTeam(context.Background(), nil, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 5, assignment.ID)
	assert.Equal(t, 1, assignment.JudgeID)
	assert.Equal(t, 10, assignment.TeamID)
}

func TestAssignmentGetByJudgeAndTeamNotFound(t *testing.T) {
	repo, mock := newAssignmentRepoMock(t)

	mock.ExpectQuery(`SELECT id, judge_id, team_id, created_at FROM assignments`).
		WithArgs(1, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "judge_id", "team_id", "created_at"}))

	_, err := repo.GetByJudgeAndTeam(context.Background(), nil, 1, 10)
	assert.ErrorIs(t, err, ErrAssignmentNotFound)
}

func TestAssignmentListAllOrdered(t *testing.T) {
	repo, mock := newAssignmentRepoMock(t)

	now := time.Now()
	mock.ExpectQuery(`SELECT id, judge_id, team_id, created_at FROM assignments ORDER BY id ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "judge_id", "team_id", "created_at"}).
			AddRow(1, 1, 10, now).
			AddRow(2, 2, 11, now))

	assignments, err := repo.ListAll(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, assignments, 2)
	assert.Equal(t, 1, assignments[0].ID)
	assert.Equal(t, 2, assignments[1].ID)
}

func TestAssignmentDeleteByJudgeAndTeamNotFound(t *testing.T) {
	repo, mock := newAssignmentRepoMock(t)

	mock.ExpectExec(`DELETE FROM assignments WHERE judge_id = \$1 AND team_id = \$2`).
		WithArgs(1, 10).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteByJudgeAndTeam(context.Background(), nil, 1, 10)
	assert.ErrorIs(t, err, ErrAssignmentNotFound)
}

func TestAssignmentDeleteByIDs(t *testing.T) {
	repo, mock := newAssignmentRepoMock(t)

	mock.ExpectExec(`DELETE FROM assignments WHERE id = ANY\(\$1\)`).
		WithArgs(pq.Array([]int{1, 2, 3})).
		WillReturnResult(sqlmock.NewResult(0, 3))

	err := repo.DeleteByIDs(context.Background(), nil, []int{1, 2, 3})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentDeleteByIDsEmptyNoop(t *testing.T) {
	repo, mock := newAssignmentRepoMock(t)

	require.NoError(t, repo.DeleteByIDs(context.Background(), nil, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentCreateBatchUsesTransactionExecutor(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	repo := NewPostgresAssignmentRepository(db)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO assignments`).
		WithArgs(1, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(1, now))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, repo.CreateBatch(context.Background(), tx, []*models.Assignment{{JudgeID: 1, TeamID: 10}}))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}
