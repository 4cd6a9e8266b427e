package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/udesh117/hackathon-system/models"
)

var ErrTeamScoreNotFound = errors.New("team score not found")

type ScoreRepository interface {
	Upsert(ctx context.Context, exec SQLExecutor, score *models.TeamScore) error
	DeleteByTeam(ctx context.Context, exec SQLExecutor, teamID int) error
	GetByTeam(ctx context.Context, teamID int) (*models.TeamScore, error)
	// ListRanked returns scores of verified teams joined with team names,
	// ordered final_score DESC with team id ASC as the stable tiebreak.
	ListRanked(ctx context.Context) ([]*models.TeamScore, error)
}

type postgresScoreRepository struct {
	db *sql.DB
}

func NewPostgresScoreRepository(db *sql.DB) ScoreRepository {
	return &postgresScoreRepository{db: db}
}

func (r *postgresScoreRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresScoreRepository) Upsert(ctx context.Context, exec SQLExecutor, score *models.TeamScore) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO team_scores (team_id, final_score, review_count, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (team_id) DO UPDATE SET
			final_score = EXCLUDED.final_score,
			review_count = EXCLUDED.review_count,
			updated_at = NOW()
		RETURNING updated_at`

	return executor.QueryRowContext(ctx, query,
		score.TeamID, score.FinalScore, score.ReviewCount,
	).Scan(&score.UpdatedAt)
}

func (r *postgresScoreRepository) DeleteByTeam(ctx context.Context, exec SQLExecutor, teamID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM team_scores WHERE team_id = $1`, teamID)
	return err
}

func (r *postgresScoreRepository) GetByTeam(ctx context.Context, teamID int) (*models.TeamScore, error) {
	query := `SELECT team_id, final_score, review_count, updated_at FROM team_scores WHERE team_id = $1`

	var s models.TeamScore
	err := r.db.QueryRowContext(ctx, query, teamID).Scan(
		&s.TeamID, &s.FinalScore, &s.ReviewCount, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamScoreNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *postgresScoreRepository) ListRanked(ctx context.Context) ([]*models.TeamScore, error) {
	query := `
		SELECT ts.team_id, t.name, ts.final_score, ts.review_count, ts.updated_at
		FROM team_scores ts
		JOIN teams t ON t.id = ts.team_id
		WHERE t.status = $1
		ORDER BY ts.final_score DESC, ts.team_id ASC`

	rows, err := r.db.QueryContext(ctx, query, models.TeamStatusVerified)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scores := make([]*models.TeamScore, 0)
	for rows.Next() {
		var s models.TeamScore
		if err := rows.Scan(&s.TeamID, &s.TeamName, &s.FinalScore, &s.ReviewCount, &s.UpdatedAt); err != nil {
			return nil, err
		}
		scores = append(scores, &s)
	}
	return scores, rows.Err()
}
