package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/udesh117/hackathon-system/models"
)

var (
	ErrSubmissionNotFound    = errors.New("submission not found")
	ErrSubmissionTeamInvalid = errors.New("submission team conflict or invalid")
)

type SubmissionRepository interface {
	// Upsert writes the single submission row for a team, creating it on
	// first save. submitted_at is preserved once set.
	Upsert(ctx context.Context, submission *models.Submission) error
	GetByTeam(ctx context.Context, teamID int) (*models.Submission, error)
	CountByStatus(ctx context.Context, status *models.SubmissionStatus) (int, error)
}

type postgresSubmissionRepository struct {
	db *sql.DB
}

func NewPostgresSubmissionRepository(db *sql.DB) SubmissionRepository {
	return &postgresSubmissionRepository{db: db}
}

func (r *postgresSubmissionRepository) Upsert(ctx context.Context, submission *models.Submission) error {
	query := `
		INSERT INTO submissions (team_id, title, description, repo_url, demo_url, file_key, status, submitted_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (team_id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			repo_url = EXCLUDED.repo_url,
			demo_url = EXCLUDED.demo_url,
			file_key = EXCLUDED.file_key,
			status = EXCLUDED.status,
			submitted_at = COALESCE(submissions.submitted_at, EXCLUDED.submitted_at),
			updated_at = NOW()
		RETURNING id, submitted_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		submission.TeamID, submission.Title, submission.Description,
		submission.RepoURL, submission.DemoURL, submission.FileKey,
		submission.Status, submission.SubmittedAt,
	).Scan(&submission.ID, &submission.SubmittedAt, &submission.UpdatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrSubmissionTeamInvalid
		}
		return err
	}
	return nil
}

func (r *postgresSubmissionRepository) GetByTeam(ctx context.Context, teamID int) (*models.Submission, error) {
	query := `
		SELECT id, team_id, title, description, repo_url, demo_url, file_key, status, submitted_at, updated_at
		FROM submissions
		WHERE team_id = $1`

	var s models.Submission
	err := r.db.QueryRowContext(ctx, query, teamID).Scan(
		&s.ID, &s.TeamID, &s.Title, &s.Description,
		&s.RepoURL, &s.DemoURL, &s.FileKey,
		&s.Status, &s.SubmittedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *postgresSubmissionRepository) CountByStatus(ctx context.Context, status *models.SubmissionStatus) (int, error) {
	query := `SELECT COUNT(*) FROM submissions`
	args := []interface{}{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	var count int
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}
