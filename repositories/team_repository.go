package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/udesh117/hackathon-system/models"
)

var (
	ErrTeamNotFound      = errors.New("team not found")
	ErrTeamNameConflict  = errors.New("team name conflict")
	ErrTeamMemberTaken   = errors.New("user is already in a team")
	ErrTeamMemberInvalid = errors.New("team member conflict or invalid")
)

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	GetByMember(ctx context.Context, userID int) (*models.Team, error)
	List(ctx context.Context, status *models.TeamStatus) ([]*models.Team, error)
	UpdateStatus(ctx context.Context, id int, status models.TeamStatus) error
	UpdateLogoKey(ctx context.Context, id int, logoKey string) error
	AddMember(ctx context.Context, teamID, userID int) error
	ListMembers(ctx context.Context, teamID int) ([]models.User, error)
	CountByStatus(ctx context.Context, status *models.TeamStatus) (int, error)
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

const teamColumns = `id, name, leader_id, status, logo_key, created_at`

func (r *postgresTeamRepository) scanTeam(rowScanner interface{ Scan(...interface{}) error }) (*models.Team, error) {
	var t models.Team
	err := rowScanner.Scan(&t.ID, &t.Name, &t.LeaderID, &t.Status, &t.LogoKey, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *postgresTeamRepository) Create(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (name, leader_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, team.Name, team.LeaderID, team.Status).
		Scan(&team.ID, &team.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			if pqErr.Constraint == "teams_name_key" {
				return ErrTeamNameConflict
			}
		}
		return err
	}
	return nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`
	return r.scanTeam(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresTeamRepository) GetByMember(ctx context.Context, userID int) (*models.Team, error) {
	query := `
		SELECT t.id, t.name, t.leader_id, t.status, t.logo_key, t.created_at
		FROM teams t
		JOIN team_members tm ON tm.team_id = t.id
		WHERE tm.user_id = $1`
	return r.scanTeam(r.db.QueryRowContext(ctx, query, userID))
}

func (r *postgresTeamRepository) List(ctx context.Context, status *models.TeamStatus) ([]*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams`
	args := []interface{}{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	for rows.Next() {
		t, errScan := r.scanTeam(rows)
		if errScan != nil {
			return nil, errScan
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (r *postgresTeamRepository) UpdateStatus(ctx context.Context, id int, status models.TeamStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE teams SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) UpdateLogoKey(ctx context.Context, id int, logoKey string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE teams SET logo_key = $1 WHERE id = $2`, logoKey, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) AddMember(ctx context.Context, teamID, userID int) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO team_members (team_id, user_id) VALUES ($1, $2)`, teamID, userID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation: user already belongs to a team
				return ErrTeamMemberTaken
			case "23503": // foreign_key_violation
				return ErrTeamMemberInvalid
			}
		}
		return err
	}
	return nil
}

func (r *postgresTeamRepository) ListMembers(ctx context.Context, teamID int) ([]models.User, error) {
	query := `
		SELECT u.id, u.first_name, u.last_name, u.email, u.role, u.is_active, u.created_at
		FROM users u
		JOIN team_members tm ON tm.user_id = u.id
		WHERE tm.team_id = $1
		ORDER BY u.id ASC`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]models.User, 0)
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Role, &u.IsActive, &u.CreatedAt); err != nil {
			return nil, err
		}
		members = append(members, u)
	}
	return members, rows.Err()
}

func (r *postgresTeamRepository) CountByStatus(ctx context.Context, status *models.TeamStatus) (int, error) {
	query := `SELECT COUNT(*) FROM teams`
	args := []interface{}{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	var count int
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}
