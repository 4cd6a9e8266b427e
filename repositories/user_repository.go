package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/udesh117/hackathon-system/models"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserEmailConflict = errors.New("user email conflict")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// ListJudges returns every user with the judge role, ordered by
	// creation (id ASC) so callers that distribute work get a stable order.
	ListJudges(ctx context.Context, activeOnly bool) ([]*models.User, error)
	ListEmailsByRole(ctx context.Context, role models.UserRole) ([]string, error)
	SetActive(ctx context.Context, id int, active bool) error
	Delete(ctx context.Context, id int) error
	CountByRole(ctx context.Context, role models.UserRole, activeOnly bool) (int, error)
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

const userColumns = `id, first_name, last_name, email, password_hash, role, is_active, created_at`

func (r *postgresUserRepository) scanUser(rowScanner interface{ Scan(...interface{}) error }) (*models.User, error) {
	var u models.User
	err := rowScanner.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email,
		&u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *postgresUserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (first_name, last_name, email, password_hash, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		user.FirstName, user.LastName, user.Email,
		user.PasswordHash, user.Role, user.IsActive,
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			if pqErr.Constraint == "users_email_key" {
				return ErrUserEmailConflict
			}
		}
		return err
	}
	return nil
}

func (r *postgresUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *postgresUserRepository) ListJudges(ctx context.Context, activeOnly bool) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role = $1`
	if activeOnly {
		query += ` AND is_active`
	}
	query += ` ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, models.RoleJudge)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	judges := make([]*models.User, 0)
	for rows.Next() {
		u, errScan := r.scanUser(rows)
		if errScan != nil {
			return nil, errScan
		}
		judges = append(judges, u)
	}
	return judges, rows.Err()
}

func (r *postgresUserRepository) ListEmailsByRole(ctx context.Context, role models.UserRole) ([]string, error) {
	query := `SELECT email FROM users WHERE role = $1 AND is_active ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, query, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	emails := make([]string, 0)
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}

func (r *postgresUserRepository) SetActive(ctx context.Context, id int, active bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET is_active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) CountByRole(ctx context.Context, role models.UserRole, activeOnly bool) (int, error) {
	query := `SELECT COUNT(*) FROM users WHERE role = $1`
	if activeOnly {
		query += ` AND is_active`
	}
	var count int
	err := r.db.QueryRowContext(ctx, query, role).Scan(&count)
	return count, err
}
