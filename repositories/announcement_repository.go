package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/udesh117/hackathon-system/models"
)

var ErrAnnouncementNotFound = errors.New("announcement not found")

type AnnouncementRepository interface {
	Create(ctx context.Context, announcement *models.Announcement) error
	GetByID(ctx context.Context, id int) (*models.Announcement, error)
	List(ctx context.Context, publishedOnly bool) ([]*models.Announcement, error)
	// ListDue returns unpublished announcements whose publish_at has passed
	// (or was never set, meaning publish immediately).
	ListDue(ctx context.Context, now time.Time) ([]*models.Announcement, error)
	MarkPublished(ctx context.Context, id int) error
	Delete(ctx context.Context, id int) error
}

type postgresAnnouncementRepository struct {
	db *sql.DB
}

func NewPostgresAnnouncementRepository(db *sql.DB) AnnouncementRepository {
	return &postgresAnnouncementRepository{db: db}
}

const announcementColumns = `id, title, body, audience, publish_at, published, created_at`

func (r *postgresAnnouncementRepository) scanAnnouncement(rowScanner interface{ Scan(...interface{}) error }) (*models.Announcement, error) {
	var a models.Announcement
	err := rowScanner.Scan(&a.ID, &a.Title, &a.Body, &a.Audience, &a.PublishAt, &a.Published, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAnnouncementNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *postgresAnnouncementRepository) Create(ctx context.Context, announcement *models.Announcement) error {
	query := `
		INSERT INTO announcements (title, body, audience, publish_at, published)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		announcement.Title, announcement.Body, announcement.Audience,
		announcement.PublishAt, announcement.Published,
	).Scan(&announcement.ID, &announcement.CreatedAt)
}

func (r *postgresAnnouncementRepository) GetByID(ctx context.Context, id int) (*models.Announcement, error) {
	query := `SELECT ` + announcementColumns + ` FROM announcements WHERE id = $1`
	return r.scanAnnouncement(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresAnnouncementRepository) List(ctx context.Context, publishedOnly bool) ([]*models.Announcement, error) {
	query := `SELECT ` + announcementColumns + ` FROM announcements`
	if publishedOnly {
		query += ` WHERE published`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	announcements := make([]*models.Announcement, 0)
	for rows.Next() {
		a, errScan := r.scanAnnouncement(rows)
		if errScan != nil {
			return nil, errScan
		}
		announcements = append(announcements, a)
	}
	return announcements, rows.Err()
}

func (r *postgresAnnouncementRepository) ListDue(ctx context.Context, now time.Time) ([]*models.Announcement, error) {
	query := `SELECT ` + announcementColumns + ` FROM announcements
		WHERE NOT published AND (publish_at IS NULL OR publish_at <= $1)
		ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	announcements := make([]*models.Announcement, 0)
	for rows.Next() {
		a, errScan := r.scanAnnouncement(rows)
		if errScan != nil {
			return nil, errScan
		}
		announcements = append(announcements, a)
	}
	return announcements, rows.Err()
}

func (r *postgresAnnouncementRepository) MarkPublished(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `UPDATE announcements SET published = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrAnnouncementNotFound)
}

func (r *postgresAnnouncementRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrAnnouncementNotFound)
}
