package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udesh117/hackathon-system/models"
	"github.com/udesh117/hackathon-system/repositories"
)

const announcementsRoom = "announcements"

type AnnouncementService interface {
	Create(ctx context.Context, input AnnouncementInput) (*models.Announcement, error)
	List(ctx context.Context, publishedOnly bool) ([]*models.Announcement, error)
	Delete(ctx context.Context, id int) error
	// PublishDue publishes every announcement whose scheduled time has
	// passed: marks it published, notifies websocket clients and fans out
	// emails to the audience. Returns how many were published.
	PublishDue(ctx context.Context) (int, error)
}

type AnnouncementInput struct {
	Title     string                      `json:"title"`
	Body      string                      `json:"body"`
	Audience  models.AnnouncementAudience `json:"audience"`
	PublishAt *time.Time                  `json:"publish_at"`
}

type announcementService struct {
	announcementRepo repositories.AnnouncementRepository
	userRepo         repositories.UserRepository
	mailer           Mailer
	notifier         RealtimeNotifier
	logger           *slog.Logger
}

func NewAnnouncementService(
	announcementRepo repositories.AnnouncementRepository,
	userRepo repositories.UserRepository,
	mailer Mailer,
	notifier RealtimeNotifier,
	logger *slog.Logger,
) AnnouncementService {
	return &announcementService{
		announcementRepo: announcementRepo,
		userRepo:         userRepo,
		mailer:           mailer,
		notifier:         notifier,
		logger:           logger,
	}
}

func (s *announcementService) Create(ctx context.Context, input AnnouncementInput) (*models.Announcement, error) {
	violations := newValidationError()
	if strings.TrimSpace(input.Title) == "" {
		violations.Fields["title"] = "is required"
	}
	if strings.TrimSpace(input.Body) == "" {
		violations.Fields["body"] = "is required"
	}
	if len(violations.Fields) > 0 {
		return nil, violations
	}

	audience := input.Audience
	if audience == "" {
		audience = models.AudienceAll
	}
	if !audience.Valid() {
		return nil, ErrAnnouncementInvalidAudience
	}

	announcement := &models.Announcement{
		Title:     strings.TrimSpace(input.Title),
		Body:      input.Body,
		Audience:  audience,
		PublishAt: input.PublishAt,
	}
	if err := s.announcementRepo.Create(ctx, announcement); err != nil {
		return nil, fmt.Errorf("failed to create announcement: %w", err)
	}
	return announcement, nil
}

func (s *announcementService) List(ctx context.Context, publishedOnly bool) ([]*models.Announcement, error) {
	return s.announcementRepo.List(ctx, publishedOnly)
}

func (s *announcementService) Delete(ctx context.Context, id int) error {
	err := s.announcementRepo.Delete(ctx, id)
	if errors.Is(err, repositories.ErrAnnouncementNotFound) {
		return ErrAnnouncementNotFound
	}
	return err
}

func (s *announcementService) PublishDue(ctx context.Context) (int, error) {
	due, err := s.announcementRepo.ListDue(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to list due announcements: %w", err)
	}

	published := 0
	for _, announcement := range due {
		if err := s.announcementRepo.MarkPublished(ctx, announcement.ID); err != nil {
			s.logger.Error("failed to mark announcement published",
				slog.Int("announcement_id", announcement.ID), slog.Any("error", err))
			continue
		}
		published++

		if s.notifier != nil {
			s.notifier.BroadcastToRoom(announcementsRoom, map[string]interface{}{
				"type":    "ANNOUNCEMENT_PUBLISHED",
				"payload": announcement,
			})
		}
		s.emailAudience(ctx, announcement)
	}
	return published, nil
}

// emailAudience fans the announcement out over SMTP. Delivery is
// best-effort: failures are logged per recipient and never surfaced.
func (s *announcementService) emailAudience(ctx context.Context, announcement *models.Announcement) {
	if s.mailer == nil {
		return
	}

	var emails []string
	var err error
	switch announcement.Audience {
	case models.AudienceJudges:
		emails, err = s.userRepo.ListEmailsByRole(ctx, models.RoleJudge)
	case models.AudienceParticipants:
		emails, err = s.userRepo.ListEmailsByRole(ctx, models.RoleParticipant)
	default:
		var judges, participants []string
		judges, err = s.userRepo.ListEmailsByRole(ctx, models.RoleJudge)
		if err == nil {
			participants, err = s.userRepo.ListEmailsByRole(ctx, models.RoleParticipant)
			emails = append(judges, participants...)
		}
	}
	if err != nil {
		s.logger.Error("failed to resolve announcement audience",
			slog.Int("announcement_id", announcement.ID), slog.Any("error", err))
		return
	}

	body := fmt.Sprintf("<h2>%s</h2><p>%s</p>", announcement.Title, announcement.Body)

	var g errgroup.Group
	g.SetLimit(4)
	for _, email := range emails {
		email := email
		g.Go(func() error {
			if err := s.mailer.SendEmail([]string{email}, announcement.Title, body); err != nil {
				s.logger.Error("failed to send announcement email",
					slog.String("email", email), slog.Any("error", err))
			}
			return nil
		})
	}
	_ = g.Wait()
}
