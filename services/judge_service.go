package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/udesh117/hackathon-system/models"
	"github.com/udesh117/hackathon-system/repositories"
	"github.com/udesh117/hackathon-system/utils"
)

// JudgeService covers the admin-side judge roster: provisioning accounts,
// deactivating them and removing them outright.
type JudgeService interface {
	Create(ctx context.Context, input CreateJudgeInput) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	SetActive(ctx context.Context, judgeID int, active bool) error
	Delete(ctx context.Context, judgeID int) error
}

type CreateJudgeInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

type Mailer interface {
	SendEmail(to []string, subject string, body string) error
}

type judgeService struct {
	userRepo repositories.UserRepository
	mailer   Mailer
	logger   *slog.Logger
}

func NewJudgeService(userRepo repositories.UserRepository, mailer Mailer, logger *slog.Logger) JudgeService {
	return &judgeService{userRepo: userRepo, mailer: mailer, logger: logger}
}

// Create provisions a judge account with a generated temporary password and
// emails the credentials. Email delivery is best-effort; the account exists
// either way.
func (s *judgeService) Create(ctx context.Context, input CreateJudgeInput) (*models.User, error) {
	violations := newValidationError()
	if strings.TrimSpace(input.FirstName) == "" {
		violations.Fields["first_name"] = "is required"
	}
	if strings.TrimSpace(input.Email) == "" || !strings.Contains(input.Email, "@") {
		violations.Fields["email"] = "must be a valid email address"
	}
	if len(violations.Fields) > 0 {
		return nil, violations
	}

	tempPassword := utils.GenerateRandomToken(12)
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash temporary password: %w", err)
	}

	judge := &models.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: string(hashedPassword),
		Role:         models.RoleJudge,
		IsActive:     true,
	}

	if err := s.userRepo.Create(ctx, judge); err != nil {
		if errors.Is(err, repositories.ErrUserEmailConflict) {
			return nil, ErrAuthEmailTaken
		}
		return nil, fmt.Errorf("failed to create judge account: %w", err)
	}

	if s.mailer != nil {
		go func() {
			body := fmt.Sprintf(
				"<p>Hello %s,</p><p>Your judge account is ready. Temporary password: <b>%s</b></p>",
				judge.FirstName, tempPassword)
			if err := s.mailer.SendEmail([]string{judge.Email}, "Your judge account", body); err != nil {
				s.logger.Error("failed to send judge welcome email",
					slog.String("email", judge.Email), slog.Any("error", err))
			}
		}()
	}

	judge.PasswordHash = ""
	return judge, nil
}

func (s *judgeService) List(ctx context.Context) ([]*models.User, error) {
	return s.userRepo.ListJudges(ctx, false)
}

func (s *judgeService) SetActive(ctx context.Context, judgeID int, active bool) error {
	if err := s.requireJudge(ctx, judgeID); err != nil {
		return err
	}
	return s.userRepo.SetActive(ctx, judgeID, active)
}

// Delete removes the judge account; the database cascades the judge's
// assignments and evaluations away with it.
func (s *judgeService) Delete(ctx context.Context, judgeID int) error {
	if err := s.requireJudge(ctx, judgeID); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, judgeID)
}

func (s *judgeService) requireJudge(ctx context.Context, judgeID int) error {
	user, err := s.userRepo.GetByID(ctx, judgeID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrJudgeNotFound
		}
		return err
	}
	if user.Role != models.RoleJudge {
		return ErrUserIsNotJudge
	}
	return nil
}
