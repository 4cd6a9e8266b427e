package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/udesh117/hackathon-system/models"
	"github.com/udesh117/hackathon-system/repositories"
	"github.com/udesh117/hackathon-system/storage"
)

type SubmissionService interface {
	// SaveDraft upserts the team's project record without finalizing it.
	SaveDraft(ctx context.Context, userID int, input SubmissionInput) (*models.Submission, error)
	// Submit finalizes the team's project; judges can evaluate only after.
	Submit(ctx context.Context, userID int, input SubmissionInput) (*models.Submission, error)
	GetForTeam(ctx context.Context, teamID int) (*models.Submission, error)
	GetForUser(ctx context.Context, userID int) (*models.Submission, error)
	UploadArtifact(ctx context.Context, userID int, contentType string, reader io.Reader) (*models.Submission, error)
}

type SubmissionInput struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	RepoURL     *string `json:"repo_url"`
	DemoURL     *string `json:"demo_url"`
}

type submissionService struct {
	submissionRepo repositories.SubmissionRepository
	teamRepo       repositories.TeamRepository
	uploader       storage.FileUploader
}

func NewSubmissionService(
	submissionRepo repositories.SubmissionRepository,
	teamRepo repositories.TeamRepository,
	uploader storage.FileUploader,
) SubmissionService {
	return &submissionService{
		submissionRepo: submissionRepo,
		teamRepo:       teamRepo,
		uploader:       uploader,
	}
}

func (s *submissionService) SaveDraft(ctx context.Context, userID int, input SubmissionInput) (*models.Submission, error) {
	return s.save(ctx, userID, input, models.SubmissionStatusDraft)
}

func (s *submissionService) Submit(ctx context.Context, userID int, input SubmissionInput) (*models.Submission, error) {
	violations := newValidationError()
	if strings.TrimSpace(input.Title) == "" {
		violations.Fields["title"] = "is required"
	}
	if strings.TrimSpace(input.Description) == "" {
		violations.Fields["description"] = "is required"
	}
	if len(violations.Fields) > 0 {
		return nil, violations
	}
	return s.save(ctx, userID, input, models.SubmissionStatusSubmitted)
}

func (s *submissionService) save(ctx context.Context, userID int, input SubmissionInput, status models.SubmissionStatus) (*models.Submission, error) {
	team, err := s.leaderTeam(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Carry the stored artifact key forward; the payload never contains it.
	var fileKey *string
	if current, err := s.submissionRepo.GetByTeam(ctx, team.ID); err == nil {
		fileKey = current.FileKey
	} else if !errors.Is(err, repositories.ErrSubmissionNotFound) {
		return nil, err
	}

	submission := &models.Submission{
		TeamID:      team.ID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		RepoURL:     input.RepoURL,
		DemoURL:     input.DemoURL,
		FileKey:     fileKey,
		Status:      status,
	}
	if status == models.SubmissionStatusSubmitted {
		now := time.Now()
		submission.SubmittedAt = &now
	}

	if err := s.submissionRepo.Upsert(ctx, submission); err != nil {
		return nil, fmt.Errorf("failed to save submission: %w", err)
	}
	s.populateFileURL(submission)
	return submission, nil
}

func (s *submissionService) GetForTeam(ctx context.Context, teamID int) (*models.Submission, error) {
	submission, err := s.submissionRepo.GetByTeam(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrSubmissionNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	s.populateFileURL(submission)
	return submission, nil
}

func (s *submissionService) GetForUser(ctx context.Context, userID int) (*models.Submission, error) {
	team, err := s.teamRepo.GetByMember(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrUserHasNoTeam
		}
		return nil, err
	}
	return s.GetForTeam(ctx, team.ID)
}

func (s *submissionService) UploadArtifact(ctx context.Context, userID int, contentType string, reader io.Reader) (*models.Submission, error) {
	team, err := s.leaderTeam(ctx, userID)
	if err != nil {
		return nil, err
	}

	submission, err := s.submissionRepo.GetByTeam(ctx, team.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrSubmissionNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}

	key := fmt.Sprintf("submissions/%d/artifact", team.ID)
	result, err := s.uploader.Upload(ctx, key, contentType, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to upload submission artifact: %w", err)
	}

	submission.FileKey = &result.Key
	if err := s.submissionRepo.Upsert(ctx, submission); err != nil {
		return nil, fmt.Errorf("failed to store submission artifact key: %w", err)
	}
	s.populateFileURL(submission)
	return submission, nil
}

func (s *submissionService) leaderTeam(ctx context.Context, userID int) (*models.Team, error) {
	team, err := s.teamRepo.GetByMember(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrUserHasNoTeam
		}
		return nil, err
	}
	if team.LeaderID != userID {
		return nil, ErrOnlyLeaderAllowed
	}
	return team, nil
}

func (s *submissionService) populateFileURL(submission *models.Submission) {
	if submission.FileKey == nil || s.uploader == nil {
		return
	}
	url := s.uploader.GetPublicURL(*submission.FileKey)
	submission.FileURL = &url
}
