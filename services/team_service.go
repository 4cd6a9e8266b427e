package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/udesh117/hackathon-system/models"
	"github.com/udesh117/hackathon-system/repositories"
	"github.com/udesh117/hackathon-system/storage"
)

type TeamService interface {
	Create(ctx context.Context, leaderID int, input CreateTeamInput) (*models.Team, error)
	Join(ctx context.Context, userID, teamID int) (*models.Team, error)
	GetByID(ctx context.Context, teamID int) (*models.Team, error)
	GetForUser(ctx context.Context, userID int) (*models.Team, error)
	List(ctx context.Context, status *models.TeamStatus) ([]*models.Team, error)
	// SetStatus is the admin verification decision: verified or rejected.
	SetStatus(ctx context.Context, teamID int, status models.TeamStatus) (*models.Team, error)
	UploadLogo(ctx context.Context, userID, teamID int, contentType string, reader io.Reader) (*models.Team, error)
}

type CreateTeamInput struct {
	Name string `json:"name"`
}

type teamService struct {
	teamRepo repositories.TeamRepository
	uploader storage.FileUploader
}

func NewTeamService(teamRepo repositories.TeamRepository, uploader storage.FileUploader) TeamService {
	return &teamService{teamRepo: teamRepo, uploader: uploader}
}

func (s *teamService) Create(ctx context.Context, leaderID int, input CreateTeamInput) (*models.Team, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, &ValidationError{Fields: map[string]string{"name": "is required"}}
	}

	team := &models.Team{
		Name:     name,
		LeaderID: leaderID,
		Status:   models.TeamStatusPending,
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNameConflict) {
			return nil, ErrTeamNameConflict
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	if err := s.teamRepo.AddMember(ctx, team.ID, leaderID); err != nil {
		if errors.Is(err, repositories.ErrTeamMemberTaken) {
			return nil, ErrUserAlreadyInTeam
		}
		return nil, fmt.Errorf("failed to add leader to team: %w", err)
	}
	return team, nil
}

func (s *teamService) Join(ctx context.Context, userID, teamID int) (*models.Team, error) {
	team, err := s.getTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	if err := s.teamRepo.AddMember(ctx, teamID, userID); err != nil {
		switch {
		case errors.Is(err, repositories.ErrTeamMemberTaken):
			return nil, ErrUserAlreadyInTeam
		case errors.Is(err, repositories.ErrTeamMemberInvalid):
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to join team: %w", err)
	}
	return team, nil
}

func (s *teamService) GetByID(ctx context.Context, teamID int) (*models.Team, error) {
	team, err := s.getTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	members, err := s.teamRepo.ListMembers(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	team.Members = members
	s.populateLogoURL(team)
	return team, nil
}

func (s *teamService) GetForUser(ctx context.Context, userID int) (*models.Team, error) {
	team, err := s.teamRepo.GetByMember(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrUserHasNoTeam
		}
		return nil, err
	}
	return s.GetByID(ctx, team.ID)
}

func (s *teamService) List(ctx context.Context, status *models.TeamStatus) ([]*models.Team, error) {
	teams, err := s.teamRepo.List(ctx, status)
	if err != nil {
		return nil, err
	}
	for _, t := range teams {
		s.populateLogoURL(t)
	}
	return teams, nil
}

func (s *teamService) SetStatus(ctx context.Context, teamID int, status models.TeamStatus) (*models.Team, error) {
	if !status.Valid() {
		return nil, ErrTeamStatusInvalid
	}

	team, err := s.getTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	if err := s.teamRepo.UpdateStatus(ctx, teamID, status); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to update team status: %w", err)
	}
	team.Status = status
	return team, nil
}

func (s *teamService) UploadLogo(ctx context.Context, userID, teamID int, contentType string, reader io.Reader) (*models.Team, error) {
	team, err := s.getTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team.LeaderID != userID {
		return nil, ErrOnlyLeaderAllowed
	}

	key := fmt.Sprintf("teams/%d/logo", teamID)
	result, err := s.uploader.Upload(ctx, key, contentType, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to upload team logo: %w", err)
	}

	if err := s.teamRepo.UpdateLogoKey(ctx, teamID, result.Key); err != nil {
		return nil, fmt.Errorf("failed to store team logo key: %w", err)
	}
	team.LogoKey = &result.Key
	s.populateLogoURL(team)
	return team, nil
}

func (s *teamService) getTeam(ctx context.Context, teamID int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}

func (s *teamService) populateLogoURL(team *models.Team) {
	if team.LogoKey == nil || s.uploader == nil {
		return
	}
	url := s.uploader.GetPublicURL(*team.LogoKey)
	team.LogoURL = &url
}
