package services

import (
	"context"
	"fmt"

	"github.com/udesh117/hackathon-system/models"
	"github.com/udesh117/hackathon-system/repositories"
)

const leaderboardRoom = "leaderboard"

// ScoreService maintains the derived per-team aggregate and produces the
// ranked leaderboard. Aggregates are recomputed from scratch, never
// incrementally maintained.
type ScoreService interface {
	RecomputeTeam(ctx context.Context, teamID int) error
	Leaderboard(ctx context.Context, includeUnpublished bool) (*models.Leaderboard, error)
	SetPublished(ctx context.Context, published bool) error
}

type scoreService struct {
	scoreRepo      repositories.ScoreRepository
	settingsRepo   repositories.SettingsRepository
	evaluationRepo repositories.EvaluationRepository
	notifier       RealtimeNotifier
}

func NewScoreService(
	scoreRepo repositories.ScoreRepository,
	settingsRepo repositories.SettingsRepository,
	evaluationRepo repositories.EvaluationRepository,
	notifier RealtimeNotifier,
) ScoreService {
	return &scoreService{
		scoreRepo:      scoreRepo,
		settingsRepo:   settingsRepo,
		evaluationRepo: evaluationRepo,
		notifier:       notifier,
	}
}

// RecomputeTeam rebuilds the aggregate for one team: the mean of the
// four-criteria average across all submitted evaluations. A team with no
// submitted evaluations loses its aggregate row.
func (s *scoreService) RecomputeTeam(ctx context.Context, teamID int) error {
	status := models.EvaluationStatusSubmitted
	evaluations, err := s.evaluationRepo.ListByTeam(ctx, teamID, &status)
	if err != nil {
		return fmt.Errorf("failed to list submitted evaluations for team %d: %w", teamID, err)
	}

	if len(evaluations) == 0 {
		return s.scoreRepo.DeleteByTeam(ctx, nil, teamID)
	}

	var sum float64
	for _, e := range evaluations {
		sum += e.AverageScore()
	}

	score := &models.TeamScore{
		TeamID:      teamID,
		FinalScore:  sum / float64(len(evaluations)),
		ReviewCount: len(evaluations),
	}
	if err := s.scoreRepo.Upsert(ctx, nil, score); err != nil {
		return fmt.Errorf("failed to store aggregate for team %d: %w", teamID, err)
	}

	if s.notifier != nil {
		s.notifier.BroadcastToRoom(leaderboardRoom, map[string]interface{}{
			"type":    "TEAM_SCORE_UPDATED",
			"payload": score,
		})
	}
	return nil
}

// Leaderboard ranks verified teams by final score using competition
// ranking: tied scores share a rank and the next distinct score takes
// rank index+1 (1, 2, 2, 4).
func (s *scoreService) Leaderboard(ctx context.Context, includeUnpublished bool) (*models.Leaderboard, error) {
	published, err := s.settingsRepo.GetBool(ctx, repositories.SettingLeaderboardPublished)
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard publish flag: %w", err)
	}
	if !published && !includeUnpublished {
		return nil, ErrLeaderboardNotPublished
	}

	scores, err := s.scoreRepo.ListRanked(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list team scores: %w", err)
	}

	return &models.Leaderboard{
		IsPublished: published,
		Entries:     RankEntries(scores),
	}, nil
}

// RankEntries assigns competition ranks to scores already ordered by
// final_score DESC.
func RankEntries(scores []*models.TeamScore) []models.LeaderboardEntry {
	entries := make([]models.LeaderboardEntry, 0, len(scores))
	for i, score := range scores {
		rank := i + 1
		if i > 0 && score.FinalScore == scores[i-1].FinalScore {
			rank = entries[i-1].Rank
		}
		entries = append(entries, models.LeaderboardEntry{
			Rank:        rank,
			TeamID:      score.TeamID,
			TeamName:    score.TeamName,
			FinalScore:  score.FinalScore,
			ReviewCount: score.ReviewCount,
		})
	}
	return entries
}

func (s *scoreService) SetPublished(ctx context.Context, published bool) error {
	if err := s.settingsRepo.SetBool(ctx, repositories.SettingLeaderboardPublished, published); err != nil {
		return fmt.Errorf("failed to set leaderboard publish flag: %w", err)
	}
	if s.notifier != nil {
		s.notifier.BroadcastToRoom(leaderboardRoom, map[string]interface{}{
			"type":    "LEADERBOARD_PUBLISHED",
			"payload": map[string]bool{"is_published": published},
		})
	}
	return nil
}
