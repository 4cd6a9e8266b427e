package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udesh117/hackathon-system/models"
	"github.com/udesh117/hackathon-system/repositories"
)

func submittedEvaluation(judgeID, teamID, innovation, feasibility, execution, presentation int) *models.Evaluation {
	return &models.Evaluation{
		JudgeID:           judgeID,
		TeamID:            teamID,
		ScoreInnovation:   intPtr(innovation),
		ScoreFeasibility:  intPtr(feasibility),
		ScoreExecution:    intPtr(execution),
		ScorePresentation: intPtr(presentation),
		Status:            models.EvaluationStatusSubmitted,
	}
}

func TestRecomputeTeamAveragesSubmittedEvaluations(t *testing.T) {
	scoreRepo := newFakeScoreRepo()
	evaluationRepo := newFakeEvaluationRepo()
	notifier := &fakeNotifier{}
	svc := NewScoreService(scoreRepo, newFakeSettingsRepo(), evaluationRepo, notifier)

	ctx := context.Background()
	// (8+7+9+6)/4 = 7.5 and (10+10+10+10)/4 = 10, mean 8.75.
	require.NoError(t, evaluationRepo.Upsert(ctx, nil, submittedEvaluation(1, 10, 8, 7, 9, 6)))
	require.NoError(t, evaluationRepo.Upsert(ctx, nil, submittedEvaluation(2, 10, 10, 10, 10, 10)))
	// Drafts never count toward the aggregate.
	draft := &models.Evaluation{JudgeID: 3, TeamID: 10, ScoreInnovation: intPtr(1), Status: models.EvaluationStatusDraft}
	require.NoError(t, evaluationRepo.Upsert(ctx, nil, draft))

	require.NoError(t, svc.RecomputeTeam(ctx, 10))

	score, err := scoreRepo.GetByTeam(ctx, 10)
	require.NoError(t, err)
	assert.InDelta(t, 8.75, score.FinalScore, 1e-9)
	assert.Equal(t, 2, score.ReviewCount)
	assert.NotEmpty(t, notifier.messages)
}

func TestRecomputeTeamRemovesAggregateWithoutSubmissions(t *testing.T) {
	scoreRepo := newFakeScoreRepo()
	evaluationRepo := newFakeEvaluationRepo()
	svc := NewScoreService(scoreRepo, newFakeSettingsRepo(), evaluationRepo, nil)

	ctx := context.Background()
	require.NoError(t, scoreRepo.Upsert(ctx, nil, &models.TeamScore{TeamID: 10, FinalScore: 5}))

	require.NoError(t, svc.RecomputeTeam(ctx, 10))

	_, err := scoreRepo.GetByTeam(ctx, 10)
	assert.ErrorIs(t, err, repositories.ErrTeamScoreNotFound)
}

func TestLeaderboardHiddenUntilPublished(t *testing.T) {
	svc := NewScoreService(newFakeScoreRepo(), newFakeSettingsRepo(), newFakeEvaluationRepo(), nil)

	_, err := svc.Leaderboard(context.Background(), false)
	assert.ErrorIs(t, err, ErrLeaderboardNotPublished)

	// Admins bypass the publish flag.
	leaderboard, err := svc.Leaderboard(context.Background(), true)
	require.NoError(t, err)
	assert.False(t, leaderboard.IsPublished)
}

func TestLeaderboardAfterPublish(t *testing.T) {
	scoreRepo := newFakeScoreRepo()
	notifier := &fakeNotifier{}
	svc := NewScoreService(scoreRepo, newFakeSettingsRepo(), newFakeEvaluationRepo(), notifier)

	ctx := context.Background()
	require.NoError(t, scoreRepo.Upsert(ctx, nil, &models.TeamScore{TeamID: 1, TeamName: "alpha", FinalScore: 9.5}))
	require.NoError(t, svc.SetPublished(ctx, true))

	leaderboard, err := svc.Leaderboard(ctx, false)
	require.NoError(t, err)
	assert.True(t, leaderboard.IsPublished)
	require.Len(t, leaderboard.Entries, 1)
	assert.Equal(t, 1, leaderboard.Entries[0].Rank)
	assert.NotEmpty(t, notifier.messages)
}

func TestRankEntriesCompetitionRanking(t *testing.T) {
	scores := []*models.TeamScore{
		{TeamID: 1, FinalScore: 9.5},
		{TeamID: 2, FinalScore: 8.0},
		{TeamID: 3, FinalScore: 8.0},
		{TeamID: 4, FinalScore: 7.25},
	}

	entries := RankEntries(scores)

	require.Len(t, entries, 4)
	assert.Equal(t, []int{1, 2, 2, 4}, []int{entries[0].Rank, entries[1].Rank, entries[2].Rank, entries[3].Rank})
}

func TestRankEntriesEmpty(t *testing.T) {
	entries := RankEntries(nil)
	assert.Empty(t, entries)
}
