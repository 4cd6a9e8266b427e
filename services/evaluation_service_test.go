package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udesh117/hackathon-system/models"
)

func newEvaluationFixture(t *testing.T) (EvaluationService, *fakeEvaluationRepo, *fakeAssignmentRepo, *fakeSubmissionRepo) {
	t.Helper()

	evaluationRepo := newFakeEvaluationRepo()
	assignmentRepo := newFakeAssignmentRepo()
	submissionRepo := newFakeSubmissionRepo()

	scoreService := NewScoreService(newFakeScoreRepo(), newFakeSettingsRepo(), evaluationRepo, nil)
	svc := NewEvaluationService(evaluationRepo, assignmentRepo, submissionRepo, scoreService, slog.Default())

	return svc, evaluationRepo, assignmentRepo, submissionRepo
}

func seedAssignmentAndSubmission(t *testing.T, assignmentRepo *fakeAssignmentRepo, submissionRepo *fakeSubmissionRepo, judgeID, teamID int) {
	t.Helper()

	err := assignmentRepo.CreateBatch(context.Background(), nil, []*models.Assignment{
		{JudgeID: judgeID, TeamID: teamID},
	})
	require.NoError(t, err)

	now := time.Now()
	err = submissionRepo.Upsert(context.Background(), &models.Submission{
		TeamID:      teamID,
		Title:       "Project",
		Status:      models.SubmissionStatusSubmitted,
		SubmittedAt: &now,
	})
	require.NoError(t, err)
}

func validInput() EvaluationInput {
	return EvaluationInput{
		ScoreInnovation:   intPtr(8),
		ScoreFeasibility:  intPtr(7),
		ScoreExecution:    intPtr(9),
		ScorePresentation: intPtr(6),
		Comments:          strPtr("Strong idea with a working demo."),
	}
}

func TestEvaluationGetReturnsNoneWhenAbsent(t *testing.T) {
	svc, _, assignmentRepo, submissionRepo := newEvaluationFixture(t)
	seedAssignmentAndSubmission(t, assignmentRepo, submissionRepo, 1, 10)

	evaluation, err := svc.Get(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, models.EvaluationStatusNone, evaluation.Status)
	assert.Equal(t, 1, evaluation.JudgeID)
	assert.Equal(t, 10, evaluation.TeamID)
}

func TestEvaluationGetRequiresAssignment(t *testing.T) {
	svc, _, _, _ := newEvaluationFixture(t)

	_, err := svc.Get(context.Background(), 1, 10)
	assert.ErrorIs(t, err, ErrAssignmentNotFound)
}

func TestEvaluationSaveDraftPartialScores(t *testing.T) {
	svc, _, assignmentRepo, submissionRepo := newEvaluationFixture(t)
	seedAssignmentAndSubmission(t, assignmentRepo, submissionRepo, 1, 10)

	input := EvaluationInput{ScoreInnovation: intPtr(7)}
	evaluation, err := svc.SaveDraft(context.Background(), 1, 10, input)
	require.NoError(t, err)
	assert.Equal(t, models.EvaluationStatusDraft, evaluation.Status)
	assert.Nil(t, evaluation.SubmittedAt)

	// Saving again overwrites the draft in place.
	input.ScoreInnovation = intPtr(9)
	again, err := svc.SaveDraft(context.Background(), 1, 10, input)
	require.NoError(t, err)
	assert.Equal(t, evaluation.ID, again.ID)
	assert.Equal(t, 9, *again.ScoreInnovation)
}

func TestEvaluationSaveDraftRejectsOutOfRangeScore(t *testing.T) {
	svc, _, assignmentRepo, submissionRepo := newEvaluationFixture(t)
	seedAssignmentAndSubmission(t, assignmentRepo, submissionRepo, 1, 10)

	input := EvaluationInput{ScoreInnovation: intPtr(11)}
	_, err := svc.SaveDraft(context.Background(), 1, 10, input)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "score_innovation")
}

func TestEvaluationSaveDraftRequiresFinalSubmission(t *testing.T) {
	svc, _, assignmentRepo, submissionRepo := newEvaluationFixture(t)

	err := assignmentRepo.CreateBatch(context.Background(), nil, []*models.Assignment{{JudgeID: 1, TeamID: 10}})
	require.NoError(t, err)
	err = submissionRepo.Upsert(context.Background(), &models.Submission{
		TeamID: 10,
		Title:  "Draft project",
		Status: models.SubmissionStatusDraft,
	})
	require.NoError(t, err)

	_, err = svc.SaveDraft(context.Background(), 1, 10, EvaluationInput{})
	assert.ErrorIs(t, err, ErrSubmissionNotFinal)
}

func TestEvaluationSubmitCollectsAllViolations(t *testing.T) {
	svc, _, assignmentRepo, submissionRepo := newEvaluationFixture(t)
	seedAssignmentAndSubmission(t, assignmentRepo, submissionRepo, 1, 10)

	input := EvaluationInput{
		ScoreInnovation:   intPtr(9),
		ScoreFeasibility:  intPtr(11),
		ScoreExecution:    intPtr(0),
		ScorePresentation: intPtr(5),
		Comments:          strPtr("too short!"),
	}
	_, err := svc.Submit(context.Background(), 1, 10, input)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Len(t, validationErr.Fields, 3)
	assert.Equal(t, "must be an integer between 1 and 10", validationErr.Fields["score_feasibility"])
	assert.Equal(t, "must be an integer between 1 and 10", validationErr.Fields["score_execution"])
	assert.Equal(t, "must be at least 15 characters long", validationErr.Fields["comments"])
}

func TestEvaluationSubmitRequiresAllScores(t *testing.T) {
	svc, _, assignmentRepo, submissionRepo := newEvaluationFixture(t)
	seedAssignmentAndSubmission(t, assignmentRepo, submissionRepo, 1, 10)

	input := EvaluationInput{ScoreInnovation: intPtr(8)}
	_, err := svc.Submit(context.Background(), 1, 10, input)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "score_feasibility")
	assert.Contains(t, validationErr.Fields, "score_execution")
	assert.Contains(t, validationErr.Fields, "score_presentation")
	assert.Contains(t, validationErr.Fields, "comments")
}

func TestEvaluationSubmitFinalizes(t *testing.T) {
	svc, evaluationRepo, assignmentRepo, submissionRepo := newEvaluationFixture(t)
	seedAssignmentAndSubmission(t, assignmentRepo, submissionRepo, 1, 10)

	evaluation, err := svc.Submit(context.Background(), 1, 10, validInput())
	require.NoError(t, err)
	assert.Equal(t, models.EvaluationStatusSubmitted, evaluation.Status)
	require.NotNil(t, evaluation.SubmittedAt)

	stored, err := evaluationRepo.GetByJudgeAndTeam(context.Background(), nil, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, models.EvaluationStatusSubmitted, stored.Status)
}

func TestEvaluationSubmitTwiceConflicts(t *testing.T) {
	svc, _, assignmentRepo, submissionRepo := newEvaluationFixture(t)
	seedAssignmentAndSubmission(t, assignmentRepo, submissionRepo, 1, 10)

	_, err := svc.Submit(context.Background(), 1, 10, validInput())
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), 1, 10, validInput())
	assert.ErrorIs(t, err, ErrEvaluationAlreadySubmitted)
}

func TestEvaluationDraftAfterSubmitRejected(t *testing.T) {
	svc, _, assignmentRepo, submissionRepo := newEvaluationFixture(t)
	seedAssignmentAndSubmission(t, assignmentRepo, submissionRepo, 1, 10)

	_, err := svc.Submit(context.Background(), 1, 10, validInput())
	require.NoError(t, err)

	_, err = svc.SaveDraft(context.Background(), 1, 10, EvaluationInput{ScoreInnovation: intPtr(5)})
	assert.ErrorIs(t, err, ErrEvaluationAlreadySubmitted)
}

func TestEvaluationLockBlocksWrites(t *testing.T) {
	svc, _, assignmentRepo, submissionRepo := newEvaluationFixture(t)
	seedAssignmentAndSubmission(t, assignmentRepo, submissionRepo, 1, 10)

	_, err := svc.SaveDraft(context.Background(), 1, 10, EvaluationInput{ScoreInnovation: intPtr(5)})
	require.NoError(t, err)

	require.NoError(t, svc.SetLocked(context.Background(), 1, 10, true))

	_, err = svc.SaveDraft(context.Background(), 1, 10, EvaluationInput{ScoreInnovation: intPtr(6)})
	assert.ErrorIs(t, err, ErrEvaluationLocked)
	_, err = svc.Submit(context.Background(), 1, 10, validInput())
	assert.ErrorIs(t, err, ErrEvaluationLocked)

	// Unlocking resumes normal operation.
	require.NoError(t, svc.SetLocked(context.Background(), 1, 10, false))
	_, err = svc.Submit(context.Background(), 1, 10, validInput())
	assert.NoError(t, err)
}

func TestEvaluationUpdateKeepsStatusAndTimestamp(t *testing.T) {
	svc, _, assignmentRepo, submissionRepo := newEvaluationFixture(t)
	seedAssignmentAndSubmission(t, assignmentRepo, submissionRepo, 1, 10)

	submitted, err := svc.Submit(context.Background(), 1, 10, validInput())
	require.NoError(t, err)

	input := validInput()
	input.ScoreInnovation = intPtr(3)
	updated, err := svc.Update(context.Background(), 1, 10, input)
	require.NoError(t, err)

	assert.Equal(t, models.EvaluationStatusSubmitted, updated.Status)
	assert.Equal(t, 3, *updated.ScoreInnovation)
	require.NotNil(t, updated.SubmittedAt)
	assert.True(t, updated.SubmittedAt.Equal(*submitted.SubmittedAt))
}

func TestEvaluationUpdateRequiresSubmittedState(t *testing.T) {
	svc, _, assignmentRepo, submissionRepo := newEvaluationFixture(t)
	seedAssignmentAndSubmission(t, assignmentRepo, submissionRepo, 1, 10)

	_, err := svc.Update(context.Background(), 1, 10, validInput())
	assert.ErrorIs(t, err, ErrEvaluationNotFound)

	_, err = svc.SaveDraft(context.Background(), 1, 10, EvaluationInput{ScoreInnovation: intPtr(5)})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), 1, 10, validInput())
	assert.ErrorIs(t, err, ErrEvaluationNotSubmitted)
}

func TestEvaluationSetLockedUnknownRecord(t *testing.T) {
	svc, _, _, _ := newEvaluationFixture(t)

	err := svc.SetLocked(context.Background(), 1, 10, true)
	assert.ErrorIs(t, err, ErrEvaluationNotFound)
}
