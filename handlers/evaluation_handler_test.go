package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udesh117/hackathon-system/middleware"
	"github.com/udesh117/hackathon-system/models"
	"github.com/udesh117/hackathon-system/services"
)

var testSecret = []byte("test-secret")

// stubEvaluationService returns canned values so the tests pin down the
// HTTP translation layer, not the domain rules.
type stubEvaluationService struct {
	evaluation *models.Evaluation
	err        error

	gotJudgeID int
	gotTeamID  int
	gotInput   services.EvaluationInput
}

func (s *stubEvaluationService) Get(_ context.Context, judgeID, teamID int) (*models.Evaluation, error) {
	s.gotJudgeID, s.gotTeamID = judgeID, teamID
	return s.evaluation, s.err
}

func (s *stubEvaluationService) SaveDraft(_ context.Context, judgeID, teamID int, input services.EvaluationInput) (*models.Evaluation, error) {
	s.gotJudgeID, s.gotTeamID, s.gotInput = judgeID, teamID, input
	return s.evaluation, s.err
}

func (s *stubEvaluationService) Submit(_ context.Context, judgeID, teamID int, input services.EvaluationInput) (*models.Evaluation, error) {
	s.gotJudgeID, s.gotTeamID, s.gotInput = judgeID, teamID, input
	return s.evaluation, s.err
}

func (s *stubEvaluationService) Update(_ context.Context, judgeID, teamID int, input services.EvaluationInput) (*models.Evaluation, error) {
	s.gotJudgeID, s.gotTeamID, s.gotInput = judgeID, teamID, input
	return s.evaluation, s.err
}

func (s *stubEvaluationService) SetLocked(_ context.Context, judgeID, teamID int, _ bool) error {
	s.gotJudgeID, s.gotTeamID = judgeID, teamID
	return s.err
}

func newEvaluationRouter(svc services.EvaluationService) *chi.Mux {
	h := NewEvaluationHandler(svc)

	router := chi.NewRouter()
	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(testSecret))
		r.Get("/judge/teams/{teamID}/evaluation", h.Get)
		r.Put("/judge/teams/{teamID}/evaluation/draft", h.SaveDraft)
		r.Post("/judge/teams/{teamID}/evaluation/submit", h.Submit)
	})
	return router
}

func judgeToken(t *testing.T, userID int) string {
	t.Helper()

	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    string(models.RoleJudge),
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, router http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestEvaluationSubmitValidationFailure(t *testing.T) {
	svc := &stubEvaluationService{err: &services.ValidationError{Fields: map[string]string{
		"score_feasibility": "must be an integer between 1 and 10",
		"comments":          "must be at least 15 characters long",
	}}}
	router := newEvaluationRouter(svc)

	body := `{"score_innovation": 9, "score_feasibility": 11, "comments": "short"}`
	rec := doRequest(t, router, http.MethodPost, "/judge/teams/10/evaluation/submit", judgeToken(t, 1), body)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var envelope struct {
		Error map[string]string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Error, 2)
	assert.Equal(t, "must be at least 15 characters long", envelope.Error["comments"])
}

func TestEvaluationSubmitSuccess(t *testing.T) {
	score := 8
	svc := &stubEvaluationService{evaluation: &models.Evaluation{
		ID:              1,
		JudgeID:         7,
		TeamID:          10,
		ScoreInnovation: &score,
		Status:          models.EvaluationStatusSubmitted,
	}}
	router := newEvaluationRouter(svc)

	body := `{"score_innovation": 8, "score_feasibility": 8, "score_execution": 8, "score_presentation": 8, "comments": "a sufficiently long comment"}`
	rec := doRequest(t, router, http.MethodPost, "/judge/teams/10/evaluation/submit", judgeToken(t, 7), body)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 7, svc.gotJudgeID)
	assert.Equal(t, 10, svc.gotTeamID)
	require.NotNil(t, svc.gotInput.ScoreInnovation)
	assert.Equal(t, 8, *svc.gotInput.ScoreInnovation)

	var envelope struct {
		Evaluation models.Evaluation `json:"evaluation"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, models.EvaluationStatusSubmitted, envelope.Evaluation.Status)
}

func TestEvaluationSubmitLocked(t *testing.T) {
	svc := &stubEvaluationService{err: services.ErrEvaluationLocked}
	router := newEvaluationRouter(svc)

	body := `{"comments": "a sufficiently long comment"}`
	rec := doRequest(t, router, http.MethodPost, "/judge/teams/10/evaluation/submit", judgeToken(t, 1), body)

	assert.Equal(t, http.StatusLocked, rec.Code)
}

func TestEvaluationSubmitAlreadySubmitted(t *testing.T) {
	svc := &stubEvaluationService{err: services.ErrEvaluationAlreadySubmitted}
	router := newEvaluationRouter(svc)

	body := `{"comments": "a sufficiently long comment"}`
	rec := doRequest(t, router, http.MethodPost, "/judge/teams/10/evaluation/submit", judgeToken(t, 1), body)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestEvaluationGetUnassignedPair(t *testing.T) {
	svc := &stubEvaluationService{err: services.ErrAssignmentNotFound}
	router := newEvaluationRouter(svc)

	rec := doRequest(t, router, http.MethodGet, "/judge/teams/10/evaluation", judgeToken(t, 1), "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEvaluationRequiresToken(t *testing.T) {
	router := newEvaluationRouter(&stubEvaluationService{})

	rec := doRequest(t, router, http.MethodGet, "/judge/teams/10/evaluation", "", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestEvaluationRejectsMalformedTeamID(t *testing.T) {
	router := newEvaluationRouter(&stubEvaluationService{})

	rec := doRequest(t, router, http.MethodGet, "/judge/teams/abc/evaluation", judgeToken(t, 1), "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEvaluationDraftRejectsUnknownField(t *testing.T) {
	router := newEvaluationRouter(&stubEvaluationService{})

	body := `{"score_total": 50}`
	rec := doRequest(t, router, http.MethodPut, "/judge/teams/10/evaluation/draft", judgeToken(t, 1), body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
