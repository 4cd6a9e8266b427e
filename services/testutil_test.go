package services

import (
	"context"
	"sort"
	"sync"

	"github.com/udesh117/hackathon-system/models"
	"github.com/udesh117/hackathon-system/repositories"
)

// In-memory repository fakes shared by the service tests. They mimic the
// postgres implementations' contracts: sentinel errors, id ASC ordering and
// unique (judge_id, team_id) pairs.

type fakeAssignmentRepo struct {
	mu     sync.Mutex
	nextID int
	items  map[int]*models.Assignment
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{nextID: 1, items: make(map[int]*models.Assignment)}
}

func (r *fakeAssignmentRepo) CreateBatch(_ context.Context, _ repositories.SQLExecutor, assignments []*models.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range assignments {
		for _, existing := range r.items {
			if existing.JudgeID == a.JudgeID && existing.TeamID == a.TeamID {
				return repositories.ErrAssignmentPairConflict
			}
		}
	}
	for _, a := range assignments {
		a.ID = r.nextID
		r.nextID++
		copied := *a
		r.items[a.ID] = &copied
	}
	return nil
}

func (r *fakeAssignmentRepo) GetByJudgeAndTeam(_ context.Context, _ repositories.SQLExecutor, judgeID, teamID int) (*models.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.items {
		if a.JudgeID == judgeID && a.TeamID == teamID {
			copied := *a
			return &copied, nil
		}
	}
	return nil, repositories.ErrAssignmentNotFound
}

func (r *fakeAssignmentRepo) ListAll(_ context.Context, _ repositories.SQLExecutor) ([]*models.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Assignment, 0, len(r.items))
	for _, a := range r.items {
		copied := *a
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeAssignmentRepo) ListByJudge(ctx context.Context, judgeID int) ([]*models.Assignment, error) {
	all, _ := r.ListAll(ctx, nil)
	out := make([]*models.Assignment, 0)
	for _, a := range all {
		if a.JudgeID == judgeID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAssignmentRepo) DeleteByJudgeAndTeam(_ context.Context, _ repositories.SQLExecutor, judgeID, teamID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, a := range r.items {
		if a.JudgeID == judgeID && a.TeamID == teamID {
			delete(r.items, id)
			return nil
		}
	}
	return repositories.ErrAssignmentNotFound
}

func (r *fakeAssignmentRepo) DeleteByIDs(_ context.Context, _ repositories.SQLExecutor, ids []int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		delete(r.items, id)
	}
	return nil
}

func (r *fakeAssignmentRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items), nil
}

type fakeEvaluationRepo struct {
	mu     sync.Mutex
	nextID int
	items  map[int]*models.Evaluation
}

func newFakeEvaluationRepo() *fakeEvaluationRepo {
	return &fakeEvaluationRepo{nextID: 1, items: make(map[int]*models.Evaluation)}
}

func (r *fakeEvaluationRepo) GetByJudgeAndTeam(_ context.Context, _ repositories.SQLExecutor, judgeID, teamID int) (*models.Evaluation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.items {
		if e.JudgeID == judgeID && e.TeamID == teamID {
			copied := *e
			return &copied, nil
		}
	}
	return nil, repositories.ErrEvaluationNotFound
}

func (r *fakeEvaluationRepo) Upsert(_ context.Context, _ repositories.SQLExecutor, evaluation *models.Evaluation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, e := range r.items {
		if e.JudgeID == evaluation.JudgeID && e.TeamID == evaluation.TeamID {
			evaluation.ID = id
			copied := *evaluation
			r.items[id] = &copied
			return nil
		}
	}
	evaluation.ID = r.nextID
	r.nextID++
	copied := *evaluation
	r.items[evaluation.ID] = &copied
	return nil
}

func (r *fakeEvaluationRepo) ListByTeam(_ context.Context, teamID int, status *models.EvaluationStatus) ([]*models.Evaluation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Evaluation, 0)
	for _, e := range r.items {
		if e.TeamID != teamID {
			continue
		}
		if status != nil && e.Status != *status {
			continue
		}
		copied := *e
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeEvaluationRepo) ListAll(_ context.Context, _ repositories.SQLExecutor) ([]*models.Evaluation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Evaluation, 0, len(r.items))
	for _, e := range r.items {
		copied := *e
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeEvaluationRepo) SetLocked(_ context.Context, judgeID, teamID int, locked bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.items {
		if e.JudgeID == judgeID && e.TeamID == teamID {
			e.IsLockedByAdmin = locked
			return nil
		}
	}
	return repositories.ErrEvaluationNotFound
}

func (r *fakeEvaluationRepo) CountByStatus(_ context.Context, status models.EvaluationStatus) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.items {
		if e.Status == status {
			n++
		}
	}
	return n, nil
}

type fakeSubmissionRepo struct {
	mu    sync.Mutex
	items map[int]*models.Submission // keyed by team id
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{items: make(map[int]*models.Submission)}
}

func (r *fakeSubmissionRepo) Upsert(_ context.Context, submission *models.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *submission
	r.items[submission.TeamID] = &copied
	return nil
}

func (r *fakeSubmissionRepo) GetByTeam(_ context.Context, teamID int) (*models.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[teamID]
	if !ok {
		return nil, repositories.ErrSubmissionNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *fakeSubmissionRepo) CountByStatus(_ context.Context, status *models.SubmissionStatus) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.items {
		if status == nil || s.Status == *status {
			n++
		}
	}
	return n, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[int]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[int]*models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	user.ID = len(r.users) + 1
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) ListJudges(_ context.Context, activeOnly bool) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.User, 0)
	for _, u := range r.users {
		if u.Role != models.RoleJudge {
			continue
		}
		if activeOnly && !u.IsActive {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeUserRepo) ListEmailsByRole(_ context.Context, role models.UserRole) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0)
	for _, u := range r.users {
		if u.Role == role {
			out = append(out, u.Email)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *fakeUserRepo) SetActive(_ context.Context, id int, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.IsActive = active
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return repositories.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) CountByRole(_ context.Context, role models.UserRole, activeOnly bool) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, u := range r.users {
		if u.Role != role {
			continue
		}
		if activeOnly && !u.IsActive {
			continue
		}
		n++
	}
	return n, nil
}

type fakeTeamRepo struct {
	mu    sync.Mutex
	teams map[int]*models.Team
}

func newFakeTeamRepo(teams ...*models.Team) *fakeTeamRepo {
	r := &fakeTeamRepo{teams: make(map[int]*models.Team)}
	for _, t := range teams {
		r.teams[t.ID] = t
	}
	return r
}

func (r *fakeTeamRepo) Create(_ context.Context, team *models.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.teams {
		if t.Name == team.Name {
			return repositories.ErrTeamNameConflict
		}
	}
	team.ID = len(r.teams) + 1
	r.teams[team.ID] = team
	return nil
}

func (r *fakeTeamRepo) GetByID(_ context.Context, id int) (*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	return t, nil
}

func (r *fakeTeamRepo) GetByMember(_ context.Context, userID int) (*models.Team, error) {
	return nil, repositories.ErrTeamNotFound
}

func (r *fakeTeamRepo) List(_ context.Context, status *models.TeamStatus) ([]*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Team, 0)
	for _, t := range r.teams {
		if status != nil && t.Status != *status {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTeamRepo) UpdateStatus(_ context.Context, id int, status models.TeamStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.teams[id]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	t.Status = status
	return nil
}

func (r *fakeTeamRepo) UpdateLogoKey(_ context.Context, id int, logoKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.teams[id]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	t.LogoKey = &logoKey
	return nil
}

func (r *fakeTeamRepo) AddMember(_ context.Context, teamID, userID int) error { return nil }

func (r *fakeTeamRepo) ListMembers(_ context.Context, teamID int) ([]models.User, error) {
	return nil, nil
}

func (r *fakeTeamRepo) CountByStatus(_ context.Context, status *models.TeamStatus) (int, error) {
	teams, _ := r.List(context.Background(), status)
	return len(teams), nil
}

type fakeScoreRepo struct {
	mu     sync.Mutex
	scores map[int]*models.TeamScore
}

func newFakeScoreRepo() *fakeScoreRepo {
	return &fakeScoreRepo{scores: make(map[int]*models.TeamScore)}
}

func (r *fakeScoreRepo) Upsert(_ context.Context, _ repositories.SQLExecutor, score *models.TeamScore) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *score
	r.scores[score.TeamID] = &copied
	return nil
}

func (r *fakeScoreRepo) DeleteByTeam(_ context.Context, _ repositories.SQLExecutor, teamID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.scores, teamID)
	return nil
}

func (r *fakeScoreRepo) GetByTeam(_ context.Context, teamID int) (*models.TeamScore, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.scores[teamID]
	if !ok {
		return nil, repositories.ErrTeamScoreNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *fakeScoreRepo) ListRanked(_ context.Context) ([]*models.TeamScore, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.TeamScore, 0, len(r.scores))
	for _, s := range r.scores {
		copied := *s
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FinalScore != out[j].FinalScore {
			return out[i].FinalScore > out[j].FinalScore
		}
		return out[i].TeamID < out[j].TeamID
	})
	return out, nil
}

type fakeSettingsRepo struct {
	mu     sync.Mutex
	values map[string]bool
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{values: make(map[string]bool)}
}

func (r *fakeSettingsRepo) GetBool(_ context.Context, key string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.values[key], nil
}

func (r *fakeSettingsRepo) SetBool(_ context.Context, key string, value bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = value
	return nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	messages []interface{}
}

func (n *fakeNotifier) BroadcastToRoom(_ string, message interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
