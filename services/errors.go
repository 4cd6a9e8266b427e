package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Shared errors used across services and the HTTP mapping layer.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Authentication and authorization
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthEmailTaken         = errors.New("email is already taken")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")

	// Users and judges
	ErrUserNotFound     = errors.New("user not found")
	ErrJudgeNotFound    = errors.New("judge not found")
	ErrUserIsNotJudge   = errors.New("user does not have the judge role")
	ErrJudgeDeactivated = errors.New("judge account is deactivated")

	// Teams
	ErrTeamNotFound        = errors.New("team not found")
	ErrTeamNameConflict    = errors.New("team name is already in use")
	ErrUserAlreadyInTeam   = errors.New("user is already in a team")
	ErrTeamStatusInvalid   = errors.New("invalid team status provided")
	ErrOnlyLeaderAllowed   = errors.New("only the team leader can perform this action")
	ErrUserHasNoTeam       = errors.New("user does not belong to a team")
	ErrTeamAlreadyVerified = errors.New("team verification status already decided")

	// Submissions
	ErrSubmissionNotFound     = errors.New("submission not found")
	ErrSubmissionNotFinal     = errors.New("team submission is not finalized")
	ErrSubmissionTitleMissing = errors.New("submission title is required")

	// Assignments
	ErrAssignmentNotFound  = errors.New("assignment not found")
	ErrAssignmentConflict  = errors.New("assignment for this judge and team already exists")
	ErrAssignmentRefBroken = errors.New("assignment references an unknown judge or team")
	ErrNoAssignmentPairs   = errors.New("no assignment pairs provided")

	// Evaluations
	ErrEvaluationNotFound         = errors.New("evaluation not found")
	ErrEvaluationLocked           = errors.New("evaluation is locked by an administrator")
	ErrEvaluationAlreadySubmitted = errors.New("evaluation has already been submitted")
	ErrEvaluationNotSubmitted     = errors.New("evaluation has not been submitted yet")

	// Leaderboard
	ErrLeaderboardNotPublished = errors.New("leaderboard has not been published")

	// Announcements
	ErrAnnouncementNotFound        = errors.New("announcement not found")
	ErrAnnouncementInvalidAudience = errors.New("invalid announcement audience")
)

// ValidationError reports every invalid field of a request in one error, so
// a client can correct all issues in a single round trip.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s %s", name, e.Fields[name]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func newValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// RealtimeNotifier pushes events to connected websocket clients. Services
// treat delivery as best-effort.
type RealtimeNotifier interface {
	BroadcastToRoom(roomID string, message interface{})
}
