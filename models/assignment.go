package models

import "time"

// Assignment pairs a judge with a team the judge has to evaluate.
// At most one assignment exists per (judge_id, team_id).
type Assignment struct {
	ID        int       `json:"id"`
	JudgeID   int       `json:"judge_id"`
	TeamID    int       `json:"team_id"`
	CreatedAt time.Time `json:"created_at"`
}

// JudgeLoadStats summarizes how much of a judge's assigned work is done.
type JudgeLoadStats struct {
	TotalAssigned  int `json:"total_assigned"`
	CompletedCount int `json:"completed_count"`
	PendingCount   int `json:"pending_count"`
}

type AssignedTeam struct {
	AssignmentID     int              `json:"assignment_id"`
	TeamID           int              `json:"team_id"`
	TeamName         string           `json:"team_name"`
	TeamStatus       TeamStatus       `json:"team_status"`
	EvaluationStatus EvaluationStatus `json:"evaluation_status"`
}

// JudgeAssignments is one row of the admin assignment matrix.
type JudgeAssignments struct {
	JudgeID       int            `json:"judge_id"`
	JudgeName     string         `json:"judge_name"`
	Email         string         `json:"email"`
	IsActive      bool           `json:"is_active"`
	LoadStats     JudgeLoadStats `json:"load_stats"`
	TeamsAssigned []AssignedTeam `json:"teams_assigned"`
}
