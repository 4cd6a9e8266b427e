package models

import "time"

type EvaluationStatus string

const (
	// EvaluationStatusNone is never stored; it marks the absence of a record.
	EvaluationStatusNone      EvaluationStatus = "none"
	EvaluationStatusDraft     EvaluationStatus = "draft"
	EvaluationStatusSubmitted EvaluationStatus = "submitted"
)

// Evaluation is a judge's scoring record for one team. It exists only once
// an assignment exists and the team's submission is final.
type Evaluation struct {
	ID                int              `json:"id"`
	JudgeID           int              `json:"judge_id"`
	TeamID            int              `json:"team_id"`
	ScoreInnovation   *int             `json:"score_innovation"`
	ScoreFeasibility  *int             `json:"score_feasibility"`
	ScoreExecution    *int             `json:"score_execution"`
	ScorePresentation *int             `json:"score_presentation"`
	Comments          *string          `json:"comments"`
	Status            EvaluationStatus `json:"status"`
	IsLockedByAdmin   bool             `json:"is_locked_by_admin"`
	SubmittedAt       *time.Time       `json:"submitted_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// AverageScore returns the mean of the four criteria scores.
// Only meaningful for submitted evaluations, where all four are present.
func (e *Evaluation) AverageScore() float64 {
	var sum, n int
	for _, s := range []*int{e.ScoreInnovation, e.ScoreFeasibility, e.ScoreExecution, e.ScorePresentation} {
		if s != nil {
			sum += *s
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}
