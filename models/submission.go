package models

import "time"

type SubmissionStatus string

const (
	SubmissionStatusDraft     SubmissionStatus = "draft"
	SubmissionStatusSubmitted SubmissionStatus = "submitted"
)

type Submission struct {
	ID          int              `json:"id"`
	TeamID      int              `json:"team_id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	RepoURL     *string          `json:"repo_url,omitempty"`
	DemoURL     *string          `json:"demo_url,omitempty"`
	Status      SubmissionStatus `json:"status"`
	SubmittedAt *time.Time       `json:"submitted_at,omitempty"`
	UpdatedAt   time.Time        `json:"updated_at"`

	FileKey *string `json:"-"`
	FileURL *string `json:"file_url,omitempty"`
}
