package models

type DashboardStats struct {
	ParticipantsTotal    int `json:"participants_total"`
	JudgesTotal          int `json:"judges_total"`
	ActiveJudges         int `json:"active_judges"`
	TeamsTotal           int `json:"teams_total"`
	VerifiedTeams        int `json:"verified_teams"`
	PendingTeams         int `json:"pending_teams"`
	SubmissionsTotal     int `json:"submissions_total"`
	FinalSubmissions     int `json:"final_submissions"`
	AssignmentsTotal     int `json:"assignments_total"`
	EvaluationsSubmitted int `json:"evaluations_submitted"`
}
