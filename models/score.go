package models

import "time"

// TeamScore is the derived aggregate for one team: the mean of the
// four-criteria average across all submitted evaluations.
type TeamScore struct {
	TeamID      int       `json:"team_id"`
	TeamName    string    `json:"team_name,omitempty"`
	FinalScore  float64   `json:"final_score"`
	ReviewCount int       `json:"review_count"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type LeaderboardEntry struct {
	Rank        int     `json:"rank"`
	TeamID      int     `json:"team_id"`
	TeamName    string  `json:"team_name"`
	FinalScore  float64 `json:"final_score"`
	ReviewCount int     `json:"review_count"`
}

type Leaderboard struct {
	IsPublished bool               `json:"is_published"`
	Entries     []LeaderboardEntry `json:"entries"`
}
