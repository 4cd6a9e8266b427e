package models

import "time"

type TeamStatus string

const (
	TeamStatusPending  TeamStatus = "pending"
	TeamStatusVerified TeamStatus = "verified"
	TeamStatusRejected TeamStatus = "rejected"
)

type Team struct {
	ID        int        `json:"id"`
	Name      string     `json:"name"`
	LeaderID  int        `json:"leader_id"`
	Status    TeamStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`

	Members []User `json:"members,omitempty"`

	LogoKey *string `json:"-"`
	LogoURL *string `json:"logo_url,omitempty"`
}

func (s TeamStatus) Valid() bool {
	switch s {
	case TeamStatusPending, TeamStatusVerified, TeamStatusRejected:
		return true
	}
	return false
}
