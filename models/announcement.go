package models

import "time"

type AnnouncementAudience string

const (
	AudienceAll          AnnouncementAudience = "all"
	AudienceJudges       AnnouncementAudience = "judges"
	AudienceParticipants AnnouncementAudience = "participants"
)

type Announcement struct {
	ID        int                  `json:"id"`
	Title     string               `json:"title"`
	Body      string               `json:"body"`
	Audience  AnnouncementAudience `json:"audience"`
	PublishAt *time.Time           `json:"publish_at,omitempty"`
	Published bool                 `json:"published"`
	CreatedAt time.Time            `json:"created_at"`
}

func (a AnnouncementAudience) Valid() bool {
	switch a {
	case AudienceAll, AudienceJudges, AudienceParticipants:
		return true
	}
	return false
}
