package models

import "time"

type EventStats struct {
	TotalEvents        int                  `json:"total_events"`
	CompletedEvents    int                  `json:"completed_events"`
	UpcomingEvents     int                  `json:"upcoming_events"`
	ParticipationStats []EventParticipation `json:"participation_stats"`
}

type EventParticipation struct {
	EventTitle       string `json:"event__title"`
	ParticipantCount int    `json:"participant_count"`
}

type ProjectStats struct {
	TotalProjects     int `json:"total_projects"`
	OngoingProjects   int `json:"ongoing_projects"`
	CompletedProjects int `json:"completed_projects"`
	UserContributions int `json:"user_contributions"`
}

type MemberStats struct {
	TotalArtworks        int             `json:"total_artworks"`
	ApprovalRate         float64         `json:"approval_rate"`
	CategoryDistribution []CategoryCount `json:"category_distribution"`
	RecentActivityLogs   []ActivityLog   `json:"recent_activity_logs"`
}

type CategoryCount struct {
	Category Category `json:"category"`
	Count    int      `json:"count"`
}

type Analytics struct {
	MonthlyArtworkData []MonthlyCount `json:"monthly_artwork_data"`
	UserRoles          []RoleCount    `json:"user_roles"`
	TopArtists         []TopArtist    `json:"top_artists"`
}

type MonthlyCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

type RoleCount struct {
	Role  Role `json:"role"`
	Count int  `json:"count"`
}

type TopArtist struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Profile     string `json:"profile,omitempty"`
	Uploads     int    `json:"uploads"`
	Engagements int    `json:"engagements"`
	Likes       int    `json:"likes"`
}

// ActivityLog запись журнала действий пользователей
type ActivityLog struct {
	ID        int64     `json:"id"`
	User      string    `json:"user"`
	Action    string    `json:"action"`
	Resource  string    `json:"resource,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func (l ActivityLog) Key() int64 { return l.ID }
