package models

import "time"

type NotificationType string

const (
	NotificationArtworkApproved NotificationType = "artwork_approved"
	NotificationEventUpdate     NotificationType = "event_update"
	NotificationProjectInvite   NotificationType = "project_invite"
	NotificationGeneral         NotificationType = "general"
)

type Notification struct {
	ID               int64            `json:"id"`
	Message          string           `json:"message"`
	NotificationType NotificationType `json:"notification_type"`
	RecipientRole    Role             `json:"recipient_role,omitempty"`
	Recipient        int64            `json:"recipient,omitempty"`
	Read             bool             `json:"read"`
	CreatedAt        time.Time        `json:"created_at"`
}

func (n Notification) Key() int64 { return n.ID }

// Preferences настройки уведомлений: тип уведомления -> включено ли
type Preferences map[string]bool
