package dto

import "artclub/internal/domain/models"

type NotificationRequest struct {
	Message          string                  `json:"message" form:"message" validate:"required"`
	NotificationType models.NotificationType `json:"notification_type" form:"notification_type" validate:"required,oneof=artwork_approved event_update project_invite general"`
	RecipientRole    models.Role             `json:"recipient_role,omitempty" form:"recipient_role" validate:"omitempty,oneof=admin member visitor"`
	Recipient        int64                   `json:"recipient,omitempty" form:"recipient"`
}
