package domain

import "encoding/json"

// ResourceRef points at a project, subproject or workflowitem mentioned by
// a notification.
type ResourceRef struct {
	ID   string       `json:"id"`
	Type ResourceKind `json:"type"`
}

type Notification struct {
	ID            string          `json:"notificationId"`
	Resources     []ResourceRef   `json:"resources"`
	IsRead        bool            `json:"isRead"`
	OriginalEvent json.RawMessage `json:"originalEvent"`
}

// ResourceView is a ResourceRef with the display name the caller may see.
// DisplayName is nil when the caller may not view the resource.
type ResourceView struct {
	ID          string       `json:"id"`
	Type        ResourceKind `json:"type"`
	DisplayName *string      `json:"displayName"`
}

type NotificationView struct {
	ID            string          `json:"notificationId"`
	Resources     []ResourceView  `json:"resources"`
	IsRead        bool            `json:"isRead"`
	OriginalEvent json.RawMessage `json:"originalEvent"`
}
