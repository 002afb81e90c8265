package domain

import "time"

type Status string

const (
	StatusOpen     Status = "open"
	StatusClosed   Status = "closed"
	StatusArchived Status = "archived"
)

type Project struct {
	ID          string
	CreatedAt   time.Time
	Status      Status
	DisplayName string
	Assignee    string
	Description string
	Amount      string
	Currency    string
	Thumbnail   string
	Permissions PermissionModel
	Log         []HistoryEvent
}

// ScrubbedProject is a Project as seen by one caller. Log keeps ledger order
// with nil in place of events the caller may not see.
type ScrubbedProject struct {
	ID             string          `json:"id"`
	CreatedAt      time.Time       `json:"creationUnixTs"`
	Status         Status          `json:"status"`
	DisplayName    string          `json:"displayName"`
	Assignee       string          `json:"assignee,omitempty"`
	Description    string          `json:"description"`
	Amount         string          `json:"amount"`
	Currency       string          `json:"currency"`
	Thumbnail      string          `json:"thumbnail"`
	Permissions    PermissionModel `json:"permissions"`
	AllowedIntents []Intent        `json:"allowedIntents"`
	Log            []*HistoryEvent `json:"log"`
}

type Subproject struct {
	ID          string
	ProjectID   string
	CreatedAt   time.Time
	Status      Status
	DisplayName string
	Assignee    string
	Description string
	Amount      string
	Currency    string
	Permissions PermissionModel
	Log         []HistoryEvent
}

type ScrubbedSubproject struct {
	ID             string          `json:"id"`
	ProjectID      string          `json:"projectId"`
	CreatedAt      time.Time       `json:"creationUnixTs"`
	Status         Status          `json:"status"`
	DisplayName    string          `json:"displayName"`
	Assignee       string          `json:"assignee,omitempty"`
	Description    string          `json:"description"`
	Amount         string          `json:"amount"`
	Currency       string          `json:"currency"`
	Permissions    PermissionModel `json:"permissions"`
	AllowedIntents []Intent        `json:"allowedIntents"`
	Log            []*HistoryEvent `json:"log"`
}
