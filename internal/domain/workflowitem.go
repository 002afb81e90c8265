package domain

import "time"

// WorkflowitemPath locates a workflowitem inside its project and subproject.
type WorkflowitemPath struct {
	ProjectID      string
	SubprojectID   string
	WorkflowitemID string
}

type Workflowitem struct {
	ID           string
	ProjectID    string
	SubprojectID string
	CreatedAt    time.Time
	Status       Status
	DisplayName  string
	Assignee     string
	Description  string
	Amount       string
	Currency     string
	Documents    []DocumentReference
	Permissions  PermissionModel
	Log          []HistoryEvent
}

// Document returns the reference with the given id, if attached.
func (w *Workflowitem) Document(id string) (DocumentReference, bool) {
	for _, d := range w.Documents {
		if d.ID == id {
			return d, true
		}
	}
	return DocumentReference{}, false
}

type ScrubbedWorkflowitem struct {
	ID             string              `json:"id"`
	ProjectID      string              `json:"projectId"`
	SubprojectID   string              `json:"subprojectId"`
	CreatedAt      time.Time           `json:"creationUnixTs"`
	Status         Status              `json:"status"`
	DisplayName    string              `json:"displayName"`
	Assignee       string              `json:"assignee,omitempty"`
	Description    string              `json:"description"`
	Amount         string              `json:"amount"`
	Currency       string              `json:"currency"`
	Documents      []DocumentReference `json:"documents"`
	Permissions    PermissionModel     `json:"permissions"`
	AllowedIntents []Intent            `json:"allowedIntents"`
	Log            []*HistoryEvent     `json:"log"`
}

// DocumentReference is the ledger-recorded metadata of an uploaded file.
// Hash is the hex BLAKE3 digest of the stored base64 payload.
type DocumentReference struct {
	ID       string `json:"id"`
	FileName string `json:"fileName"`
	Size     int64  `json:"size,omitempty"`
	Hash     string `json:"hash,omitempty"`
}

// UploadedDocument is a document with its payload resolved.
type UploadedDocument struct {
	ID       string `json:"id"`
	FileName string `json:"fileName"`
	Base64   string `json:"base64"`
}
