package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/egdmrsy/TruBudget-SvKit/internal/domain"
)

// EventRecord is the ledger encoding of one resource history event. Fields
// beyond the snapshot carry the state changes the event applies.
type EventRecord struct {
	Intent      domain.Intent              `json:"intent"`
	CreatedBy   string                     `json:"createdBy"`
	CreatedAt   time.Time                  `json:"createdAt"`
	Snapshot    domain.Snapshot            `json:"snapshot"`
	Assignee    string                     `json:"assignee,omitempty"`
	Description string                     `json:"description,omitempty"`
	Amount      string                     `json:"amount,omitempty"`
	Currency    string                     `json:"currency,omitempty"`
	Thumbnail   string                     `json:"thumbnail,omitempty"`
	Documents   []domain.DocumentReference `json:"documents,omitempty"`
}

// DocumentRecord is the ledger encoding of an uploaded document. An empty
// Base64 means the payload lives in the blob store.
type DocumentRecord struct {
	Type     string           `json:"type"`
	Document DocumentEnvelope `json:"document"`
}

type DocumentEnvelope struct {
	ID       string `json:"id"`
	FileName string `json:"fileName"`
	Base64   string `json:"base64"`
}

// DecodeEvents decodes every item as an EventRecord.
func DecodeEvents(items []Item) ([]EventRecord, error) {
	out := make([]EventRecord, 0, len(items))
	for i, item := range items {
		var rec EventRecord
		if err := json.Unmarshal(item.Data, &rec); err != nil {
			return nil, fmt.Errorf("ledger.DecodeEvents: item %d: %w", i, asSchemaError(err))
		}
		if rec.Intent == "" {
			return nil, fmt.Errorf("ledger.DecodeEvents: item %d: %w", i, &domain.SchemaError{Field: "intent", Reason: "required"})
		}
		out = append(out, rec)
	}
	return out, nil
}

// DecodeDocument decodes a document event.
func DecodeDocument(item Item) (DocumentRecord, error) {
	var rec DocumentRecord
	if err := json.Unmarshal(item.Data, &rec); err != nil {
		return DocumentRecord{}, fmt.Errorf("ledger.DecodeDocument: %w", asSchemaError(err))
	}
	if rec.Document.ID == "" {
		return DocumentRecord{}, fmt.Errorf("ledger.DecodeDocument: %w", &domain.SchemaError{Field: "document.id", Reason: "required"})
	}
	return rec, nil
}

// DecodeNotifications decodes every item as a notification.
func DecodeNotifications(items []Item) ([]domain.Notification, error) {
	out := make([]domain.Notification, 0, len(items))
	for i, item := range items {
		var n domain.Notification
		if err := json.Unmarshal(item.Data, &n); err != nil {
			return nil, fmt.Errorf("ledger.DecodeNotifications: item %d: %w", i, asSchemaError(err))
		}
		out = append(out, n)
	}
	return out, nil
}

func asSchemaError(err error) error {
	var se *domain.SchemaError
	if errors.As(err, &se) {
		return se
	}
	return &domain.SchemaError{Reason: err.Error()}
}

func (r EventRecord) historyEvent() domain.HistoryEvent {
	return domain.HistoryEvent{
		Intent:    r.Intent,
		CreatedBy: r.CreatedBy,
		CreatedAt: r.CreatedAt,
		Snapshot: domain.Snapshot{
			DisplayName: r.Snapshot.DisplayName,
			Permissions: r.Snapshot.Permissions.Clone(),
		},
	}
}
