package domain

import "time"

// Snapshot is the resource state captured when an event was recorded.
// Permissions is only set for events that carry a permission snapshot.
type Snapshot struct {
	DisplayName string          `json:"displayName"`
	Permissions PermissionModel `json:"permissions,omitempty"`
}

// HistoryEvent records one past intent execution. Events are sourced from
// the ledger and never mutated; redaction works on copies.
type HistoryEvent struct {
	Intent    Intent    `json:"intent"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	Snapshot  Snapshot  `json:"snapshot"`
}

// Clone returns a deep copy of the event.
func (e HistoryEvent) Clone() HistoryEvent {
	e.Snapshot.Permissions = e.Snapshot.Permissions.Clone()
	return e
}

// CompactLog drops invisible (nil) entries from a scrubbed log, keeping
// ledger order.
func CompactLog(log []*HistoryEvent) []HistoryEvent {
	out := make([]HistoryEvent, 0, len(log))
	for _, e := range log {
		if e != nil {
			out = append(out, *e)
		}
	}
	return out
}
