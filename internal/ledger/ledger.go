// Package ledger reads the append-only stream store that holds resource
// history, document events and notifications.
package ledger

import (
	"context"
	"encoding/json"
	"sync"
)

// Stream and item key layout.
const (
	// DocumentStream holds one document event per document id.
	DocumentStream = "offchain_documents"
	// NotificationStream holds notifications keyed by recipient user id.
	NotificationStream = "notifications"
	// ProjectItemKey is the item key of a project's own events inside the
	// project stream.
	ProjectItemKey = "self"
)

// Item is one entry of a stream, in write order.
type Item struct {
	Data json.RawMessage
}

// Reader reads items of one key from one stream. Items come back in write
// order. count > 0 limits the result to the count most recent items; count
// <= 0 returns every item.
type Reader interface {
	ReadStreamItems(ctx context.Context, streamKey, itemKey string, count int) ([]Item, error)
}

// SubprojectItemKey is the item key of a subproject inside its project stream.
func SubprojectItemKey(subprojectID string) string {
	return subprojectID
}

// WorkflowitemItemKey is the item key of a workflowitem inside its project stream.
func WorkflowitemItemKey(subprojectID, workflowitemID string) string {
	return subprojectID + "_" + workflowitemID
}

// Memory is an in-process Reader. Appends are safe for concurrent use.
type Memory struct {
	mu      sync.RWMutex
	streams map[string]map[string][]Item
}

// NewMemory creates an empty in-memory ledger.
func NewMemory() *Memory {
	return &Memory{streams: make(map[string]map[string][]Item)}
}

// Append writes a JSON-encoded value to the given stream key.
func (m *Memory) Append(streamKey, itemKey string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	keys, ok := m.streams[streamKey]
	if !ok {
		keys = make(map[string][]Item)
		m.streams[streamKey] = keys
	}
	keys[itemKey] = append(keys[itemKey], Item{Data: data})
	return nil
}

func (m *Memory) ReadStreamItems(ctx context.Context, streamKey, itemKey string, count int) ([]Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	items := m.streams[streamKey][itemKey]
	if count > 0 && len(items) > count {
		items = items[len(items)-count:]
	}
	out := make([]Item, len(items))
	copy(out, items)
	return out, nil
}
