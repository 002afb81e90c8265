// Package history produces caller-scoped views of resource event logs.
//
// A caller either sees an event or learns nothing about it: invisible
// events become nil in place so the result keeps ledger order. Visible
// events lose their permission snapshot unless the caller may list the
// permissions the snapshot describes.
package history

import (
	"github.com/egdmrsy/TruBudget-SvKit/internal/authz"
	"github.com/egdmrsy/TruBudget-SvKit/internal/domain"
	"github.com/egdmrsy/TruBudget-SvKit/internal/obs"
)

// Redactor scrubs resource histories against a visibility table.
type Redactor struct {
	table Table
}

// NewRedactor validates table and returns a Redactor that owns a copy of it.
func NewRedactor(table Table) (*Redactor, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}
	own := make(Table, len(table))
	for k, v := range table {
		own[k] = v
	}
	return &Redactor{table: own}, nil
}

// MustNewRedactor is NewRedactor for static tables; it panics on an invalid table.
func MustNewRedactor(table Table) *Redactor {
	r, err := NewRedactor(table)
	if err != nil {
		panic("history: " + err.Error())
	}
	return r
}

// Redact returns the caller's view of a single event, or nil when the
// caller may not see it. The input is never modified.
func (r *Redactor) Redact(event domain.HistoryEvent, callerIntents authz.IntentSet) *domain.HistoryEvent {
	rule, ok := r.table[event.Intent]
	if !ok {
		obs.RedactedEvents.WithLabelValues("unlisted").Inc()
		return nil
	}
	if !callerIntents.HasAny(rule.RequiredAny...) {
		obs.RedactedEvents.WithLabelValues("hidden").Inc()
		return nil
	}

	out := event.Clone()
	if !callerIntents.Has(rule.ListPermissions) && out.Snapshot.Permissions != nil {
		out.Snapshot.Permissions = nil
		obs.RedactedEvents.WithLabelValues("permissions_stripped").Inc()
	}
	return &out
}

// ScrubLog redacts every event of a log with one precomputed intent set.
func (r *Redactor) ScrubLog(log []domain.HistoryEvent, callerIntents authz.IntentSet) []*domain.HistoryEvent {
	out := make([]*domain.HistoryEvent, len(log))
	for i, e := range log {
		out[i] = r.Redact(e, callerIntents)
	}
	return out
}

// ScrubProject returns the project as token sees it. The caller's intents
// are computed once for the whole log.
func (r *Redactor) ScrubProject(p *domain.Project, token domain.AuthToken) *domain.ScrubbedProject {
	intents := authz.AllowedIntents(token, p.Permissions)
	return &domain.ScrubbedProject{
		ID:             p.ID,
		CreatedAt:      p.CreatedAt,
		Status:         p.Status,
		DisplayName:    p.DisplayName,
		Assignee:       p.Assignee,
		Description:    p.Description,
		Amount:         p.Amount,
		Currency:       p.Currency,
		Thumbnail:      p.Thumbnail,
		Permissions:    p.Permissions.Clone(),
		AllowedIntents: intents.Sorted(),
		Log:            r.ScrubLog(p.Log, intents),
	}
}

// ScrubSubproject returns the subproject as token sees it.
func (r *Redactor) ScrubSubproject(s *domain.Subproject, token domain.AuthToken) *domain.ScrubbedSubproject {
	intents := authz.AllowedIntents(token, s.Permissions)
	return &domain.ScrubbedSubproject{
		ID:             s.ID,
		ProjectID:      s.ProjectID,
		CreatedAt:      s.CreatedAt,
		Status:         s.Status,
		DisplayName:    s.DisplayName,
		Assignee:       s.Assignee,
		Description:    s.Description,
		Amount:         s.Amount,
		Currency:       s.Currency,
		Permissions:    s.Permissions.Clone(),
		AllowedIntents: intents.Sorted(),
		Log:            r.ScrubLog(s.Log, intents),
	}
}

// ScrubWorkflowitem returns the workflowitem as token sees it.
func (r *Redactor) ScrubWorkflowitem(w *domain.Workflowitem, token domain.AuthToken) *domain.ScrubbedWorkflowitem {
	intents := authz.AllowedIntents(token, w.Permissions)
	docs := make([]domain.DocumentReference, len(w.Documents))
	copy(docs, w.Documents)
	return &domain.ScrubbedWorkflowitem{
		ID:             w.ID,
		ProjectID:      w.ProjectID,
		SubprojectID:   w.SubprojectID,
		CreatedAt:      w.CreatedAt,
		Status:         w.Status,
		DisplayName:    w.DisplayName,
		Assignee:       w.Assignee,
		Description:    w.Description,
		Amount:         w.Amount,
		Currency:       w.Currency,
		Documents:      docs,
		Permissions:    w.Permissions.Clone(),
		AllowedIntents: intents.Sorted(),
		Log:            r.ScrubLog(w.Log, intents),
	}
}
