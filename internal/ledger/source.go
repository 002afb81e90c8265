package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/egdmrsy/TruBudget-SvKit/internal/domain"
)

// state is the resource state accumulated while folding history records.
type state struct {
	created     bool
	createdAt   time.Time
	status      domain.Status
	displayName string
	assignee    string
	description string
	amount      string
	currency    string
	thumbnail   string
	documents   []domain.DocumentReference
	permissions domain.PermissionModel
	log         []domain.HistoryEvent
}

// fold replays records in ledger order. The first record must be the
// creation event for the resource kind; every record lands in the log.
func fold(creation domain.Intent, records []EventRecord) (*state, error) {
	if len(records) == 0 {
		return nil, domain.ErrNotFound
	}
	if records[0].Intent != creation {
		return nil, &domain.SchemaError{
			Field:  "intent",
			Reason: fmt.Sprintf("first event is %q, want %q", records[0].Intent, creation),
		}
	}

	s := &state{log: make([]domain.HistoryEvent, 0, len(records))}
	for i, rec := range records {
		if i > 0 && rec.Intent == creation {
			return nil, &domain.SchemaError{Field: "intent", Reason: "duplicate creation event"}
		}
		s.apply(rec)
		s.log = append(s.log, rec.historyEvent())
	}
	if s.permissions == nil {
		s.permissions = domain.PermissionModel{}
	}
	return s, nil
}

func (s *state) apply(rec EventRecord) {
	if rec.Snapshot.DisplayName != "" {
		s.displayName = rec.Snapshot.DisplayName
	}
	// Permission-changing events record the resulting model.
	if rec.Snapshot.Permissions != nil {
		s.permissions = rec.Snapshot.Permissions.Clone()
	}

	action := rec.Intent
	switch {
	case !s.created:
		s.created = true
		s.createdAt = rec.CreatedAt
		s.status = domain.StatusOpen
		s.assignee = rec.Assignee
		s.description = rec.Description
		s.amount = rec.Amount
		s.currency = rec.Currency
		s.thumbnail = rec.Thumbnail
		s.documents = append(s.documents, rec.Documents...)
	case strings.HasSuffix(string(action), ".assign"):
		s.assignee = rec.Assignee
	case strings.HasSuffix(string(action), ".update"):
		if rec.Description != "" {
			s.description = rec.Description
		}
		if rec.Amount != "" {
			s.amount = rec.Amount
		}
		if rec.Currency != "" {
			s.currency = rec.Currency
		}
		if rec.Thumbnail != "" {
			s.thumbnail = rec.Thumbnail
		}
		s.documents = append(s.documents, rec.Documents...)
	case strings.HasSuffix(string(action), ".close"):
		s.status = domain.StatusClosed
	case strings.HasSuffix(string(action), ".archive"):
		s.status = domain.StatusArchived
	}
}

// SourceProject rebuilds a project from the items of its "self" key.
func SourceProject(projectID string, items []Item) (*domain.Project, error) {
	records, err := DecodeEvents(items)
	if err != nil {
		return nil, err
	}
	s, err := fold(domain.IntentCreateProject, records)
	if err != nil {
		return nil, fmt.Errorf("ledger.SourceProject %s: %w", projectID, err)
	}
	return &domain.Project{
		ID:          projectID,
		CreatedAt:   s.createdAt,
		Status:      s.status,
		DisplayName: s.displayName,
		Assignee:    s.assignee,
		Description: s.description,
		Amount:      s.amount,
		Currency:    s.currency,
		Thumbnail:   s.thumbnail,
		Permissions: s.permissions,
		Log:         s.log,
	}, nil
}

// SourceSubproject rebuilds a subproject from its item key.
func SourceSubproject(projectID, subprojectID string, items []Item) (*domain.Subproject, error) {
	records, err := DecodeEvents(items)
	if err != nil {
		return nil, err
	}
	s, err := fold(domain.IntentProjectCreateSubproject, records)
	if err != nil {
		return nil, fmt.Errorf("ledger.SourceSubproject %s: %w", subprojectID, err)
	}
	return &domain.Subproject{
		ID:          subprojectID,
		ProjectID:   projectID,
		CreatedAt:   s.createdAt,
		Status:      s.status,
		DisplayName: s.displayName,
		Assignee:    s.assignee,
		Description: s.description,
		Amount:      s.amount,
		Currency:    s.currency,
		Permissions: s.permissions,
		Log:         s.log,
	}, nil
}

// SourceWorkflowitem rebuilds a workflowitem from its item key.
func SourceWorkflowitem(path domain.WorkflowitemPath, items []Item) (*domain.Workflowitem, error) {
	records, err := DecodeEvents(items)
	if err != nil {
		return nil, err
	}
	s, err := fold(domain.IntentSubprojectCreateWorkflowitem, records)
	if err != nil {
		return nil, fmt.Errorf("ledger.SourceWorkflowitem %s: %w", path.WorkflowitemID, err)
	}
	return &domain.Workflowitem{
		ID:           path.WorkflowitemID,
		ProjectID:    path.ProjectID,
		SubprojectID: path.SubprojectID,
		CreatedAt:    s.createdAt,
		Status:       s.status,
		DisplayName:  s.displayName,
		Assignee:     s.assignee,
		Description:  s.description,
		Amount:       s.amount,
		Currency:     s.currency,
		Documents:    s.documents,
		Permissions:  s.permissions,
		Log:          s.log,
	}, nil
}
