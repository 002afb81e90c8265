package history

import "github.com/egdmrsy/TruBudget-SvKit/internal/domain"

// VisibilityRule governs how one kind of history event is disclosed.
//
// RequiredAny lists the intents of which the caller must hold at least one
// to learn that the event happened. ListPermissions is the intent that
// additionally discloses the event's permission snapshot.
type VisibilityRule struct {
	RequiredAny     []domain.Intent
	ListPermissions domain.Intent
}

// Table maps an event's originating intent to its visibility rule. Events
// whose intent has no entry are always redacted.
type Table map[domain.Intent]VisibilityRule

var (
	projectView      = []domain.Intent{domain.IntentProjectViewSummary, domain.IntentProjectViewDetails}
	projectDetails   = []domain.Intent{domain.IntentProjectViewDetails}
	subprojectView   = []domain.Intent{domain.IntentSubprojectViewSummary, domain.IntentSubprojectViewDetails}
	subprojectDetail = []domain.Intent{domain.IntentSubprojectViewDetails}
	workflowitemView = []domain.Intent{domain.IntentWorkflowitemView}
)

// DefaultTable is the visibility policy for project, subproject and
// workflowitem histories.
//
// project.createSubproject is recorded on the project but describes the new
// subproject, so its permission snapshot is governed by the subproject's
// listPermissions intent. subproject.createWorkflowitem follows the same
// pattern one level down.
var DefaultTable = Table{ //nolint:gochecknoglobals // static policy table
	domain.IntentCreateProject: {
		RequiredAny:     projectView,
		ListPermissions: domain.IntentProjectListPermissions,
	},
	domain.IntentProjectGrantPermission: {
		RequiredAny:     []domain.Intent{domain.IntentProjectListPermissions},
		ListPermissions: domain.IntentProjectListPermissions,
	},
	domain.IntentProjectRevokePermission: {
		RequiredAny:     []domain.Intent{domain.IntentProjectListPermissions},
		ListPermissions: domain.IntentProjectListPermissions,
	},
	domain.IntentProjectAssign:  {RequiredAny: projectDetails, ListPermissions: domain.IntentProjectListPermissions},
	domain.IntentProjectUpdate:  {RequiredAny: projectDetails, ListPermissions: domain.IntentProjectListPermissions},
	domain.IntentProjectClose:   {RequiredAny: projectView, ListPermissions: domain.IntentProjectListPermissions},
	domain.IntentProjectArchive: {RequiredAny: projectView, ListPermissions: domain.IntentProjectListPermissions},
	domain.IntentProjectCreateSubproject: {
		RequiredAny: []domain.Intent{
			domain.IntentProjectViewDetails,
			domain.IntentSubprojectViewSummary,
			domain.IntentSubprojectViewDetails,
		},
		ListPermissions: domain.IntentSubprojectListPermissions,
	},

	domain.IntentSubprojectGrantPermission: {
		RequiredAny:     []domain.Intent{domain.IntentSubprojectListPermissions},
		ListPermissions: domain.IntentSubprojectListPermissions,
	},
	domain.IntentSubprojectRevokePermission: {
		RequiredAny:     []domain.Intent{domain.IntentSubprojectListPermissions},
		ListPermissions: domain.IntentSubprojectListPermissions,
	},
	domain.IntentSubprojectAssign:  {RequiredAny: subprojectDetail, ListPermissions: domain.IntentSubprojectListPermissions},
	domain.IntentSubprojectUpdate:  {RequiredAny: subprojectDetail, ListPermissions: domain.IntentSubprojectListPermissions},
	domain.IntentSubprojectClose:   {RequiredAny: subprojectView, ListPermissions: domain.IntentSubprojectListPermissions},
	domain.IntentSubprojectArchive: {RequiredAny: subprojectView, ListPermissions: domain.IntentSubprojectListPermissions},
	domain.IntentSubprojectCreateWorkflowitem: {
		RequiredAny: []domain.Intent{
			domain.IntentSubprojectViewDetails,
			domain.IntentWorkflowitemView,
		},
		ListPermissions: domain.IntentWorkflowitemListPermissions,
	},

	domain.IntentWorkflowitemGrantPermission: {
		RequiredAny:     []domain.Intent{domain.IntentWorkflowitemListPermissions},
		ListPermissions: domain.IntentWorkflowitemListPermissions,
	},
	domain.IntentWorkflowitemRevokePermission: {
		RequiredAny:     []domain.Intent{domain.IntentWorkflowitemListPermissions},
		ListPermissions: domain.IntentWorkflowitemListPermissions,
	},
	domain.IntentWorkflowitemAssign:  {RequiredAny: workflowitemView, ListPermissions: domain.IntentWorkflowitemListPermissions},
	domain.IntentWorkflowitemUpdate:  {RequiredAny: workflowitemView, ListPermissions: domain.IntentWorkflowitemListPermissions},
	domain.IntentWorkflowitemClose:   {RequiredAny: workflowitemView, ListPermissions: domain.IntentWorkflowitemListPermissions},
	domain.IntentWorkflowitemArchive: {RequiredAny: workflowitemView, ListPermissions: domain.IntentWorkflowitemListPermissions},
}

// Validate checks that every key and every referenced intent belongs to the
// intent universe and that each rule names a listPermissions intent.
func (t Table) Validate() error {
	for intent, rule := range t {
		if !intent.Valid() {
			return &domain.SchemaError{Field: "visibility." + string(intent), Reason: "unknown intent"}
		}
		if len(rule.RequiredAny) == 0 {
			return &domain.SchemaError{Field: "visibility." + string(intent), Reason: "no required intents"}
		}
		for _, req := range rule.RequiredAny {
			if !req.Valid() {
				return &domain.SchemaError{Field: "visibility." + string(intent), Reason: "unknown required intent " + string(req)}
			}
		}
		if !rule.ListPermissions.Valid() {
			return &domain.SchemaError{Field: "visibility." + string(intent), Reason: "unknown listPermissions intent"}
		}
	}
	return nil
}
