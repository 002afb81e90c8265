package domain

import "strings"

// Intent names one action on one kind of resource.
type Intent string

const (
	IntentCreateProject Intent = "global.createProject"

	IntentProjectViewSummary      Intent = "project.viewSummary"
	IntentProjectViewDetails      Intent = "project.viewDetails"
	IntentProjectAssign           Intent = "project.assign"
	IntentProjectUpdate           Intent = "project.update"
	IntentProjectClose            Intent = "project.close"
	IntentProjectArchive          Intent = "project.archive"
	IntentProjectCreateSubproject Intent = "project.createSubproject"
	IntentProjectListPermissions  Intent = "project.intent.listPermissions"
	IntentProjectGrantPermission  Intent = "project.intent.grantPermission"
	IntentProjectRevokePermission Intent = "project.intent.revokePermission"

	IntentSubprojectViewSummary        Intent = "subproject.viewSummary"
	IntentSubprojectViewDetails        Intent = "subproject.viewDetails"
	IntentSubprojectAssign             Intent = "subproject.assign"
	IntentSubprojectUpdate             Intent = "subproject.update"
	IntentSubprojectClose              Intent = "subproject.close"
	IntentSubprojectArchive            Intent = "subproject.archive"
	IntentSubprojectCreateWorkflowitem Intent = "subproject.createWorkflowitem"
	IntentSubprojectListPermissions    Intent = "subproject.intent.listPermissions"
	IntentSubprojectGrantPermission    Intent = "subproject.intent.grantPermission"
	IntentSubprojectRevokePermission   Intent = "subproject.intent.revokePermission"

	IntentWorkflowitemView             Intent = "workflowitem.view"
	IntentWorkflowitemAssign           Intent = "workflowitem.assign"
	IntentWorkflowitemUpdate           Intent = "workflowitem.update"
	IntentWorkflowitemClose            Intent = "workflowitem.close"
	IntentWorkflowitemArchive          Intent = "workflowitem.archive"
	IntentWorkflowitemListPermissions  Intent = "workflowitem.intent.listPermissions"
	IntentWorkflowitemGrantPermission  Intent = "workflowitem.intent.grantPermission"
	IntentWorkflowitemRevokePermission Intent = "workflowitem.intent.revokePermission"
)

var allIntents = []Intent{ //nolint:gochecknoglobals // fixed intent universe
	IntentCreateProject,

	IntentProjectViewSummary,
	IntentProjectViewDetails,
	IntentProjectAssign,
	IntentProjectUpdate,
	IntentProjectClose,
	IntentProjectArchive,
	IntentProjectCreateSubproject,
	IntentProjectListPermissions,
	IntentProjectGrantPermission,
	IntentProjectRevokePermission,

	IntentSubprojectViewSummary,
	IntentSubprojectViewDetails,
	IntentSubprojectAssign,
	IntentSubprojectUpdate,
	IntentSubprojectClose,
	IntentSubprojectArchive,
	IntentSubprojectCreateWorkflowitem,
	IntentSubprojectListPermissions,
	IntentSubprojectGrantPermission,
	IntentSubprojectRevokePermission,

	IntentWorkflowitemView,
	IntentWorkflowitemAssign,
	IntentWorkflowitemUpdate,
	IntentWorkflowitemClose,
	IntentWorkflowitemArchive,
	IntentWorkflowitemListPermissions,
	IntentWorkflowitemGrantPermission,
	IntentWorkflowitemRevokePermission,
}

var knownIntents = func() map[Intent]struct{} { //nolint:gochecknoglobals // lookup for allIntents
	m := make(map[Intent]struct{}, len(allIntents))
	for _, i := range allIntents {
		m[i] = struct{}{}
	}
	return m
}()

// AllIntents returns a copy of the intent universe.
func AllIntents() []Intent {
	out := make([]Intent, len(allIntents))
	copy(out, allIntents)
	return out
}

// Valid reports whether i is part of the intent universe.
func (i Intent) Valid() bool {
	_, ok := knownIntents[i]
	return ok
}

// ResourceKind is the kind of resource an intent applies to.
type ResourceKind string

const (
	KindGlobal       ResourceKind = "global"
	KindProject      ResourceKind = "project"
	KindSubproject   ResourceKind = "subproject"
	KindWorkflowitem ResourceKind = "workflowitem"
)

// Kind returns the resource kind encoded in the intent's prefix.
func (i Intent) Kind() ResourceKind {
	prefix, _, _ := strings.Cut(string(i), ".")
	return ResourceKind(prefix)
}

// ViewIntents returns the intents any one of which lets a caller see a
// resource of the given kind at all.
func ViewIntents(kind ResourceKind) []Intent {
	switch kind {
	case KindProject:
		return []Intent{IntentProjectViewSummary, IntentProjectViewDetails}
	case KindSubproject:
		return []Intent{IntentSubprojectViewSummary, IntentSubprojectViewDetails}
	case KindWorkflowitem:
		return []Intent{IntentWorkflowitemView}
	default:
		return nil
	}
}
