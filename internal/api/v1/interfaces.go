package v1

import (
	"context"

	"github.com/egdmrsy/TruBudget-SvKit/internal/domain"
	"github.com/egdmrsy/TruBudget-SvKit/internal/notification"
)

// ResourceService serves scrubbed resources.
// *resource.Service satisfies this interface.
type ResourceService interface {
	GetProject(ctx context.Context, token domain.AuthToken, projectID string) (*domain.ScrubbedProject, error)
	GetSubproject(ctx context.Context, token domain.AuthToken, projectID, subprojectID string) (*domain.ScrubbedSubproject, error)
	GetWorkflowitem(ctx context.Context, token domain.AuthToken, path domain.WorkflowitemPath) (*domain.ScrubbedWorkflowitem, error)
}

// DocumentService resolves workflowitem attachments.
// *document.Service satisfies this interface.
type DocumentService interface {
	GetDocument(ctx context.Context, token domain.AuthToken, path domain.WorkflowitemPath, documentID string) (*domain.UploadedDocument, error)
}

// NotificationService lists a caller's notifications.
// *notification.Assembler satisfies this interface.
type NotificationService interface {
	List(ctx context.Context, token domain.AuthToken, offset, limit int) (*notification.Page, error)
}
