package v1_test

import (
	"context"

	"github.com/egdmrsy/TruBudget-SvKit/internal/domain"
	"github.com/egdmrsy/TruBudget-SvKit/internal/notification"
	"github.com/egdmrsy/TruBudget-SvKit/internal/server/middleware"
)

// ---------------------------------------------------------------------------
// Mock ResourceService
// ---------------------------------------------------------------------------

type mockResourceService struct {
	getProjectFunc      func(ctx context.Context, token domain.AuthToken, projectID string) (*domain.ScrubbedProject, error)
	getSubprojectFunc   func(ctx context.Context, token domain.AuthToken, projectID, subprojectID string) (*domain.ScrubbedSubproject, error)
	getWorkflowitemFunc func(ctx context.Context, token domain.AuthToken, path domain.WorkflowitemPath) (*domain.ScrubbedWorkflowitem, error)
}

func (m *mockResourceService) GetProject(ctx context.Context, token domain.AuthToken, projectID string) (*domain.ScrubbedProject, error) {
	if m.getProjectFunc != nil {
		return m.getProjectFunc(ctx, token, projectID)
	}
	return nil, domain.ErrNotFound
}

func (m *mockResourceService) GetSubproject(ctx context.Context, token domain.AuthToken, projectID, subprojectID string) (*domain.ScrubbedSubproject, error) {
	if m.getSubprojectFunc != nil {
		return m.getSubprojectFunc(ctx, token, projectID, subprojectID)
	}
	return nil, domain.ErrNotFound
}

func (m *mockResourceService) GetWorkflowitem(ctx context.Context, token domain.AuthToken, path domain.WorkflowitemPath) (*domain.ScrubbedWorkflowitem, error) {
	if m.getWorkflowitemFunc != nil {
		return m.getWorkflowitemFunc(ctx, token, path)
	}
	return nil, domain.ErrNotFound
}

// ---------------------------------------------------------------------------
// Mock DocumentService
// ---------------------------------------------------------------------------

type mockDocumentService struct {
	getDocumentFunc func(ctx context.Context, token domain.AuthToken, path domain.WorkflowitemPath, documentID string) (*domain.UploadedDocument, error)
}

func (m *mockDocumentService) GetDocument(ctx context.Context, token domain.AuthToken, path domain.WorkflowitemPath, documentID string) (*domain.UploadedDocument, error) {
	if m.getDocumentFunc != nil {
		return m.getDocumentFunc(ctx, token, path, documentID)
	}
	return nil, domain.ErrNotFound
}

// ---------------------------------------------------------------------------
// Mock NotificationService
// ---------------------------------------------------------------------------

type mockNotificationService struct {
	listFunc func(ctx context.Context, token domain.AuthToken, offset, limit int) (*notification.Page, error)
}

func (m *mockNotificationService) List(ctx context.Context, token domain.AuthToken, offset, limit int) (*notification.Page, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, token, offset, limit)
	}
	return &notification.Page{}, nil
}

// ---------------------------------------------------------------------------
// Context helpers
// ---------------------------------------------------------------------------

var alice = domain.AuthToken{UserID: "alice", OrganizationID: "orgA"}

func tokenCtx(token domain.AuthToken) context.Context {
	return middleware.WithToken(context.Background(), token)
}
