package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/egdmrsy/TruBudget-SvKit/internal/domain"
)

type GetDocumentInput struct {
	ProjectID      string `path:"projectId" minLength:"1" doc:"Project ID"`
	SubprojectID   string `path:"subprojectId" minLength:"1" doc:"Subproject ID"`
	WorkflowitemID string `path:"workflowitemId" minLength:"1" doc:"Workflowitem ID"`
	DocumentID     string `path:"documentId" minLength:"1" doc:"Document ID"`
}

type GetDocumentOutput struct {
	Body *domain.UploadedDocument
}

func RegisterDocumentRoutes(api huma.API, svc DocumentService) {
	huma.Register(api, huma.Operation{
		OperationID: "get-document",
		Method:      http.MethodGet,
		Path:        "/projects/{projectId}/subprojects/{subprojectId}/workflowitems/{workflowitemId}/documents/{documentId}",
		Summary:     "Download a document attached to a workflowitem",
		Tags:        []string{"Documents"},
	}, func(ctx context.Context, input *GetDocumentInput) (*GetDocumentOutput, error) {
		token, err := callerToken(ctx)
		if err != nil {
			return nil, err
		}

		path := domain.WorkflowitemPath{
			ProjectID:      input.ProjectID,
			SubprojectID:   input.SubprojectID,
			WorkflowitemID: input.WorkflowitemID,
		}
		doc, err := svc.GetDocument(ctx, token, path, input.DocumentID)
		if err != nil {
			return nil, toHTTPError(err, "document")
		}

		return &GetDocumentOutput{Body: doc}, nil
	})
}
