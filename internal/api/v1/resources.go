package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/egdmrsy/TruBudget-SvKit/internal/domain"
)

type GetProjectInput struct {
	ProjectID string `path:"projectId" minLength:"1" doc:"Project ID"`
}

type GetProjectOutput struct {
	Body *domain.ScrubbedProject
}

type GetSubprojectInput struct {
	ProjectID    string `path:"projectId" minLength:"1" doc:"Project ID"`
	SubprojectID string `path:"subprojectId" minLength:"1" doc:"Subproject ID"`
}

type GetSubprojectOutput struct {
	Body *domain.ScrubbedSubproject
}

type GetWorkflowitemInput struct {
	ProjectID      string `path:"projectId" minLength:"1" doc:"Project ID"`
	SubprojectID   string `path:"subprojectId" minLength:"1" doc:"Subproject ID"`
	WorkflowitemID string `path:"workflowitemId" minLength:"1" doc:"Workflowitem ID"`
}

type GetWorkflowitemOutput struct {
	Body *domain.ScrubbedWorkflowitem
}

func RegisterResourceRoutes(api huma.API, svc ResourceService) {
	huma.Register(api, huma.Operation{
		OperationID: "get-project",
		Method:      http.MethodGet,
		Path:        "/projects/{projectId}",
		Summary:     "Get a project with its history as the caller may see it",
		Tags:        []string{"Projects"},
	}, func(ctx context.Context, input *GetProjectInput) (*GetProjectOutput, error) {
		token, err := callerToken(ctx)
		if err != nil {
			return nil, err
		}

		p, err := svc.GetProject(ctx, token, input.ProjectID)
		if err != nil {
			return nil, toHTTPError(err, "project")
		}

		return &GetProjectOutput{Body: p}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-subproject",
		Method:      http.MethodGet,
		Path:        "/projects/{projectId}/subprojects/{subprojectId}",
		Summary:     "Get a subproject with its history as the caller may see it",
		Tags:        []string{"Subprojects"},
	}, func(ctx context.Context, input *GetSubprojectInput) (*GetSubprojectOutput, error) {
		token, err := callerToken(ctx)
		if err != nil {
			return nil, err
		}

		s, err := svc.GetSubproject(ctx, token, input.ProjectID, input.SubprojectID)
		if err != nil {
			return nil, toHTTPError(err, "subproject")
		}

		return &GetSubprojectOutput{Body: s}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-workflowitem",
		Method:      http.MethodGet,
		Path:        "/projects/{projectId}/subprojects/{subprojectId}/workflowitems/{workflowitemId}",
		Summary:     "Get a workflowitem with its history as the caller may see it",
		Tags:        []string{"Workflowitems"},
	}, func(ctx context.Context, input *GetWorkflowitemInput) (*GetWorkflowitemOutput, error) {
		token, err := callerToken(ctx)
		if err != nil {
			return nil, err
		}

		w, err := svc.GetWorkflowitem(ctx, token, domain.WorkflowitemPath{
			ProjectID:      input.ProjectID,
			SubprojectID:   input.SubprojectID,
			WorkflowitemID: input.WorkflowitemID,
		})
		if err != nil {
			return nil, toHTTPError(err, "workflowitem")
		}

		return &GetWorkflowitemOutput{Body: w}, nil
	})
}
