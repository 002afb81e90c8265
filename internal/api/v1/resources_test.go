package v1_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/egdmrsy/TruBudget-SvKit/internal/api/v1"
	"github.com/egdmrsy/TruBudget-SvKit/internal/domain"
)

func TestGetProject(t *testing.T) {
	t.Parallel()

	var gotToken domain.AuthToken
	svc := &mockResourceService{
		getProjectFunc: func(_ context.Context, token domain.AuthToken, projectID string) (*domain.ScrubbedProject, error) {
			gotToken = token
			return &domain.ScrubbedProject{ID: projectID, DisplayName: "Schools"}, nil
		},
	}

	_, api := humatest.New(t)
	v1.RegisterResourceRoutes(api, svc)

	resp := api.GetCtx(tokenCtx(alice), "/projects/p1")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var body domain.ScrubbedProject
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "p1", body.ID)
	assert.Equal(t, "Schools", body.DisplayName)
	assert.Equal(t, "alice", gotToken.UserID)
}

func TestGetProject_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{
			name:     "not authorized",
			err:      &domain.NotAuthorizedError{UserID: "alice", Intent: domain.IntentProjectViewSummary},
			wantCode: http.StatusForbidden,
		},
		{name: "not found", err: domain.ErrNotFound, wantCode: http.StatusNotFound},
		{name: "schema", err: &domain.SchemaError{Field: "intent", Reason: "required"}, wantCode: http.StatusBadRequest},
		{
			name:     "upstream",
			err:      &domain.UpstreamError{Op: "cache.Cache.GetProject", Err: errors.New("connection refused")},
			wantCode: http.StatusBadGateway,
		},
		{name: "unexpected", err: errors.New("boom"), wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := &mockResourceService{
				getProjectFunc: func(context.Context, domain.AuthToken, string) (*domain.ScrubbedProject, error) {
					return nil, tt.err
				},
			}

			_, api := humatest.New(t)
			v1.RegisterResourceRoutes(api, svc)

			resp := api.GetCtx(tokenCtx(alice), "/projects/p1")
			assert.Equal(t, tt.wantCode, resp.Code)
		})
	}
}

func TestGetProject_NotAuthorizedHidesDetail(t *testing.T) {
	t.Parallel()

	svc := &mockResourceService{
		getProjectFunc: func(context.Context, domain.AuthToken, string) (*domain.ScrubbedProject, error) {
			return nil, &domain.NotAuthorizedError{UserID: "alice", OrganizationID: "orgA", Intent: domain.IntentProjectViewSummary}
		},
	}

	_, api := humatest.New(t)
	v1.RegisterResourceRoutes(api, svc)

	resp := api.GetCtx(tokenCtx(alice), "/projects/secret-project")
	require.Equal(t, http.StatusForbidden, resp.Code)
	assert.Contains(t, resp.Body.String(), string(domain.IntentProjectViewSummary))
	assert.NotContains(t, resp.Body.String(), "secret-project")
}

func TestGetProject_NoToken(t *testing.T) {
	t.Parallel()

	called := false
	svc := &mockResourceService{
		getProjectFunc: func(context.Context, domain.AuthToken, string) (*domain.ScrubbedProject, error) {
			called = true
			return nil, nil
		},
	}

	_, api := humatest.New(t)
	v1.RegisterResourceRoutes(api, svc)

	resp := api.GetCtx(context.Background(), "/projects/p1")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.False(t, called)
}

func TestGetSubproject(t *testing.T) {
	t.Parallel()

	svc := &mockResourceService{
		getSubprojectFunc: func(_ context.Context, _ domain.AuthToken, projectID, subprojectID string) (*domain.ScrubbedSubproject, error) {
			return &domain.ScrubbedSubproject{ID: subprojectID, ProjectID: projectID}, nil
		},
	}

	_, api := humatest.New(t)
	v1.RegisterResourceRoutes(api, svc)

	resp := api.GetCtx(tokenCtx(alice), "/projects/p1/subprojects/sp1")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var body domain.ScrubbedSubproject
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "sp1", body.ID)
	assert.Equal(t, "p1", body.ProjectID)
}

func TestGetWorkflowitem(t *testing.T) {
	t.Parallel()

	var gotPath domain.WorkflowitemPath
	svc := &mockResourceService{
		getWorkflowitemFunc: func(_ context.Context, _ domain.AuthToken, path domain.WorkflowitemPath) (*domain.ScrubbedWorkflowitem, error) {
			gotPath = path
			return &domain.ScrubbedWorkflowitem{ID: path.WorkflowitemID}, nil
		},
	}

	_, api := humatest.New(t)
	v1.RegisterResourceRoutes(api, svc)

	resp := api.GetCtx(tokenCtx(alice), "/projects/p1/subprojects/sp1/workflowitems/wf1")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, domain.WorkflowitemPath{ProjectID: "p1", SubprojectID: "sp1", WorkflowitemID: "wf1"}, gotPath)
}
