// Package resource serves caller-scoped views of projects, subprojects and
// workflowitems.
package resource

import (
	"context"
	"fmt"

	"github.com/egdmrsy/TruBudget-SvKit/internal/authz"
	"github.com/egdmrsy/TruBudget-SvKit/internal/cache"
	"github.com/egdmrsy/TruBudget-SvKit/internal/domain"
	"github.com/egdmrsy/TruBudget-SvKit/internal/history"
	"github.com/egdmrsy/TruBudget-SvKit/internal/ledger"
)

type Service struct {
	reader   ledger.Reader
	redactor *history.Redactor
}

func NewService(reader ledger.Reader, redactor *history.Redactor) *Service {
	return &Service{reader: reader, redactor: redactor}
}

// GetProject returns the project scrubbed for token. The caller needs one
// of the project view intents.
func (s *Service) GetProject(ctx context.Context, token domain.AuthToken, projectID string) (*domain.ScrubbedProject, error) {
	var out *domain.ScrubbedProject
	err := cache.WithCache(ctx, s.reader, func(ctx context.Context, c *cache.Cache) error {
		p, err := c.GetProject(ctx, projectID)
		if err != nil {
			return err
		}
		if err := authz.CheckAny(token, p.Permissions, domain.ViewIntents(domain.KindProject)...); err != nil {
			return err
		}
		out = s.redactor.ScrubProject(p, token)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("resource.Service.GetProject: %w", err)
	}
	return out, nil
}

func (s *Service) GetSubproject(ctx context.Context, token domain.AuthToken, projectID, subprojectID string) (*domain.ScrubbedSubproject, error) {
	var out *domain.ScrubbedSubproject
	err := cache.WithCache(ctx, s.reader, func(ctx context.Context, c *cache.Cache) error {
		sp, err := c.GetSubproject(ctx, projectID, subprojectID)
		if err != nil {
			return err
		}
		if err := authz.CheckAny(token, sp.Permissions, domain.ViewIntents(domain.KindSubproject)...); err != nil {
			return err
		}
		out = s.redactor.ScrubSubproject(sp, token)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("resource.Service.GetSubproject: %w", err)
	}
	return out, nil
}

func (s *Service) GetWorkflowitem(ctx context.Context, token domain.AuthToken, path domain.WorkflowitemPath) (*domain.ScrubbedWorkflowitem, error) {
	var out *domain.ScrubbedWorkflowitem
	err := cache.WithCache(ctx, s.reader, func(ctx context.Context, c *cache.Cache) error {
		w, err := c.GetWorkflowitem(ctx, path)
		if err != nil {
			return err
		}
		if err := authz.Check(token, domain.IntentWorkflowitemView, w.Permissions); err != nil {
			return err
		}
		out = s.redactor.ScrubWorkflowitem(w, token)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("resource.Service.GetWorkflowitem: %w", err)
	}
	return out, nil
}
