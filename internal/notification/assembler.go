// Package notification lists a caller's notifications with the display
// names of the resources they mention.
package notification

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/egdmrsy/TruBudget-SvKit/internal/authz"
	"github.com/egdmrsy/TruBudget-SvKit/internal/cache"
	"github.com/egdmrsy/TruBudget-SvKit/internal/domain"
	"github.com/egdmrsy/TruBudget-SvKit/internal/ledger"
)

// maxConcurrentLookups bounds parallel resource fetches per request.
const maxConcurrentLookups = 8

// Page is one page of a caller's notifications, newest first.
type Page struct {
	Notifications []domain.NotificationView `json:"notifications"`
	Total         int                       `json:"total"`
	Unread        int                       `json:"unreadNotificationCount"`
}

// DisplayNames maps a resource to the name the caller may see. A nil name
// means the resource is hidden from the caller or does not exist.
type DisplayNames map[domain.ResourceRef]*string

type Assembler struct {
	reader ledger.Reader
}

func NewAssembler(reader ledger.Reader) *Assembler {
	return &Assembler{reader: reader}
}

// List returns the caller's notifications. limit <= 0 returns everything
// from offset on.
func (a *Assembler) List(ctx context.Context, token domain.AuthToken, offset, limit int) (*Page, error) {
	if offset < 0 {
		return nil, fmt.Errorf("notification.Assembler.List: %w", &domain.SchemaError{Field: "offset", Reason: "must not be negative"})
	}

	var page *Page
	err := cache.WithCache(ctx, a.reader, func(ctx context.Context, _ *cache.Cache) error {
		items, err := a.reader.ReadStreamItems(ctx, ledger.NotificationStream, token.UserID, 0)
		if err != nil {
			return &domain.UpstreamError{Op: "notification.Assembler.List", Err: err}
		}
		all, err := ledger.DecodeNotifications(items)
		if err != nil {
			return err
		}
		slices.Reverse(all)

		page = &Page{Total: len(all)}
		for _, n := range all {
			if !n.IsRead {
				page.Unread++
			}
		}

		selected := window(all, offset, limit)
		names, err := a.BuildDisplayNameMap(ctx, token, selected)
		if err != nil {
			return err
		}
		page.Notifications = make([]domain.NotificationView, 0, len(selected))
		for _, n := range selected {
			page.Notifications = append(page.Notifications, view(n, names))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("notification.Assembler.List: %w", err)
	}
	return page, nil
}

func window(all []domain.Notification, offset, limit int) []domain.Notification {
	if offset >= len(all) {
		return nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all
}

func view(n domain.Notification, names DisplayNames) domain.NotificationView {
	resources := make([]domain.ResourceView, 0, len(n.Resources))
	for _, r := range n.Resources {
		resources = append(resources, domain.ResourceView{ID: r.ID, Type: r.Type, DisplayName: names[r]})
	}
	return domain.NotificationView{
		ID:            n.ID,
		Resources:     resources,
		IsRead:        n.IsRead,
		OriginalEvent: n.OriginalEvent,
	}
}

// lookup is one resource to resolve, with the parent ids taken from the
// notification that mentions it.
type lookup struct {
	ref          domain.ResourceRef
	projectID    string
	subprojectID string
}

// BuildDisplayNameMap resolves every resource mentioned by notifications.
// A name is disclosed only when the caller holds a view intent on that
// resource. Lookups share the request cache and run in parallel.
func (a *Assembler) BuildDisplayNameMap(ctx context.Context, token domain.AuthToken, notifications []domain.Notification) (DisplayNames, error) {
	lookups := collect(notifications)
	names := make(DisplayNames, len(lookups))

	err := cache.WithCache(ctx, a.reader, func(ctx context.Context, c *cache.Cache) error {
		var mu sync.Mutex
		g, ctx := errgroup.WithContext(ctx)
		g.SetLimit(maxConcurrentLookups)

		for _, l := range lookups {
			g.Go(func() error {
				name, err := resolve(ctx, c, token, l)
				if err != nil {
					return err
				}
				mu.Lock()
				names[l.ref] = name
				mu.Unlock()
				return nil
			})
		}
		return g.Wait()
	})
	if err != nil {
		return nil, fmt.Errorf("notification.Assembler.BuildDisplayNameMap: %w", err)
	}
	return names, nil
}

// collect dedups resources by ref. When a resource shows up several times,
// the sighting carrying the most parent ids wins so one bare mention does
// not hide the name everywhere.
func collect(notifications []domain.Notification) []lookup {
	index := make(map[domain.ResourceRef]int)
	var out []lookup
	for _, n := range notifications {
		var projectID, subprojectID string
		for _, r := range n.Resources {
			switch r.Type {
			case domain.KindProject:
				projectID = r.ID
			case domain.KindSubproject:
				subprojectID = r.ID
			}
		}
		for _, r := range n.Resources {
			l := lookup{ref: r, projectID: projectID, subprojectID: subprojectID}
			i, ok := index[r]
			if !ok {
				index[r] = len(out)
				out = append(out, l)
				continue
			}
			if l.parents() > out[i].parents() {
				out[i] = l
			}
		}
	}
	return out
}

func (l lookup) parents() int {
	n := 0
	if l.projectID != "" {
		n++
	}
	if l.subprojectID != "" {
		n++
	}
	return n
}

func resolve(ctx context.Context, c *cache.Cache, token domain.AuthToken, l lookup) (*string, error) {
	var (
		name  string
		perms domain.PermissionModel
		err   error
	)
	switch l.ref.Type {
	case domain.KindProject:
		var p *domain.Project
		if p, err = c.GetProject(ctx, l.ref.ID); err == nil {
			name, perms = p.DisplayName, p.Permissions
		}
	case domain.KindSubproject:
		if l.projectID == "" {
			return nil, nil
		}
		var s *domain.Subproject
		if s, err = c.GetSubproject(ctx, l.projectID, l.ref.ID); err == nil {
			name, perms = s.DisplayName, s.Permissions
		}
	case domain.KindWorkflowitem:
		if l.projectID == "" || l.subprojectID == "" {
			return nil, nil
		}
		path := domain.WorkflowitemPath{ProjectID: l.projectID, SubprojectID: l.subprojectID, WorkflowitemID: l.ref.ID}
		var w *domain.Workflowitem
		if w, err = c.GetWorkflowitem(ctx, path); err == nil {
			name, perms = w.DisplayName, w.Permissions
		}
	default:
		return nil, nil
	}

	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !authz.AllowedIntents(token, perms).HasAny(domain.ViewIntents(l.ref.Type)...) {
		return nil, nil
	}
	return &name, nil
}
