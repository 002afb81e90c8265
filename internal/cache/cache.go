// Package cache provides the request-scoped read-through cache for ledger
// resources. A Cache lives for one logical request; nothing survives it.
package cache

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/egdmrsy/TruBudget-SvKit/internal/domain"
	"github.com/egdmrsy/TruBudget-SvKit/internal/ledger"
	"github.com/egdmrsy/TruBudget-SvKit/internal/obs"
)

// Cache memoizes sourced resources for one request. Concurrent lookups of
// the same key share a single ledger read. Failed reads are not kept.
//
// Returned resources are shared between callers and must be treated as
// read-only.
type Cache struct {
	id     uuid.UUID
	reader ledger.Reader
	group  singleflight.Group

	mu    sync.Mutex
	items map[string]any
}

func New(reader ledger.Reader) *Cache {
	return &Cache{
		id:     uuid.New(),
		reader: reader,
		items:  make(map[string]any),
	}
}

// ID identifies the request scope in logs.
func (c *Cache) ID() uuid.UUID { return c.id }

// Len returns the number of cached resources.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

type ctxKey struct{}

// NewContext returns a context carrying c.
func NewContext(ctx context.Context, c *Cache) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// FromContext returns the cache stored in ctx, if any.
func FromContext(ctx context.Context) (*Cache, bool) {
	c, ok := ctx.Value(ctxKey{}).(*Cache)
	return c, ok
}

// WithCache runs fn with the request cache. A cache already present in ctx
// is reused so nested lookups share it; otherwise a fresh one is created
// and dropped when fn returns.
func WithCache(ctx context.Context, reader ledger.Reader, fn func(ctx context.Context, c *Cache) error) error {
	if c, ok := FromContext(ctx); ok {
		return fn(ctx, c)
	}
	c := New(reader)
	return fn(NewContext(ctx, c), c)
}

func (c *Cache) load(ctx context.Context, kind, key string, fetch func(context.Context) (any, error)) (any, error) {
	c.mu.Lock()
	v, ok := c.items[key]
	c.mu.Unlock()
	if ok {
		obs.CacheLookups.WithLabelValues(kind, "hit").Inc()
		return v, nil
	}
	obs.CacheLookups.WithLabelValues(kind, "miss").Inc()

	v, err, shared := c.group.Do(key, func() (any, error) {
		// A concurrent caller may have stored the key between our check
		// and entering the group.
		c.mu.Lock()
		cached, ok := c.items[key]
		c.mu.Unlock()
		if ok {
			return cached, nil
		}

		res, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.items[key] = res
		c.mu.Unlock()
		return res, nil
	})
	if err != nil {
		log.Debug().Err(err).Str("cache_id", c.id.String()).Str("key", key).Bool("shared", shared).Msg("cache: fetch failed")
		return nil, err
	}
	return v, nil
}

func (c *Cache) GetProject(ctx context.Context, projectID string) (*domain.Project, error) {
	v, err := c.load(ctx, "project", "project:"+projectID, func(ctx context.Context) (any, error) {
		items, err := c.reader.ReadStreamItems(ctx, projectID, ledger.ProjectItemKey, 0)
		if err != nil {
			return nil, &domain.UpstreamError{Op: "cache.Cache.GetProject", Err: err}
		}
		return ledger.SourceProject(projectID, items)
	})
	if err != nil {
		return nil, fmt.Errorf("cache.Cache.GetProject: %w", err)
	}
	return v.(*domain.Project), nil //nolint:forcetypeassert
}

func (c *Cache) GetSubproject(ctx context.Context, projectID, subprojectID string) (*domain.Subproject, error) {
	key := "subproject:" + projectID + ":" + subprojectID
	v, err := c.load(ctx, "subproject", key, func(ctx context.Context) (any, error) {
		items, err := c.reader.ReadStreamItems(ctx, projectID, ledger.SubprojectItemKey(subprojectID), 0)
		if err != nil {
			return nil, &domain.UpstreamError{Op: "cache.Cache.GetSubproject", Err: err}
		}
		return ledger.SourceSubproject(projectID, subprojectID, items)
	})
	if err != nil {
		return nil, fmt.Errorf("cache.Cache.GetSubproject: %w", err)
	}
	return v.(*domain.Subproject), nil //nolint:forcetypeassert
}

func (c *Cache) GetWorkflowitem(ctx context.Context, path domain.WorkflowitemPath) (*domain.Workflowitem, error) {
	key := "workflowitem:" + path.ProjectID + ":" + path.SubprojectID + ":" + path.WorkflowitemID
	v, err := c.load(ctx, "workflowitem", key, func(ctx context.Context) (any, error) {
		itemKey := ledger.WorkflowitemItemKey(path.SubprojectID, path.WorkflowitemID)
		items, err := c.reader.ReadStreamItems(ctx, path.ProjectID, itemKey, 0)
		if err != nil {
			return nil, &domain.UpstreamError{
				Op:             "cache.Cache.GetWorkflowitem",
				WorkflowitemID: path.WorkflowitemID,
				Err:            err,
			}
		}
		return ledger.SourceWorkflowitem(path, items)
	})
	if err != nil {
		return nil, fmt.Errorf("cache.Cache.GetWorkflowitem: %w", err)
	}
	return v.(*domain.Workflowitem), nil //nolint:forcetypeassert
}
