package store

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/GFattehallah/cmhe-manager/pkg/metrics"
)

// Collection is the per-entity data access surface. The mutex serializes
// cache read-modify-write cycles; concurrent saves for the same id resolve
// last-write-wins, matching the upsert contract.
type Collection[T Entity] struct {
	name    string
	orderBy string
	remote  Remote
	cache   Cache
	seed    func() []T
	log     *zap.Logger
	metrics *metrics.Collector

	mu sync.Mutex
}

func NewCollection[T Entity](name, orderBy string, rc Remote, cache Cache, seedFn func() []T, log *zap.Logger, m *metrics.Collector) *Collection[T] {
	if log == nil {
		log = zap.NewNop()
	}
	return &Collection[T]{
		name:    name,
		orderBy: orderBy,
		remote:  rc,
		cache:   cache,
		seed:    seedFn,
		log:     log,
		metrics: m,
	}
}

func (c *Collection[T]) Name() string { return c.name }

// List returns the collection contents. When the remote store is configured
// it is consulted first, in the collection's canonical order, and a success
// fully replaces the cached snapshot. Any remote failure, or the absence of
// a remote store, degrades to the cache, and an unwritten cache degrades to
// the injected seed. List never fails: reads must not break the UI. The
// fallback paths serve records in stored order; callers needing a guaranteed
// order sort after retrieval.
func (c *Collection[T]) List(ctx context.Context) []T {
	if c.remote != nil {
		rows, rerr := c.remote.SelectAll(ctx, c.name, c.orderBy)
		if rerr == nil {
			if items, ok := c.decodeRows(rows); ok {
				c.countRemote("select", "ok")
				c.mirror(items)
				return items
			}
			c.countRemote("select", "schema")
		} else {
			c.log.Warn("remote read failed, serving cache",
				zap.String("collection", c.name),
				zap.Error(rerr),
			)
			c.countRemote("select", string(rerr.Kind))
		}
		c.countFallback("remote_error")
	}

	items, _ := c.loadLocal()
	return items
}

// Save upserts the entity: the cache is updated first so the very next read
// is consistent, then the remote write is attempted best-effort. Only a
// cache failure is returned; remote failures are logged and counted.
func (c *Collection[T]) Save(ctx context.Context, e T) error {
	if err := c.updateLocal(func(items []T) []T {
		for i := range items {
			if items[i].EntityID() == e.EntityID() {
				items[i] = e
				return items
			}
		}
		return append(items, e)
	}); err != nil {
		return err
	}

	if c.remote != nil {
		if rerr := c.remote.Upsert(ctx, c.name, e); rerr != nil {
			c.log.Warn("remote upsert failed, record kept locally",
				zap.String("collection", c.name),
				zap.String("id", e.EntityID()),
				zap.Error(rerr),
			)
			c.countRemote("upsert", string(rerr.Kind))
		} else {
			c.countRemote("upsert", "ok")
		}
	}
	return nil
}

// Delete removes the record with id. Deleting an absent id is a no-op.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	if err := c.updateLocal(func(items []T) []T {
		return removeIDs(items, map[string]struct{}{id: {}})
	}); err != nil {
		return err
	}

	if c.remote != nil {
		if rerr := c.remote.Delete(ctx, c.name, id); rerr != nil {
			c.log.Warn("remote delete failed",
				zap.String("collection", c.name),
				zap.String("id", id),
				zap.Error(rerr),
			)
			c.countRemote("delete", string(rerr.Kind))
		} else {
			c.countRemote("delete", "ok")
		}
	}
	return nil
}

func (c *Collection[T]) DeleteBulk(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	idSet := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		idSet[id] = struct{}{}
	}

	if err := c.updateLocal(func(items []T) []T {
		return removeIDs(items, idSet)
	}); err != nil {
		return err
	}

	if c.remote != nil {
		if rerr := c.remote.DeleteBulk(ctx, c.name, ids); rerr != nil {
			c.log.Warn("remote bulk delete failed",
				zap.String("collection", c.name),
				zap.Int("count", len(ids)),
				zap.Error(rerr),
			)
			c.countRemote("delete_bulk", string(rerr.Kind))
		} else {
			c.countRemote("delete_bulk", "ok")
		}
	}
	return nil
}

func removeIDs[T Entity](items []T, ids map[string]struct{}) []T {
	kept := items[:0]
	for _, it := range items {
		if _, drop := ids[it.EntityID()]; !drop {
			kept = append(kept, it)
		}
	}
	return kept
}

// updateLocal applies fn to the cached snapshot under the collection lock.
// Its error is a cache error, the one failure class that must surface.
func (c *Collection[T]) updateLocal(fn func([]T) []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.loadLocalLocked()
	if err != nil {
		return err
	}

	data, err := json.Marshal(fn(items))
	if err != nil {
		return err
	}
	return c.cache.Set(c.name, data)
}

func (c *Collection[T]) loadLocal() ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	items, err := c.loadLocalLocked()
	if err != nil {
		// Reads degrade to seed data rather than failing.
		c.log.Error("cache read failed, serving seed data",
			zap.String("collection", c.name),
			zap.Error(err),
		)
		c.countFallback("cache_error")
		return c.seed(), nil
	}
	return items, nil
}

func (c *Collection[T]) loadLocalLocked() ([]T, error) {
	data, ok, err := c.cache.Get(c.name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return c.seed(), nil
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// mirror replaces the cached snapshot with a fresh remote read. A mirror
// failure only degrades future offline reads, so it is logged, not returned.
func (c *Collection[T]) mirror(items []T) {
	data, err := json.Marshal(items)
	if err == nil {
		c.mu.Lock()
		err = c.cache.Set(c.name, data)
		c.mu.Unlock()
	}
	if err != nil {
		c.log.Error("failed to mirror remote read into cache",
			zap.String("collection", c.name),
			zap.Error(err),
		)
	}
}

func (c *Collection[T]) decodeRows(rows []json.RawMessage) ([]T, bool) {
	items := make([]T, 0, len(rows))
	for _, row := range rows {
		var item T
		if err := json.Unmarshal(row, &item); err != nil {
			c.log.Warn("remote row does not match schema",
				zap.String("collection", c.name),
				zap.Error(err),
			)
			return nil, false
		}
		items = append(items, item)
	}
	return items, true
}

func (c *Collection[T]) countRemote(operation, outcome string) {
	if c.metrics != nil {
		c.metrics.RemoteRequestsTotal.WithLabelValues(operation, c.name, outcome).Inc()
	}
}

func (c *Collection[T]) countFallback(reason string) {
	if c.metrics != nil {
		c.metrics.CacheFallbacksTotal.WithLabelValues(c.name, reason).Inc()
	}
}
