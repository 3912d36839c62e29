package cache

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"terramosaic/internal/grid"
	"terramosaic/internal/raster"
	"terramosaic/internal/storage"
)

// FetchFunc resolves the raster bundle for one tile. A failed fetch is fatal
// to the whole pipeline run; no retry or degraded fallback exists here.
type FetchFunc func(ctx context.Context, tile grid.Tile) (*raster.TileSet, error)

// Cache deduplicates per-tile resource fetches. Entries are keyed by the
// tile's integer index and are append-only: once a tile resolves it is never
// refetched or overwritten for the cache's lifetime. A cache lives for one
// scan, since rasters depend on the scanned path.
type Cache struct {
	fetch FetchFunc
	store *storage.Sharded[int, *raster.TileSet]

	mu       sync.Mutex
	inflight map[int]*inflight
}

type inflight struct {
	done chan struct{}
	set  *raster.TileSet
	err  error
}

// New creates a cache around a fetch function.
func New(fetch FetchFunc) *Cache {
	return &Cache{
		fetch:    fetch,
		store:    storage.NewSharded[int, *raster.TileSet](8, nil),
		inflight: make(map[int]*inflight),
	}
}

// Fetch reports the resource of every requested tile through onEach exactly
// once per tile. Already-resolved tiles are reported immediately; the rest
// are fetched concurrently, each tile identity at most once across all
// callers. Fetch returns only after every requested tile has been reported,
// which is the happens-before edge readers of the rasters rely on.
func (c *Cache) Fetch(ctx context.Context, tiles []grid.Tile, onEach func(grid.Tile, *raster.TileSet)) error {
	var cbMu sync.Mutex
	report := func(t grid.Tile, ts *raster.TileSet) {
		cbMu.Lock()
		defer cbMu.Unlock()
		onEach(t, ts)
	}

	g, ctx := errgroup.WithContext(ctx)

	for _, tile := range tiles {
		if ts, ok := c.store.Get(tile.Index); ok {
			report(tile, ts)
			continue
		}

		entry, owner := c.claim(tile.Index)
		tile := tile

		g.Go(func() error {
			if owner {
				ts, err := c.fetch(ctx, tile)
				if err != nil {
					entry.err = fmt.Errorf("cache: fetch tile %s: %w", tile.Identifier, err)
				} else {
					entry.set = ts
					c.store.Set(tile.Index, ts)
				}
				close(entry.done)
			} else {
				select {
				case <-entry.done:
				case <-ctx.Done():
					return ctx.Err()
				}
			}

			if entry.err != nil {
				return entry.err
			}
			report(tile, entry.set)
			return nil
		})
	}

	return g.Wait()
}

// claim returns the in-flight entry for a tile, creating it when absent. The
// creator becomes the owner responsible for performing the fetch.
func (c *Cache) claim(index int) (*inflight, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.inflight[index]; ok {
		return entry, false
	}
	entry := &inflight{done: make(chan struct{})}
	c.inflight[index] = entry
	return entry, true
}

// Resolved returns the cached resource for a tile, if present.
func (c *Cache) Resolved(index int) (*raster.TileSet, bool) {
	return c.store.Get(index)
}

// Len returns the number of resolved tiles.
func (c *Cache) Len() int {
	return c.store.Count()
}
