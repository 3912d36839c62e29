package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"terramosaic/internal/grid"
	"terramosaic/internal/raster"
)

// RasterStore is an optional second cache level backed by Redis, keyed per
// scan so rasters from different paths never collide. It lets repeat scans
// of the same path skip refetching across process restarts.
type RasterStore struct {
	client *redis.Client
	scanID string
	ttl    time.Duration
}

// NewRasterStore creates a store for one scan.
func NewRasterStore(client *redis.Client, scanID string, ttl time.Duration) *RasterStore {
	return &RasterStore{client: client, scanID: scanID, ttl: ttl}
}

func (s *RasterStore) key(tile grid.Tile) string {
	return fmt.Sprintf("raster:%s:%d", s.scanID, tile.Index)
}

// Wrap layers the store around a fetch function: hits are decoded from
// Redis, misses fall through and their results are written back. Redis
// errors are logged and treated as misses; only the inner fetch can fail
// the pipeline.
func (s *RasterStore) Wrap(fetch FetchFunc) FetchFunc {
	return func(ctx context.Context, tile grid.Tile) (*raster.TileSet, error) {
		payload, err := s.client.Get(ctx, s.key(tile)).Result()
		if err == nil {
			var ts raster.TileSet
			if err := json.Unmarshal([]byte(payload), &ts); err == nil {
				return &ts, nil
			}
			log.Printf("Discarding undecodable cached raster for tile %s", tile.Identifier)
		} else if err != redis.Nil {
			log.Printf("Redis raster lookup failed for tile %s: %v", tile.Identifier, err)
		}

		ts, err := fetch(ctx, tile)
		if err != nil {
			return nil, err
		}

		encoded, err := json.Marshal(ts)
		if err != nil {
			return ts, nil
		}
		if err := s.client.Set(ctx, s.key(tile), encoded, s.ttl).Err(); err != nil {
			log.Printf("Redis raster store failed for tile %s: %v", tile.Identifier, err)
		}
		return ts, nil
	}
}
