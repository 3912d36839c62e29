package config

import "time"

// Engine defaults
const (
	// TileRasterWidth and TileRasterHeight are the fixed per-tile raster
	// dimensions returned by the sampling service.
	TileRasterWidth  = 128
	TileRasterHeight = 128

	// MaxAtlasDimension caps each side of the shared atlas, matching the
	// smallest texture limit of the target hardware.
	MaxAtlasDimension = 8192

	// ClosestPointCount is K, the number of globally closest points retained
	// per scan.
	ClosestPointCount = 100

	// MeshStride is the decimation stride for mesh lines and points.
	MeshStride = 8

	// DefaultHaloKm is the margin around a path's minimum distance that
	// defines which samples are of interest when a scan does not specify one.
	DefaultHaloKm = 50.0
)

// Worker intervals
const (
	// PostgresFlushInterval defines how often completed scans are persisted
	// to PostgreSQL.
	PostgresFlushInterval = 60 * time.Second

	// RedisRasterTTL bounds how long fetched tile rasters stay cached in Redis.
	RedisRasterTTL = 30 * time.Minute
)
