package worker

import (
	"log"
	"time"

	"terramosaic/internal/config"
	"terramosaic/internal/engine"
	"terramosaic/internal/model"
	"terramosaic/internal/postgres"
)

// StartResultsWorker starts the worker that persists completed scans to PostgreSQL
func StartResultsWorker(e *engine.Engine) {
	ticker := time.NewTicker(config.PostgresFlushInterval)
	go func() {
		for range ticker.C {
			flushResults(e)
		}
	}()

	log.Println("Results worker started with interval:", config.PostgresFlushInterval)
}

// flushResults persists every scan completed since the previous flush.
func flushResults(e *engine.Engine) {
	for _, result := range e.DirtyResults() {
		record := toRecord(result)
		if err := postgres.SaveScanRecord(record); err != nil {
			log.Printf("Failed to persist scan %s: %v", result.ID, err)
			continue
		}
		log.Printf("Persisted scan %s (%d closest points)", result.ID, len(record.Points))
	}
}

// toRecord converts an in-memory scan result to its persisted form.
func toRecord(result *engine.ScanResult) *model.ScanRecord {
	record := &model.ScanRecord{
		ID:        result.ID,
		HaloKm:    result.HaloKm,
		TileCount: len(result.Rasters),
		LineCount: len(result.Lines),
	}

	for rank, r := range result.Top.All() {
		record.Points = append(record.Points, model.ClosestPoint{
			ScanID:    result.ID,
			Rank:      rank,
			TileIndex: r.Tile.Index,
			X:         r.X,
			Y:         r.Y,
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
			Proximity: r.Value,
		})
	}

	return record
}
