package worker

import (
	"log"

	"terramosaic/internal/engine"
)

// StartAllWorkers initializes and starts all background workers
func StartAllWorkers(e *engine.Engine) {
	log.Println("Starting all workers...")

	StartResultsWorker(e)

	log.Println("All workers started")
}
