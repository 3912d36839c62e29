package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/golang/geo/s2"
	"github.com/spf13/viper"

	"terramosaic/internal/api"
	"terramosaic/internal/config"
	"terramosaic/internal/engine"
	"terramosaic/internal/export"
	"terramosaic/internal/grid"
	"terramosaic/internal/postgres"
	"terramosaic/internal/redis"
	"terramosaic/internal/worker"
)

func main() {
	// Load configuration
	cfg, err := loadConfiguration()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database and cache
	initializeDatabaseAndCache(cfg)

	// Initialize the mosaic engine
	e := initializeEngine()

	// Start workers
	if cfg.DBUrl != "" {
		worker.StartAllWorkers(e)
	}

	// Run a demo scan when requested
	if os.Getenv("DEMO_SCAN") != "" {
		demoScan(e)
	}

	// Setup and run API server
	runAPIServer(cfg, e)
}

func loadConfiguration() (config.Config, error) {
	// Try loading from config package first
	cfg, err := config.LoadConfig()
	if err != nil {
		// Fallback to loading environment variables directly
		log.Println("Failed to load config via config package, using fallback method")

		cfg.Port = getEnvWithDefault("PORT", ":3000")
		cfg.DBUrl = getEnvWithDefault("DB_URL", "")
		cfg.RedisUrl = getEnvWithDefault("REDIS_URL", "")
	}

	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	value := viper.GetString(key)
	if value == "" {
		log.Printf("%s environment variable is not set, using default", key)
		return defaultValue
	}
	return value
}

func initializeDatabaseAndCache(cfg config.Config) {
	// Initialize PostgreSQL when configured
	if cfg.DBUrl != "" {
		postgres.Init(cfg.DBUrl)
	} else {
		log.Println("DB_URL not set, scan persistence disabled")
	}

	// Initialize Redis when configured
	if cfg.RedisUrl != "" {
		redis.Init(cfg.RedisUrl)
	} else {
		log.Println("REDIS_URL not set, raster cache disabled")
	}
}

func initializeEngine() *engine.Engine {
	g := grid.NewDefault()

	e, err := engine.New(engine.Params{
		Grid:      g,
		Samplers:  newSimSamplerFactory(g, config.TileRasterWidth, config.TileRasterHeight),
		Redis:     redis.GetClient(),
		RasterTTL: config.RedisRasterTTL,
	})
	if err != nil {
		log.Fatalf("Failed to initialize engine: %v", err)
	}

	return e
}

// demoScan runs one scan over a sample orbit segment and exports the results
// as GeoJSON for inspection.
func demoScan(e *engine.Engine) {
	path := []s2.LatLng{
		s2.LatLngFromDegrees(46.1, -112.5),
		s2.LatLngFromDegrees(45.2, -109.8),
		s2.LatLngFromDegrees(44.3, -107.1),
		s2.LatLngFromDegrees(43.4, -104.5),
	}

	result, err := e.Scan(context.Background(), "demo", path, config.DefaultHaloKm)
	if err != nil {
		log.Fatalf("Demo scan failed: %v", err)
	}

	if err := export.WriteFile(export.LayoutFeatureCollection(e.Grid(), result.Layout), "demo_tiles.geojson"); err != nil {
		log.Fatalf("Failed to export demo tiles: %v", err)
	}
	if err := export.WriteFile(export.MeshFeatureCollection(result.BuildMeshTopology()), "demo_mesh.geojson"); err != nil {
		log.Fatalf("Failed to export demo mesh: %v", err)
	}
	if err := export.WriteFile(export.ClosestPointFeatures(result.Top.All()), "demo_closest.geojson"); err != nil {
		log.Fatalf("Failed to export demo closest points: %v", err)
	}

	log.Println("Demo scan exported to demo_tiles.geojson, demo_mesh.geojson, demo_closest.geojson")
}

func runAPIServer(cfg config.Config, e *engine.Engine) {
	// Initialize Gin router
	r := gin.Default()

	// Configure API routes
	routeConfig := map[string]string{
		"port":     cfg.Port,
		"dbUrl":    cfg.DBUrl,
		"redisUrl": cfg.RedisUrl,
	}
	api.SetupRouter(r, e, routeConfig)

	// Start the server
	r.Run(cfg.Port)
}
