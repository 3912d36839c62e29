package routes

import (
	"log"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/golang/geo/s2"

	"terramosaic/internal/config"
	"terramosaic/internal/engine"
	"terramosaic/internal/export"
	"terramosaic/internal/util"
)

// ScanRequest is the POST /api/scan payload. The path arrives either as
// explicit degree coordinates or as an encoded polyline route.
type ScanRequest struct {
	ID     string  `json:"id"`
	HaloKm float64 `json:"halo_km"`
	Path   []struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"path"`
	Route string `json:"route"`
}

// SetupScanHandlers registers the scan pipeline and query surface endpoints
func SetupScanHandlers(router *gin.RouterGroup, e *engine.Engine) {
	scanGroup := router.Group("/scan")

	scanGroup.POST("", runScan(e))
	scanGroup.GET("/:id", scanSummary(e))
	scanGroup.GET("/:id/closest", closestPoints(e))
	scanGroup.GET("/:id/mesh", meshTopology(e))
	scanGroup.GET("/:id/probe", probe(e))
	scanGroup.GET("/:id/tiles.geojson", tilesGeoJSON(e))
	scanGroup.GET("/:id/mesh.geojson", meshGeoJSON(e))
}

// runScan handles the scan pipeline endpoint
func runScan(e *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ScanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"status": "error", "message": err.Error()})
			return
		}

		path := requestPath(req)
		if len(path) == 0 {
			c.JSON(400, gin.H{"status": "error", "message": "scan requires a path or an encoded route"})
			return
		}

		if req.ID == "" {
			req.ID = util.NewScanID()
		}
		if req.HaloKm <= 0 {
			req.HaloKm = config.DefaultHaloKm
		}

		result, err := e.Scan(c.Request.Context(), req.ID, path, req.HaloKm)
		if err != nil {
			log.Printf("Scan %s failed: %v", req.ID, err)
			c.JSON(500, gin.H{"status": "error", "message": err.Error()})
			return
		}

		summary := gin.H{
			"status":        "success",
			"id":            result.ID,
			"halo_km":       result.HaloKm,
			"tile_count":    len(result.Rasters),
			"line_count":    len(result.Lines),
			"closest_count": result.Top.Len(),
		}
		if result.Atlas != nil {
			summary["atlas_width"] = result.Atlas.AtlasWidth
			summary["atlas_height"] = result.Atlas.AtlasHeight
		}
		c.JSON(200, summary)
	}
}

// requestPath converts the request payload to radians
func requestPath(req ScanRequest) []s2.LatLng {
	var path []s2.LatLng
	for _, p := range req.Path {
		path = append(path, s2.LatLngFromDegrees(p.Lat, p.Lng))
	}
	if len(path) == 0 && req.Route != "" {
		for _, p := range util.DecodePolyline(req.Route) {
			path = append(path, s2.LatLngFromDegrees(p[0], p[1]))
		}
	}
	return path
}

// scanSummary handles the scan summary endpoint
func scanSummary(e *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := e.Result(c.Param("id"))
		if err != nil {
			c.JSON(404, gin.H{"status": "error", "message": err.Error()})
			return
		}

		c.JSON(200, gin.H{
			"status":        "success",
			"id":            result.ID,
			"halo_km":       result.HaloKm,
			"tile_count":    len(result.Rasters),
			"line_count":    len(result.Lines),
			"closest_count": result.Top.Len(),
			"created_at":    result.CreatedAt,
		})
	}
}

// closestPoints handles the top closest points endpoint
func closestPoints(e *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := e.Result(c.Param("id"))
		if err != nil {
			c.JSON(404, gin.H{"status": "error", "message": err.Error()})
			return
		}

		n := result.Top.Len()
		if raw := c.Query("n"); raw != "" {
			n, err = strconv.Atoi(raw)
			if err != nil {
				c.JSON(400, gin.H{"status": "error", "message": "n must be an integer"})
				return
			}
		}

		records, err := result.TopClosestPoints(n)
		if err != nil {
			c.JSON(400, gin.H{"status": "error", "message": err.Error()})
			return
		}
		c.JSON(200, gin.H{"status": "success", "points": records})
	}
}

// meshTopology handles the decimated mesh endpoint
func meshTopology(e *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := e.Result(c.Param("id"))
		if err != nil {
			c.JSON(404, gin.H{"status": "error", "message": err.Error()})
			return
		}

		topo := result.BuildMeshTopology()
		c.JSON(200, gin.H{
			"status":         "success",
			"line_count":     len(topo.Lines),
			"point_count":    len(topo.Points),
			"triangle_count": len(topo.Triangles) / 3,
			"topology":       topo,
		})
	}
}

// probe handles single-coordinate channel queries for picking overlays
func probe(e *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := e.Result(c.Param("id"))
		if err != nil {
			c.JSON(404, gin.H{"status": "error", "message": err.Error()})
			return
		}

		tileIndex, err1 := strconv.Atoi(c.Query("tile"))
		x, err2 := strconv.Atoi(c.Query("x"))
		y, err3 := strconv.Atoi(c.Query("y"))
		if err1 != nil || err2 != nil || err3 != nil {
			c.JSON(400, gin.H{"status": "error", "message": "probe requires integer tile, x and y"})
			return
		}

		g := e.Grid()
		if tileIndex < 0 || tileIndex >= g.Columns()*g.Rows() {
			c.JSON(400, gin.H{"status": "error", "message": "tile index out of range"})
			return
		}
		tile := g.TileByIndex(tileIndex)

		elevation, err := result.ElevationAt(tile, x, y)
		if err != nil {
			c.JSON(400, gin.H{"status": "error", "message": err.Error()})
			return
		}
		distAboveMin, _ := result.DistanceAboveMinAt(tile, x, y)
		unixSeconds, _ := result.UnixSecondsAt(tile, x, y)
		lat, lng := result.LatLongOf(tile, x, y)

		c.JSON(200, gin.H{
			"status":             "success",
			"latitude":           lat,
			"longitude":          lng,
			"elevation":          elevation,
			"distance_above_min": distAboveMin,
			"unix_seconds":       unixSeconds,
		})
	}
}

// tilesGeoJSON handles the layout export endpoint
func tilesGeoJSON(e *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := e.Result(c.Param("id"))
		if err != nil {
			c.JSON(404, gin.H{"status": "error", "message": err.Error()})
			return
		}

		c.JSON(200, export.LayoutFeatureCollection(e.Grid(), result.Layout))
	}
}

// meshGeoJSON handles the mesh export endpoint
func meshGeoJSON(e *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := e.Result(c.Param("id"))
		if err != nil {
			c.JSON(404, gin.H{"status": "error", "message": err.Error()})
			return
		}

		c.JSON(200, export.MeshFeatureCollection(result.BuildMeshTopology()))
	}
}
