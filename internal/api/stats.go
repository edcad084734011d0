// internal/api/stats.go
package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/faunawatch/faunawatch-go/internal/model"
)

// statsCacheKey identifies the cached stats response.
const statsCacheKey = "stats_response"

// initStatsRoutes registers the stats endpoint.
func (c *Controller) initStatsRoutes() {
	c.Group.GET("/stats", c.GetStats)
}

// StatsResponse combines the append-only aggregate with counts derived
// from the live stores.
type StatsResponse struct {
	model.Stats
	ActiveAlerts     int `json:"active_alerts"`
	RecentDetections int `json:"recent_detections"`
}

// GetStats handles GET /stats. The derived counts walk the stores, so the
// response is cached briefly to keep dashboard polling cheap.
func (c *Controller) GetStats(ctx echo.Context) error {
	if cached, found := c.statsCache.Get(statsCacheKey); found {
		return ctx.JSON(http.StatusOK, cached)
	}

	response := StatsResponse{
		Stats:            c.Aggregator.Snapshot(),
		ActiveAlerts:     c.Alerts.ActiveCount(),
		RecentDetections: c.Detections.CountSince(time.Now().Add(-time.Hour)),
	}

	c.statsCache.SetDefault(statsCacheKey, response)
	return ctx.JSON(http.StatusOK, response)
}
