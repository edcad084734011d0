// internal/api/alerts.go
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/faunawatch/faunawatch-go/internal/model"
)

// initAlertRoutes registers the alert endpoints. Alerts are readable and
// acknowledgeable without the shared secret so dashboard clients can act
// on them directly.
func (c *Controller) initAlertRoutes() {
	c.Group.GET("/alerts", c.ListAlerts)
	c.Group.POST("/alerts/:id/ack", c.AcknowledgeAlert)
}

// AlertListResponse wraps an alert page.
type AlertListResponse struct {
	Data  []model.Alert `json:"data"`
	Total int           `json:"total"`
}

// ListAlerts handles GET /alerts, optionally filtered with
// ?unacknowledged=true.
func (c *Controller) ListAlerts(ctx echo.Context) error {
	unacknowledgedOnly := ctx.QueryParam("unacknowledged") == "true"
	total, page := c.Alerts.List(unacknowledgedOnly)
	return ctx.JSON(http.StatusOK, AlertListResponse{Data: page, Total: total})
}

// AcknowledgeAlert handles POST /alerts/:id/ack. Acknowledging twice is
// idempotent; each successful call broadcasts alert_acknowledged.
func (c *Controller) AcknowledgeAlert(ctx echo.Context) error {
	alert, err := c.Pipeline.AcknowledgeAlert(ctx.Param("id"))
	if err != nil {
		return c.HandleError(ctx, err, "alert not found")
	}
	return ctx.JSON(http.StatusOK, alert)
}
