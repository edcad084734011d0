// internal/api/stream.go
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/faunawatch/faunawatch-go/internal/errors"
)

// initStreamRoutes registers the stream endpoint routes.
func (c *Controller) initStreamRoutes() {
	c.Group.GET("/stream", c.GetStreamURL)
	c.Group.PUT("/stream", c.UpdateStreamURL, c.AuthMiddleware)
}

// StreamUpdateRequest is the PUT /stream payload.
type StreamUpdateRequest struct {
	URL string `json:"url"`
}

// UpdateStreamURL handles PUT /stream. The edge device calls this every
// time its tunnel endpoint rotates.
func (c *Controller) UpdateStreamURL(ctx echo.Context) error {
	var req StreamUpdateRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx,
			errors.New(err).Component("api").Category(errors.CategoryValidation).Build(),
			"invalid stream payload")
	}

	endpoint, err := c.Pipeline.SetStreamURL(req.URL)
	if err != nil {
		return c.HandleError(ctx, err, "invalid stream url")
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"success": true,
		"url":     endpoint.URL,
	})
}

// GetStreamURL handles GET /stream. Returns 404 when never set and 410
// when the stored value is older than the freshness window.
func (c *Controller) GetStreamURL(ctx echo.Context) error {
	endpoint, err := c.Streams.Get()
	if err != nil {
		return c.HandleError(ctx, err, "stream url unavailable")
	}
	return ctx.JSON(http.StatusOK, endpoint)
}
