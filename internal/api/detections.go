// internal/api/detections.go
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/faunawatch/faunawatch-go/internal/errors"
	"github.com/faunawatch/faunawatch-go/internal/ingest"
	"github.com/faunawatch/faunawatch-go/internal/model"
)

// initDetectionRoutes registers the detection endpoints.
func (c *Controller) initDetectionRoutes() {
	// Read endpoints are publicly accessible.
	c.Group.GET("/detections", c.ListDetections)
	c.Group.GET("/detections/:id", c.GetDetection)

	// Mutations require the shared secret.
	c.Group.POST("/detections", c.SubmitDetection, c.AuthMiddleware)
	c.Group.DELETE("/detections/:id", c.DeleteDetection, c.AuthMiddleware)
}

// SubmitRequest is the POST /detections payload.
type SubmitRequest struct {
	Timestamp time.Time              `json:"timestamp"`
	Image     string                 `json:"image,omitempty"` // base64
	Objects   []model.DetectedObject `json:"objects"`
	Stats     json.RawMessage        `json:"stats,omitempty"`
}

// SubmitResponse confirms an accepted detection.
type SubmitResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

// PaginatedResponse wraps a detection page.
type PaginatedResponse struct {
	Data   []model.Detection `json:"data"`
	Total  int               `json:"total"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}

// SubmitDetection handles POST /detections.
func (c *Controller) SubmitDetection(ctx echo.Context) error {
	var req SubmitRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx,
			errors.New(err).Component("api").Category(errors.CategoryValidation).Build(),
			"invalid detection payload")
	}

	if req.Timestamp.IsZero() {
		req.Timestamp = time.Now()
	}

	detection, err := c.Pipeline.Submit(&ingest.SubmitRequest{
		Timestamp:   req.Timestamp,
		ImageBase64: req.Image,
		Objects:     req.Objects,
		RawStats:    req.Stats,
	})
	if err != nil {
		return c.HandleError(ctx, err, "failed to ingest detection")
	}

	return ctx.JSON(http.StatusCreated, SubmitResponse{Success: true, ID: detection.ID})
}

// ListDetections handles GET /detections with offset/limit paging.
func (c *Controller) ListDetections(ctx echo.Context) error {
	offset, _ := strconv.Atoi(ctx.QueryParam("offset"))
	limit, _ := strconv.Atoi(ctx.QueryParam("limit"))
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = c.Settings.Retention.DefaultPageLimit
	}

	total, page := c.Detections.List(offset, limit)
	return ctx.JSON(http.StatusOK, PaginatedResponse{
		Data:   page,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

// GetDetection handles GET /detections/:id.
func (c *Controller) GetDetection(ctx echo.Context) error {
	detection, err := c.Detections.Get(ctx.Param("id"))
	if err != nil {
		return c.HandleError(ctx, err, "detection not found")
	}
	return ctx.JSON(http.StatusOK, detection)
}

// DeleteDetection handles DELETE /detections/:id. Snapshot cleanup is
// best effort inside the pipeline.
func (c *Controller) DeleteDetection(ctx echo.Context) error {
	if err := c.Pipeline.DeleteDetection(ctx.Param("id")); err != nil {
		return c.HandleError(ctx, err, "detection not found")
	}
	return ctx.JSON(http.StatusOK, map[string]any{"success": true})
}
