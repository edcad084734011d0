// internal/api/sse.go
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// heartbeatInterval keeps intermediaries from closing idle SSE streams.
const heartbeatInterval = 30 * time.Second

// initSSERoutes registers the realtime event stream.
func (c *Controller) initSSERoutes() {
	c.Group.GET("/events", c.StreamEvents)
	c.Group.GET("/events/status", c.GetSSEStatus)
}

// StreamEvents handles the SSE connection for dashboard clients. Every new
// connection is seeded with the current stats snapshot before any live
// events are delivered.
func (c *Controller) StreamEvents(ctx echo.Context) error {
	ctx.Response().Header().Set("Content-Type", "text/event-stream")
	ctx.Response().Header().Set("Cache-Control", "no-cache")
	ctx.Response().Header().Set("Connection", "keep-alive")

	clientID := generateCorrelationID()

	events, subCtx := c.Publisher.Subscribe()
	defer c.Publisher.Unsubscribe(events)

	c.Metrics.SSEClients.Inc()
	defer c.Metrics.SSEClients.Dec()

	c.apiLogger.Info("SSE client connected",
		"client_id", clientID,
		"ip", ctx.RealIP())
	defer c.apiLogger.Info("SSE client disconnected", "client_id", clientID)

	if err := c.sendSSEMessage(ctx, "connected", map[string]any{
		"client_id": clientID,
		"timestamp": time.Now().Unix(),
	}); err != nil {
		return err
	}

	// Seed the subscriber with current stats before any broadcast.
	if err := c.sendSSEMessage(ctx, "stats", c.Aggregator.Snapshot()); err != nil {
		return err
	}

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case event := <-events:
			if err := c.sendSSEMessage(ctx, event.Name, event.Payload); err != nil {
				c.apiLogger.Debug("SSE send failed, client likely disconnected",
					"client_id", clientID,
					"error", err.Error())
				return nil
			}

		case <-ticker.C:
			if err := c.sendSSEMessage(ctx, "heartbeat", map[string]any{
				"timestamp": time.Now().Unix(),
				"clients":   c.Publisher.SubscriberCount(),
			}); err != nil {
				return nil
			}

		case <-subCtx.Done():
			// Publisher shut down.
			return nil

		case <-ctx.Request().Context().Done():
			// Client went away.
			return nil
		}
	}
}

// sendSSEMessage writes one event to the response and flushes it. A write
// deadline protects the mutation-independent SSE goroutine from hanging on
// a dead connection.
func (c *Controller) sendSSEMessage(ctx echo.Context, event string, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal SSE data: %w", err)
	}

	if conn, ok := ctx.Response().Writer.(interface{ SetWriteDeadline(time.Time) error }); ok {
		if err := conn.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
			c.apiLogger.Debug("failed to set SSE write deadline", "error", err.Error())
		}
	}

	if _, err := fmt.Fprintf(ctx.Response(), "event: %s\ndata: %s\n\n", event, jsonData); err != nil {
		return fmt.Errorf("failed to write SSE message: %w", err)
	}

	if flusher, ok := ctx.Response().Writer.(http.Flusher); ok {
		flusher.Flush()
	}
	return nil
}

// GetSSEStatus reports the number of connected realtime clients.
func (c *Controller) GetSSEStatus(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]any{
		"connected_clients": c.Publisher.SubscriberCount(),
		"status":            "active",
	})
}
