// Package model defines the core domain records shared by the ingestion
// pipeline: detections reported by the field camera, alerts derived from
// them, running statistics and the rotating stream endpoint.
package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Priority represents the classification outcome for a detection.
type Priority string

const (
	// PriorityNormal indicates a routine detection.
	PriorityNormal Priority = "normal"
	// PriorityHigh indicates a detection that must raise an alert.
	PriorityHigh Priority = "high"
)

// CategoryOther is the sentinel category used when a detected object
// carries no category label.
const CategoryOther = "other"

// DetectedObject is a single object reported within a detection event.
// The core only interprets Name, NameEN and Category; everything else is
// carried through untouched for dashboard clients.
type DetectedObject struct {
	// Name is the object label in the device's local language.
	Name string `json:"name"`
	// NameEN is the secondary (English) label, optional.
	NameEN string `json:"name_en,omitempty"`
	// Category groups objects for statistics; empty means CategoryOther.
	Category string `json:"category,omitempty"`
	// Confidence is the detector's confidence score, optional.
	Confidence float64 `json:"confidence,omitempty"`
}

// CategoryLabel returns the category used for statistics aggregation.
func (o *DetectedObject) CategoryLabel() string {
	if o.Category == "" {
		return CategoryOther
	}
	return o.Category
}

// Detection is one reported sensing event.
type Detection struct {
	// ID is assigned at insertion time and never reused.
	ID string `json:"id"`
	// Timestamp is the event time at the source, caller supplied.
	Timestamp time.Time `json:"timestamp"`
	// ImageURL references the stored snapshot, empty if none was sent.
	ImageURL string `json:"image_url,omitempty"`
	// Objects is the ordered list of detected objects.
	Objects []DetectedObject `json:"objects"`
	// RawStats is an opaque payload forwarded from the source.
	RawStats json.RawMessage `json:"raw_stats,omitempty"`
	// Priority is computed once at insertion and immutable thereafter.
	Priority Priority `json:"priority"`
}

// Alert is raised for every high priority detection. The triggering
// detection is embedded so consumers can render the alert standalone.
type Alert struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Message      string    `json:"message"`
	Detection    Detection `json:"detection"`
	Acknowledged bool      `json:"acknowledged"`
}

// Stats is the process lifetime aggregate of accepted detections. It is an
// append-only ledger: deleting a detection never adjusts these counters.
type Stats struct {
	TotalDetections int64            `json:"total_detections"`
	ByCategory      map[string]int64 `json:"by_category"`
	LastUpdate      time.Time        `json:"last_update"`
}

// StreamEndpoint is the current externally reported video stream URL.
type StreamEndpoint struct {
	URL        string    `json:"url"`
	LastUpdate time.Time `json:"last_update"`
}

// NewID returns a unique, time-ordered identifier. The unix millisecond
// prefix keeps IDs roughly sortable by creation time while the UUID
// fragment guarantees uniqueness within the same millisecond.
func NewID(now time.Time) string {
	return fmt.Sprintf("%d-%s", now.UnixMilli(), uuid.NewString()[:8])
}
