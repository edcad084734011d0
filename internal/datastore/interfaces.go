// Package datastore provides the bounded, ordered in-memory stores backing
// the ingestion pipeline. Records are held newest-first with a hard cap;
// exceeding the cap evicts the oldest records. Nothing here persists across
// restarts, by design.
package datastore

import (
	"time"

	"github.com/faunawatch/faunawatch-go/internal/errors"
	"github.com/faunawatch/faunawatch-go/internal/model"
)

// Sentinel errors for store lookups.
var (
	ErrDetectionNotFound = errors.Newf("detection not found").Component("datastore").Category(errors.CategoryNotFound).Build()
	ErrAlertNotFound     = errors.Newf("alert not found").Component("datastore").Category(errors.CategoryNotFound).Build()
)

// DetectionStore is the contract for the bounded detection collection.
type DetectionStore interface {
	// Insert assigns an ID, prepends the record and trims to the cap.
	// It returns the assigned ID.
	Insert(d *model.Detection) (string, error)
	// List returns the total current count and the page [offset, offset+limit).
	// Out-of-range offsets yield an empty page, not an error.
	List(offset, limit int) (total int, page []model.Detection)
	// Get returns the detection with the given ID or ErrDetectionNotFound.
	Get(id string) (*model.Detection, error)
	// Delete removes the detection with the given ID or returns
	// ErrDetectionNotFound. It never touches the associated snapshot;
	// blob cleanup is the caller's concern.
	Delete(id string) (*model.Detection, error)
	// Len returns the current record count.
	Len() int
	// CountSince returns how many stored detections have a timestamp at or
	// after the given cutoff.
	CountSince(cutoff time.Time) int
}

// AlertStore is the contract for the bounded alert collection. Alerts are
// independent of detection lifetime: deleting a detection never removes
// its alert.
type AlertStore interface {
	// Insert assigns an ID, prepends the alert and trims to the cap.
	Insert(a *model.Alert) (string, error)
	// List returns alerts newest-first, optionally restricted to
	// unacknowledged ones, along with the matching total.
	List(unacknowledgedOnly bool) (total int, page []model.Alert)
	// Acknowledge marks the alert acknowledged and returns the updated
	// record. Re-acknowledging is idempotent; unknown IDs return
	// ErrAlertNotFound.
	Acknowledge(id string) (*model.Alert, error)
	// ActiveCount returns the number of unacknowledged alerts.
	ActiveCount() int
}
