// Package ingest orchestrates the detection ingestion pipeline: snapshot
// persistence, detection storage, stats accounting, priority classification,
// alert creation and the realtime broadcasts that follow each mutation.
package ingest

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/faunawatch/faunawatch-go/internal/classifier"
	"github.com/faunawatch/faunawatch-go/internal/datastore"
	"github.com/faunawatch/faunawatch-go/internal/errors"
	"github.com/faunawatch/faunawatch-go/internal/imagestore"
	"github.com/faunawatch/faunawatch-go/internal/logging"
	"github.com/faunawatch/faunawatch-go/internal/model"
	"github.com/faunawatch/faunawatch-go/internal/observability"
	"github.com/faunawatch/faunawatch-go/internal/realtime"
	"github.com/faunawatch/faunawatch-go/internal/stats"
	"github.com/faunawatch/faunawatch-go/internal/streamregistry"
)

// SubmitRequest carries one detection event reported by the edge device.
type SubmitRequest struct {
	// Timestamp is the event time at the source.
	Timestamp time.Time
	// ImageBase64 is the optional base64-encoded snapshot payload.
	ImageBase64 string
	// Objects is the ordered list of detected objects.
	Objects []model.DetectedObject
	// RawStats is forwarded opaquely to dashboard clients.
	RawStats json.RawMessage
}

// Pipeline wires the stores, the classifier and the publisher into a single
// mutation stream. The mutex serializes mutations and their broadcasts so
// no event is ever delivered out of order relative to the state change that
// produced it. Snapshot writes happen before the critical section: a
// detection is never inserted referencing a blob that has not finished
// writing, and a blob failure aborts the whole submission with no partial
// state.
type Pipeline struct {
	mu         sync.Mutex
	detections datastore.DetectionStore
	alerts     datastore.AlertStore
	aggregator *stats.Aggregator
	classifier *classifier.Classifier
	images     *imagestore.Store
	streams    *streamregistry.Registry
	publisher  *realtime.Publisher
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// New creates the pipeline from its collaborators.
func New(
	detections datastore.DetectionStore,
	alerts datastore.AlertStore,
	aggregator *stats.Aggregator,
	cls *classifier.Classifier,
	images *imagestore.Store,
	streams *streamregistry.Registry,
	publisher *realtime.Publisher,
	metrics *observability.Metrics,
) *Pipeline {
	return &Pipeline{
		detections: detections,
		alerts:     alerts,
		aggregator: aggregator,
		classifier: cls,
		images:     images,
		streams:    streams,
		publisher:  publisher,
		metrics:    metrics,
		logger:     logging.ForService("ingest"),
	}
}

// Submit runs one detection through the full pipeline and returns the
// stored record. Internal failures abort the submission entirely: no
// detection is recorded, no stats update occurs, no broadcast is sent.
func (p *Pipeline) Submit(req *SubmitRequest) (*model.Detection, error) {
	imageURL := ""
	if req.ImageBase64 != "" {
		data, err := base64.StdEncoding.DecodeString(req.ImageBase64)
		if err != nil {
			return nil, errors.New(err).
				Component("ingest").
				Category(errors.CategoryValidation).
				Context("field", "image").
				Build()
		}
		imageURL, err = p.images.Save(data)
		if err != nil {
			p.metrics.IngestFailures.Inc()
			return nil, err
		}
	}

	detection := &model.Detection{
		Timestamp: req.Timestamp,
		ImageURL:  imageURL,
		Objects:   req.Objects,
		RawStats:  req.RawStats,
		Priority:  p.classifier.Classify(req.Objects),
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	id, err := p.detections.Insert(detection)
	if err != nil {
		p.metrics.IngestFailures.Inc()
		p.images.Remove(imageURL)
		return nil, err
	}

	p.aggregator.RecordDetection(detection.Objects)
	p.metrics.DetectionsIngested.Inc()

	var alert *model.Alert
	if detection.Priority == model.PriorityHigh {
		alert = &model.Alert{
			Message:   alertMessage(p.classifier.PriorityNames(detection.Objects)),
			Detection: *detection,
		}
		if _, err := p.alerts.Insert(alert); err != nil {
			// The detection itself is durable at this point, keep it.
			p.logger.Error("failed to store alert", "detection_id", id, "error", err)
			alert = nil
		} else {
			p.metrics.AlertsRaised.Inc()
		}
	}

	p.publisher.Broadcast(realtime.EventNewDetection, detection)
	if alert != nil {
		p.publisher.Broadcast(realtime.EventNewAlert, alert)
	}

	p.logger.Info("detection ingested",
		"id", id,
		"objects", len(detection.Objects),
		"priority", detection.Priority,
		"has_image", imageURL != "")

	return detection, nil
}

// DeleteDetection removes a detection and best-effort cleans up its
// snapshot. The stats ledger is deliberately left untouched.
func (p *Pipeline) DeleteDetection(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	detection, err := p.detections.Delete(id)
	if err != nil {
		return err
	}

	p.images.Remove(detection.ImageURL)
	p.logger.Info("detection deleted", "id", id)
	return nil
}

// AcknowledgeAlert marks an alert acknowledged and broadcasts the updated
// record. Re-acknowledging is idempotent and still broadcasts.
func (p *Pipeline) AcknowledgeAlert(id string) (*model.Alert, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	alert, err := p.alerts.Acknowledge(id)
	if err != nil {
		return nil, err
	}

	p.metrics.AlertsAcknowledged.Inc()
	p.publisher.Broadcast(realtime.EventAlertAcknowledged, alert)
	return alert, nil
}

// SetStreamURL validates and stores the reported stream endpoint, then
// broadcasts the update.
func (p *Pipeline) SetStreamURL(url string) (*model.StreamEndpoint, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	endpoint, err := p.streams.Set(url)
	if err != nil {
		return nil, err
	}

	p.metrics.StreamURLUpdates.Inc()
	p.publisher.Broadcast(realtime.EventStreamURLUpdated, endpoint)
	return endpoint, nil
}

// alertMessage builds the human-readable alert summary from the names of
// the triggering objects.
func alertMessage(names []string) string {
	if len(names) == 0 {
		return "High priority detection"
	}
	return "High priority detection: " + strings.Join(names, ", ")
}
