package observer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	apperrors "go-image-classifier/internal/errors"
)

// ClassificationEvent represents a step of a classification run
type ClassificationEvent struct {
	EventType      EventType              `json:"event_type"`
	Timestamp      time.Time              `json:"timestamp"`
	RunID          string                 `json:"run_id,omitempty"`
	Index          int                    `json:"index,omitempty"`
	ImagePath      string                 `json:"image_path,omitempty"`
	ProcessingTime time.Duration          `json:"processing_time"`
	Result         string                 `json:"result,omitempty"`
	Err            error                  `json:"-"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// EventType represents the type of classification event
type EventType string

const (
	RunStarted      EventType = "run_started"
	NoImagesFound   EventType = "no_images_found"
	ImageStarted    EventType = "image_started"
	ImageClassified EventType = "image_classified"
	// ImageFailed is published when the image got an absent or unparseable value
	ImageFailed  EventType = "image_failed"
	RunCompleted EventType = "run_completed"
)

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event ClassificationEvent)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event ClassificationEvent)
}

// LoggingObserver logs classification events
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *logrus.Logger) Observer {
	return &LoggingObserver{
		logger: logger,
	}
}

// OnEvent handles classification events by logging them
func (o *LoggingObserver) OnEvent(ctx context.Context, event ClassificationEvent) {
	fields := logrus.Fields{
		"event_type": event.EventType,
	}
	if event.RunID != "" {
		fields["run_id"] = event.RunID
	}
	if event.ImagePath != "" {
		fields["file"] = event.ImagePath
	}
	if event.Index > 0 {
		fields["index"] = event.Index
	}
	for k, v := range event.Metadata {
		fields[k] = v
	}
	entry := o.logger.WithFields(fields)

	switch event.EventType {
	case RunStarted:
		entry.Info("Classification run started")
	case NoImagesFound:
		entry.Warn("No matching image files found in the folder")
	case ImageStarted:
		entry.Debug("Image processing")
	case ImageClassified:
		entry.WithFields(logrus.Fields{
			"result":     event.Result,
			"time_spent": event.ProcessingTime.Seconds(),
		}).Info("Image classified")
	case ImageFailed:
		entry.WithError(event.Err).WithFields(logrus.Fields{
			"result":     event.Result,
			"error_type": apperrors.TypeOf(event.Err),
			"time_spent": event.ProcessingTime.Seconds(),
		}).Error("Image processing error")
	case RunCompleted:
		entry.WithField("time_spent", event.ProcessingTime.Seconds()).Info("All files processed")
	}
}

// GetObserverName returns the observer name
func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// MetricsObserver collects counters from classification events
type MetricsObserver struct {
	mu                  sync.RWMutex
	totalImages         int64
	classifiedImages    int64
	failedImages        int64
	totalProcessingTime time.Duration
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{}
}

// OnEvent handles classification events by collecting metrics
func (o *MetricsObserver) OnEvent(ctx context.Context, event ClassificationEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch event.EventType {
	case ImageStarted:
		o.totalImages++
	case ImageClassified:
		o.classifiedImages++
		o.totalProcessingTime += event.ProcessingTime
	case ImageFailed:
		o.failedImages++
		o.totalProcessingTime += event.ProcessingTime
	}
}

// GetObserverName returns the observer name
func (o *MetricsObserver) GetObserverName() string {
	return "metrics_observer"
}

// GetMetrics returns current metrics
func (o *MetricsObserver) GetMetrics() map[string]interface{} {
	o.mu.RLock()
	defer o.mu.RUnlock()

	avgProcessingTime := time.Duration(0)
	if done := o.classifiedImages + o.failedImages; done > 0 {
		avgProcessingTime = o.totalProcessingTime / time.Duration(done)
	}

	return map[string]interface{}{
		"total_images":          o.totalImages,
		"classified_images":     o.classifiedImages,
		"failed_images":         o.failedImages,
		"total_processing_time": o.totalProcessingTime.Seconds(),
		"avg_processing_time":   avgProcessingTime.Seconds(),
	}
}

// EventPublisher implements the Subject interface
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(observers ...Observer) *EventPublisher {
	return &EventPublisher{
		observers: append(make([]Observer, 0, len(observers)), observers...),
	}
}

// Subscribe adds an observer
func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// Unsubscribe removes an observer
func (p *EventPublisher) Unsubscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, obs := range p.observers {
		if obs.GetObserverName() == observer.GetObserverName() {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			break
		}
	}
}

// NotifyObservers delivers the event to every observer in subscription order
// before returning, so progress output follows processing order.
func (p *EventPublisher) NotifyObservers(ctx context.Context, event ClassificationEvent) {
	p.mu.RLock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	for _, observer := range observers {
		notify(ctx, observer, event)
	}
}

func notify(ctx context.Context, obs Observer, event ClassificationEvent) {
	defer func() {
		if r := recover(); r != nil {
			// Log panic but don't crash the run
			logrus.WithField("observer", obs.GetObserverName()).
				WithField("panic", r).
				Error("Observer panicked while handling event")
		}
	}()
	obs.OnEvent(ctx, event)
}
