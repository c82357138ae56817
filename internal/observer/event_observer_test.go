package observer

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	apperrors "go-image-classifier/internal/errors"
)

type recordingObserver struct {
	name   string
	events []EventType
}

func (r *recordingObserver) OnEvent(ctx context.Context, event ClassificationEvent) {
	r.events = append(r.events, event.EventType)
}

func (r *recordingObserver) GetObserverName() string { return r.name }

type panickingObserver struct{}

func (panickingObserver) OnEvent(ctx context.Context, event ClassificationEvent) { panic("boom") }

func (panickingObserver) GetObserverName() string { return "panicking" }

func TestEventPublisher_SynchronousOrder(t *testing.T) {
	rec := &recordingObserver{name: "rec"}
	p := NewEventPublisher(panickingObserver{}, rec)

	ctx := context.Background()
	for _, et := range []EventType{RunStarted, ImageStarted, ImageClassified, RunCompleted} {
		p.NotifyObservers(ctx, ClassificationEvent{EventType: et})
	}

	want := []EventType{RunStarted, ImageStarted, ImageClassified, RunCompleted}
	if len(rec.events) != len(want) {
		t.Fatalf("Expected %d events delivered before return, got %d", len(want), len(rec.events))
	}
	for i := range want {
		if rec.events[i] != want[i] {
			t.Errorf("Event %d: expected %s, got %s", i, want[i], rec.events[i])
		}
	}
}

func TestEventPublisher_Unsubscribe(t *testing.T) {
	rec := &recordingObserver{name: "rec"}
	p := NewEventPublisher()
	p.Subscribe(rec)
	p.Unsubscribe(&recordingObserver{name: "rec"})

	p.NotifyObservers(context.Background(), ClassificationEvent{EventType: RunStarted})
	if len(rec.events) != 0 {
		t.Errorf("Expected no events after unsubscribe, got %v", rec.events)
	}
}

func TestMetricsObserver(t *testing.T) {
	m := NewMetricsObserver()
	ctx := context.Background()
	m.OnEvent(ctx, ClassificationEvent{EventType: ImageStarted})
	m.OnEvent(ctx, ClassificationEvent{EventType: ImageClassified, ProcessingTime: 2 * time.Second})
	m.OnEvent(ctx, ClassificationEvent{EventType: ImageStarted})
	m.OnEvent(ctx, ClassificationEvent{EventType: ImageFailed, ProcessingTime: 4 * time.Second})

	metrics := m.GetMetrics()
	if metrics["total_images"] != int64(2) {
		t.Errorf("Expected 2 images, got %v", metrics["total_images"])
	}
	if metrics["classified_images"] != int64(1) || metrics["failed_images"] != int64(1) {
		t.Errorf("Unexpected counters: %v", metrics)
	}
	if metrics["avg_processing_time"] != 3.0 {
		t.Errorf("Expected 3s average, got %v", metrics["avg_processing_time"])
	}
}

func TestLoggingObserver_Fields(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	o := NewLoggingObserver(logger)
	o.OnEvent(context.Background(), ClassificationEvent{
		EventType: ImageFailed,
		RunID:     "run-1",
		ImagePath: "/tmp/b.jpg",
		Index:     2,
		Result:    "NaN (n)",
		Err:       apperrors.NewUnparseableError("expected an integer", errors.New("strconv")),
	})

	out := buf.String()
	for _, want := range []string{"level=error", "run_id=run-1", "file=/tmp/b.jpg", "error_type=unparseable", "index=2"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in log output: %s", want, out)
		}
	}
}
