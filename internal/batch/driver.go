// Package batch drives sequential classification of a single image or a folder of images.
package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go-image-classifier/internal/observer"
	"go-image-classifier/internal/repository"
	"go-image-classifier/internal/service"
	"go-image-classifier/internal/sink"
	"go-image-classifier/internal/strategy"
	"go-image-classifier/pkg/models"
)

// Driver processes images one at a time and writes one row per image.
// A failing image never stops the run; only sink and folder listing failures are returned.
type Driver struct {
	service service.ClassificationService
	repo    repository.ImageRepository
	sink    sink.ResultSink
	events  observer.Subject
	options service.ClassificationOptions
	now     func() time.Time
}

// NewDriver wires a driver; events may be nil.
func NewDriver(
	svc service.ClassificationService,
	repo repository.ImageRepository,
	resultSink sink.ResultSink,
	events observer.Subject,
	options service.ClassificationOptions,
) *Driver {
	if events == nil {
		events = observer.NewEventPublisher()
	}
	return &Driver{
		service: svc,
		repo:    repo,
		sink:    resultSink,
		events:  events,
		options: options,
		now:     time.Now,
	}
}

type run struct {
	report *models.RunReport
	id     string
}

func (d *Driver) startRun(ctx context.Context, target string) *run {
	id := models.NewRunID()
	r := &run{
		report: &models.RunReport{RunID: id, StartedAt: d.now()},
		id:     id.String(),
	}
	d.events.NotifyObservers(ctx, observer.ClassificationEvent{
		EventType: observer.RunStarted,
		RunID:     r.id,
		ImagePath: target,
		Metadata: map[string]interface{}{
			"model": d.service.Model(),
			"mode":  strategy.ForMode(d.options.Binary).GetStrategyName(),
		},
	})
	return r
}

// RunFile classifies exactly one path; no extension check is applied.
func (d *Driver) RunFile(ctx context.Context, path string) (*models.RunReport, error) {
	r := d.startRun(ctx, path)
	if err := d.processFile(ctx, r, 1, path); err != nil {
		return r.report, err
	}
	return d.finishRun(ctx, r)
}

// RunFolder classifies every matching image directly inside dir, in sorted path order.
// A folder without matches is not an error; the summary row is still written.
func (d *Driver) RunFolder(ctx context.Context, dir string) (*models.RunReport, error) {
	r := d.startRun(ctx, dir)

	paths, err := d.repo.ListImages(ctx, dir)
	if err != nil {
		return r.report, err
	}
	if len(paths) == 0 {
		d.events.NotifyObservers(ctx, observer.ClassificationEvent{
			EventType: observer.NoImagesFound,
			RunID:     r.id,
			ImagePath: dir,
		})
		return d.finishRun(ctx, r)
	}

	for i, path := range paths {
		if err := d.processFile(ctx, r, i+1, path); err != nil {
			return r.report, err
		}
	}
	return d.finishRun(ctx, r)
}

// processFile times a single image from just before it is read until its row is built.
func (d *Driver) processFile(ctx context.Context, r *run, index int, path string) error {
	start := d.now()
	d.events.NotifyObservers(ctx, observer.ClassificationEvent{
		EventType: observer.ImageStarted,
		RunID:     r.id,
		Index:     index,
		ImagePath: path,
	})

	value := d.service.ClassifyFrom(ctx, d.repo, path, d.options)
	result := models.ClassificationResult{
		Filename: filepath.Base(path),
		Value:    value,
		Elapsed:  d.now().Sub(start),
	}

	r.report.Processed++
	eventType := observer.ImageClassified
	if value.Failed() {
		r.report.Failed++
		eventType = observer.ImageFailed
	}
	d.events.NotifyObservers(ctx, observer.ClassificationEvent{
		EventType:      eventType,
		RunID:          r.id,
		Index:          index,
		ImagePath:      path,
		ProcessingTime: result.Elapsed,
		Result:         value.String(),
		Err:            value.Err,
	})

	if err := d.sink.WriteResult(result); err != nil {
		return fmt.Errorf("record result for %s: %w", path, err)
	}
	return nil
}

func (d *Driver) finishRun(ctx context.Context, r *run) (*models.RunReport, error) {
	r.report.Summary = models.RunSummary{
		Model:   d.service.Model(),
		Elapsed: d.now().Sub(r.report.StartedAt),
	}
	if err := d.sink.WriteSummary(r.report.Summary); err != nil {
		return r.report, fmt.Errorf("record run summary: %w", err)
	}
	d.events.NotifyObservers(ctx, observer.ClassificationEvent{
		EventType:      observer.RunCompleted,
		RunID:          r.id,
		ProcessingTime: r.report.Summary.Elapsed,
		Metadata: map[string]interface{}{
			"processed": r.report.Processed,
			"failed":    r.report.Failed,
		},
	})
	return r.report, nil
}
