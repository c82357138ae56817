package container

import (
	"fmt"
	"net/http"

	"go-image-classifier/internal/batch"
	"go-image-classifier/internal/classifier"
	"go-image-classifier/internal/config"
	"go-image-classifier/internal/factory"
	"go-image-classifier/internal/logger"
	"go-image-classifier/internal/observer"
	"go-image-classifier/internal/repository"
	"go-image-classifier/internal/service"
	"go-image-classifier/internal/sink"
	"go-image-classifier/internal/storage"
	"go-image-classifier/internal/transport"
)

// Container holds all application dependencies
type Container struct {
	config                *config.Config
	classifier            classifier.Classifier
	classificationService service.ClassificationService
	localRepository       repository.ImageRepository
	remoteRepository      repository.ImageRepository
	events                *observer.EventPublisher
	metrics               *observer.MetricsObserver
	uploader              storage.ResultUploader
	handler               http.Handler
}

// NewContainer builds the dependency graph shared by the CLI and the HTTP API
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	cls := classifier.NewOpenAIClassifier(classifier.Config{
		BaseURL:   cfg.BaseURL,
		APIKey:    cfg.APIKey,
		Model:     cfg.Model,
		MaxTokens: cfg.MaxTokens,
		Timeout:   cfg.ClassifyTimeout,
	})
	classificationService := service.NewClassificationService(cls)

	components := factory.NewComponentFactory(cfg)
	localRepository, err := components.RepositoryFactory.CreateRepository(factory.LocalSource)
	if err != nil {
		return nil, err
	}
	remoteRepository, err := components.RepositoryFactory.CreateRepository(factory.HTTPSource)
	if err != nil {
		return nil, err
	}

	metrics := observer.NewMetricsObserver()
	events := observer.NewEventPublisher(
		observer.NewLoggingObserver(logger.Logger),
		metrics,
	)

	var uploader storage.ResultUploader
	if cfg.UploadEnabled() {
		uploader, err = components.UploaderFactory.CreateUploader(factory.AzureUploader)
		if err != nil {
			return nil, err
		}
	}

	handler := transport.NewHandler(classificationService, remoteRepository, events, metrics, cfg)

	return &Container{
		config:                cfg,
		classifier:            cls,
		classificationService: classificationService,
		localRepository:       localRepository,
		remoteRepository:      remoteRepository,
		events:                events,
		metrics:               metrics,
		uploader:              uploader,
		handler:               handler,
	}, nil
}

// NewDriver returns a batch driver reading local files and writing to resultSink
func (c *Container) NewDriver(resultSink sink.ResultSink, options service.ClassificationOptions) *batch.Driver {
	return batch.NewDriver(c.classificationService, c.localRepository, resultSink, c.events, options)
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Uploader returns the result uploader, or nil when blob storage is not configured
func (c *Container) Uploader() storage.ResultUploader {
	return c.uploader
}

// Metrics returns the metrics observer shared by every run
func (c *Container) Metrics() *observer.MetricsObserver {
	return c.metrics
}
