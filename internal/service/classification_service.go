package service

import (
	"context"

	"go-image-classifier/internal/classifier"
	"go-image-classifier/internal/encoder"
	"go-image-classifier/internal/repository"
	"go-image-classifier/internal/strategy"
	"go-image-classifier/pkg/models"
)

// ClassificationService runs the per-image pipeline: encode, classify, interpret.
// Failures never escape as errors; they become absent or unparseable values.
type ClassificationService interface {
	// ClassifyImage classifies an image already in memory
	ClassifyImage(ctx context.Context, record *models.ImageRecord, options ClassificationOptions) models.ResultValue

	// ClassifyFrom loads ref from repo first; a load failure yields an absent value
	ClassifyFrom(ctx context.Context, repo repository.ImageRepository, ref string, options ClassificationOptions) models.ResultValue

	// Model returns the model identifier recorded in the summary row
	Model() string
}

type classificationService struct {
	classifier classifier.Classifier
}

// NewClassificationService creates a new classification service
func NewClassificationService(c classifier.Classifier) ClassificationService {
	return &classificationService{
		classifier: c,
	}
}

func (s *classificationService) ClassifyImage(ctx context.Context, record *models.ImageRecord, options ClassificationOptions) models.ResultValue {
	answer, err := s.classifier.Classify(ctx, encoder.DataURL(record.Data), options.Prompt)
	if err != nil {
		return models.AbsentValue(err)
	}
	return strategy.ForMode(options.Binary).Interpret(answer)
}

func (s *classificationService) ClassifyFrom(ctx context.Context, repo repository.ImageRepository, ref string, options ClassificationOptions) models.ResultValue {
	record, err := repo.ReadImage(ctx, ref)
	if err != nil {
		return models.AbsentValue(err)
	}
	return s.ClassifyImage(ctx, record, options)
}

func (s *classificationService) Model() string {
	return s.classifier.Model()
}
