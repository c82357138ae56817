package strategy

import (
	"go-image-classifier/internal/interpreter"
	"go-image-classifier/pkg/models"
)

// AnswerStrategy turns a raw model answer into the value recorded for an image
type AnswerStrategy interface {
	Interpret(raw string) models.ResultValue
	GetStrategyName() string
}

// BinaryStrategy expects an integer answer such as 1 or 0
type BinaryStrategy struct{}

// NewBinaryStrategy creates a new binary answer strategy
func NewBinaryStrategy() AnswerStrategy {
	return &BinaryStrategy{}
}

// Interpret parses the trimmed answer as an integer
func (s *BinaryStrategy) Interpret(raw string) models.ResultValue {
	return interpreter.Interpret(raw, true)
}

// GetStrategyName returns the strategy name
func (s *BinaryStrategy) GetStrategyName() string {
	return "binary"
}

// TextStrategy keeps the trimmed answer as free text
type TextStrategy struct{}

// NewTextStrategy creates a new text answer strategy
func NewTextStrategy() AnswerStrategy {
	return &TextStrategy{}
}

// Interpret returns the trimmed answer
func (s *TextStrategy) Interpret(raw string) models.ResultValue {
	return interpreter.Interpret(raw, false)
}

// GetStrategyName returns the strategy name
func (s *TextStrategy) GetStrategyName() string {
	return "text"
}

// ForMode picks the strategy for binary or text mode
func ForMode(binary bool) AnswerStrategy {
	if binary {
		return NewBinaryStrategy()
	}
	return NewTextStrategy()
}
