package models

import "math/big"

// ClassificationRequest asks the API to classify the image at URL
type ClassificationRequest struct {
	URL    string `json:"url" binding:"required"`
	Prompt string `json:"prompt,omitempty"`
	// Binary defaults to true when omitted
	Binary *bool `json:"binary,omitempty"`
}

// ClassificationResponse mirrors one results-file row plus request metadata
type ClassificationResponse struct {
	ID          string     `json:"id"`
	Filename    string     `json:"filename"`
	Model       string     `json:"model"`
	Kind        ResultKind `json:"kind"`
	ModelEval   string     `json:"model_eval"`
	Integer     *big.Int   `json:"integer,omitempty"`
	TimeSeconds float64    `json:"time_sec"`
	Error       string     `json:"error,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// NewClassificationResponse converts a result row into its API form
func NewClassificationResponse(id, model string, result ClassificationResult) ClassificationResponse {
	resp := ClassificationResponse{
		ID:          id,
		Filename:    result.Filename,
		Model:       model,
		Kind:        result.Value.Kind,
		ModelEval:   result.Value.String(),
		TimeSeconds: result.ElapsedSeconds(),
	}
	if result.Value.Kind == ResultInteger {
		resp.Integer = result.Value.Integer
	}
	if result.Value.Err != nil {
		resp.Error = result.Value.Err.Error()
	}
	return resp
}
