package models

import (
	"math/big"
	"time"

	"github.com/google/uuid"
)

// ResultKind discriminates the outcome of classifying one image
type ResultKind string

const (
	// ResultAbsent means no answer was obtained (file or remote failure)
	ResultAbsent ResultKind = "absent"
	// ResultInteger is a binary-mode answer that parsed as an integer
	ResultInteger ResultKind = "integer"
	// ResultText is the raw trimmed answer when binary mode is off
	ResultText ResultKind = "text"
	// ResultUnparseable is a binary-mode answer that did not parse
	ResultUnparseable ResultKind = "unparseable"
)

// ResultValue is the value recorded in the modelEval column.
type ResultValue struct {
	Kind ResultKind
	// Integer is unbounded; answers outside the int64 range are kept exactly.
	Integer *big.Int
	// Text holds the raw answer for ResultText and the diagnostic marker for ResultUnparseable.
	Text string
	Err  error
}

// AbsentValue records a failure that produced no answer.
func AbsentValue(err error) ResultValue {
	return ResultValue{Kind: ResultAbsent, Err: err}
}

// IntegerValue records a parsed binary-mode answer.
func IntegerValue(n *big.Int) ResultValue {
	return ResultValue{Kind: ResultInteger, Integer: n}
}

// TextValue records a free-text answer.
func TextValue(text string) ResultValue {
	return ResultValue{Kind: ResultText, Text: text}
}

// UnparseableValue records a diagnostic marker in place of a number.
func UnparseableValue(marker string, err error) ResultValue {
	return ResultValue{Kind: ResultUnparseable, Text: marker, Err: err}
}

// String renders the value as it is written to the results file.
// Absent values render as an empty field.
func (v ResultValue) String() string {
	switch v.Kind {
	case ResultInteger:
		if v.Integer == nil {
			return ""
		}
		return v.Integer.String()
	case ResultText, ResultUnparseable:
		return v.Text
	default:
		return ""
	}
}

// Failed reports whether the value stands in for a missing or unusable answer.
func (v ResultValue) Failed() bool {
	return v.Kind == ResultAbsent || v.Kind == ResultUnparseable
}

// ImageRecord is an image read from disk or downloaded, before encoding.
type ImageRecord struct {
	Path string
	Data []byte
}

// ClassificationResult is one row of the results file.
type ClassificationResult struct {
	Filename string
	Value    ResultValue
	Elapsed  time.Duration
}

// ElapsedSeconds returns the elapsed time as fractional seconds
func (r ClassificationResult) ElapsedSeconds() float64 {
	return r.Elapsed.Seconds()
}

// RunSummary is the trailing row written after every run.
type RunSummary struct {
	Model   string
	Elapsed time.Duration
}

// RunReport describes a finished batch run.
type RunReport struct {
	RunID     uuid.UUID
	StartedAt time.Time
	Processed int
	Failed    int
	Summary   RunSummary
}

// NewRunID returns a fresh identifier for a batch run or API request
func NewRunID() uuid.UUID {
	return uuid.New()
}
