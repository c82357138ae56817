// Package sink writes classification rows to an append-only CSV file.
package sink

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"go-image-classifier/pkg/models"
)

// Header is written at the start of every run, even when the file already holds earlier runs.
var Header = []string{"filename", "modelEval", "time"}

// ResultSink receives one row per classified image and a closing summary
type ResultSink interface {
	WriteResult(result models.ClassificationResult) error
	WriteSummary(summary models.RunSummary) error
}

// CSVSink writes rows through encoding/csv, flushing after each one.
type CSVSink struct {
	w      *csv.Writer
	closer io.Closer
	path   string
}

// Open opens path for appending (creating it if needed) and writes the header row.
func Open(path string) (*CSVSink, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open results file: %w", err)
	}
	s := NewCSVSink(file, file)
	s.path = path
	if err := s.writeRow(Header); err != nil {
		_ = file.Close()
		return nil, err
	}
	return s, nil
}

// NewCSVSink wraps an arbitrary writer; closer may be nil. No header is written.
// Rows end in CRLF so appended runs match files written by other csv tools.
func NewCSVSink(w io.Writer, closer io.Closer) *CSVSink {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	return &CSVSink{w: cw, closer: closer}
}

// Path returns the file the sink was opened on, if any
func (s *CSVSink) Path() string {
	return s.path
}

// WriteResult appends {filename, modelEval, time}. Absent values become an empty field.
func (s *CSVSink) WriteResult(result models.ClassificationResult) error {
	return s.writeRow([]string{
		result.Filename,
		result.Value.String(),
		formatSeconds(result.Elapsed),
	})
}

// WriteSummary appends the two-column {model, total time} row.
func (s *CSVSink) WriteSummary(summary models.RunSummary) error {
	return s.writeRow([]string{summary.Model, formatSeconds(summary.Elapsed)})
}

// Close flushes pending rows and closes the underlying file.
func (s *CSVSink) Close() error {
	s.w.Flush()
	err := s.w.Error()
	if s.closer != nil {
		if cerr := s.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func (s *CSVSink) writeRow(record []string) error {
	if err := s.w.Write(record); err != nil {
		return fmt.Errorf("write results row: %w", err)
	}
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		return fmt.Errorf("flush results row: %w", err)
	}
	return nil
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}
