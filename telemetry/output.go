// Package telemetry writes benchmark timing samples to disk as CSV,
// mirroring the original's write_benchmark_results: one header line
// naming the column, then one microsecond sample per line.
package telemetry

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// sample is a single benchmark row, marshaled without its struct tag
// header since callers supply their own header line up front (frame
// times and planet-precompute times use different labels on the same
// shape).
type sample struct {
	Value int64 `csv:"time_microseconds"`
}

// ResultSink writes a named slice of microsecond timing samples to
// <resultsPath>/<filename>. Implementations treat I/O failures as
// non-fatal: log and return an error the caller may choose to ignore,
// the way the original catches filesystem_error around its own writer.
type ResultSink interface {
	Write(resultsPath, filename, header string, samplesMicros []int64) error
}

// CSVSink writes benchmark results as CSV via gocsv, creating
// resultsPath if it does not already exist.
type CSVSink struct {
	Logger *slog.Logger
}

// NewCSVSink returns a CSVSink that logs failures through logger (or the
// default logger if logger is nil).
func NewCSVSink(logger *slog.Logger) *CSVSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVSink{Logger: logger}
}

// Write creates resultsPath/filename and writes header as a literal
// first line followed by one sample per line.
func (s *CSVSink) Write(resultsPath, filename, header string, samplesMicros []int64) error {
	if err := os.MkdirAll(resultsPath, 0o755); err != nil {
		s.Logger.Error("benchmark results: creating results directory", "path", resultsPath, "error", err)
		return err
	}

	full := filepath.Join(resultsPath, filename)
	f, err := os.Create(full)
	if err != nil {
		s.Logger.Error("benchmark results: creating file", "path", full, "error", err)
		return err
	}
	defer f.Close()

	if _, err := f.WriteString(header + "\n"); err != nil {
		s.Logger.Error("benchmark results: writing header", "path", full, "error", err)
		return err
	}

	rows := make([]sample, len(samplesMicros))
	for i, v := range samplesMicros {
		rows[i] = sample{Value: v}
	}
	if err := gocsv.MarshalWithoutHeaders(rows, f); err != nil {
		s.Logger.Error("benchmark results: writing samples", "path", full, "error", err)
		return err
	}

	return nil
}
