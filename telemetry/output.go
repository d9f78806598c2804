package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// OutputManager writes the tile-generation timing log to disk as CSV. A nil
// receiver (from an empty dir) makes every write a no-op, so callers can
// construct one unconditionally regardless of whether timing output is
// enabled.
type OutputManager struct {
	dir          string
	timingFile   *os.File
	headerWritten bool
}

// NewOutputManager opens dir/timing.csv. Passing an empty dir disables
// output entirely.
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("telemetry: create output dir: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, "timing.csv"))
	if err != nil {
		return nil, fmt.Errorf("telemetry: create timing.csv: %w", err)
	}
	return &OutputManager{dir: dir, timingFile: f}, nil
}

// WriteTiming appends one tile's timing record to timing.csv.
func (om *OutputManager) WriteTiming(rec TimingRecord) error {
	if om == nil {
		return nil
	}
	records := []TimingRecord{rec}
	if !om.headerWritten {
		if err := gocsv.Marshal(records, om.timingFile); err != nil {
			return fmt.Errorf("telemetry: write timing record: %w", err)
		}
		om.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.timingFile); err != nil {
		return fmt.Errorf("telemetry: write timing record: %w", err)
	}
	return nil
}

// Dir returns the output directory, or "" if output is disabled.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes the timing file.
func (om *OutputManager) Close() error {
	if om == nil || om.timingFile == nil {
		return nil
	}
	return om.timingFile.Close()
}
