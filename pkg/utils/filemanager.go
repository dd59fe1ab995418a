// =============================================================================
// Order Slip Generator - File Manager Utility
// =============================================================================
//
// This module provides the small file helpers shared by the CLI and the
// output sinks:
//   - Directory management
//   - Run ids and per-run output directories
//   - File existence checks
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectory creates dir and its parents if they don't exist.
func EnsureDirectory(dir string) error {
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// =============================================================================
// RUN IDENTIFIERS
// =============================================================================

// NewRunID returns a fresh identifier for one processing run.
func NewRunID() string {
	return uuid.New().String()
}

// RunOutputDir returns the directory a run writes into.
//
// PARAMETERS:
//   - baseDir: The configured output directory.
//   - runID: The id of the current run.
//   - perRun: When true each run gets its own subdirectory.
//
// RETURNS:
//   - baseDir, or baseDir/runID when perRun is set.
//
// EXAMPLE:
//
//	RunOutputDir("./orders_output", "1b4e28ba-2fa1-11d2-883f-0016d3cca427", true)
//	// ./orders_output/1b4e28ba-2fa1-11d2-883f-0016d3cca427
func RunOutputDir(baseDir, runID string, perRun bool) string {
	if !perRun {
		return baseDir
	}
	return filepath.Join(baseDir, runID)
}

// =============================================================================
// FILE UTILITIES
// =============================================================================

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
