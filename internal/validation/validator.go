// =============================================================================
// Order Slip Generator - Validation Engine
// =============================================================================
//
// This module checks a parsed export against the active platform schema
// before any row is normalized:
//   - Every mapped column without a default must be present in the header
//   - The export must contain at least one data row
//
// VALIDATION STRATEGY:
//   All column problems are collected first so the uploader sees the complete
//   list in one message, then reported as a single MalformedInput error.
//   Row-level coercion (quantity, price) is the normalizer's job and fails
//   fast on the first bad row.
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/order-slip-generator/internal/schema"
	"github.com/ginjaninja78/order-slip-generator/internal/types"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError represents a single header problem.
type ValidationError struct {
	// Field is the canonical field whose column is missing.
	Field schema.Field

	// Column is the native column name the schema expects.
	Column string

	// Message is a human-readable error message.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("field %s: %s", e.Field, e.Message)
}

// ValidationResult contains the results of validating one table.
type ValidationResult struct {
	// IsValid is true if there are no errors.
	IsValid bool

	// Errors contains all validation errors.
	Errors []*ValidationError

	// DefaultedFields lists nullable fields whose mapped column is missing
	// and will take their default value.
	DefaultedFields []schema.Field
}

// =============================================================================
// MAIN VALIDATION FUNCTIONS
// =============================================================================

// Validate checks the table against the schema and returns an error wrapping
// types.ErrMalformedInput if any required column is missing or the table
// has no data rows.
func Validate(tbl *types.Table, s *schema.PlatformSchema) error {
	result := ValidateHeaders(tbl, s)
	if !result.IsValid {
		return fmt.Errorf("%w: %s (platform %s): %s",
			types.ErrMalformedInput, tbl.Source, s.ID, FormatErrors(result.Errors))
	}

	if len(tbl.Records) == 0 {
		return fmt.Errorf("%w: %s has no data rows", types.ErrMalformedInput, tbl.Source)
	}

	return nil
}

// ValidateHeaders compares the table header with the schema's mapped columns.
func ValidateHeaders(tbl *types.Table, s *schema.PlatformSchema) *ValidationResult {
	result := &ValidationResult{IsValid: true}

	for _, f := range schema.Fields {
		col, mapped := s.Column(f)
		if !mapped || tbl.HasColumn(col) {
			continue
		}

		if schema.Nullable(f) {
			result.DefaultedFields = append(result.DefaultedFields, f)
			continue
		}

		result.IsValid = false
		result.Errors = append(result.Errors, &ValidationError{
			Field:   f,
			Column:  col,
			Message: fmt.Sprintf("required column %q not found", col),
		})
	}

	return result
}

// =============================================================================
// ERROR FORMATTING
// =============================================================================

// FormatErrors joins validation errors into one line.
func FormatErrors(errors []*ValidationError) string {
	if len(errors) == 0 {
		return "no validation errors"
	}

	parts := make([]string, len(errors))
	for i, err := range errors {
		parts[i] = err.Error()
	}
	return strings.Join(parts, "; ")
}
