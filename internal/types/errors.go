// =============================================================================
// Order Slip Generator - Error Taxonomy
// =============================================================================
//
// Every failure in a run is fail-fast and maps to one of the sentinels below.
// Callers test with errors.Is; the context types carry the platform, field,
// row or layout address needed to correct the source file.
//
// =============================================================================

package types

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownPlatform is returned when a platform id is not registered.
	ErrUnknownPlatform = errors.New("unknown platform")

	// ErrMalformedInput is returned when the input cannot be parsed as a table
	// or lacks a column the active schema requires.
	ErrMalformedInput = errors.New("malformed input")

	// ErrInvalidQuantity is returned when a quantity cell is not a
	// non-negative integer.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrInvalidPrice is returned when a unit price cell is not a
	// non-negative decimal.
	ErrInvalidPrice = errors.New("invalid price")

	// ErrLayoutAddress is returned when the layout lacks an address the
	// renderer needs.
	ErrLayoutAddress = errors.New("layout address error")
)

// RecordError describes a coercion failure on one input record.
type RecordError struct {
	Platform string
	Field    string
	Column   string
	Row      int
	Value    string
	Err      error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s: platform %s, row %d, field %s (column %q): value %q",
		e.Err, e.Platform, e.Row, e.Field, e.Column, e.Value)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// LayoutError describes a missing or unusable layout address.
type LayoutError struct {
	// Element names the layout slot, e.g. "header.customer_name".
	Element string

	// Address is the offending value, empty when missing.
	Address string

	// Reason is optional extra detail.
	Reason string
}

func (e *LayoutError) Error() string {
	msg := fmt.Sprintf("%s: %s", ErrLayoutAddress, e.Element)
	if e.Address != "" {
		msg += fmt.Sprintf(" (%q)", e.Address)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *LayoutError) Unwrap() error {
	return ErrLayoutAddress
}
