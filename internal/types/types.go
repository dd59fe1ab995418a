// =============================================================================
// Order Slip Generator - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - ingest / csvparser / xlsxparser (Table, Record)
//   - normalizer                      (OrderLine)
//   - converter                       (Order, Batch)
//   - totals                          (BatchTotals)
//   - xlsxwriter                      (everything above)
//
// =============================================================================

package types

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// TABLE TYPES
// =============================================================================

// Table is a parsed marketplace export: a header row plus data records.
type Table struct {
	// Source is a human-readable name of the input (usually the file name).
	Source string

	// Headers contains the column headers in file order.
	Headers []string

	// Records contains the data rows.
	Records []Record
}

// HasColumn reports whether the table carries the named column.
func (t *Table) HasColumn(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// Record is one raw data row of a Table.
type Record struct {
	// Row is the 1-based row number in the original file (header row included).
	// Used for error reporting.
	Row int

	// Fields maps native column name to raw cell text.
	Fields map[string]string
}

// =============================================================================
// ORDER TYPES
// =============================================================================

// OrderLine is one normalized, platform-independent sale line.
// It is created by the normalizer and never modified afterwards.
type OrderLine struct {
	CustomerName  string
	Province      string
	OrderDate     string
	OrderID       string
	SKUDescriptor string
	StyleName     string
	Quantity      int
	UnitPrice     decimal.Decimal

	// SourceRow is the row number of the record this line came from.
	SourceRow int
}

// LineTotal returns Quantity × UnitPrice.
func (l OrderLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// OrderKey identifies an order: one customer on one order date.
type OrderKey struct {
	CustomerName string
	OrderDate    string
}

// Order is the set of lines sharing an OrderKey.
// CustomerName, Province and OrderID are taken from the first line.
type Order struct {
	Key          OrderKey
	CustomerName string
	Province     string
	OrderID      string
	Lines        []OrderLine
}

// Batch is a contiguous page of an order's lines.
type Batch struct {
	// Sequence is the 1-based page number within the order.
	Sequence int

	Lines []OrderLine
}

// BatchTotals are the computed totals of one batch.
type BatchTotals struct {
	// Gross is the tax-inclusive sum of line totals.
	Gross decimal.Decimal

	// Net is the tax-exclusive amount.
	Net decimal.Decimal

	// Tax is the VAT component of Gross.
	Tax decimal.Decimal

	// PieceCount is the sum of line quantities.
	PieceCount int
}
