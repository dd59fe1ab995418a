// =============================================================================
// Order Slip Generator - Slip Layout
// =============================================================================
//
// This module describes where every value of a rendered slip lives. The
// default geometry reproduces the printed packing slip used by the warehouse:
//
//   | Element            | Address                          |
//   |--------------------|----------------------------------|
//   | Customer name      | D9                               |
//   | Province           | D11                              |
//   | Render date        | K11                              |
//   | Order id           | I13:J13 (merged)                 |
//   | Platform label     | K13:L13 (merged)                 |
//   | Line rows          | 15 .. 24 (10 rows)               |
//   |   descriptor       | C:D (merged per row)             |
//   |   style name       | E:G (merged per row)             |
//   |   qty/price/total  | H / I / J                        |
//   | Filler             | "-" in J for each unused row     |
//   | Net                | F at totals row + 0              |
//   | Gross              | F at totals row + 2              |
//   | Tax                | F at totals row + 3              |
//   | Pieces / "P" / gross echo | H / I / J at totals row + 4 |
//
//   The totals row is the row after the last filler row, which is always
//   first_row + rows because batches never exceed the line capacity.
//
// A layout can be overridden from YAML; keys not present keep the default.
//
// =============================================================================

package xlsxwriter

import (
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/order-slip-generator/internal/types"
)

// =============================================================================
// LAYOUT STRUCTURES
// =============================================================================

// Layout is the immutable geometry of one slip sheet.
type Layout struct {
	// Sheet is the worksheet that receives all values.
	Sheet string `yaml:"sheet"`

	Header HeaderCells  `yaml:"header"`
	Lines  LineRegion   `yaml:"lines"`
	Totals TotalsRegion `yaml:"totals"`

	// DateFormat is a Go time layout for the render date.
	DateFormat string `yaml:"date_format"`

	// MoneyFormat is the Excel number format applied to money cells.
	MoneyFormat string `yaml:"money_format"`

	// FillerMark is written in the line total column of unused line rows.
	FillerMark string `yaml:"filler_mark"`

	// UnitMarker is printed next to the piece count.
	UnitMarker string `yaml:"unit_marker"`

	// ColumnWidths and RowHeights are applied when no template workbook is
	// used.
	ColumnWidths map[string]float64 `yaml:"column_widths"`
	RowHeights   map[int]float64    `yaml:"row_heights"`
}

// HeaderCells holds the order header addresses. OrderID and PlatformLabel
// are ranges ("I13:J13") that are merged before writing.
type HeaderCells struct {
	CustomerName  string `yaml:"customer_name"`
	Province      string `yaml:"province"`
	Date          string `yaml:"date"`
	OrderID       string `yaml:"order_id"`
	PlatformLabel string `yaml:"platform_label"`
}

// LineRegion describes the repeated line rows. Column spans use "C:D" for a
// merged span or "H" for a single column.
type LineRegion struct {
	FirstRow   int    `yaml:"first_row"`
	Rows       int    `yaml:"rows"`
	Descriptor string `yaml:"descriptor"`
	StyleName  string `yaml:"style_name"`
	Quantity   string `yaml:"quantity"`
	UnitPrice  string `yaml:"unit_price"`
	LineTotal  string `yaml:"line_total"`
}

// TotalsRegion places each total relative to the totals row.
type TotalsRegion struct {
	Net        CellOffset `yaml:"net"`
	Gross      CellOffset `yaml:"gross"`
	Tax        CellOffset `yaml:"tax"`
	Pieces     CellOffset `yaml:"pieces"`
	UnitMarker CellOffset `yaml:"unit_marker"`
	GrossEcho  CellOffset `yaml:"gross_echo"`
}

// CellOffset is a column plus a row offset from the totals row.
type CellOffset struct {
	Column string `yaml:"column"`
	Offset int    `yaml:"offset"`
}

// Cell returns the address of the offset relative to baseRow.
func (o CellOffset) Cell(baseRow int) string {
	return o.Column + fmt.Sprint(baseRow+o.Offset)
}

// =============================================================================
// DEFAULT LAYOUT
// =============================================================================

// DefaultLayout returns the geometry of the standard packing slip.
func DefaultLayout() *Layout {
	return &Layout{
		Sheet: "Sheet1",
		Header: HeaderCells{
			CustomerName:  "D9",
			Province:      "D11",
			Date:          "K11",
			OrderID:       "I13:J13",
			PlatformLabel: "K13:L13",
		},
		Lines: LineRegion{
			FirstRow:   15,
			Rows:       10,
			Descriptor: "C:D",
			StyleName:  "E:G",
			Quantity:   "H",
			UnitPrice:  "I",
			LineTotal:  "J",
		},
		Totals: TotalsRegion{
			Net:        CellOffset{Column: "F", Offset: 0},
			Gross:      CellOffset{Column: "F", Offset: 2},
			Tax:        CellOffset{Column: "F", Offset: 3},
			Pieces:     CellOffset{Column: "H", Offset: 4},
			UnitMarker: CellOffset{Column: "I", Offset: 4},
			GrossEcho:  CellOffset{Column: "J", Offset: 4},
		},
		DateFormat:  "January 02, 2006",
		MoneyFormat: "#,##0.00",
		FillerMark:  "-",
		UnitMarker:  "P",
		ColumnWidths: map[string]float64{
			"A": 2.83, "B": 6.66, "C": 8.33, "D": 16.83, "E": 7.16, "F": 16.5,
			"G": 11.66, "H": 20.83, "I": 16.66, "J": 14.16, "K": 18.33, "L": 6.5,
		},
		RowHeights: map[int]float64{
			1: 11.45, 2: 11.45, 3: 11.45, 4: 11.45, 5: 14.25, 6: 11.45,
			7: 11.45, 8: 13.5, 9: 15.0, 10: 4.5, 11: 12.0, 12: 17.25,
			13: 21.75, 16: 12.75, 17: 11.25, 18: 11.25, 19: 11.25,
			20: 11.25, 21: 11.25, 22: 11.25, 23: 11.25, 24: 11.25,
			25: 11.25, 26: 11.25, 27: 9.0, 28: 10.5, 29: 10.5, 30: 10.5,
			31: 10.5, 32: 10.5, 33: 10.5, 34: 10.5, 35: 9.75, 36: 7.5,
			37: 12.0, 38: 15.0, 39: 18.75, 40: 30.0,
		},
	}
}

// LoadLayout reads a YAML override on top of DefaultLayout and validates it.
//
// PARAMETERS:
//   - path: The path to the layout YAML file.
//
// RETURNS:
//   - The merged layout.
//   - An error if the file cannot be read, parsed, or fails validation.
func LoadLayout(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read layout file: %w", err)
	}

	layout := DefaultLayout()
	if err := yaml.Unmarshal(data, layout); err != nil {
		return nil, fmt.Errorf("failed to parse layout file %s: %w", path, err)
	}

	if err := layout.Validate(); err != nil {
		return nil, err
	}
	return layout, nil
}

// TotalsRow returns the first row of the totals block.
func (l *Layout) TotalsRow() int {
	return l.Lines.FirstRow + l.Lines.Rows
}

// =============================================================================
// LAYOUT VALIDATION
// =============================================================================

// Validate checks every address in the layout. The first problem found is
// returned as a *types.LayoutError.
func (l *Layout) Validate() error {
	if strings.TrimSpace(l.Sheet) == "" {
		return &types.LayoutError{Element: "sheet", Reason: "sheet name is empty"}
	}

	cells := []struct{ element, address string }{
		{"header.customer_name", l.Header.CustomerName},
		{"header.province", l.Header.Province},
		{"header.date", l.Header.Date},
	}
	for _, c := range cells {
		if err := checkCell(c.element, c.address); err != nil {
			return err
		}
	}

	ranges := []struct{ element, address string }{
		{"header.order_id", l.Header.OrderID},
		{"header.platform_label", l.Header.PlatformLabel},
	}
	for _, r := range ranges {
		if _, _, err := splitRange(r.element, r.address); err != nil {
			return err
		}
	}

	if l.Lines.FirstRow < 1 {
		return &types.LayoutError{Element: "lines.first_row", Address: fmt.Sprint(l.Lines.FirstRow), Reason: "row must be at least 1"}
	}
	if l.Lines.Rows < 1 {
		return &types.LayoutError{Element: "lines.rows", Address: fmt.Sprint(l.Lines.Rows), Reason: "line capacity must be at least 1"}
	}

	spans := []struct{ element, address string }{
		{"lines.descriptor", l.Lines.Descriptor},
		{"lines.style_name", l.Lines.StyleName},
		{"lines.quantity", l.Lines.Quantity},
		{"lines.unit_price", l.Lines.UnitPrice},
		{"lines.line_total", l.Lines.LineTotal},
	}
	for _, s := range spans {
		if _, _, err := splitSpan(s.element, s.address); err != nil {
			return err
		}
	}

	offsets := []struct {
		element string
		offset  CellOffset
	}{
		{"totals.net", l.Totals.Net},
		{"totals.gross", l.Totals.Gross},
		{"totals.tax", l.Totals.Tax},
		{"totals.pieces", l.Totals.Pieces},
		{"totals.unit_marker", l.Totals.UnitMarker},
		{"totals.gross_echo", l.Totals.GrossEcho},
	}
	for _, o := range offsets {
		if o.offset.Offset < 0 {
			return &types.LayoutError{Element: o.element, Address: fmt.Sprint(o.offset.Offset), Reason: "offset must not be negative"}
		}
		if err := checkColumn(o.element, o.offset.Column); err != nil {
			return err
		}
	}

	for col := range l.ColumnWidths {
		if err := checkColumn("column_widths", col); err != nil {
			return err
		}
	}
	for row := range l.RowHeights {
		if row < 1 || row > excelize.TotalRows {
			return &types.LayoutError{Element: "row_heights", Address: fmt.Sprint(row), Reason: "row out of range"}
		}
	}

	return nil
}

// =============================================================================
// ADDRESS HELPERS
// =============================================================================

func checkCell(element, address string) error {
	if _, _, err := excelize.CellNameToCoordinates(address); err != nil {
		return &types.LayoutError{Element: element, Address: address, Reason: err.Error()}
	}
	return nil
}

func checkColumn(element, column string) error {
	if _, err := excelize.ColumnNameToNumber(column); err != nil {
		return &types.LayoutError{Element: element, Address: column, Reason: err.Error()}
	}
	return nil
}

// splitRange splits "I13:J13" into its corner cells.
func splitRange(element, address string) (string, string, error) {
	from, to, ok := strings.Cut(address, ":")
	if !ok {
		to = from
	}
	if err := checkCell(element, from); err != nil {
		return "", "", err
	}
	if err := checkCell(element, to); err != nil {
		return "", "", err
	}
	return from, to, nil
}

// splitSpan splits a column span "C:D" into its first and last column.
func splitSpan(element, address string) (string, string, error) {
	from, to, ok := strings.Cut(address, ":")
	if !ok {
		to = from
	}
	if err := checkColumn(element, from); err != nil {
		return "", "", err
	}
	if err := checkColumn(element, to); err != nil {
		return "", "", err
	}
	return from, to, nil
}
