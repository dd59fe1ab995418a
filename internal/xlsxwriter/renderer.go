// =============================================================================
// Order Slip Generator - XLSX Renderer
// =============================================================================
//
// This module writes one batch of an order into a slip workbook and returns
// the serialized bytes.
//
// RENDERING STEPS:
//   1. Open a fresh workbook (from the template bytes, or blank)
//   2. Write the order header and merge the order id / platform regions
//   3. Write one row per line, merging descriptor and style spans
//   4. Mark every unused line row with the filler mark
//   5. Write the totals block below the line region
//   6. Serialize to bytes and close the workbook
//
// Renderer holds no per-render state; every call starts from its own
// workbook instance.
//
// =============================================================================

package xlsxwriter

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/order-slip-generator/internal/types"
)

// =============================================================================
// RENDER INPUT AND OUTPUT
// =============================================================================

// OrderHeader carries the order-level values printed on every batch.
type OrderHeader struct {
	Key           types.OrderKey
	CustomerName  string
	Province      string
	OrderID       string
	PlatformLabel string
}

// HeaderFor builds the header of an order for the given platform label.
func HeaderFor(o types.Order, platformLabel string) OrderHeader {
	return OrderHeader{
		Key:           o.Key,
		CustomerName:  o.CustomerName,
		Province:      o.Province,
		OrderID:       o.OrderID,
		PlatformLabel: platformLabel,
	}
}

// Document is one rendered workbook. Its bytes never change after Render.
type Document struct {
	// Header is the order the document was rendered for.
	Header OrderHeader

	// Sequence is the batch number within the order.
	Sequence int

	data []byte
}

// Bytes returns a copy of the serialized workbook.
func (d *Document) Bytes() []byte {
	return bytes.Clone(d.data)
}

// Size returns the serialized length in bytes.
func (d *Document) Size() int {
	return len(d.data)
}

// =============================================================================
// RENDERER
// =============================================================================

// Options configures a Renderer.
type Options struct {
	// Now supplies the render date. Defaults to time.Now.
	Now func() time.Time
}

// Renderer renders batches into a layout.
type Renderer struct {
	layout   *Layout
	template []byte
	now      func() time.Time
}

// NewRenderer validates the layout and, when given, the template workbook.
//
// PARAMETERS:
//   - layout: The slip geometry. Nil uses DefaultLayout.
//   - template: Optional XLSX bytes used as the base of every render.
//   - opts: Renderer options.
//
// RETURNS:
//   - A ready Renderer.
//   - A LayoutError if an address is invalid or the template lacks the
//     layout's sheet.
func NewRenderer(layout *Layout, template []byte, opts Options) (*Renderer, error) {
	if layout == nil {
		layout = DefaultLayout()
	}
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	r := &Renderer{
		layout:   layout,
		template: bytes.Clone(template),
		now:      opts.Now,
	}
	if r.now == nil {
		r.now = time.Now
	}

	// Fail at construction rather than on the first batch.
	if len(r.template) > 0 {
		f, err := r.open()
		if err != nil {
			return nil, err
		}
		f.Close()
	}

	return r, nil
}

// Layout returns the renderer's geometry.
func (r *Renderer) Layout() *Layout {
	return r.layout
}

// Render writes one batch and returns the serialized document.
func (r *Renderer) Render(h OrderHeader, b types.Batch, t types.BatchTotals) (*Document, error) {
	l := r.layout
	if len(b.Lines) > l.Lines.Rows {
		return nil, &types.LayoutError{
			Element: "lines.rows",
			Address: fmt.Sprint(l.Lines.Rows),
			Reason:  fmt.Sprintf("batch %d has %d lines", b.Sequence, len(b.Lines)),
		}
	}

	f, err := r.open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	money, err := f.NewStyle(&excelize.Style{CustomNumFmt: &l.MoneyFormat})
	if err != nil {
		return nil, fmt.Errorf("failed to create money style: %w", err)
	}

	w := &sheetWriter{f: f, sheet: l.Sheet, money: money}

	// =========================================================================
	// HEADER
	// =========================================================================

	w.text(l.Header.CustomerName, h.CustomerName)
	w.text(l.Header.Province, h.Province)
	w.text(l.Header.Date, r.now().Format(l.DateFormat))
	w.mergedText(l.Header.OrderID, h.OrderID)
	w.mergedText(l.Header.PlatformLabel, h.PlatformLabel)

	// =========================================================================
	// LINES AND FILLER
	// =========================================================================

	descFrom, descTo, _ := splitSpan("lines.descriptor", l.Lines.Descriptor)
	styleFrom, styleTo, _ := splitSpan("lines.style_name", l.Lines.StyleName)
	qtyCol, _, _ := splitSpan("lines.quantity", l.Lines.Quantity)
	priceCol, _, _ := splitSpan("lines.unit_price", l.Lines.UnitPrice)
	totalCol, _, _ := splitSpan("lines.line_total", l.Lines.LineTotal)

	row := l.Lines.FirstRow
	for _, line := range b.Lines {
		w.mergedText(spanRange(descFrom, descTo, row), line.SKUDescriptor)
		w.mergedText(spanRange(styleFrom, styleTo, row), line.StyleName)
		w.value(cell(qtyCol, row), line.Quantity)
		w.amount(cell(priceCol, row), line.UnitPrice.InexactFloat64())
		w.amount(cell(totalCol, row), line.LineTotal().InexactFloat64())
		row++
	}
	for ; row < l.TotalsRow(); row++ {
		w.text(cell(totalCol, row), l.FillerMark)
	}

	// =========================================================================
	// TOTALS
	// =========================================================================

	base := l.TotalsRow()
	w.amount(l.Totals.Net.Cell(base), t.Net.InexactFloat64())
	w.amount(l.Totals.Gross.Cell(base), t.Gross.InexactFloat64())
	w.amount(l.Totals.Tax.Cell(base), t.Tax.InexactFloat64())
	w.value(l.Totals.Pieces.Cell(base), t.PieceCount)
	w.text(l.Totals.UnitMarker.Cell(base), l.UnitMarker)
	w.amount(l.Totals.GrossEcho.Cell(base), t.Gross.InexactFloat64())

	if w.err != nil {
		return nil, w.err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}

	return &Document{Header: h, Sequence: b.Sequence, data: buf.Bytes()}, nil
}

// open returns a new workbook instance with the layout sheet present.
func (r *Renderer) open() (*excelize.File, error) {
	if len(r.template) > 0 {
		f, err := excelize.OpenReader(bytes.NewReader(r.template))
		if err != nil {
			return nil, fmt.Errorf("failed to open template workbook: %w", err)
		}
		if idx, err := f.GetSheetIndex(r.layout.Sheet); err != nil || idx < 0 {
			f.Close()
			return nil, &types.LayoutError{Element: "sheet", Address: r.layout.Sheet, Reason: "sheet not found in template"}
		}
		return f, nil
	}

	f := excelize.NewFile()
	if r.layout.Sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", r.layout.Sheet); err != nil {
			f.Close()
			return nil, &types.LayoutError{Element: "sheet", Address: r.layout.Sheet, Reason: err.Error()}
		}
	}
	if err := r.applySizing(f); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// applySizing sets column widths and row heights in a stable order.
func (r *Renderer) applySizing(f *excelize.File) error {
	cols := make([]string, 0, len(r.layout.ColumnWidths))
	for col := range r.layout.ColumnWidths {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	for _, col := range cols {
		if err := f.SetColWidth(r.layout.Sheet, col, col, r.layout.ColumnWidths[col]); err != nil {
			return fmt.Errorf("failed to set width of column %s: %w", col, err)
		}
	}

	rows := make([]int, 0, len(r.layout.RowHeights))
	for row := range r.layout.RowHeights {
		rows = append(rows, row)
	}
	sort.Ints(rows)
	for _, row := range rows {
		if err := f.SetRowHeight(r.layout.Sheet, row, r.layout.RowHeights[row]); err != nil {
			return fmt.Errorf("failed to set height of row %d: %w", row, err)
		}
	}
	return nil
}

// =============================================================================
// CELL WRITING HELPERS
// =============================================================================

// sheetWriter keeps the first write error so the render body stays linear.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	money int
	err   error
}

func (w *sheetWriter) value(address string, v any) {
	if w.err != nil {
		return
	}
	if err := w.f.SetCellValue(w.sheet, address, v); err != nil {
		w.err = &types.LayoutError{Element: "cell", Address: address, Reason: err.Error()}
	}
}

func (w *sheetWriter) text(address, s string) {
	if s == "" {
		return
	}
	w.value(address, s)
}

func (w *sheetWriter) amount(address string, v float64) {
	w.value(address, v)
	if w.err != nil {
		return
	}
	if err := w.f.SetCellStyle(w.sheet, address, address, w.money); err != nil {
		w.err = fmt.Errorf("failed to style %s: %w", address, err)
	}
}

// mergedText merges a range like "I13:J13" and writes into its top-left cell.
func (w *sheetWriter) mergedText(address, s string) {
	if w.err != nil {
		return
	}
	from, to, err := splitRange("merge", address)
	if err != nil {
		w.err = err
		return
	}
	if from != to {
		if err := w.f.MergeCell(w.sheet, from, to); err != nil {
			w.err = &types.LayoutError{Element: "merge", Address: address, Reason: err.Error()}
			return
		}
	}
	w.text(from, s)
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func spanRange(from, to string, row int) string {
	if from == to {
		return cell(from, row)
	}
	return cell(from, row) + ":" + cell(to, row)
}
