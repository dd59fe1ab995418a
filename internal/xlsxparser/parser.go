// =============================================================================
// Order Slip Generator - XLSX Export Parser
// =============================================================================
//
// This module parses marketplace order exports downloaded as XLSX workbooks,
// which is how most seller centers (Lazada, Shopee, TikTok) deliver them.
//
// SHEET STRUCTURE (Expected):
//
//   | Column A      | Column B      | Column C   | ... |
//   |---------------|---------------|------------|-----|
//   | Customer Name | Seller SKU    | Unit Price | ... |   <- header row
//   | Ana Cruz      | TEE-BLK-M     | 499.00     | ... |   <- data rows
//
//   The first non-empty row is the header row. Cell values are read as
//   displayed, so dates keep the format the export used.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/order-slip-generator/internal/config"
	"github.com/ginjaninja78/order-slip-generator/internal/types"
)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads an XLSX export and returns the parsed table.
//
// PARAMETERS:
//   - r:        The workbook byte stream.
//   - source:   A display name for error messages and the resulting table.
//   - settings: settings.Sheet selects the worksheet; empty means the first.
//
// RETURNS:
//   - The parsed table.
//   - An error wrapping types.ErrMalformedInput if the workbook cannot be
//     opened or the sheet is missing or empty.
func Parse(r io.Reader, source string, settings config.InputSettings) (*types.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open workbook: %v", types.ErrMalformedInput, err)
	}
	defer f.Close()

	sheetName, err := selectSheet(f, settings.Sheet)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read rows of sheet %q: %v", types.ErrMalformedInput, sheetName, err)
	}

	headerIndex := -1
	for i, row := range rows {
		if !isRowEmpty(row) {
			headerIndex = i
			break
		}
	}
	if headerIndex < 0 {
		return nil, fmt.Errorf("%w: sheet %q is empty", types.ErrMalformedInput, sheetName)
	}

	headers := cleanHeaders(rows[headerIndex])

	table := &types.Table{
		Source:  source,
		Headers: headers,
	}

	for i := headerIndex + 1; i < len(rows); i++ {
		row := rows[i]
		if isRowEmpty(row) {
			continue
		}

		fields := make(map[string]string, len(headers))
		for col, header := range headers {
			if col < len(row) {
				fields[header] = strings.TrimSpace(row[col])
			} else {
				// GetRows trims trailing empty cells.
				fields[header] = ""
			}
		}

		table.Records = append(table.Records, types.Record{Row: i + 1, Fields: fields})
	}

	return table, nil
}

// selectSheet returns the requested sheet, or the first sheet when name is empty.
func selectSheet(f *excelize.File, name string) (string, error) {
	if name == "" {
		first := f.GetSheetName(0)
		if first == "" {
			return "", fmt.Errorf("%w: workbook has no sheets", types.ErrMalformedInput)
		}
		return first, nil
	}

	for _, sheet := range f.GetSheetList() {
		if strings.EqualFold(sheet, name) {
			return sheet, nil
		}
	}
	return "", fmt.Errorf("%w: workbook has no sheet %q", types.ErrMalformedInput, name)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// cleanHeaders trims header values; empty headers get a positional name.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	for i, header := range headers {
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		cleaned[i] = header
	}
	return cleaned
}
