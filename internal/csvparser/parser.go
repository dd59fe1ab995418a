// =============================================================================
// Order Slip Generator - CSV Parser Module
// =============================================================================
//
// This module parses marketplace order exports saved as CSV. It handles:
//   - Different delimiters (comma, semicolon, pipe, tab)
//   - Non-UTF-8 encodings (Windows-1252 and friends, common in older exports)
//   - A UTF-8 byte order mark on the header row
//   - Quoted fields and ragged rows
//
// The first row is the header row; every following non-empty row becomes a
// types.Record keyed by header name.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"

	"github.com/ginjaninja78/order-slip-generator/internal/config"
	"github.com/ginjaninja78/order-slip-generator/internal/types"
)

const utf8BOM = "\ufeff"

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a CSV export and returns the parsed table.
//
// PARAMETERS:
//   - r:        The CSV byte stream.
//   - source:   A display name for error messages and the resulting table.
//   - settings: Delimiter and encoding settings.
//
// RETURNS:
//   - The parsed table.
//   - An error wrapping types.ErrMalformedInput if the stream is not valid CSV
//     or has no header row.
func Parse(r io.Reader, source string, settings config.InputSettings) (*types.Table, error) {
	reader, err := decodingReader(r, settings.Encoding)
	if err != nil {
		return nil, err
	}

	csvReader := csv.NewReader(bufio.NewReader(reader))
	configureReader(csvReader, settings)

	header, err := csvReader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: CSV file is empty", types.ErrMalformedInput)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read CSV header: %v", types.ErrMalformedInput, err)
	}

	headers := cleanHeaders(header)

	table := &types.Table{
		Source:  source,
		Headers: headers,
	}

	for {
		row, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read CSV: %v", types.ErrMalformedInput, err)
		}
		if isRowEmpty(row) {
			continue
		}

		// The reader skips blank lines, so take the row number from the
		// reader rather than counting records.
		line, _ := csvReader.FieldPos(0)
		table.Records = append(table.Records, toRecord(headers, row, line))
	}

	return table, nil
}

// decodingReader wraps r with a decoder for the configured encoding.
func decodingReader(r io.Reader, encoding string) (io.Reader, error) {
	name := strings.ToLower(strings.TrimSpace(encoding))
	if name == "" || name == "utf-8" || name == "utf8" {
		return r, nil
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unsupported input encoding %q: %w", encoding, err)
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings config.InputSettings) {
	switch settings.Delimiter {
	case "\\t", "\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		if len(settings.Delimiter) > 0 {
			reader.Comma = rune(settings.Delimiter[0])
		} else {
			reader.Comma = ','
		}
	}

	// Exports are frequently ragged at the end of rows.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
}

// cleanHeaders trims header values and removes a leading byte order mark.
// Empty headers get a positional placeholder name.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))

	for i, header := range headers {
		if i == 0 {
			header = strings.TrimPrefix(header, utf8BOM)
		}
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		cleaned[i] = header
	}

	return cleaned
}

// toRecord converts a raw row into a Record. Missing trailing cells are
// recorded as empty strings.
func toRecord(headers, row []string, rowNumber int) types.Record {
	fields := make(map[string]string, len(headers))
	for col, header := range headers {
		if col < len(row) {
			fields[header] = strings.TrimSpace(row[col])
		} else {
			fields[header] = ""
		}
	}
	return types.Record{Row: rowNumber, Fields: fields}
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
