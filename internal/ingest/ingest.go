// Package ingest turns an uploaded order export into a types.Table,
// dispatching to the CSV or XLSX parser by content.
package ingest

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/ginjaninja78/order-slip-generator/internal/config"
	"github.com/ginjaninja78/order-slip-generator/internal/csvparser"
	"github.com/ginjaninja78/order-slip-generator/internal/types"
	"github.com/ginjaninja78/order-slip-generator/internal/xlsxparser"
)

// zipMagic opens every XLSX (OOXML) file.
var zipMagic = []byte("PK\x03\x04")

// Format is the detected input format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ReadTable parses an export stream. XLSX is detected by its zip signature;
// anything else is read as CSV.
func ReadTable(r io.Reader, source string, settings config.InputSettings) (*types.Table, Format, error) {
	br := bufio.NewReader(r)

	head, err := br.Peek(len(zipMagic))
	if err != nil && err != io.EOF {
		return nil, "", fmt.Errorf("%w: failed to read input: %v", types.ErrMalformedInput, err)
	}
	if len(head) == 0 {
		return nil, "", fmt.Errorf("%w: input %s is empty", types.ErrMalformedInput, source)
	}

	if bytes.Equal(head, zipMagic) {
		tbl, err := xlsxparser.Parse(br, source, settings)
		return tbl, FormatXLSX, err
	}

	tbl, err := csvparser.Parse(br, source, settings)
	return tbl, FormatCSV, err
}
