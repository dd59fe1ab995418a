package ingest_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/order-slip-generator/internal/config"
	"github.com/ginjaninja78/order-slip-generator/internal/ingest"
	"github.com/ginjaninja78/order-slip-generator/internal/types"
)

func TestReadTable_DetectsCSV(t *testing.T) {
	tbl, format, err := ingest.ReadTable(strings.NewReader("QTY\n1\n"), "a.csv", config.Default().Input)
	require.NoError(t, err)
	assert.Equal(t, ingest.FormatCSV, format)
	assert.Len(t, tbl.Records, 1)
}

func TestReadTable_DetectsXLSX(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "QTY"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", 4))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	tbl, format, err := ingest.ReadTable(bytes.NewReader(buf.Bytes()), "a.xlsx", config.Default().Input)
	require.NoError(t, err)
	assert.Equal(t, ingest.FormatXLSX, format)
	require.Len(t, tbl.Records, 1)
	assert.Equal(t, "4", tbl.Records[0].Fields["QTY"])
}

func TestReadTable_Empty(t *testing.T) {
	_, _, err := ingest.ReadTable(strings.NewReader(""), "a.csv", config.Default().Input)
	assert.ErrorIs(t, err, types.ErrMalformedInput)
}
