package xlsxwriter_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/order-slip-generator/internal/totals"
	"github.com/ginjaninja78/order-slip-generator/internal/types"
	"github.com/ginjaninja78/order-slip-generator/internal/xlsxwriter"
)

var fixedNow = func() time.Time { return time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC) }

func lines(n int, price string) []types.OrderLine {
	out := make([]types.OrderLine, n)
	for i := range out {
		out[i] = types.OrderLine{
			CustomerName:  "Ana Cruz",
			SKUDescriptor: fmt.Sprintf("JD%03d-BLK-M", i+1),
			StyleName:     fmt.Sprintf("Style %d", i+1),
			Quantity:      1,
			UnitPrice:     decimal.RequireFromString(price),
		}
	}
	return out
}

func header() xlsxwriter.OrderHeader {
	return xlsxwriter.OrderHeader{
		Key:           types.OrderKey{CustomerName: "Ana Cruz", OrderDate: "2025-03-03"},
		CustomerName:  "Ana Cruz",
		Province:      "Cebu",
		OrderID:       "SO-1001",
		PlatformLabel: "JDO",
	}
}

func render(t *testing.T, r *xlsxwriter.Renderer, b types.Batch) *excelize.File {
	t.Helper()
	doc, err := r.Render(header(), b, totals.Compute(b))
	require.NoError(t, err)
	require.Positive(t, doc.Size())

	f, err := excelize.OpenReader(bytes.NewReader(doc.Bytes()))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func raw(t *testing.T, f *excelize.File, address string) string {
	t.Helper()
	v, err := f.GetCellValue("Sheet1", address, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	return v
}

func TestRender_FullBatch(t *testing.T) {
	r, err := xlsxwriter.NewRenderer(nil, nil, xlsxwriter.Options{Now: fixedNow})
	require.NoError(t, err)

	f := render(t, r, types.Batch{Sequence: 1, Lines: lines(10, "100")})

	assert.Equal(t, "Ana Cruz", raw(t, f, "D9"))
	assert.Equal(t, "Cebu", raw(t, f, "D11"))
	assert.Equal(t, "March 03, 2025", raw(t, f, "K11"))
	assert.Equal(t, "SO-1001", raw(t, f, "I13"))
	assert.Equal(t, "JDO", raw(t, f, "K13"))

	assert.Equal(t, "JD001-BLK-M", raw(t, f, "C15"))
	assert.Equal(t, "Style 1", raw(t, f, "E15"))
	assert.Equal(t, "1", raw(t, f, "H15"))
	assert.Equal(t, "100", raw(t, f, "I15"))
	assert.Equal(t, "100", raw(t, f, "J15"))
	assert.Equal(t, "JD010-BLK-M", raw(t, f, "C24"))

	// No filler when the batch fills the page.
	for row := 15; row <= 24; row++ {
		assert.NotEqual(t, "-", raw(t, f, fmt.Sprintf("J%d", row)))
	}

	assert.Equal(t, "892.86", raw(t, f, "F25"))
	assert.Equal(t, "1000", raw(t, f, "F27"))
	assert.Equal(t, "107.14", raw(t, f, "F28"))
	assert.Equal(t, "10", raw(t, f, "H29"))
	assert.Equal(t, "P", raw(t, f, "I29"))
	assert.Equal(t, "1000", raw(t, f, "J29"))
}

func TestRender_PartialBatchFiller(t *testing.T) {
	r, err := xlsxwriter.NewRenderer(nil, nil, xlsxwriter.Options{Now: fixedNow})
	require.NoError(t, err)

	f := render(t, r, types.Batch{Sequence: 2, Lines: lines(2, "100")})

	assert.Equal(t, "100", raw(t, f, "J15"))
	assert.Equal(t, "100", raw(t, f, "J16"))

	dashes := 0
	for row := 15; row <= 24; row++ {
		if raw(t, f, fmt.Sprintf("J%d", row)) == "-" {
			dashes++
		}
	}
	assert.Equal(t, 8, dashes)
	assert.Empty(t, raw(t, f, "C17"))

	assert.Equal(t, "178.57", raw(t, f, "F25"))
	assert.Equal(t, "200", raw(t, f, "F27"))
	assert.Equal(t, "21.43", raw(t, f, "F28"))
	assert.Equal(t, "2", raw(t, f, "H29"))
	assert.Equal(t, "200", raw(t, f, "J29"))
}

func TestRender_MergedRegions(t *testing.T) {
	r, err := xlsxwriter.NewRenderer(nil, nil, xlsxwriter.Options{Now: fixedNow})
	require.NoError(t, err)

	f := render(t, r, types.Batch{Sequence: 1, Lines: lines(1, "50")})

	merges, err := f.GetMergeCells("Sheet1")
	require.NoError(t, err)

	got := map[string]bool{}
	for _, m := range merges {
		got[m.GetStartAxis()+":"+m.GetEndAxis()] = true
	}
	assert.True(t, got["I13:J13"], "order id region")
	assert.True(t, got["K13:L13"], "platform label region")
	assert.True(t, got["C15:D15"], "descriptor span")
	assert.True(t, got["E15:G15"], "style span")
	assert.Len(t, merges, 4)
}

func TestRender_SizingAndMoneyFormat(t *testing.T) {
	r, err := xlsxwriter.NewRenderer(nil, nil, xlsxwriter.Options{Now: fixedNow})
	require.NoError(t, err)

	f := render(t, r, types.Batch{Sequence: 1, Lines: lines(1, "50")})

	width, err := f.GetColWidth("Sheet1", "H")
	require.NoError(t, err)
	assert.InDelta(t, 20.83, width, 0.01)

	height, err := f.GetRowHeight("Sheet1", 13)
	require.NoError(t, err)
	assert.InDelta(t, 21.75, height, 0.01)

	style, err := f.GetCellStyle("Sheet1", "F25")
	require.NoError(t, err)
	assert.NotZero(t, style)
}

func TestRender_EmptyBatchIsAllFiller(t *testing.T) {
	r, err := xlsxwriter.NewRenderer(nil, nil, xlsxwriter.Options{Now: fixedNow})
	require.NoError(t, err)

	f := render(t, r, types.Batch{Sequence: 1})

	for row := 15; row <= 24; row++ {
		assert.Equal(t, "-", raw(t, f, fmt.Sprintf("J%d", row)))
	}
	assert.Equal(t, "0", raw(t, f, "F27"))
}

func TestRender_BatchOverCapacity(t *testing.T) {
	r, err := xlsxwriter.NewRenderer(nil, nil, xlsxwriter.Options{Now: fixedNow})
	require.NoError(t, err)

	b := types.Batch{Sequence: 1, Lines: lines(11, "1")}
	_, err = r.Render(header(), b, totals.Compute(b))
	assert.ErrorIs(t, err, types.ErrLayoutAddress)
}

func TestRender_IndependentDocuments(t *testing.T) {
	r, err := xlsxwriter.NewRenderer(nil, nil, xlsxwriter.Options{Now: fixedNow})
	require.NoError(t, err)

	first := types.Batch{Sequence: 1, Lines: lines(10, "100")}
	second := types.Batch{Sequence: 2, Lines: lines(1, "5")}

	a, err := r.Render(header(), first, totals.Compute(first))
	require.NoError(t, err)
	before := a.Bytes()

	_, err = r.Render(header(), second, totals.Compute(second))
	require.NoError(t, err)
	assert.Equal(t, before, a.Bytes())

	f := render(t, r, second)
	assert.Equal(t, "-", raw(t, f, "J24"), "no rows carried over from the previous render")
}

func TestRender_FromTemplate(t *testing.T) {
	tmpl := excelize.NewFile()
	require.NoError(t, tmpl.SetCellValue("Sheet1", "B2", "ACME WAREHOUSE"))
	buf, err := tmpl.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, tmpl.Close())

	r, err := xlsxwriter.NewRenderer(nil, buf.Bytes(), xlsxwriter.Options{Now: fixedNow})
	require.NoError(t, err)

	f := render(t, r, types.Batch{Sequence: 1, Lines: lines(1, "50")})
	assert.Equal(t, "ACME WAREHOUSE", raw(t, f, "B2"))
	assert.Equal(t, "Ana Cruz", raw(t, f, "D9"))
}

func TestNewRenderer_TemplateMissingSheet(t *testing.T) {
	tmpl := excelize.NewFile()
	require.NoError(t, tmpl.SetSheetName("Sheet1", "Cover"))
	buf, err := tmpl.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, tmpl.Close())

	_, err = xlsxwriter.NewRenderer(nil, buf.Bytes(), xlsxwriter.Options{})
	assert.ErrorIs(t, err, types.ErrLayoutAddress)
}

func TestNewRenderer_InvalidLayout(t *testing.T) {
	layout := xlsxwriter.DefaultLayout()
	layout.Header.CustomerName = ""

	_, err := xlsxwriter.NewRenderer(layout, nil, xlsxwriter.Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrLayoutAddress)

	var layoutErr *types.LayoutError
	require.ErrorAs(t, err, &layoutErr)
	assert.Equal(t, "header.customer_name", layoutErr.Element)
}

func TestLoadLayout_Override(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
sheet: Slip
header:
  customer_name: B4
lines:
  rows: 5
`), 0o644))

	layout, err := xlsxwriter.LoadLayout(path)
	require.NoError(t, err)
	assert.Equal(t, "Slip", layout.Sheet)
	assert.Equal(t, "B4", layout.Header.CustomerName)
	assert.Equal(t, "D11", layout.Header.Province, "unset keys keep the default")
	assert.Equal(t, 20, layout.TotalsRow())

	r, err := xlsxwriter.NewRenderer(layout, nil, xlsxwriter.Options{Now: fixedNow})
	require.NoError(t, err)
	b := types.Batch{Sequence: 1, Lines: lines(2, "100")}
	doc, err := r.Render(header(), b, totals.Compute(b))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(doc.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue("Slip", "B4")
	require.NoError(t, err)
	assert.Equal(t, "Ana Cruz", v)

	net, err := f.GetCellValue("Slip", "F20", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "178.57", net)
}

func TestLoadLayout_BadAddress(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.yaml")
	require.NoError(t, os.WriteFile(path, []byte("header:\n  order_id: \"13I:J13\"\n"), 0o644))

	_, err := xlsxwriter.LoadLayout(path)
	assert.ErrorIs(t, err, types.ErrLayoutAddress)
}
