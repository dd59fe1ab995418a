package normalizer_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/order-slip-generator/internal/normalizer"
	"github.com/ginjaninja78/order-slip-generator/internal/schema"
	"github.com/ginjaninja78/order-slip-generator/internal/types"
)

func platform(t *testing.T, id string) *schema.PlatformSchema {
	t.Helper()
	s, err := schema.Default().Resolve(id)
	require.NoError(t, err)
	return s
}

func TestNormalize_TikTokCurrencyPrice(t *testing.T) {
	rec := types.Record{Row: 2, Fields: map[string]string{
		"Recipient":               "Ana Cruz",
		"Province":                "Cebu",
		"Seller SKU":              "TEE-BLK-M",
		"SKU Unit Original Price": "PHP 1,500.00",
		"Quantity":                "2",
		"Created Time":            "03/03/2025 10:15:00",
		"Order ID":                "5771",
		"Product Name":            "Basic Tee",
	}}

	line, err := normalizer.Normalize(rec, platform(t, "tiktok"))
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("1500.00").Equal(line.UnitPrice))
	assert.Equal(t, 2, line.Quantity)
	assert.True(t, decimal.RequireFromString("3000.00").Equal(line.LineTotal()))
	assert.Equal(t, "Ana Cruz", line.CustomerName)
	assert.Equal(t, "5771", line.OrderID)
	assert.Equal(t, "Basic Tee", line.StyleName)
	assert.Equal(t, 2, line.SourceRow)
}

func TestNormalize_LazadaDefaultsQuantity(t *testing.T) {
	rec := types.Record{Row: 7, Fields: map[string]string{
		"Customer Name":   "Ben Reyes",
		"Shipping Region": "Laguna",
		"Seller SKU":      "CAP-RED",
		"Unit Price":      "250",
		"Order Date":      "2025-03-03",
		"Order Number":    "LZ-1",
		"Item Name":       "Cap",
	}}

	line, err := normalizer.Normalize(rec, platform(t, "lazada"))
	require.NoError(t, err)
	assert.Equal(t, 1, line.Quantity)
	assert.True(t, decimal.NewFromInt(250).Equal(line.LineTotal()))
}

func TestNormalize_JDODefaultsOrderIDAndStyle(t *testing.T) {
	rec := types.Record{Row: 2, Fields: map[string]string{
		"CUSTOMER NAME": " Ana Cruz ",
		"PROVINCE":      "Cebu",
		"STYLECLRSIZE":  "JD100-BLK-M",
		"UNIT PRICE":    "100",
		"QTY":           "1.0",
		"ORDER DATE":    "2025-03-03",
	}}

	line, err := normalizer.Normalize(rec, platform(t, "jdo"))
	require.NoError(t, err)
	assert.Equal(t, "Ana Cruz", line.CustomerName)
	assert.Equal(t, "", line.OrderID)
	assert.Equal(t, "", line.StyleName)
	assert.Equal(t, 1, line.Quantity)
}

func TestNormalize_InvalidQuantity(t *testing.T) {
	for _, qty := range []string{"", "two", "-1", "1.5", "9223372036854775808", "1e19", "2147483648"} {
		rec := types.Record{Row: 9, Fields: map[string]string{
			"CUSTOMER NAME": "Ana", "PROVINCE": "Cebu", "STYLECLRSIZE": "X",
			"UNIT PRICE": "100", "QTY": qty, "ORDER DATE": "2025-03-03",
		}}

		_, err := normalizer.Normalize(rec, platform(t, "jdo"))
		require.Error(t, err, qty)
		assert.ErrorIs(t, err, types.ErrInvalidQuantity)

		var recErr *types.RecordError
		require.True(t, errors.As(err, &recErr))
		assert.Equal(t, 9, recErr.Row)
		assert.Equal(t, "QTY", recErr.Column)
		assert.Equal(t, "jdo", recErr.Platform)
	}
}

func TestParseQuantity_Bounds(t *testing.T) {
	n, err := normalizer.ParseQuantity("2147483647")
	require.NoError(t, err)
	assert.Equal(t, normalizer.MaxQuantity, n)

	n, err = normalizer.ParseQuantity("3.0")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	for _, raw := range []string{"2147483648", "9223372036854775807", "99999999999999999999", "1e19"} {
		_, err := normalizer.ParseQuantity(raw)
		assert.Error(t, err, raw)
	}
}

func TestNormalize_InvalidPrice(t *testing.T) {
	for _, price := range []string{"", "free", "-5", "PHP"} {
		rec := types.Record{Row: 3, Fields: map[string]string{
			"Recipient": "Ana", "Province": "Cebu", "Seller SKU": "X",
			"SKU Unit Original Price": price, "Quantity": "1", "Created Time": "2025-03-03",
		}}

		_, err := normalizer.Normalize(rec, platform(t, "tiktok"))
		require.Error(t, err, price)
		assert.ErrorIs(t, err, types.ErrInvalidPrice)
		assert.Contains(t, err.Error(), "unit_price")
	}
}

func TestParsePrice_Formats(t *testing.T) {
	cases := []struct {
		raw    string
		format schema.PriceFormat
		want   string
	}{
		{"1234.50", schema.PricePlain, "1234.5"},
		{"1,234.50", schema.PricePlain, "1234.5"},
		{"PHP 1,234.50", schema.PriceCurrencyPrefixed, "1234.5"},
		{"₱ 99", schema.PriceCurrencyPrefixed, "99"},
		{"1,000.00 PHP", schema.PriceCurrencyPrefixed, "1000"},
		{"0", schema.PricePlain, "0"},
	}
	for _, tc := range cases {
		got, err := normalizer.ParsePrice(tc.raw, tc.format)
		require.NoError(t, err, tc.raw)
		assert.True(t, decimal.RequireFromString(tc.want).Equal(got), "%s -> %s", tc.raw, got)
	}

	_, err := normalizer.ParsePrice("PHP 1,234.50", schema.PricePlain)
	assert.Error(t, err, "plain prices keep the currency token and fail")
}

func TestNormalizeTable_StopsAtFirstBadRow(t *testing.T) {
	s := platform(t, "jdo")
	good := map[string]string{
		"CUSTOMER NAME": "Ana", "PROVINCE": "Cebu", "STYLECLRSIZE": "X",
		"UNIT PRICE": "100", "QTY": "1", "ORDER DATE": "2025-03-03",
	}
	bad := map[string]string{
		"CUSTOMER NAME": "Ana", "PROVINCE": "Cebu", "STYLECLRSIZE": "X",
		"UNIT PRICE": "abc", "QTY": "1", "ORDER DATE": "2025-03-03",
	}

	lines, err := normalizer.NormalizeTable(&types.Table{Records: []types.Record{
		{Row: 2, Fields: good}, {Row: 3, Fields: good},
	}}, s)
	require.NoError(t, err)
	assert.Len(t, lines, 2)

	_, err = normalizer.NormalizeTable(&types.Table{Records: []types.Record{
		{Row: 2, Fields: good}, {Row: 3, Fields: bad}, {Row: 4, Fields: good},
	}}, s)
	var recErr *types.RecordError
	require.True(t, errors.As(err, &recErr))
	assert.Equal(t, 3, recErr.Row)
}
