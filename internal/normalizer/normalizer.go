// =============================================================================
// Order Slip Generator - Line Normalizer
// =============================================================================
//
// This module projects one raw export record through the active platform
// schema into a canonical types.OrderLine.
//
// COERCION RULES:
//   - Text fields are trimmed.
//   - Absent fields take their default: quantity 1, order id "", style "".
//   - Quantity must be a non-negative whole number. Spreadsheets often show
//     whole numbers as "2.0", which is accepted.
//   - Unit price must be a non-negative decimal. Grouping commas are ignored.
//     Platforms with price_format "currency_prefixed" (TikTok) also carry a
//     currency token, e.g. "PHP 1,234.50" or "₱1,234.50", which is stripped.
//
// Every failure is a *types.RecordError naming platform, field, column and
// row, wrapping ErrInvalidQuantity or ErrInvalidPrice.
//
// =============================================================================

package normalizer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/order-slip-generator/internal/schema"
	"github.com/ginjaninja78/order-slip-generator/internal/types"
)

// =============================================================================
// NORMALIZATION FUNCTIONS
// =============================================================================

// Normalize converts one record into an OrderLine.
func Normalize(rec types.Record, s *schema.PlatformSchema) (types.OrderLine, error) {
	line := types.OrderLine{
		CustomerName:  text(rec, s, schema.CustomerName),
		Province:      text(rec, s, schema.Province),
		OrderDate:     text(rec, s, schema.OrderDate),
		OrderID:       text(rec, s, schema.OrderID),
		SKUDescriptor: text(rec, s, schema.SKUDescriptor),
		StyleName:     text(rec, s, schema.StyleName),
		SourceRow:     rec.Row,
	}

	rawQty, col := value(rec, s, schema.Quantity)
	qty, err := ParseQuantity(rawQty)
	if err != nil {
		return types.OrderLine{}, recordError(rec, s, schema.Quantity, col, rawQty, types.ErrInvalidQuantity)
	}
	line.Quantity = qty

	rawPrice, col := value(rec, s, schema.UnitPrice)
	price, err := ParsePrice(rawPrice, s.PriceFormat)
	if err != nil {
		return types.OrderLine{}, recordError(rec, s, schema.UnitPrice, col, rawPrice, types.ErrInvalidPrice)
	}
	line.UnitPrice = price

	return line, nil
}

// NormalizeTable normalizes every record in file order. It stops at the first
// record that fails.
func NormalizeTable(tbl *types.Table, s *schema.PlatformSchema) ([]types.OrderLine, error) {
	lines := make([]types.OrderLine, 0, len(tbl.Records))
	for _, rec := range tbl.Records {
		line, err := Normalize(rec, s)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// =============================================================================
// COERCION FUNCTIONS
// =============================================================================

// MaxQuantity is the largest quantity accepted on one line.
const MaxQuantity = math.MaxInt32

// ParseQuantity parses a non-negative whole number no larger than MaxQuantity.
func ParseQuantity(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("empty quantity")
	}

	if n, err := strconv.Atoi(raw); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("negative quantity %d", n)
		}
		if n > MaxQuantity {
			return 0, fmt.Errorf("quantity %d exceeds %d", n, MaxQuantity)
		}
		return n, nil
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, err
	}
	if !d.IsInteger() {
		return 0, fmt.Errorf("fractional quantity %s", d)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("negative quantity %s", d)
	}
	if d.GreaterThan(decimal.NewFromInt(MaxQuantity)) {
		return 0, fmt.Errorf("quantity %s exceeds %d", d, MaxQuantity)
	}
	return int(d.IntPart()), nil
}

// ParsePrice parses a non-negative decimal price in the given format.
func ParsePrice(raw string, format schema.PriceFormat) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if format == schema.PriceCurrencyPrefixed {
		cleaned = stripCurrency(cleaned)
	}
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("empty price")
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative price %s", d)
	}
	return d, nil
}

// stripCurrency removes currency codes, symbols and spacing around the number.
func stripCurrency(s string) string {
	isToken := func(r rune) bool {
		return unicode.IsLetter(r) || unicode.Is(unicode.Sc, r) || unicode.IsSpace(r)
	}
	s = strings.TrimLeftFunc(s, isToken)
	s = strings.TrimRightFunc(s, isToken)
	return strings.Join(strings.Fields(s), "")
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// value returns the raw cell for a field and the column it came from. Absent
// fields, and nullable fields missing from the record, yield the default.
func value(rec types.Record, s *schema.PlatformSchema, f schema.Field) (string, string) {
	col, mapped := s.Column(f)
	if !mapped {
		return schema.DefaultValue(f), ""
	}
	raw, present := rec.Fields[col]
	if !present && schema.Nullable(f) {
		return schema.DefaultValue(f), col
	}
	return raw, col
}

func text(rec types.Record, s *schema.PlatformSchema, f schema.Field) string {
	raw, _ := value(rec, s, f)
	return strings.TrimSpace(raw)
}

func recordError(rec types.Record, s *schema.PlatformSchema, f schema.Field, col, raw string, sentinel error) error {
	return &types.RecordError{
		Platform: s.ID,
		Field:    string(f),
		Column:   col,
		Row:      rec.Row,
		Value:    raw,
		Err:      sentinel,
	}
}
