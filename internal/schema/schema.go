// =============================================================================
// Order Slip Generator - Platform Schemas
// =============================================================================
//
// A PlatformSchema maps each canonical order-line field to the column name a
// marketplace uses in its order export. Fields a platform does not export are
// left unmapped and take their default during normalization.
//
// CANONICAL FIELDS:
//
//   | Field          | Always mapped | Default when absent     |
//   |----------------|---------------|-------------------------|
//   | customer_name  | yes           |                         |
//   | province       | no            | "" (only when unmapped) |
//   | sku_descriptor | yes           |                         |
//   | unit_price     | yes           |                         |
//   | quantity       | no            | 1                       |
//   | order_date     | yes           |                         |
//   | order_id       | no            | ""                      |
//   | style_name     | no            | ""                      |
//
//   A nullable field (quantity, order_id, style_name) that is mapped but
//   missing from an export also takes its default. Any other mapped column
//   must be present.
//
// =============================================================================

package schema

import (
	"fmt"
	"strings"
)

// Field is a canonical order-line field name.
type Field string

const (
	CustomerName  Field = "customer_name"
	Province      Field = "province"
	SKUDescriptor Field = "sku_descriptor"
	UnitPrice     Field = "unit_price"
	Quantity      Field = "quantity"
	OrderDate     Field = "order_date"
	OrderID       Field = "order_id"
	StyleName     Field = "style_name"
)

// Fields lists every canonical field in display order.
var Fields = []Field{
	CustomerName, Province, SKUDescriptor, UnitPrice,
	Quantity, OrderDate, OrderID, StyleName,
}

// RequiredFields must be mapped by every platform.
var RequiredFields = []Field{CustomerName, OrderDate, SKUDescriptor, UnitPrice}

// defaults holds the value substituted for a nullable field that is absent.
var defaults = map[Field]string{
	Quantity:  "1",
	OrderID:   "",
	StyleName: "",
}

// Nullable reports whether a field may be missing from the input even when
// the schema maps it; the field's default is used instead.
func Nullable(f Field) bool {
	_, ok := defaults[f]
	return ok
}

// DefaultValue returns the value substituted for an absent nullable field.
func DefaultValue(f Field) string {
	return defaults[f]
}

// PriceFormat describes how a platform encodes the unit price cell.
type PriceFormat string

const (
	// PricePlain is a bare decimal number, e.g. "1234.50".
	PricePlain PriceFormat = "plain"

	// PriceCurrencyPrefixed carries a currency token and grouping separators,
	// e.g. "PHP 1,234.50".
	PriceCurrencyPrefixed PriceFormat = "currency_prefixed"
)

// PlatformSchema is the immutable column mapping of one marketplace.
type PlatformSchema struct {
	// ID is the lowercase selector, e.g. "tiktok".
	ID string `yaml:"id"`

	// Label is printed on rendered documents, e.g. "TikTok".
	Label string `yaml:"label"`

	// PriceFormat selects unit price cleaning.
	PriceFormat PriceFormat `yaml:"price_format"`

	// Columns maps canonical field to native column name.
	// A missing, null or empty entry marks the field absent.
	Columns map[Field]string `yaml:"columns"`
}

// Column returns the native column for a field and whether it is mapped.
func (s *PlatformSchema) Column(f Field) (string, bool) {
	col, ok := s.Columns[f]
	if !ok || strings.TrimSpace(col) == "" {
		return "", false
	}
	return col, true
}

// MappedColumns returns the native columns in canonical field order.
func (s *PlatformSchema) MappedColumns() []string {
	var cols []string
	for _, f := range Fields {
		if col, ok := s.Column(f); ok {
			cols = append(cols, col)
		}
	}
	return cols
}

// validate checks the invariants every registered schema must satisfy.
func (s *PlatformSchema) validate() error {
	if s.ID == "" {
		return fmt.Errorf("platform schema has no id")
	}
	for f := range s.Columns {
		if !isKnownField(f) {
			return fmt.Errorf("platform %s: unknown canonical field %q", s.ID, f)
		}
	}
	for _, f := range RequiredFields {
		if _, ok := s.Column(f); !ok {
			return fmt.Errorf("platform %s: required field %s is not mapped", s.ID, f)
		}
	}
	switch s.PriceFormat {
	case PricePlain, PriceCurrencyPrefixed:
	default:
		return fmt.Errorf("platform %s: unknown price_format %q", s.ID, s.PriceFormat)
	}
	return nil
}

func isKnownField(f Field) bool {
	for _, known := range Fields {
		if f == known {
			return true
		}
	}
	return false
}
