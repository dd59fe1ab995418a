package schema_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/order-slip-generator/internal/schema"
	"github.com/ginjaninja78/order-slip-generator/internal/types"
)

func TestResolve_BuiltinPlatforms(t *testing.T) {
	reg, err := schema.NewRegistry()
	require.NoError(t, err)

	assert.Equal(t, []string{"jdo", "lazada", "shopee", "tiktok", "zalora"}, reg.IDs())

	for _, id := range reg.IDs() {
		s, err := reg.Resolve(id)
		require.NoError(t, err, id)
		for _, f := range schema.RequiredFields {
			col, ok := s.Column(f)
			assert.True(t, ok, "%s: %s must be mapped", id, f)
			assert.NotEmpty(t, col)
		}
	}
}

func TestResolve_IgnoresCase(t *testing.T) {
	reg := schema.Default()

	s, err := reg.Resolve("  TikTok ")
	require.NoError(t, err)
	assert.Equal(t, "tiktok", s.ID)
	assert.Equal(t, "TikTok", s.Label)
	assert.Equal(t, schema.PriceCurrencyPrefixed, s.PriceFormat)
}

func TestResolve_UnknownPlatform(t *testing.T) {
	reg := schema.Default()

	_, err := reg.Resolve("amazon")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrUnknownPlatform)
	assert.Contains(t, err.Error(), "amazon")
}

func TestResolve_AbsentFields(t *testing.T) {
	reg := schema.Default()

	lazada, err := reg.Resolve("lazada")
	require.NoError(t, err)
	_, ok := lazada.Column(schema.Quantity)
	assert.False(t, ok, "lazada exports no quantity column")

	jdo, err := reg.Resolve("jdo")
	require.NoError(t, err)
	_, ok = jdo.Column(schema.OrderID)
	assert.False(t, ok)
	_, ok = jdo.Column(schema.StyleName)
	assert.False(t, ok)
	assert.Equal(t, []string{"CUSTOMER NAME", "PROVINCE", "STYLECLRSIZE", "UNIT PRICE", "QTY", "ORDER DATE"},
		jdo.MappedColumns())
}

func TestLoadDir_AddsAndOverrides(t *testing.T) {
	dir := t.TempDir()
	doc := `
platforms:
  - id: Shopify
    label: Shopify
    columns:
      customer_name: Billing Name
      sku_descriptor: Lineitem sku
      unit_price: Lineitem price
      quantity: Lineitem quantity
      order_date: Created at
  - id: jdo
    label: JDO Direct
    columns:
      customer_name: CUSTOMER
      sku_descriptor: SKU
      unit_price: PRICE
      order_date: DATE
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "extra.yaml"), []byte(doc), 0644))

	reg := schema.Default()
	require.NoError(t, reg.LoadDir(dir))

	shopify, err := reg.Resolve("shopify")
	require.NoError(t, err)
	assert.Equal(t, schema.PricePlain, shopify.PriceFormat)

	jdo, err := reg.Resolve("jdo")
	require.NoError(t, err)
	assert.Equal(t, "JDO Direct", jdo.Label)
	col, _ := jdo.Column(schema.CustomerName)
	assert.Equal(t, "CUSTOMER", col)
}

func TestLoadDir_RejectsMissingRequiredField(t *testing.T) {
	dir := t.TempDir()
	doc := `
platforms:
  - id: broken
    columns:
      customer_name: Name
      unit_price: Price
      order_date: Date
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yml"), []byte(doc), 0644))

	err := schema.Default().LoadDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sku_descriptor")
}

func TestLoadDir_RejectsUnknownField(t *testing.T) {
	dir := t.TempDir()
	doc := `
platforms:
  - id: odd
    columns:
      customer_name: Name
      sku_descriptor: SKU
      unit_price: Price
      order_date: Date
      colour: Colour
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "odd.yaml"), []byte(doc), 0644))

	err := schema.Default().LoadDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "colour")
}
