// =============================================================================
// Order Slip Generator - Total Calculator
// =============================================================================
//
// This module computes the money block printed under each batch.
//
// FORMULAS:
//   gross  = Σ quantity × unit_price            (tax inclusive)
//   net    = round(gross / (1 + vat_rate), 2)
//   tax    = gross − net
//   pieces = Σ quantity
//
//   Rounding is half away from zero. Tax is derived from the rounded net so
//   that net + tax always equals gross exactly.
//
// LEGACY FORMULA:
//   Older slips printed tax = round(gross × vat_rate, 2), which does not add
//   up with net. It is kept behind Calculator.Legacy for continuity with
//   historical paperwork only.
//
// =============================================================================

package totals

import (
	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/order-slip-generator/internal/types"
)

// DefaultVATRate is the Philippine VAT rate.
var DefaultVATRate = decimal.RequireFromString("0.12")

// Calculator computes BatchTotals for a VAT rate.
type Calculator struct {
	// VATRate is the tax rate, e.g. 0.12.
	VATRate decimal.Decimal

	// Legacy selects tax = gross × rate instead of gross − net.
	Legacy bool
}

// New returns a calculator for the given rate. A zero rate is allowed.
func New(vatRate float64, legacy bool) *Calculator {
	return &Calculator{VATRate: decimal.NewFromFloat(vatRate), Legacy: legacy}
}

// Compute returns the totals of one batch. It does not modify the batch.
func (c *Calculator) Compute(b types.Batch) types.BatchTotals {
	gross := decimal.Zero
	pieces := 0
	for _, line := range b.Lines {
		gross = gross.Add(line.LineTotal())
		pieces += line.Quantity
	}

	divisor := decimal.NewFromInt(1).Add(c.VATRate)
	net := gross.DivRound(divisor, 16).Round(2)

	tax := gross.Sub(net)
	if c.Legacy {
		tax = gross.Mul(c.VATRate).Round(2)
	}

	return types.BatchTotals{
		Gross:      gross,
		Net:        net,
		Tax:        tax,
		PieceCount: pieces,
	}
}

// Compute uses the default 12% rate and the canonical tax formula.
func Compute(b types.Batch) types.BatchTotals {
	return (&Calculator{VATRate: DefaultVATRate}).Compute(b)
}
