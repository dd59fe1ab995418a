// =============================================================================
// Order Slip Generator - Order Grouper
// =============================================================================
//
// This module partitions normalized lines into orders. An order is every line
// sharing the same (customer name, order date) pair.
//
// GROUPING LOGIC:
//   - Orders appear in the order their key is first seen in the input.
//   - Lines keep their input order inside an order.
//   - Every line lands in exactly one order.
//   - Key comparison is exact by default. With NormalizeKeys, the customer
//     name is case folded and whitespace collapsed before comparing, so
//     "Ana  Cruz" and "ana cruz" merge. The order still displays the name
//     as written on its first line.
//
// =============================================================================

package converter

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/ginjaninja78/order-slip-generator/internal/types"
)

// GroupOptions controls how order keys are compared.
type GroupOptions struct {
	// NormalizeKeys folds case and whitespace in the customer name and
	// trims the order date before comparing keys.
	NormalizeKeys bool
}

// Group partitions lines into orders keyed by customer and order date.
//
// PARAMETERS:
//   - lines: Normalized lines in input order.
//   - opts: Key comparison options.
//
// RETURNS:
//   - Orders in first-appearance order. Province and order id come from the
//     first line of each order.
func Group(lines []types.OrderLine, opts GroupOptions) []types.Order {
	var fold cases.Caser
	if opts.NormalizeKeys {
		fold = cases.Fold()
	}

	index := make(map[types.OrderKey]int)
	var orders []types.Order

	for _, line := range lines {
		key := types.OrderKey{CustomerName: line.CustomerName, OrderDate: line.OrderDate}
		if opts.NormalizeKeys {
			key = types.OrderKey{
				CustomerName: fold.String(collapseSpaces(line.CustomerName)),
				OrderDate:    collapseSpaces(line.OrderDate),
			}
		}

		i, exists := index[key]
		if !exists {
			i = len(orders)
			index[key] = i
			orders = append(orders, types.Order{
				Key:          key,
				CustomerName: line.CustomerName,
				Province:     line.Province,
				OrderID:      line.OrderID,
			})
		}
		orders[i].Lines = append(orders[i].Lines, line)
	}

	return orders
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
