package billing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Totals is the result of aggregating an invoice's line items.
type Totals struct {
	Subtotal        decimal.Decimal
	DiscountedTotal decimal.Decimal
	Total           decimal.Decimal
}

// ComputeTotals aggregates line items into the invoice amounts:
//
//	subtotal = sum of item totals
//	total    = subtotal - discount + subtotal * (taxPercent / 100)
//
// Discount is a flat currency amount and tax is a percentage of the subtotal
// before discount. That ordering is a documented property of the system, not
// display logic; do not change it to tax-after-discount.
//
// Negative discount or tax inputs are clamped to zero before use. Discount is
// not capped at the subtotal, so the total can legitimately go negative.
func ComputeTotals(items []LineItem, discount, taxPercent decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.TotalPrice)
	}
	return TotalsFromSubtotal(subtotal, discount, taxPercent)
}

// TotalsFromSubtotal applies discount and tax to an already-known subtotal.
// Used when an invoice update touches discount or tax without reopening the
// item list.
func TotalsFromSubtotal(subtotal, discount, taxPercent decimal.Decimal) Totals {
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	if taxPercent.IsNegative() {
		taxPercent = decimal.Zero
	}

	discounted := subtotal.Sub(discount)
	tax := subtotal.Mul(taxPercent).Div(hundred)

	return Totals{
		Subtotal:        subtotal,
		DiscountedTotal: discounted,
		Total:           discounted.Add(tax),
	}
}

// Amount rounds a decimal to two places for persistence or display. All
// intermediate math stays at full precision.
func Amount(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
