package calculator

import "github.com/receiptsplit/receiptsplit/internal/models"

// ReceiptTotal returns the full receipt amount in cents: the sum of all
// item line costs (unit price times quantity) plus tax plus tip.
func ReceiptTotal(split *models.Split) int64 {
	var total int64
	for i := range split.Items {
		total += itemTotalCost(&split.Items[i])
	}
	return total + split.TaxInCents + split.TipInCents
}

// itemTotalCost is the full cost of one receipt line. Negative values,
// which can only come from malformed persisted data, are treated as 0 so
// no item can subtract money from anyone.
func itemTotalCost(item *models.Item) int64 {
	cost := item.PriceInCents * item.Quantity
	if cost < 0 {
		return 0
	}
	return cost
}
