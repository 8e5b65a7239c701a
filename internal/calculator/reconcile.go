package calculator

import (
	"strings"

	"github.com/receiptsplit/receiptsplit/internal/models"
	"github.com/receiptsplit/receiptsplit/internal/money"
)

// VerifyReconciliation reports whether the breakdowns conserve money:
// the per-participant grand totals must sum to the receipt total
// exactly. CalculateBreakdown guarantees this by construction, so a
// false result indicates breakdowns computed from a different split.
func VerifyReconciliation(split *models.Split, breakdowns []models.ParticipantBreakdown) bool {
	var sum int64
	for _, b := range breakdowns {
		sum += b.GrandTotal
	}
	return sum == ReceiptTotal(split)
}

// ShareableText renders a plain-text breakdown suitable for pasting into
// a chat: one block per participant in breakdown order, then the receipt
// total. Amounts always use the fixed "$D.DD" form, independent of any
// locale. Tax and tip lines appear only when nonzero.
func ShareableText(split *models.Split, breakdowns []models.ParticipantBreakdown) string {
	name := split.Name
	if name == "" {
		name = "Split Summary"
	}

	var b strings.Builder
	b.WriteString("💰 " + name + "\n\n")

	for _, breakdown := range breakdowns {
		b.WriteString(breakdown.ParticipantName + ":\n")
		for _, item := range breakdown.Items {
			b.WriteString("  " + item.ItemName + ": " + money.FormatCurrency(item.Amount) + "\n")
		}
		if breakdown.TaxTotal > 0 {
			b.WriteString("  Tax: " + money.FormatCurrency(breakdown.TaxTotal) + "\n")
		}
		if breakdown.TipTotal > 0 {
			b.WriteString("  Tip: " + money.FormatCurrency(breakdown.TipTotal) + "\n")
		}
		b.WriteString("  Total: " + money.FormatCurrency(breakdown.GrandTotal) + "\n\n")
	}

	b.WriteString("Receipt Total: " + money.FormatCurrency(ReceiptTotal(split)))
	return b.String()
}
