// Package spending derives reporting figures from a collection of
// splits: this-month filtering, the current user's share, and category
// rollups.
//
// The user's share here is a deliberate equal-split approximation
// (receipt total divided by participant count), independent of how items
// were actually assigned. Reports favor a stable, cheap figure over the
// full allocation engine.
package spending

import (
	"sort"
	"time"

	"github.com/receiptsplit/receiptsplit/internal/calculator"
	"github.com/receiptsplit/receiptsplit/internal/models"
)

// CategoryTotal is one row of a category rollup.
type CategoryTotal struct {
	Category string  `json:"category"`
	Cents    int64   `json:"cents"`
	Percent  float64 `json:"percent"`
}

// ThisMonthStart returns the first instant of the current UTC calendar
// month as Unix milliseconds.
func ThisMonthStart() int64 {
	return ThisMonthStartAt(time.Now())
}

// ThisMonthStartAt is ThisMonthStart anchored at an explicit clock
// reading, for callers and tests that control time.
func ThisMonthStartAt(now time.Time) int64 {
	t := now.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).UnixMilli()
}

// SplitsThisMonth filters to splits touched in the current UTC month,
// judged by UpdatedAt with CreatedAt as fallback.
func SplitsThisMonth(splits []models.Split) []models.Split {
	return SplitsThisMonthAt(splits, time.Now())
}

// SplitsThisMonthAt is SplitsThisMonth anchored at an explicit clock
// reading.
func SplitsThisMonthAt(splits []models.Split, now time.Time) []models.Split {
	start := ThisMonthStartAt(now)
	out := make([]models.Split, 0, len(splits))
	for _, s := range splits {
		ts := s.UpdatedAt
		if ts == 0 {
			ts = s.CreatedAt
		}
		if ts >= start {
			out = append(out, s)
		}
	}
	return out
}

// UserShareCents approximates the current user's share of one split as
// an equal split of the receipt total. It is 0 when the user is excluded
// or the split has no participants.
func UserShareCents(split *models.Split) int64 {
	if split.ExcludeMe {
		return 0
	}
	n := int64(len(split.Participants))
	if n == 0 {
		return 0
	}
	return calculator.ReceiptTotal(split) / n
}

// TotalSpendingCents sums receipt totals over all splits. This is gross
// spend across every participant, with no ExcludeMe filtering.
func TotalSpendingCents(splits []models.Split) int64 {
	var sum int64
	for i := range splits {
		sum += calculator.ReceiptTotal(&splits[i])
	}
	return sum
}

// UserSpendingCents sums the user's equal-split share over all splits.
func UserSpendingCents(splits []models.Split) int64 {
	var sum int64
	for i := range splits {
		sum += UserShareCents(&splits[i])
	}
	return sum
}

// CategoryTotals groups the user's spending by category, sorted by cents
// descending. Splits without a category land in "Uncategorized".
// Percentages are of the user's total spending and are all 0 when that
// total is 0.
func CategoryTotals(splits []models.Split) []CategoryTotal {
	totalUserCents := UserSpendingCents(splits)

	byCategory := make(map[string]int64)
	for i := range splits {
		category := string(splits[i].Category)
		if category == "" {
			category = models.Uncategorized
		}
		byCategory[category] += UserShareCents(&splits[i])
	}

	totals := make([]CategoryTotal, 0, len(byCategory))
	for category, cents := range byCategory {
		var percent float64
		if totalUserCents > 0 {
			percent = float64(cents) / float64(totalUserCents) * 100
		}
		totals = append(totals, CategoryTotal{Category: category, Cents: cents, Percent: percent})
	}

	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Cents != totals[j].Cents {
			return totals[i].Cents > totals[j].Cents
		}
		return totals[i].Category < totals[j].Category
	})
	return totals
}
