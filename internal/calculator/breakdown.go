// Package calculator implements the deterministic money-allocation
// engine: per-participant item costs, proportional tax and tip, and
// exact remainder-cent distribution so that every breakdown reconciles
// to the receipt total with no drift.
//
// All arithmetic is integer cents. Every function is total: degenerate
// inputs (no participants, zero shares, zero totals) produce zero-valued
// results, never errors or panics.
package calculator

import (
	"math"
	"sort"

	"github.com/receiptsplit/receiptsplit/internal/models"
)

const unnamedItem = "Unnamed item"

// CalculateBreakdown computes one ParticipantBreakdown per participant.
//
// Each item's cost is split among its assigned participants in
// proportion to their shares. Tax and tip are then split across all
// participants in proportion to each participant's share of item costs.
// Cents lost to floor division are handed back one at a time in
// ascending participant-id order, which makes the result deterministic
// and conserves the receipt total exactly.
func CalculateBreakdown(split *models.Split) []models.ParticipantBreakdown {
	costs := itemCosts(split)
	tax := allocateProportional(split, costs, split.TaxInCents)
	tip := allocateProportional(split, costs, split.TipInCents)

	breakdowns := make([]models.ParticipantBreakdown, 0, len(split.Participants))
	for _, p := range split.Participants {
		b := models.ParticipantBreakdown{
			ParticipantID:   p.ID,
			ParticipantName: p.Name,
			ItemsTotal:      costs[p.ID],
			TaxTotal:        tax[p.ID],
			TipTotal:        tip[p.ID],
			Items:           itemLines(split, p.ID),
		}
		b.GrandTotal = b.ItemsTotal + b.TaxTotal + b.TipTotal
		breakdowns = append(breakdowns, b)
	}
	return breakdowns
}

// itemCosts allocates every item's cost across its assigned participants
// and returns each participant's item total in cents.
func itemCosts(split *models.Split) map[string]int64 {
	costs := make(map[string]int64, len(split.Participants))
	for _, p := range split.Participants {
		costs[p.ID] = 0
	}

	for i := range split.Items {
		item := &split.Items[i]
		shares, totalShares := sharesByParticipant(item.Assignments)
		if totalShares <= 0 {
			// No shares means nobody takes this item; it costs no one
			// anything and stays out of the tax/tip basis.
			continue
		}

		totalCost := itemTotalCost(item)
		costPerShare := int64(math.Floor(float64(totalCost) / totalShares))

		var allocated int64
		ids := make([]string, 0, len(shares))
		for id, sh := range shares {
			base := int64(math.Floor(float64(costPerShare) * sh))
			costs[id] += base
			allocated += base
			ids = append(ids, id)
		}

		distributeRemainder(costs, totalCost-allocated, ids)
	}

	return costs
}

// allocateProportional splits amount (tax or tip) across all
// participants in proportion to their item costs. With no item costs
// there is no basis to proportion against, so everyone gets zero.
func allocateProportional(split *models.Split, costs map[string]int64, amount int64) map[string]int64 {
	out := make(map[string]int64, len(split.Participants))
	ids := make([]string, 0, len(split.Participants))
	for _, p := range split.Participants {
		out[p.ID] = 0
		ids = append(ids, p.ID)
	}

	var totalItemCost int64
	for _, c := range costs {
		totalItemCost += c
	}
	if totalItemCost <= 0 || amount <= 0 {
		return out
	}

	remaining := amount
	for _, p := range split.Participants {
		share := costs[p.ID] * amount / totalItemCost
		out[p.ID] = share
		remaining -= share
	}

	// Leftover cents go across all participants, not just those with
	// nonzero item cost.
	distributeRemainder(out, remaining, ids)
	return out
}

// itemLines builds the per-item display entries for one participant.
// These use the raw costPerShare * shares figure; the remainder
// correction lives only in the aggregate ItemsTotal, so lines may sum a
// few cents short of it. That asymmetry is long-standing display
// behavior, kept intact.
func itemLines(split *models.Split, participantID string) []models.BreakdownItem {
	var lines []models.BreakdownItem
	for i := range split.Items {
		item := &split.Items[i]
		shares, totalShares := sharesByParticipant(item.Assignments)
		if totalShares <= 0 {
			continue
		}
		sh, ok := shares[participantID]
		if !ok {
			continue
		}

		totalCost := itemTotalCost(item)
		costPerShare := int64(math.Floor(float64(totalCost) / totalShares))

		name := item.Name
		if name == "" {
			name = unnamedItem
		}
		lines = append(lines, models.BreakdownItem{
			ItemName: name,
			Amount:   int64(math.Floor(float64(costPerShare) * sh)),
		})
	}
	return lines
}

// sharesByParticipant sums shares per participant, collapsing duplicate
// assignments for the same participant into one weight. Non-finite and
// negative share values count as 0.
func sharesByParticipant(assignments []models.ItemAssignment) (map[string]float64, float64) {
	shares := make(map[string]float64, len(assignments))
	var total float64
	for _, a := range assignments {
		sh := a.Shares
		if math.IsNaN(sh) || math.IsInf(sh, 0) || sh < 0 {
			sh = 0
		}
		shares[a.ParticipantID] += sh
		total += sh
	}
	return shares, total
}

// distributeRemainder hands out leftover cents one at a time to ids in
// ascending lexicographic order, cycling until nothing is left. The
// fixed ordering is the tie-break that makes allocation deterministic;
// cycling guarantees conservation even when the remainder exceeds the
// number of recipients.
func distributeRemainder(amounts map[string]int64, remainder int64, ids []string) {
	if remainder <= 0 || len(ids) == 0 {
		return
	}
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)

	i := 0
	for remainder > 0 {
		amounts[sorted[i]]++
		remainder--
		i = (i + 1) % len(sorted)
	}
}
