// Package service implements the business layer between the HTTP API
// and storage: split CRUD with normalization, breakdown calculation,
// shareable text, and spending reports.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/receiptsplit/receiptsplit/internal/calculator"
	"github.com/receiptsplit/receiptsplit/internal/models"
	"github.com/receiptsplit/receiptsplit/internal/spending"
	"github.com/receiptsplit/receiptsplit/internal/storage"
)

// maxRecentPeople caps the recent-participants suggestion list.
const maxRecentPeople = 5

// SplitService owns all split operations over an injected store.
type SplitService struct {
	store storage.Store
}

// NewSplitService creates a new SplitService with the given storage backend.
func NewSplitService(store storage.Store) *SplitService {
	return &SplitService{store: store}
}

// CreateSplit normalizes and persists a new split. A split with no name
// gets a title generated from its participants.
func (s *SplitService) CreateSplit(ctx context.Context, split *models.Split) (*models.Split, error) {
	split.Normalize()
	if split.Name == "" {
		split.Name = generateTitle(split.Participants)
	}

	if err := s.store.CreateSplit(ctx, split); err != nil {
		slog.Error("CreateSplit failed", "error", err)
		return nil, err
	}
	slog.Info("Split created", "split_id", split.ID, "participants", len(split.Participants), "items", len(split.Items))
	return split, nil
}

// UpdateSplit normalizes the split, bumps its UpdatedAt, and replaces
// the stored copy.
func (s *SplitService) UpdateSplit(ctx context.Context, split *models.Split) (*models.Split, error) {
	split.Normalize()
	split.UpdatedAt = time.Now().UnixMilli()

	if err := s.store.UpdateSplit(ctx, split); err != nil {
		slog.Error("UpdateSplit failed", "split_id", split.ID, "error", err)
		return nil, err
	}
	slog.Info("Split updated", "split_id", split.ID)
	return split, nil
}

// GetSplit loads one split. Loaded splits are normalized so stale rows
// written before a flag change still honor the "me" participant rule.
func (s *SplitService) GetSplit(ctx context.Context, splitID string) (*models.Split, error) {
	split, err := s.store.GetSplit(ctx, splitID)
	if err != nil {
		return nil, err
	}
	split.Normalize()
	return split, nil
}

// ListSplits returns all splits, most recently created first.
func (s *SplitService) ListSplits(ctx context.Context) ([]models.Split, error) {
	splits, err := s.store.ListSplits(ctx)
	if err != nil {
		return nil, err
	}
	for i := range splits {
		splits[i].Normalize()
	}
	return splits, nil
}

// DeleteSplit removes a split.
func (s *SplitService) DeleteSplit(ctx context.Context, splitID string) error {
	if err := s.store.DeleteSplit(ctx, splitID); err != nil {
		return err
	}
	slog.Info("Split deleted", "split_id", splitID)
	return nil
}

// BreakdownResult bundles a split's per-participant breakdowns with the
// receipt total they reconcile against.
type BreakdownResult struct {
	ReceiptTotalCents int64                         `json:"receiptTotalCents"`
	Breakdowns        []models.ParticipantBreakdown `json:"breakdowns"`
	Reconciled        bool                          `json:"reconciled"`
}

// Breakdown loads a split and runs the allocation engine over it.
// Reconciliation holds by construction; a false Reconciled is logged
// loudly because it would mean the engine itself is broken.
func (s *SplitService) Breakdown(ctx context.Context, splitID string) (*BreakdownResult, error) {
	split, err := s.GetSplit(ctx, splitID)
	if err != nil {
		return nil, err
	}

	breakdowns := calculator.CalculateBreakdown(split)
	result := &BreakdownResult{
		ReceiptTotalCents: calculator.ReceiptTotal(split),
		Breakdowns:        breakdowns,
		Reconciled:        calculator.VerifyReconciliation(split, breakdowns),
	}
	if !result.Reconciled {
		slog.Error("Breakdown does not reconcile", "split_id", splitID, "receipt_total", result.ReceiptTotalCents)
	}
	return result, nil
}

// ShareableText loads a split and renders its plain-text breakdown.
func (s *SplitService) ShareableText(ctx context.Context, splitID string) (string, error) {
	split, err := s.GetSplit(ctx, splitID)
	if err != nil {
		return "", err
	}
	return calculator.ShareableText(split, calculator.CalculateBreakdown(split)), nil
}

// SpendingSummary reports on the current UTC month: the user's share,
// gross spend, and category rollups over splits touched this month.
type SpendingSummary struct {
	MonthStart         int64                    `json:"monthStart"`
	SplitCount         int                      `json:"splitCount"`
	TotalSpendingCents int64                    `json:"totalSpendingCents"`
	UserSpendingCents  int64                    `json:"userSpendingCents"`
	Categories         []spending.CategoryTotal `json:"categories"`
}

// Spending computes the this-month spending summary.
func (s *SplitService) Spending(ctx context.Context) (*SpendingSummary, error) {
	splits, err := s.ListSplits(ctx)
	if err != nil {
		return nil, err
	}

	thisMonth := spending.SplitsThisMonth(splits)
	return &SpendingSummary{
		MonthStart:         spending.ThisMonthStart(),
		SplitCount:         len(thisMonth),
		TotalSpendingCents: spending.TotalSpendingCents(thisMonth),
		UserSpendingCents:  spending.UserSpendingCents(thisMonth),
		Categories:         spending.CategoryTotals(thisMonth),
	}, nil
}

// RecentPeople returns up to five participant names from the most
// recently touched splits, deduplicated case-insensitively with the
// most recent casing kept. The "me" participant is never suggested.
func (s *SplitService) RecentPeople(ctx context.Context) ([]string, error) {
	splits, err := s.ListSplits(ctx)
	if err != nil {
		return nil, err
	}

	// Most recently touched first.
	sort.SliceStable(splits, func(i, j int) bool {
		return touchedAt(&splits[i]) > touchedAt(&splits[j])
	})

	seen := make(map[string]bool)
	people := make([]string, 0, maxRecentPeople)
	for i := range splits {
		for _, p := range splits[i].Participants {
			name := strings.TrimSpace(p.Name)
			if p.ID == models.MeParticipantID || name == "" {
				continue
			}
			lower := strings.ToLower(name)
			if seen[lower] {
				continue
			}
			seen[lower] = true
			people = append(people, name)
			if len(people) == maxRecentPeople {
				return people, nil
			}
		}
	}
	return people, nil
}

func touchedAt(split *models.Split) int64 {
	if split.UpdatedAt != 0 {
		return split.UpdatedAt
	}
	return split.CreatedAt
}

// generateTitle creates an auto-generated title from participants,
// skipping the synthetic "me" entry.
func generateTitle(participants []models.Participant) string {
	names := make([]string, 0, len(participants))
	for _, p := range participants {
		if p.ID == models.MeParticipantID {
			continue
		}
		names = append(names, p.Name)
	}
	if len(names) == 0 {
		return fmt.Sprintf("Split - %s", time.Now().Format("Jan 2, 2006"))
	}
	if len(names) <= 3 {
		return fmt.Sprintf("Split with %s", strings.Join(names, ", "))
	}
	return fmt.Sprintf("Split with %s and %d others",
		strings.Join(names[:2], ", "),
		len(names)-2,
	)
}
