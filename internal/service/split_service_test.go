package service

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/receiptsplit/receiptsplit/internal/models"
	"github.com/receiptsplit/receiptsplit/internal/storage"
	"github.com/receiptsplit/receiptsplit/internal/storage/sqlite"
)

// setupTestService creates a service over a temp SQLite database.
func setupTestService(t *testing.T) (*SplitService, func()) {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "receiptsplit-test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()

	store, err := sqlite.New(tmpFile.Name())
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to create store: %v", err)
	}

	cleanup := func() {
		store.Close()
		os.Remove(tmpFile.Name())
	}
	return NewSplitService(store), cleanup
}

func TestCreateSplit_NormalizesAndTitles(t *testing.T) {
	svc, cleanup := setupTestService(t)
	defer cleanup()

	created, err := svc.CreateSplit(context.Background(), &models.Split{
		Participants: []models.Participant{{ID: "p1", Name: "Alice"}},
	})
	if err != nil {
		t.Fatalf("CreateSplit failed: %v", err)
	}

	if created.Participants[0].ID != models.MeParticipantID {
		t.Errorf("expected me participant first, got %+v", created.Participants)
	}
	if created.Name != "Split with Alice" {
		t.Errorf("expected generated title, got %q", created.Name)
	}
	if created.ID == "" {
		t.Error("expected generated id")
	}
}

func TestCreateSplit_ExcludeMeDropsMe(t *testing.T) {
	svc, cleanup := setupTestService(t)
	defer cleanup()

	created, err := svc.CreateSplit(context.Background(), &models.Split{
		Name:      "Their dinner",
		ExcludeMe: true,
		Participants: []models.Participant{
			{ID: models.MeParticipantID, Name: models.MeParticipantName},
			{ID: "p1", Name: "Alice"},
		},
	})
	if err != nil {
		t.Fatalf("CreateSplit failed: %v", err)
	}

	for _, p := range created.Participants {
		if p.ID == models.MeParticipantID {
			t.Errorf("me participant should have been removed: %+v", created.Participants)
		}
	}
}

func TestUpdateSplit_BumpsUpdatedAt(t *testing.T) {
	svc, cleanup := setupTestService(t)
	defer cleanup()
	ctx := context.Background()

	created, err := svc.CreateSplit(ctx, &models.Split{Name: "Dinner"})
	if err != nil {
		t.Fatalf("CreateSplit failed: %v", err)
	}

	before := time.Now().UnixMilli()
	created.TipInCents = 500
	updated, err := svc.UpdateSplit(ctx, created)
	if err != nil {
		t.Fatalf("UpdateSplit failed: %v", err)
	}

	if updated.UpdatedAt < before {
		t.Errorf("UpdatedAt not bumped: got %d, want >= %d", updated.UpdatedAt, before)
	}

	reloaded, err := svc.GetSplit(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetSplit failed: %v", err)
	}
	if reloaded.TipInCents != 500 {
		t.Errorf("TipInCents = %d, want 500", reloaded.TipInCents)
	}
}

func TestBreakdown_EndToEnd(t *testing.T) {
	svc, cleanup := setupTestService(t)
	defer cleanup()
	ctx := context.Background()

	created, err := svc.CreateSplit(ctx, &models.Split{
		Name:       "Pizza night",
		TaxInCents: 200,
		TipInCents: 300,
		Participants: []models.Participant{
			{ID: "p1", Name: "Alice"},
		},
		Items: []models.Item{
			{
				Name: "Pizza", PriceInCents: 2000, Quantity: 1,
				Assignments: []models.ItemAssignment{
					{ParticipantID: "me", Shares: 1},
					{ParticipantID: "p1", Shares: 1},
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("CreateSplit failed: %v", err)
	}

	result, err := svc.Breakdown(ctx, created.ID)
	if err != nil {
		t.Fatalf("Breakdown failed: %v", err)
	}

	if !result.Reconciled {
		t.Error("expected breakdown to reconcile")
	}
	if result.ReceiptTotalCents != 2500 {
		t.Errorf("ReceiptTotalCents = %d, want 2500", result.ReceiptTotalCents)
	}
	if len(result.Breakdowns) != 2 {
		t.Fatalf("expected 2 breakdowns, got %d", len(result.Breakdowns))
	}

	var sum int64
	for _, b := range result.Breakdowns {
		sum += b.GrandTotal
	}
	if sum != 2500 {
		t.Errorf("breakdown sum = %d, want 2500", sum)
	}
}

func TestShareableText_EndToEnd(t *testing.T) {
	svc, cleanup := setupTestService(t)
	defer cleanup()
	ctx := context.Background()

	created, err := svc.CreateSplit(ctx, &models.Split{
		Name: "Brunch",
		Items: []models.Item{
			{
				Name: "Waffles", PriceInCents: 1100, Quantity: 1,
				Assignments: []models.ItemAssignment{{ParticipantID: "me", Shares: 1}},
			},
		},
	})
	if err != nil {
		t.Fatalf("CreateSplit failed: %v", err)
	}

	text, err := svc.ShareableText(ctx, created.ID)
	if err != nil {
		t.Fatalf("ShareableText failed: %v", err)
	}
	if !strings.Contains(text, "Brunch") || !strings.Contains(text, "Waffles: $11.00") {
		t.Errorf("unexpected shareable text:\n%s", text)
	}
	if !strings.HasSuffix(text, "Receipt Total: $11.00") {
		t.Errorf("missing receipt total line:\n%s", text)
	}
}

func TestGetSplit_NotFound(t *testing.T) {
	svc, cleanup := setupTestService(t)
	defer cleanup()

	_, err := svc.GetSplit(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSpending_Summary(t *testing.T) {
	svc, cleanup := setupTestService(t)
	defer cleanup()
	ctx := context.Background()

	// Two fresh splits (this month) and nothing else; CreatedAt is "now"
	// so both land inside the current month window.
	for _, tax := range []int64{1000, 500} {
		_, err := svc.CreateSplit(ctx, &models.Split{
			Name:       "Split",
			TaxInCents: tax,
			Category:   models.CategoryRestaurant,
		})
		if err != nil {
			t.Fatalf("CreateSplit failed: %v", err)
		}
	}

	summary, err := svc.Spending(ctx)
	if err != nil {
		t.Fatalf("Spending failed: %v", err)
	}

	if summary.SplitCount != 2 {
		t.Errorf("SplitCount = %d, want 2", summary.SplitCount)
	}
	if summary.TotalSpendingCents != 1500 {
		t.Errorf("TotalSpendingCents = %d, want 1500", summary.TotalSpendingCents)
	}
	// Each split has only the "me" participant, so the user's equal
	// share is the whole receipt.
	if summary.UserSpendingCents != 1500 {
		t.Errorf("UserSpendingCents = %d, want 1500", summary.UserSpendingCents)
	}
	if len(summary.Categories) != 1 || summary.Categories[0].Category != "Restaurant" {
		t.Errorf("unexpected categories: %+v", summary.Categories)
	}
}

func TestRecentPeople(t *testing.T) {
	svc, cleanup := setupTestService(t)
	defer cleanup()
	ctx := context.Background()

	older := &models.Split{
		Name:      "Older",
		CreatedAt: 1000,
		UpdatedAt: 1000,
		Participants: []models.Participant{
			{ID: "p1", Name: "alice"},
			{ID: "p2", Name: "Bob"},
		},
	}
	newer := &models.Split{
		Name:      "Newer",
		CreatedAt: 2000,
		UpdatedAt: 2000,
		Participants: []models.Participant{
			{ID: "p1", Name: "Alice"},
			{ID: "p3", Name: "Carol"},
		},
	}
	for _, s := range []*models.Split{older, newer} {
		if _, err := svc.CreateSplit(ctx, s); err != nil {
			t.Fatalf("CreateSplit failed: %v", err)
		}
	}

	people, err := svc.RecentPeople(ctx)
	if err != nil {
		t.Fatalf("RecentPeople failed: %v", err)
	}

	// Most recent split first, deduped case-insensitively with the most
	// recent casing, and no "Me".
	want := []string{"Alice", "Carol", "Bob"}
	if len(people) != len(want) {
		t.Fatalf("people = %v, want %v", people, want)
	}
	for i := range want {
		if people[i] != want[i] {
			t.Errorf("people[%d] = %s, want %s", i, people[i], want[i])
		}
	}
}

func TestGenerateTitle(t *testing.T) {
	tests := []struct {
		name         string
		participants []models.Participant
		want         string
	}{
		{
			name: "few names",
			participants: []models.Participant{
				{ID: "me", Name: "Me"},
				{ID: "p1", Name: "Alice"},
				{ID: "p2", Name: "Bob"},
			},
			want: "Split with Alice, Bob",
		},
		{
			name: "many names truncate",
			participants: []models.Participant{
				{ID: "p1", Name: "Alice"},
				{ID: "p2", Name: "Bob"},
				{ID: "p3", Name: "Carol"},
				{ID: "p4", Name: "Dave"},
			},
			want: "Split with Alice, Bob and 2 others",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := generateTitle(tt.participants); got != tt.want {
				t.Errorf("generateTitle = %q, want %q", got, tt.want)
			}
		})
	}
}
