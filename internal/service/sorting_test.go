package service

import (
	"testing"
	"time"

	"task-keeper/internal/model"
)

func TestSortOrderDueThenPriorityThenTitle(t *testing.T) {
	today := day(2025, time.March, 12)
	tomorrow := day(2025, time.March, 13)

	a := &model.Item{ID: "a", Title: "Buy milk", Priority: 3, DueDate: &tomorrow, Status: model.StatusActive}
	b := &model.Item{ID: "b", Title: "Call bank", Priority: 5, Status: model.StatusActive}
	c := &model.Item{ID: "c", Title: "Call bank", Priority: 3, DueDate: &today, Status: model.StatusActive}

	items := []*model.Item{a, b, c}
	SortItems(items)

	if items[0] != c || items[1] != a || items[2] != b {
		t.Fatalf("order=[%s %s %s], want [c a b]", items[0].ID, items[1].ID, items[2].ID)
	}
}

func TestSortTieBreaks(t *testing.T) {
	due := day(2025, time.March, 12)

	hi := &model.Item{ID: "hi", Title: "zebra", Priority: 5, DueDate: &due}
	lo := &model.Item{ID: "lo", Title: "alpha", Priority: 2, DueDate: &due}
	items := []*model.Item{lo, hi}
	SortItems(items)
	if items[0] != hi {
		t.Fatalf("same due date must fall back to priority")
	}

	x := &model.Item{ID: "x", Title: "Apple", Priority: 3}
	y := &model.Item{ID: "y", Title: "banana", Priority: 3}
	items = []*model.Item{y, x}
	SortItems(items)
	if items[0] != x {
		t.Fatalf("title tie-break must be case-insensitive")
	}

	// Strict weak ordering: equal items compare less in neither direction.
	if itemLess(x, x) {
		t.Fatalf("itemLess(x, x) must be false")
	}
	if itemLess(x, y) == itemLess(y, x) && itemLess(x, y) {
		t.Fatalf("comparator is not antisymmetric")
	}
}

func TestNextBestFilters(t *testing.T) {
	now := time.Date(2025, time.March, 12, 14, 30, 0, 0, time.UTC)
	earlier := time.Date(2025, time.March, 12, 8, 0, 0, 0, time.UTC)
	yesterday := day(2025, time.March, 11)

	workedToday := &model.Item{ID: "w", Title: "Worked", Priority: 5, Status: model.StatusActive, LastWorkedAt: &earlier}
	onHold := &model.Item{ID: "h", Title: "Held", Priority: 5, Status: model.StatusOnHold}
	workedYesterday := &model.Item{ID: "y", Title: "Yesterday", Priority: 2, Status: model.StatusActive, LastWorkedAt: &yesterday}
	plain := &model.Item{ID: "p", Title: "Plain", Priority: 4, Status: model.StatusActive}

	pick := NextBest([]*model.Item{workedToday, onHold, workedYesterday, plain}, now)
	if pick == nil || pick.ID != "p" {
		t.Fatalf("pick=%v, want plain", pick)
	}

	if pick := NextBest([]*model.Item{workedToday, onHold}, now); pick != nil {
		t.Fatalf("expected no recommendation, got %s", pick.ID)
	}
}

func TestQuickWin(t *testing.T) {
	e5, e30 := 5, 30
	small := &model.Item{ID: "s", Title: "Small", Priority: 1, EstimateMinutes: &e5}
	big := &model.Item{ID: "b", Title: "Big", Priority: 5, EstimateMinutes: &e30}
	noEstimate := &model.Item{ID: "n", Title: "No estimate", Priority: 5}

	pick := QuickWin([]*model.Item{big, noEstimate, small})
	if pick == nil || pick.ID != "s" {
		t.Fatalf("pick=%v, want the smallest estimate", pick)
	}

	if pick := QuickWin([]*model.Item{noEstimate}); pick != nil {
		t.Fatalf("items without estimates must never be picked")
	}

	// Equal estimates fall back to the standard order.
	e5b := 5
	urgent := &model.Item{ID: "u", Title: "Urgent", Priority: 5, EstimateMinutes: &e5b}
	pick = QuickWin([]*model.Item{small, urgent})
	if pick == nil || pick.ID != "u" {
		t.Fatalf("pick=%v, want priority tie-break", pick)
	}
}
