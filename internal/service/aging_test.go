package service

import (
	"testing"
	"time"

	"task-keeper/internal/model"
)

func agedItem(priority int, bump time.Time) *model.Item {
	return &model.Item{
		ID:               "i1",
		Title:            "Stale thing",
		Priority:         priority,
		Status:           model.StatusActive,
		LastPriorityBump: bump,
	}
}

func TestAgingStaircase(t *testing.T) {
	it := agedItem(2, day(2025, time.January, 15))

	agePriorities([]*model.Item{it}, day(2025, time.March, 20))
	if it.Priority != 4 {
		t.Fatalf("priority=%d, want 4 after two elapsed months", it.Priority)
	}
	if want := day(2025, time.March, 15); !it.LastPriorityBump.Equal(want) {
		t.Fatalf("bump=%v, want %v (advanced by exactly 2 months, remainder kept)", it.LastPriorityBump, want)
	}
}

func TestAgingIdempotentWithinWindow(t *testing.T) {
	it := agedItem(2, day(2025, time.January, 15))
	now := day(2025, time.February, 20)

	agePriorities([]*model.Item{it}, now)
	if it.Priority != 3 {
		t.Fatalf("priority=%d, want 3", it.Priority)
	}
	bump := it.LastPriorityBump

	agePriorities([]*model.Item{it}, now)
	if it.Priority != 3 || !it.LastPriorityBump.Equal(bump) {
		t.Fatalf("second run at the same instant must be a no-op")
	}
}

func TestAgingNeverReachesFive(t *testing.T) {
	it := agedItem(1, day(2023, time.January, 1))

	agePriorities([]*model.Item{it}, day(2025, time.June, 1))
	if it.Priority != model.PriorityAgingCap {
		t.Fatalf("priority=%d, want cap %d", it.Priority, model.PriorityAgingCap)
	}

	manual := agedItem(5, day(2023, time.January, 1))
	agePriorities([]*model.Item{manual}, day(2025, time.June, 1))
	if manual.Priority != 5 {
		t.Fatalf("manually escalated items must not be touched")
	}
}

func TestAgingSkipsOnHoldAndFresh(t *testing.T) {
	held := agedItem(2, day(2025, time.January, 15))
	held.Status = model.StatusOnHold
	fresh := agedItem(2, day(2025, time.March, 5))

	agePriorities([]*model.Item{held, fresh}, day(2025, time.March, 20))
	if held.Priority != 2 {
		t.Fatalf("onHold item aged: priority=%d", held.Priority)
	}
	if fresh.Priority != 2 {
		t.Fatalf("fresh item aged: priority=%d", fresh.Priority)
	}
}

func TestMonthsBetweenDayBoundary(t *testing.T) {
	from := day(2025, time.January, 31)
	if got := monthsBetween(from, day(2025, time.February, 28)); got != 0 {
		t.Fatalf("monthsBetween=%d, want 0 before the day boundary", got)
	}
	if got := monthsBetween(from, day(2025, time.March, 31)); got != 2 {
		t.Fatalf("monthsBetween=%d, want 2", got)
	}
	if got := monthsBetween(from, from); got != 0 {
		t.Fatalf("monthsBetween(x, x)=%d, want 0", got)
	}
}
