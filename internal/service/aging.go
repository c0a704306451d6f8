package service

import (
	"time"

	"task-keeper/internal/model"
)

// agePriorities escalates items left untouched across calendar months. Each
// whole elapsed month adds one priority step, capped at PriorityAgingCap —
// priority 5 stays reserved for manual escalation. LastPriorityBump advances
// by exactly the consumed months rather than resetting to now, so the
// fractional remainder keeps counting toward the next step. Re-running at the
// same instant is a no-op once the advance has been applied.
func agePriorities(items []*model.Item, now time.Time) {
	for _, it := range items {
		if it.Status != model.StatusActive || it.Priority >= model.PriorityMax {
			continue
		}
		months := monthsBetween(it.LastPriorityBump, now)
		if months < 1 {
			continue
		}
		bumped := it.Priority + months
		if bumped > model.PriorityAgingCap {
			bumped = model.PriorityAgingCap
		}
		if bumped > it.Priority {
			it.Priority = bumped
		}
		it.LastPriorityBump = it.LastPriorityBump.AddDate(0, months, 0)
	}
}
