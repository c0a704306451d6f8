package service

import (
	"sort"
	"strings"
	"time"

	"task-keeper/internal/model"
)

// itemLess is the single ordering used for list display and recommendation:
// due-date-bearing items first (earlier day wins), then higher priority, then
// case-insensitive title. It is a strict weak ordering, which "pick first
// after filter" relies on.
func itemLess(a, b *model.Item) bool {
	switch {
	case a.DueDate != nil && b.DueDate == nil:
		return true
	case a.DueDate == nil && b.DueDate != nil:
		return false
	case a.DueDate != nil && b.DueDate != nil:
		da, db := startOfDay(*a.DueDate), startOfDay(*b.DueDate)
		if !da.Equal(db) {
			return da.Before(db)
		}
	}
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	return strings.ToLower(a.Title) < strings.ToLower(b.Title)
}

// SortItems orders a slice in place by the standard policy.
func SortItems(items []*model.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return itemLess(items[i], items[j])
	})
}

// NextBest picks the top recommendation: the first item by the standard
// order, skipping anything already worked today and anything on hold.
func NextBest(items []*model.Item, now time.Time) *model.Item {
	var candidates []*model.Item
	for _, it := range items {
		if it.Status == model.StatusOnHold {
			continue
		}
		if it.LastWorkedAt != nil && sameDay(*it.LastWorkedAt, now) {
			continue
		}
		candidates = append(candidates, it)
	}
	if len(candidates) == 0 {
		return nil
	}
	SortItems(candidates)
	return candidates[0]
}

// QuickWin picks the lowest-hanging fruit: among items with an estimate,
// the smallest estimate wins, ties broken by the standard order.
func QuickWin(items []*model.Item) *model.Item {
	var candidates []*model.Item
	for _, it := range items {
		if it.EstimateMinutes != nil {
			candidates = append(candidates, it)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if *a.EstimateMinutes != *b.EstimateMinutes {
			return *a.EstimateMinutes < *b.EstimateMinutes
		}
		return itemLess(a, b)
	})
	return candidates[0]
}
