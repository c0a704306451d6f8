package service

import (
	"time"

	"task-keeper/internal/model"
	"task-keeper/internal/store"
)

// promoteScheduled moves deferred items whose scheduled day has arrived into
// the front of the working set, clearing the deferral and reactivating them.
// An id already present in the working set is never inserted twice, so
// repeated triggers within the same day stay idempotent. A series instance
// stays deferred while another working item holds the same series reference;
// it promotes once that one resolves.
func promoteScheduled(ls *store.ListState, now time.Time) {
	today := startOfDay(now)

	var remaining []*model.Item
	for _, it := range ls.Scheduled {
		if it.ScheduledDate == nil || startOfDay(*it.ScheduledDate).After(today) {
			remaining = append(remaining, it)
			continue
		}
		if ls.FindWorking(it.ID) != nil {
			continue
		}
		if it.SeriesID != nil && ls.FindWorkingBySeries(*it.SeriesID) != nil {
			remaining = append(remaining, it)
			continue
		}
		it.ScheduledDate = nil
		it.Status = model.StatusActive
		ls.PushWorkingFront(it)
	}
	ls.Scheduled = remaining
}
