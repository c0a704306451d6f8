package service

import (
	"time"

	"github.com/google/uuid"

	"task-keeper/internal/model"
	"task-keeper/internal/store"
)

// ReminderEvent asks the notification collaborator to nag about a series
// whose previous instance is still unresolved. The engine never performs
// delivery itself.
type ReminderEvent struct {
	SeriesID string
	Title    string
	Kind     model.ListKind
}

// NextOccurrence computes when the series is next due. The second return is
// false when the series can never fire (weekly mode with no weekdays
// configured) — that is an inactive series, not an error.
func NextOccurrence(s *model.RecurringSeries, now time.Time) (time.Time, bool) {
	base := startOfDay(s.LastGenerated)
	switch s.Mode {
	case model.FrequencyEveryNDays:
		interval := s.IntervalDays
		if interval < 1 {
			interval = 1
		}
		return base.AddDate(0, 0, interval), true
	case model.FrequencyWeeklyOnDays:
		if len(s.Weekdays) == 0 {
			return time.Time{}, false
		}
		for offset := 1; offset <= 7; offset++ {
			candidate := base.AddDate(0, 0, offset)
			if s.HasWeekday(candidate.Weekday()) {
				return candidate, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

// processSeries runs the generate-vs-remind decision for every series of one
// list kind. For each due series it either spawns a fresh working item and
// advances LastGenerated, or — if a live instance of the series still exists
// anywhere outside the graveyard — emits a reminder event and leaves all
// state untouched.
// Running it twice on the same day is safe: LastGenerated only moves on
// generation, and an unresolved instance keeps producing reminders instead of
// being silently skipped.
func processSeries(ls *store.ListState, now time.Time) []ReminderEvent {
	var events []ReminderEvent
	today := startOfDay(now)

	for _, s := range ls.Series {
		next, ok := NextOccurrence(s, now)
		if !ok || startOfDay(next).After(today) {
			continue
		}
		if ls.FindLiveBySeries(s.ID) != nil {
			events = append(events, ReminderEvent{SeriesID: s.ID, Title: s.Title, Kind: s.Kind})
			continue
		}
		ls.PushWorkingFront(spawnFromSeries(s, now))
		s.LastGenerated = now
	}
	return events
}

// spawnFromSeries instantiates the series template as a concrete item.
func spawnFromSeries(s *model.RecurringSeries, now time.Time) *model.Item {
	seriesID := s.ID
	it := &model.Item{
		ID:               uuid.NewString(),
		Kind:             s.Kind,
		Title:            s.Title,
		Priority:         s.Priority,
		Status:           model.StatusActive,
		CreatedAt:        now,
		LastPriorityBump: now,
		SeriesID:         &seriesID,
	}
	if s.DueOffsetDays != nil {
		due := startOfDay(now).AddDate(0, 0, *s.DueOffsetDays)
		it.DueDate = &due
	}
	return it
}
