package service

import (
	"time"

	"task-keeper/internal/model"
	"task-keeper/internal/store"
)

// Tick is the explicit entry point the host calls at launch and on every
// scheduled wake-up, standing in for app-foreground events. Order matters:
// due deferred items are promoted first so freshly active items take part in
// the recurrence and aging passes, then due series generate or remind, then
// stale priorities age. The whole pass runs atomically under the board lock.
func (s *TaskService) Tick(now time.Time) []ReminderEvent {
	var events []ReminderEvent
	s.board.Apply(func(st *store.State) {
		for _, kind := range model.Kinds() {
			ls := st.List(kind)
			promoteScheduled(ls, now)
			events = append(events, processSeries(ls, now)...)
			agePriorities(ls.Live(), now)
		}
	})
	return events
}

// NextBest returns the top recommendation for the kind, or nil when nothing
// qualifies.
func (s *TaskService) NextBest(kind model.ListKind, now time.Time) *model.Item {
	var pick *model.Item
	s.board.View(func(st *store.State) {
		pick = NextBest(st.List(kind).Live(), now)
	})
	return pick
}

// QuickWin returns the smallest-estimate recommendation for the kind, or nil.
func (s *TaskService) QuickWin(kind model.ListKind) *model.Item {
	var pick *model.Item
	s.board.View(func(st *store.State) {
		pick = QuickWin(st.List(kind).Live())
	})
	return pick
}
