package service

import (
	"fmt"
	"html"
	"strings"
	"time"

	"task-keeper/internal/model"
	"task-keeper/internal/store"
)

const (
	iconDefault   = "🟢"
	iconDue       = "⏳"
	iconOverdue   = "⚠️"
	iconOnHold    = "⏸️"
	iconRecurring = "♻️"
	iconScheduled = "📅"
)

// ReminderService builds human-readable digests for the daily notifications.
// It only reads board snapshots; delivery belongs to the bot.
type ReminderService struct {
	board *store.Board
}

func NewReminderService(board *store.Board) *ReminderService {
	return &ReminderService{board: board}
}

// DailyDigest renders the state of one board kind: working set and backlog in
// policy order, the top recommendation, deferred items, and upcoming series.
func (s *ReminderService) DailyDigest(kind model.ListKind, now time.Time) string {
	var builder strings.Builder

	s.board.View(func(st *store.State) {
		ls := st.List(kind)

		builder.WriteString(fmt.Sprintf("📋 <b>Daily digest — %ss</b>\n", kind))
		builder.WriteString(fmt.Sprintf("🗓 %s\n\n", now.Format("Mon, 02 Jan 2006")))

		working := append([]*model.Item(nil), ls.Working...)
		SortItems(working)
		builder.WriteString("🔥 <b>In progress</b>\n")
		writeItemLines(&builder, working, now)

		backlog := append([]*model.Item(nil), ls.Backlog...)
		SortItems(backlog)
		builder.WriteString("\n🗂 <b>Backlog</b>\n")
		writeItemLines(&builder, backlog, now)

		if pick := NextBest(ls.Live(), now); pick != nil {
			builder.WriteString(fmt.Sprintf("\n🎯 <b>Up next:</b> %s\n", html.EscapeString(pick.Title)))
		}

		if len(ls.Scheduled) > 0 {
			builder.WriteString(fmt.Sprintf("\n%s <b>Deferred</b>\n", iconScheduled))
			for _, it := range ls.Scheduled {
				line := html.EscapeString(strings.TrimSpace(it.Title))
				if it.ScheduledDate != nil {
					line += fmt.Sprintf(" · from %s", it.ScheduledDate.Format("2006-01-02"))
				}
				builder.WriteString(fmt.Sprintf("%s %s\n", iconScheduled, line))
			}
		}

		if len(ls.Series) > 0 {
			builder.WriteString(fmt.Sprintf("\n%s <b>Recurring</b>\n", iconRecurring))
			for _, sr := range ls.Series {
				builder.WriteString(formatSeries(sr, now))
			}
		}
	})

	return strings.TrimSpace(builder.String())
}

// StaleSeriesReminder renders the one-shot nag for a series whose previous
// instance is still unresolved.
func (s *ReminderService) StaleSeriesReminder(ev ReminderEvent) string {
	return fmt.Sprintf("%s <b>%s</b> is due again, but the previous one is still open on the %s board.",
		iconRecurring, html.EscapeString(ev.Title), ev.Kind)
}

func writeItemLines(builder *strings.Builder, items []*model.Item, now time.Time) {
	if len(items) == 0 {
		builder.WriteString("— nothing here\n")
		return
	}
	for _, it := range items {
		builder.WriteString(formatItem(it, now))
	}
}

func formatItem(it *model.Item, now time.Time) string {
	var sb strings.Builder

	icon := iconDefault
	if it.Status == model.StatusOnHold {
		icon = iconOnHold
	} else if it.DueDate != nil {
		due := startOfDay(*it.DueDate)
		switch {
		case startOfDay(now).After(due):
			icon = iconOverdue
		case due.Sub(startOfDay(now)) <= 48*time.Hour:
			icon = iconDue
		}
	}

	title := html.EscapeString(strings.TrimSpace(it.Title))
	sb.WriteString(fmt.Sprintf("%s P%d %s", icon, it.Priority, title))

	if it.DueDate != nil {
		due := startOfDay(*it.DueDate)
		if startOfDay(now).After(due) {
			sb.WriteString(fmt.Sprintf(" · due %s — <b>overdue</b>", due.Format("2006-01-02")))
		} else {
			sb.WriteString(fmt.Sprintf(" · due %s", due.Format("2006-01-02")))
		}
	}
	if it.EstimateMinutes != nil {
		sb.WriteString(fmt.Sprintf(" · ~%dm", *it.EstimateMinutes))
	}
	if it.SeriesID != nil {
		sb.WriteString(" " + iconRecurring)
	}

	sb.WriteByte('\n')
	return sb.String()
}

func formatSeries(sr *model.RecurringSeries, now time.Time) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s %s", iconRecurring, html.EscapeString(strings.TrimSpace(sr.Title))))
	if next, ok := NextOccurrence(sr, now); ok {
		sb.WriteString(fmt.Sprintf(" · next %s", next.Format("2006-01-02")))
	} else {
		sb.WriteString(" · inactive")
	}
	sb.WriteByte('\n')
	return sb.String()
}
