package bot

import (
	"context"
	"fmt"
	"html"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"task-keeper/internal/config"
	"task-keeper/internal/model"
	"task-keeper/internal/service"
	"task-keeper/internal/store"
)

const helpText = `<b>task-keeper</b>

/add &lt;title&gt; — add a task to the backlog
  flags anywhere in the title: !1..!5 priority, @YYYY-MM-DD due, ~&lt;min&gt; estimate
/idea &lt;title&gt; — add an idea (same flags)
/sub &lt;id&gt; &lt;title&gt; — add a subtask
/check &lt;id&gt; &lt;n&gt; — toggle the n-th subtask
/dep &lt;id&gt; &lt;blocker-id&gt; — block an item on another
/list — show the current board
/tab task|idea — switch boards
/go &lt;id&gt; — pull an item into the working set
/done &lt;id&gt; — complete an item
/worked &lt;id&gt; — mark an item as worked on today
/hold &lt;id&gt; / /resume &lt;id&gt; — park / reactivate
/defer &lt;id&gt; &lt;YYYY-MM-DD&gt; — hide until a day
/restore &lt;id&gt; — bring back from the graveyard
/del &lt;id&gt; — delete permanently
/next — what to work on now
/quick — lowest hanging fruit
/every &lt;N&gt; &lt;title&gt; — recur every N days
/weekly &lt;mon,thu,...&gt; &lt;title&gt; — recur on weekdays
/series — list recurring series
/delseries &lt;id&gt; — delete a series and its items
/digest — send the daily digest now
/reset — wipe everything (asks to confirm)

Ids may be abbreviated to any unique prefix.`

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday,
	"wed": time.Wednesday, "thu": time.Thursday, "fri": time.Friday,
	"sat": time.Saturday,
}

// Bot is the delivery collaborator: it renders reminders and digests into the
// owner chat and translates chat commands into store mutations.
type Bot struct {
	api       *tgbotapi.BotAPI
	tasks     *service.TaskService
	reminders *service.ReminderService
	config    *config.Config

	mu           sync.Mutex
	pendingReset bool
}

func New(token string, tasks *service.TaskService, reminders *service.ReminderService, cfg *config.Config) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Printf("[info] bot authorized on account %s", api.Self.UserName)

	return &Bot{
		api:       api,
		tasks:     tasks,
		reminders: reminders,
		config:    cfg,
	}, nil
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	log.Println("[info] start polling updates")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			if update.Message.Chat.ID != b.config.OwnerChatID {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// SendDigest delivers the daily digest for the currently selected board.
func (b *Bot) SendDigest(now time.Time) {
	kind := b.selectedTab()
	b.send(b.reminders.DailyDigest(kind, now))
}

// NotifySeriesReminders delivers one stale-series nag per event. Each event
// is fired once per processing pass.
func (b *Bot) NotifySeriesReminders(events []service.ReminderEvent) {
	for _, ev := range events {
		b.send(b.reminders.StaleSeriesReminder(ev))
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if b.consumeResetConfirmation(ctx, msg) {
		return
	}
	if !msg.IsCommand() {
		return
	}

	now := time.Now()
	kind := b.selectedTab()
	args := strings.TrimSpace(msg.CommandArguments())

	switch msg.Command() {
	case "start", "help":
		b.send(helpText)
	case "add":
		b.addItem(model.ListKindTask, args, now)
	case "idea":
		b.addItem(model.ListKindIdea, args, now)
	case "sub":
		b.addSubtask(kind, args)
	case "check":
		b.toggleSubtask(kind, args)
	case "dep":
		b.setDependency(kind, args)
	case "list":
		b.send(b.reminders.DailyDigest(kind, now))
	case "tab":
		b.switchTab(args)
	case "go":
		b.withItem(kind, args, func(id string) error { return b.tasks.StartItem(kind, id) }, "moved to working")
	case "done":
		b.withItem(kind, args, func(id string) error {
			_, err := b.tasks.CompleteItem(kind, id)
			return err
		}, "completed")
	case "worked":
		b.withItem(kind, args, func(id string) error { return b.tasks.MarkWorked(kind, id, now) }, "marked as worked on")
	case "hold":
		b.withItem(kind, args, func(id string) error { return b.tasks.HoldItem(kind, id) }, "on hold")
	case "resume":
		b.withItem(kind, args, func(id string) error { return b.tasks.ResumeItem(kind, id) }, "active again")
	case "defer":
		b.deferItem(kind, args)
	case "restore":
		b.withItem(kind, args, func(id string) error { return b.tasks.RestoreItem(kind, id) }, "restored to backlog")
	case "del":
		b.withItem(kind, args, func(id string) error { return b.tasks.DeleteItem(kind, id) }, "deleted")
	case "next":
		b.recommend(kind, now)
	case "quick":
		b.quickWin(kind)
	case "every":
		b.addEveryNDays(kind, args, now)
	case "weekly":
		b.addWeekly(kind, args, now)
	case "series":
		b.listSeries(kind, now)
	case "delseries":
		b.deleteSeries(kind, args)
	case "digest":
		b.send(b.reminders.DailyDigest(kind, now))
	case "reset":
		b.requestReset()
	default:
		b.send("Unknown command. /help lists what I understand.")
	}
}

func (b *Bot) addItem(kind model.ListKind, args string, now time.Time) {
	input := parseItemArgs(kind, args)
	it, err := b.tasks.AddItem(input, now)
	if err != nil {
		b.sendError(err)
		return
	}
	b.send(fmt.Sprintf("Added <b>%s</b> (P%d) to the %s backlog (%s).",
		html.EscapeString(it.Title), it.Priority, kind, shortID(it.ID)))
}

// parseItemArgs pulls inline flags out of the title: !N priority, @YYYY-MM-DD
// due date, ~N estimate in minutes. Unrecognized flags stay in the title.
func parseItemArgs(kind model.ListKind, args string) service.ItemInput {
	input := service.ItemInput{Kind: kind, Priority: 3}

	var titleWords []string
	for _, word := range strings.Fields(args) {
		switch {
		case strings.HasPrefix(word, "!") && len(word) == 2:
			if p, err := strconv.Atoi(word[1:]); err == nil && p >= model.PriorityMin && p <= model.PriorityMax {
				input.Priority = p
				continue
			}
		case strings.HasPrefix(word, "@"):
			if due, err := time.ParseInLocation("2006-01-02", word[1:], time.Local); err == nil {
				d := due
				input.DueDate = &d
				continue
			}
		case strings.HasPrefix(word, "~"):
			if est, err := strconv.Atoi(word[1:]); err == nil && est > 0 {
				input.EstimateMinutes = &est
				continue
			}
		}
		titleWords = append(titleWords, word)
	}
	input.Title = strings.Join(titleWords, " ")
	return input
}

func (b *Bot) addSubtask(kind model.ListKind, args string) {
	fields := strings.SplitN(args, " ", 2)
	if len(fields) != 2 {
		b.send("Usage: /sub <id> <title>")
		return
	}
	id, err := b.resolveItemID(kind, fields[0])
	if err != nil {
		b.sendError(err)
		return
	}
	sub, err := b.tasks.AddSubtask(kind, id, fields[1])
	if err != nil {
		b.sendError(err)
		return
	}
	b.send(fmt.Sprintf("Subtask <b>%s</b> added to %s.", html.EscapeString(sub.Title), shortID(id)))
}

func (b *Bot) toggleSubtask(kind model.ListKind, args string) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		b.send("Usage: /check <id> <n>")
		return
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil {
		b.send("The subtask number must be a whole number.")
		return
	}
	id, err := b.resolveItemID(kind, fields[0])
	if err != nil {
		b.sendError(err)
		return
	}
	if err := b.tasks.ToggleSubtask(kind, id, n); err != nil {
		b.sendError(err)
		return
	}
	b.send(fmt.Sprintf("Toggled subtask #%d on %s.", n, shortID(id)))
}

func (b *Bot) setDependency(kind model.ListKind, args string) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		b.send("Usage: /dep <id> <blocker-id>")
		return
	}
	id, err := b.resolveItemID(kind, fields[0])
	if err != nil {
		b.sendError(err)
		return
	}
	blockerID, err := b.resolveItemID(kind, fields[1])
	if err != nil {
		b.sendError(err)
		return
	}
	if err := b.tasks.SetDependency(kind, id, blockerID); err != nil {
		b.sendError(err)
		return
	}
	b.send(fmt.Sprintf("Item %s is on hold until %s completes.", shortID(id), shortID(blockerID)))
}

func (b *Bot) switchTab(args string) {
	kind := model.ListKind(strings.ToLower(args))
	if !kind.IsValid() {
		b.send("Usage: /tab task|idea")
		return
	}
	b.tasks.SelectTab(kind)
	b.send(fmt.Sprintf("Now on the %s board.", kind))
}

func (b *Bot) withItem(kind model.ListKind, prefix string, op func(id string) error, doneMsg string) {
	id, err := b.resolveItemID(kind, prefix)
	if err != nil {
		b.sendError(err)
		return
	}
	if err := op(id); err != nil {
		b.sendError(err)
		return
	}
	b.send(fmt.Sprintf("Item %s %s.", shortID(id), doneMsg))
}

func (b *Bot) deferItem(kind model.ListKind, args string) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		b.send("Usage: /defer <id> <YYYY-MM-DD>")
		return
	}
	day, err := time.ParseInLocation("2006-01-02", fields[1], time.Local)
	if err != nil {
		b.send("I could not read that date; use YYYY-MM-DD.")
		return
	}
	id, err := b.resolveItemID(kind, fields[0])
	if err != nil {
		b.sendError(err)
		return
	}
	if err := b.tasks.DeferItem(kind, id, day); err != nil {
		b.sendError(err)
		return
	}
	b.send(fmt.Sprintf("Item %s deferred until %s.", shortID(id), day.Format("2006-01-02")))
}

func (b *Bot) recommend(kind model.ListKind, now time.Time) {
	pick := b.tasks.NextBest(kind, now)
	if pick == nil {
		b.send("Nothing to recommend — everything is either done, on hold, or already worked today.")
		return
	}
	b.send(fmt.Sprintf("🎯 Work on <b>%s</b> (P%d, %s).", html.EscapeString(pick.Title), pick.Priority, shortID(pick.ID)))
}

func (b *Bot) quickWin(kind model.ListKind) {
	pick := b.tasks.QuickWin(kind)
	if pick == nil {
		b.send("No items with an estimate on this board.")
		return
	}
	b.send(fmt.Sprintf("🍒 <b>%s</b> should take ~%dm (%s).", html.EscapeString(pick.Title), *pick.EstimateMinutes, shortID(pick.ID)))
}

func (b *Bot) addEveryNDays(kind model.ListKind, args string, now time.Time) {
	fields := strings.SplitN(args, " ", 2)
	if len(fields) != 2 {
		b.send("Usage: /every <N> <title>")
		return
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 1 {
		b.send("The interval must be a whole number of days, at least 1.")
		return
	}
	sr, err := b.tasks.AddSeries(service.SeriesInput{
		Kind:         kind,
		Title:        fields[1],
		Priority:     3,
		Mode:         model.FrequencyEveryNDays,
		IntervalDays: n,
	}, now)
	if err != nil {
		b.sendError(err)
		return
	}
	b.send(fmt.Sprintf("Recurring every %d day(s): <b>%s</b> (%s).", n, html.EscapeString(sr.Title), shortID(sr.ID)))
}

func (b *Bot) addWeekly(kind model.ListKind, args string, now time.Time) {
	fields := strings.SplitN(args, " ", 2)
	if len(fields) != 2 {
		b.send("Usage: /weekly <mon,thu,...> <title>")
		return
	}
	var days []time.Weekday
	for _, raw := range strings.Split(fields[0], ",") {
		wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(raw))]
		if !ok {
			b.send(fmt.Sprintf("Unknown weekday %q — use mon..sun.", raw))
			return
		}
		days = append(days, wd)
	}
	sr, err := b.tasks.AddSeries(service.SeriesInput{
		Kind:     kind,
		Title:    fields[1],
		Priority: 3,
		Mode:     model.FrequencyWeeklyOnDays,
		Weekdays: days,
	}, now)
	if err != nil {
		b.sendError(err)
		return
	}
	b.send(fmt.Sprintf("Recurring on %s: <b>%s</b> (%s).", fields[0], html.EscapeString(sr.Title), shortID(sr.ID)))
}

func (b *Bot) listSeries(kind model.ListKind, now time.Time) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("♻️ <b>Series on the %s board</b>\n", kind))
	count := 0
	b.tasks.Board().View(func(st *store.State) {
		for _, sr := range st.List(kind).Series {
			count++
			next := "inactive"
			if occ, ok := service.NextOccurrence(sr, now); ok {
				next = occ.Format("2006-01-02")
			}
			sb.WriteString(fmt.Sprintf("%s — next %s (%s)\n", html.EscapeString(sr.Title), next, shortID(sr.ID)))
		}
	})
	if count == 0 {
		b.send("No recurring series on this board.")
		return
	}
	b.send(strings.TrimSpace(sb.String()))
}

func (b *Bot) deleteSeries(kind model.ListKind, prefix string) {
	id, err := b.resolveSeriesID(kind, prefix)
	if err != nil {
		b.sendError(err)
		return
	}
	if err := b.tasks.DeleteSeries(kind, id); err != nil {
		b.sendError(err)
		return
	}
	b.send(fmt.Sprintf("Series %s and all its items are gone.", shortID(id)))
}

func (b *Bot) requestReset() {
	b.mu.Lock()
	b.pendingReset = true
	b.mu.Unlock()
	b.send("This wipes every list and the saved state. Reply <b>yes</b> to confirm, anything else to cancel.")
}

func (b *Bot) consumeResetConfirmation(ctx context.Context, msg *tgbotapi.Message) bool {
	b.mu.Lock()
	pending := b.pendingReset
	b.pendingReset = false
	b.mu.Unlock()

	if !pending || msg.IsCommand() {
		if pending && msg.IsCommand() {
			b.send("Reset cancelled.")
		}
		return false
	}
	if strings.EqualFold(strings.TrimSpace(msg.Text), "yes") {
		if err := b.tasks.Reset(ctx); err != nil {
			b.sendError(err)
			return true
		}
		b.send("Everything wiped. Fresh start.")
	} else {
		b.send("Reset cancelled.")
	}
	return true
}

func (b *Bot) resolveItemID(kind model.ListKind, prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", fmt.Errorf("which item? give me an id prefix")
	}
	var matches []string
	b.tasks.Board().View(func(st *store.State) {
		ls := st.List(kind)
		for _, items := range [][]*model.Item{ls.Backlog, ls.Working, ls.Scheduled, ls.Graveyard} {
			for _, it := range items {
				if strings.HasPrefix(it.ID, prefix) {
					matches = append(matches, it.ID)
				}
			}
		}
	})
	return onlyMatch(matches, prefix)
}

func (b *Bot) resolveSeriesID(kind model.ListKind, prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", fmt.Errorf("which series? give me an id prefix")
	}
	var matches []string
	b.tasks.Board().View(func(st *store.State) {
		for _, sr := range st.List(kind).Series {
			if strings.HasPrefix(sr.ID, prefix) {
				matches = append(matches, sr.ID)
			}
		}
	})
	return onlyMatch(matches, prefix)
}

func onlyMatch(matches []string, prefix string) (string, error) {
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("nothing matches %q", prefix)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%q is ambiguous (%d matches), give more characters", prefix, len(matches))
	}
}

func (b *Bot) selectedTab() model.ListKind {
	kind := model.ListKindTask
	b.tasks.Board().View(func(st *store.State) {
		kind = st.SelectedTab
	})
	return kind
}

func (b *Bot) send(text string) {
	msg := tgbotapi.NewMessage(b.config.OwnerChatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("[warn] send message: %v", err)
	}
}

func (b *Bot) sendError(err error) {
	b.send("⚠️ " + html.EscapeString(err.Error()))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
