package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"task-keeper/internal/model"
	"task-keeper/internal/repository"
	"task-keeper/internal/store"
)

// ItemInput is the data needed to create an item.
type ItemInput struct {
	Kind            model.ListKind
	Title           string
	Notes           string
	Priority        int
	DueDate         *time.Time
	EstimateMinutes *int
	ScheduledDate   *time.Time
	DependencyID    *string
}

// SeriesInput is the data needed to create a recurring series.
type SeriesInput struct {
	Kind          model.ListKind
	Title         string
	Priority      int
	Mode          model.FrequencyMode
	IntervalDays  int
	Weekdays      []time.Weekday
	DueOffsetDays *int
}

// TaskService owns all board mutations. Presentation code never touches the
// collections directly.
type TaskService struct {
	board  *store.Board
	states *repository.StateRepository
}

func NewTaskService(board *store.Board, states *repository.StateRepository) *TaskService {
	return &TaskService{board: board, states: states}
}

func (s *TaskService) Board() *store.Board { return s.board }

func normalizeTitle(title string) (string, error) {
	t := strings.TrimSpace(title)
	if t == "" {
		return "", fmt.Errorf("title is required")
	}
	return t, nil
}

func clampPriority(p int) int {
	if p < model.PriorityMin {
		return 3
	}
	if p > model.PriorityMax {
		return model.PriorityMax
	}
	return p
}

// AddItem creates an item in the backlog, or in the scheduled set when a
// scheduled date defers it.
func (s *TaskService) AddItem(input ItemInput, now time.Time) (*model.Item, error) {
	title, err := normalizeTitle(input.Title)
	if err != nil {
		return nil, err
	}
	kind := input.Kind
	if !kind.IsValid() {
		kind = model.ListKindTask
	}

	it := &model.Item{
		ID:               uuid.NewString(),
		Kind:             kind,
		Title:            title,
		Notes:            input.Notes,
		Priority:         clampPriority(input.Priority),
		DueDate:          input.DueDate,
		EstimateMinutes:  input.EstimateMinutes,
		ScheduledDate:    input.ScheduledDate,
		Status:           model.StatusActive,
		CreatedAt:        now,
		LastPriorityBump: now,
		DependencyID:     input.DependencyID,
	}

	s.board.Apply(func(st *store.State) {
		ls := st.List(kind)
		if it.ScheduledDate != nil {
			ls.Scheduled = append(ls.Scheduled, it)
		} else {
			ls.Backlog = append(ls.Backlog, it)
		}
	})
	return it.Clone(), nil
}

// AddSeries creates a recurring series. LastGenerated starts at now, so the
// first instance appears once the first interval elapses.
func (s *TaskService) AddSeries(input SeriesInput, now time.Time) (*model.RecurringSeries, error) {
	title, err := normalizeTitle(input.Title)
	if err != nil {
		return nil, err
	}
	if !input.Mode.IsValid() {
		return nil, fmt.Errorf("invalid frequency mode: %q", input.Mode)
	}
	if input.Mode == model.FrequencyEveryNDays && input.IntervalDays < 1 {
		return nil, fmt.Errorf("interval must be at least 1 day")
	}
	kind := input.Kind
	if !kind.IsValid() {
		kind = model.ListKindTask
	}

	sr := &model.RecurringSeries{
		ID:            uuid.NewString(),
		Kind:          kind,
		Title:         title,
		Priority:      clampPriority(input.Priority),
		Mode:          input.Mode,
		IntervalDays:  input.IntervalDays,
		Weekdays:      input.Weekdays,
		DueOffsetDays: input.DueOffsetDays,
		LastGenerated: now,
	}

	s.board.Apply(func(st *store.State) {
		st.List(kind).Series = append(st.List(kind).Series, sr)
	})
	return sr.Clone(), nil
}

// StartItem moves a live item into the working set. Completed items stay in
// the graveyard; they come back through RestoreItem only.
func (s *TaskService) StartItem(kind model.ListKind, id string) error {
	var found bool
	s.board.Apply(func(st *store.State) {
		ls := st.List(kind)
		it, c := ls.Find(id)
		if it == nil || c == store.CollectionGraveyard {
			return
		}
		found = true
		if c == store.CollectionWorking {
			return
		}
		ls.Remove(id)
		it.Status = model.StatusActive
		it.ScheduledDate = nil
		ls.PushWorkingFront(it)
	})
	if !found {
		return fmt.Errorf("item %s not found", id)
	}
	return nil
}

// CompleteItem moves the item into the graveyard and unblocks any item that
// was waiting on it: the dependency reference is cleared and, if the
// dependent was on hold, it returns to active. One-level unblocking only.
// References to already-deleted items are left inert.
func (s *TaskService) CompleteItem(kind model.ListKind, id string) (*model.Item, error) {
	var done *model.Item
	s.board.Apply(func(st *store.State) {
		ls := st.List(kind)
		it := ls.Remove(id)
		if it == nil {
			return
		}
		ls.Graveyard = append(ls.Graveyard, it)
		done = it

		for _, other := range st.Lists {
			for _, dep := range append(other.Live(), other.Scheduled...) {
				if dep.DependencyID != nil && *dep.DependencyID == id {
					dep.DependencyID = nil
					if dep.Status == model.StatusOnHold {
						dep.Status = model.StatusActive
					}
				}
			}
		}
	})
	if done == nil {
		return nil, fmt.Errorf("item %s not found", id)
	}
	return done.Clone(), nil
}

// RestoreItem brings a graveyard item back into the backlog.
func (s *TaskService) RestoreItem(kind model.ListKind, id string) error {
	var found bool
	s.board.Apply(func(st *store.State) {
		ls := st.List(kind)
		if it, c := ls.Find(id); it != nil && c == store.CollectionGraveyard {
			ls.Remove(id)
			it.Status = model.StatusActive
			ls.Backlog = append(ls.Backlog, it)
			found = true
		}
	})
	if !found {
		return fmt.Errorf("item %s not found in graveyard", id)
	}
	return nil
}

// DeleteItem removes the item permanently from whichever collection holds it.
func (s *TaskService) DeleteItem(kind model.ListKind, id string) error {
	var found bool
	s.board.Apply(func(st *store.State) {
		found = st.List(kind).Remove(id) != nil
	})
	if !found {
		return fmt.Errorf("item %s not found", id)
	}
	return nil
}

// DeleteSeries removes the series and cascades to every item that references
// it, archived instances included.
func (s *TaskService) DeleteSeries(kind model.ListKind, id string) error {
	var found bool
	s.board.Apply(func(st *store.State) {
		ls := st.List(kind)
		if ls.RemoveSeries(id) == nil {
			return
		}
		found = true
		ls.RemoveItemsBySeries(id)
	})
	if !found {
		return fmt.Errorf("series %s not found", id)
	}
	return nil
}

// HoldItem parks a live item.
func (s *TaskService) HoldItem(kind model.ListKind, id string) error {
	return s.setStatus(kind, id, model.StatusOnHold)
}

// ResumeItem reactivates a held item.
func (s *TaskService) ResumeItem(kind model.ListKind, id string) error {
	return s.setStatus(kind, id, model.StatusActive)
}

func (s *TaskService) setStatus(kind model.ListKind, id string, status model.Status) error {
	var found bool
	s.board.Apply(func(st *store.State) {
		if it, c := st.List(kind).Find(id); it != nil && c != store.CollectionGraveyard {
			it.Status = status
			found = true
		}
	})
	if !found {
		return fmt.Errorf("item %s not found", id)
	}
	return nil
}

// DeferItem pushes a live item into the scheduled set until the given day.
func (s *TaskService) DeferItem(kind model.ListKind, id string, until time.Time) error {
	day := startOfDay(until)
	var found bool
	s.board.Apply(func(st *store.State) {
		ls := st.List(kind)
		it, c := ls.Find(id)
		if it == nil || c == store.CollectionGraveyard {
			return
		}
		ls.Remove(id)
		it.ScheduledDate = &day
		ls.Scheduled = append(ls.Scheduled, it)
		found = true
	})
	if !found {
		return fmt.Errorf("item %s not found", id)
	}
	return nil
}

// MarkWorked stamps the item as worked on, which keeps it out of the next-best
// recommendation for the rest of the day.
func (s *TaskService) MarkWorked(kind model.ListKind, id string, now time.Time) error {
	var found bool
	s.board.Apply(func(st *store.State) {
		if it, c := st.List(kind).Find(id); it != nil && c != store.CollectionGraveyard {
			t := now
			it.LastWorkedAt = &t
			found = true
		}
	})
	if !found {
		return fmt.Errorf("item %s not found", id)
	}
	return nil
}

// AddSubtask appends a checklist entry to a live item.
func (s *TaskService) AddSubtask(kind model.ListKind, itemID, title string) (*model.Subtask, error) {
	clean, err := normalizeTitle(title)
	if err != nil {
		return nil, err
	}
	sub := model.Subtask{ID: uuid.NewString(), Title: clean}
	var found bool
	s.board.Apply(func(st *store.State) {
		if it, c := st.List(kind).Find(itemID); it != nil && c != store.CollectionGraveyard {
			it.Subtasks = append(it.Subtasks, sub)
			found = true
		}
	})
	if !found {
		return nil, fmt.Errorf("item %s not found", itemID)
	}
	return &sub, nil
}

// ToggleSubtask flips the done flag of the n-th checklist entry (1-based).
func (s *TaskService) ToggleSubtask(kind model.ListKind, itemID string, n int) error {
	var found bool
	s.board.Apply(func(st *store.State) {
		it, _ := st.List(kind).Find(itemID)
		if it == nil || n < 1 || n > len(it.Subtasks) {
			return
		}
		it.Subtasks[n-1].Done = !it.Subtasks[n-1].Done
		found = true
	})
	if !found {
		return fmt.Errorf("item %s has no subtask #%d", itemID, n)
	}
	return nil
}

// SetDependency blocks an item on another: the reference is recorded and the
// dependent goes on hold until the blocker completes.
func (s *TaskService) SetDependency(kind model.ListKind, itemID, blockerID string) error {
	if itemID == blockerID {
		return fmt.Errorf("an item cannot depend on itself")
	}
	var found bool
	s.board.Apply(func(st *store.State) {
		it, c := st.List(kind).Find(itemID)
		if it == nil || c == store.CollectionGraveyard {
			return
		}
		ref := blockerID
		it.DependencyID = &ref
		it.Status = model.StatusOnHold
		found = true
	})
	if !found {
		return fmt.Errorf("item %s not found", itemID)
	}
	return nil
}

// SelectTab records which board the user is looking at.
func (s *TaskService) SelectTab(kind model.ListKind) {
	if !kind.IsValid() {
		return
	}
	s.board.Apply(func(st *store.State) {
		st.SelectedTab = kind
	})
}

// Reset clears all collections and deletes the persisted state.
func (s *TaskService) Reset(ctx context.Context) error {
	s.board.Apply(func(st *store.State) {
		st.SelectedTab = model.ListKindTask
		for _, k := range model.Kinds() {
			st.Lists[k] = &store.ListState{}
		}
	})
	if err := s.states.Reset(ctx); err != nil {
		return err
	}
	return nil
}
