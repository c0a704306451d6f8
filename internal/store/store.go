package store

import (
	"sync"

	"task-keeper/internal/model"
)

// Collection names the four sub-collections each list kind owns.
type Collection string

const (
	CollectionBacklog   Collection = "backlog"
	CollectionWorking   Collection = "working"
	CollectionGraveyard Collection = "graveyard"
	CollectionScheduled Collection = "scheduled"
)

// ListState groups the collections for one list kind. An item lives in
// exactly one of the four item slices at a time.
type ListState struct {
	Backlog   []*model.Item
	Working   []*model.Item
	Graveyard []*model.Item
	Scheduled []*model.Item
	Series    []*model.RecurringSeries
}

// State is the full board: both list kinds plus the selected tab.
type State struct {
	SelectedTab model.ListKind
	Lists       map[model.ListKind]*ListState
}

func NewState() *State {
	s := &State{
		SelectedTab: model.ListKindTask,
		Lists:       make(map[model.ListKind]*ListState),
	}
	for _, k := range model.Kinds() {
		s.Lists[k] = &ListState{}
	}
	return s
}

// List returns the collections for the given kind, creating them on first
// touch so loaded legacy state never leaves a kind nil.
func (s *State) List(kind model.ListKind) *ListState {
	ls, ok := s.Lists[kind]
	if !ok {
		ls = &ListState{}
		if s.Lists == nil {
			s.Lists = make(map[model.ListKind]*ListState)
		}
		s.Lists[kind] = ls
	}
	return ls
}

// Clone deep-copies the state. Readers and the persister only ever see
// clones; store-owned items are never shared outside the board lock.
func (s *State) Clone() *State {
	cp := &State{
		SelectedTab: s.SelectedTab,
		Lists:       make(map[model.ListKind]*ListState, len(s.Lists)),
	}
	for k, ls := range s.Lists {
		cp.Lists[k] = &ListState{
			Backlog:   cloneItems(ls.Backlog),
			Working:   cloneItems(ls.Working),
			Graveyard: cloneItems(ls.Graveyard),
			Scheduled: cloneItems(ls.Scheduled),
			Series:    cloneSeries(ls.Series),
		}
	}
	return cp
}

func cloneItems(items []*model.Item) []*model.Item {
	if items == nil {
		return nil
	}
	out := make([]*model.Item, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}

func cloneSeries(series []*model.RecurringSeries) []*model.RecurringSeries {
	if series == nil {
		return nil
	}
	out := make([]*model.RecurringSeries, len(series))
	for i, sr := range series {
		out[i] = sr.Clone()
	}
	return out
}

// Board owns all items and series. Every mutation goes through Apply, which
// serializes writers and fires the change hook with a snapshot. The bot
// goroutine and cron jobs both touch the board, so the single-writer rule is
// enforced with a real lock.
type Board struct {
	mu       sync.Mutex
	state    *State
	onChange func(*State)
}

func NewBoard() *Board {
	return &Board{state: NewState()}
}

// OnChange registers the change subscriber (the debounced persister). Must be
// called during wiring, before any mutation.
func (b *Board) OnChange(fn func(*State)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onChange = fn
}

// Apply runs fn on the live state under the board lock, then notifies the
// change subscriber with a snapshot. The notification also happens under the
// lock so concurrent mutators deliver snapshots in mutation order and the
// persister never ends up holding a stale one. The hook must not call back
// into the board.
func (b *Board) Apply(fn func(*State)) {
	b.mu.Lock()
	defer b.mu.Unlock()

	fn(b.state)
	if b.onChange != nil {
		b.onChange(b.state.Clone())
	}
}

// View runs fn on a snapshot. Presentation code reads through here and can
// never mutate store-owned state.
func (b *Board) View(fn func(*State)) {
	fn(b.Snapshot())
}

func (b *Board) Snapshot() *State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.Clone()
}

// ReplaceState installs loaded state wholesale. Used once at launch, before
// the persister subscribes; it does not fire the change hook.
func (b *Board) ReplaceState(s *State) {
	if s == nil {
		s = NewState()
	}
	for _, k := range model.Kinds() {
		s.List(k)
	}
	if !s.SelectedTab.IsValid() {
		s.SelectedTab = model.ListKindTask
	}
	b.mu.Lock()
	b.state = s
	b.mu.Unlock()
}
