package store

import (
	"testing"
	"time"

	"task-keeper/internal/model"
)

func TestApplyNotifiesWithSnapshot(t *testing.T) {
	b := NewBoard()

	var got *State
	b.OnChange(func(snap *State) { got = snap })

	b.Apply(func(st *State) {
		st.List(model.ListKindTask).Backlog = append(st.List(model.ListKindTask).Backlog, &model.Item{ID: "i1", Title: "First"})
	})

	if got == nil {
		t.Fatalf("change hook did not fire")
	}
	if len(got.List(model.ListKindTask).Backlog) != 1 {
		t.Fatalf("snapshot missing the mutation")
	}

	// The snapshot is a deep copy: mutating it must not leak into the board.
	got.List(model.ListKindTask).Backlog[0].Title = "Tampered"
	if b.Snapshot().List(model.ListKindTask).Backlog[0].Title != "First" {
		t.Fatalf("snapshot aliases store-owned state")
	}
}

func TestApplyNotifiesInMutationOrder(t *testing.T) {
	b := NewBoard()

	// The hook fires before the board lock is released: a concurrent Apply
	// cannot slip its snapshot in between, so the subscriber always holds
	// the newest state.
	var locked bool
	b.OnChange(func(*State) {
		locked = !b.mu.TryLock()
		if !locked {
			b.mu.Unlock()
		}
	})

	b.Apply(func(st *State) {
		st.SelectedTab = model.ListKindIdea
	})

	if !locked {
		t.Fatalf("change hook must run under the board lock")
	}
}

func TestRemoveThenInsertKeepsMembershipExclusive(t *testing.T) {
	ls := &ListState{
		Backlog: []*model.Item{{ID: "i1", Title: "Move me"}},
	}

	it := ls.Remove("i1")
	if it == nil {
		t.Fatalf("Remove returned nil")
	}
	ls.PushWorkingFront(it)

	if len(ls.Backlog) != 0 || len(ls.Working) != 1 {
		t.Fatalf("backlog=%d working=%d, want 0/1", len(ls.Backlog), len(ls.Working))
	}
	if _, c := ls.Find("i1"); c != CollectionWorking {
		t.Fatalf("item found in %q, want working", c)
	}
}

func TestFindWorkingBySeries(t *testing.T) {
	s1 := "s1"
	ls := &ListState{
		Working:   []*model.Item{{ID: "a", SeriesID: &s1}},
		Graveyard: []*model.Item{{ID: "b", SeriesID: &s1}},
	}

	if got := ls.FindWorkingBySeries("s1"); got == nil || got.ID != "a" {
		t.Fatalf("got %v, want the working instance", got)
	}
	if ls.FindWorkingBySeries("s2") != nil {
		t.Fatalf("unknown series must not match")
	}
}

func TestRemoveItemsBySeries(t *testing.T) {
	s1, s2 := "s1", "s2"
	ls := &ListState{
		Backlog:   []*model.Item{{ID: "a", SeriesID: &s1}, {ID: "b"}},
		Working:   []*model.Item{{ID: "c", SeriesID: &s1}},
		Graveyard: []*model.Item{{ID: "d", SeriesID: &s1}, {ID: "e", SeriesID: &s2}},
	}

	if n := ls.RemoveItemsBySeries("s1"); n != 3 {
		t.Fatalf("removed %d, want 3", n)
	}
	if len(ls.Backlog) != 1 || len(ls.Working) != 0 || len(ls.Graveyard) != 1 {
		t.Fatalf("unexpected leftovers: %+v", ls)
	}
}

func TestReplaceStateNormalizes(t *testing.T) {
	b := NewBoard()
	b.ReplaceState(&State{SelectedTab: "bogus", Lists: map[model.ListKind]*ListState{}})

	snap := b.Snapshot()
	if snap.SelectedTab != model.ListKindTask {
		t.Fatalf("invalid selected tab must fall back to task")
	}
	for _, k := range model.Kinds() {
		if snap.Lists[k] == nil {
			t.Fatalf("kind %s missing after normalization", k)
		}
	}

	b.ReplaceState(nil)
	if b.Snapshot() == nil {
		t.Fatalf("nil state must become a fresh board")
	}
}

func TestCloneCopiesOptionals(t *testing.T) {
	due := time.Date(2025, time.March, 12, 0, 0, 0, 0, time.UTC)
	est := 15
	it := &model.Item{ID: "i1", Title: "X", DueDate: &due, EstimateMinutes: &est,
		Subtasks: []model.Subtask{{ID: "s", Title: "sub"}}}

	cp := it.Clone()
	*cp.DueDate = cp.DueDate.AddDate(0, 0, 5)
	*cp.EstimateMinutes = 99
	cp.Subtasks[0].Done = true

	if !it.DueDate.Equal(due) || *it.EstimateMinutes != 15 || it.Subtasks[0].Done {
		t.Fatalf("clone shares memory with the original")
	}
}
