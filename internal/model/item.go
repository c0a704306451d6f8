package model

import "time"

// ListKind separates the two curated boards the app presents.
type ListKind string

const (
	ListKindTask ListKind = "task"
	ListKindIdea ListKind = "idea"
)

func (k ListKind) IsValid() bool {
	switch k {
	case ListKindTask, ListKindIdea:
		return true
	default:
		return false
	}
}

// Kinds lists every board kind in presentation order.
func Kinds() []ListKind {
	return []ListKind{ListKindTask, ListKindIdea}
}

// Status is the lifecycle state of a live item. Completed items carry no
// status flag; membership in the graveyard collection is what marks them done.
type Status string

const (
	StatusActive Status = "active"
	StatusOnHold Status = "onHold"
)

const (
	PriorityMin = 1
	PriorityMax = 5
	// PriorityAgingCap is the highest priority automatic aging can reach.
	// Priority 5 is reserved for manual escalation.
	PriorityAgingCap = 4
)

// Subtask is a checklist entry inside an item.
type Subtask struct {
	ID    string
	Title string
	Done  bool
}

// Item is a single task or idea.
type Item struct {
	ID               string
	Kind             ListKind
	Title            string
	Notes            string
	Priority         int
	DueDate          *time.Time
	EstimateMinutes  *int
	ScheduledDate    *time.Time
	Status           Status
	Subtasks         []Subtask
	CreatedAt        time.Time
	LastPriorityBump time.Time
	DependencyID     *string
	LastWorkedAt     *time.Time
	SeriesID         *string
}

// Clone returns a deep copy, so snapshots handed to readers never alias
// store-owned state.
func (it *Item) Clone() *Item {
	cp := *it
	cp.DueDate = cloneTime(it.DueDate)
	cp.ScheduledDate = cloneTime(it.ScheduledDate)
	cp.LastWorkedAt = cloneTime(it.LastWorkedAt)
	cp.EstimateMinutes = cloneInt(it.EstimateMinutes)
	cp.DependencyID = cloneString(it.DependencyID)
	cp.SeriesID = cloneString(it.SeriesID)
	if it.Subtasks != nil {
		cp.Subtasks = append([]Subtask(nil), it.Subtasks...)
	}
	return &cp
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneInt(n *int) *int {
	if n == nil {
		return nil
	}
	v := *n
	return &v
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
