package store

import "task-keeper/internal/model"

// FindWorking returns the working item with the given id, or nil.
func (ls *ListState) FindWorking(id string) *model.Item {
	return findByID(ls.Working, id)
}

// FindWorkingBySeries returns the first working item spawned from the given
// series, or nil. Status does not matter: an onHold instance still blocks
// re-generation.
func (ls *ListState) FindWorkingBySeries(seriesID string) *model.Item {
	return findBySeries(ls.Working, seriesID)
}

// FindLiveBySeries returns the first non-completed item spawned from the
// given series, looking across working, scheduled, and backlog. A deferred or
// restored instance is still unresolved and must keep blocking generation, or
// its later promotion would put two live items of the same series in the
// working set.
func (ls *ListState) FindLiveBySeries(seriesID string) *model.Item {
	for _, items := range [][]*model.Item{ls.Working, ls.Scheduled, ls.Backlog} {
		if it := findBySeries(items, seriesID); it != nil {
			return it
		}
	}
	return nil
}

func findBySeries(items []*model.Item, seriesID string) *model.Item {
	for _, it := range items {
		if it.SeriesID != nil && *it.SeriesID == seriesID {
			return it
		}
	}
	return nil
}

// Find locates an item in any of the four collections and reports which one
// holds it.
func (ls *ListState) Find(id string) (*model.Item, Collection) {
	for _, c := range []struct {
		items []*model.Item
		name  Collection
	}{
		{ls.Backlog, CollectionBacklog},
		{ls.Working, CollectionWorking},
		{ls.Graveyard, CollectionGraveyard},
		{ls.Scheduled, CollectionScheduled},
	} {
		if it := findByID(c.items, id); it != nil {
			return it, c.name
		}
	}
	return nil, ""
}

// Remove takes the item out of whichever collection holds it and returns it.
// The remove-then-insert pair in the callers is what keeps membership
// exclusive: an item is never in two collections at once.
func (ls *ListState) Remove(id string) *model.Item {
	if it := removeByID(&ls.Backlog, id); it != nil {
		return it
	}
	if it := removeByID(&ls.Working, id); it != nil {
		return it
	}
	if it := removeByID(&ls.Graveyard, id); it != nil {
		return it
	}
	return removeByID(&ls.Scheduled, id)
}

// PushWorkingFront inserts at the head of the working set, where freshly
// generated and freshly promoted items land.
func (ls *ListState) PushWorkingFront(it *model.Item) {
	ls.Working = append([]*model.Item{it}, ls.Working...)
}

// FindSeries returns the series with the given id, or nil.
func (ls *ListState) FindSeries(id string) *model.RecurringSeries {
	for _, s := range ls.Series {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// RemoveSeries deletes the series definition. Cascading item removal is the
// caller's job.
func (ls *ListState) RemoveSeries(id string) *model.RecurringSeries {
	for i, s := range ls.Series {
		if s.ID == id {
			ls.Series = append(ls.Series[:i], ls.Series[i+1:]...)
			return s
		}
	}
	return nil
}

// RemoveItemsBySeries drops every item referencing the series from all four
// collections and returns how many were removed.
func (ls *ListState) RemoveItemsBySeries(seriesID string) int {
	n := 0
	for _, items := range []*[]*model.Item{&ls.Backlog, &ls.Working, &ls.Graveyard, &ls.Scheduled} {
		kept := (*items)[:0]
		for _, it := range *items {
			if it.SeriesID != nil && *it.SeriesID == seriesID {
				n++
				continue
			}
			kept = append(kept, it)
		}
		*items = kept
	}
	return n
}

// Live returns backlog plus working items, the populations subject to
// priority aging and dependency unblocking.
func (ls *ListState) Live() []*model.Item {
	out := make([]*model.Item, 0, len(ls.Backlog)+len(ls.Working))
	out = append(out, ls.Working...)
	out = append(out, ls.Backlog...)
	return out
}

func findByID(items []*model.Item, id string) *model.Item {
	for _, it := range items {
		if it.ID == id {
			return it
		}
	}
	return nil
}

func removeByID(items *[]*model.Item, id string) *model.Item {
	for i, it := range *items {
		if it.ID == id {
			*items = append((*items)[:i], (*items)[i+1:]...)
			return it
		}
	}
	return nil
}
