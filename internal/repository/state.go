package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"task-keeper/internal/model"
	"task-keeper/internal/store"
)

// ItemRow is the persisted form of an item, tagged with the collection that
// holds it and its position within that collection.
type ItemRow struct {
	ID               string `gorm:"primaryKey"`
	Kind             string `gorm:"index"`
	Collection       string `gorm:"index"`
	Position         int
	Title            string
	Notes            string
	Priority         int
	DueDate          *time.Time
	EstimateMinutes  *int
	ScheduledDate    *time.Time
	Status           string
	Subtasks         []model.Subtask `gorm:"serializer:json"`
	CreatedAt        time.Time
	LastPriorityBump time.Time
	DependencyID     *string
	LastWorkedAt     *time.Time
	SeriesID         *string
}

// SeriesRow is the persisted form of a recurring series.
type SeriesRow struct {
	ID            string `gorm:"primaryKey"`
	Kind          string `gorm:"index"`
	Position      int
	Title         string
	Priority      int
	Mode          string
	IntervalDays  int
	Weekdays      []time.Weekday `gorm:"serializer:json"`
	DueOffsetDays *int
	LastGenerated time.Time
}

// AppStateRow holds the single row of app-level state.
type AppStateRow struct {
	ID          uint `gorm:"primaryKey"`
	SelectedTab string
}

// StateRepository persists the whole board as one document: every save
// rewrites all rows in a single transaction.
type StateRepository struct {
	db *gorm.DB
}

func NewStateRepository(db *gorm.DB) *StateRepository {
	return &StateRepository{db: db}
}

// Save rewrites the persisted document from the snapshot.
func (r *StateRepository) Save(ctx context.Context, snap *store.State) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&ItemRow{}).Error; err != nil {
			return err
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&SeriesRow{}).Error; err != nil {
			return err
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&AppStateRow{}).Error; err != nil {
			return err
		}

		for kind, ls := range snap.Lists {
			for _, group := range []struct {
				collection store.Collection
				items      []*model.Item
			}{
				{store.CollectionBacklog, ls.Backlog},
				{store.CollectionWorking, ls.Working},
				{store.CollectionGraveyard, ls.Graveyard},
				{store.CollectionScheduled, ls.Scheduled},
			} {
				for pos, it := range group.items {
					row := itemToRow(it, kind, group.collection, pos)
					if err := tx.Create(&row).Error; err != nil {
						return err
					}
				}
			}
			for pos, s := range ls.Series {
				row := seriesToRow(s, kind, pos)
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
			}
		}

		return tx.Create(&AppStateRow{ID: 1, SelectedTab: string(snap.SelectedTab)}).Error
	})
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// Load rebuilds the board from persisted rows. Missing or unreadable state
// yields a fresh empty board (the first-run default), never an error the
// caller has to handle as fatal.
func (r *StateRepository) Load(ctx context.Context) *store.State {
	snap := store.NewState()

	var appState AppStateRow
	if err := r.db.WithContext(ctx).First(&appState).Error; err == nil {
		if tab := model.ListKind(appState.SelectedTab); tab.IsValid() {
			snap.SelectedTab = tab
		}
	}

	var itemRows []ItemRow
	if err := r.db.WithContext(ctx).Order("position").Find(&itemRows).Error; err != nil {
		return store.NewState()
	}
	for _, row := range itemRows {
		kind := model.ListKind(row.Kind)
		if !kind.IsValid() {
			continue
		}
		ls := snap.List(kind)
		it := rowToItem(row, kind)
		switch store.Collection(row.Collection) {
		case store.CollectionBacklog:
			ls.Backlog = append(ls.Backlog, it)
		case store.CollectionWorking:
			ls.Working = append(ls.Working, it)
		case store.CollectionGraveyard:
			ls.Graveyard = append(ls.Graveyard, it)
		case store.CollectionScheduled:
			ls.Scheduled = append(ls.Scheduled, it)
		}
	}

	var seriesRows []SeriesRow
	if err := r.db.WithContext(ctx).Order("position").Find(&seriesRows).Error; err != nil {
		return store.NewState()
	}
	for _, row := range seriesRows {
		kind := model.ListKind(row.Kind)
		if !kind.IsValid() {
			continue
		}
		ls := snap.List(kind)
		ls.Series = append(ls.Series, rowToSeries(row, kind))
	}

	return snap
}

// Reset deletes all persisted state.
func (r *StateRepository) Reset(ctx context.Context) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []interface{}{&ItemRow{}, &SeriesRow{}, &AppStateRow{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("reset state: %w", err)
	}
	return nil
}

func itemToRow(it *model.Item, kind model.ListKind, collection store.Collection, pos int) ItemRow {
	return ItemRow{
		ID:               it.ID,
		Kind:             string(kind),
		Collection:       string(collection),
		Position:         pos,
		Title:            it.Title,
		Notes:            it.Notes,
		Priority:         it.Priority,
		DueDate:          it.DueDate,
		EstimateMinutes:  it.EstimateMinutes,
		ScheduledDate:    it.ScheduledDate,
		Status:           string(it.Status),
		Subtasks:         it.Subtasks,
		CreatedAt:        it.CreatedAt,
		LastPriorityBump: it.LastPriorityBump,
		DependencyID:     it.DependencyID,
		LastWorkedAt:     it.LastWorkedAt,
		SeriesID:         it.SeriesID,
	}
}

func rowToItem(row ItemRow, kind model.ListKind) *model.Item {
	return &model.Item{
		ID:               row.ID,
		Kind:             kind,
		Title:            row.Title,
		Notes:            row.Notes,
		Priority:         row.Priority,
		DueDate:          row.DueDate,
		EstimateMinutes:  row.EstimateMinutes,
		ScheduledDate:    row.ScheduledDate,
		Status:           model.Status(row.Status),
		Subtasks:         row.Subtasks,
		CreatedAt:        row.CreatedAt,
		LastPriorityBump: row.LastPriorityBump,
		DependencyID:     row.DependencyID,
		LastWorkedAt:     row.LastWorkedAt,
		SeriesID:         row.SeriesID,
	}
}

func seriesToRow(s *model.RecurringSeries, kind model.ListKind, pos int) SeriesRow {
	return SeriesRow{
		ID:            s.ID,
		Kind:          string(kind),
		Position:      pos,
		Title:         s.Title,
		Priority:      s.Priority,
		Mode:          string(s.Mode),
		IntervalDays:  s.IntervalDays,
		Weekdays:      s.Weekdays,
		DueOffsetDays: s.DueOffsetDays,
		LastGenerated: s.LastGenerated,
	}
}

func rowToSeries(row SeriesRow, kind model.ListKind) *model.RecurringSeries {
	return &model.RecurringSeries{
		ID:            row.ID,
		Kind:          kind,
		Title:         row.Title,
		Priority:      row.Priority,
		Mode:          model.FrequencyMode(row.Mode),
		IntervalDays:  row.IntervalDays,
		Weekdays:      row.Weekdays,
		DueOffsetDays: row.DueOffsetDays,
		LastGenerated: row.LastGenerated,
	}
}
