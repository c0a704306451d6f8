package model

import "time"

// FrequencyMode selects how a recurring series computes its next occurrence.
type FrequencyMode string

const (
	// FrequencyEveryNDays repeats a fixed number of days after the last
	// generation.
	FrequencyEveryNDays FrequencyMode = "everyNDays"
	// FrequencyWeeklyOnDays repeats on a fixed set of weekdays.
	FrequencyWeeklyOnDays FrequencyMode = "weeklyOnDays"
)

func (m FrequencyMode) IsValid() bool {
	switch m {
	case FrequencyEveryNDays, FrequencyWeeklyOnDays:
		return true
	default:
		return false
	}
}

// RecurringSeries is a template that periodically spawns concrete items.
// LastGenerated is advanced only by the recurrence engine on successful
// generation, never when it merely re-reminds about an unresolved instance.
type RecurringSeries struct {
	ID            string
	Kind          ListKind
	Title         string
	Priority      int
	Mode          FrequencyMode
	IntervalDays  int
	Weekdays      []time.Weekday
	DueOffsetDays *int
	LastGenerated time.Time
}

func (s *RecurringSeries) HasWeekday(d time.Weekday) bool {
	for _, wd := range s.Weekdays {
		if wd == d {
			return true
		}
	}
	return false
}

func (s *RecurringSeries) Clone() *RecurringSeries {
	cp := *s
	if s.Weekdays != nil {
		cp.Weekdays = append([]time.Weekday(nil), s.Weekdays...)
	}
	cp.DueOffsetDays = cloneInt(s.DueOffsetDays)
	return &cp
}
