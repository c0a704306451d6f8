package service

import (
	"testing"
	"time"
)

func TestBuildDailySpec(t *testing.T) {
	spec, err := buildDailySpec("09:05")
	if err != nil {
		t.Fatalf("buildDailySpec: %v", err)
	}
	if spec != "0 5 9 * * *" {
		t.Fatalf("spec=%q, want %q", spec, "0 5 9 * * *")
	}

	for _, bad := range []string{"", "9", "25:00", "10:61", "aa:bb", "10:00:00"} {
		if _, err := buildDailySpec(bad); err == nil {
			t.Fatalf("buildDailySpec(%q) must fail", bad)
		}
	}
}

func TestScheduleEveryRejectsNonPositiveInterval(t *testing.T) {
	s := NewSchedulerService(time.UTC)
	if err := s.ScheduleEvery(0, func() {}); err == nil {
		t.Fatalf("zero interval must be rejected")
	}
	if err := s.ScheduleEvery(-time.Minute, func() {}); err == nil {
		t.Fatalf("negative interval must be rejected")
	}
	if err := s.ScheduleEvery(30*time.Minute, func() {}); err != nil {
		t.Fatalf("ScheduleEvery: %v", err)
	}
}

func TestScheduleDailyAtRegistersBothSlots(t *testing.T) {
	s := NewSchedulerService(time.UTC)
	if err := s.ScheduleDailyAt([]string{"09:00", "19:00"}, func() {}); err != nil {
		t.Fatalf("ScheduleDailyAt: %v", err)
	}
	if err := s.ScheduleDailyAt([]string{"09:00", "bogus"}, func() {}); err == nil {
		t.Fatalf("invalid time must be rejected")
	}
}
