package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// SchedulerService wraps cron-based jobs: the fixed-time daily reminders and
// the periodic tick. The cron instance is process-scoped and rebuilt on every
// launch, so registrations are naturally idempotent — a new launch replaces
// whatever the previous process had registered.
type SchedulerService struct {
	cron *cron.Cron
}

func NewSchedulerService(loc *time.Location) *SchedulerService {
	return &SchedulerService{
		cron: cron.New(cron.WithLocation(loc), cron.WithSeconds()),
	}
}

// ScheduleDailyAt registers the same job at each of the given HH:MM times.
// Used for the two fixed daily reminder slots.
func (s *SchedulerService) ScheduleDailyAt(times []string, job func()) error {
	for _, timeStr := range times {
		spec, err := buildDailySpec(timeStr)
		if err != nil {
			return err
		}
		if _, err := s.cron.AddFunc(spec, job); err != nil {
			return fmt.Errorf("schedule daily at %s: %w", timeStr, err)
		}
	}
	return nil
}

// ScheduleEvery registers a periodic job.
func (s *SchedulerService) ScheduleEvery(interval time.Duration, job func()) error {
	if interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}
	seconds := int(interval.Seconds())
	if seconds <= 0 {
		seconds = 1
	}
	if _, err := s.cron.AddFunc(fmt.Sprintf("@every %ds", seconds), job); err != nil {
		return fmt.Errorf("schedule every %s: %w", interval, err)
	}
	return nil
}

func (s *SchedulerService) Start() {
	s.cron.Start()
}

func (s *SchedulerService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func buildDailySpec(timeStr string) (string, error) {
	parts := strings.Split(timeStr, ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid time %q, expected HH:MM", timeStr)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid hour in %q", timeStr)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute in %q", timeStr)
	}
	// cron format: second minute hour dom month dow
	return fmt.Sprintf("0 %d %d * * *", minute, hour), nil
}
